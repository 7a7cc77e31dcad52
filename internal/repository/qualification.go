// Copyright 2025 The ephios team
// Licensed under the MIT license

package repository

import (
	"context"

	"github.com/olewun/ephios/internal/models"
)

// CreateQualificationCategory inserts a category and sets its ID.
func (r *Repository) CreateQualificationCategory(ctx context.Context, cat *models.QualificationCategory) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO qualification_categories (uuid, title) VALUES (?, ?)`,
		cat.UUID, cat.Title)
	if err != nil {
		return err
	}
	cat.ID, err = res.LastInsertId()
	return err
}

// GetQualificationCategoryByUUID retrieves a category by its uuid.
func (r *Repository) GetQualificationCategoryByUUID(ctx context.Context, uuid string) (*models.QualificationCategory, error) {
	var cat models.QualificationCategory
	err := r.db.GetContext(ctx, &cat, `SELECT * FROM qualification_categories WHERE uuid = ?`, uuid)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &cat, nil
}

// ListQualificationCategories returns all categories ordered by title.
func (r *Repository) ListQualificationCategories(ctx context.Context) ([]models.QualificationCategory, error) {
	var cats []models.QualificationCategory
	err := r.db.SelectContext(ctx, &cats, `SELECT * FROM qualification_categories ORDER BY title, id`)
	if err != nil {
		return nil, err
	}
	return cats, nil
}

// CreateQualification inserts a qualification and sets its ID. Inclusions
// are managed separately via SetQualificationInclusions.
func (r *Repository) CreateQualification(ctx context.Context, q *models.Qualification) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO qualifications (uuid, title, abbreviation, category_id) VALUES (?, ?, ?, ?)`,
		q.UUID, q.Title, q.Abbreviation, q.CategoryID)
	if err != nil {
		return err
	}
	q.ID, err = res.LastInsertId()
	return err
}

// GetQualificationByID retrieves a qualification with its included
// qualifications loaded.
func (r *Repository) GetQualificationByID(ctx context.Context, id int64) (*models.Qualification, error) {
	var q models.Qualification
	if err := r.db.GetContext(ctx, &q, `SELECT * FROM qualifications WHERE id = ?`, id); err != nil {
		return nil, wrapErr(err)
	}
	included, err := r.GetIncludedQualifications(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Included = included
	return &q, nil
}

// GetQualificationByUUID retrieves a qualification by its uuid, without
// loading inclusions.
func (r *Repository) GetQualificationByUUID(ctx context.Context, uuid string) (*models.Qualification, error) {
	var q models.Qualification
	if err := r.db.GetContext(ctx, &q, `SELECT * FROM qualifications WHERE uuid = ?`, uuid); err != nil {
		return nil, wrapErr(err)
	}
	return &q, nil
}

// UpdateQualification updates title, abbreviation and category.
func (r *Repository) UpdateQualification(ctx context.Context, q *models.Qualification) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE qualifications SET title = ?, abbreviation = ?, category_id = ? WHERE id = ?`,
		q.Title, q.Abbreviation, q.CategoryID, q.ID)
	return err
}

// DeleteQualification deletes a qualification. Grants and inclusion links
// cascade.
func (r *Repository) DeleteQualification(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM qualifications WHERE id = ?`, id)
	return err
}

// ListQualifications returns all qualifications ordered by category and
// title, with inclusions loaded.
func (r *Repository) ListQualifications(ctx context.Context) ([]models.Qualification, error) {
	var qs []models.Qualification
	err := r.db.SelectContext(ctx, &qs,
		`SELECT q.* FROM qualifications q
		 JOIN qualification_categories c ON c.id = q.category_id
		 ORDER BY c.title, q.title, q.id`)
	if err != nil {
		return nil, err
	}
	for i := range qs {
		included, err := r.GetIncludedQualifications(ctx, qs[i].ID)
		if err != nil {
			return nil, err
		}
		qs[i].Included = included
	}
	return qs, nil
}

// GetIncludedQualifications returns the qualifications directly included by
// the given one.
func (r *Repository) GetIncludedQualifications(ctx context.Context, id int64) ([]models.Qualification, error) {
	var qs []models.Qualification
	err := r.db.SelectContext(ctx, &qs,
		`SELECT q.* FROM qualifications q
		 JOIN qualification_inclusions i ON i.included_id = q.id
		 WHERE i.qualification_id = ?
		 ORDER BY q.title`, id)
	if err != nil {
		return nil, err
	}
	return qs, nil
}

// SetQualificationInclusions replaces the inclusion set of a qualification.
func (r *Repository) SetQualificationInclusions(ctx context.Context, id int64, includedIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM qualification_inclusions WHERE qualification_id = ?`, id); err != nil {
		return err
	}
	for _, includedID := range includedIDs {
		if includedID == id {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO qualification_inclusions (qualification_id, included_id) VALUES (?, ?)`,
			id, includedID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CreateQualificationGrant inserts a grant and sets its ID.
func (r *Repository) CreateQualificationGrant(ctx context.Context, g *models.QualificationGrant) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO qualification_grants (user_id, qualification_id, expires) VALUES (?, ?, ?)`,
		g.UserID, g.QualificationID, g.Expires)
	if err != nil {
		return err
	}
	g.ID, err = res.LastInsertId()
	return err
}

// UpdateQualificationGrantExpiry changes the expiry of a grant.
func (r *Repository) UpdateQualificationGrantExpiry(ctx context.Context, g *models.QualificationGrant) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE qualification_grants SET expires = ? WHERE id = ?`, g.Expires, g.ID)
	return err
}

// DeleteQualificationGrant removes a grant.
func (r *Repository) DeleteQualificationGrant(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM qualification_grants WHERE id = ?`, id)
	return err
}

// GetGrantsByUser returns all grants of a user.
func (r *Repository) GetGrantsByUser(ctx context.Context, userID int64) ([]models.QualificationGrant, error) {
	var grants []models.QualificationGrant
	err := r.db.SelectContext(ctx, &grants,
		`SELECT * FROM qualification_grants WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	return grants, nil
}

// GetGrantsByQualification returns all grants of a qualification.
func (r *Repository) GetGrantsByQualification(ctx context.Context, qualificationID int64) ([]models.QualificationGrant, error) {
	var grants []models.QualificationGrant
	err := r.db.SelectContext(ctx, &grants,
		`SELECT * FROM qualification_grants WHERE qualification_id = ? ORDER BY id`, qualificationID)
	if err != nil {
		return nil, err
	}
	return grants, nil
}

// GrantExists checks whether a user already holds a qualification.
func (r *Repository) GrantExists(ctx context.Context, userID, qualificationID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM qualification_grants WHERE user_id = ? AND qualification_id = ?)`,
		userID, qualificationID)
	return exists, err
}

// CountGrants returns the number of grants for a qualification.
func (r *Repository) CountGrants(ctx context.Context, qualificationID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM qualification_grants WHERE qualification_id = ?`, qualificationID)
	return count, err
}
