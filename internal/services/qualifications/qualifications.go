// Copyright 2025 The ephios team
// Licensed under the MIT license

// Package qualifications implements the catalog operations that go beyond
// plain CRUD: importing the built-in fixture sets and reassigning grants
// between qualifications.
package qualifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olewun/ephios/internal/metrics"
	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/repository"
)

var (
	// ErrUnknownFixture is returned when no fixture set with the given
	// name is embedded.
	ErrUnknownFixture = errors.New("unknown fixture")
	// ErrInvalidTarget is returned for reassignments onto the source
	// itself or with no targets at all.
	ErrInvalidTarget = errors.New("invalid reassignment target")
)

// Service bundles catalog operations on top of the repository.
type Service struct {
	repo *repository.Repository
}

// NewService creates a qualifications service.
func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// ImportResult reports what an import changed.
type ImportResult struct {
	CategoriesCreated     int
	QualificationsCreated int
	QualificationsUpdated int
}

// ImportFixture imports the named built-in fixture set. Matching is by
// uuid, so re-importing is idempotent: existing records are updated in
// place, missing ones created. Inclusion links are resolved in a second
// pass once every qualification of the set exists.
func (s *Service) ImportFixture(ctx context.Context, name string) (*ImportResult, error) {
	fixture, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	categoryIDs := make(map[string]int64, len(fixture.Categories))

	for _, fc := range fixture.Categories {
		cat, err := s.repo.GetQualificationCategoryByUUID(ctx, fc.UUID)
		if errors.Is(err, repository.ErrNotFound) {
			cat = &models.QualificationCategory{UUID: fc.UUID, Title: fc.Title}
			if err := s.repo.CreateQualificationCategory(ctx, cat); err != nil {
				return nil, fmt.Errorf("failed to create category %q: %w", fc.Title, err)
			}
			result.CategoriesCreated++
		} else if err != nil {
			return nil, err
		}
		categoryIDs[fc.UUID] = cat.ID
	}

	qualificationIDs := make(map[string]int64, len(fixture.Qualifications))
	for _, fq := range fixture.Qualifications {
		categoryID, ok := categoryIDs[fq.Category]
		if !ok {
			return nil, fmt.Errorf("qualification %q references unknown category %q", fq.Title, fq.Category)
		}

		q, err := s.repo.GetQualificationByUUID(ctx, fq.UUID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			q = &models.Qualification{
				UUID:         fq.UUID,
				Title:        fq.Title,
				Abbreviation: fq.Abbreviation,
				CategoryID:   categoryID,
			}
			if err := s.repo.CreateQualification(ctx, q); err != nil {
				return nil, fmt.Errorf("failed to create qualification %q: %w", fq.Title, err)
			}
			result.QualificationsCreated++
		case err != nil:
			return nil, err
		default:
			q.Title = fq.Title
			q.Abbreviation = fq.Abbreviation
			q.CategoryID = categoryID
			if err := s.repo.UpdateQualification(ctx, q); err != nil {
				return nil, fmt.Errorf("failed to update qualification %q: %w", fq.Title, err)
			}
			result.QualificationsUpdated++
		}
		qualificationIDs[fq.UUID] = q.ID
	}

	// Second pass: inclusion links, now that every uuid resolves.
	for _, fq := range fixture.Qualifications {
		includedIDs := make([]int64, 0, len(fq.Includes))
		for _, includedUUID := range fq.Includes {
			id, ok := qualificationIDs[includedUUID]
			if !ok {
				return nil, fmt.Errorf("qualification %q includes unknown uuid %q", fq.Title, includedUUID)
			}
			includedIDs = append(includedIDs, id)
		}
		if err := s.repo.SetQualificationInclusions(ctx, qualificationIDs[fq.UUID], includedIDs); err != nil {
			return nil, fmt.Errorf("failed to set inclusions for %q: %w", fq.Title, err)
		}
	}

	imported := result.QualificationsCreated + result.QualificationsUpdated
	metrics.QualificationsImportedTotal.Add(float64(imported))
	slog.Info("fixture_imported", "fixture", name,
		"categories_created", result.CategoriesCreated,
		"qualifications_created", result.QualificationsCreated,
		"qualifications_updated", result.QualificationsUpdated)

	return result, nil
}

// ReassignResult reports what a reassignment changed.
type ReassignResult struct {
	GrantsMoved   int
	GrantsSkipped int
	SourceDeleted bool
}

// Reassign moves every grant of the source qualification onto each of the
// target qualifications. Users who already hold a target keep their
// existing grant (no duplicates). When deleteSource is set, the source
// qualification is removed afterwards along with its remaining grants.
func (s *Service) Reassign(ctx context.Context, sourceID int64, targetIDs []int64, deleteSource bool) (*ReassignResult, error) {
	if len(targetIDs) == 0 && !deleteSource {
		return nil, fmt.Errorf("%w: no targets and source kept", ErrInvalidTarget)
	}
	for _, targetID := range targetIDs {
		if targetID == sourceID {
			return nil, fmt.Errorf("%w: cannot reassign onto itself", ErrInvalidTarget)
		}
		if _, err := s.repo.GetQualificationByID(ctx, targetID); err != nil {
			return nil, err
		}
	}

	grants, err := s.repo.GetGrantsByQualification(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	result := &ReassignResult{}
	for _, grant := range grants {
		for _, targetID := range targetIDs {
			exists, err := s.repo.GrantExists(ctx, grant.UserID, targetID)
			if err != nil {
				return nil, err
			}
			if exists {
				result.GrantsSkipped++
				continue
			}
			newGrant := &models.QualificationGrant{
				UserID:          grant.UserID,
				QualificationID: targetID,
				Expires:         grant.Expires,
			}
			if err := s.repo.CreateQualificationGrant(ctx, newGrant); err != nil {
				return nil, err
			}
			result.GrantsMoved++
		}
		if !deleteSource {
			if err := s.repo.DeleteQualificationGrant(ctx, grant.ID); err != nil {
				return nil, err
			}
		}
	}

	if deleteSource {
		if err := s.repo.DeleteQualification(ctx, sourceID); err != nil {
			return nil, err
		}
		result.SourceDeleted = true
	}

	slog.Info("qualification_reassigned", "source_id", sourceID,
		"moved", result.GrantsMoved, "skipped", result.GrantsSkipped,
		"source_deleted", result.SourceDeleted)

	return result, nil
}
