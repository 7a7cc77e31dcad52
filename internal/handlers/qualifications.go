// Copyright 2025 The ephios team
// Licensed under the MIT license

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/olewun/ephios/internal/i18n"
	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/services/qualifications"
	"github.com/olewun/ephios/internal/services/session"
	"github.com/olewun/ephios/internal/templates"
)

// QualificationHandlers contains handlers for the qualification catalog.
type QualificationHandlers struct {
	repo           *repository.Repository
	qualifications *qualifications.Service
	sessions       *session.Manager
}

// NewQualifications creates a new QualificationHandlers instance.
func NewQualifications(repo *repository.Repository, svc *qualifications.Service, sess *session.Manager) *QualificationHandlers {
	return &QualificationHandlers{
		repo:           repo,
		qualifications: svc,
		sessions:       sess,
	}
}

// List renders the catalog grouped by category.
func (h *QualificationHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.repo.ListQualificationCategories(ctx)
	if err != nil {
		return err
	}
	all, err := h.repo.ListQualifications(ctx)
	if err != nil {
		return err
	}

	byCategory := map[int64][]models.Qualification{}
	for _, q := range all {
		byCategory[q.CategoryID] = append(byCategory[q.CategoryID], q)
	}

	groups := make([]templates.CategoryGroup, 0, len(categories))
	for _, cat := range categories {
		qs := byCategory[cat.ID]
		if len(qs) == 0 {
			continue
		}
		groups = append(groups, templates.CategoryGroup{Category: cat, Qualifications: qs})
	}

	return Render(c, http.StatusOK, templates.QualificationList(groups))
}

// CreatePage renders the create form.
func (h *QualificationHandlers) CreatePage(c echo.Context) error {
	return h.renderForm(c, nil)
}

// Create adds a new qualification to the catalog.
func (h *QualificationHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	q, includedIDs, err := h.parseForm(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	q.UUID = uuid.NewString()

	if err := h.repo.CreateQualification(ctx, q); err != nil {
		return err
	}
	if err := h.repo.SetQualificationInclusions(ctx, q.ID, includedIDs); err != nil {
		return err
	}

	h.sessions.AddFlash(c, session.FlashSuccess, i18n.T(ctx, "qualification_created"))
	return c.Redirect(http.StatusSeeOther, "/qualifications")
}

// EditPage renders the edit form.
func (h *QualificationHandlers) EditPage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	q, err := h.repo.GetQualificationByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return h.renderForm(c, q)
}

// Edit updates a qualification.
func (h *QualificationHandlers) Edit(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	existing, err := h.repo.GetQualificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}

	q, includedIDs, err := h.parseForm(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	q.ID = existing.ID
	q.UUID = existing.UUID

	if err := h.repo.UpdateQualification(ctx, q); err != nil {
		return err
	}
	if err := h.repo.SetQualificationInclusions(ctx, q.ID, includedIDs); err != nil {
		return err
	}

	h.sessions.AddFlash(c, session.FlashSuccess, i18n.T(ctx, "qualification_updated"))
	return c.Redirect(http.StatusSeeOther, "/qualifications")
}

// Delete removes a qualification along with its grants and inclusions.
func (h *QualificationHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	if err := h.repo.DeleteQualification(ctx, id); err != nil {
		return err
	}

	h.sessions.AddFlash(c, session.FlashSuccess, i18n.T(ctx, "qualification_deleted"))
	return c.Redirect(http.StatusSeeOther, "/qualifications")
}

// ImportPage renders the fixture import form.
func (h *QualificationHandlers) ImportPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.QualificationImport(qualifications.ListFixtures()))
}

// Import loads a fixture set into the catalog. Importing the same set
// again updates existing entries instead of duplicating them.
func (h *QualificationHandlers) Import(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.qualifications.ImportFixture(ctx, c.FormValue("fixture"))
	if err != nil {
		if errors.Is(err, qualifications.ErrUnknownFixture) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown fixture")
		}
		return err
	}

	h.sessions.AddFlash(c, session.FlashSuccess, i18n.TData(ctx, "qualification_imported", map[string]any{
		"Created": result.QualificationsCreated,
		"Updated": result.QualificationsUpdated,
	}))
	return c.Redirect(http.StatusSeeOther, "/qualifications")
}

// ReassignPage renders the grant reassignment form.
func (h *QualificationHandlers) ReassignPage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	source, err := h.repo.GetQualificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	grantCount, err := h.repo.CountGrants(ctx, id)
	if err != nil {
		return err
	}
	targets, err := h.repo.ListQualifications(ctx)
	if err != nil {
		return err
	}

	return Render(c, http.StatusOK, templates.QualificationReassign(source, grantCount, targets))
}

// Reassign moves all grants of a qualification to the selected targets.
func (h *QualificationHandlers) Reassign(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	targetIDs := make([]int64, 0, len(form["target_ids"]))
	for _, raw := range form["target_ids"] {
		targetID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid target")
		}
		targetIDs = append(targetIDs, targetID)
	}
	deleteSource := c.FormValue("delete_source") == "1"

	result, err := h.qualifications.Reassign(ctx, id, targetIDs, deleteSource)
	if err != nil {
		if errors.Is(err, qualifications.ErrInvalidTarget) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid target")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}

	h.sessions.AddFlash(c, session.FlashSuccess, i18n.TData(ctx, "qualification_reassigned", map[string]any{
		"Moved":   result.GrantsMoved,
		"Skipped": result.GrantsSkipped,
	}))
	return c.Redirect(http.StatusSeeOther, "/qualifications")
}

func (h *QualificationHandlers) renderForm(c echo.Context, q *models.Qualification) error {
	ctx := c.Request().Context()

	categories, err := h.repo.ListQualificationCategories(ctx)
	if err != nil {
		return err
	}
	all, err := h.repo.ListQualifications(ctx)
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.QualificationForm(q, categories, all))
}

func (h *QualificationHandlers) parseForm(c echo.Context) (*models.Qualification, []int64, error) {
	title := c.FormValue("title")
	abbreviation := c.FormValue("abbreviation")
	if title == "" || abbreviation == "" {
		return nil, nil, errors.New("title and abbreviation are required")
	}

	categoryID, err := strconv.ParseInt(c.FormValue("category_id"), 10, 64)
	if err != nil {
		return nil, nil, err
	}

	form, err := c.FormParams()
	if err != nil {
		return nil, nil, err
	}
	includedIDs := make([]int64, 0, len(form["included_ids"]))
	for _, raw := range form["included_ids"] {
		includedID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			return nil, nil, parseErr
		}
		includedIDs = append(includedIDs, includedID)
	}

	return &models.Qualification{
		Title:        title,
		Abbreviation: abbreviation,
		CategoryID:   categoryID,
	}, includedIDs, nil
}
