// Copyright 2025 The ephios team
// Licensed under the MIT license

package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/olewun/ephios/internal/i18n"
	"github.com/olewun/ephios/internal/models"
	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/services/session"
	"github.com/olewun/ephios/internal/services/users"
	"github.com/olewun/ephios/internal/templates"
)

// UserHandlers contains handlers for user profile management.
type UserHandlers struct {
	repo     *repository.Repository
	users    *users.Service
	sessions *session.Manager
}

// NewUsers creates a new UserHandlers instance.
func NewUsers(repo *repository.Repository, svc *users.Service, sess *session.Manager) *UserHandlers {
	return &UserHandlers{
		repo:     repo,
		users:    svc,
		sessions: sess,
	}
}

// List renders all user profiles.
func (h *UserHandlers) List(c echo.Context) error {
	profiles, err := h.repo.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.UserList(profiles))
}

// CreatePage renders the create form.
func (h *UserHandlers) CreatePage(c echo.Context) error {
	return h.renderForm(c, nil, nil)
}

// Create adds a new user profile. The user receives a mail with a link to
// set their initial password.
func (h *UserHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	profile, grants, err := h.parseForm(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}

	if _, err := h.users.Create(ctx, profile, grants); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			h.sessions.AddFlash(c, session.FlashError, i18n.T(ctx, "user_email_taken"))
			return h.renderForm(c, profile, nil)
		}
		return err
	}

	h.sessions.AddFlash(c, session.FlashSuccess, i18n.T(ctx, "user_created"))
	return c.Redirect(http.StatusSeeOther, "/users")
}

// EditPage renders the edit form with the user's qualification grants.
func (h *UserHandlers) EditPage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	profile, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return h.renderForm(c, profile, nil)
}

// Edit updates a user profile and reconciles the grant formset.
func (h *UserHandlers) Edit(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	existing, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}

	profile, grants, err := h.parseForm(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	profile.ID = existing.ID
	profile.PasswordHash = existing.PasswordHash

	if err := h.users.Update(ctx, profile, grants); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			h.sessions.AddFlash(c, session.FlashError, i18n.T(ctx, "user_email_taken"))
			return h.renderForm(c, profile, nil)
		}
		return err
	}

	h.sessions.AddFlash(c, session.FlashSuccess, i18n.T(ctx, "user_updated"))
	return c.Redirect(http.StatusSeeOther, "/users")
}

// Delete removes a user profile. Users cannot delete themselves.
func (h *UserHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	if current := currentUserID(c); current == id {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot delete your own account")
	}

	if err := h.repo.DeleteUser(ctx, id); err != nil {
		return err
	}

	h.sessions.AddFlash(c, session.FlashSuccess, i18n.T(ctx, "user_deleted"))
	return c.Redirect(http.StatusSeeOther, "/users")
}

func (h *UserHandlers) renderForm(c echo.Context, profile *models.UserProfile, grants []models.QualificationGrant) error {
	ctx := c.Request().Context()

	if profile != nil && profile.ID != 0 && grants == nil {
		var err error
		grants, err = h.repo.GetGrantsByUser(ctx, profile.ID)
		if err != nil {
			return err
		}
	}
	qualifications, err := h.repo.ListQualifications(ctx)
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.UserForm(profile, grants, qualifications))
}

func (h *UserHandlers) parseForm(c echo.Context) (*models.UserProfile, []users.GrantInput, error) {
	email := c.FormValue("email")
	displayName := c.FormValue("display_name")
	if email == "" || displayName == "" {
		return nil, nil, errors.New("email and display name are required")
	}

	profile := &models.UserProfile{
		Email:       email,
		DisplayName: displayName,
		Phone:       c.FormValue("phone"),
		IsActive:    c.FormValue("is_active") == "1",
		IsStaff:     c.FormValue("is_staff") == "1",
	}
	if dob := c.FormValue("date_of_birth"); dob != "" {
		parsed, err := time.Parse("2006-01-02", dob)
		if err != nil {
			return nil, nil, err
		}
		profile.DateOfBirth = &parsed
	}

	form, err := c.FormParams()
	if err != nil {
		return nil, nil, err
	}
	grants, err := parseGrantRows(form)
	if err != nil {
		return nil, nil, err
	}
	return profile, grants, nil
}

var grantRowPattern = regexp.MustCompile(`^grants\[(\d+)\]\.qualification$`)

// parseGrantRows collects the grant formset rows in row order. Rows with
// an empty qualification select are blank extras and skipped.
func parseGrantRows(form url.Values) ([]users.GrantInput, error) {
	rows := []int{}
	for key := range form {
		if m := grantRowPattern.FindStringSubmatch(key); m != nil {
			row, _ := strconv.Atoi(m[1])
			rows = append(rows, row)
		}
	}
	sort.Ints(rows)

	grants := make([]users.GrantInput, 0, len(rows))
	for _, row := range rows {
		prefix := "grants[" + strconv.Itoa(row) + "]"
		rawID := form.Get(prefix + ".qualification")
		if rawID == "" {
			continue
		}
		qualificationID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return nil, err
		}
		grant := users.GrantInput{QualificationID: qualificationID}
		if rawExpires := form.Get(prefix + ".expires"); rawExpires != "" {
			expires, err := time.Parse("2006-01-02", rawExpires)
			if err != nil {
				return nil, err
			}
			grant.Expires = &expires
		}
		grants = append(grants, grant)
	}
	return grants, nil
}
