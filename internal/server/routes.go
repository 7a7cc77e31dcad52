// Copyright 2025 The ephios team
// Licensed under the MIT license

package server

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"

	"github.com/olewun/ephios/internal/handlers"
	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/services/auth"
	"github.com/olewun/ephios/internal/services/consequences"
	"github.com/olewun/ephios/internal/services/email"
	"github.com/olewun/ephios/internal/services/oauth"
	"github.com/olewun/ephios/internal/services/qualifications"
	"github.com/olewun/ephios/internal/services/session"
	"github.com/olewun/ephios/internal/services/users"
)

// services bundles everything the route handlers depend on.
type services struct {
	repo           *repository.Repository
	sessions       *session.Manager
	auth           *auth.Service
	email          *email.Service
	users          *users.Service
	qualifications *qualifications.Service
	oauth          *oauth.Service
	consequences   *consequences.Service
}

func setupRoutes(e *echo.Echo, s *services) {
	h := handlers.New(s.repo)
	authH := handlers.NewAuth(s.repo, s.auth, s.email, s.sessions)
	qualH := handlers.NewQualifications(s.repo, s.qualifications, s.sessions)
	userH := handlers.NewUsers(s.repo, s.users, s.sessions)
	oauthH := handlers.NewOAuth(s.repo, s.oauth, s.sessions)
	whH := handlers.NewWorkingHours(s.repo, s.consequences, s.sessions)
	consH := handlers.NewConsequences(s.consequences, s.sessions)

	e.Static("/static", "static")
	e.GET("/health", h.Health)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/", h.Home)

	// Anonymous
	authGroup := e.Group("/auth")
	authGroup.GET("/login", authH.LoginPage)
	authGroup.POST("/login", authH.Login)
	authGroup.POST("/logout", authH.Logout)
	authGroup.GET("/password-reset", authH.PasswordResetPage)
	authGroup.POST("/password-reset", authH.PasswordReset)
	authGroup.GET("/password-reset/confirm", authH.PasswordResetConfirmPage)
	authGroup.POST("/password-reset/confirm", authH.PasswordResetConfirm)

	// Authenticated users
	app := e.Group("", requireAuth())

	wh := app.Group("/workinghours")
	wh.GET("/own", whH.Own)
	wh.GET("/request", whH.RequestPage)
	wh.POST("/request", whH.Request)

	settings := app.Group("/settings/oauth")
	settings.GET("", oauthH.List)
	settings.GET("/register", oauthH.RegisterPage)
	settings.POST("/register", oauthH.Register)
	settings.GET("/:id/edit", oauthH.EditPage)
	settings.POST("/:id/edit", oauthH.Edit)
	settings.POST("/:id/delete", oauthH.Delete)

	// Staff only
	staff := app.Group("", requireStaff())

	staff.GET("/workinghours", whH.Overview)
	staff.GET("/workinghours/:id/edit", whH.EditPage)
	staff.POST("/workinghours/:id/edit", whH.Edit)
	staff.POST("/workinghours/:id/delete", whH.Delete)
	staff.POST("/consequences/:id", consH.Decide)

	staff.GET("/qualifications", qualH.List)
	staff.GET("/qualifications/create", qualH.CreatePage)
	staff.POST("/qualifications/create", qualH.Create)
	staff.GET("/qualifications/:id/edit", qualH.EditPage)
	staff.POST("/qualifications/:id/edit", qualH.Edit)
	staff.POST("/qualifications/:id/delete", qualH.Delete)
	staff.GET("/qualifications/import", qualH.ImportPage)
	staff.POST("/qualifications/import", qualH.Import)
	staff.GET("/qualifications/:id/reassign", qualH.ReassignPage)
	staff.POST("/qualifications/:id/reassign", qualH.Reassign)

	staff.GET("/users", userH.List)
	staff.GET("/users/create", userH.CreatePage)
	staff.POST("/users/create", userH.Create)
	staff.GET("/users/:id/edit", userH.EditPage)
	staff.POST("/users/:id/edit", userH.Edit)
	staff.POST("/users/:id/delete", userH.Delete)
}
