// Copyright 2025 The ephios team
// Licensed under the MIT license

package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/olewun/ephios/internal/appcontext"
)

// Base wraps a page body in the application layout: header, navigation,
// flash messages, footer.
func Base(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<!DOCTYPE html><html lang="%s"><head><meta charset="utf-8">`, esc(Locale(ctx)))
		fmt.Fprint(w, `<meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(w, `<title>%s · %s</title>`, esc(title), esc(T(ctx, "app_title")))
		fmt.Fprint(w, `<link rel="stylesheet" href="/static/css/styles.css">`)
		fmt.Fprint(w, `<script src="/static/js/htmx.js" defer></script>`)
		fmt.Fprint(w, `</head><body>`)

		writeNav(ctx, w)
		writeFlashes(ctx, w)

		fmt.Fprint(w, `<main class="container">`)
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		fmt.Fprint(w, `</main></body></html>`)
		return nil
	})
}

func writeNav(ctx context.Context, w io.Writer) {
	fmt.Fprint(w, `<nav class="navbar">`)
	fmt.Fprintf(w, `<a class="brand" href="/">%s</a>`, esc(T(ctx, "app_title")))

	user := GetUser(ctx)
	if user == nil {
		fmt.Fprintf(w, `<a href="/auth/login">%s</a></nav>`, esc(T(ctx, "login_title")))
		return
	}

	fmt.Fprintf(w, `<a href="/workinghours/own">%s</a>`, esc(T(ctx, "workinghours_title")))
	fmt.Fprintf(w, `<a href="/settings/oauth">%s</a>`, esc(T(ctx, "oauth_title")))
	if user.IsStaff {
		fmt.Fprintf(w, `<a href="/workinghours">%s</a>`, esc(T(ctx, "workinghours_overview_title")))
		fmt.Fprintf(w, `<a href="/qualifications">%s</a>`, esc(T(ctx, "qualifications_title")))
		fmt.Fprintf(w, `<a href="/users">%s</a>`, esc(T(ctx, "users_title")))
	}
	fmt.Fprint(w, `<form method="post" action="/auth/logout" class="inline">`)
	csrfField(ctx, w)
	fmt.Fprintf(w, `<button type="submit">%s</button></form>`, esc(user.DisplayName))
	fmt.Fprint(w, `</nav>`)
}

func writeFlashes(ctx context.Context, w io.Writer) {
	flashes := appcontext.GetFlashes(ctx)
	if len(flashes) == 0 {
		return
	}
	fmt.Fprint(w, `<div class="messages">`)
	for _, flash := range flashes {
		fmt.Fprintf(w, `<div class="alert alert-%s">%s</div>`, esc(flash.Level), esc(flash.Message))
	}
	fmt.Fprint(w, `</div>`)
}

// ErrorPage renders a bare error page.
func ErrorPage(code int, message string) templ.Component {
	return Base(fmt.Sprintf("%d", code), templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%d</h1><p>%s</p>`, code, esc(message))
		return nil
	}))
}
