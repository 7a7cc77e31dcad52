// Copyright 2025 The ephios team
// Licensed under the MIT license

package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/olewun/ephios/internal/models"
)

// ApplicationList renders the user's registered OAuth2 applications.
func ApplicationList(apps []models.OAuthApplication) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1>`, esc(T(ctx, "oauth_title")))
		fmt.Fprint(w, `<p><a class="button" href="/settings/oauth/register">Register application</a></p>`)

		if len(apps) == 0 {
			fmt.Fprintf(w, `<p class="empty">%s</p>`, esc(T(ctx, "oauth_empty")))
			return nil
		}

		fmt.Fprint(w, `<table><thead><tr><th>Name</th><th>Client ID</th><th>Created</th><th></th></tr></thead><tbody>`)
		for _, app := range apps {
			fmt.Fprintf(w, `<tr><td>%s</td><td><code>%s</code></td><td>%s</td>`,
				esc(app.Name), esc(app.ClientID), app.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Fprintf(w, `<td><a href="/settings/oauth/%d/edit">Edit</a> `, app.ID)
			fmt.Fprintf(w, `<form method="post" action="/settings/oauth/%d/delete" class="inline">`, app.ID)
			csrfField(ctx, w)
			fmt.Fprint(w, `<button type="submit">Delete</button></form></td></tr>`)
		}
		fmt.Fprint(w, `</tbody></table>`)
		return nil
	})
	return Base("OAuth2 applications", body)
}

// ApplicationForm renders the register/edit form. app is nil when
// registering.
func ApplicationForm(app *models.OAuthApplication) templ.Component {
	title := "Register application"
	action := "/settings/oauth/register"
	name, uris := "", ""
	if app != nil {
		title = "Edit application"
		action = fmt.Sprintf("/settings/oauth/%d/edit", app.ID)
		name, uris = app.Name, app.RedirectURIs
	}

	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1><form method="post" action="%s">`, esc(title), action)
		csrfField(ctx, w)
		fmt.Fprintf(w, `<label>Name<input type="text" name="name" value="%s" required></label>`, esc(name))
		fmt.Fprintf(w, `<label>Redirect URIs (one per line)<textarea name="redirect_uris">%s</textarea></label>`, esc(uris))
		fmt.Fprint(w, `<button type="submit">Save</button></form>`)
		return nil
	})
	return Base(title, body)
}

// ApplicationRegistered shows the freshly registered application with its
// one-time client secret.
func ApplicationRegistered(app *models.OAuthApplication, secret string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1>`, esc(app.Name))
		fmt.Fprintf(w, `<div class="alert alert-success">%s</div>`, esc(T(ctx, "oauth_registered")))
		fmt.Fprintf(w, `<dl><dt>Client ID</dt><dd><code>%s</code></dd>`, esc(app.ClientID))
		fmt.Fprintf(w, `<dt>Client secret</dt><dd><code>%s</code></dd></dl>`, esc(secret))
		fmt.Fprint(w, `<p><a href="/settings/oauth">Back to applications</a></p>`)
		return nil
	})
	return Base("Application registered", body)
}
