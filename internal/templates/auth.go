// Copyright 2025 The ephios team
// Licensed under the MIT license

package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Login renders the login form. errorMsg is shown above the form when the
// previous attempt failed.
func Login(errorMsg string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1>`, esc(T(ctx, "login_title")))
		if errorMsg != "" {
			fmt.Fprintf(w, `<div class="alert alert-error">%s</div>`, esc(errorMsg))
		}
		fmt.Fprint(w, `<form method="post" action="/auth/login">`)
		csrfField(ctx, w)
		fmt.Fprint(w, `<label>Email<input type="email" name="email" required autofocus></label>`)
		fmt.Fprint(w, `<label>Password<input type="password" name="password" required></label>`)
		fmt.Fprintf(w, `<button type="submit">%s</button></form>`, esc(T(ctx, "login_title")))
		fmt.Fprint(w, `<p><a href="/auth/password-reset">Forgot password?</a></p>`)
		return nil
	})
	return Base("Login", body)
}

// PasswordResetRequest renders the "send me a reset mail" form.
func PasswordResetRequest() templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprint(w, `<h1>Password reset</h1>`)
		fmt.Fprint(w, `<form method="post" action="/auth/password-reset">`)
		csrfField(ctx, w)
		fmt.Fprint(w, `<label>Email<input type="email" name="email" required autofocus></label>`)
		fmt.Fprint(w, `<button type="submit">Send reset mail</button></form>`)
		return nil
	})
	return Base("Password reset", body)
}

// PasswordResetConfirm renders the set-password form for a reset token.
// helpTexts lists the password requirements; errors holds validation
// failures from the previous attempt.
func PasswordResetConfirm(token string, helpTexts, errors []string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprint(w, `<h1>Set your password</h1>`)
		for _, msg := range errors {
			fmt.Fprintf(w, `<div class="alert alert-error">%s</div>`, esc(msg))
		}
		fmt.Fprint(w, `<form method="post" action="/auth/password-reset/confirm">`)
		csrfField(ctx, w)
		fmt.Fprintf(w, `<input type="hidden" name="token" value="%s">`, esc(token))
		fmt.Fprint(w, `<label>New password<input type="password" name="password" required autofocus></label>`)
		fmt.Fprint(w, `<ul class="help">`)
		for _, text := range helpTexts {
			fmt.Fprintf(w, `<li>%s</li>`, esc(text))
		}
		fmt.Fprint(w, `</ul>`)
		fmt.Fprint(w, `<button type="submit">Set password</button></form>`)
		return nil
	})
	return Base("Set password", body)
}
