// Copyright 2025 The ephios team
// Licensed under the MIT license

package templates

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/olewun/ephios/internal/models"
)

// UserList renders the user administration table.
func UserList(users []models.UserProfile) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1>`, esc(T(ctx, "users_title")))
		fmt.Fprint(w, `<p><a class="button" href="/users/create">Add user</a></p>`)
		fmt.Fprint(w, `<table><thead><tr><th>Name</th><th>Email</th><th>Active</th><th>Staff</th><th></th></tr></thead><tbody>`)
		for _, user := range users {
			fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td>`,
				esc(user.DisplayName), esc(user.Email), checkmark(user.IsActive), checkmark(user.IsStaff))
			fmt.Fprintf(w, `<td><a href="/users/%d/edit">Edit</a> `, user.ID)
			fmt.Fprintf(w, `<form method="post" action="/users/%d/delete" class="inline">`, user.ID)
			csrfField(ctx, w)
			fmt.Fprint(w, `<button type="submit">Delete</button></form></td></tr>`)
		}
		fmt.Fprint(w, `</tbody></table>`)
		return nil
	})
	return Base("Users", body)
}

func checkmark(b bool) string {
	if b {
		return "✓"
	}
	return "–"
}

// UserForm renders the profile form with the qualification grant formset.
// user is nil when creating. Existing grants prefill the formset rows; one
// empty extra row is always appended for new grants.
func UserForm(user *models.UserProfile, grants []models.QualificationGrant, qualifications []models.Qualification) templ.Component {
	title := "Add user"
	action := "/users/create"
	if user != nil {
		title = "Edit user"
		action = fmt.Sprintf("/users/%d/edit", user.ID)
	}

	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1><form method="post" action="%s">`, esc(title), action)
		csrfField(ctx, w)

		email, name, dob, phone := "", "", "", ""
		isActive, isStaff := true, false
		if user != nil {
			email, name, phone = user.Email, user.DisplayName, user.Phone
			isActive, isStaff = user.IsActive, user.IsStaff
			if user.DateOfBirth != nil {
				dob = user.DateOfBirth.Format("2006-01-02")
			}
		}

		fmt.Fprintf(w, `<label>Email<input type="email" name="email" value="%s" required></label>`, esc(email))
		fmt.Fprintf(w, `<label>Name<input type="text" name="display_name" value="%s" required></label>`, esc(name))
		fmt.Fprintf(w, `<label>Date of birth<input type="date" name="date_of_birth" value="%s"></label>`, esc(dob))
		fmt.Fprintf(w, `<label>Phone<input type="tel" name="phone" value="%s"></label>`, esc(phone))
		fmt.Fprintf(w, `<label><input type="checkbox" name="is_active" value="1"%s> Active</label>`, checked(isActive))
		fmt.Fprintf(w, `<label><input type="checkbox" name="is_staff" value="1"%s> Staff</label>`, checked(isStaff))

		fmt.Fprint(w, `<fieldset id="grant-formset"><legend>Qualifications</legend>`)
		row := 0
		for _, grant := range grants {
			writeGrantRow(w, row, &grant, qualifications)
			row++
		}
		// Empty extra row; the frontend clones it for additional grants.
		writeGrantRow(w, row, nil, qualifications)
		fmt.Fprint(w, `</fieldset>`)

		fmt.Fprint(w, `<button type="submit">Save</button></form>`)
		return nil
	})
	return Base(title, body)
}

func checked(b bool) string {
	if b {
		return " checked"
	}
	return ""
}

func writeGrantRow(w io.Writer, row int, grant *models.QualificationGrant, qualifications []models.Qualification) {
	fmt.Fprintf(w, `<div class="grant-row"><select name="grants[%d].qualification">`, row)
	fmt.Fprint(w, `<option value="">---</option>`)
	for _, q := range qualifications {
		selected := ""
		if grant != nil && grant.QualificationID == q.ID {
			selected = " selected"
		}
		fmt.Fprintf(w, `<option value="%d"%s>%s</option>`, q.ID, selected, esc(q.Title))
	}
	fmt.Fprint(w, `</select>`)

	expires := ""
	if grant != nil && grant.Expires != nil {
		expires = grant.Expires.Format("2006-01-02")
	}
	fmt.Fprintf(w, `<input type="date" name="grants[%d].expires" value="%s">`, row, expires)
	if grant != nil && !grant.IsActive(time.Now()) {
		fmt.Fprint(w, `<span class="expired">expired</span>`)
	}
	fmt.Fprint(w, `</div>`)
}
