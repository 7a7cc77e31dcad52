// Copyright 2025 The ephios team
// Licensed under the MIT license

package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/olewun/ephios/internal/models"
)

// CategoryGroup is one catalog section: a category and its qualifications.
type CategoryGroup struct {
	Category       models.QualificationCategory
	Qualifications []models.Qualification
}

// QualificationList renders the catalog grouped by category.
func QualificationList(groups []CategoryGroup) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1>`, esc(T(ctx, "qualifications_title")))
		fmt.Fprint(w, `<p><a class="button" href="/qualifications/create">Add qualification</a> `)
		fmt.Fprint(w, `<a class="button" href="/qualifications/import">Import</a></p>`)

		if len(groups) == 0 {
			fmt.Fprintf(w, `<p class="empty">%s</p>`, esc(T(ctx, "qualifications_empty")))
			return nil
		}

		for _, group := range groups {
			fmt.Fprintf(w, `<h2>%s</h2><table><thead><tr>`, esc(group.Category.Title))
			fmt.Fprint(w, `<th>Title</th><th>Abbreviation</th><th>Includes</th><th></th></tr></thead><tbody>`)
			for _, q := range group.Qualifications {
				fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%s</td>`,
					esc(q.Title), esc(q.Abbreviation), esc(abbreviations(q.Included)))
				fmt.Fprintf(w, `<td><a href="/qualifications/%d/edit">Edit</a> `, q.ID)
				fmt.Fprintf(w, `<a href="/qualifications/%d/reassign">Reassign</a> `, q.ID)
				fmt.Fprintf(w, `<form method="post" action="/qualifications/%d/delete" class="inline">`, q.ID)
				csrfField(ctx, w)
				fmt.Fprint(w, `<button type="submit">Delete</button></form></td></tr>`)
			}
			fmt.Fprint(w, `</tbody></table>`)
		}
		return nil
	})
	return Base("Qualifications", body)
}

func abbreviations(qs []models.Qualification) string {
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = q.Abbreviation
	}
	return strings.Join(parts, ", ")
}

// QualificationForm renders the create/edit form. q is nil when creating.
func QualificationForm(q *models.Qualification, categories []models.QualificationCategory, all []models.Qualification) templ.Component {
	title := "Add qualification"
	action := "/qualifications/create"
	if q != nil {
		title = "Edit qualification"
		action = fmt.Sprintf("/qualifications/%d/edit", q.ID)
	}

	included := map[int64]bool{}
	if q != nil {
		for _, inc := range q.Included {
			included[inc.ID] = true
		}
	}

	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1><form method="post" action="%s">`, esc(title), action)
		csrfField(ctx, w)

		fmt.Fprintf(w, `<label>Title<input type="text" name="title" value="%s" required></label>`, valueOf(q, func(q *models.Qualification) string { return q.Title }))
		fmt.Fprintf(w, `<label>Abbreviation<input type="text" name="abbreviation" value="%s" required></label>`, valueOf(q, func(q *models.Qualification) string { return q.Abbreviation }))

		fmt.Fprint(w, `<label>Category<select name="category_id" required>`)
		for _, cat := range categories {
			selected := ""
			if q != nil && q.CategoryID == cat.ID {
				selected = " selected"
			}
			fmt.Fprintf(w, `<option value="%d"%s>%s</option>`, cat.ID, selected, esc(cat.Title))
		}
		fmt.Fprint(w, `</select></label>`)

		fmt.Fprint(w, `<label>Included qualifications<select name="included_ids" multiple>`)
		for _, other := range all {
			if q != nil && other.ID == q.ID {
				continue
			}
			selected := ""
			if included[other.ID] {
				selected = " selected"
			}
			fmt.Fprintf(w, `<option value="%d"%s>%s</option>`, other.ID, selected, esc(other.Title))
		}
		fmt.Fprint(w, `</select></label>`)

		fmt.Fprint(w, `<button type="submit">Save</button></form>`)
		return nil
	})
	return Base(title, body)
}

func valueOf(q *models.Qualification, get func(*models.Qualification) string) string {
	if q == nil {
		return ""
	}
	return esc(get(q))
}

// QualificationImport renders the fixture import form.
func QualificationImport(fixtures []string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprint(w, `<h1>Import qualifications</h1>`)
		fmt.Fprint(w, `<form method="post" action="/qualifications/import">`)
		csrfField(ctx, w)
		fmt.Fprint(w, `<label>Fixture set<select name="fixture" required>`)
		for _, name := range fixtures {
			fmt.Fprintf(w, `<option value="%s">%s</option>`, esc(name), esc(name))
		}
		fmt.Fprint(w, `</select></label>`)
		fmt.Fprint(w, `<button type="submit">Import</button></form>`)
		return nil
	})
	return Base("Import qualifications", body)
}

// QualificationReassign renders the grant reassignment form for a source
// qualification.
func QualificationReassign(source *models.Qualification, grantCount int64, targets []models.Qualification) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>Reassign %s</h1>`, esc(source.Title))
		fmt.Fprintf(w, `<p>%d grants will be moved.</p>`, grantCount)
		fmt.Fprintf(w, `<form method="post" action="/qualifications/%d/reassign">`, source.ID)
		csrfField(ctx, w)
		fmt.Fprint(w, `<label>Target qualifications<select name="target_ids" multiple required>`)
		for _, target := range targets {
			if target.ID == source.ID {
				continue
			}
			fmt.Fprintf(w, `<option value="%d">%s</option>`, target.ID, esc(target.Title))
		}
		fmt.Fprint(w, `</select></label>`)
		fmt.Fprint(w, `<label><input type="checkbox" name="delete_source" value="1"> Delete source qualification afterwards</label>`)
		fmt.Fprint(w, `<button type="submit">Reassign</button></form>`)
		return nil
	})
	return Base("Reassign qualification", body)
}
