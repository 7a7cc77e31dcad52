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

// WorkingHoursOverview renders per-user totals for the selected date range.
// Pending consequences are listed for staff to decide.
func WorkingHoursOverview(summaries []models.UserHoursSummary, from, to string, pending []PendingRequest) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1>`, esc(T(ctx, "workinghours_title")))

		fmt.Fprint(w, `<form method="get" action="/workinghours" class="filter">`)
		fmt.Fprintf(w, `<label>From<input type="date" name="from" value="%s"></label>`, esc(from))
		fmt.Fprintf(w, `<label>To<input type="date" name="to" value="%s"></label>`, esc(to))
		fmt.Fprint(w, `<button type="submit">Filter</button></form>`)

		fmt.Fprint(w, `<p><a class="button" href="/workinghours/request">Request working hours</a> `)
		fmt.Fprint(w, `<a href="/workinghours/own">Your working hours</a></p>`)

		if len(summaries) == 0 {
			fmt.Fprintf(w, `<p class="empty">%s</p>`, esc(T(ctx, "workinghours_empty")))
		} else {
			fmt.Fprint(w, `<table><thead><tr><th>Name</th><th>Hours</th></tr></thead><tbody>`)
			for _, summary := range summaries {
				fmt.Fprintf(w, `<tr><td>%s</td><td>%.2f</td></tr>`, esc(summary.DisplayName), summary.TotalHours)
			}
			fmt.Fprint(w, `</tbody></table>`)
		}

		if len(pending) > 0 {
			fmt.Fprint(w, `<h2>Pending requests</h2><table><thead><tr>`)
			fmt.Fprint(w, `<th>Name</th><th>Date</th><th>Reason</th><th>Hours</th><th></th></tr></thead><tbody>`)
			for _, request := range pending {
				fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%.2f</td><td>`,
					esc(request.DisplayName), request.Data.Date.Format("2006-01-02"),
					esc(request.Data.Reason), request.Data.Hours)
				writeDecisionForm(ctx, w, request.ConsequenceID, "confirm", "Confirm")
				writeDecisionForm(ctx, w, request.ConsequenceID, "deny", "Deny")
				fmt.Fprint(w, `</td></tr>`)
			}
			fmt.Fprint(w, `</tbody></table>`)
		}
		return nil
	})
	return Base("Working hours", body)
}

// PendingRequest pairs a pending consequence with its decoded payload for
// display.
type PendingRequest struct {
	ConsequenceID int64
	DisplayName   string
	Data          models.WorkingHoursData
}

func writeDecisionForm(ctx context.Context, w io.Writer, id int64, action, label string) {
	fmt.Fprintf(w, `<form method="post" action="/consequences/%d" class="inline">`, id)
	csrfField(ctx, w)
	fmt.Fprintf(w, `<input type="hidden" name="action" value="%s">`, action)
	fmt.Fprintf(w, `<button type="submit">%s</button></form> `, label)
}

// WorkingHoursOwn renders the user's own records, event-derived and
// manually granted hours distinguished. Staff get edit/delete controls.
func WorkingHoursOwn(items []models.WorkingHours, staff bool) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1>`, esc(T(ctx, "workinghours_own_title")))

		if len(items) == 0 {
			fmt.Fprintf(w, `<p class="empty">%s</p>`, esc(T(ctx, "workinghours_empty")))
			return nil
		}

		fmt.Fprint(w, `<table><thead><tr><th>Date</th><th>Reason</th><th>Hours</th><th>Origin</th>`)
		if staff {
			fmt.Fprint(w, `<th></th>`)
		}
		fmt.Fprint(w, `</tr></thead><tbody>`)
		for _, item := range items {
			reason := item.Reason
			if item.FromEvent() && item.EventTitle != "" {
				reason = item.EventTitle
			}
			fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%.2f</td><td>%s</td>`,
				item.Date.Format("2006-01-02"), esc(reason), item.Hours, esc(item.Origin))
			if staff {
				fmt.Fprintf(w, `<td><a href="/workinghours/%d/edit">Edit</a> `, item.ID)
				fmt.Fprintf(w, `<form method="post" action="/workinghours/%d/delete" class="inline">`, item.ID)
				csrfField(ctx, w)
				fmt.Fprint(w, `<button type="submit">Delete</button></form></td>`)
			}
			fmt.Fprint(w, `</tr>`)
		}
		fmt.Fprint(w, `</tbody></table>`)
		return nil
	})
	return Base("Your working hours", body)
}

// WorkingHoursRequestForm renders the request form.
func WorkingHoursRequestForm() templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprint(w, `<h1>Request working hours</h1>`)
		fmt.Fprint(w, `<form method="post" action="/workinghours/request">`)
		csrfField(ctx, w)
		writeHoursFields(w, "", "", "")
		fmt.Fprint(w, `<button type="submit">Request</button></form>`)
		return nil
	})
	return Base("Request working hours", body)
}

// WorkingHoursEditForm renders the staff edit form for a record.
func WorkingHoursEditForm(item *models.WorkingHours) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprint(w, `<h1>Edit working hours</h1>`)
		fmt.Fprintf(w, `<form method="post" action="/workinghours/%d/edit">`, item.ID)
		csrfField(ctx, w)
		writeHoursFields(w, item.Date.Format("2006-01-02"), item.Reason, fmt.Sprintf("%g", item.Hours))
		fmt.Fprint(w, `<button type="submit">Save</button></form>`)
		return nil
	})
	return Base("Edit working hours", body)
}

func writeHoursFields(w io.Writer, date, reason, hours string) {
	fmt.Fprintf(w, `<label>Date<input type="date" name="date" value="%s" required></label>`, esc(date))
	fmt.Fprintf(w, `<label>Reason<input type="text" name="reason" value="%s" required></label>`, esc(reason))
	fmt.Fprintf(w, `<label>Hours<input type="number" name="hours" step="0.25" min="0.25" value="%s" required></label>`, esc(hours))
}
