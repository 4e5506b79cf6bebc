package digest

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/taskflow/taskflow/internal/models"
	"github.com/taskflow/taskflow/internal/timeutil"
)

// TaskWithProject pairs a task with its owning project for composition.
type TaskWithProject struct {
	Task    models.Task
	Project models.Project
}

// Content is a composed digest email: subject plus HTML and plain-text
// bodies rendered from the same grouped data so they always agree.
type Content struct {
	Subject  string
	BodyHTML string
	BodyText string
}

// Composer renders digest emails. Compose is pure and deterministic; the
// only state here is presentation configuration.
type Composer struct {
	AppURL string
}

type projectGroup struct {
	project models.Project
	tasks   []TaskWithProject
}

var priorityColors = map[string]string{
	models.PriorityP0: "#dc2626",
	models.PriorityP1: "#ea580c",
	models.PriorityP2: "#d97706",
	models.PriorityP3: "#6b7280",
}

var statusColors = map[string]string{
	models.TaskStatusBacklog:    "#6b7280",
	models.TaskStatusInProgress: "#2563eb",
	models.TaskStatusBlocked:    "#dc2626",
	models.TaskStatusDone:       "#16a34a",
}

// Compose turns an ordered task sequence into digest content for the given
// recipient. Tasks are grouped by project in first-seen order and sorted
// within each group by priority, then due date (undated last), then most
// recently updated. Overdue is judged against the start of today in loc.
func (c *Composer) Compose(tasks []TaskWithProject, recipient string, now time.Time, loc *time.Location) Content {
	today := timeutil.StartOfDay(now, loc)
	overdue := func(t models.Task) bool {
		return t.DueDate != nil && t.DueDate.Before(today)
	}

	overdueCount := 0
	p0Count := 0
	for _, t := range tasks {
		if overdue(t.Task) {
			overdueCount++
		}
		if t.Task.Priority == models.PriorityP0 {
			p0Count++
		}
	}

	groups := groupByProject(tasks)
	for _, g := range groups {
		sortGroup(g.tasks)
	}

	plural := "s"
	if len(tasks) == 1 {
		plural = ""
	}
	subject := fmt.Sprintf("TaskFlow: %d outstanding task%s", len(tasks), plural)

	return Content{
		Subject:  subject,
		BodyText: c.renderText(groups, len(tasks), overdueCount, p0Count, overdue),
		BodyHTML: c.renderHTML(groups, len(tasks), overdueCount, p0Count, overdue, recipient),
	}
}

// groupByProject buckets tasks by project, preserving first-seen project
// order from the input sequence.
func groupByProject(tasks []TaskWithProject) []*projectGroup {
	var groups []*projectGroup
	index := make(map[uint]*projectGroup)
	for _, t := range tasks {
		g, ok := index[t.Project.ID]
		if !ok {
			g = &projectGroup{project: t.Project}
			index[t.Project.ID] = g
			groups = append(groups, g)
		}
		g.tasks = append(g.tasks, t)
	}
	return groups
}

// sortGroup orders one project's tasks: priority ascending, then due date
// ascending with undated tasks after dated ones, ties broken by most
// recently updated first.
func sortGroup(tasks []TaskWithProject) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].Task, tasks[j].Task
		if ra, rb := models.PriorityRank(a.Priority), models.PriorityRank(b.Priority); ra != rb {
			return ra < rb
		}
		switch {
		case a.DueDate != nil && b.DueDate != nil:
			if !a.DueDate.Equal(*b.DueDate) {
				return a.DueDate.Before(*b.DueDate)
			}
		case a.DueDate != nil:
			return true
		case b.DueDate != nil:
			return false
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	})
}

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func (c *Composer) renderText(groups []*projectGroup, total, overdueCount, p0Count int, overdue func(models.Task) bool) string {
	var b strings.Builder
	b.WriteString("Outstanding Tasks Summary\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	fmt.Fprintf(&b, "Total outstanding: %d | Overdue: %d | P0 critical: %d\n\n", total, overdueCount, p0Count)

	for _, g := range groups {
		fmt.Fprintf(&b, "\n%s\n%s\n", g.project.Name, strings.Repeat("-", len(g.project.Name)))
		for _, t := range g.tasks {
			duePart := ""
			if t.Task.DueDate != nil {
				duePart = fmt.Sprintf(" — Due: %s", formatDate(*t.Task.DueDate))
				if overdue(t.Task) {
					duePart += " [OVERDUE]"
				}
			}
			fmt.Fprintf(&b, "[%s] %s — %s%s\n", t.Task.Priority, t.Task.Title, strings.ReplaceAll(t.Task.Status, "_", " "), duePart)
			fmt.Fprintf(&b, "  %s/projects/%d?task=%d\n", c.AppURL, t.Task.ProjectID, t.Task.ID)
		}
	}
	return b.String()
}

func (c *Composer) renderHTML(groups []*projectGroup, total, overdueCount, p0Count int, overdue func(models.Task) bool, recipient string) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1"></head>
<body style="font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;background:#f9fafb;margin:0;padding:0;">
<div style="max-width:680px;margin:32px auto;background:#ffffff;border-radius:8px;overflow:hidden;box-shadow:0 1px 3px rgba(0,0,0,0.1);">
<div style="background:#1d4ed8;padding:24px 32px;">
<h1 style="color:#ffffff;margin:0;font-size:20px;font-weight:700;">TaskFlow</h1>
<p style="color:#93c5fd;margin:4px 0 0;font-size:14px;">Outstanding Tasks Summary</p>
</div>
<div style="padding:32px;">
`)

	fmt.Fprintf(&b, `<div style="background:#f0f7ff;border-left:4px solid #3b82f6;padding:16px;margin-bottom:24px;border-radius:4px;">
<strong>Total outstanding:</strong> %d &nbsp;|&nbsp;
<strong style="color:#dc2626;">Overdue:</strong> %d &nbsp;|&nbsp;
<strong style="color:#7c3aed;">P0 critical:</strong> %d
</div>
`, total, overdueCount, p0Count)

	for _, g := range groups {
		fmt.Fprintf(&b, `<div style="margin-bottom:28px;">
<h2 style="font-size:16px;font-weight:700;color:#111827;margin:0 0 12px;border-bottom:2px solid #e5e7eb;padding-bottom:8px;">
<a href="%s/projects/%d" style="color:#111827;text-decoration:none;">%s</a>
<span style="font-weight:400;font-size:14px;color:#6b7280;margin-left:8px;">(%d)</span>
</h2>
<table style="width:100%%;border-collapse:collapse;">
<thead>
<tr style="font-size:12px;color:#6b7280;text-transform:uppercase;letter-spacing:0.05em;">
<th style="padding:4px 8px;text-align:left;font-weight:600;">Pri</th>
<th style="padding:4px 8px;text-align:left;font-weight:600;">Task</th>
<th style="padding:4px 8px;text-align:left;font-weight:600;">Status</th>
<th style="padding:4px 8px;text-align:left;font-weight:600;">Due</th>
</tr>
</thead>
<tbody>
`, c.AppURL, g.project.ID, html.EscapeString(g.project.Name), len(g.tasks))

		for _, t := range g.tasks {
			b.WriteString(c.renderTaskRow(t, overdue(t.Task)))
		}

		b.WriteString("</tbody>\n</table>\n</div>\n")
	}

	fmt.Fprintf(&b, `<div style="margin-top:32px;padding-top:24px;border-top:1px solid #e5e7eb;text-align:center;">
<a href="%s" style="display:inline-block;background:#2563eb;color:#ffffff;text-decoration:none;padding:10px 24px;border-radius:6px;font-weight:500;font-size:14px;">Open TaskFlow</a>
<p style="margin:16px 0 0;font-size:12px;color:#9ca3af;">Sent to %s · <a href="%s/settings" style="color:#6b7280;">Manage email settings</a></p>
</div>
</div>
</div>
</body>
</html>
`, c.AppURL, html.EscapeString(recipient), c.AppURL)

	return b.String()
}

func (c *Composer) renderTaskRow(t TaskWithProject, overdue bool) string {
	var b strings.Builder

	priColor, ok := priorityColors[t.Task.Priority]
	if !ok {
		priColor = "#6b7280"
	}
	statusColor, ok := statusColors[t.Task.Status]
	if !ok {
		statusColor = "#6b7280"
	}

	b.WriteString(`<tr style="border-bottom:1px solid #f3f4f6;">` + "\n")
	fmt.Fprintf(&b, `<td style="padding:10px 8px;vertical-align:top;width:60px;"><span style="background:%s20;color:%s;border-radius:4px;padding:2px 6px;font-size:12px;font-weight:600;font-family:monospace;">%s</span></td>`+"\n",
		priColor, priColor, t.Task.Priority)

	fmt.Fprintf(&b, `<td style="padding:10px 8px;vertical-align:top;"><a href="%s/projects/%d?task=%d" style="color:#1d4ed8;text-decoration:none;font-weight:500;">%s</a>`,
		c.AppURL, t.Task.ProjectID, t.Task.ID, html.EscapeString(t.Task.Title))
	if t.Task.Description != "" {
		fmt.Fprintf(&b, `<div style="font-size:13px;color:#6b7280;margin-top:2px;">%s</div>`, html.EscapeString(t.Task.Description))
	}
	b.WriteString("</td>\n")

	fmt.Fprintf(&b, `<td style="padding:10px 8px;vertical-align:top;white-space:nowrap;"><span style="color:%s;font-size:13px;">%s</span></td>`+"\n",
		statusColor, strings.ReplaceAll(t.Task.Status, "_", " "))

	if t.Task.DueDate != nil {
		dueColor := "#374151"
		warn := ""
		if overdue {
			dueColor = "#dc2626"
			warn = "⚠ "
		}
		fmt.Fprintf(&b, `<td style="padding:10px 8px;vertical-align:top;white-space:nowrap;font-size:13px;"><span style="color:%s;">%s%s</span></td>`+"\n",
			dueColor, warn, formatDate(*t.Task.DueDate))
	} else {
		b.WriteString(`<td style="padding:10px 8px;vertical-align:top;white-space:nowrap;font-size:13px;"><span style="color:#9ca3af;">—</span></td>` + "\n")
	}

	b.WriteString("</tr>\n")
	return b.String()
}
