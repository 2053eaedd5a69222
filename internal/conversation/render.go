package conversation

import (
	"fmt"
	"strings"

	"github.com/timebuddy-app/timebuddy/internal/domain"
	"github.com/timebuddy-app/timebuddy/internal/recurrence"
)

// friendlyDate renders a wire date for chat ("Wed, Jun 11").
func friendlyDate(date string) string {
	d, err := domain.ParseDate(date)
	if err != nil {
		return date
	}
	return d.Format("Mon, Jan 2")
}

func renderConflictNote(conflicts []*domain.Task) string {
	if len(conflicts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		parts = append(parts, fmt.Sprintf("%s (%s-%s)", c.Title, c.StartTime, c.EndTime))
	}
	return fmt.Sprintf("\n⚠️ Heads up: this overlaps with %s. You can still save it.",
		strings.Join(parts, ", "))
}

func renderCreateConfirmation(t *domain.Task, conflicts []*domain.Task) string {
	return fmt.Sprintf("Here's what I've got:\n📌 **%s** on %s, %s-%s (%d min, %s)%s\n\nSave this?",
		t.Title, friendlyDate(t.Date), t.StartTime, t.EndTime, t.DurationMin, t.Type,
		renderConflictNote(conflicts))
}

func renderRecurringConfirmation(title, start, end string, exp *recurrence.Expansion) string {
	return fmt.Sprintf("Here's the recurring plan:\n🔁 **%s**, %s-%s, %d sessions (%s)\nDates: %s\n\nSave this?",
		title, start, end, len(exp.Instances), exp.RangeDesc,
		recurrence.FormatDatePreview(exp.Instances, 3))
}

// renderRecurringSummary re-renders a corrected series from its first
// instance; the date range is unchanged by time corrections.
func renderRecurringSummary(first *domain.Task, count int) string {
	return fmt.Sprintf("Here's the recurring plan:\n🔁 **%s**, %s-%s, %d sessions",
		first.Title, first.StartTime, first.EndTime, count)
}

func renderUpdateConfirmation(before, after *domain.Task, conflicts []*domain.Task) string {
	var changes []string
	if before.Title != after.Title {
		changes = append(changes, fmt.Sprintf("title → %s", after.Title))
	}
	if before.Date != after.Date {
		changes = append(changes, fmt.Sprintf("date → %s", friendlyDate(after.Date)))
	}
	if before.StartTime != after.StartTime || before.EndTime != after.EndTime {
		changes = append(changes, fmt.Sprintf("time → %s-%s", after.StartTime, after.EndTime))
	}
	if before.DurationMin != after.DurationMin {
		changes = append(changes, fmt.Sprintf("duration → %d min", after.DurationMin))
	}
	if len(changes) == 0 {
		changes = append(changes, "no visible change")
	}
	return fmt.Sprintf("Updating **%s**: %s%s\n\nSave this?",
		before.Title, strings.Join(changes, ", "), renderConflictNote(conflicts))
}

func renderDeleteConfirmation(t *domain.Task) string {
	return fmt.Sprintf("Delete **%s** on %s at %s? This can't be undone.\n\nSave this?",
		t.Title, friendlyDate(t.Date), t.StartTime)
}

func renderCompleteConfirmation(t *domain.Task) string {
	return fmt.Sprintf("Mark **%s** on %s as done?\n\nSave this?",
		t.Title, friendlyDate(t.Date))
}

func renderBulkDeleteConfirmation(tasks []*domain.Task) string {
	shown := len(tasks)
	if shown > 5 {
		shown = 5
	}
	var b strings.Builder
	fmt.Fprintf(&b, "This will delete %d tasks:\n", len(tasks))
	for _, t := range tasks[:shown] {
		fmt.Fprintf(&b, "- %s (%s %s)\n", t.Title, friendlyDate(t.Date), t.StartTime)
	}
	if rest := len(tasks) - shown; rest > 0 {
		fmt.Fprintf(&b, "...and %d more\n", rest)
	}
	b.WriteString("\nSave this?")
	return b.String()
}

// renderChoiceList enumerates ambiguous edit targets for the user to
// pick by number or keyword.
func renderChoiceList(tasks []*domain.Task) string {
	var b strings.Builder
	b.WriteString("I found a few matches. Which one?\n")
	for i, t := range tasks {
		fmt.Fprintf(&b, "%d. %s (%s %s-%s)\n", i+1, t.Title, friendlyDate(t.Date), t.StartTime, t.EndTime)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderAgenda groups tasks by date under the given heading.
func renderAgenda(heading string, tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return fmt.Sprintf("%s is wide open. Nothing scheduled. 🎉", heading)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s:\n", heading)
	lastDate := ""
	multiDay := false
	for _, t := range tasks {
		if t.Date != tasks[0].Date {
			multiDay = true
			break
		}
	}
	for _, t := range tasks {
		if multiDay && t.Date != lastDate {
			fmt.Fprintf(&b, "\n%s\n", friendlyDate(t.Date))
			lastDate = t.Date
		}
		mark := " "
		if t.Completed {
			mark = "✓"
		}
		fmt.Fprintf(&b, "%s %s-%s  %s (%s)\n", mark, t.StartTime, t.EndTime, t.Title, t.Type)
	}
	return strings.TrimRight(b.String(), "\n")
}
