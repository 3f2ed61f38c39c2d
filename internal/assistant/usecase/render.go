package usecase

import (
	"fmt"
	"strings"
	"time"

	"line-calendar-bot/internal/model"
)

// renderTaskList produces the numbered task message and the ListItem
// tuples that become the next LastShownList.
func renderTaskList(tasks []model.Entity) (string, []model.ListItem) {
	var b strings.Builder
	b.WriteString("📝 タスク一覧\n\n")

	items := make([]model.ListItem, 0, len(tasks))
	for i, task := range tasks {
		star := "□"
		if task.Starred {
			star = "⭐"
		}
		due := ""
		if task.Date != "" {
			due = fmt.Sprintf(" (期限: %s)", monthDay(task.Date))
		}
		fmt.Fprintf(&b, "%d. %s %s%s\n", i+1, star, task.Title, due)
		items = append(items, listItem(i+1, task))
	}

	b.WriteString("\n" + taskListFooter)
	return b.String(), items
}

// renderEventList produces the numbered upcoming-events message,
// capped at maxListedEvents.
func renderEventList(events []model.Entity) (string, []model.ListItem) {
	if len(events) > maxListedEvents {
		events = events[:maxListedEvents]
	}

	var b strings.Builder
	b.WriteString("📅 今後の予定\n\n")

	items := make([]model.ListItem, 0, len(events))
	for i, ev := range events {
		fmt.Fprintf(&b, "%d. %s\n⏰ %s %s\n\n", i+1, ev.Title, monthDay(ev.Date), eventTime(ev))
		items = append(items, listItem(i+1, ev))
	}

	return strings.TrimRight(b.String(), "\n"), items
}

// renderSelectionList asks the user to pick between multiple keyword
// matches, capped at maxDisambiguation.
func renderSelectionList(keyword string, matches []model.Entity) (string, []model.ListItem) {
	if len(matches) > maxDisambiguation {
		matches = matches[:maxDisambiguation]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 「%s」に一致する項目が %d 件あります\n\n", keyword, len(matches))

	items := make([]model.ListItem, 0, len(matches))
	for i, e := range matches {
		fmt.Fprintf(&b, "%d. %s\n⏰ %s %s\n\n", i+1, e.Title, monthDay(e.Date), eventTime(e))
		items = append(items, listItem(i+1, e))
	}

	b.WriteString(selectionFooter)
	return b.String(), items
}

// renderSelectionPrompt shows the candidate set when the user gave
// neither a number nor a keyword for a non-create action.
func renderSelectionPrompt(candidates []model.Entity) (string, []model.ListItem) {
	if len(candidates) > maxDisambiguation {
		candidates = candidates[:maxDisambiguation]
	}

	var b strings.Builder
	b.WriteString("どの項目でしょうか？\n\n")

	items := make([]model.ListItem, 0, len(candidates))
	for i, e := range candidates {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e.Title)
		items = append(items, listItem(i+1, e))
	}

	b.WriteString("\n" + selectionFooter)
	return b.String(), items
}

func listItem(index int, e model.Entity) model.ListItem {
	return model.ListItem{
		Index:      index,
		EntityID:   e.ID,
		EntityType: e.Type,
		Title:      e.Title,
		ListID:     e.ListID,
	}
}

// monthDay shortens YYYY-MM-DD to M/D for display.
func monthDay(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
}

func eventTime(e model.Entity) string {
	if e.IsAllDay || e.StartTime == "" {
		return "終日"
	}
	return e.StartTime
}
