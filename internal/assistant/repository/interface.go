package repository

import (
	"context"

	"line-calendar-bot/internal/model"
)

// EntityRepository is the interface for calendar/task data access. The
// interpretation pipeline never touches Google APIs directly.
type EntityRepository interface {
	// ListEvents returns upcoming events within the next `days` days,
	// ordered by start time.
	ListEvents(ctx context.Context, sc model.Scope, days int) ([]model.Entity, error)

	// ListTasks returns all incomplete tasks across the user's lists.
	ListTasks(ctx context.Context, sc model.Scope) ([]model.Entity, error)

	CreateEvent(ctx context.Context, sc model.Scope, opt CreateEventOptions) (model.Entity, error)
	CreateTask(ctx context.Context, sc model.Scope, opt CreateTaskOptions) (CreatedTask, error)
	DeleteEvent(ctx context.Context, sc model.Scope, eventID string) error
	UpdateEventTime(ctx context.Context, sc model.Scope, opt UpdateEventTimeOptions) (model.Entity, error)
	CompleteTask(ctx context.Context, sc model.Scope, listID, taskID string) error
	DeleteTask(ctx context.Context, sc model.Scope, listID, taskID string) error
}

// CreateEventOptions defines a new calendar event.
type CreateEventOptions struct {
	Title     string
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM, empty for all-day
	EndTime   string
	IsAllDay  bool
	Location  string
}

// CreateTaskOptions defines a new task.
type CreateTaskOptions struct {
	Title    string
	Due      string // YYYY-MM-DD, optional
	ListName string // target list by name, default list when empty
	Starred  bool
}

// CreatedTask is the result of task creation, carrying the resolved
// list title for the confirmation reply.
type CreatedTask struct {
	Entity    model.Entity
	ListTitle string
}

// UpdateEventTimeOptions moves an existing event.
type UpdateEventTimeOptions struct {
	EventID   string
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM
	EndTime   string
}

// ContextRepository is the per-user conversation context store. Entries
// expire; last write wins, no transactions span a message.
type ContextRepository interface {
	Get(userID string) (model.ConversationContext, bool)
	Put(userID string, c model.ConversationContext)
	Delete(userID string)
}
