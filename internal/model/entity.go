package model

// Entity is the unified view of a calendar event or a task, as used by
// the dispatcher and the numbered-list renderer.
type Entity struct {
	ID        string
	Type      EntityType
	Title     string
	Date      string // YYYY-MM-DD, empty for tasks without a due date
	StartTime string // HH:MM, empty for all-day events and tasks
	EndTime   string
	IsAllDay  bool
	Starred   bool   // tasks only
	ListID    string // owning task list, tasks only
}
