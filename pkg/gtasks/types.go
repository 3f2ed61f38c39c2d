package gtasks

// TaskList is a Google Tasks list.
type TaskList struct {
	ID    string
	Title string
}

// Task is a simplified representation of a Google Task.
type Task struct {
	ID     string
	ListID string
	Title  string
	Notes  string
	Due    string // YYYY-MM-DD, empty when no due date
	Status string // "needsAction" or "completed"
}

// CreateTaskRequest is the input for creating a task.
type CreateTaskRequest struct {
	ListID string
	Title  string
	Notes  string
	Due    string // YYYY-MM-DD, optional
}
