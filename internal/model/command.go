package model

import (
	"errors"
	"fmt"
)

// Action is the operation a parsed command requests.
type Action string

const (
	ActionCreate   Action = "create"
	ActionList     Action = "list"
	ActionCancel   Action = "cancel"
	ActionUpdate   Action = "update"
	ActionComplete Action = "complete"
)

// EntityType distinguishes calendar events from tasks.
type EntityType string

const (
	EntityEvent EntityType = "event"
	EntityTask  EntityType = "task"
)

// ErrInvalidCommand is returned when a parsed command is structurally
// unusable for its action. Callers surface it as a parse failure, never
// as a raw error to the user.
var ErrInvalidCommand = errors.New("invalid command")

// Command is the structured result of interpreting one user message.
// It is built fresh per message and never persisted.
//
// For non-create actions, at most one of TargetNumber, TargetNumbers,
// Keyword, or Title identifies the operand; when none is present the
// command asks for a selection list to be (re)displayed.
type Command struct {
	Action Action
	Type   EntityType

	Title   string
	Keyword string

	TargetNumber  int   // 1-based index into the last shown list
	TargetNumbers []int // batch variant, order preserved

	Date      string // YYYY-MM-DD, empty when unset
	StartTime string // HH:MM 24h, empty when all-day or task
	EndTime   string
	IsAllDay  bool

	Location string
	URL      string
	ListName string
	Starred  bool // task importance, meaningful only for tasks
}

// Validate rejects commands missing the fields their action requires.
// Malformed LLM output funnels through here into a parse failure instead
// of propagating empty fields downstream.
func (c *Command) Validate() error {
	switch c.Action {
	case ActionCreate:
		if c.Title == "" {
			return fmt.Errorf("%w: create requires a title", ErrInvalidCommand)
		}
		if c.Type != EntityEvent && c.Type != EntityTask {
			return fmt.Errorf("%w: create requires a type", ErrInvalidCommand)
		}
	case ActionList, ActionCancel, ActionUpdate, ActionComplete:
		// Operand may be absent: that is a request to display a
		// selection list, not an error.
	case "":
		return fmt.Errorf("%w: missing action", ErrInvalidCommand)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidCommand, c.Action)
	}

	if c.TargetNumber < 0 {
		return fmt.Errorf("%w: negative target number", ErrInvalidCommand)
	}
	for _, n := range c.TargetNumbers {
		if n <= 0 {
			return fmt.Errorf("%w: target numbers must be positive", ErrInvalidCommand)
		}
	}
	return nil
}
