package dispatcher

import (
	"line-calendar-bot/internal/model"
)

// Target is one concretely resolved entity an action applies to.
type Target struct {
	Index      int
	EntityID   string
	EntityType model.EntityType
	Title      string
	ListID     string
}

// BatchFailure records a single index of a batch command that could not
// be resolved. Batch resolution is never all-or-nothing.
type BatchFailure struct {
	Index int
	Kind  AmbiguityKind
}

// Resolution is the dispatcher's answer for a command that can proceed.
//
// For create actions Targets is empty and the command passes through
// untouched. NeedsSelection means the user gave neither an index nor a
// keyword for a non-create action: render Candidates as a numbered
// list and ask, performing no mutation.
type Resolution struct {
	Command        *model.Command
	Targets        []Target
	Failures       []BatchFailure
	NeedsSelection bool
	Candidates     []model.Entity
}
