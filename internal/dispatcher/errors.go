package dispatcher

import (
	"fmt"

	"line-calendar-bot/internal/model"
)

// AmbiguityKind classifies why a command could not be pinned to an
// entity. None of these are system failures; each maps to a clarifying
// reply rather than an error log.
type AmbiguityKind string

const (
	KindOutOfRange      AmbiguityKind = "out_of_range"
	KindNoActiveList    AmbiguityKind = "no_active_list"
	KindNotFound        AmbiguityKind = "not_found"
	KindMultipleMatches AmbiguityKind = "multiple_matches"
)

// AmbiguityError asks the caller to go back to the user. For
// MultipleMatches, Candidates carries the entities to re-render as a
// numbered disambiguation list.
type AmbiguityError struct {
	Kind       AmbiguityKind
	Index      int
	Keyword    string
	Candidates []model.Entity
}

func (e *AmbiguityError) Error() string {
	switch e.Kind {
	case KindOutOfRange:
		return fmt.Sprintf("number %d is not on the current list", e.Index)
	case KindNoActiveList:
		return "no list is currently shown"
	case KindNotFound:
		return fmt.Sprintf("no entity matches %q", e.Keyword)
	case KindMultipleMatches:
		return fmt.Sprintf("%d entities match %q", len(e.Candidates), e.Keyword)
	}
	return string(e.Kind)
}
