package dispatcher

import (
	"context"
	"strings"

	"line-calendar-bot/internal/model"
	"line-calendar-bot/pkg/log"
)

// Dispatcher pins an interpreted command to concrete entities using the
// conversation context and the current candidate set.
type Dispatcher interface {
	Resolve(ctx context.Context, cmd *model.Command, convCtx model.ConversationContext, candidates []model.Entity) (*Resolution, error)
}

type implDispatcher struct {
	l log.Logger
}

// New creates a new Dispatcher.
func New(l log.Logger) *implDispatcher {
	return &implDispatcher{l: l}
}

// Resolve maps a command onto entities. Create actions pass through
// untouched. List actions carry the candidate set as-is; any keyword is
// ignored, the renderer narrows by date. Numbered selections resolve
// against the last shown list, keyword selections against the candidate
// titles. A non-create command with neither returns a NeedsSelection
// resolution so the caller can show a list first. Ambiguity is returned
// as *AmbiguityError.
func (d *implDispatcher) Resolve(ctx context.Context, cmd *model.Command, convCtx model.ConversationContext, candidates []model.Entity) (*Resolution, error) {
	if cmd.Action == model.ActionCreate {
		return &Resolution{Command: cmd}, nil
	}
	if cmd.Action == model.ActionList {
		return &Resolution{Command: cmd, Candidates: candidates}, nil
	}

	if len(cmd.TargetNumbers) > 0 {
		return d.resolveBatch(cmd, convCtx)
	}
	if cmd.TargetNumber > 0 {
		return d.resolveNumber(cmd, convCtx)
	}

	keyword := strings.TrimSpace(cmd.Keyword)
	if keyword == "" {
		keyword = strings.TrimSpace(cmd.Title)
	}
	if keyword != "" {
		return d.resolveKeyword(ctx, cmd, keyword, candidates)
	}

	return &Resolution{Command: cmd, NeedsSelection: true, Candidates: candidates}, nil
}

func (d *implDispatcher) resolveNumber(cmd *model.Command, convCtx model.ConversationContext) (*Resolution, error) {
	if len(convCtx.LastShownList) == 0 {
		return nil, &AmbiguityError{Kind: KindNoActiveList, Index: cmd.TargetNumber}
	}
	item, ok := convCtx.ItemAt(cmd.TargetNumber)
	if !ok {
		return nil, &AmbiguityError{Kind: KindOutOfRange, Index: cmd.TargetNumber}
	}
	return &Resolution{
		Command: cmd,
		Targets: []Target{targetFromItem(item)},
	}, nil
}

// resolveBatch resolves every index independently. In-range indices
// become targets, out-of-range ones become failures; the batch is never
// aborted as a whole.
func (d *implDispatcher) resolveBatch(cmd *model.Command, convCtx model.ConversationContext) (*Resolution, error) {
	if len(convCtx.LastShownList) == 0 {
		return nil, &AmbiguityError{Kind: KindNoActiveList}
	}

	res := &Resolution{Command: cmd}
	for _, n := range cmd.TargetNumbers {
		item, ok := convCtx.ItemAt(n)
		if !ok {
			res.Failures = append(res.Failures, BatchFailure{Index: n, Kind: KindOutOfRange})
			continue
		}
		res.Targets = append(res.Targets, targetFromItem(item))
	}
	return res, nil
}

// resolveKeyword does a case-sensitive substring match against the
// candidate titles. Matching is deliberately not normalized beyond
// trimming the keyword; multi-script input matches exactly as typed.
func (d *implDispatcher) resolveKeyword(ctx context.Context, cmd *model.Command, keyword string, candidates []model.Entity) (*Resolution, error) {
	pool := candidates
	if cmd.Type != "" {
		pool = make([]model.Entity, 0, len(candidates))
		for _, e := range candidates {
			if e.Type == cmd.Type {
				pool = append(pool, e)
			}
		}
	}

	var matches []model.Entity
	for _, e := range pool {
		if strings.Contains(e.Title, keyword) {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		d.l.Debugf(ctx, "dispatcher.Resolve: no title contains %q (%d candidates)", keyword, len(pool))
		return nil, &AmbiguityError{Kind: KindNotFound, Keyword: keyword}
	case 1:
		e := matches[0]
		return &Resolution{
			Command: cmd,
			Targets: []Target{{
				Index:      1,
				EntityID:   e.ID,
				EntityType: e.Type,
				Title:      e.Title,
				ListID:     e.ListID,
			}},
		}, nil
	default:
		return nil, &AmbiguityError{Kind: KindMultipleMatches, Keyword: keyword, Candidates: matches}
	}
}

func targetFromItem(item model.ListItem) Target {
	return Target{
		Index:      item.Index,
		EntityID:   item.EntityID,
		EntityType: item.EntityType,
		Title:      item.Title,
		ListID:     item.ListID,
	}
}
