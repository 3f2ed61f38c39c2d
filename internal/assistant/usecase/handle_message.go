package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"line-calendar-bot/internal/assistant"
	"line-calendar-bot/internal/dispatcher"
	"line-calendar-bot/internal/interpreter"
	"line-calendar-bot/internal/model"
	"line-calendar-bot/internal/reward"
)

// outcome is the result of executing one command: the reply text plus
// what the next LastShownList should be. keepList preserves the
// previous list (clarifications that don't consume or replace it).
type outcome struct {
	reply    string
	list     []model.ListItem
	keepList bool
}

// HandleMessage runs one user message through interpret → dispatch →
// execute → render, persists the conversation context, and records the
// interaction for telemetry. Interpretation problems become
// clarification replies, not errors; the one exception is
// whitespace-only input, rejected as ErrEmptyMessage so callers can
// drop the event without replying.
func (uc *implUseCase) HandleMessage(ctx context.Context, sc model.Scope, input assistant.HandleMessageInput) (assistant.HandleMessageOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return assistant.HandleMessageOutput{}, assistant.ErrEmptyMessage
	}

	convCtx, _ := uc.ctxRepo.Get(sc.UserID)
	now := uc.now()

	cmd := uc.interpret(ctx, text, convCtx, now)

	var out outcome
	if cmd == nil {
		out = outcome{reply: msgHelp, keepList: true}
	} else {
		out = uc.execute(ctx, sc, cmd, convCtx)
	}

	next := model.ConversationContext{LastBotMessage: out.reply, LastShownList: out.list}
	if out.keepList {
		next.LastShownList = convCtx.LastShownList
	}
	uc.ctxRepo.Put(sc.UserID, next)

	interactionID := uc.recorder.RecordInteraction(ctx, reward.Interaction{
		UserID:      sc.UserID,
		TaskType:    reward.DetectTaskType(text),
		UserMessage: text,
		BotResponse: out.reply,
		Reward:      reward.Estimate(out.reply),
	})

	return assistant.HandleMessageOutput{Reply: out.reply, InteractionID: interactionID}, nil
}

// HandleFollow returns the welcome message for a new follower.
func (uc *implUseCase) HandleFollow(ctx context.Context, sc model.Scope) (string, error) {
	uc.l.Infof(ctx, "assistant.HandleFollow: new follower %s", sc.UserID)
	return msgWelcome, nil
}

// interpret runs the LLM path and falls back to the pattern parser when
// the LLM is unavailable (or configured off). Returns nil when nothing
// actionable was found.
func (uc *implUseCase) interpret(ctx context.Context, text string, convCtx model.ConversationContext, now time.Time) *model.Command {
	cmd, err := uc.interp.Interpret(ctx, text, convCtx, now)
	if err != nil {
		switch {
		case errors.Is(err, interpreter.ErrLLMUnavailable):
			uc.l.Warnf(ctx, "assistant.interpret: LLM unavailable, trying pattern fallback: %v", err)
			if !uc.fallbackEnabled {
				return nil
			}
		case errors.Is(err, interpreter.ErrEmptyInput):
			return nil
		default:
			uc.l.Errorf(ctx, "assistant.interpret: %v", err)
			return nil
		}
	}
	if cmd != nil {
		return cmd
	}

	if fb, ok := uc.interp.FallbackParse(text, now); ok {
		return fb
	}
	return nil
}

// execute dispatches one validated command and runs its action.
func (uc *implUseCase) execute(ctx context.Context, sc model.Scope, cmd *model.Command, convCtx model.ConversationContext) outcome {
	var candidates []model.Entity
	if uc.needsCandidates(cmd) {
		var err error
		candidates, err = uc.candidatesFor(ctx, sc, cmd)
		if err != nil {
			uc.l.Errorf(ctx, "assistant.execute: loading candidates: %v", err)
			return outcome{reply: msgGenericError, keepList: true}
		}
	}

	res, err := uc.disp.Resolve(ctx, cmd, convCtx, candidates)
	if err != nil {
		var ae *dispatcher.AmbiguityError
		if errors.As(err, &ae) {
			return uc.clarify(ae)
		}
		uc.l.Errorf(ctx, "assistant.execute: dispatch: %v", err)
		return outcome{reply: msgGenericError, keepList: true}
	}

	switch cmd.Action {
	case model.ActionCreate:
		return uc.createAction(ctx, sc, cmd)
	case model.ActionList:
		return uc.listAction(cmd, res.Candidates)
	case model.ActionCancel:
		return uc.cancelAction(ctx, sc, res)
	case model.ActionComplete:
		return uc.completeAction(ctx, sc, res)
	case model.ActionUpdate:
		return uc.updateAction(ctx, sc, cmd, res)
	default:
		return outcome{reply: msgUnknownAction, keepList: true}
	}
}

// clarify turns a dispatcher ambiguity into the matching user reply.
// These are normal branches, not failures.
func (uc *implUseCase) clarify(ae *dispatcher.AmbiguityError) outcome {
	switch ae.Kind {
	case dispatcher.KindNoActiveList:
		return outcome{reply: msgTimeout}
	case dispatcher.KindOutOfRange:
		return outcome{
			reply:    fmt.Sprintf("⚠️ %d番は一覧にありません。\n\nもう一度番号をご確認ください。", ae.Index),
			keepList: true,
		}
	case dispatcher.KindNotFound:
		return outcome{
			reply:    fmt.Sprintf("❌ 「%s」に一致する項目が見つかりませんでした。", ae.Keyword),
			keepList: true,
		}
	case dispatcher.KindMultipleMatches:
		reply, items := renderSelectionList(ae.Keyword, ae.Candidates)
		return outcome{reply: reply, list: items}
	}
	return outcome{reply: msgGenericError, keepList: true}
}

// needsCandidates reports whether resolution will consult the candidate
// entity set (keyword match, listing, or a fresh selection prompt).
func (uc *implUseCase) needsCandidates(cmd *model.Command) bool {
	if cmd.Action == model.ActionCreate {
		return false
	}
	return cmd.TargetNumber == 0 && len(cmd.TargetNumbers) == 0
}

// candidatesFor loads the entity set a non-create command operates on:
// tasks for completion and task-typed commands, events otherwise.
func (uc *implUseCase) candidatesFor(ctx context.Context, sc model.Scope, cmd *model.Command) ([]model.Entity, error) {
	if cmd.Type == model.EntityTask || cmd.Action == model.ActionComplete {
		return uc.repo.ListTasks(ctx, sc)
	}
	return uc.repo.ListEvents(ctx, sc, eventListDays)
}
