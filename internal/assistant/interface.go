package assistant

import (
	"context"

	"line-calendar-bot/internal/model"
)

// UseCase defines the business logic interface for the assistant domain.
type UseCase interface {
	// HandleMessage runs one user message through the interpretation
	// pipeline and returns the reply text. It never returns user input
	// problems as errors; those become clarification replies.
	HandleMessage(ctx context.Context, sc model.Scope, input HandleMessageInput) (HandleMessageOutput, error)

	// HandleFollow returns the welcome message for a new follower.
	HandleFollow(ctx context.Context, sc model.Scope) (string, error)
}
