package interpreter

import (
	"context"
	"time"

	"line-calendar-bot/internal/model"
	"line-calendar-bot/pkg/dateparse"
	"line-calendar-bot/pkg/gemini"
	"line-calendar-bot/pkg/log"
)

// Interpreter turns raw user text into a structured command.
type Interpreter interface {
	// Interpret runs the LLM path. A (nil, nil) return is a clean
	// no-match; ErrLLMUnavailable means all retry attempts failed and
	// the caller should fall back to FallbackParse.
	Interpret(ctx context.Context, text string, convCtx model.ConversationContext, now time.Time) (*model.Command, error)

	// FallbackParse runs the pattern-based parser. No network calls.
	FallbackParse(text string, now time.Time) (*model.Command, bool)
}

// LLMClient is the slice of the Gemini client the interpreter needs.
type LLMClient interface {
	GenerateContent(ctx context.Context, req gemini.GenerateRequest) (*gemini.GenerateResponse, error)
}

// SleepFunc waits for the given duration or until the context is done.
// Injectable so retry timing can be observed in tests.
type SleepFunc func(ctx context.Context, d time.Duration) error

type implInterpreter struct {
	l     log.Logger
	llm   LLMClient
	dates *dateparse.Resolver
	sleep SleepFunc
}

// New creates a new Interpreter.
func New(l log.Logger, llm LLMClient, dates *dateparse.Resolver) *implInterpreter {
	return &implInterpreter{
		l:     l,
		llm:   llm,
		dates: dates,
		sleep: defaultSleep,
	}
}

// SetSleepFunc overrides the retry sleep for testing purposes.
func (i *implInterpreter) SetSleepFunc(fn SleepFunc) {
	i.sleep = fn
}

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
