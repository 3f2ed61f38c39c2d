package usecase

import (
	"time"

	"line-calendar-bot/internal/assistant/repository"
	"line-calendar-bot/internal/dispatcher"
	"line-calendar-bot/internal/interpreter"
	"line-calendar-bot/internal/reward"
	"line-calendar-bot/pkg/dateparse"
	pkgLog "line-calendar-bot/pkg/log"
)

type implUseCase struct {
	l        pkgLog.Logger
	interp   interpreter.Interpreter
	disp     dispatcher.Dispatcher
	repo     repository.EntityRepository
	ctxRepo  repository.ContextRepository
	recorder reward.Recorder
	dates    *dateparse.Resolver

	// fallbackEnabled routes to the pattern parser when the LLM is
	// unavailable instead of surfacing a parse failure.
	fallbackEnabled bool

	now func() time.Time
}

// New creates a new assistant UseCase instance.
func New(
	l pkgLog.Logger,
	interp interpreter.Interpreter,
	disp dispatcher.Dispatcher,
	repo repository.EntityRepository,
	ctxRepo repository.ContextRepository,
	recorder reward.Recorder,
	dates *dateparse.Resolver,
	fallbackEnabled bool,
) *implUseCase {
	return &implUseCase{
		l:               l,
		interp:          interp,
		disp:            disp,
		repo:            repo,
		ctxRepo:         ctxRepo,
		recorder:        recorder,
		dates:           dates,
		fallbackEnabled: fallbackEnabled,
		now:             time.Now,
	}
}

// SetNowFunc overrides the clock for testing purposes.
func (uc *implUseCase) SetNowFunc(fn func() time.Time) {
	uc.now = fn
}
