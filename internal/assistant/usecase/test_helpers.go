package usecase

import (
	"context"
	"time"

	"line-calendar-bot/internal/assistant/repository"
	"line-calendar-bot/internal/dispatcher"
	"line-calendar-bot/internal/model"
	"line-calendar-bot/internal/reward"
	"line-calendar-bot/pkg/dateparse"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// Mock interpreter with injectable behavior per test.
type mockInterpreter struct {
	interpretFn func(ctx context.Context, text string, convCtx model.ConversationContext, now time.Time) (*model.Command, error)
	fallbackFn  func(text string, now time.Time) (*model.Command, bool)
}

func (m *mockInterpreter) Interpret(ctx context.Context, text string, convCtx model.ConversationContext, now time.Time) (*model.Command, error) {
	if m.interpretFn == nil {
		return nil, nil
	}
	return m.interpretFn(ctx, text, convCtx, now)
}

func (m *mockInterpreter) FallbackParse(text string, now time.Time) (*model.Command, bool) {
	if m.fallbackFn == nil {
		return nil, false
	}
	return m.fallbackFn(text, now)
}

// Mock entity repository with injectable behavior per test.
type mockEntityRepo struct {
	listEventsFn   func(ctx context.Context, sc model.Scope, days int) ([]model.Entity, error)
	listTasksFn    func(ctx context.Context, sc model.Scope) ([]model.Entity, error)
	createEventFn  func(ctx context.Context, sc model.Scope, opt repository.CreateEventOptions) (model.Entity, error)
	createTaskFn   func(ctx context.Context, sc model.Scope, opt repository.CreateTaskOptions) (repository.CreatedTask, error)
	deleteEventFn  func(ctx context.Context, sc model.Scope, eventID string) error
	updateEventFn  func(ctx context.Context, sc model.Scope, opt repository.UpdateEventTimeOptions) (model.Entity, error)
	completeTaskFn func(ctx context.Context, sc model.Scope, listID, taskID string) error
	deleteTaskFn   func(ctx context.Context, sc model.Scope, listID, taskID string) error
}

func (m *mockEntityRepo) ListEvents(ctx context.Context, sc model.Scope, days int) ([]model.Entity, error) {
	if m.listEventsFn == nil {
		return nil, nil
	}
	return m.listEventsFn(ctx, sc, days)
}

func (m *mockEntityRepo) ListTasks(ctx context.Context, sc model.Scope) ([]model.Entity, error) {
	if m.listTasksFn == nil {
		return nil, nil
	}
	return m.listTasksFn(ctx, sc)
}

func (m *mockEntityRepo) CreateEvent(ctx context.Context, sc model.Scope, opt repository.CreateEventOptions) (model.Entity, error) {
	if m.createEventFn == nil {
		return model.Entity{ID: "ev-new", Type: model.EntityEvent, Title: opt.Title}, nil
	}
	return m.createEventFn(ctx, sc, opt)
}

func (m *mockEntityRepo) CreateTask(ctx context.Context, sc model.Scope, opt repository.CreateTaskOptions) (repository.CreatedTask, error) {
	if m.createTaskFn == nil {
		return repository.CreatedTask{
			Entity:    model.Entity{ID: "task-new", Type: model.EntityTask, Title: opt.Title},
			ListTitle: "マイタスク",
		}, nil
	}
	return m.createTaskFn(ctx, sc, opt)
}

func (m *mockEntityRepo) DeleteEvent(ctx context.Context, sc model.Scope, eventID string) error {
	if m.deleteEventFn == nil {
		return nil
	}
	return m.deleteEventFn(ctx, sc, eventID)
}

func (m *mockEntityRepo) UpdateEventTime(ctx context.Context, sc model.Scope, opt repository.UpdateEventTimeOptions) (model.Entity, error) {
	if m.updateEventFn == nil {
		return model.Entity{ID: opt.EventID, Type: model.EntityEvent, StartTime: opt.StartTime, EndTime: opt.EndTime}, nil
	}
	return m.updateEventFn(ctx, sc, opt)
}

func (m *mockEntityRepo) CompleteTask(ctx context.Context, sc model.Scope, listID, taskID string) error {
	if m.completeTaskFn == nil {
		return nil
	}
	return m.completeTaskFn(ctx, sc, listID, taskID)
}

func (m *mockEntityRepo) DeleteTask(ctx context.Context, sc model.Scope, listID, taskID string) error {
	if m.deleteTaskFn == nil {
		return nil
	}
	return m.deleteTaskFn(ctx, sc, listID, taskID)
}

// Mock context repository backed by a plain map (no TTL).
type mockContextRepo struct {
	store map[string]model.ConversationContext
}

func newMockContextRepo() *mockContextRepo {
	return &mockContextRepo{store: map[string]model.ConversationContext{}}
}

func (m *mockContextRepo) Get(userID string) (model.ConversationContext, bool) {
	c, ok := m.store[userID]
	return c, ok
}

func (m *mockContextRepo) Put(userID string, c model.ConversationContext) {
	m.store[userID] = c
}

func (m *mockContextRepo) Delete(userID string) {
	delete(m.store, userID)
}

// Mock recorder capturing interactions.
type mockRecorder struct {
	interactions []reward.Interaction
}

func (m *mockRecorder) RecordInteraction(ctx context.Context, in reward.Interaction) string {
	m.interactions = append(m.interactions, in)
	return "interaction-1"
}

func (m *mockRecorder) SetReward(ctx context.Context, interactionID string, r float64, feedback string) {}

type testFixture struct {
	uc       *implUseCase
	interp   *mockInterpreter
	repo     *mockEntityRepo
	ctxRepo  *mockContextRepo
	recorder *mockRecorder
}

func newFixture() *testFixture {
	dates, err := dateparse.NewResolver("Asia/Tokyo")
	if err != nil {
		panic(err)
	}

	f := &testFixture{
		interp:   &mockInterpreter{},
		repo:     &mockEntityRepo{},
		ctxRepo:  newMockContextRepo(),
		recorder: &mockRecorder{},
	}
	f.uc = New(
		&mockLogger{},
		f.interp,
		dispatcher.New(&mockLogger{}),
		f.repo,
		f.ctxRepo,
		f.recorder,
		dates,
		true,
	)
	f.uc.SetNowFunc(func() time.Time {
		jst, _ := time.LoadLocation("Asia/Tokyo")
		return time.Date(2025, 6, 1, 12, 0, 0, 0, jst)
	})
	return f
}
