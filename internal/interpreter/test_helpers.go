package interpreter

import (
	"context"
	"time"

	"line-calendar-bot/pkg/dateparse"
	"line-calendar-bot/pkg/gemini"
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

// Mock LLM client; responses are consumed in order, the last one
// repeats. An entry with err set fails that call.
type mockLLM struct {
	responses []mockLLMResponse
	calls     int
	prompts   []string
}

type mockLLMResponse struct {
	text string
	err  error
}

func (m *mockLLM) GenerateContent(ctx context.Context, req gemini.GenerateRequest) (*gemini.GenerateResponse, error) {
	if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
		m.prompts = append(m.prompts, req.Contents[0].Parts[0].Text)
	}

	idx := m.calls
	m.calls++
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	r := m.responses[idx]
	if r.err != nil {
		return nil, r.err
	}
	return &gemini.GenerateResponse{
		Candidates: []gemini.Candidate{
			{Content: gemini.Content{Parts: []gemini.Part{{Text: r.text}}}},
		},
	}, nil
}

func newTestInterpreter(llm *mockLLM) *implInterpreter {
	dates, err := dateparse.NewResolver("Asia/Tokyo")
	if err != nil {
		panic(err)
	}
	i := New(&mockLogger{}, llm, dates)
	i.SetSleepFunc(func(ctx context.Context, d time.Duration) error { return nil })
	return i
}
