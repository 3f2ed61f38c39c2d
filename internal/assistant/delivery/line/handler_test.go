package line_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"line-calendar-bot/internal/assistant"
	deliveryLine "line-calendar-bot/internal/assistant/delivery/line"
	"line-calendar-bot/internal/model"
	pkgLine "line-calendar-bot/pkg/line"
)

const testChannelSecret = "test-channel-secret"

// ── Mocks ──────────────────────────────────────────────────────────────────

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

type mockUseCase struct {
	reply     string
	handleErr error
	mu        sync.Mutex
	messages  []string
}

func (m *mockUseCase) HandleMessage(ctx context.Context, sc model.Scope, input assistant.HandleMessageInput) (assistant.HandleMessageOutput, error) {
	m.mu.Lock()
	m.messages = append(m.messages, input.Text)
	m.mu.Unlock()
	return assistant.HandleMessageOutput{Reply: m.reply}, m.handleErr
}

func (m *mockUseCase) HandleFollow(ctx context.Context, sc model.Scope) (string, error) {
	return "🎉 ようこそ！", nil
}

// lineAPIRecorder captures reply/push payloads sent to the LINE API.
type lineAPIRecorder struct {
	mu      sync.Mutex
	replies []string
	pushes  []string
}

func (r *lineAPIRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var payload struct {
			Messages []struct {
				Text string `json:"text"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(req.Body).Decode(&payload)

		r.mu.Lock()
		for _, msg := range payload.Messages {
			switch req.URL.Path {
			case "/message/reply":
				r.replies = append(r.replies, msg.Text)
			case "/message/push":
				r.pushes = append(r.pushes, msg.Text)
			}
		}
		r.mu.Unlock()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	}
}

func (r *lineAPIRecorder) waitForPush(t *testing.T) string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		if len(r.pushes) > 0 {
			push := r.pushes[0]
			r.mu.Unlock()
			return push
		}
		r.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for a push message")
	return ""
}

// ── Test Helpers ───────────────────────────────────────────────────────────

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testChannelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newTestEnv(t *testing.T, uc assistant.UseCase) (*gin.Engine, *lineAPIRecorder, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := &lineAPIRecorder{}
	lineServer := httptest.NewServer(recorder.handler())

	client := pkgLine.NewClient("test-token")
	client.SetAPIURL(lineServer.URL)

	engine := gin.New()
	h := deliveryLine.New(&mockLogger{}, uc, client, testChannelSecret, nil)
	engine.POST("/webhook/line", h.HandleWebhook)

	return engine, recorder, lineServer
}

func sendWebhook(engine *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/line", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("x-line-signature", signature)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func textMessageBody(text string) []byte {
	body, _ := json.Marshal(pkgLine.WebhookBody{
		Events: []pkgLine.Event{
			{
				Type:       "message",
				ReplyToken: "reply-token-1",
				Source:     pkgLine.Source{Type: "user", UserID: "U1"},
				Message:    &pkgLine.Message{Type: "text", Text: text},
			},
		},
	})
	return body
}

// ── Tests ──────────────────────────────────────────────────────────────────

func TestHandleWebhook(t *testing.T) {
	t.Run("Text Message Acks Then Pushes Reply", func(t *testing.T) {
		uc := &mockUseCase{reply: "✅ タスクを登録しました！"}
		engine, recorder, srv := newTestEnv(t, uc)
		defer srv.Close()

		body := textMessageBody("タスク 牛乳を買う")
		w := sendWebhook(engine, body, sign(body))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		push := recorder.waitForPush(t)
		if push != "✅ タスクを登録しました！" {
			t.Errorf("got push %q", push)
		}

		recorder.mu.Lock()
		replies := append([]string(nil), recorder.replies...)
		recorder.mu.Unlock()
		if len(replies) != 1 || replies[0] != "⏳ 処理しています..." {
			t.Errorf("got replies %v", replies)
		}

		uc.mu.Lock()
		messages := append([]string(nil), uc.messages...)
		uc.mu.Unlock()
		if len(messages) != 1 || messages[0] != "タスク 牛乳を買う" {
			t.Errorf("usecase received %v", messages)
		}
	})

	t.Run("Invalid Signature Rejected", func(t *testing.T) {
		uc := &mockUseCase{reply: "x"}
		engine, _, srv := newTestEnv(t, uc)
		defer srv.Close()

		body := textMessageBody("タスク 牛乳を買う")
		w := sendWebhook(engine, body, "bm90LXRoZS1yaWdodC1zaWduYXR1cmU=")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}

		time.Sleep(50 * time.Millisecond)
		uc.mu.Lock()
		defer uc.mu.Unlock()
		if len(uc.messages) != 0 {
			t.Errorf("rejected webhook must not reach the usecase: %v", uc.messages)
		}
	})

	t.Run("Missing Signature Rejected", func(t *testing.T) {
		uc := &mockUseCase{}
		engine, _, srv := newTestEnv(t, uc)
		defer srv.Close()

		w := sendWebhook(engine, textMessageBody("x"), "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("Follow Event Sends Welcome", func(t *testing.T) {
		uc := &mockUseCase{}
		engine, recorder, srv := newTestEnv(t, uc)
		defer srv.Close()

		body, _ := json.Marshal(pkgLine.WebhookBody{
			Events: []pkgLine.Event{
				{
					Type:       "follow",
					ReplyToken: "reply-token-2",
					Source:     pkgLine.Source{Type: "user", UserID: "U2"},
				},
			},
		})
		w := sendWebhook(engine, body, sign(body))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			recorder.mu.Lock()
			n := len(recorder.replies)
			recorder.mu.Unlock()
			if n > 0 {
				break
			}
			time.Sleep(10 * time.Millisecond)
		}

		recorder.mu.Lock()
		defer recorder.mu.Unlock()
		if len(recorder.replies) != 1 || recorder.replies[0] != "🎉 ようこそ！" {
			t.Errorf("got replies %v", recorder.replies)
		}
	})

	t.Run("Non Text Message Ignored", func(t *testing.T) {
		uc := &mockUseCase{}
		engine, _, srv := newTestEnv(t, uc)
		defer srv.Close()

		body, _ := json.Marshal(pkgLine.WebhookBody{
			Events: []pkgLine.Event{
				{
					Type:       "message",
					ReplyToken: "reply-token-3",
					Source:     pkgLine.Source{Type: "user", UserID: "U3"},
					Message:    &pkgLine.Message{Type: "sticker"},
				},
			},
		})
		w := sendWebhook(engine, body, sign(body))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		time.Sleep(50 * time.Millisecond)
		uc.mu.Lock()
		defer uc.mu.Unlock()
		if len(uc.messages) != 0 {
			t.Errorf("sticker message must be ignored: %v", uc.messages)
		}
	})

	t.Run("Empty Message Dropped Without Push", func(t *testing.T) {
		uc := &mockUseCase{handleErr: assistant.ErrEmptyMessage}
		engine, recorder, srv := newTestEnv(t, uc)
		defer srv.Close()

		body, _ := json.Marshal(pkgLine.WebhookBody{
			Events: []pkgLine.Event{
				{
					Type:       "message",
					ReplyToken: "reply-token-4",
					Source:     pkgLine.Source{Type: "user", UserID: "U4"},
					Message:    &pkgLine.Message{Type: "text", Text: "   "},
				},
			},
		})
		w := sendWebhook(engine, body, sign(body))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		time.Sleep(50 * time.Millisecond)
		recorder.mu.Lock()
		defer recorder.mu.Unlock()
		if len(recorder.pushes) != 0 {
			t.Errorf("empty input must not be answered: %v", recorder.pushes)
		}
	})
}
