package reward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"line-calendar-bot/pkg/log"
)

// Interaction is one user-message/bot-reply pair recorded for quality
// telemetry.
type Interaction struct {
	UserID      string
	TaskType    string
	UserMessage string
	BotResponse string
	Context     map[string]any
	Reward      float64
}

// Recorder ships interactions to the telemetry collector. Every method
// is best-effort: failures are logged and swallowed, never surfaced to
// the message flow.
type Recorder interface {
	RecordInteraction(ctx context.Context, in Interaction) string
	SetReward(ctx context.Context, interactionID string, reward float64, feedback string)
}

type implRecorder struct {
	l          log.Logger
	baseURL    string
	httpClient *http.Client
}

// NewRecorder creates a telemetry recorder. An empty baseURL disables
// recording entirely.
func NewRecorder(l log.Logger, baseURL string) *implRecorder {
	return &implRecorder{
		l:          l,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

// RecordInteraction sends the interaction and returns its generated ID,
// or "" when recording is disabled or the collector is unreachable.
func (r *implRecorder) RecordInteraction(ctx context.Context, in Interaction) string {
	if r.baseURL == "" {
		return ""
	}

	id := uuid.NewString()
	payload := map[string]any{
		"interaction_id": id,
		"user_id":        in.UserID,
		"task_type":      in.TaskType,
		"user_message":   in.UserMessage,
		"bot_response":   in.BotResponse,
		"context":        in.Context,
		"reward":         in.Reward,
	}
	if err := r.post(ctx, recordEndpoint, payload); err != nil {
		r.l.Debugf(ctx, "reward.RecordInteraction: %v", err)
		return ""
	}
	return id
}

// SetReward attaches a manual reward to a previously recorded
// interaction.
func (r *implRecorder) SetReward(ctx context.Context, interactionID string, reward float64, feedback string) {
	if r.baseURL == "" || interactionID == "" {
		return
	}

	payload := map[string]any{
		"interaction_id": interactionID,
		"reward":         reward,
		"feedback":       feedback,
	}
	if err := r.post(ctx, rewardEndpoint, payload); err != nil {
		r.l.Debugf(ctx, "reward.SetReward: %v", err)
	}
}

func (r *implRecorder) post(ctx context.Context, endpoint string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collector returned status %d", resp.StatusCode)
	}
	return nil
}
