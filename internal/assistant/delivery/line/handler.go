package line

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"

	"line-calendar-bot/internal/assistant"
	"line-calendar-bot/internal/model"
	pkgLine "line-calendar-bot/pkg/line"
	pkgResponse "line-calendar-bot/pkg/response"
)

const (
	signatureHeader = "x-line-signature"

	msgProcessing = "⏳ 処理しています..."
)

// HandleWebhook is the Gin handler for incoming LINE webhook requests.
// It validates the request signature, responds with HTTP 200
// immediately, and processes the events in a background goroutine
// (LINE expects an ack within a second, the interpretation pipeline
// can take several).
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := c.GetRawData()
	if err != nil {
		h.l.Errorf(ctx, "line handler: reading body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	if err := pkgLine.ValidateSignature(h.channelSecret, c.GetHeader(signatureHeader), body); err != nil {
		h.l.Warnf(ctx, "line handler: signature rejected: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	var webhook pkgLine.WebhookBody
	if err := json.Unmarshal(body, &webhook); err != nil {
		h.l.Errorf(ctx, "line handler: failed to parse webhook body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Snapshot before spawning: the gin context is recycled after the
	// response is written.
	events := webhook.Events

	go func() {
		// Detach from the request context, which is cancelled on ack.
		bgCtx := context.Background()
		for _, event := range events {
			if err := h.processEvent(bgCtx, event); err != nil {
				h.l.Errorf(bgCtx, "line handler: background processEvent failed: %v", err)
			}
		}
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

func (h *handler) processEvent(ctx context.Context, event pkgLine.Event) error {
	sc := model.Scope{UserID: event.Source.UserID}
	if h.registrar != nil && event.Type != "unfollow" {
		h.registrar.Add(sc.UserID)
	}

	switch event.Type {
	case "follow":
		welcome, err := h.uc.HandleFollow(ctx, sc)
		if err != nil {
			return err
		}
		return h.client.ReplyMessage(event.ReplyToken, welcome)

	case "message":
		if event.Message == nil || event.Message.Type != "text" {
			return nil
		}
		return h.processTextMessage(ctx, sc, event)

	default:
		return nil
	}
}

func (h *handler) processTextMessage(ctx context.Context, sc model.Scope, event pkgLine.Event) error {
	// Consume the reply token right away; the final answer goes out as
	// a push once the pipeline finishes.
	if err := h.client.ReplyMessage(event.ReplyToken, msgProcessing); err != nil {
		h.l.Warnf(ctx, "line handler: failed to send ack message: %v", err)
	}

	out, err := h.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: event.Message.Text})
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyMessage) {
			return nil
		}
		h.l.Errorf(ctx, "line handler: HandleMessage failed: %v", err)
		return h.client.PushMessage(sc.UserID, "⚠️ 処理中にエラーが発生しました。\n\nもう一度お試しください。")
	}

	return h.client.PushMessage(sc.UserID, out.Reply)
}
