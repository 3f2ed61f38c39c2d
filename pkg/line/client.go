package line

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIURL = "https://api.line.me/v2/bot"

// Client is the LINE Messaging API client.
type Client struct {
	channelToken string
	apiURL       string
	httpClient   *http.Client
}

// NewClient creates a new LINE Messaging API client with the given
// channel access token.
func NewClient(channelToken string) *Client {
	return &Client{
		channelToken: channelToken,
		apiURL:       defaultAPIURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SetAPIURL overrides the default LINE API URL for testing purposes.
func (c *Client) SetAPIURL(url string) {
	c.apiURL = url
}

// ReplyMessage replies to a webhook event using its reply token.
// Reply tokens are single-use and expire quickly; use PushMessage for
// anything sent after the initial acknowledgement.
func (c *Client) ReplyMessage(replyToken string, texts ...string) error {
	payload := replyRequest{
		ReplyToken: replyToken,
		Messages:   textMessages(texts),
	}
	return c.post("/message/reply", payload)
}

// PushMessage sends a message directly to a user.
func (c *Client) PushMessage(userID string, texts ...string) error {
	payload := pushRequest{
		To:       userID,
		Messages: textMessages(texts),
	}
	return c.post("/message/push", payload)
}

func (c *Client) post(path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.apiURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call LINE API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("LINE API error %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}

func textMessages(texts []string) []Message {
	msgs := make([]Message, 0, len(texts))
	for _, t := range texts {
		msgs = append(msgs, Message{Type: "text", Text: t})
	}
	return msgs
}
