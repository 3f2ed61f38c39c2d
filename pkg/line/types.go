package line

// WebhookBody is the request body LINE delivers to the webhook endpoint.
type WebhookBody struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is a single webhook event.
type Event struct {
	Type       string   `json:"type"` // "message", "follow", "unfollow"
	ReplyToken string   `json:"replyToken"`
	Source     Source   `json:"source"`
	Timestamp  int64    `json:"timestamp"`
	Message    *Message `json:"message,omitempty"`
}

// Source identifies the sender of an event.
type Source struct {
	Type    string `json:"type"` // "user", "group", "room"
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
}

// Message is a LINE message, both inbound and outbound.
type Message struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"` // "text" is the only type handled here
	Text string `json:"text,omitempty"`
}

type replyRequest struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}
