package model

// ListItem is one row of a numbered list previously shown to the user.
type ListItem struct {
	Index      int // 1-based position as displayed
	EntityID   string
	EntityType EntityType
	Title      string
	ListID     string // tasks only
}

// ConversationContext is the per-user state carried between messages.
// It is read at the start of interpretation and written after every bot
// reply that contains a numbered list. It is the only cross-message state
// the interpretation pipeline depends on.
type ConversationContext struct {
	LastBotMessage string
	LastShownList  []ListItem
}

// ItemAt returns the list item displayed at the given 1-based index.
func (c ConversationContext) ItemAt(n int) (ListItem, bool) {
	if n < 1 || n > len(c.LastShownList) {
		return ListItem{}, false
	}
	return c.LastShownList[n-1], true
}
