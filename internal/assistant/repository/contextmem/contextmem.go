package contextmem

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"line-calendar-bot/internal/model"
)

const (
	// DefaultTTL matches the pending-selection expiry of the original
	// KV store: a shown list is resolvable for 10 minutes.
	DefaultTTL = 10 * time.Minute

	defaultMaxUsers = 4096
)

// Store is an in-process conversation-context store with per-entry TTL.
// Expired entries read as absent, which downstream surfaces as the
// "operation timed out, ask for the list again" flow.
type Store struct {
	cache *expirable.LRU[string, model.ConversationContext]
}

// New creates a context store with the default TTL and capacity.
func New() *Store {
	return NewWithTTL(DefaultTTL)
}

// NewWithTTL creates a context store with a custom TTL.
func NewWithTTL(ttl time.Duration) *Store {
	return &Store{
		cache: expirable.NewLRU[string, model.ConversationContext](defaultMaxUsers, nil, ttl),
	}
}

func (s *Store) Get(userID string) (model.ConversationContext, bool) {
	return s.cache.Get(userID)
}

func (s *Store) Put(userID string, c model.ConversationContext) {
	s.cache.Add(userID, c)
}

func (s *Store) Delete(userID string) {
	s.cache.Remove(userID)
}
