package notifier

import "sync"

// Registry tracks the LINE users eligible for reminder pushes. Users
// are added when they follow the bot or send a message.
type Registry struct {
	mu    sync.RWMutex
	users map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{users: map[string]struct{}{}}
}

func (r *Registry) Add(userID string) {
	if userID == "" {
		return
	}
	r.mu.Lock()
	r.users[userID] = struct{}{}
	r.mu.Unlock()
}

func (r *Registry) Remove(userID string) {
	r.mu.Lock()
	delete(r.users, userID)
	r.mu.Unlock()
}

func (r *Registry) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.users))
	for id := range r.users {
		out = append(out, id)
	}
	return out
}
