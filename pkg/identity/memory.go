package identity

import (
	"context"
	"sync"
)

// MemoryProvider is the in-memory fake used by tests and keyless demo
// runs. It also supports auth-change subscriptions for UI shells that
// react to sign-in and sign-out.
type MemoryProvider struct {
	mu    sync.Mutex
	users map[string]User
	subs  []func(userID string, signedIn bool)
}

func NewMemoryProvider(users ...User) *MemoryProvider {
	p := &MemoryProvider{users: make(map[string]User)}
	for _, u := range users {
		p.users[u.ID] = u
	}
	return p
}

func (p *MemoryProvider) Lookup(_ context.Context, userID string) (*User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if u, ok := p.users[userID]; ok {
		return &u, nil
	}
	return nil, nil
}

// Add registers a user and notifies subscribers of a sign-in.
func (p *MemoryProvider) Add(u User) {
	p.mu.Lock()
	p.users[u.ID] = u
	subs := append([](func(string, bool))(nil), p.subs...)
	p.mu.Unlock()
	for _, fn := range subs {
		fn(u.ID, true)
	}
}

// Remove drops a user and notifies subscribers of a sign-out.
func (p *MemoryProvider) Remove(userID string) {
	p.mu.Lock()
	delete(p.users, userID)
	subs := append([](func(string, bool))(nil), p.subs...)
	p.mu.Unlock()
	for _, fn := range subs {
		fn(userID, false)
	}
}

// Subscribe registers an auth-change callback.
func (p *MemoryProvider) Subscribe(fn func(userID string, signedIn bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
}
