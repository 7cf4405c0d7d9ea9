// Package identity exposes the authenticated principal that scopes
// history ownership. It is a thin in-process provider: login/logout
// transitions plus change notification. Provider mechanics (tokens,
// refresh, federation) are out of scope.
package identity

import (
	"sync"

	"chiron/internal/logging"
)

// User is the minimal principal shape consumed by the rest of the app.
type User struct {
	UID         string
	Email       string
	DisplayName string
}

// Provider tracks the current identity and notifies listeners on every
// transition. The zero identity is "signed out" (Current returns nil).
type Provider struct {
	mu        sync.Mutex
	current   *User
	listeners map[int]func(*User)
	nextID    int
}

// NewProvider returns a signed-out provider.
func NewProvider() *Provider {
	return &Provider{listeners: make(map[int]func(*User))}
}

// Current returns the active identity, or nil when signed out.
func (p *Provider) Current() *User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Login sets the active identity and notifies listeners.
func (p *Provider) Login(user User) {
	p.mu.Lock()
	u := user
	p.current = &u
	fns := p.snapshotListeners()
	p.mu.Unlock()

	logging.Boot("Identity signed in: %s", user.UID)
	for _, fn := range fns {
		fn(&u)
	}
}

// Logout clears the active identity and notifies listeners with nil.
func (p *Provider) Logout() {
	p.mu.Lock()
	p.current = nil
	fns := p.snapshotListeners()
	p.mu.Unlock()

	logging.Boot("Identity signed out")
	for _, fn := range fns {
		fn(nil)
	}
}

// OnChange registers a listener invoked on every login/logout
// transition. The returned function cancels the registration.
func (p *Provider) OnChange(fn func(*User)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Provider) snapshotListeners() []func(*User) {
	fns := make([]func(*User), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	return fns
}
