// Package connectivity observes network transitions and republishes the
// offline flag into the client state store. Event delivery is
// immediate; there is no debouncing.
package connectivity

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"chiron/internal/appstate"
	"chiron/internal/logging"
)

// Source supplies connectivity transitions. Online reports the current
// value for seeding; Events yields true for online, false for offline,
// one entry per transition.
type Source interface {
	Online() bool
	Events() <-chan bool
}

// Monitor forwards transitions from a Source into the state store.
type Monitor struct {
	store  *appstate.Store
	source Source
}

// NewMonitor wires a monitor; call Run to attach it.
func NewMonitor(store *appstate.Store, source Source) *Monitor {
	return &Monitor{store: store, source: source}
}

// Run seeds the initial offline flag, then forwards every transition
// until ctx is canceled.
func (m *Monitor) Run(ctx context.Context) error {
	online := m.source.Online()
	logging.Connectivity("Initial connectivity: online=%v", online)
	m.store.Dispatch(appstate.SetOffline{Offline: !online})

	for {
		select {
		case <-ctx.Done():
			return nil
		case online, ok := <-m.source.Events():
			if !ok {
				return nil
			}
			logging.Connectivity("Transition: online=%v", online)
			m.store.Dispatch(appstate.SetOffline{Offline: !online})
		}
	}
}

// Prober is an HTTP-probe Source: it requests a well-known endpoint on
// an interval and emits an event whenever reachability flips. Online is
// read concurrently with the probe loop, so the state is atomic.
type Prober struct {
	url      string
	interval time.Duration
	client   *http.Client

	events chan bool
	online atomic.Bool
}

// NewProber creates a probe source. The initial state is taken from one
// synchronous probe so startup sees a real value.
func NewProber(url string, interval time.Duration) *Prober {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	p := &Prober{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 5 * time.Second},
		events:   make(chan bool, 1),
	}
	p.online.Store(p.probe(context.Background()))
	return p
}

// Online returns the most recently probed state.
func (p *Prober) Online() bool { return p.online.Load() }

// Events yields reachability transitions.
func (p *Prober) Events() <-chan bool { return p.events }

// Run probes until ctx is canceled.
func (p *Prober) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(p.events)
			return nil
		case <-ticker.C:
			online := p.probe(ctx)
			if online == p.online.Load() {
				continue
			}
			p.online.Store(online)
			select {
			case p.events <- online:
			case <-ctx.Done():
				close(p.events)
				return nil
			}
		}
	}
}

func (p *Prober) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
