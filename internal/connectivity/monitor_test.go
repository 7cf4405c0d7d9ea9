package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chiron/internal/appstate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource scripts connectivity transitions for the monitor.
type fakeSource struct {
	online bool
	events chan bool
}

func (f *fakeSource) Online() bool        { return f.online }
func (f *fakeSource) Events() <-chan bool { return f.events }

func TestMonitor_SeedsInitialValue(t *testing.T) {
	store := appstate.New()
	source := &fakeSource{online: false, events: make(chan bool)}
	m := NewMonitor(store, source)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return store.State().Offline
	}, time.Second, 5*time.Millisecond, "initial offline flag seeded at startup")

	cancel()
	<-done
}

func TestMonitor_ForwardsEveryTransition(t *testing.T) {
	store := appstate.New()
	source := &fakeSource{online: true, events: make(chan bool)}
	m := NewMonitor(store, source)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Run(ctx)
	}()

	source.events <- false
	require.Eventually(t, func() bool {
		return store.State().Offline
	}, time.Second, 5*time.Millisecond)

	source.events <- true
	require.Eventually(t, func() bool {
		return !store.State().Offline
	}, time.Second, 5*time.Millisecond)

	// Only the flag moves; the rest of the aggregate is untouched.
	state := store.State()
	assert.Empty(t, state.History)
	assert.Empty(t, state.Contacts)
	assert.Nil(t, state.CurrentRecord)

	cancel()
	<-done
}

// Exercised under -race: Online is read continuously while the probe
// loop flips the state after the endpoint goes away.
func TestProber_OnlineIsSafeDuringFlips(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	p := NewProber(srv.URL, time.Millisecond)
	require.True(t, p.Online())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Run(ctx)
	}()

	stop := make(chan struct{})
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			select {
			case <-stop:
				return
			default:
				_ = p.Online()
			}
		}
	}()

	srv.Close()
	select {
	case online := <-p.Events():
		assert.False(t, online, "losing the endpoint must surface as an offline flip")
	case <-time.After(time.Second):
		t.Fatal("no transition after the endpoint went away")
	}
	assert.False(t, p.Online())

	close(stop)
	<-readerDone
	cancel()
	<-done
}

func TestMonitor_StopsWhenSourceCloses(t *testing.T) {
	store := appstate.New()
	source := &fakeSource{online: true, events: make(chan bool)}
	m := NewMonitor(store, source)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Run(context.Background())
	}()

	close(source.events)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop when the source closed")
	}
}
