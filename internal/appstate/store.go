// Package appstate holds the single source of truth for the client:
// current record, record history, emergency contacts, and the offline
// flag. All mutation goes through typed actions and a pure reducer;
// every dispatch produces a fresh aggregate, so observers never see a
// partially applied update.
package appstate

import (
	"sync"

	"chiron/internal/logging"
	"chiron/internal/triage"
)

// Store is the single-writer, many-reader aggregate owner. Components
// receive it by constructor injection; there is no package-level
// singleton.
type Store struct {
	mu        sync.Mutex
	state     triage.ClientState
	listeners map[int]func(triage.ClientState)
	nextID    int
}

// New returns an empty store. The offline flag starts false; the
// connectivity monitor seeds the real value at startup.
func New() *Store {
	return &Store{
		state: triage.ClientState{
			History:  []triage.InjuryRecord{},
			Contacts: []triage.EmergencyContact{},
		},
		listeners: make(map[int]func(triage.ClientState)),
	}
}

// State returns the current aggregate. The returned value shares slice
// backing with the store; treat it as immutable.
func (s *Store) State() triage.ClientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener invoked after every applied action
// with the fresh aggregate. The returned function cancels the
// subscription; callers own cancellation.
func (s *Store) Subscribe(fn func(triage.ClientState)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Dispatch applies an action atomically and notifies listeners with the
// resulting state. Apply-and-swap happens under the lock, so two
// dispatches are always strictly ordered and never interleave.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state = reduce(s.state, action)
	state := s.state
	fns := make([]func(triage.ClientState), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	logging.StoreDebug("Dispatched %T (history=%d contacts=%d offline=%v)",
		action, len(state.History), len(state.Contacts), state.Offline)

	for _, fn := range fns {
		fn(state)
	}
}

// reduce is the pure transition function from (state, action) to the
// next state. Nested containers are never mutated in place.
func reduce(state triage.ClientState, action Action) triage.ClientState {
	switch a := action.(type) {
	case SetCurrentRecord:
		state.CurrentRecord = a.Record
		return state

	case AddRecord:
		history := make([]triage.InjuryRecord, 0, len(state.History)+1)
		history = append(history, a.Record)
		history = append(history, state.History...)
		record := a.Record
		state.History = history
		state.CurrentRecord = &record
		return state

	case ReplaceRecord:
		history := make([]triage.InjuryRecord, len(state.History))
		for i, rec := range state.History {
			if rec.ID == a.Record.ID {
				history[i] = a.Record
			} else {
				history[i] = rec
			}
		}
		state.History = history
		if state.CurrentRecord != nil && state.CurrentRecord.ID == a.Record.ID {
			record := a.Record
			state.CurrentRecord = &record
		}
		return state

	case AddContact:
		contacts := make([]triage.EmergencyContact, 0, len(state.Contacts)+1)
		contacts = append(contacts, state.Contacts...)
		contacts = append(contacts, a.Contact)
		state.Contacts = contacts
		return state

	case RemoveContact:
		contacts := make([]triage.EmergencyContact, 0, len(state.Contacts))
		for _, c := range state.Contacts {
			if c.ID != a.ID {
				contacts = append(contacts, c)
			}
		}
		state.Contacts = contacts
		return state

	case SetOffline:
		state.Offline = a.Offline
		return state

	case SetHistory:
		history := a.History
		if history == nil {
			history = []triage.InjuryRecord{}
		}
		state.History = history
		return state

	case LoadBulk:
		if a.CurrentRecord != nil {
			record := *a.CurrentRecord
			state.CurrentRecord = &record
		}
		if a.History != nil {
			state.History = a.History
		}
		if a.Contacts != nil {
			state.Contacts = a.Contacts
		}
		return state

	default:
		// Unknown actions leave state unchanged.
		return state
	}
}
