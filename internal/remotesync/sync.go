// Package remotesync keeps the client state's record history aligned
// with the remote assessment collection. It follows identity
// transitions, holds exactly one live watch at a time, and wholesale-
// replaces the history on every snapshot. Subscription failures degrade
// to an empty history, never to a crash.
package remotesync

import (
	"sync"

	"chiron/internal/appstate"
	"chiron/internal/docstore"
	"chiron/internal/identity"
	"chiron/internal/logging"
	"chiron/internal/triage"
)

// Syncer republishes remote snapshots into the state store.
type Syncer struct {
	store *appstate.Store
	docs  *docstore.Store
	ids   *identity.Provider

	mu             sync.Mutex
	gen            int // bumped on every identity transition
	cancelWatch    func()
	cancelIdentity func()
}

// New wires a syncer; call Start to attach it.
func New(store *appstate.Store, docs *docstore.Store, ids *identity.Provider) *Syncer {
	return &Syncer{store: store, docs: docs, ids: ids}
}

// Start subscribes to identity transitions and seeds the watch from the
// current identity.
func (s *Syncer) Start() {
	s.mu.Lock()
	if s.cancelIdentity == nil {
		s.cancelIdentity = s.ids.OnChange(s.onIdentity)
	}
	s.mu.Unlock()

	s.onIdentity(s.ids.Current())
}

// Stop tears down the live watch and the identity subscription.
func (s *Syncer) Stop() {
	s.mu.Lock()
	s.gen++
	cancelWatch := s.cancelWatch
	cancelIdentity := s.cancelIdentity
	s.cancelWatch = nil
	s.cancelIdentity = nil
	s.mu.Unlock()

	if cancelWatch != nil {
		cancelWatch()
	}
	if cancelIdentity != nil {
		cancelIdentity()
	}
}

// onIdentity handles a login/logout transition. The old watch is torn
// down and the generation bumped before the new watch opens, so a late
// snapshot from a superseded subscription can never overwrite state
// that belongs to a newer identity.
func (s *Syncer) onIdentity(user *identity.User) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	oldCancel := s.cancelWatch
	s.cancelWatch = nil
	s.mu.Unlock()

	if oldCancel != nil {
		oldCancel()
	}

	if user == nil {
		logging.Sync("Signed out, clearing history")
		s.store.Dispatch(appstate.SetHistory{History: []triage.InjuryRecord{}})
		return
	}

	logging.Sync("Subscribing to history for %s", user.UID)
	cancel := s.docs.Watch(user.UID, func(snap docstore.Snapshot) {
		s.applySnapshot(gen, user.UID, snap)
	})

	s.mu.Lock()
	if s.gen != gen {
		// Superseded while the watch was opening.
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancelWatch = cancel
	s.mu.Unlock()
}

// applySnapshot publishes one snapshot into the store, unless the
// originating subscription has been superseded.
func (s *Syncer) applySnapshot(gen int, uid string, snap docstore.Snapshot) {
	s.mu.Lock()
	stale := s.gen != gen
	s.mu.Unlock()
	if stale {
		logging.SyncDebug("Discarding stale snapshot for %s", uid)
		return
	}

	if snap.Err != nil {
		logging.Get(logging.CategorySync).Error("Snapshot error for %s: %v", uid, snap.Err)
		s.store.Dispatch(appstate.SetHistory{History: []triage.InjuryRecord{}})
		return
	}

	logging.SyncDebug("Applying snapshot for %s (%d records)", uid, len(snap.Records))
	s.store.Dispatch(appstate.SetHistory{History: snap.Records})
}
