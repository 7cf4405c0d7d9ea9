package appstate

import "chiron/internal/triage"

// Action is a typed mutation applied to the client state aggregate.
// The reducer matches on the concrete type; unrecognized actions are
// no-ops rather than errors.
type Action interface {
	isAction()
}

// SetCurrentRecord replaces the current record (nil clears it).
type SetCurrentRecord struct {
	Record *triage.InjuryRecord
}

// AddRecord prepends a record to history and makes it current.
type AddRecord struct {
	Record triage.InjuryRecord
}

// ReplaceRecord replaces the history entry with the same id, and the
// current record when ids match. Records are swapped wholesale so a
// reader never observes a torn record.
type ReplaceRecord struct {
	Record triage.InjuryRecord
}

// AddContact appends an emergency contact.
type AddContact struct {
	Contact triage.EmergencyContact
}

// RemoveContact removes the contact with the given id.
type RemoveContact struct {
	ID string
}

// SetOffline sets the connectivity flag.
type SetOffline struct {
	Offline bool
}

// SetHistory wholesale-replaces the record history. Dispatched by the
// remote sync component on every snapshot.
type SetHistory struct {
	History []triage.InjuryRecord
}

// LoadBulk merges previously stored state: non-nil slices replace the
// corresponding aggregate fields, nil slices leave them untouched.
type LoadBulk struct {
	CurrentRecord *triage.InjuryRecord
	History       []triage.InjuryRecord
	Contacts      []triage.EmergencyContact
}

func (SetCurrentRecord) isAction() {}
func (AddRecord) isAction()        {}
func (ReplaceRecord) isAction()    {}
func (AddContact) isAction()       {}
func (RemoveContact) isAction()    {}
func (SetOffline) isAction()       {}
func (SetHistory) isAction()       {}
func (LoadBulk) isAction()         {}
