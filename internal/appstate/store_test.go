package appstate

import (
	"testing"

	"chiron/internal/triage"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id string) triage.InjuryRecord {
	return triage.InjuryRecord{
		ID:       id,
		PhotoURL: "file:///tmp/" + id + ".jpg",
		Status:   triage.StatusAnalyzed,
	}
}

func TestAddRecord_RoundTrip(t *testing.T) {
	s := New()

	s.Dispatch(AddRecord{Record: record("a")})
	s.Dispatch(AddRecord{Record: record("b")})

	state := s.State()
	require.NotNil(t, state.CurrentRecord)
	assert.Equal(t, "b", state.CurrentRecord.ID, "add-record sets the new record as current")
	require.Len(t, state.History, 2)
	assert.Equal(t, "b", state.History[0].ID, "add-record prepends to history")
	assert.Equal(t, "a", state.History[1].ID)
}

func TestReplaceRecord_UpdatesBothCopiesConsistently(t *testing.T) {
	s := New()
	s.Dispatch(AddRecord{Record: record("a")})
	s.Dispatch(AddRecord{Record: record("b")})

	updated := record("b")
	updated.Status = triage.StatusCompleted
	s.Dispatch(ReplaceRecord{Record: updated})

	state := s.State()
	assert.Equal(t, triage.StatusCompleted, state.CurrentRecord.Status)
	require.Len(t, state.History, 2, "replace must never duplicate an id in history")
	assert.Equal(t, triage.StatusCompleted, state.History[0].Status)
	assert.Equal(t, triage.StatusAnalyzed, state.History[1].Status, "other records untouched")
}

func TestReplaceRecord_DifferentCurrentUntouched(t *testing.T) {
	s := New()
	s.Dispatch(AddRecord{Record: record("a")})
	s.Dispatch(AddRecord{Record: record("b")})

	updated := record("a")
	updated.Description = "updated"
	s.Dispatch(ReplaceRecord{Record: updated})

	state := s.State()
	assert.Equal(t, "b", state.CurrentRecord.ID)
	assert.Empty(t, state.CurrentRecord.Description)
	assert.Equal(t, "updated", state.History[1].Description)
}

func TestContacts(t *testing.T) {
	s := New()
	c1 := triage.EmergencyContact{ID: "c1", Name: "Sam", Phone: "555-0100"}
	c2 := triage.EmergencyContact{ID: "c2", Name: "Alex", Phone: "555-0101", Relationship: "partner"}

	s.Dispatch(AddContact{Contact: c1})
	s.Dispatch(AddContact{Contact: c2})
	assert.Len(t, s.State().Contacts, 2)

	s.Dispatch(RemoveContact{ID: "c1"})
	contacts := s.State().Contacts
	require.Len(t, contacts, 1)
	assert.Equal(t, "c2", contacts[0].ID)

	// Removing an unknown id is harmless.
	s.Dispatch(RemoveContact{ID: "nope"})
	assert.Len(t, s.State().Contacts, 1)
}

func TestSetOffline_TouchesOnlyTheFlag(t *testing.T) {
	s := New()
	s.Dispatch(AddRecord{Record: record("a")})
	s.Dispatch(AddContact{Contact: triage.EmergencyContact{ID: "c1", Name: "Sam", Phone: "555-0100"}})
	before := s.State()

	s.Dispatch(SetOffline{Offline: true})

	after := s.State()
	assert.True(t, after.Offline)
	after.Offline = before.Offline
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("SetOffline changed unrelated state (-before +after):\n%s", diff)
	}
}

func TestSetHistory_WholesaleReplace(t *testing.T) {
	s := New()
	s.Dispatch(AddRecord{Record: record("local")})

	s.Dispatch(SetHistory{History: []triage.InjuryRecord{record("r1"), record("r2")}})
	state := s.State()
	require.Len(t, state.History, 2)
	assert.Equal(t, "r1", state.History[0].ID)
	assert.Equal(t, "local", state.CurrentRecord.ID, "current record survives a history replace")

	s.Dispatch(SetHistory{History: nil})
	assert.NotNil(t, s.State().History)
	assert.Empty(t, s.State().History)
}

func TestLoadBulk_PartialMerge(t *testing.T) {
	s := New()
	s.Dispatch(AddContact{Contact: triage.EmergencyContact{ID: "c1", Name: "Sam", Phone: "555-0100"}})

	s.Dispatch(LoadBulk{History: []triage.InjuryRecord{record("r1")}})

	state := s.State()
	assert.Len(t, state.History, 1)
	assert.Len(t, state.Contacts, 1, "nil contacts slice leaves contacts untouched")
}

type bogusAction struct{}

func (bogusAction) isAction() {}

func TestUnknownAction_IsNoOp(t *testing.T) {
	s := New()
	s.Dispatch(AddRecord{Record: record("a")})
	before := s.State()

	s.Dispatch(bogusAction{})

	if diff := cmp.Diff(before, s.State()); diff != "" {
		t.Errorf("unknown action mutated state:\n%s", diff)
	}
}

func TestSubscribe_NotifiedWithFreshAggregate(t *testing.T) {
	s := New()
	var seen []triage.ClientState
	cancel := s.Subscribe(func(state triage.ClientState) {
		seen = append(seen, state)
	})

	s.Dispatch(SetOffline{Offline: true})
	require.Len(t, seen, 1)
	assert.True(t, seen[0].Offline)

	cancel()
	s.Dispatch(SetOffline{Offline: false})
	assert.Len(t, seen, 1, "canceled listener must not be invoked")
}

func TestDispatch_DoesNotMutateOldAggregates(t *testing.T) {
	s := New()
	s.Dispatch(AddRecord{Record: record("a")})
	old := s.State()

	s.Dispatch(AddRecord{Record: record("b")})
	s.Dispatch(RemoveContact{ID: "x"})

	assert.Len(t, old.History, 1, "earlier snapshots are immutable")
	assert.Equal(t, "a", old.History[0].ID)
}
