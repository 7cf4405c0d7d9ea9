package docstore

import (
	"fmt"
	"testing"

	"chiron/internal/triage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id string) triage.InjuryRecord {
	return triage.InjuryRecord{
		ID:       id,
		PhotoURL: "file:///tmp/" + id + ".jpg",
		Status:   triage.StatusAnalyzed,
		AssessmentResponse: triage.AssessmentResponse{
			SeverityLevel:    triage.SeverityModerate,
			ImmediateActions: []string{"Rest"},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)

	rec := record("r1")
	rec.Description = "twisted ankle on trail"
	require.NoError(t, s.Save("user-1", rec))

	got, err := s.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestUpdate_ReplacesDocumentWholesale(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save("user-1", record("r1")))

	updated := record("r1")
	updated.Status = triage.StatusCompleted
	updated.NextSteps = []string{"See a doctor"}
	require.NoError(t, s.Update(updated))

	got, err := s.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, triage.StatusCompleted, got.Status)
	assert.Equal(t, []string{"See a doctor"}, got.NextSteps)
}

func TestUpdate_UnknownIDFails(t *testing.T) {
	s := openTestStore(t)
	assert.ErrorIs(t, s.Update(record("ghost")), ErrNotFound)
}

func TestGet_UnknownIDFails(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByOwner_PaginatesNewestFirst(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < BatchSize+5; i++ {
		require.NoError(t, s.Save("user-1", record(fmt.Sprintf("r%02d", i))))
	}
	require.NoError(t, s.Save("someone-else", record("other")))

	page, err := s.ListByOwner("user-1", 0)
	require.NoError(t, err)
	assert.Len(t, page.Records, BatchSize)
	assert.True(t, page.HasMore)
	assert.Equal(t, "r24", page.Records[0].ID, "newest first")

	rest, err := s.ListByOwner("user-1", page.NextCursor)
	require.NoError(t, err)
	assert.Len(t, rest.Records, 5)
	assert.Equal(t, "r04", rest.Records[0].ID)
	assert.Equal(t, "r00", rest.Records[4].ID)

	seen := map[string]bool{}
	for _, r := range append(page.Records, rest.Records...) {
		assert.False(t, seen[r.ID], "no record delivered twice across pages")
		seen[r.ID] = true
	}
}

func TestListByOwner_FiltersByOwner(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save("user-1", record("mine")))
	require.NoError(t, s.Save("user-2", record("theirs")))

	page, err := s.ListByOwner("user-1", 0)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "mine", page.Records[0].ID)
}

func TestWatch_DeliversInitialAndChangeSnapshots(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save("user-1", record("r1")))

	var snaps []Snapshot
	cancel := s.Watch("user-1", func(snap Snapshot) {
		snaps = append(snaps, snap)
	})
	defer cancel()

	require.Len(t, snaps, 1, "initial snapshot delivered on subscribe")
	require.NoError(t, snaps[0].Err)
	assert.Len(t, snaps[0].Records, 1)

	require.NoError(t, s.Save("user-1", record("r2")))
	require.Len(t, snaps, 2)
	assert.Len(t, snaps[1].Records, 2)
	assert.Equal(t, "r2", snaps[1].Records[0].ID)

	// Mutations for other owners are not delivered.
	require.NoError(t, s.Save("user-2", record("r3")))
	assert.Len(t, snaps, 2)
}

func TestWatch_CancelStopsDelivery(t *testing.T) {
	s := openTestStore(t)

	count := 0
	cancel := s.Watch("user-1", func(Snapshot) { count++ })
	require.Equal(t, 1, count)

	cancel()
	cancel() // idempotent
	require.NoError(t, s.Save("user-1", record("r1")))
	assert.Equal(t, 1, count)
}

func TestContacts_CRUD(t *testing.T) {
	s := openTestStore(t)

	c1 := triage.EmergencyContact{ID: "c1", Name: "Sam", Phone: "555-0100"}
	c2 := triage.EmergencyContact{ID: "c2", Name: "Alex", Phone: "555-0101", Relationship: "partner"}
	require.NoError(t, s.SaveContact("user-1", c1))
	require.NoError(t, s.SaveContact("user-1", c2))
	require.NoError(t, s.SaveContact("user-2", triage.EmergencyContact{ID: "c3", Name: "Kim", Phone: "555-0102"}))

	contacts, err := s.ListContacts("user-1")
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Sam", contacts[0].Name, "insertion order preserved")

	require.NoError(t, s.DeleteContact("user-1", "c1"))
	contacts, err = s.ListContacts("user-1")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "c2", contacts[0].ID)
}
