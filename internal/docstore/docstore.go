// Package docstore implements the remote assessment collection on
// SQLite: records are stored as JSON documents keyed by an owning
// identity, queried by owner equality, and live-watchable for change
// notification.
package docstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"chiron/internal/logging"
	"chiron/internal/triage"

	_ "modernc.org/sqlite"
)

// BatchSize is the page size for history listing.
const BatchSize = 20

// ErrNotFound marks a lookup for an unknown record id.
var ErrNotFound = errors.New("assessment not found")

// Store is the assessment document collection.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string

	watchMu  sync.Mutex
	watchers map[int]*watcher
	nextID   int

	// lastCreated keeps created_at strictly increasing so that cursor
	// pagination never skips records sharing a millisecond.
	lastCreated int64
}

// Snapshot is one delivery to a live watcher: either the owner's full
// record set or the error that prevented reading it.
type Snapshot struct {
	Records []triage.InjuryRecord
	Err     error
}

type watcher struct {
	owner string
	fn    func(Snapshot)
}

// Open initializes the SQLite database at the given path. ":memory:"
// yields an ephemeral store for tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dbPath: path, watchers: make(map[int]*watcher)}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		document TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_assessments_owner
		ON assessments(owner_id, created_at DESC);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return s.initContacts()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a record document for the given owner and notifies that
// owner's watchers.
func (s *Store) Save(owner string, record triage.InjuryRecord) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	s.mu.Lock()
	createdAt := time.Now().UnixMilli()
	if createdAt <= s.lastCreated {
		createdAt = s.lastCreated + 1
	}
	s.lastCreated = createdAt
	_, err = s.db.Exec(
		"INSERT INTO assessments (id, owner_id, document, created_at) VALUES (?, ?, ?, ?)",
		record.ID, owner, string(doc), createdAt,
	)
	s.mu.Unlock()
	if err != nil {
		logging.Get(logging.CategoryDocs).Error("Failed to save assessment %s: %v", record.ID, err)
		return fmt.Errorf("save assessment: %w", err)
	}

	logging.DocsDebug("Saved assessment %s for owner %s", record.ID, owner)
	s.notify(owner)
	return nil
}

// Update replaces the document for an existing record id and notifies
// the owner's watchers. Returns ErrNotFound if the id is unknown.
func (s *Store) Update(record triage.InjuryRecord) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	s.mu.Lock()
	var owner string
	err = s.db.QueryRow("SELECT owner_id FROM assessments WHERE id = ?", record.ID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
	}
	if err == nil {
		_, err = s.db.Exec(
			"UPDATE assessments SET document = ?, updated_at = ? WHERE id = ?",
			string(doc), time.Now().UnixMilli(), record.ID,
		)
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("update assessment %s: %w", record.ID, err)
	}

	logging.DocsDebug("Updated assessment %s", record.ID)
	s.notify(owner)
	return nil
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (triage.InjuryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc string
	err := s.db.QueryRow("SELECT document FROM assessments WHERE id = ?", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return triage.InjuryRecord{}, fmt.Errorf("get assessment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return triage.InjuryRecord{}, fmt.Errorf("get assessment %s: %w", id, err)
	}
	var record triage.InjuryRecord
	if err := json.Unmarshal([]byte(doc), &record); err != nil {
		return triage.InjuryRecord{}, fmt.Errorf("decode assessment %s: %w", id, err)
	}
	return record, nil
}

// Page is one batch of an owner's history, newest first.
type Page struct {
	Records    []triage.InjuryRecord
	HasMore    bool
	NextCursor int64 // created_at of the last record; pass as before
}

// ListByOwner returns one page of the owner's records, newest first.
// Pass before=0 for the first page, then Page.NextCursor to continue.
func (s *Store) ListByOwner(owner string, before int64) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT document, created_at FROM assessments
		WHERE owner_id = ?`
	args := []interface{}{owner}
	if before > 0 {
		query += " AND created_at < ?"
		args = append(args, before)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, BatchSize)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return Page{}, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var page Page
	for rows.Next() {
		var doc string
		var createdAt int64
		if err := rows.Scan(&doc, &createdAt); err != nil {
			return Page{}, fmt.Errorf("scan assessment: %w", err)
		}
		var record triage.InjuryRecord
		if err := json.Unmarshal([]byte(doc), &record); err != nil {
			return Page{}, fmt.Errorf("decode assessment: %w", err)
		}
		page.Records = append(page.Records, record)
		page.NextCursor = createdAt
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("list assessments: %w", err)
	}
	page.HasMore = len(page.Records) == BatchSize
	return page, nil
}

// allByOwner reads the owner's complete record set, newest first. Used
// for watch snapshots.
func (s *Store) allByOwner(owner string) ([]triage.InjuryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT document FROM assessments WHERE owner_id = ? ORDER BY created_at DESC",
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	records := []triage.InjuryRecord{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		var record triage.InjuryRecord
		if err := json.Unmarshal([]byte(doc), &record); err != nil {
			return nil, fmt.Errorf("decode assessment: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Watch opens a live subscription for one owner's records. The callback
// receives an initial snapshot immediately, then a fresh snapshot after
// every mutation touching that owner. The returned function cancels the
// subscription and is safe to call more than once.
func (s *Store) Watch(owner string, fn func(Snapshot)) func() {
	s.watchMu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = &watcher{owner: owner, fn: fn}
	s.watchMu.Unlock()

	logging.Docs("Watch opened for owner %s", owner)

	records, err := s.allByOwner(owner)
	fn(Snapshot{Records: records, Err: err})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.watchMu.Lock()
			delete(s.watchers, id)
			s.watchMu.Unlock()
			logging.Docs("Watch closed for owner %s", owner)
		})
	}
}

// notify pushes a fresh snapshot to every watcher of the given owner.
func (s *Store) notify(owner string) {
	s.watchMu.Lock()
	var fns []func(Snapshot)
	for _, w := range s.watchers {
		if w.owner == owner {
			fns = append(fns, w.fn)
		}
	}
	s.watchMu.Unlock()

	if len(fns) == 0 {
		return
	}

	records, err := s.allByOwner(owner)
	snap := Snapshot{Records: records, Err: err}
	for _, fn := range fns {
		fn(snap)
	}
}
