package docstore

import (
	"encoding/json"
	"fmt"

	"chiron/internal/logging"
	"chiron/internal/triage"
)

// Contact documents live beside assessments, scoped by the same owner
// identity. Contacts change only by direct user action; there is no
// derived mutation and no live watch.

func (s *Store) initContacts() error {
	schema := `
	CREATE TABLE IF NOT EXISTS contacts (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		document TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_contacts_owner ON contacts(owner_id);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create contacts schema: %w", err)
	}
	return nil
}

// SaveContact inserts an emergency contact for the owner.
func (s *Store) SaveContact(owner string, contact triage.EmergencyContact) error {
	doc, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		"INSERT INTO contacts (id, owner_id, document) VALUES (?, ?, ?)",
		contact.ID, owner, string(doc),
	)
	if err != nil {
		return fmt.Errorf("save contact: %w", err)
	}
	logging.DocsDebug("Saved contact %s for owner %s", contact.ID, owner)
	return nil
}

// DeleteContact removes a contact by id.
func (s *Store) DeleteContact(owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM contacts WHERE owner_id = ? AND id = ?", owner, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// ListContacts returns the owner's contacts in insertion order.
func (s *Store) ListContacts(owner string) ([]triage.EmergencyContact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT document FROM contacts WHERE owner_id = ? ORDER BY rowid", owner)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []triage.EmergencyContact{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		var contact triage.EmergencyContact
		if err := json.Unmarshal([]byte(doc), &contact); err != nil {
			return nil, fmt.Errorf("decode contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}
