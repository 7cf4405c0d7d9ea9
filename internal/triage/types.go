// Package triage defines the core data model for injury assessment:
// the request/response envelopes exchanged with assessment providers,
// the persisted injury record, and the aggregate client state.
package triage

import "fmt"

// Severity is the triage severity tier of an assessment.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeveritySerious  Severity = "serious"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// Valid reports whether s is one of the four known severity tiers.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeveritySerious, SeverityModerate, SeverityMinor:
		return true
	}
	return false
}

// TriageStatus is the lifecycle status of an injury record.
type TriageStatus string

const (
	StatusPending   TriageStatus = "pending"
	StatusAnalyzed  TriageStatus = "analyzed"
	StatusCompleted TriageStatus = "completed"
)

// AssessmentRequest is the normalized input envelope sent to assessment
// providers. Constructed once per submission and never mutated.
type AssessmentRequest struct {
	MechanismOfInjury string   `json:"mechanismOfInjury"`
	ReportedSymptoms  []string `json:"reportedSymptoms"`
	Conscious         bool     `json:"conscious"`
	Age               *int     `json:"age,omitempty"`
	Gender            string   `json:"gender,omitempty"`
	ObviousBleeding   *bool    `json:"obviousBleeding,omitempty"`
}

// AssessmentResponse is the canonical guidance envelope returned by a
// provider tier. SeverityLevel and ImmediateActions are mandatory; a
// response missing either is incomplete and triggers fallback.
type AssessmentResponse struct {
	SeverityLevel    Severity `json:"severity_level"`
	ImmediateActions []string `json:"immediate_actions"`
	AssessmentSteps  []string `json:"assessment_steps"`
	RedFlags         []string `json:"red_flags"`
	NextSteps        []string `json:"next_steps"`
}

// Location is an optional geographic reference attached to a record.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// InjuryRecord is one completed or in-progress injury assessment
// instance. Records are replaced wholesale, never field-mutated, so
// concurrent readers never observe a torn record.
type InjuryRecord struct {
	ID          string       `json:"id"`
	PhotoURL    string       `json:"photoUrl"`
	Description string       `json:"description,omitempty"`
	Timestamp   int64        `json:"timestamp"` // Unix milliseconds
	Location    *Location    `json:"location,omitempty"`
	Status      TriageStatus `json:"triageStatus"`
	InjuryTypes []string     `json:"injuryType,omitempty"`

	// Guidance fields, populated once analyzed. Embedded so the
	// wire form is flat, matching the provider envelope.
	AssessmentResponse
}

// EmergencyContact is a user-managed contact entry.
type EmergencyContact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship,omitempty"`
}

// ClientState is the aggregate observed by every component: the current
// record, the record history, the contact list, and the offline flag.
// Owned exclusively by the state store; treat instances as immutable.
type ClientState struct {
	CurrentRecord *InjuryRecord
	History       []InjuryRecord
	Contacts      []EmergencyContact
	Offline       bool
}

// String renders a compact summary for log lines.
func (r InjuryRecord) String() string {
	return fmt.Sprintf("record{id=%s status=%s severity=%s types=%d}",
		r.ID, r.Status, r.SeverityLevel, len(r.InjuryTypes))
}
