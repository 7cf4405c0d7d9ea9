// Package intake drives the user-facing capture -> describe -> assess
// -> processing sequence and is the only caller of the assessment
// resolver. Backward navigation preserves every entered field; nothing
// is cleared except by explicit skip/retake.
package intake

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"chiron/internal/appstate"
	"chiron/internal/assess"
	"chiron/internal/docstore"
	"chiron/internal/logging"
	"chiron/internal/triage"

	"github.com/google/uuid"
)

// PlaceholderPhotoURL stands in for the capture artifact when the user
// explicitly skips the photo step.
const PlaceholderPhotoURL = "https://images.pexels.com/photos/5879390/pexels-photo-5879390.jpeg"

// ValidationError is a user input contract violation: submission is
// withheld and the message surfaced as a blocking validation prompt.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// ErrAbandoned is returned when a resolution completes after the
// session already left processing; the result is discarded.
var ErrAbandoned = fmt.Errorf("intake session abandoned during processing")

// Session is one intake flow. It is re-entrant only through explicit
// user action; while processing, input is rejected so a second
// submission can never race the first.
type Session struct {
	resolver *assess.Resolver
	store    *appstate.Store
	docs     *docstore.Store // optional; nil skips persistence
	owner    string

	mu        sync.Mutex
	step      Step
	submitGen int

	// Entered fields, preserved across backward transitions.
	photoURL     string
	description  string
	injuryTypes  []string
	conscious    bool
	age          string
	gender       string
	bleeding     bool
	location     *triage.Location
	lastError    string
}

// NewSession starts a fresh intake flow at the capture step. The owner
// identity scopes persistence; it may be empty when signed out.
func NewSession(resolver *assess.Resolver, store *appstate.Store, docs *docstore.Store, owner string) *Session {
	return &Session{
		resolver:  resolver,
		store:     store,
		docs:      docs,
		owner:     owner,
		step:      StepCapture,
		conscious: true,
	}
}

// Step returns the current state.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// LastError returns the most recent surfaced error message, if any.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// apply drives the transition table under the session lock.
func (s *Session) apply(event Event) error {
	to, err := next(s.step, event)
	if err != nil {
		return err
	}
	logging.IntakeDebug("Transition %s --%s--> %s", s.step, event, to)
	s.step = to
	return nil
}

// CapturePhoto records the capture artifact and advances to describe.
func (s *Session) CapturePhoto(photoURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.apply(EventPhotoCaptured); err != nil {
		return err
	}
	s.photoURL = photoURL
	return nil
}

// SkipPhoto advances to describe with no artifact. The explicit skip is
// the one action allowed to clear a previously captured photo.
func (s *Session) SkipPhoto() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.apply(EventSkipPhoto); err != nil {
		return err
	}
	s.photoURL = ""
	return nil
}

// Retake returns to capture, discarding the current photo only.
func (s *Session) Retake() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.apply(EventRetake); err != nil {
		return err
	}
	s.photoURL = ""
	return nil
}

// SetDescription updates the free-text description. Allowed outside of
// processing so back-navigation edits keep working.
func (s *Session) SetDescription(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == StepProcessing {
		return fmt.Errorf("input disabled while processing")
	}
	s.description = text
	return nil
}

// Continue advances describe -> assess.
func (s *Session) Continue() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(EventContinue)
}

// Back returns assess -> describe, keeping all entered fields.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(EventBack)
}

// ToggleInjuryType adds or removes a quick-select injury type.
func (s *Session) ToggleInjuryType(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == StepProcessing {
		return fmt.Errorf("input disabled while processing")
	}
	for i, existing := range s.injuryTypes {
		if existing == id {
			s.injuryTypes = append(s.injuryTypes[:i], s.injuryTypes[i+1:]...)
			return nil
		}
	}
	s.injuryTypes = append(s.injuryTypes, id)
	return nil
}

// SetConscious records the consciousness answer.
func (s *Session) SetConscious(v bool) { s.setField(func() { s.conscious = v }) }

// SetAge records the age answer as entered; empty means unset.
func (s *Session) SetAge(v string) { s.setField(func() { s.age = v }) }

// SetGender records the gender answer.
func (s *Session) SetGender(v string) { s.setField(func() { s.gender = v }) }

// SetObviousBleeding records the bleeding answer.
func (s *Session) SetObviousBleeding(v bool) { s.setField(func() { s.bleeding = v }) }

// SetLocation attaches an optional location reference.
func (s *Session) SetLocation(lat, lng float64) {
	s.setField(func() { s.location = &triage.Location{Latitude: lat, Longitude: lng} })
}

func (s *Session) setField(set func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == StepProcessing {
		return
	}
	set()
}

// InjuryTypes returns the currently selected injury type ids.
func (s *Session) InjuryTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.injuryTypes))
	copy(out, s.injuryTypes)
	return out
}

// Abort leaves processing without applying any pending result, e.g.
// when the user navigates away. A resolution that finishes afterwards
// is discarded.
func (s *Session) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepProcessing {
		return
	}
	s.submitGen++
	s.step = StepAssess
	logging.Intake("Processing aborted by caller")
}

// Submit validates the entered fields, obtains an assessment through
// the fallback resolver, and publishes the finished record. On a user
// input violation the session stays in assess and the error is
// returned; on any unexpected failure the session also returns to
// assess with every field intact.
func (s *Session) Submit(ctx context.Context) (triage.InjuryRecord, error) {
	s.mu.Lock()
	if strings.TrimSpace(s.description) == "" {
		s.mu.Unlock()
		return triage.InjuryRecord{}, &ValidationError{Field: "description", Msg: "describe the situation or injury before submitting"}
	}
	if err := s.apply(EventSubmit); err != nil {
		s.mu.Unlock()
		return triage.InjuryRecord{}, err
	}
	s.lastError = ""
	s.submitGen++
	gen := s.submitGen

	answers := triage.IntakeAnswers{
		Description:     s.description,
		InjuryTypeIDs:   append([]string{}, s.injuryTypes...),
		Conscious:       s.conscious,
		Age:             s.age,
		Gender:          s.gender,
		ObviousBleeding: s.bleeding,
	}
	photoURL := s.photoURL
	location := s.location
	s.mu.Unlock()

	req, err := triage.BuildRequest(answers)
	if err != nil {
		s.fail(gen, err)
		return triage.InjuryRecord{}, err
	}

	// Never errors: the resolver's canned tier is the terminal safety
	// net. Suspension point; the session may be aborted meanwhile.
	response := s.resolver.Resolve(ctx, req)

	if photoURL == "" {
		photoURL = PlaceholderPhotoURL
	}
	record := triage.InjuryRecord{
		ID:                 uuid.New().String(),
		PhotoURL:           photoURL,
		Description:        answers.Description,
		Timestamp:          time.Now().UnixMilli(),
		Location:           location,
		Status:             triage.StatusAnalyzed,
		InjuryTypes:        answers.InjuryTypeIDs,
		AssessmentResponse: response,
	}

	s.mu.Lock()
	if s.step != StepProcessing || s.submitGen != gen {
		s.mu.Unlock()
		logging.Intake("Discarding stale resolution for gen %d", gen)
		return triage.InjuryRecord{}, ErrAbandoned
	}
	if err := s.apply(EventResolved); err != nil {
		s.mu.Unlock()
		return triage.InjuryRecord{}, err
	}
	s.mu.Unlock()

	s.store.Dispatch(appstate.AddRecord{Record: record})

	// Best-effort persistence: an unreachable document store is never a
	// hard failure, the sync path will reconcile later.
	if s.docs != nil && s.owner != "" {
		if err := s.docs.Save(s.owner, record); err != nil {
			logging.Get(logging.CategoryIntake).Warn("Could not persist record %s: %v", record.ID, err)
		}
	}

	logging.Intake("Completed intake %s (severity %s)", record.ID, record.SeverityLevel)
	return record, nil
}

// fail returns the machine to assess and surfaces the error message,
// leaving entered fields intact.
func (s *Session) fail(gen int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepProcessing || s.submitGen != gen {
		return
	}
	_ = s.apply(EventFailed)
	s.lastError = err.Error()
}
