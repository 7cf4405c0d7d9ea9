package triage

import (
	"fmt"
	"strconv"
	"strings"
)

// InjuryType is one entry of the fixed quick-select injury table.
type InjuryType struct {
	ID    string
	Label string
}

// InjuryTypes is the fixed table of quick-select injury categories.
// Symptom labels sent to providers are resolved from this table.
var InjuryTypes = []InjuryType{
	{ID: "bleeding", Label: "Bleeding"},
	{ID: "bone", Label: "Broken Bone"},
	{ID: "burn", Label: "Burn"},
	{ID: "breathing", Label: "Breathing Issues"},
	{ID: "unconscious", Label: "Unconscious"},
	{ID: "other", Label: "Other"},
}

// SymptomLabel resolves an injury-type id to its display label.
// Unknown ids pass through verbatim as their own label, never dropped.
func SymptomLabel(id string) string {
	for _, t := range InjuryTypes {
		if t.ID == id {
			return t.Label
		}
	}
	return id
}

// IntakeAnswers holds the raw answers collected during intake, before
// normalization into an AssessmentRequest. Age is kept as entered so
// that empty input maps to "unset" rather than zero.
type IntakeAnswers struct {
	Description     string
	InjuryTypeIDs   []string
	Conscious       bool
	Age             string
	Gender          string
	ObviousBleeding bool
}

// BuildRequest turns intake answers into a normalized AssessmentRequest.
// Pure transformation; no network or state access. It fails only when a
// mandatory field is absent, which is a caller contract violation.
func BuildRequest(in IntakeAnswers) (AssessmentRequest, error) {
	mechanism := strings.TrimSpace(in.Description)
	if mechanism == "" {
		return AssessmentRequest{}, fmt.Errorf("mechanism of injury is required")
	}
	if in.InjuryTypeIDs == nil {
		return AssessmentRequest{}, fmt.Errorf("reported symptoms are required")
	}

	symptoms := make([]string, 0, len(in.InjuryTypeIDs))
	for _, id := range in.InjuryTypeIDs {
		symptoms = append(symptoms, SymptomLabel(id))
	}

	req := AssessmentRequest{
		MechanismOfInjury: mechanism,
		ReportedSymptoms:  symptoms,
		Conscious:         in.Conscious,
		Gender:            strings.TrimSpace(in.Gender),
	}

	if age := strings.TrimSpace(in.Age); age != "" {
		n, err := strconv.Atoi(age)
		if err != nil || n < 0 {
			return AssessmentRequest{}, fmt.Errorf("invalid age %q", in.Age)
		}
		req.Age = &n
	}

	bleeding := in.ObviousBleeding
	req.ObviousBleeding = &bleeding

	return req, nil
}
