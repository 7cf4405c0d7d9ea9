package triage

// ValidationKind tags the outcome of structural response validation.
type ValidationKind int

const (
	// Complete means the candidate satisfies the response invariant.
	Complete ValidationKind = iota
	// Incomplete means a mandatory field is missing or malformed; the
	// resolver advances to the next fallback tier.
	Incomplete
)

// ValidationResult is the tagged outcome of Validate. Value is only
// meaningful when Kind == Complete.
type ValidationResult struct {
	Kind   ValidationKind
	Value  AssessmentResponse
	Reason string
}

// Validate checks a candidate response against the completeness
// invariant: a known severity tier and a non-empty immediate-actions
// list. Validation is structural only, never clinical.
func Validate(candidate AssessmentResponse) ValidationResult {
	if !candidate.SeverityLevel.Valid() {
		return ValidationResult{Kind: Incomplete, Reason: "missing or unknown severity_level"}
	}
	if len(candidate.ImmediateActions) == 0 {
		return ValidationResult{Kind: Incomplete, Reason: "empty immediate_actions"}
	}
	for _, action := range candidate.ImmediateActions {
		if action == "" {
			return ValidationResult{Kind: Incomplete, Reason: "blank immediate action entry"}
		}
	}
	return ValidationResult{Kind: Complete, Value: candidate}
}
