package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	complete := AssessmentResponse{
		SeverityLevel:    SeverityModerate,
		ImmediateActions: []string{"Apply pressure"},
	}

	t.Run("complete response passes unchanged", func(t *testing.T) {
		result := Validate(complete)
		assert.Equal(t, Complete, result.Kind)
		assert.Equal(t, complete, result.Value)
	})

	t.Run("missing severity is incomplete", func(t *testing.T) {
		candidate := complete
		candidate.SeverityLevel = ""
		assert.Equal(t, Incomplete, Validate(candidate).Kind)
	})

	t.Run("unknown severity tier is incomplete", func(t *testing.T) {
		candidate := complete
		candidate.SeverityLevel = "catastrophic"
		assert.Equal(t, Incomplete, Validate(candidate).Kind)
	})

	t.Run("empty immediate actions is incomplete", func(t *testing.T) {
		candidate := complete
		candidate.ImmediateActions = nil
		assert.Equal(t, Incomplete, Validate(candidate).Kind)
	})

	t.Run("blank action entry is incomplete", func(t *testing.T) {
		candidate := complete
		candidate.ImmediateActions = []string{"Apply pressure", ""}
		assert.Equal(t, Incomplete, Validate(candidate).Kind)
	})

	t.Run("validation is structural, never clinical", func(t *testing.T) {
		candidate := AssessmentResponse{
			SeverityLevel:    SeverityMinor,
			ImmediateActions: []string{"nonsense guidance"},
		}
		assert.Equal(t, Complete, Validate(candidate).Kind)
	})
}
