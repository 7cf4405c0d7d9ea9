package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest(t *testing.T) {
	t.Run("maps answers to request envelope", func(t *testing.T) {
		req, err := BuildRequest(IntakeAnswers{
			Description:     "fall from ladder",
			InjuryTypeIDs:   []string{"bleeding", "bone"},
			Conscious:       true,
			Age:             "34",
			Gender:          "male",
			ObviousBleeding: true,
		})
		require.NoError(t, err)

		assert.Equal(t, "fall from ladder", req.MechanismOfInjury)
		assert.Equal(t, []string{"Bleeding", "Broken Bone"}, req.ReportedSymptoms)
		assert.True(t, req.Conscious)
		require.NotNil(t, req.Age)
		assert.Equal(t, 34, *req.Age)
		assert.Equal(t, "male", req.Gender)
		require.NotNil(t, req.ObviousBleeding)
		assert.True(t, *req.ObviousBleeding)
	})

	t.Run("unknown injury type ids pass through verbatim", func(t *testing.T) {
		req, err := BuildRequest(IntakeAnswers{
			Description:   "dog bite",
			InjuryTypeIDs: []string{"laceration", "bleeding"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"laceration", "Bleeding"}, req.ReportedSymptoms)
	})

	t.Run("empty age maps to unset, not zero", func(t *testing.T) {
		req, err := BuildRequest(IntakeAnswers{
			Description:   "sprained ankle",
			InjuryTypeIDs: []string{},
			Age:           "",
		})
		require.NoError(t, err)
		assert.Nil(t, req.Age)
	})

	t.Run("invalid age is rejected", func(t *testing.T) {
		_, err := BuildRequest(IntakeAnswers{
			Description:   "sprained ankle",
			InjuryTypeIDs: []string{},
			Age:           "thirty",
		})
		assert.Error(t, err)

		_, err = BuildRequest(IntakeAnswers{
			Description:   "sprained ankle",
			InjuryTypeIDs: []string{},
			Age:           "-2",
		})
		assert.Error(t, err)
	})

	t.Run("missing mechanism of injury is a contract violation", func(t *testing.T) {
		_, err := BuildRequest(IntakeAnswers{InjuryTypeIDs: []string{}})
		assert.Error(t, err)
	})

	t.Run("nil symptom list is a contract violation", func(t *testing.T) {
		_, err := BuildRequest(IntakeAnswers{Description: "cut"})
		assert.Error(t, err)
	})

	t.Run("bleeding flag is always carried", func(t *testing.T) {
		req, err := BuildRequest(IntakeAnswers{
			Description:   "bruised rib",
			InjuryTypeIDs: []string{},
		})
		require.NoError(t, err)
		require.NotNil(t, req.ObviousBleeding)
		assert.False(t, *req.ObviousBleeding)
	})
}

func TestSymptomLabel(t *testing.T) {
	assert.Equal(t, "Breathing Issues", SymptomLabel("breathing"))
	assert.Equal(t, "frostbite", SymptomLabel("frostbite"))
}
