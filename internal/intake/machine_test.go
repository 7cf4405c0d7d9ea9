package intake

import "testing"

func TestTransitionTable(t *testing.T) {
	legal := []struct {
		from  Step
		event Event
		to    Step
	}{
		{StepCapture, EventPhotoCaptured, StepDescribe},
		{StepCapture, EventSkipPhoto, StepDescribe},
		{StepDescribe, EventContinue, StepAssess},
		{StepDescribe, EventRetake, StepCapture},
		{StepAssess, EventSubmit, StepProcessing},
		{StepAssess, EventBack, StepDescribe},
		{StepProcessing, EventResolved, StepDone},
		{StepProcessing, EventFailed, StepAssess},
	}
	for _, tc := range legal {
		got, err := next(tc.from, tc.event)
		if err != nil {
			t.Errorf("next(%s, %s) unexpectedly illegal: %v", tc.from, tc.event, err)
		}
		if got != tc.to {
			t.Errorf("next(%s, %s) = %s, want %s", tc.from, tc.event, got, tc.to)
		}
	}

	illegal := []struct {
		from  Step
		event Event
	}{
		{StepCapture, EventSubmit},
		{StepCapture, EventContinue},
		{StepDescribe, EventSubmit},
		{StepAssess, EventPhotoCaptured},
		{StepProcessing, EventSubmit},
		{StepDone, EventSubmit},
		{StepDone, EventBack},
	}
	for _, tc := range illegal {
		if _, err := next(tc.from, tc.event); err == nil {
			t.Errorf("next(%s, %s) should be illegal", tc.from, tc.event)
		}
	}
}
