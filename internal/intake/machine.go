package intake

import "fmt"

// Step is one state of the intake sequence.
type Step int

const (
	StepCapture Step = iota
	StepDescribe
	StepAssess
	StepProcessing
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepCapture:
		return "capture"
	case StepDescribe:
		return "describe"
	case StepAssess:
		return "assess"
	case StepProcessing:
		return "processing"
	case StepDone:
		return "done"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Event is a user or system action driving the sequence.
type Event int

const (
	EventPhotoCaptured Event = iota
	EventSkipPhoto
	EventRetake
	EventContinue
	EventBack
	EventSubmit
	EventResolved
	EventFailed
)

func (e Event) String() string {
	switch e {
	case EventPhotoCaptured:
		return "photo_captured"
	case EventSkipPhoto:
		return "skip_photo"
	case EventRetake:
		return "retake"
	case EventContinue:
		return "continue"
	case EventBack:
		return "back"
	case EventSubmit:
		return "submit"
	case EventResolved:
		return "resolved"
	case EventFailed:
		return "failed"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// transitions is the state x event table. Pairs absent from the table
// are illegal; apply rejects them.
var transitions = map[Step]map[Event]Step{
	StepCapture: {
		EventPhotoCaptured: StepDescribe,
		EventSkipPhoto:     StepDescribe,
	},
	StepDescribe: {
		EventContinue: StepAssess,
		EventRetake:   StepCapture,
	},
	StepAssess: {
		EventSubmit: StepProcessing,
		EventBack:   StepDescribe,
	},
	StepProcessing: {
		EventResolved: StepDone,
		EventFailed:   StepAssess,
	},
}

// next returns the step reached by applying event in step.
func next(step Step, event Event) (Step, error) {
	if to, ok := transitions[step][event]; ok {
		return to, nil
	}
	return step, fmt.Errorf("illegal transition: %s in step %s", event, step)
}
