package assess

import (
	"fmt"
	"strings"

	"chiron/internal/triage"
)

// systemPrompt fixes the output schema the generative provider must
// follow. Kept in sync with triage.AssessmentResponse.
const systemPrompt = `You are an emergency medical AI assistant. Analyze the provided injury information and provide structured guidance.
Focus on immediate survival actions and assessment steps. Be clear and concise.
Format your response as a JSON object with these fields:
- severity_level: "critical" | "serious" | "moderate" | "minor"
- immediate_actions: string[] of urgent steps
- assessment_steps: string[] of evaluation steps
- red_flags: string[] of warning signs
- next_steps: string[] of follow-up actions`

// chatPrompt frames follow-up conversation after an assessment.
const chatPrompt = `You are an emergency medical AI assistant providing guidance in a wilderness survival situation.
Keep responses clear, direct, and focused on practical actions.
Consider the full context of the injury and previous assessment when answering.
If you're unsure about anything, err on the side of caution and recommend seeking professional medical care when available.`

// composePrompt serializes the request fields into the patient-
// information prompt sent to the generative provider.
func composePrompt(req triage.AssessmentRequest) string {
	age := "Unknown"
	if req.Age != nil {
		age = fmt.Sprintf("%d", *req.Age)
	}
	gender := req.Gender
	if gender == "" {
		gender = "Not specified"
	}
	conscious := "No"
	if req.Conscious {
		conscious = "Yes"
	}
	bleeding := "No"
	if req.ObviousBleeding != nil && *req.ObviousBleeding {
		bleeding = "Yes"
	}

	return fmt.Sprintf(`
Patient Information:
- Age: %s
- Gender: %s
- Conscious: %s
- Mechanism of Injury: %s
- Reported Symptoms: %s
- Obvious Bleeding: %s

Provide emergency medical guidance for this situation.`,
		age, gender, conscious,
		req.MechanismOfInjury,
		strings.Join(req.ReportedSymptoms, ", "),
		bleeding)
}
