package assess

import (
	"context"
	"encoding/json"
	"fmt"

	"chiron/internal/logging"
	"chiron/internal/triage"

	"google.golang.org/genai"
)

// GeminiConfig configures the generative fallback provider.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiProvider is the secondary tier: a general-purpose generative
// backend prompted to emit the assessment schema as JSON embedded in
// free text. The reply carries no schema guarantee; the first balanced
// JSON object is extracted and decoded.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates the generative provider. Returns
// ErrNotConfigured when no API key is available, so the resolver can
// treat the tier as absent rather than failing at resolve time.
func NewGeminiProvider(ctx context.Context, config GeminiConfig) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, ErrNotConfigured
	}
	model := config.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: config.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// Name identifies the tier in logs.
func (g *GeminiProvider) Name() string { return "gemini" }

// Assess prompts the model with the fixed system instruction plus the
// serialized request fields and decodes the embedded JSON object.
func (g *GeminiProvider) Assess(ctx context.Context, req triage.AssessmentRequest) (triage.AssessmentResponse, error) {
	timer := logging.StartTimer(logging.CategoryAPI, "gemini assessment")
	defer timer.Stop()

	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(composePrompt(req)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		},
	)
	if err != nil {
		return triage.AssessmentResponse{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	text := result.Text()
	raw := extractJSONObject(text)
	if raw == "" {
		logging.API("Gemini reply contained no JSON object (%d chars)", len(text))
		return triage.AssessmentResponse{}, ErrNoJSON
	}

	var out triage.AssessmentResponse
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return triage.AssessmentResponse{}, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}

	logging.APIDebug("Gemini replied severity=%s actions=%d", out.SeverityLevel, len(out.ImmediateActions))
	return out, nil
}
