package assess

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chiron/internal/logging"
	"chiron/internal/triage"
)

// Provider is one tier of the fallback chain capable of producing an
// assessment for a request. Completeness of the result is judged by the
// resolver, not the provider.
type Provider interface {
	Name() string
	Assess(ctx context.Context, req triage.AssessmentRequest) (triage.AssessmentResponse, error)
}

// PrimaryConfig configures the specialized assessment backend client.
type PrimaryConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultPrimaryConfig returns sensible defaults for a local backend.
func DefaultPrimaryConfig() PrimaryConfig {
	return PrimaryConfig{
		BaseURL: "http://localhost:8002",
		Timeout: 15 * time.Second,
	}
}

// PrimaryProvider calls the specialized trauma-assessment backend over
// HTTP. Any transport failure or non-2xx reply is reported as
// ErrUnavailable so the resolver degrades to the next tier.
type PrimaryProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewPrimaryProvider creates a client for the primary backend.
func NewPrimaryProvider(config PrimaryConfig) *PrimaryProvider {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultPrimaryConfig().BaseURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultPrimaryConfig().Timeout
	}
	return &PrimaryProvider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies the tier in logs.
func (p *PrimaryProvider) Name() string { return "primary" }

// Assess posts the request envelope to /api/medical/trauma-assessment
// and decodes the reply body as an AssessmentResponse.
func (p *PrimaryProvider) Assess(ctx context.Context, req triage.AssessmentRequest) (triage.AssessmentResponse, error) {
	timer := logging.StartTimer(logging.CategoryAPI, "primary assessment")
	defer timer.Stop()

	body, err := json.Marshal(req)
	if err != nil {
		return triage.AssessmentResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	url := p.baseURL + "/api/medical/trauma-assessment"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return triage.AssessmentResponse{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return triage.AssessmentResponse{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		logging.API("Primary backend returned status %d", resp.StatusCode)
		return triage.AssessmentResponse{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out triage.AssessmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return triage.AssessmentResponse{}, fmt.Errorf("%w: decode reply: %v", ErrUnavailable, err)
	}

	logging.APIDebug("Primary backend replied severity=%s actions=%d", out.SeverityLevel, len(out.ImmediateActions))
	return out, nil
}
