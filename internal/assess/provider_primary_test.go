package assess

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chiron/internal/triage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryProvider_Success(t *testing.T) {
	var gotPath string
	var gotBody triage.AssessmentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(validResponse())
	}))
	defer server.Close()

	p := NewPrimaryProvider(PrimaryConfig{BaseURL: server.URL})
	got, err := p.Assess(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, "/api/medical/trauma-assessment", gotPath)
	assert.Equal(t, "fall from ladder", gotBody.MechanismOfInjury)
	assert.Equal(t, validResponse(), got)
}

func TestPrimaryProvider_NonSuccessStatusIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer server.Close()

	p := NewPrimaryProvider(PrimaryConfig{BaseURL: server.URL})
	_, err := p.Assess(context.Background(), sampleRequest())

	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestPrimaryProvider_TransportFailureIsUnavailable(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	p := NewPrimaryProvider(PrimaryConfig{BaseURL: server.URL, Timeout: time.Second})
	_, err := p.Assess(context.Background(), sampleRequest())

	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestPrimaryProvider_MalformedBodyIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	p := NewPrimaryProvider(PrimaryConfig{BaseURL: server.URL})
	_, err := p.Assess(context.Background(), sampleRequest())

	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestResolver_EndToEndWithHTTPPrimary(t *testing.T) {
	// Scenario from the shipped defaults: primary down, no generative
	// credential; the canned tier answers.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	primary := NewPrimaryProvider(PrimaryConfig{BaseURL: server.URL})
	r := NewResolver(primary, nil, nil)

	got := r.Resolve(context.Background(), sampleRequest())
	assert.Equal(t, triage.SeveritySerious, got.SeverityLevel)
	assert.Len(t, got.ImmediateActions, 4)
}
