// Package assess obtains emergency guidance for an assessment request
// through a tiered fallback chain: a specialized HTTP backend, then a
// generative provider, then a fixed canned response. The chain degrades
// to a safe default; callers always receive a usable response.
package assess

import (
	"context"

	"chiron/internal/logging"
	"chiron/internal/triage"
)

// Resolver owns all fallback policy. One attempt per tier, no retries,
// no backoff; the canned source is the terminal safety net.
type Resolver struct {
	primary   Provider
	secondary Provider
	canned    *CannedSource
}

// NewResolver wires the fallback chain. Either provider may be nil,
// in which case its tier is skipped as unavailable. A nil canned source
// falls back to the built-in default guidance.
func NewResolver(primary, secondary Provider, canned *CannedSource) *Resolver {
	if canned == nil {
		canned = NewCannedSource()
	}
	return &Resolver{primary: primary, secondary: secondary, canned: canned}
}

// Resolve returns a complete AssessmentResponse for the request. It
// never returns an error: every failure mode advances the chain, and
// the canned tier always produces a result. Tier transitions are logged
// but leave the request and global state untouched.
func (r *Resolver) Resolve(ctx context.Context, req triage.AssessmentRequest) triage.AssessmentResponse {
	if resp, ok := r.tryTier(ctx, r.primary, req); ok {
		return resp
	}
	if resp, ok := r.tryTier(ctx, r.secondary, req); ok {
		return resp
	}
	logging.Resolver("All network tiers exhausted, serving canned guidance")
	return r.canned.Response()
}

// tryTier attempts one provider and validates its output. A missing
// provider, a provider error, or an incomplete candidate all yield
// ok=false so the caller advances the chain.
func (r *Resolver) tryTier(ctx context.Context, p Provider, req triage.AssessmentRequest) (triage.AssessmentResponse, bool) {
	if p == nil {
		return triage.AssessmentResponse{}, false
	}

	candidate, err := p.Assess(ctx, req)
	if err != nil {
		logging.Resolver("Tier %s unavailable: %v", p.Name(), err)
		return triage.AssessmentResponse{}, false
	}

	result := triage.Validate(candidate)
	switch result.Kind {
	case triage.Complete:
		logging.ResolverDebug("Tier %s produced a complete response", p.Name())
		return result.Value, true
	case triage.Incomplete:
		logging.Resolver("Tier %s returned incomplete response (%s), falling back", p.Name(), result.Reason)
		return triage.AssessmentResponse{}, false
	default:
		return triage.AssessmentResponse{}, false
	}
}
