package assess

import "errors"

var (
	// ErrUnavailable marks a provider tier that could not be reached or
	// returned a non-success outcome. The resolver treats it the same as
	// any other provider error: advance to the next tier.
	ErrUnavailable = errors.New("assessment provider unavailable")

	// ErrNotConfigured marks a tier that was never initialized, e.g. a
	// generative provider with no API credential.
	ErrNotConfigured = errors.New("assessment provider not configured")

	// ErrNoJSON means a generative reply contained no parseable JSON
	// object.
	ErrNoJSON = errors.New("no JSON object in provider reply")
)
