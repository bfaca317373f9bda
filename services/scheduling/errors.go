package scheduling

import "errors"

var (
	// ErrTimeNotAvailable means the requested instant is outside the
	// computed availability set, or already in the past.
	ErrTimeNotAvailable = errors.New("requested time is not available")

	// ErrProviderUnavailable wraps a busy-time provider failure. The
	// aggregator degrades to skipping the provider's data.
	ErrProviderUnavailable = errors.New("busy-time provider unavailable")

	// ErrConfigurationMissing means the schedule or booking constraints are
	// absent; the request cannot proceed.
	ErrConfigurationMissing = errors.New("scheduling configuration missing")
)
