package location

import (
	"errors"
	"fmt"

	"github.com/go-drift/locator/pkg/permit"
)

// Sentinel errors for dealer operations.
var (
	// ErrEmptyLocationData is returned when the platform reported success
	// but delivered no locations.
	ErrEmptyLocationData = errors.New("location: platform returned no locations")

	// ErrBusy is returned when a request arrives while another order is pending.
	ErrBusy = errors.New("location: another order is already pending")

	// ErrNoProvider is returned when the dealer has no platform provider attached.
	ErrNoProvider = errors.New("location: no provider attached")

	// ErrNilSink is returned when continuous updates are started without a sink.
	ErrNilSink = errors.New("location: nil update sink")

	// ErrPending is returned by Result.Value before the result is delivered.
	ErrPending = errors.New("location: result not yet delivered")
)

// PermissionError indicates a request was refused because location access is
// not granted. Outcome carries the precise classification so the caller can
// render targeted guidance.
type PermissionError struct {
	Outcome permit.Outcome
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("location: permission required: %s", e.Outcome)
}

// RequestFailedError indicates the platform reported an error for an active
// request. The message is opaque; the dealer does not retry.
type RequestFailedError struct {
	Message string
}

func (e *RequestFailedError) Error() string {
	return "location: request failed: " + e.Message
}
