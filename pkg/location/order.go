package location

// Order identifies the single outstanding operation the dealer is tracking.
// At most one non-none order exists at a time; the dealer rejects conflicting
// requests with ErrBusy rather than superseding the first caller.
type Order string

// Order states.
const (
	// OrderNone indicates no operation is outstanding.
	OrderNone Order = "none"

	// OrderCurrentLocation indicates a one-shot location request is in flight.
	OrderCurrentLocation Order = "current_location"

	// OrderLocationUpdates indicates a continuous update subscription is active.
	OrderLocationUpdates Order = "location_updates"

	// OrderAuthorization indicates an authorization prompt is outstanding.
	OrderAuthorization Order = "authorization"
)
