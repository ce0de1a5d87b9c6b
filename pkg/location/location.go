// Package location brokers access to a platform location service. The Dealer
// orchestrator classifies permission state, tracks the single outstanding
// location order, and resumes or aborts work when asynchronous authorization
// and location callbacks arrive from the platform provider.
package location

import "fmt"

// Location is a read-only coordinate snapshot.
// Equality is defined on the coordinate pair.
type Location struct {
	// Latitude is the latitude in degrees.
	Latitude float64
	// Longitude is the longitude in degrees.
	Longitude float64
}

// RoundedString returns the coordinates rounded to hundredths, for coarse display.
func (l Location) RoundedString() string {
	return fmt.Sprintf("%.2f, %.2f", l.Latitude, l.Longitude)
}

// PreciseString returns the coordinates rounded to four decimal places.
func (l Location) PreciseString() string {
	return fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)
}

// Accuracy is a desired precision hint in meters, forwarded opaquely to the
// platform provider. Negative presets request the best the hardware can do.
type Accuracy float64

// Accuracy presets.
const (
	// AccuracyForNavigation requests navigation-grade precision.
	AccuracyForNavigation Accuracy = -2
	// AccuracyBest requests the best precision available.
	AccuracyBest Accuracy = -1
	// AccuracyTenMeters requests precision within ten meters.
	AccuracyTenMeters Accuracy = 10
	// AccuracyHundredMeters requests precision within a hundred meters.
	AccuracyHundredMeters Accuracy = 100
	// AccuracyKilometer requests precision within a kilometer.
	AccuracyKilometer Accuracy = 1000
	// AccuracyThreeKilometers requests precision within three kilometers.
	AccuracyThreeKilometers Accuracy = 3000
)

// Scope is the strength of permission being requested.
type Scope string

// Authorization scopes.
const (
	// ScopeWhenInUse requests foreground location access.
	ScopeWhenInUse Scope = "when_in_use"
	// ScopeAlways requests background location access.
	// Not every platform supports it; the provider fails fast when it doesn't.
	ScopeAlways Scope = "always"
)
