// Package permit classifies raw platform authorization signals into a single
// actionable permission state.
//
// The platform reports two separate signals: whether location services are
// enabled at all, and the per-app authorization status. The combination is
// ambiguous on its own; Classify disambiguates the negative cases so calling
// code can render distinct guidance (system settings vs. app settings vs. no
// action possible).
package permit

// Status is the raw authorization status reported by the platform.
type Status string

// Raw authorization statuses.
const (
	// StatusNotDetermined indicates the user has not yet been asked.
	StatusNotDetermined Status = "not_determined"

	// StatusDenied indicates the user denied the permission, or location
	// services are disabled globally.
	StatusDenied Status = "denied"

	// StatusRestricted indicates a system policy prevents granting
	// (parental controls, MDM, enterprise policy).
	StatusRestricted Status = "restricted"

	// StatusAuthorizedAlways indicates background location access is granted.
	StatusAuthorizedAlways Status = "authorized_always"

	// StatusAuthorizedWhenInUse indicates foreground location access is granted.
	StatusAuthorizedWhenInUse Status = "authorized_when_in_use"
)

// Outcome is the classified, actionable permission state.
type Outcome string

// Classified permission outcomes. Exactly one holds for any input pair.
const (
	// NotDetermined indicates the user has not answered a prompt yet.
	NotDetermined Outcome = "not_determined"

	// DeniedForAllAndRestricted indicates location services are off globally
	// and a policy restricts this app. The user cannot fix this from the app.
	DeniedForAllAndRestricted Outcome = "denied_for_all_and_restricted"

	// Restricted indicates a policy restricts this app while services are on.
	Restricted Outcome = "restricted"

	// DeniedForAllApps indicates location services are disabled globally.
	// Direct the user to system settings.
	DeniedForAllApps Outcome = "denied_for_all_apps"

	// DeniedForTheApp indicates the user denied this app specifically.
	// Direct the user to the app's settings.
	DeniedForTheApp Outcome = "denied_for_the_app"

	// Allowed indicates location access is granted.
	Allowed Outcome = "allowed"
)

// Classify maps the service-enabled flag and raw authorization status to a
// single Outcome. It is total and pure: every input pair yields a
// deterministic value and no input panics.
//
// The checks run in order: not-determined, denied, restricted, then any
// authorized variant. The platform normally only reports not-determined while
// services are enabled, but Classify does not rely on that.
func Classify(serviceEnabled bool, status Status) Outcome {
	switch status {
	case StatusNotDetermined:
		return NotDetermined
	case StatusDenied:
		if serviceEnabled {
			return DeniedForTheApp
		}
		return DeniedForAllApps
	case StatusRestricted:
		if serviceEnabled {
			return Restricted
		}
		return DeniedForAllAndRestricted
	default:
		return Allowed
	}
}

// Decided reports whether the user (or a policy) has answered the permission
// question, one way or the other.
func (o Outcome) Decided() bool {
	return o != NotDetermined
}

// Allowed reports whether location access is granted.
func (o Outcome) Allowed() bool {
	return o == Allowed
}
