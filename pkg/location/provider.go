package location

import "github.com/go-drift/locator/pkg/permit"

// Provider is the platform location service the dealer drives. Implementations
// deliver asynchronous results through the Delegate registered with
// SetDelegate; callbacks may arrive on any goroutine, but must not be invoked
// synchronously from within the methods below.
type Provider interface {
	// AuthorizationStatus returns the raw per-app authorization status.
	AuthorizationStatus() permit.Status

	// ServiceEnabled reports whether location services are enabled globally.
	ServiceEnabled() bool

	// SetDesiredAccuracy forwards the desired precision to the platform.
	SetDesiredAccuracy(accuracy Accuracy)

	// RequestAuthorization prompts the user for the given scope. It fails
	// fast when the platform does not support the scope.
	RequestAuthorization(scope Scope) error

	// StartOneShot begins a subscription expected to deliver one location.
	StartOneShot()

	// StartContinuous begins a standing location subscription.
	StartContinuous()

	// Stop cancels the active subscription, if any.
	Stop()

	// SetDelegate registers the callback receiver. A nil delegate detaches
	// it; the provider must tolerate events arriving while detached.
	SetDelegate(delegate Delegate)
}

// Delegate is the callback surface a Provider delivers events to.
type Delegate interface {
	// AuthorizationChanged is invoked when the user answers a prompt or the
	// authorization status changes in settings.
	AuthorizationChanged(status permit.Status)

	// LocationsReceived is invoked with the locations produced by the active
	// subscription, most recent last.
	LocationsReceived(locations []Location)

	// ProviderError is invoked when the platform reports an error for the
	// active subscription. The message is opaque.
	ProviderError(message string)
}

// Notifier is an optional, write-only hook the dealer pings when the host
// should surface a system authorization dialog.
type Notifier interface {
	NotifyAuthorizationRequest(scope Scope)
}
