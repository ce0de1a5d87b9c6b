package location

import (
	"sync"

	"github.com/go-drift/locator/pkg/errors"
	"github.com/go-drift/locator/pkg/permit"
)

// Option configures a Dealer.
type Option func(*Dealer)

// WithNotifier attaches the optional authorization-prompt notifier.
func WithNotifier(n Notifier) Option {
	return func(d *Dealer) { d.notifier = n }
}

// WithDefaultAccuracy sets the initial desired accuracy.
func WithDefaultAccuracy(a Accuracy) Option {
	return func(d *Dealer) { d.desiredAccuracy = a }
}

// WithDefaultScope sets the scope used when a location request has to prompt
// for authorization itself.
func WithDefaultScope(s Scope) Option {
	return func(d *Dealer) { d.defaultScope = s }
}

// Dealer coordinates location requests against a platform Provider. It owns
// the single outstanding order, classifies permission state before touching
// the provider, and resumes or aborts pending work when provider callbacks
// arrive. Construct one per host application and pass it to call sites; the
// instance, not global uniqueness, enforces "at most one active subscription".
//
// All methods and callbacks are safe for concurrent use. Callbacks may arrive
// on any goroutine.
type Dealer struct {
	mu       sync.Mutex
	provider Provider
	notifier Notifier

	order   Order
	pending *Result
	sink    func(Location)
	// awaiting marks an order recorded while authorization was undetermined;
	// the provider start is deferred until the authorization callback.
	awaiting bool

	desiredAccuracy Accuracy
	defaultScope    Scope
}

// NewDealer creates a dealer driving the given provider and registers itself
// as the provider's delegate.
func NewDealer(provider Provider, opts ...Option) *Dealer {
	d := &Dealer{
		provider:        provider,
		order:           OrderNone,
		desiredAccuracy: AccuracyHundredMeters,
		defaultScope:    ScopeWhenInUse,
	}
	for _, opt := range opts {
		opt(d)
	}
	if provider != nil {
		provider.SetDelegate(d)
	}
	return d
}

// AuthorizationStatus returns the provider's raw authorization status.
func (d *Dealer) AuthorizationStatus() permit.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.provider == nil {
		return permit.StatusNotDetermined
	}
	return d.provider.AuthorizationStatus()
}

// ServiceEnabled reports whether location services are enabled globally.
func (d *Dealer) ServiceEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.provider == nil {
		return false
	}
	return d.provider.ServiceEnabled()
}

// Permit returns the classified permission state.
func (d *Dealer) Permit() permit.Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.permitLocked()
}

// DesiredAccuracy returns the currently configured desired accuracy.
func (d *Dealer) DesiredAccuracy() Accuracy {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.desiredAccuracy
}

// Order returns the outstanding order. Intended for inspection and tests.
func (d *Dealer) Order() Order {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.order
}

// RequestAuthorization prompts the user for the given scope. It is a no-op
// when the permission question is already decided, and fails fast when the
// provider does not support the scope.
func (d *Dealer) RequestAuthorization(scope Scope) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.provider == nil {
		return ErrNoProvider
	}
	if d.permitLocked().Decided() {
		return nil
	}
	claimed := false
	if d.order == OrderNone {
		d.order = OrderAuthorization
		claimed = true
	}
	if err := d.provider.RequestAuthorization(scope); err != nil {
		if claimed {
			d.order = OrderNone
		}
		return err
	}
	d.notifyLocked(scope)
	return nil
}

// RequestCurrentLocation asks the provider for a single location and returns
// a Result that is resolved or rejected when the platform answers.
//
// With permission already granted the one-shot subscription starts
// immediately. While the permission question is undetermined the order is
// recorded, the user is prompted, and the subscription starts only once the
// authorization callback reports access; a decided denial rejects immediately
// with PermissionError without touching the provider's start methods. A
// request made while another order is pending rejects with ErrBusy.
func (d *Dealer) RequestCurrentLocation(accuracy Accuracy) *Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.provider == nil {
		return rejected(ErrNoProvider)
	}
	if d.order != OrderNone {
		return rejected(ErrBusy)
	}
	out := d.permitLocked()
	switch {
	case out.Allowed():
		r := newResult()
		d.order = OrderCurrentLocation
		d.pending = r
		d.desiredAccuracy = accuracy
		d.provider.SetDesiredAccuracy(accuracy)
		d.provider.StartOneShot()
		return r
	case out == permit.NotDetermined:
		r := newResult()
		d.order = OrderCurrentLocation
		d.pending = r
		d.awaiting = true
		d.desiredAccuracy = accuracy
		if err := d.provider.RequestAuthorization(d.defaultScope); err != nil {
			d.clearLocked()
			return rejected(err)
		}
		d.notifyLocked(d.defaultScope)
		return r
	default:
		return rejected(&PermissionError{Outcome: out})
	}
}

// StartUpdates begins continuous location updates delivered to sink. The
// deferred-start and denial behavior matches RequestCurrentLocation; the
// subscription runs until StopUpdates.
func (d *Dealer) StartUpdates(accuracy Accuracy, sink func(Location)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.provider == nil {
		return ErrNoProvider
	}
	if sink == nil {
		return ErrNilSink
	}
	if d.order != OrderNone {
		return ErrBusy
	}
	out := d.permitLocked()
	switch {
	case out.Allowed():
		d.order = OrderLocationUpdates
		d.sink = sink
		d.desiredAccuracy = accuracy
		d.provider.SetDesiredAccuracy(accuracy)
		d.provider.StartContinuous()
	case out == permit.NotDetermined:
		d.order = OrderLocationUpdates
		d.sink = sink
		d.awaiting = true
		d.desiredAccuracy = accuracy
		if err := d.provider.RequestAuthorization(d.defaultScope); err != nil {
			d.clearLocked()
			return err
		}
		d.notifyLocked(d.defaultScope)
	default:
		return &PermissionError{Outcome: out}
	}
	return nil
}

// StopUpdates cancels the continuous subscription. Calling it when updates
// are not running is a no-op, not an error.
func (d *Dealer) StopUpdates() {
	d.mu.Lock()
	if d.order != OrderLocationUpdates {
		d.mu.Unlock()
		return
	}
	d.clearLocked()
	p := d.provider
	d.mu.Unlock()
	if p != nil {
		p.Stop()
	}
}

// Reset clears the outstanding order and detaches the provider and notifier.
// An in-flight Result is left unresolved. Intended for teardown and test
// isolation.
func (d *Dealer) Reset() {
	d.mu.Lock()
	p := d.provider
	d.provider = nil
	d.notifier = nil
	d.clearLocked()
	d.mu.Unlock()
	if p != nil {
		p.SetDelegate(nil)
	}
}

// AuthorizationChanged implements Delegate. It reclassifies the permission
// state and resumes or aborts the outstanding order accordingly.
func (d *Dealer) AuthorizationChanged(status permit.Status) {
	defer errors.Recover("location.Dealer.AuthorizationChanged")
	d.mu.Lock()
	if d.provider == nil {
		d.mu.Unlock()
		return
	}
	out := permit.Classify(d.provider.ServiceEnabled(), status)

	var toReject *Result
	var rejectErr error
	switch d.order {
	case OrderAuthorization:
		if out.Decided() {
			d.order = OrderNone
		}
	case OrderCurrentLocation:
		switch {
		case out.Allowed():
			if d.awaiting {
				d.awaiting = false
				d.provider.SetDesiredAccuracy(d.desiredAccuracy)
				d.provider.StartOneShot()
			}
		case out.Decided():
			toReject = d.pending
			rejectErr = &PermissionError{Outcome: out}
			d.clearLocked()
		}
	case OrderLocationUpdates:
		switch {
		case out.Allowed():
			if d.awaiting {
				d.awaiting = false
				d.provider.SetDesiredAccuracy(d.desiredAccuracy)
				d.provider.StartContinuous()
			}
		case out.Decided():
			started := !d.awaiting
			d.clearLocked()
			if started {
				d.provider.Stop()
			}
			errors.Report(&errors.LocatorError{
				Op:   "location.Dealer.AuthorizationChanged",
				Kind: errors.KindPlatform,
				Err:  &PermissionError{Outcome: out},
			})
		}
	}
	d.mu.Unlock()

	if toReject != nil {
		toReject.reject(rejectErr)
	}
}

// LocationsReceived implements Delegate. A one-shot order resolves with the
// first location, or rejects with ErrEmptyLocationData when the platform
// reported none; continuous updates forward every location to the sink and
// stay active.
func (d *Dealer) LocationsReceived(locations []Location) {
	defer errors.Recover("location.Dealer.LocationsReceived")
	d.mu.Lock()
	switch d.order {
	case OrderCurrentLocation:
		if d.provider != nil {
			d.provider.Stop()
		}
		r := d.pending
		d.clearLocked()
		d.mu.Unlock()
		if r == nil {
			return
		}
		if len(locations) == 0 {
			r.reject(ErrEmptyLocationData)
		} else {
			r.resolve(locations[0])
		}
	case OrderLocationUpdates:
		sink := d.sink
		d.mu.Unlock()
		if sink == nil {
			return
		}
		for _, loc := range locations {
			sink(loc)
		}
	default:
		d.mu.Unlock()
	}
}

// ProviderError implements Delegate. A one-shot order rejects with
// RequestFailedError; during continuous updates the error is reported and the
// subscription stays up until the caller stops it.
func (d *Dealer) ProviderError(message string) {
	defer errors.Recover("location.Dealer.ProviderError")
	d.mu.Lock()
	switch d.order {
	case OrderCurrentLocation:
		if d.provider != nil {
			d.provider.Stop()
		}
		r := d.pending
		d.clearLocked()
		d.mu.Unlock()
		if r != nil {
			r.reject(&RequestFailedError{Message: message})
		}
	case OrderLocationUpdates:
		d.mu.Unlock()
		errors.Report(&errors.LocatorError{
			Op:   "location.Dealer.ProviderError",
			Kind: errors.KindPlatform,
			Err:  &RequestFailedError{Message: message},
		})
	default:
		d.mu.Unlock()
	}
}

func (d *Dealer) permitLocked() permit.Outcome {
	if d.provider == nil {
		return permit.Classify(false, permit.StatusNotDetermined)
	}
	return permit.Classify(d.provider.ServiceEnabled(), d.provider.AuthorizationStatus())
}

func (d *Dealer) clearLocked() {
	d.order = OrderNone
	d.pending = nil
	d.sink = nil
	d.awaiting = false
}

func (d *Dealer) notifyLocked(scope Scope) {
	if d.notifier != nil {
		d.notifier.NotifyAuthorizationRequest(scope)
	}
}
