package platform

import (
	"sync"

	"github.com/go-drift/locator/pkg/errors"
	"github.com/go-drift/locator/pkg/location"
	"github.com/go-drift/locator/pkg/permit"
)

// Channel names used by the location service.
const (
	locationChannelName = "locator/location"
	updatesChannelName  = "locator/location/updates"
	authChannelName     = "locator/authorization/changes"
)

// Service is the channel-backed location.Provider. Method calls go out over
// the locator/location method channel; location and authorization events come
// back over event channels and are forwarded to the registered delegate.
type Service struct {
	channel *MethodChannel
	updates *EventChannel
	auth    *EventChannel

	mu       sync.RWMutex
	delegate location.Delegate
}

// NewService creates the channel-backed provider and subscribes to the
// native event streams. Subscribing before a bridge is connected is fine;
// SetNativeBridge replays the stream starts.
func NewService() *Service {
	s := &Service{
		channel: NewMethodChannel(locationChannelName),
		updates: NewEventChannel(updatesChannelName),
		auth:    NewEventChannel(authChannelName),
	}
	s.updates.Listen(EventHandler{
		OnEvent: s.onLocations,
		OnError: s.onStreamError,
	})
	s.auth.Listen(EventHandler{
		OnEvent: s.onAuthorization,
		OnError: s.onStreamError,
	})
	return s
}

// AuthorizationStatus returns the raw authorization status reported by native
// code. Bridge failures are reported and degrade to not-determined.
func (s *Service) AuthorizationStatus() permit.Status {
	result, err := s.channel.Invoke("authorizationStatus", nil)
	if err != nil {
		s.report("platform.Service.AuthorizationStatus", err)
		return permit.StatusNotDetermined
	}
	if m, ok := result.(map[string]any); ok {
		if status := parseString(m["status"]); status != "" {
			return permit.Status(status)
		}
	}
	return permit.StatusNotDetermined
}

// ServiceEnabled reports whether location services are enabled on the device.
// Bridge failures are reported and degrade to false.
func (s *Service) ServiceEnabled() bool {
	result, err := s.channel.Invoke("isEnabled", nil)
	if err != nil {
		s.report("platform.Service.ServiceEnabled", err)
		return false
	}
	if m, ok := result.(map[string]any); ok {
		return parseBool(m["enabled"])
	}
	return false
}

// SetDesiredAccuracy forwards the desired precision to native code.
func (s *Service) SetDesiredAccuracy(accuracy location.Accuracy) {
	_, err := s.channel.Invoke("setDesiredAccuracy", map[string]any{
		"accuracy": float64(accuracy),
	})
	if err != nil {
		s.report("platform.Service.SetDesiredAccuracy", err)
	}
}

// RequestAuthorization asks native code to prompt the user for the scope.
// An unsupported scope surfaces as the native side's error, failing fast.
func (s *Service) RequestAuthorization(scope location.Scope) error {
	_, err := s.channel.Invoke("requestAuthorization", map[string]any{
		"scope": string(scope),
	})
	return err
}

// StartOneShot begins a subscription expected to deliver one location.
// Transport failures are routed to the delegate's error callback on a
// separate goroutine; the delegate must never be re-entered while the
// caller's start invocation is still on the stack.
func (s *Service) StartOneShot() {
	if _, err := s.channel.Invoke("requestLocation", nil); err != nil {
		go s.notifyError(err)
	}
}

// StartContinuous begins a standing location subscription. Transport
// failures are routed to the delegate's error callback on a separate
// goroutine, as in StartOneShot.
func (s *Service) StartContinuous() {
	if _, err := s.channel.Invoke("startUpdates", nil); err != nil {
		go s.notifyError(err)
	}
}

// Stop cancels the active subscription, if any.
func (s *Service) Stop() {
	if _, err := s.channel.Invoke("stopUpdates", nil); err != nil {
		s.report("platform.Service.Stop", err)
	}
}

// SetDelegate registers the callback receiver. Passing nil detaches it;
// events arriving while detached are dropped.
func (s *Service) SetDelegate(delegate location.Delegate) {
	s.mu.Lock()
	s.delegate = delegate
	s.mu.Unlock()
}

func (s *Service) currentDelegate() location.Delegate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.delegate
}

func (s *Service) onLocations(data any) {
	defer errors.Recover("platform.Service.onLocations")
	locations, ok := parseLocations(data)
	if !ok {
		errors.Report(&errors.LocatorError{
			Op:      "platform.Service.onLocations",
			Kind:    errors.KindParsing,
			Channel: updatesChannelName,
			Err: &errors.ParseError{
				Channel:  updatesChannelName,
				DataType: "[]Location",
				Got:      data,
			},
		})
		return
	}
	if d := s.currentDelegate(); d != nil {
		d.LocationsReceived(locations)
	}
}

func (s *Service) onAuthorization(data any) {
	defer errors.Recover("platform.Service.onAuthorization")
	m, ok := data.(map[string]any)
	if !ok {
		errors.Report(&errors.LocatorError{
			Op:      "platform.Service.onAuthorization",
			Kind:    errors.KindParsing,
			Channel: authChannelName,
			Err: &errors.ParseError{
				Channel:  authChannelName,
				DataType: "authorization change",
				Got:      data,
			},
		})
		return
	}
	status := parseString(m["status"])
	if status == "" {
		return
	}
	if d := s.currentDelegate(); d != nil {
		d.AuthorizationChanged(permit.Status(status))
	}
}

func (s *Service) onStreamError(err error) {
	s.notifyError(err)
}

func (s *Service) notifyError(err error) {
	if d := s.currentDelegate(); d != nil {
		d.ProviderError(err.Error())
		return
	}
	s.report("platform.Service.notifyError", err)
}

func (s *Service) report(op string, err error) {
	errors.Report(&errors.LocatorError{
		Op:      op,
		Kind:    errors.KindPlatform,
		Channel: locationChannelName,
		Err:     err,
	})
}

// parseLocations accepts either a bare list of coordinate maps or a map with
// a "locations" list, the two payload shapes native senders use.
func parseLocations(data any) ([]location.Location, bool) {
	list, ok := data.([]any)
	if !ok {
		m, isMap := data.(map[string]any)
		if !isMap {
			return nil, false
		}
		if m["locations"] == nil {
			return nil, true
		}
		if list, ok = m["locations"].([]any); !ok {
			return nil, false
		}
	}

	locations := make([]location.Location, 0, len(list))
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, false
		}
		lat, latOK := toFloat64(m["latitude"])
		lon, lonOK := toFloat64(m["longitude"])
		if !latOK || !lonOK {
			return nil, false
		}
		locations = append(locations, location.Location{Latitude: lat, Longitude: lon})
	}
	return locations, true
}
