package platform

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	locerrors "github.com/go-drift/locator/pkg/errors"
	"github.com/go-drift/locator/pkg/location"
	"github.com/go-drift/locator/pkg/permit"
)

// bridgeCall records one method invocation crossing the bridge.
type bridgeCall struct {
	channel string
	method  string
	args    any
}

// scriptedBridge returns canned responses or errors per method and records
// every call. Invocations may arrive from delegate goroutines, so the call
// log is mutex-protected.
type scriptedBridge struct {
	mu        sync.Mutex
	responses map[string]any
	errs      map[string]error
	calls     []bridgeCall
}

func (b *scriptedBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	decoded, err := DefaultCodec.Decode(args)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.calls = append(b.calls, bridgeCall{channel: channel, method: method, args: decoded})
	b.mu.Unlock()
	if b.errs != nil {
		if err := b.errs[method]; err != nil {
			return nil, err
		}
	}
	var response any
	if b.responses != nil {
		response = b.responses[method]
	}
	return DefaultCodec.Encode(response)
}

func (b *scriptedBridge) StartEventStream(string) error { return nil }
func (b *scriptedBridge) StopEventStream(string) error  { return nil }

func (b *scriptedBridge) callsTo(method string) []bridgeCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []bridgeCall
	for _, c := range b.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

// recordingDelegate captures every delegate callback.
type recordingDelegate struct {
	statuses []permit.Status
	batches  [][]location.Location
	messages []string
}

func (d *recordingDelegate) AuthorizationChanged(status permit.Status) {
	d.statuses = append(d.statuses, status)
}

func (d *recordingDelegate) LocationsReceived(locations []location.Location) {
	d.batches = append(d.batches, locations)
}

func (d *recordingDelegate) ProviderError(message string) {
	d.messages = append(d.messages, message)
}

func mustEncode(t *testing.T, v any) []byte {
	t.Helper()
	data, err := DefaultCodec.Encode(v)
	if err != nil {
		t.Fatalf("failed to encode payload: %v", err)
	}
	return data
}

func TestServiceAuthorizationStatus(t *testing.T) {
	tests := []struct {
		name     string
		response any
		err      error
		want     permit.Status
	}{
		{
			name:     "reported status",
			response: map[string]any{"status": "authorized_when_in_use"},
			want:     permit.StatusAuthorizedWhenInUse,
		},
		{
			name:     "denied",
			response: map[string]any{"status": "denied"},
			want:     permit.StatusDenied,
		},
		{
			name:     "missing status key",
			response: map[string]any{},
			want:     permit.StatusNotDetermined,
		},
		{
			name:     "nil response",
			response: nil,
			want:     permit.StatusNotDetermined,
		},
		{
			name: "bridge error",
			err:  errors.New("no handler"),
			want: permit.StatusNotDetermined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := &scriptedBridge{
				responses: map[string]any{"authorizationStatus": tt.response},
				errs:      map[string]error{"authorizationStatus": tt.err},
			}
			SetNativeBridge(bridge)
			t.Cleanup(ResetForTest)

			svc := NewService()
			if got := svc.AuthorizationStatus(); got != tt.want {
				t.Errorf("AuthorizationStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServiceEnabled(t *testing.T) {
	tests := []struct {
		name     string
		response any
		want     bool
	}{
		{"enabled", map[string]any{"enabled": true}, true},
		{"disabled", map[string]any{"enabled": false}, false},
		{"malformed", "yes", false},
		{"nil response", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := &scriptedBridge{responses: map[string]any{"isEnabled": tt.response}}
			SetNativeBridge(bridge)
			t.Cleanup(ResetForTest)

			svc := NewService()
			if got := svc.ServiceEnabled(); got != tt.want {
				t.Errorf("ServiceEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServiceSetDesiredAccuracyForwardsValue(t *testing.T) {
	bridge := &scriptedBridge{}
	SetNativeBridge(bridge)
	t.Cleanup(ResetForTest)

	svc := NewService()
	svc.SetDesiredAccuracy(location.AccuracyTenMeters)

	calls := bridge.callsTo("setDesiredAccuracy")
	if len(calls) != 1 {
		t.Fatalf("expected one setDesiredAccuracy call, got %d", len(calls))
	}
	args, ok := calls[0].args.(map[string]any)
	if !ok {
		t.Fatalf("expected map args, got %T", calls[0].args)
	}
	if got, _ := toFloat64(args["accuracy"]); got != float64(location.AccuracyTenMeters) {
		t.Errorf("expected accuracy %v forwarded, got %v", float64(location.AccuracyTenMeters), got)
	}
	if calls[0].channel != locationChannelName {
		t.Errorf("expected channel %q, got %q", locationChannelName, calls[0].channel)
	}
}

func TestServiceRequestAuthorization(t *testing.T) {
	t.Run("forwards scope", func(t *testing.T) {
		bridge := &scriptedBridge{}
		SetNativeBridge(bridge)
		t.Cleanup(ResetForTest)

		svc := NewService()
		if err := svc.RequestAuthorization(location.ScopeAlways); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		calls := bridge.callsTo("requestAuthorization")
		if len(calls) != 1 {
			t.Fatalf("expected one requestAuthorization call, got %d", len(calls))
		}
		args := calls[0].args.(map[string]any)
		if parseString(args["scope"]) != string(location.ScopeAlways) {
			t.Errorf("expected scope %q forwarded, got %v", location.ScopeAlways, args["scope"])
		}
	})

	t.Run("fails fast on unsupported scope", func(t *testing.T) {
		bridge := &scriptedBridge{
			errs: map[string]error{
				"requestAuthorization": NewChannelError("unsupported_scope", "always not available"),
			},
		}
		SetNativeBridge(bridge)
		t.Cleanup(ResetForTest)

		svc := NewService()
		err := svc.RequestAuthorization(location.ScopeAlways)
		var chErr *ChannelError
		if !errors.As(err, &chErr) {
			t.Fatalf("expected ChannelError, got %v", err)
		}
		if chErr.Code != "unsupported_scope" {
			t.Errorf("expected code %q, got %q", "unsupported_scope", chErr.Code)
		}
	})
}

// failureDelegate signals provider errors as they arrive; start failures are
// delivered off the caller's goroutine.
type failureDelegate struct {
	errored chan string
}

func (d *failureDelegate) AuthorizationChanged(permit.Status)    {}
func (d *failureDelegate) LocationsReceived([]location.Location) {}
func (d *failureDelegate) ProviderError(message string)          { d.errored <- message }

func TestServiceStartErrorsReachDelegate(t *testing.T) {
	bridge := &scriptedBridge{
		errs: map[string]error{
			"requestLocation": errors.New("gps hardware failure"),
			"startUpdates":    errors.New("gps hardware failure"),
		},
	}
	SetNativeBridge(bridge)
	t.Cleanup(ResetForTest)

	svc := NewService()
	delegate := &failureDelegate{errored: make(chan string, 2)}
	svc.SetDelegate(delegate)

	svc.StartOneShot()
	svc.StartContinuous()

	for i := 0; i < 2; i++ {
		select {
		case msg := <-delegate.errored:
			if msg == "" {
				t.Error("expected a failure message")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for the error callback")
		}
	}
}

func TestServiceStartFailureRejectsOneShotRequest(t *testing.T) {
	bridge := &scriptedBridge{
		responses: map[string]any{
			"authorizationStatus": map[string]any{"status": "authorized_when_in_use"},
			"isEnabled":           map[string]any{"enabled": true},
		},
		errs: map[string]error{"requestLocation": errors.New("gps hardware failure")},
	}
	SetNativeBridge(bridge)
	t.Cleanup(ResetForTest)

	svc := NewService()
	dealer := location.NewDealer(svc)

	res := dealer.RequestCurrentLocation(location.AccuracyBest)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := res.Wait(ctx)
	var reqErr *location.RequestFailedError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestFailedError, got %v", err)
	}
	if reqErr.Message != "gps hardware failure" {
		t.Errorf("expected the bridge failure message, got %q", reqErr.Message)
	}
	if dealer.Order() != location.OrderNone {
		t.Errorf("expected order %q after the failure, got %q", location.OrderNone, dealer.Order())
	}
}

// channelHandler forwards reported errors to a channel for the test to
// receive.
type channelHandler struct {
	errored chan *locerrors.LocatorError
}

func (h *channelHandler) HandleError(err *locerrors.LocatorError) { h.errored <- err }
func (h *channelHandler) HandlePanic(*locerrors.PanicError)       {}

func TestServiceStartFailureReportedDuringUpdates(t *testing.T) {
	bridge := &scriptedBridge{
		responses: map[string]any{
			"authorizationStatus": map[string]any{"status": "authorized_always"},
			"isEnabled":           map[string]any{"enabled": true},
		},
		errs: map[string]error{"startUpdates": errors.New("gps hardware failure")},
	}
	SetNativeBridge(bridge)
	t.Cleanup(ResetForTest)

	reported := make(chan *locerrors.LocatorError, 1)
	locerrors.SetHandler(&channelHandler{errored: reported})
	t.Cleanup(func() { locerrors.SetHandler(nil) })

	svc := NewService()
	dealer := location.NewDealer(svc)

	if err := dealer.StartUpdates(location.AccuracyBest, func(location.Location) {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case le := <-reported:
		var reqErr *location.RequestFailedError
		if !errors.As(le.Err, &reqErr) {
			t.Fatalf("expected RequestFailedError, got %v", le.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the failure report")
	}
	if dealer.Order() != location.OrderLocationUpdates {
		t.Errorf("expected order %q, got %q", location.OrderLocationUpdates, dealer.Order())
	}
}

func TestServiceLocationEventsReachDelegate(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    []location.Location
	}{
		{
			name: "bare list",
			payload: []any{
				map[string]any{"latitude": 48.8584, "longitude": 2.2945},
				map[string]any{"latitude": 51.5074, "longitude": -0.1278},
			},
			want: []location.Location{
				{Latitude: 48.8584, Longitude: 2.2945},
				{Latitude: 51.5074, Longitude: -0.1278},
			},
		},
		{
			name: "wrapped list",
			payload: map[string]any{
				"locations": []any{
					map[string]any{"latitude": 35.6762, "longitude": 139.6503},
				},
			},
			want: []location.Location{{Latitude: 35.6762, Longitude: 139.6503}},
		},
		{
			name:    "empty wrapped list",
			payload: map[string]any{"locations": []any{}},
			want:    []location.Location{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetupTestBridge(t.Cleanup)

			svc := NewService()
			delegate := &recordingDelegate{}
			svc.SetDelegate(delegate)

			if err := HandleEvent(updatesChannelName, mustEncode(t, tt.payload)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(delegate.batches) != 1 {
				t.Fatalf("expected one batch, got %d", len(delegate.batches))
			}
			got := delegate.batches[0]
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d locations, got %d", len(tt.want), len(got))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("location %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestServiceMalformedLocationEventIsDropped(t *testing.T) {
	SetupTestBridge(t.Cleanup)

	svc := NewService()
	delegate := &recordingDelegate{}
	svc.SetDelegate(delegate)

	if err := HandleEvent(updatesChannelName, mustEncode(t, []any{"not a map"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(delegate.batches) != 0 {
		t.Errorf("malformed payload must not reach the delegate, got %d batches", len(delegate.batches))
	}
}

func TestServiceAuthorizationEventsReachDelegate(t *testing.T) {
	SetupTestBridge(t.Cleanup)

	svc := NewService()
	delegate := &recordingDelegate{}
	svc.SetDelegate(delegate)

	payload := map[string]any{"status": "denied"}
	if err := HandleEvent(authChannelName, mustEncode(t, payload)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(delegate.statuses) != 1 || delegate.statuses[0] != permit.StatusDenied {
		t.Fatalf("expected denied status callback, got %v", delegate.statuses)
	}
}

func TestServiceStreamErrorsReachDelegate(t *testing.T) {
	SetupTestBridge(t.Cleanup)

	svc := NewService()
	delegate := &recordingDelegate{}
	svc.SetDelegate(delegate)

	if err := HandleEventError(updatesChannelName, "location_failure", "position unknown"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(delegate.messages) != 1 {
		t.Fatalf("expected one error callback, got %d", len(delegate.messages))
	}
}

func TestServiceDetachedDelegateDropsEvents(t *testing.T) {
	SetupTestBridge(t.Cleanup)

	svc := NewService()
	delegate := &recordingDelegate{}
	svc.SetDelegate(delegate)
	svc.SetDelegate(nil)

	payload := []any{map[string]any{"latitude": 1.0, "longitude": 2.0}}
	if err := HandleEvent(updatesChannelName, mustEncode(t, payload)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := HandleEvent(authChannelName, mustEncode(t, map[string]any{"status": "denied"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(delegate.batches) != 0 || len(delegate.statuses) != 0 {
		t.Error("detached delegate must not receive events")
	}
}

func TestNotifierForwardsScope(t *testing.T) {
	bridge := &scriptedBridge{}
	SetNativeBridge(bridge)
	t.Cleanup(ResetForTest)

	n := NewNotifier()
	n.NotifyAuthorizationRequest(location.ScopeWhenInUse)

	calls := bridge.callsTo("notifyAuthorizationRequest")
	if len(calls) != 1 {
		t.Fatalf("expected one notification call, got %d", len(calls))
	}
	args := calls[0].args.(map[string]any)
	if parseString(args["scope"]) != string(location.ScopeWhenInUse) {
		t.Errorf("expected scope %q, got %v", location.ScopeWhenInUse, args["scope"])
	}
}

func TestServiceWithDealerEndToEnd(t *testing.T) {
	bridge := &scriptedBridge{
		responses: map[string]any{
			"authorizationStatus": map[string]any{"status": "authorized_when_in_use"},
			"isEnabled":           map[string]any{"enabled": true},
		},
	}
	SetNativeBridge(bridge)
	t.Cleanup(ResetForTest)

	svc := NewService()
	dealer := location.NewDealer(svc)

	res := dealer.RequestCurrentLocation(location.AccuracyBest)
	if len(bridge.callsTo("requestLocation")) != 1 {
		t.Fatal("expected the one-shot request to reach the bridge")
	}

	payload := []any{map[string]any{"latitude": 40.7128, "longitude": -74.006}}
	if err := HandleEvent(updatesChannelName, mustEncode(t, payload)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loc, err := res.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := location.Location{Latitude: 40.7128, Longitude: -74.006}
	if loc != want {
		t.Errorf("expected %v, got %v", want, loc)
	}
	if len(bridge.callsTo("stopUpdates")) != 1 {
		t.Error("expected the subscription stopped after delivery")
	}
	if dealer.Order() != location.OrderNone {
		t.Errorf("expected order %q, got %q", location.OrderNone, dealer.Order())
	}
}
