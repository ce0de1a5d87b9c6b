package platform

import (
	"github.com/go-drift/locator/pkg/errors"
	"github.com/go-drift/locator/pkg/location"
)

const notificationChannelName = "locator/notifications"

// Notifier is the channel-backed location.Notifier. It asks the host to
// surface a system authorization dialog; the call is fire-and-forget, so
// failures are reported rather than returned.
type Notifier struct {
	channel *MethodChannel
}

// NewNotifier creates the channel-backed notifier.
func NewNotifier() *Notifier {
	return &Notifier{channel: NewMethodChannel(notificationChannelName)}
}

// NotifyAuthorizationRequest signals the host to surface the system dialog
// for the given scope.
func (n *Notifier) NotifyAuthorizationRequest(scope location.Scope) {
	_, err := n.channel.Invoke("notifyAuthorizationRequest", map[string]any{
		"scope": string(scope),
	})
	if err != nil {
		errors.Report(&errors.LocatorError{
			Op:      "platform.Notifier.NotifyAuthorizationRequest",
			Kind:    errors.KindPlatform,
			Channel: notificationChannelName,
			Err:     err,
		})
	}
}
