package push

import (
	"clamio/internal/models"
)

// AutoDismissMillis is how long a fallback alert stays on screen.
const AutoDismissMillis = 5000

// ClickActionFocus is the single click action carried on fallback alerts:
// clicking one focuses the application window. One explicit dispatch path,
// no layered handler reassignment.
const ClickActionFocus = "focus"

// AlertSink delivers a payload to every live session of one user. The
// WebSocket alert hub implements this.
type AlertSink interface {
	PushToUser(userID uint, payload interface{})
}

// AlertPayload is the wire form of a fallback alert.
type AlertPayload struct {
	Kind           string `json:"kind"`
	NotificationID uint   `json:"notification_id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Severity       string `json:"severity"`
	AutoDismissMs  int    `json:"auto_dismiss_ms"`
	ClickAction    string `json:"click_action"`
}

// Fallback is the permission-only local alert channel, used when no push
// endpoint can be registered. Its enabled flag is independent of the
// subscription manager so an admin can mute in-app alerts without revoking
// browser permission.
type Fallback struct {
	store SubscriptionStore
	sink  AlertSink
}

func NewFallback(store SubscriptionStore, sink AlertSink) *Fallback {
	return &Fallback{store: store, sink: sink}
}

// Enable turns the channel on and reports whether it is now enabled.
// Requires granted permission; a denied or undecided permission cannot be
// overridden from here.
func (f *Fallback) Enable(userID uint, perm Permission) (bool, error) {
	if perm != PermissionGranted {
		return false, ErrPermissionDenied
	}
	sub, err := f.store.GetByUser(userID)
	if err != nil {
		return false, err
	}
	if sub == nil {
		sub = &models.PushSubscription{
			UserID:          userID,
			Permission:      string(perm),
			FallbackEnabled: true,
		}
		if err := f.store.Upsert(sub); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := f.store.SetFallbackEnabled(userID, true); err != nil {
		return false, err
	}
	return true, nil
}

// Disable clears the local enabled flag only; browser permission is not
// touched.
func (f *Fallback) Disable(userID uint) error {
	return f.store.SetFallbackEnabled(userID, false)
}

// Show displays a local alert for the user, only when permission is granted
// and the channel is enabled. The alert auto-dismisses client-side after
// AutoDismissMillis and focuses the app window on click.
func (f *Fallback) Show(userID uint, n *models.Notification) error {
	sub, err := f.store.GetByUser(userID)
	if err != nil {
		return err
	}
	if sub == nil || sub.Permission != string(PermissionGranted) || !sub.FallbackEnabled {
		return nil
	}
	f.sink.PushToUser(userID, AlertPayload{
		Kind:           "notification",
		NotificationID: n.ID,
		Title:          n.Title,
		Message:        n.Message,
		Severity:       n.Severity,
		AutoDismissMs:  AutoDismissMillis,
		ClickAction:    ClickActionFocus,
	})
	return nil
}
