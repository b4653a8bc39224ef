package push

import (
	"errors"
	"fmt"
	"sync"

	"clamio/internal/models"
)

// Failure taxonomy surfaced to callers. Any failed call leaves the manager
// in a known non-subscribed state, never "maybe subscribed".
var (
	ErrUnsupported      = errors.New("push is not supported")
	ErrPermissionDenied = errors.New("notification permission denied")
	ErrServerRejected   = errors.New("subscription rejected by server")
)

// Guidance maps a subscription failure to operator-facing advice.
func Guidance(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Notifications are blocked. Enable them for this site in your browser settings."
	case errors.Is(err, ErrUnsupported):
		return "Push notifications are not supported here. Use a modern browser."
	case errors.Is(err, ErrServerRejected):
		return "Could not register the subscription. Try again in a moment."
	default:
		return "Something went wrong updating notification settings."
	}
}

// WebPushKeys is the endpoint registration produced by the client's key
// exchange with the push service.
type WebPushKeys struct {
	Endpoint string `json:"endpoint"`
	P256dh   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

// SubscriptionStore is the persistence boundary shared by the manager, the
// fallback notifier and the dispatcher.
type SubscriptionStore interface {
	GetByUser(userID uint) (*models.PushSubscription, error)
	Upsert(sub *models.PushSubscription) error
	SetPermission(userID uint, permission string) error
	SetFallbackEnabled(userID uint, enabled bool) error
	Disable(userID uint) error
	ListActive() ([]models.PushSubscription, error)
}

// Manager owns the push-subscription state machine: browser permission x
// backend registration x VAPID key availability. All transitions are
// serialized by a mutex so overlapping subscribe calls cannot race.
type Manager struct {
	mu             sync.Mutex
	store          SubscriptionStore
	vapidPublicKey string
}

// NewManager validates the configured VAPID key up front. An empty key is
// allowed and routes subscriptions onto the permission-only fallback path.
func NewManager(store SubscriptionStore, vapidPublicKey string) (*Manager, error) {
	if vapidPublicKey != "" {
		raw, err := DecodeVapidKey(vapidPublicKey)
		if err != nil {
			return nil, err
		}
		if len(raw) != VapidKeyLength {
			return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBadVapidKey, len(raw), VapidKeyLength)
		}
	}
	return &Manager{store: store, vapidPublicKey: vapidPublicKey}, nil
}

// VapidPublicKey returns the configured key, empty when the endpoint-based
// channel is unavailable.
func (m *Manager) VapidPublicKey() string {
	return m.vapidPublicKey
}

// Status derives the effective state from the reported browser permission
// and the stored subscription row.
func (m *Manager) Status(userID uint, perm Permission) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, err := m.store.GetByUser(userID)
	if err != nil {
		return EffectiveState(perm, false), err
	}
	return EffectiveState(perm, sub != nil && sub.Enabled), nil
}

// RecordPermission persists the browser-reported outcome of a permission
// request. The app cannot reverse a denial; only the browser owns that.
func (m *Manager) RecordPermission(userID uint, perm Permission) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, err := m.store.GetByUser(userID)
	if err != nil {
		return EffectiveState(perm, false), err
	}
	if sub == nil {
		sub = &models.PushSubscription{UserID: userID, Permission: string(perm)}
		if err := m.store.Upsert(sub); err != nil {
			return EffectiveState(perm, false), err
		}
		return EffectiveState(perm, false), nil
	}
	if err := m.store.SetPermission(userID, string(perm)); err != nil {
		return EffectiveState(perm, sub.Enabled), err
	}
	return EffectiveState(perm, sub.Enabled), nil
}

// Subscribe activates alert delivery for the user. With a VAPID key
// configured it registers the endpoint produced by the client's key
// exchange; without one it still succeeds as a permission-only subscription
// and enables the fallback channel. Idempotent when already subscribed.
func (m *Manager) Subscribe(userID uint, perm Permission, keys *WebPushKeys) (State, error) {
	// Permission checks come before any store access.
	switch perm {
	case PermissionUnsupported:
		return StateUnsupported, ErrUnsupported
	case PermissionDenied:
		return StatePermissionDenied, ErrPermissionDenied
	case PermissionGranted:
	default:
		return StatePermissionDefault, ErrPermissionDenied
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.store.GetByUser(userID)
	if err != nil {
		return StateGrantedUnsubscribed, ErrServerRejected
	}
	if existing != nil && existing.Enabled {
		return StateGrantedSubscribed, nil
	}

	sub := &models.PushSubscription{
		UserID:     userID,
		Enabled:    true,
		Permission: string(PermissionGranted),
	}
	if existing != nil {
		sub.FallbackEnabled = existing.FallbackEnabled
	}

	if m.vapidPublicKey == "" {
		// Permission-only subscription: no endpoint registration, the
		// in-app fallback channel carries delivery.
		sub.FallbackEnabled = true
	} else {
		if keys == nil || keys.Endpoint == "" || keys.P256dh == "" || keys.Auth == "" {
			return StateGrantedUnsubscribed, ErrServerRejected
		}
		sub.Endpoint = keys.Endpoint
		sub.P256dh = keys.P256dh
		sub.Auth = keys.Auth
	}

	if err := m.store.Upsert(sub); err != nil {
		// Revert to a known non-subscribed state.
		_ = m.store.Disable(userID)
		return StateGrantedUnsubscribed, ErrServerRejected
	}
	return StateGrantedSubscribed, nil
}

// Unsubscribe deactivates both channels. Clearing the fallback flag here is
// deliberate: unsubscribing mutes everything, not just the push endpoint.
// On failure the reported state reflects the stored row, so a user who was
// never subscribed is not mislabeled as subscribed.
func (m *Manager) Unsubscribe(userID uint) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, err := m.store.GetByUser(userID)
	if err != nil {
		return StateGrantedUnsubscribed, ErrServerRejected
	}
	if err := m.store.Disable(userID); err != nil {
		if sub == nil {
			return StateGrantedUnsubscribed, ErrServerRejected
		}
		return EffectiveState(Permission(sub.Permission), sub.Enabled), ErrServerRejected
	}
	return StateGrantedUnsubscribed, nil
}
