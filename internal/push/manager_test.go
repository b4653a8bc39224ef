package push

import (
	"errors"
	"testing"

	"clamio/internal/models"
)

// fakeSubStore is an in-memory SubscriptionStore that counts calls so tests
// can assert which store operations ran.
type fakeSubStore struct {
	subs map[uint]*models.PushSubscription

	upsertErr  error
	listErr    error
	disableErr error

	calls     int
	upserts   int
	disables  int
	listCalls int
}

func newFakeSubStore() *fakeSubStore {
	return &fakeSubStore{subs: map[uint]*models.PushSubscription{}}
}

func (f *fakeSubStore) GetByUser(userID uint) (*models.PushSubscription, error) {
	f.calls++
	sub, ok := f.subs[userID]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeSubStore) Upsert(sub *models.PushSubscription) error {
	f.calls++
	f.upserts++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	cp := *sub
	f.subs[sub.UserID] = &cp
	return nil
}

func (f *fakeSubStore) SetPermission(userID uint, permission string) error {
	f.calls++
	if sub, ok := f.subs[userID]; ok {
		sub.Permission = permission
	}
	return nil
}

func (f *fakeSubStore) SetFallbackEnabled(userID uint, enabled bool) error {
	f.calls++
	if sub, ok := f.subs[userID]; ok {
		sub.FallbackEnabled = enabled
	}
	return nil
}

func (f *fakeSubStore) Disable(userID uint) error {
	f.calls++
	f.disables++
	if f.disableErr != nil {
		return f.disableErr
	}
	if sub, ok := f.subs[userID]; ok {
		sub.Enabled = false
		sub.FallbackEnabled = false
		sub.Endpoint = ""
		sub.P256dh = ""
		sub.Auth = ""
	}
	return nil
}

func (f *fakeSubStore) ListActive() ([]models.PushSubscription, error) {
	f.calls++
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.PushSubscription
	for _, sub := range f.subs {
		if sub.Enabled || sub.FallbackEnabled {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func validKeys() *WebPushKeys {
	return &WebPushKeys{
		Endpoint: "https://push.example.com/ep/1",
		P256dh:   "client-p256dh",
		Auth:     "client-auth",
	}
}

func TestSubscribe_DeniedFailsBeforeStoreAccess(t *testing.T) {
	store := newFakeSubStore()
	m, _ := NewManager(store, testVapidKey)

	state, err := m.Subscribe(1, PermissionDenied, validKeys())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if state != StatePermissionDenied {
		t.Errorf("state = %q, want permission_denied", state)
	}
	if store.calls != 0 {
		t.Errorf("store touched %d times; permission checks must precede store access", store.calls)
	}
}

func TestSubscribe_UnsupportedFailsBeforeStoreAccess(t *testing.T) {
	store := newFakeSubStore()
	m, _ := NewManager(store, testVapidKey)

	state, err := m.Subscribe(1, PermissionUnsupported, validKeys())
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if state != StateUnsupported {
		t.Errorf("state = %q", state)
	}
	if store.calls != 0 {
		t.Errorf("store touched on unsupported permission")
	}
}

func TestSubscribe_UndecidedPermissionRejected(t *testing.T) {
	store := newFakeSubStore()
	m, _ := NewManager(store, testVapidKey)

	state, err := m.Subscribe(1, PermissionDefault, validKeys())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if state != StatePermissionDefault {
		t.Errorf("state = %q", state)
	}
}

func TestSubscribe_RegistersEndpoint(t *testing.T) {
	store := newFakeSubStore()
	m, _ := NewManager(store, testVapidKey)

	state, err := m.Subscribe(1, PermissionGranted, validKeys())
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if state != StateGrantedSubscribed {
		t.Errorf("state = %q, want granted_subscribed", state)
	}
	sub := store.subs[1]
	if sub == nil || !sub.Enabled {
		t.Fatal("subscription not persisted as enabled")
	}
	if sub.Endpoint != "https://push.example.com/ep/1" {
		t.Errorf("endpoint = %q", sub.Endpoint)
	}
}

func TestSubscribe_Idempotent(t *testing.T) {
	store := newFakeSubStore()
	m, _ := NewManager(store, testVapidKey)

	if _, err := m.Subscribe(1, PermissionGranted, validKeys()); err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	upsertsAfterFirst := store.upserts

	state, err := m.Subscribe(1, PermissionGranted, validKeys())
	if err != nil {
		t.Fatalf("second subscribe: %v", err)
	}
	if state != StateGrantedSubscribed {
		t.Errorf("state = %q", state)
	}
	if store.upserts != upsertsAfterFirst {
		t.Errorf("second subscribe wrote again; expected a no-op")
	}
}

func TestSubscribe_NoVapidKeyTakesFallbackPath(t *testing.T) {
	store := newFakeSubStore()
	m, _ := NewManager(store, "")

	state, err := m.Subscribe(1, PermissionGranted, nil)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if state != StateGrantedSubscribed {
		t.Errorf("state = %q, want granted_subscribed", state)
	}
	sub := store.subs[1]
	if sub == nil || !sub.Enabled || !sub.FallbackEnabled {
		t.Fatal("permission-only subscription must enable the fallback channel")
	}
	if sub.Endpoint != "" {
		t.Errorf("no endpoint should be registered without a VAPID key, got %q", sub.Endpoint)
	}
}

func TestSubscribe_MissingKeysRejected(t *testing.T) {
	store := newFakeSubStore()
	m, _ := NewManager(store, testVapidKey)

	state, err := m.Subscribe(1, PermissionGranted, &WebPushKeys{Endpoint: "https://push.example.com/ep/1"})
	if !errors.Is(err, ErrServerRejected) {
		t.Fatalf("expected ErrServerRejected, got %v", err)
	}
	if state != StateGrantedUnsubscribed {
		t.Errorf("state = %q, want granted_unsubscribed", state)
	}
	if store.upserts != 0 {
		t.Errorf("nothing should be persisted for incomplete keys")
	}
}

func TestSubscribe_UpsertFailureRollsBack(t *testing.T) {
	store := newFakeSubStore()
	store.upsertErr = errors.New("db write failed")
	m, _ := NewManager(store, testVapidKey)

	state, err := m.Subscribe(1, PermissionGranted, validKeys())
	if !errors.Is(err, ErrServerRejected) {
		t.Fatalf("expected ErrServerRejected, got %v", err)
	}
	if state != StateGrantedUnsubscribed {
		t.Errorf("state = %q, want known non-subscribed state", state)
	}
	if store.disables != 1 {
		t.Errorf("expected a disable to revert to a known state, got %d", store.disables)
	}
}

func TestUnsubscribe_ClearsBothChannels(t *testing.T) {
	store := newFakeSubStore()
	store.subs[1] = &models.PushSubscription{
		UserID:          1,
		Enabled:         true,
		Endpoint:        "https://push.example.com/ep/1",
		Permission:      string(PermissionGranted),
		FallbackEnabled: true,
	}
	m, _ := NewManager(store, testVapidKey)

	state, err := m.Unsubscribe(1)
	if err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if state != StateGrantedUnsubscribed {
		t.Errorf("state = %q", state)
	}
	sub := store.subs[1]
	if sub.Enabled || sub.FallbackEnabled || sub.Endpoint != "" {
		t.Errorf("unsubscribe must mute both channels: %+v", sub)
	}
	if sub.Permission != string(PermissionGranted) {
		t.Errorf("unsubscribe must not touch browser permission")
	}
}

func TestUnsubscribe_FailureReportsStoredState(t *testing.T) {
	store := newFakeSubStore()
	store.subs[1] = &models.PushSubscription{
		UserID:     1,
		Enabled:    true,
		Endpoint:   "https://push.example.com/ep/1",
		Permission: string(PermissionGranted),
	}
	store.disableErr = errors.New("db write failed")
	m, _ := NewManager(store, testVapidKey)

	state, err := m.Unsubscribe(1)
	if !errors.Is(err, ErrServerRejected) {
		t.Fatalf("expected ErrServerRejected, got %v", err)
	}
	if state != StateGrantedSubscribed {
		t.Errorf("state = %q; a still-enabled row should report subscribed", state)
	}
}

func TestUnsubscribe_FailureForUnsubscribedUser(t *testing.T) {
	store := newFakeSubStore()
	store.disableErr = errors.New("db write failed")
	m, _ := NewManager(store, testVapidKey)

	state, err := m.Unsubscribe(1)
	if !errors.Is(err, ErrServerRejected) {
		t.Fatalf("expected ErrServerRejected, got %v", err)
	}
	if state == StateGrantedSubscribed {
		t.Errorf("a user with no subscription row must not be reported as subscribed")
	}
}

func TestStatus_DeniedOverridesStoredSubscription(t *testing.T) {
	store := newFakeSubStore()
	store.subs[1] = &models.PushSubscription{UserID: 1, Enabled: true, Permission: string(PermissionGranted)}
	m, _ := NewManager(store, testVapidKey)

	state, err := m.Status(1, PermissionDenied)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if state != StatePermissionDenied {
		t.Errorf("state = %q; a denied permission wins over the stored row", state)
	}
}

func TestRecordPermission_CreatesRowForNewUser(t *testing.T) {
	store := newFakeSubStore()
	m, _ := NewManager(store, testVapidKey)

	state, err := m.RecordPermission(7, PermissionDenied)
	if err != nil {
		t.Fatalf("RecordPermission: %v", err)
	}
	if state != StatePermissionDenied {
		t.Errorf("state = %q", state)
	}
	sub := store.subs[7]
	if sub == nil || sub.Permission != string(PermissionDenied) {
		t.Errorf("permission not persisted: %+v", sub)
	}
	if sub != nil && sub.Enabled {
		t.Errorf("recording a permission must not subscribe")
	}
}
