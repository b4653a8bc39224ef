package push

import (
	"context"
	"errors"
	"testing"

	"clamio/internal/models"
)

type fakeSender struct {
	sent []string // endpoints
	data []map[string]string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, endpoint, title, body string, data map[string]string) error {
	f.sent = append(f.sent, endpoint)
	f.data = append(f.data, data)
	return f.err
}

func TestDeliver_PushChannelForRegisteredEndpoint(t *testing.T) {
	store := newFakeSubStore()
	store.subs[1] = &models.PushSubscription{
		UserID:     1,
		Enabled:    true,
		Endpoint:   "https://push.example.com/ep/1",
		Permission: string(PermissionGranted),
	}
	sender := &fakeSender{}
	sink := &fakeSink{}
	d := NewDispatcher(store, sender, NewFallback(store, sink))

	n := &models.Notification{Title: "Order Claim Failed", Message: "boom", Severity: "critical", Type: "order-claim-error"}
	n.ID = 9
	d.Deliver(n)

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 push, got %d", len(sender.sent))
	}
	if sender.data[0]["notification_id"] != "9" {
		t.Errorf("notification_id = %q", sender.data[0]["notification_id"])
	}
	if len(sink.users) != 0 {
		t.Errorf("fallback fired alongside push; channels are exclusive per event")
	}
}

func TestDeliver_FallbackWhenNoEndpoint(t *testing.T) {
	store := newFakeSubStore()
	store.subs[1] = &models.PushSubscription{
		UserID:          1,
		Enabled:         true,
		Permission:      string(PermissionGranted),
		FallbackEnabled: true,
	}
	sender := &fakeSender{}
	sink := &fakeSink{}
	d := NewDispatcher(store, sender, NewFallback(store, sink))

	d.Deliver(&models.Notification{Title: "x"})

	if len(sender.sent) != 0 {
		t.Errorf("push sent without a registered endpoint")
	}
	if len(sink.users) != 1 {
		t.Fatalf("expected 1 fallback alert, got %d", len(sink.users))
	}
}

func TestDeliver_FallbackWhenSenderUnavailable(t *testing.T) {
	store := newFakeSubStore()
	store.subs[1] = &models.PushSubscription{
		UserID:          1,
		Enabled:         true,
		Endpoint:        "https://push.example.com/ep/1",
		Permission:      string(PermissionGranted),
		FallbackEnabled: true,
	}
	sink := &fakeSink{}
	d := NewDispatcher(store, nil, NewFallback(store, sink))

	d.Deliver(&models.Notification{Title: "x"})

	if len(sink.users) != 1 {
		t.Fatalf("expected fallback delivery when no sender is configured, got %d", len(sink.users))
	}
}

func TestDeliver_UnconfiguredFCMSenderFallsBack(t *testing.T) {
	// Wired the way the router does it: the sender comes straight from
	// NewFCMSender, which returns a nil Sender when unconfigured. A
	// subscriber with a registered endpoint must still get the alert over
	// the fallback channel, not lose it to a boxed nil pointer.
	store := newFakeSubStore()
	store.subs[1] = &models.PushSubscription{
		UserID:          1,
		Enabled:         true,
		Endpoint:        "https://push.example.com/ep/1",
		Permission:      string(PermissionGranted),
		FallbackEnabled: true,
	}
	sink := &fakeSink{}
	d := NewDispatcher(store, NewFCMSender(""), NewFallback(store, sink))

	d.Deliver(&models.Notification{Title: "x"})

	if len(sink.users) != 1 {
		t.Fatalf("fallback deliveries = %d, want 1", len(sink.users))
	}
}

func TestDeliver_DeniedPermissionSuppressesBothChannels(t *testing.T) {
	store := newFakeSubStore()
	store.subs[1] = &models.PushSubscription{
		UserID:          1,
		Enabled:         true,
		Endpoint:        "https://push.example.com/ep/1",
		Permission:      string(PermissionDenied),
		FallbackEnabled: true,
	}
	sender := &fakeSender{}
	sink := &fakeSink{}
	d := NewDispatcher(store, sender, NewFallback(store, sink))

	d.Deliver(&models.Notification{Title: "x"})

	if len(sender.sent) != 0 || len(sink.users) != 0 {
		t.Errorf("denied permission must mute delivery: push=%d fallback=%d", len(sender.sent), len(sink.users))
	}
}

func TestDeliver_FansOutPerSubscriber(t *testing.T) {
	store := newFakeSubStore()
	store.subs[1] = &models.PushSubscription{UserID: 1, Enabled: true, Endpoint: "https://push.example.com/ep/1", Permission: string(PermissionGranted)}
	store.subs[2] = &models.PushSubscription{UserID: 2, Enabled: true, Permission: string(PermissionGranted), FallbackEnabled: true}
	sender := &fakeSender{}
	sink := &fakeSink{}
	d := NewDispatcher(store, sender, NewFallback(store, sink))

	d.Deliver(&models.Notification{Title: "x"})

	if len(sender.sent) != 1 {
		t.Errorf("expected 1 push, got %d", len(sender.sent))
	}
	if len(sink.users) != 1 || sink.users[0] != 2 {
		t.Errorf("expected fallback for user 2, got %v", sink.users)
	}
}

func TestDeliver_SendFailureDoesNotStopFanOut(t *testing.T) {
	store := newFakeSubStore()
	store.subs[1] = &models.PushSubscription{UserID: 1, Enabled: true, Endpoint: "https://push.example.com/ep/1", Permission: string(PermissionGranted)}
	store.subs[2] = &models.PushSubscription{UserID: 2, Enabled: true, Endpoint: "https://push.example.com/ep/2", Permission: string(PermissionGranted)}
	sender := &fakeSender{err: errors.New("push network down")}
	d := NewDispatcher(store, sender, nil)

	d.Deliver(&models.Notification{Title: "x"})

	if len(sender.sent) != 2 {
		t.Errorf("expected both endpoints attempted, got %d", len(sender.sent))
	}
}

func TestDeliver_ListFailureIsSwallowed(t *testing.T) {
	store := newFakeSubStore()
	store.listErr = errors.New("db gone")
	d := NewDispatcher(store, &fakeSender{}, nil)
	d.Deliver(&models.Notification{Title: "x"}) // must not panic
}
