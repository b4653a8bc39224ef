package push

import (
	"errors"
	"testing"

	"clamio/internal/models"
)

type fakeSink struct {
	payloads []AlertPayload
	users    []uint
}

func (f *fakeSink) PushToUser(userID uint, payload interface{}) {
	f.users = append(f.users, userID)
	if p, ok := payload.(AlertPayload); ok {
		f.payloads = append(f.payloads, p)
	}
}

func TestFallbackEnable_RequiresGrantedPermission(t *testing.T) {
	store := newFakeSubStore()
	f := NewFallback(store, &fakeSink{})

	for _, perm := range []Permission{PermissionDefault, PermissionDenied, PermissionUnsupported} {
		ok, err := f.Enable(1, perm)
		if !errors.Is(err, ErrPermissionDenied) {
			t.Errorf("Enable(%q): expected ErrPermissionDenied, got %v", perm, err)
		}
		if ok {
			t.Errorf("Enable(%q) reported enabled", perm)
		}
	}
	if store.calls != 0 {
		t.Errorf("store touched before the permission check")
	}
}

func TestFallbackEnable_CreatesRowWhenMissing(t *testing.T) {
	store := newFakeSubStore()
	f := NewFallback(store, &fakeSink{})

	ok, err := f.Enable(1, PermissionGranted)
	if err != nil || !ok {
		t.Fatalf("Enable: ok=%v err=%v", ok, err)
	}
	sub := store.subs[1]
	if sub == nil || !sub.FallbackEnabled {
		t.Fatalf("fallback flag not persisted: %+v", sub)
	}
	if sub.Enabled {
		t.Errorf("enabling the fallback must not register a push subscription")
	}
}

func TestFallbackDisable_LeavesPermissionIntact(t *testing.T) {
	store := newFakeSubStore()
	store.subs[1] = &models.PushSubscription{UserID: 1, Permission: string(PermissionGranted), FallbackEnabled: true}
	f := NewFallback(store, &fakeSink{})

	if err := f.Disable(1); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	sub := store.subs[1]
	if sub.FallbackEnabled {
		t.Errorf("flag still set after disable")
	}
	if sub.Permission != string(PermissionGranted) {
		t.Errorf("disable must not touch the browser permission")
	}
}

func TestFallbackShow_DeliversWhenEnabled(t *testing.T) {
	store := newFakeSubStore()
	store.subs[1] = &models.PushSubscription{UserID: 1, Permission: string(PermissionGranted), FallbackEnabled: true}
	sink := &fakeSink{}
	f := NewFallback(store, sink)

	n := &models.Notification{Title: "Order Claim Failed", Message: "boom", Severity: "critical"}
	n.ID = 42
	if err := f.Show(1, n); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if len(sink.payloads) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(sink.payloads))
	}
	p := sink.payloads[0]
	if p.NotificationID != 42 || p.Title != "Order Claim Failed" {
		t.Errorf("payload = %+v", p)
	}
	if p.AutoDismissMs != AutoDismissMillis {
		t.Errorf("auto dismiss = %d, want %d", p.AutoDismissMs, AutoDismissMillis)
	}
	if p.ClickAction != ClickActionFocus {
		t.Errorf("click action = %q, want %q", p.ClickAction, ClickActionFocus)
	}
}

func TestFallbackShow_GatedOnPermissionAndFlag(t *testing.T) {
	tests := []struct {
		name string
		sub  *models.PushSubscription
	}{
		{"no row", nil},
		{"flag off", &models.PushSubscription{UserID: 1, Permission: string(PermissionGranted)}},
		{"denied permission", &models.PushSubscription{UserID: 1, Permission: string(PermissionDenied), FallbackEnabled: true}},
		{"undecided permission", &models.PushSubscription{UserID: 1, Permission: string(PermissionDefault), FallbackEnabled: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeSubStore()
			if tt.sub != nil {
				store.subs[1] = tt.sub
			}
			sink := &fakeSink{}
			f := NewFallback(store, sink)
			if err := f.Show(1, &models.Notification{Title: "x"}); err != nil {
				t.Fatalf("Show: %v", err)
			}
			if len(sink.users) != 0 {
				t.Errorf("alert delivered despite gating")
			}
		})
	}
}
