package push

import "testing"

func TestEffectiveState(t *testing.T) {
	tests := []struct {
		name       string
		perm       Permission
		subscribed bool
		want       State
	}{
		{"unsupported", PermissionUnsupported, false, StateUnsupported},
		{"unsupported ignores backend", PermissionUnsupported, true, StateUnsupported},
		{"default", PermissionDefault, false, StatePermissionDefault},
		{"default ignores backend", PermissionDefault, true, StatePermissionDefault},
		{"denied", PermissionDenied, false, StatePermissionDenied},
		{"denied overrides backend", PermissionDenied, true, StatePermissionDenied},
		{"granted unsubscribed", PermissionGranted, false, StateGrantedUnsubscribed},
		{"granted subscribed", PermissionGranted, true, StateGrantedSubscribed},
		{"unknown value acts as default", Permission("weird"), true, StatePermissionDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveState(tt.perm, tt.subscribed)
			if got != tt.want {
				t.Errorf("EffectiveState(%q, %v) = %q, want %q", tt.perm, tt.subscribed, got, tt.want)
			}
		})
	}
}
