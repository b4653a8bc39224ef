package push

// Permission is the browser-reported notification permission.
type Permission string

const (
	PermissionDefault     Permission = "default"
	PermissionGranted     Permission = "granted"
	PermissionDenied      Permission = "denied"
	PermissionUnsupported Permission = "unsupported"
)

// State is the reconciled subscription state for one admin session.
type State string

const (
	StateUnsupported         State = "unsupported"
	StatePermissionDefault   State = "permission_default"
	StatePermissionDenied    State = "permission_denied"
	StateGrantedUnsubscribed State = "granted_unsubscribed"
	StateGrantedSubscribed   State = "granted_subscribed"
)

// EffectiveState reconciles the browser permission with the backend
// subscription flag. The browser is authoritative: a denied permission makes
// the subscription inactive no matter what the backend has stored. Only
// under granted permission does the backend flag decide.
func EffectiveState(perm Permission, backendSubscribed bool) State {
	switch perm {
	case PermissionUnsupported:
		return StateUnsupported
	case PermissionDenied:
		return StatePermissionDenied
	case PermissionGranted:
		if backendSubscribed {
			return StateGrantedSubscribed
		}
		return StateGrantedUnsubscribed
	default:
		return StatePermissionDefault
	}
}
