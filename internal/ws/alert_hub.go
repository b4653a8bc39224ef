package ws

// AlertHub carries in-app alerts to connected admin sessions. It is the
// transport behind the fallback notification channel and also pushes triage
// refresh hints so open dashboards reload their lists.
type AlertHub struct {
	*Hub
}

func NewAlertHub() *AlertHub {
	return &AlertHub{Hub: NewHub()}
}

// PushToUser sends one payload to every live session of the user.
func (a *AlertHub) PushToUser(userID uint, payload interface{}) {
	a.BroadcastToUser(userID, payload)
}

// NotifyRefresh tells all connected sessions that notification data changed.
func (a *AlertHub) NotifyRefresh() {
	a.BroadcastAll(map[string]interface{}{"kind": "refresh"})
}
