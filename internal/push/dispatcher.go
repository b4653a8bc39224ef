package push

import (
	"context"
	"log"
	"strconv"
	"time"

	"clamio/internal/models"
)

// Sender is the external push network boundary. Implemented by the FCM
// adapter; nil-safe fakes stand in for tests.
type Sender interface {
	Send(ctx context.Context, endpoint, title, body string, data map[string]string) error
}

// Dispatcher fans one notification event out to every subscribed admin.
// Per event each admin gets exactly one channel: the push endpoint when one
// is registered and enabled, otherwise the in-app fallback. A denied
// browser permission suppresses both, whatever the stored flags say.
type Dispatcher struct {
	store    SubscriptionStore
	sender   Sender
	fallback *Fallback
}

func NewDispatcher(store SubscriptionStore, sender Sender, fallback *Fallback) *Dispatcher {
	return &Dispatcher{store: store, sender: sender, fallback: fallback}
}

func (d *Dispatcher) Deliver(n *models.Notification) {
	subs, err := d.store.ListActive()
	if err != nil {
		log.Printf("[PUSH] list subscriptions: %v", err)
		return
	}
	for _, sub := range subs {
		if sub.Permission == string(PermissionDenied) {
			continue
		}
		if sub.Enabled && sub.Endpoint != "" && d.sender != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := d.sender.Send(ctx, sub.Endpoint, n.Title, n.Message, map[string]string{
				"notification_id": strconv.FormatUint(uint64(n.ID), 10),
				"severity":        n.Severity,
				"type":            n.Type,
			})
			cancel()
			if err != nil {
				log.Printf("[PUSH] send to user %d: %v", sub.UserID, err)
			}
			continue
		}
		if sub.FallbackEnabled && d.fallback != nil {
			if err := d.fallback.Show(sub.UserID, n); err != nil {
				log.Printf("[PUSH] fallback for user %d: %v", sub.UserID, err)
			}
		}
	}
}
