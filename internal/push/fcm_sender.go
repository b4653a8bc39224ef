package push

import (
	"context"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMSender delivers alerts through Firebase Cloud Messaging. The wire
// mechanics of push delivery live entirely behind this adapter.
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender creates the sender. Returns a nil Sender if Firebase is not
// configured, so callers and the dispatcher see an absent sender rather
// than a typed-nil pointer boxed in the interface.
func NewFCMSender(serviceAccountPath string) Sender {
	if serviceAccountPath == "" {
		return nil
	}
	ctx := context.Background()
	opt := option.WithCredentialsFile(serviceAccountPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		log.Printf("[FCM] Failed to init Firebase app: %v", err)
		return nil
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("[FCM] Failed to get Messaging client: %v", err)
		return nil
	}
	return &FCMSender{client: client}
}

// Send pushes one alert to the registered endpoint token.
func (s *FCMSender) Send(ctx context.Context, endpoint, title, body string, data map[string]string) error {
	if s == nil || endpoint == "" {
		return nil
	}
	msg := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Token: endpoint,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title:              title,
				Body:               body,
				RequireInteraction: false,
			},
		},
	}
	_, err := s.client.Send(ctx, msg)
	if err != nil {
		log.Printf("[FCM] Send error: %v", err)
		return err
	}
	return nil
}
