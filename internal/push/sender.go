package push

import (
	"context"
	"fmt"
	"io"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// Sender delivers one serialized payload to one subscription's endpoint.
// The returned status code is the push service's response status when a
// response was received, 0 otherwise.
type Sender interface {
	Send(ctx context.Context, sub Subscription, payload []byte) (int, error)
}

// WebPushSender delivers notifications over the Web Push protocol with
// VAPID authentication.
type WebPushSender struct {
	cfg Config
}

// NewWebPushSender creates a sender using the given delivery credentials.
func NewWebPushSender(cfg Config) *WebPushSender {
	return &WebPushSender{cfg: cfg}
}

func (s *WebPushSender) Send(ctx context.Context, sub Subscription, payload []byte) (int, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.cfg.Subject,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             s.cfg.TTL,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to send push notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, fmt.Errorf("push service returned status %d: %s", resp.StatusCode, string(body))
	}
	return resp.StatusCode, nil
}
