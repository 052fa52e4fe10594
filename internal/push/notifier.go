package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// Result reports how a fan-out call settled.
type Result struct {
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

// Notifier fans one notification payload out to every registered
// subscription, pruning subscriptions whose endpoints are permanently gone.
type Notifier struct {
	store  SubscriptionStore
	sender Sender
	cfg    Config
	logger *zap.SugaredLogger
}

// NewNotifier creates a fan-out notifier over the given store and sender.
func NewNotifier(store SubscriptionStore, sender Sender, cfg Config, logger *zap.SugaredLogger) *Notifier {
	return &Notifier{
		store:  store,
		sender: sender,
		cfg:    cfg,
		logger: logger,
	}
}

// NotifyAll delivers the payload to every subscription concurrently and
// settles every attempt before returning. Individual delivery failures are
// absorbed into the result counts; only a store read failure or missing
// delivery credentials fail the call as a whole. Attempts that come back
// with 404 or 410 delete their subscription row as opportunistic cleanup.
func (n *Notifier) NotifyAll(ctx context.Context, payload Payload) (Result, error) {
	if err := n.cfg.Validate(); err != nil {
		return Result{}, err
	}

	subs, err := n.store.ListAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read subscription store: %w", err)
	}
	if len(subs) == 0 {
		return Result{}, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("failed to serialize notification payload: %w", err)
	}

	res := Result{Total: len(subs)}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, sub := range subs {
		wg.Add(1)
		go func(sub Subscription) {
			defer wg.Done()

			status, err := n.sender.Send(ctx, sub, body)
			if err == nil {
				mu.Lock()
				res.Delivered++
				mu.Unlock()
				return
			}

			mu.Lock()
			res.Failed++
			mu.Unlock()

			if status == http.StatusNotFound || status == http.StatusGone {
				// The endpoint will never accept deliveries again; drop the row.
				if derr := n.store.Delete(ctx, sub.ID); derr != nil {
					n.logger.Errorw("failed to remove dead subscription",
						"subscription_id", sub.ID,
						"endpoint", shortEndpoint(sub.Endpoint),
						"error", derr,
					)
					return
				}
				n.logger.Infow("removed dead subscription",
					"subscription_id", sub.ID,
					"status", status,
				)
				return
			}

			n.logger.Warnw("push delivery failed",
				"subscription_id", sub.ID,
				"endpoint", shortEndpoint(sub.Endpoint),
				"status", status,
				"error", err,
			)
		}(sub)
	}
	wg.Wait()

	return res, nil
}

// shortEndpoint trims endpoint URLs for logging; they are long and opaque.
func shortEndpoint(endpoint string) string {
	if len(endpoint) > 50 {
		return endpoint[:50]
	}
	return endpoint
}
