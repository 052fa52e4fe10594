package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jp.promiseasync.commboard/internal/push"
)

// NotificationTrigger dispatches fan-out as a detached task after a board
// action has already committed. Errors end up in the log, never in the
// triggering request's response: the user's comment or file is saved whether
// or not anyone could be notified about it.
type NotificationTrigger struct {
	notifier    *push.Notifier
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

func NewNotificationTrigger(notifier *push.Notifier, redisClient *redis.Client, logger *zap.SugaredLogger) *NotificationTrigger {
	return &NotificationTrigger{
		notifier:    notifier,
		redisClient: redisClient,
		logger:      logger,
	}
}

// Fire runs the fan-out in the background and returns immediately.
func (t *NotificationTrigger) Fire(req push.TriggerRequest) {
	go t.run(req)
}

func (t *NotificationTrigger) run(req push.TriggerRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := t.notifier.NotifyAll(ctx, push.BuildPayload(req))
	if err != nil {
		t.logger.Errorw("notification fan-out failed",
			"event", req.Event,
			"error", err,
		)
		return
	}

	t.RecordResult(ctx, res)
	t.logger.Infow("notification fan-out settled",
		"event", req.Event,
		"delivered", res.Delivered,
		"failed", res.Failed,
		"total", res.Total,
	)
}

// RecordResult tracks per-day delivery counters in Redis for the stats
// endpoint. Counting is best-effort.
func (t *NotificationTrigger) RecordResult(ctx context.Context, res push.Result) {
	if t.redisClient == nil || res.Total == 0 {
		return
	}

	day := time.Now().UTC().Format("2006-01-02")
	deliveredKey := fmt.Sprintf("notification_delivered:%s", day)
	failedKey := fmt.Sprintf("notification_failed:%s", day)

	pipe := t.redisClient.Pipeline()
	pipe.IncrBy(ctx, deliveredKey, int64(res.Delivered))
	pipe.IncrBy(ctx, failedKey, int64(res.Failed))
	pipe.Expire(ctx, deliveredKey, 7*24*time.Hour)
	pipe.Expire(ctx, failedKey, 7*24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		t.logger.Warnw("failed to record notification counters", "error", err)
	}
}
