package handlers

import (
	"context"
	"fmt"
	"os"
	"time"

	"jp.promiseasync.commboard/internal/push"
)

// StartDigestScheduler schedules the daily activity digest. The schedule is
// taken from DIGEST_CRON (standard cron spec, UTC), defaulting to 21:00.
func (ns *NotificationsHandler) StartDigestScheduler() error {
	spec := os.Getenv("DIGEST_CRON")
	if spec == "" {
		spec = "0 21 * * *"
	}

	if _, err := ns.cronManager.AddFunc(spec, ns.sendDailyDigest); err != nil {
		return fmt.Errorf("failed to schedule daily digest: %w", err)
	}

	ns.cronManager.Start()
	return nil
}

// StopDigestScheduler stops the cron manager and waits for a running job.
func (ns *NotificationsHandler) StopDigestScheduler() {
	if ns.cronManager != nil {
		<-ns.cronManager.Stop().Done()
	}
}

// sendDailyDigest fans out one summary notification covering the last 24
// hours of board activity. Days with no activity send nothing.
func (ns *NotificationsHandler) sendDailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	since := time.Now().Add(-24 * time.Hour)

	var commentCount, topicCount int
	query := `
		SELECT
			(SELECT COUNT(*) FROM topic_comments WHERE created_at >= $1),
			(SELECT COUNT(DISTINCT topic_id) FROM topic_comments WHERE created_at >= $1)`
	if err := ns.db.QueryRow(ctx, query, since).Scan(&commentCount, &topicCount); err != nil {
		ns.logger.Errorw("failed to count digest activity", "error", err)
		return
	}
	if commentCount == 0 {
		return
	}

	payload := push.Payload{
		Title:   "Today on the board",
		Message: fmt.Sprintf("%d new comments in %d topics", commentCount, topicCount),
		URL:     push.DefaultURL,
	}

	res, err := ns.notifier.NotifyAll(ctx, payload)
	if err != nil {
		ns.logger.Errorw("daily digest fan-out failed", "error", err)
		return
	}

	ns.trigger.RecordResult(ctx, res)
	ns.logger.Infow("daily digest sent",
		"comments", commentCount,
		"topics", topicCount,
		"delivered", res.Delivered,
		"failed", res.Failed,
		"total", res.Total,
	)
}
