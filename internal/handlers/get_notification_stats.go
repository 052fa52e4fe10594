package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetNotificationStats returns fan-out statistics for the last week plus the
// caller's own registered-device count.
func (ns *NotificationsHandler) GetNotificationStats(c *gin.Context) {
	shortIDVal, exists := c.Get("short_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	shortID := fmt.Sprintf("%v", shortIDVal)

	ctx := context.Background()

	// Sum the per-day delivery counters written by the trigger
	var delivered, failed int64
	for i := 0; i < 7; i++ {
		day := time.Now().UTC().AddDate(0, 0, -i).Format("2006-01-02")
		if v, err := ns.redisClient.Get(ctx, fmt.Sprintf("notification_delivered:%s", day)).Int64(); err == nil {
			delivered += v
		}
		if v, err := ns.redisClient.Get(ctx, fmt.Sprintf("notification_failed:%s", day)).Int64(); err == nil {
			failed += v
		}
	}

	// Count this user's registered devices
	var deviceCount int
	query := `SELECT COUNT(*) FROM push_subscriptions WHERE owner_short_id = $1`
	if err := ns.db.QueryRow(ctx, query, shortID).Scan(&deviceCount); err != nil {
		ns.logError(c, err, "failed to count registered devices")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read subscription stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"delivered_this_week": delivered,
		"failed_this_week":    failed,
		"registered_devices":  deviceCount,
	})
}
