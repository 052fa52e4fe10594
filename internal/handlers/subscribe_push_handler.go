package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	subscribemodels "jp.promiseasync.commboard/internal/models/subscribe"
	"jp.promiseasync.commboard/internal/push"
)

// Subscribe registers a device's push subscription, keyed by endpoint so
// re-registration from the same device updates rather than duplicates.
func (ns *NotificationsHandler) Subscribe(c *gin.Context) {
	var req subscribemodels.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	// Reject before any store access
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription payload"})
		return
	}

	sub := push.Subscription{
		Endpoint:     req.Endpoint,
		P256dh:       req.Keys.P256dh,
		Auth:         req.Keys.Auth,
		OwnerShortID: req.OwnerShortID(),
	}

	// A registration from an authenticated session attributes the device to
	// that user even when the body carries no owner.
	if sub.OwnerShortID == "" {
		if shortID, ok := c.Get("short_id"); ok {
			if s, ok := shortID.(string); ok {
				sub.OwnerShortID = s
			}
		}
	}

	if err := ns.store.Upsert(context.Background(), sub); err != nil {
		ns.logError(c, err, "failed to save push subscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
