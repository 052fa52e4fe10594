package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jp.promiseasync.commboard/internal/push"
)

// SendNotification is the fan-out trigger entry point. A recognized event
// tag derives title/message from templates; otherwise the literal fields
// are used. The response reports how every delivery attempt settled.
func (ns *NotificationsHandler) SendNotification(c *gin.Context) {
	// A missing or malformed body falls back to the default payload, the
	// same way an unrecognized event tag does.
	var req push.TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = push.TriggerRequest{}
	}

	res, err := ns.notifier.NotifyAll(context.Background(), push.BuildPayload(req))
	if err != nil {
		ns.logError(c, err, "notification fan-out failed", "event", req.Event)
		if errors.Is(err, push.ErrMissingVAPIDConfig) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Push delivery is not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read subscriptions"})
		return
	}

	ns.trigger.RecordResult(context.Background(), res)

	c.JSON(http.StatusOK, res)
}

// GetVAPIDPublicKey exposes the public delivery key clients need when
// subscribing with the browser's push capability.
func (ns *NotificationsHandler) GetVAPIDPublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publicKey": ns.publicKey})
}
