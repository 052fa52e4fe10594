package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	topicsmodels "jp.promiseasync.commboard/internal/models/topics"
)

// DeleteTopic removes a topic and, through cascade, its comments and file
// records. Only its creator may delete it.
func (h *TopicsHandler) DeleteTopic(c *gin.Context) {
	var req topicsmodels.DeleteTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	shortID, ok := shortIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic id is required"})
		return
	}

	ctx := context.Background()
	tag, err := h.postgres.Exec(ctx, `DELETE FROM topics WHERE id = $1 AND created_by = $2`, req.ID, shortID)
	if err != nil {
		h.logError(c, err, "failed to delete topic", "topic_id", req.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete topic"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found or not owned by you"})
		return
	}

	h.redisClient.Del(ctx, topicListCacheKey)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
