package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	topicsmodels "jp.promiseasync.commboard/internal/models/topics"
)

// UpdateTopic renames a topic. Only its creator may rename it.
func (h *TopicsHandler) UpdateTopic(c *gin.Context) {
	var req topicsmodels.UpdateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	shortID, ok := shortIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	title := strings.TrimSpace(req.Title)
	if req.ID == "" || title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic id and title are required"})
		return
	}

	ctx := context.Background()
	query := `
		UPDATE topics
		SET title = $1, last_activity_at = NOW()
		WHERE id = $2 AND created_by = $3`
	tag, err := h.postgres.Exec(ctx, query, title, req.ID, shortID)
	if err != nil {
		h.logError(c, err, "failed to update topic", "topic_id", req.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update topic"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found or not owned by you"})
		return
	}

	h.redisClient.Del(ctx, topicListCacheKey)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
