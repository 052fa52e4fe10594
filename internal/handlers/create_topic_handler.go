package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	topicsmodels "jp.promiseasync.commboard/internal/models/topics"
	"jp.promiseasync.commboard/internal/push"
)

// CreateTopic handles creation of new discussion topics
func (h *TopicsHandler) CreateTopic(c *gin.Context) {
	var req topicsmodels.CreateTopicRequest
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
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	ctx := context.Background()
	topicID := uuid.New().String()
	now := time.Now()

	query := `
		INSERT INTO topics (id, title, created_by, created_at, last_activity_at)
		VALUES ($1, $2, $3, $4, $4)`
	if _, err := h.postgres.Exec(ctx, query, topicID, title, shortID, now); err != nil {
		h.logError(c, err, "failed to create topic")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create topic"})
		return
	}

	h.redisClient.Del(ctx, topicListCacheKey)

	// The topic is saved; notification delivery cannot fail this request
	h.trigger.Fire(push.TriggerRequest{
		Event:      push.EventTopicCreated,
		TopicID:    topicID,
		TopicTitle: title,
		CreatedBy:  shortID,
	})

	c.JSON(http.StatusOK, topicsmodels.CreateTopicResponse{
		Topic: topicsmodels.Topic{
			ID:             topicID,
			Title:          title,
			CreatedBy:      shortID,
			CreatedAt:      now,
			LastActivityAt: now,
		},
	})
}
