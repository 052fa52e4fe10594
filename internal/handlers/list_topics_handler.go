package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	topicsmodels "jp.promiseasync.commboard/internal/models/topics"
)

// ListTopics returns all topics, most recently active first
func (h *TopicsHandler) ListTopics(c *gin.Context) {
	ctx := context.Background()

	// Serve from cache when possible
	if cached, err := h.redisClient.Get(ctx, topicListCacheKey).Result(); err == nil {
		var resp topicsmodels.ListTopicsResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	query := `
		SELECT id, title, created_by, created_at, last_activity_at
		FROM topics
		ORDER BY last_activity_at DESC`
	rows, err := h.postgres.Query(ctx, query)
	if err != nil {
		h.logError(c, err, "failed to list topics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list topics"})
		return
	}
	defer rows.Close()

	topics := []topicsmodels.Topic{}
	for rows.Next() {
		var t topicsmodels.Topic
		if err := rows.Scan(&t.ID, &t.Title, &t.CreatedBy, &t.CreatedAt, &t.LastActivityAt); err != nil {
			h.logError(c, err, "failed to scan topic row")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list topics"})
			return
		}
		topics = append(topics, t)
	}

	resp := topicsmodels.ListTopicsResponse{Topics: topics, Total: len(topics)}

	if respJSON, err := json.Marshal(resp); err == nil {
		h.redisClient.Set(ctx, topicListCacheKey, respJSON, time.Minute)
	}

	c.JSON(http.StatusOK, resp)
}
