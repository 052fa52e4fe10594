package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	commentsmodels "jp.promiseasync.commboard/internal/models/comments"
	"jp.promiseasync.commboard/internal/push"
)

// AddComment posts a comment inside a topic and bumps the topic's activity
func (h *TopicsHandler) AddComment(c *gin.Context) {
	var req commentsmodels.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	shortID, ok := shortIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	body := strings.TrimSpace(req.Body)
	if req.TopicID == "" || body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic id and body are required"})
		return
	}

	ctx := context.Background()

	var topicTitle string
	if err := h.postgres.QueryRow(ctx, `SELECT title FROM topics WHERE id = $1`, req.TopicID).Scan(&topicTitle); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
		return
	}

	commentID := uuid.New().String()
	now := time.Now()

	tx, err := h.postgres.Begin(ctx)
	if err != nil {
		h.logError(c, err, "failed to start transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save comment"})
		return
	}
	defer tx.Rollback(ctx)

	commentQuery := `
		INSERT INTO topic_comments (id, topic_id, body, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`
	if _, err := tx.Exec(ctx, commentQuery, commentID, req.TopicID, body, shortID, now); err != nil {
		h.logError(c, err, "failed to insert comment", "topic_id", req.TopicID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save comment"})
		return
	}

	if _, err := tx.Exec(ctx, `UPDATE topics SET last_activity_at = $1 WHERE id = $2`, now, req.TopicID); err != nil {
		h.logError(c, err, "failed to bump topic activity", "topic_id", req.TopicID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save comment"})
		return
	}

	if err := tx.Commit(ctx); err != nil {
		h.logError(c, err, "failed to commit comment", "topic_id", req.TopicID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save comment"})
		return
	}

	h.redisClient.Del(ctx, topicListCacheKey)

	// Comment is committed; fan-out runs detached and cannot fail this request
	h.trigger.Fire(push.TriggerRequest{
		Event:       push.EventCommentCreated,
		TopicID:     req.TopicID,
		TopicTitle:  topicTitle,
		CommentID:   commentID,
		CommentBody: body,
		CommentedBy: shortID,
	})

	c.JSON(http.StatusOK, commentsmodels.AddCommentResponse{
		Comment: commentsmodels.Comment{
			ID:        commentID,
			TopicID:   req.TopicID,
			Body:      body,
			CreatedBy: shortID,
			CreatedAt: now,
			UpdatedAt: now,
		},
	})
}
