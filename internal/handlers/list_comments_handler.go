package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	commentsmodels "jp.promiseasync.commboard/internal/models/comments"
)

// ListComments returns a topic's comments in posting order
func (h *TopicsHandler) ListComments(c *gin.Context) {
	var req commentsmodels.ListCommentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.TopicID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic id is required"})
		return
	}

	ctx := context.Background()
	query := `
		SELECT id, topic_id, body, created_by, created_at, updated_at
		FROM topic_comments
		WHERE topic_id = $1
		ORDER BY created_at ASC`
	rows, err := h.postgres.Query(ctx, query, req.TopicID)
	if err != nil {
		h.logError(c, err, "failed to list comments", "topic_id", req.TopicID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list comments"})
		return
	}
	defer rows.Close()

	comments := []commentsmodels.Comment{}
	for rows.Next() {
		var cm commentsmodels.Comment
		if err := rows.Scan(&cm.ID, &cm.TopicID, &cm.Body, &cm.CreatedBy, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
			h.logError(c, err, "failed to scan comment row")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list comments"})
			return
		}
		comments = append(comments, cm)
	}

	c.JSON(http.StatusOK, commentsmodels.ListCommentsResponse{Comments: comments, Total: len(comments)})
}
