package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	commentsmodels "jp.promiseasync.commboard/internal/models/comments"
)

// UpdateComment edits a comment's body. Only its author may edit it.
func (h *TopicsHandler) UpdateComment(c *gin.Context) {
	var req commentsmodels.UpdateCommentRequest
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
	if req.ID == "" || body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment id and body are required"})
		return
	}

	ctx := context.Background()
	query := `
		UPDATE topic_comments
		SET body = $1, updated_at = NOW()
		WHERE id = $2 AND created_by = $3`
	tag, err := h.postgres.Exec(ctx, query, body, req.ID, shortID)
	if err != nil {
		h.logError(c, err, "failed to update comment", "comment_id", req.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found or not owned by you"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
