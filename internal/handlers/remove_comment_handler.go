package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	commentsmodels "jp.promiseasync.commboard/internal/models/comments"
)

// RemoveComment deletes a comment. Only its author may delete it.
func (h *TopicsHandler) RemoveComment(c *gin.Context) {
	var req commentsmodels.RemoveCommentRequest
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
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment id is required"})
		return
	}

	ctx := context.Background()
	tag, err := h.postgres.Exec(ctx, `DELETE FROM topic_comments WHERE id = $1 AND created_by = $2`, req.ID, shortID)
	if err != nil {
		h.logError(c, err, "failed to delete comment", "comment_id", req.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found or not owned by you"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
