package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	filesmodels "jp.promiseasync.commboard/internal/models/files"
)

// RemoveFile deletes an attachment record and, for uploaded files, the
// stored file behind it. Only the uploader may remove it.
func (h *FilesHandler) RemoveFile(c *gin.Context) {
	var req filesmodels.RemoveFileRequest
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
		c.JSON(http.StatusBadRequest, gin.H{"error": "File id is required"})
		return
	}

	ctx := context.Background()

	var storedName string
	query := `SELECT COALESCE(stored_name, '') FROM topic_files WHERE id = $1 AND created_by = $2`
	if err := h.postgres.QueryRow(ctx, query, req.ID, shortID).Scan(&storedName); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found or not owned by you"})
		return
	}

	// Remove the stored file first; the record stays if the remote side fails
	if storedName != "" && h.remote != nil {
		if err := h.remote.Delete(ctx, storedName); err != nil {
			h.logError(c, err, "failed to delete stored file", "stored_name", storedName)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete stored file"})
			return
		}
	}

	if _, err := h.postgres.Exec(ctx, `DELETE FROM topic_files WHERE id = $1`, req.ID); err != nil {
		h.logError(c, err, "failed to delete file record", "file_id", req.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
