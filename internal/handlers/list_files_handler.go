package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	filesmodels "jp.promiseasync.commboard/internal/models/files"
)

// ListFiles returns a topic's attachments, newest first
func (h *FilesHandler) ListFiles(c *gin.Context) {
	var req filesmodels.ListFilesRequest
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
		SELECT id, topic_id, file_name, file_url, COALESCE(stored_name, ''), created_by, created_at
		FROM topic_files
		WHERE topic_id = $1
		ORDER BY created_at DESC`
	rows, err := h.postgres.Query(ctx, query, req.TopicID)
	if err != nil {
		h.logError(c, err, "failed to list files", "topic_id", req.TopicID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files"})
		return
	}
	defer rows.Close()

	files := []filesmodels.File{}
	for rows.Next() {
		var f filesmodels.File
		if err := rows.Scan(&f.ID, &f.TopicID, &f.FileName, &f.FileURL, &f.StoredName, &f.CreatedBy, &f.CreatedAt); err != nil {
			h.logError(c, err, "failed to scan file row")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files"})
			return
		}
		files = append(files, f)
	}

	c.JSON(http.StatusOK, filesmodels.ListFilesResponse{Files: files, Total: len(files)})
}
