package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	filesmodels "jp.promiseasync.commboard/internal/models/files"
)

// UploadFile accepts a multipart file, forwards it to the external storage
// endpoint, and records the resulting attachment on the topic.
func (h *FilesHandler) UploadFile(c *gin.Context) {
	shortID, ok := shortIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if h.remote == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File storage is not configured"})
		return
	}

	topicID := c.PostForm("topic_id")
	if topicID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic id is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		h.logError(c, err, "failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	ctx := context.Background()
	storedName, err := h.remote.Upload(ctx, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), src)
	if err != nil {
		h.logError(c, err, "failed to forward upload to storage", "file_name", fileHeader.Filename)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upload to storage failed"})
		return
	}

	fileURL := h.remote.DownloadURL(storedName)

	file, err := h.insertFile(ctx, c, topicID, fileHeader.Filename, fileURL, storedName, shortID)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, filesmodels.AddFileResponse{File: file})
}
