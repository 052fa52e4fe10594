package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	filesmodels "jp.promiseasync.commboard/internal/models/files"
	"jp.promiseasync.commboard/internal/push"
)

// AddFile registers a file attachment by URL, without uploading anything
func (h *FilesHandler) AddFile(c *gin.Context) {
	var req filesmodels.AddFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	shortID, ok := shortIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	fileName := strings.TrimSpace(req.FileName)
	fileURL := strings.TrimSpace(req.FileURL)
	if req.TopicID == "" || fileName == "" || fileURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic id, file name, and file url are required"})
		return
	}

	file, err := h.insertFile(context.Background(), c, req.TopicID, fileName, fileURL, "", shortID)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, filesmodels.AddFileResponse{File: file})
}

// insertFile records an attachment, bumps topic activity, and fires the
// fan-out notification. Responds with an error itself when something fails.
func (h *FilesHandler) insertFile(ctx context.Context, c *gin.Context, topicID, fileName, fileURL, storedName, shortID string) (filesmodels.File, error) {
	var topicTitle string
	if err := h.postgres.QueryRow(ctx, `SELECT title FROM topics WHERE id = $1`, topicID).Scan(&topicTitle); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
		return filesmodels.File{}, err
	}

	fileID := uuid.New().String()
	now := time.Now()

	tx, err := h.postgres.Begin(ctx)
	if err != nil {
		h.logError(c, err, "failed to start transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return filesmodels.File{}, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO topic_files (id, topic_id, file_name, file_url, stored_name, created_by, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)`
	if _, err := tx.Exec(ctx, query, fileID, topicID, fileName, fileURL, storedName, shortID, now); err != nil {
		h.logError(c, err, "failed to insert file record", "topic_id", topicID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return filesmodels.File{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE topics SET last_activity_at = $1 WHERE id = $2`, now, topicID); err != nil {
		h.logError(c, err, "failed to bump topic activity", "topic_id", topicID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return filesmodels.File{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		h.logError(c, err, "failed to commit file record", "topic_id", topicID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return filesmodels.File{}, err
	}

	// Record is committed; fan-out runs detached
	h.trigger.Fire(push.TriggerRequest{
		Event:      push.EventFileAdded,
		TopicID:    topicID,
		TopicTitle: topicTitle,
		FileName:   fileName,
		CreatedBy:  shortID,
	})

	return filesmodels.File{
		ID:         fileID,
		TopicID:    topicID,
		FileName:   fileName,
		FileURL:    fileURL,
		StoredName: storedName,
		CreatedBy:  shortID,
		CreatedAt:  now,
	}, nil
}
