// Package storage proxies file transfers to the external upload/download
// endpoint. The transfer protocol itself belongs to that endpoint; this
// client only forwards multipart bodies and the shared access token.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"
)

// RemoteStore is a client for the external file storage endpoint.
type RemoteStore struct {
	uploadURL   string
	deleteURL   string
	downloadURL string
	token       string
	client      *http.Client
}

// NewRemoteStoreFromEnv builds the storage client from environment variables.
// All four values must be present; files cannot be attached without them.
func NewRemoteStoreFromEnv() (*RemoteStore, error) {
	uploadURL := os.Getenv("STORAGE_UPLOAD_URL")
	deleteURL := os.Getenv("STORAGE_DELETE_URL")
	downloadURL := os.Getenv("STORAGE_DOWNLOAD_URL")
	token := os.Getenv("STORAGE_UPLOAD_TOKEN")

	if uploadURL == "" || deleteURL == "" || downloadURL == "" || token == "" {
		return nil, fmt.Errorf("missing storage configuration (STORAGE_UPLOAD_URL, STORAGE_DELETE_URL, STORAGE_DOWNLOAD_URL, STORAGE_UPLOAD_TOKEN)")
	}

	return &RemoteStore{
		uploadURL:   uploadURL,
		deleteURL:   deleteURL,
		downloadURL: downloadURL,
		token:       token,
		client:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// uploadResponse is the storage endpoint's answer to an upload.
type uploadResponse struct {
	OK         bool   `json:"ok"`
	StoredName string `json:"stored_name"`
	FileName   string `json:"file_name"`
	Error      string `json:"error"`
}

// Upload forwards one file to the storage endpoint and returns the name it
// was stored under. The forwarded filename is sanitized; the original name
// travels alongside in a separate form field.
func (r *RemoteStore) Upload(ctx context.Context, fileName, contentType string, content io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", SanitizeFilename(fileName))
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := writer.WriteField("orig_name", fileName); err != nil {
		return "", fmt.Errorf("failed to write orig_name field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.uploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Upload-Token", r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("storage endpoint returned non-JSON response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode >= 300 || !result.OK {
		return "", fmt.Errorf("storage upload failed (status %d): %s", resp.StatusCode, result.Error)
	}
	if result.StoredName == "" {
		return "", fmt.Errorf("storage endpoint returned no stored_name")
	}
	return result.StoredName, nil
}

// Delete removes a stored file from the storage endpoint.
func (r *RemoteStore) Delete(ctx context.Context, storedName string) error {
	payload, _ := json.Marshal(map[string]string{"stored_name": storedName})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.deleteURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Upload-Token", r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("storage endpoint returned non-JSON response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode >= 300 || !result.OK {
		return fmt.Errorf("storage delete failed (status %d): %s", resp.StatusCode, result.Error)
	}
	return nil
}

// DownloadURL returns the public URL a stored file can be fetched from.
func (r *RemoteStore) DownloadURL(storedName string) string {
	return fmt.Sprintf("%s?name=%s", r.downloadURL, url.QueryEscape(storedName))
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
var repeatedUnderscores = regexp.MustCompile(`_+`)

// SanitizeFilename rewrites a user-supplied filename into a form safe to
// carry in a multipart filename field. Non-ASCII names collapse to
// underscores; the extension is kept short and lowercase.
func SanitizeFilename(original string) string {
	ext := ""
	base := original
	if dot := strings.LastIndex(original, "."); dot >= 0 {
		ext = strings.ToLower(original[dot+1:])
		base = original[:dot]
	}

	safeBase := unsafeFilenameChars.ReplaceAllString(base, "_")
	safeBase = repeatedUnderscores.ReplaceAllString(safeBase, "_")
	safeBase = strings.Trim(safeBase, "_")
	if len(safeBase) > 80 {
		safeBase = safeBase[:80]
	}
	if safeBase == "" {
		safeBase = "file"
	}

	safeExt := unsafeFilenameChars.ReplaceAllString(ext, "")
	if len(safeExt) > 10 {
		safeExt = safeExt[:10]
	}

	if safeExt == "" {
		return safeBase
	}
	return safeBase + "." + safeExt
}
