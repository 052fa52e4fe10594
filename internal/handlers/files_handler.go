package handlers

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"jp.promiseasync.commboard/internal/storage"
)

type FilesHandler struct {
	postgres *pgxpool.Pool
	remote   *storage.RemoteStore
	trigger  *NotificationTrigger
	logger   *zap.SugaredLogger
}

// NewFilesHandler creates the handler for topic file attachments. The remote
// store may be nil when storage is unconfigured; uploads are then rejected
// while URL registration keeps working.
func NewFilesHandler(postgres *pgxpool.Pool, remote *storage.RemoteStore, trigger *NotificationTrigger, logger *zap.SugaredLogger) *FilesHandler {
	return &FilesHandler{
		postgres: postgres,
		remote:   remote,
		trigger:  trigger,
		logger:   logger,
	}
}
