package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestContextFields(c *gin.Context) []interface{} {
	shortIDVal, _ := c.Get("short_id")
	shortID := ""
	if s, ok := shortIDVal.(string); ok {
		shortID = s
	}
	return []interface{}{
		"request_id", c.GetString("request_id"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"client_ip", c.ClientIP(),
		"user_short_id", shortID,
	}
}

func logErrorWithContext(logger *zap.SugaredLogger, c *gin.Context, err error, msg string, fields ...interface{}) {
	if logger == nil {
		return
	}
	all := append(requestContextFields(c), fields...)
	all = append(all, "error", err)
	logger.Errorw(msg, all...)
}

func (ns *NotificationsHandler) logError(c *gin.Context, err error, msg string, fields ...interface{}) {
	logErrorWithContext(ns.logger, c, err, msg, fields...)
}

func (h *TopicsHandler) logError(c *gin.Context, err error, msg string, fields ...interface{}) {
	logErrorWithContext(h.logger, c, err, msg, fields...)
}

func (h *FilesHandler) logError(c *gin.Context, err error, msg string, fields ...interface{}) {
	logErrorWithContext(h.logger, c, err, msg, fields...)
}
