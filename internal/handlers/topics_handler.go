package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// topicListCacheKey caches the recent topic listing; invalidated on any write.
const topicListCacheKey = "topics:recent"

type TopicsHandler struct {
	postgres    *pgxpool.Pool
	redisClient *redis.Client
	trigger     *NotificationTrigger
	logger      *zap.SugaredLogger
}

// NewTopicsHandler creates the handler for topics and their comments.
func NewTopicsHandler(postgres *pgxpool.Pool, redisClient *redis.Client, trigger *NotificationTrigger, logger *zap.SugaredLogger) *TopicsHandler {
	return &TopicsHandler{
		postgres:    postgres,
		redisClient: redisClient,
		trigger:     trigger,
		logger:      logger,
	}
}

// shortIDFromContext pulls the authenticated user's short identifier set by
// the auth middleware.
func shortIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get("short_id")
	if !exists {
		return "", false
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
