package handlers

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"jp.promiseasync.commboard/internal/push"
)

type NotificationsHandler struct {
	store       push.SubscriptionStore
	notifier    *push.Notifier
	trigger     *NotificationTrigger
	publicKey   string
	db          *pgxpool.Pool
	redisClient *redis.Client
	cronManager *cron.Cron
	logger      *zap.SugaredLogger
}

// NewNotificationsHandler creates the handler that owns the push-subscription
// lifecycle: registration, the fan-out trigger, and the daily digest job.
func NewNotificationsHandler(store push.SubscriptionStore, notifier *push.Notifier, trigger *NotificationTrigger, cfg push.Config, dbPool *pgxpool.Pool, redisClient *redis.Client, logger *zap.SugaredLogger) *NotificationsHandler {
	c := cron.New(cron.WithLocation(time.UTC))

	return &NotificationsHandler{
		store:       store,
		notifier:    notifier,
		trigger:     trigger,
		publicKey:   cfg.VAPIDPublicKey,
		db:          dbPool,
		redisClient: redisClient,
		cronManager: c,
		logger:      logger,
	}
}
