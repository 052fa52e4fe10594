package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"jp.promiseasync.commboard/internal/db"
	firebaseutil "jp.promiseasync.commboard/internal/firebase"
	"jp.promiseasync.commboard/internal/handlers"
	"jp.promiseasync.commboard/internal/middleware"
	"jp.promiseasync.commboard/internal/push"
	"jp.promiseasync.commboard/internal/storage"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Structured logger for everything past startup
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	// Validate push delivery credentials before serving anything
	pushConfig, err := push.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load push configuration: %v", err)
	}

	// Initialize Firebase (identity provider)
	firebaseApp, err := firebaseutil.InitFirebase()
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Initialize PostgreSQL
	postgresDB, err := db.InitPostgres()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL: %v", err)
	}
	defer postgresDB.Close()

	// Initialize Redis
	redisClient, err := db.InitRedis()
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer redisClient.Close()

	// External file storage is optional; without it uploads are rejected
	// while URL-registered attachments keep working
	remoteStore, err := storage.NewRemoteStoreFromEnv()
	if err != nil {
		logger.Warnw("file storage not configured, uploads disabled", "error", err)
		remoteStore = nil
	}

	// Wire the push fan-out
	subscriptionStore := push.NewPGStore(postgresDB)
	sender := push.NewWebPushSender(pushConfig)
	notifier := push.NewNotifier(subscriptionStore, sender, pushConfig, logger)
	trigger := handlers.NewNotificationTrigger(notifier, redisClient, logger)

	// Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// CORS for the web client
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	notificationsHandler := handlers.NewNotificationsHandler(subscriptionStore, notifier, trigger, pushConfig, postgresDB, redisClient, logger)
	topicsHandler := handlers.NewTopicsHandler(postgresDB, redisClient, trigger, logger)
	filesHandler := handlers.NewFilesHandler(postgresDB, remoteStore, trigger, logger)

	authRequired := middleware.AuthMiddleware(firebaseApp, postgresDB, redisClient)

	// Define routes
	v1 := router.Group("/api/v1")
	{
		pushGroup := v1.Group("/push")
		{
			pushGroup.GET("/public-key", notificationsHandler.GetVAPIDPublicKey)
			pushGroup.POST("/subscribe", notificationsHandler.Subscribe)
			pushGroup.POST("/send", notificationsHandler.SendNotification)
		}

		// Protected board routes
		topics := v1.Group("/topics")
		topics.Use(authRequired)
		{
			topics.POST("/create-topic", topicsHandler.CreateTopic)
			topics.POST("/list-topics", topicsHandler.ListTopics)
			topics.POST("/update-topic", topicsHandler.UpdateTopic)
			topics.POST("/delete-topic", topicsHandler.DeleteTopic)
			topics.POST("/add-comment", topicsHandler.AddComment)
			topics.POST("/list-comments", topicsHandler.ListComments)
			topics.POST("/update-comment", topicsHandler.UpdateComment)
			topics.POST("/remove-comment", topicsHandler.RemoveComment)
			topics.POST("/add-file", filesHandler.AddFile)
			topics.POST("/upload-file", filesHandler.UploadFile)
			topics.POST("/remove-file", filesHandler.RemoveFile)
			topics.POST("/list-files", filesHandler.ListFiles)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(authRequired)
		{
			notifications.POST("/stats", notificationsHandler.GetNotificationStats)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Service worker must be served from the root scope
	router.StaticFile("/sw.js", "./web/sw.js")

	// Start the daily digest scheduler
	if err := notificationsHandler.StartDigestScheduler(); err != nil {
		log.Fatalf("Failed to start digest scheduler: %v", err)
	}
	defer notificationsHandler.StopDigestScheduler()

	// Create HTTP server
	port := os.Getenv("PORT")
	if port == "" {
		port = "9091"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infow("server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infow("shutting down server")

	// Give a 5 second timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Infow("server exited")
}
