package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"messaging-service/internal/config"
	"messaging-service/internal/db"
	"messaging-service/internal/handlers"
	"messaging-service/internal/middleware"
	"messaging-service/internal/notify"
	"messaging-service/internal/observability"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/repositories"
	"messaging-service/internal/retention"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "messaging-service").Logger()

	cfg := config.Load()
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	database, err := db.Connect(cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer database.Close()

	shutdownTracing := observability.SetupTracing(context.Background(), cfg.OTLPEndpoint, cfg.Env, logger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	defer publisher.Close()

	conversationRepo := repositories.NewConversationRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	blockRepo := repositories.NewBlockRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)
	reportRepo := repositories.NewReportRepo(database)
	userDirectory := repositories.NewUserDirectoryRepo(database)

	dispatcher := notify.NewDispatcher(notificationRepo, publisher, logger)

	conversationHandler := handlers.NewConversationHandler(conversationRepo, messageRepo, blockRepo, userDirectory, dispatcher, publisher, logger)
	blockHandler := handlers.NewBlockHandler(blockRepo, userDirectory, publisher, logger)
	reportHandler := handlers.NewReportHandler(reportRepo, messageRepo, conversationRepo, userDirectory, logger)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, logger)
	moderationHandler := handlers.NewModerationHandler(reportRepo, messageRepo, conversationRepo, notificationRepo, publisher, logger)

	sweeper := retention.NewSweeper(conversationRepo, messageRepo, notificationRepo, reportRepo, retention.Policies{
		MessageDays:      cfg.MessageRetentionDays,
		NotificationDays: cfg.NotificationRetentionDays,
		ReportDays:       cfg.ReportRetentionDays,
	}, cfg.SweepInterval, logger)
	if cfg.SweeperEnabled {
		sweeper.Start()
		defer sweeper.Stop()
	}

	limiter := middleware.NewRateLimiter()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware("messaging-service"))

	router.GET("/healthz", handlers.Health(database))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.AuthMiddleware(cfg.JWTSecret)

	conversations := router.Group("/conversations", auth)
	conversations.GET("", conversationHandler.ListConversations)
	conversations.POST("", limiter.Limit("conversations", cfg.ConversationCreatesPerMinute, time.Minute), conversationHandler.StartConversation)
	conversations.GET("/unread-count", conversationHandler.UnreadCount)
	conversations.POST("/:conversation_id/read", conversationHandler.MarkConversationRead)
	conversations.GET("/:conversation_id/messages", conversationHandler.ListMessages)
	conversations.POST("/:conversation_id/messages", limiter.Limit("messages", cfg.MessagesPerMinute, time.Minute), conversationHandler.SendMessage)

	blocks := router.Group("/blocks", auth)
	blocks.GET("", blockHandler.ListBlocks)
	blocks.GET("/status/:user_id", blockHandler.BlockStatus)
	blocks.POST("", blockHandler.BlockUser)
	blocks.DELETE("/:user_id", blockHandler.UnblockUser)

	router.POST("/reports", auth, limiter.Limit("reports", cfg.ReportsPerHour, time.Hour), reportHandler.SubmitReport)

	notifications := router.Group("/notifications", auth)
	notifications.GET("", notificationHandler.ListNotifications)
	notifications.POST("/read", notificationHandler.MarkAllRead)
	notifications.POST("/:notification_id/read", notificationHandler.MarkOneRead)

	moderation := router.Group("/moderation", auth, middleware.RequireModerator())
	moderation.GET("/reports", moderationHandler.ListReports)
	moderation.POST("/reports/:report_id/resolve", moderationHandler.ResolveReport)
	moderation.POST("/messages/:message_id/remove", moderationHandler.RemoveMessage)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
