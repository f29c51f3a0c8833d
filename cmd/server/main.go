package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"connected/pkg/broker"
	"connected/pkg/config"
	"connected/pkg/database"
	"connected/pkg/handlers"
	"connected/pkg/logger"
	"connected/pkg/objectstore"
	"connected/pkg/repository"
	"connected/pkg/server"
	"connected/pkg/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load config: " + err.Error())
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic("build logger: " + err.Error())
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, log); err != nil {
		log.Fatal("migrate database", zap.Error(err))
	}

	store := repository.NewStore(db)

	// Nil keeps side effects best effort without replay.
	var retry services.RetryQueue
	var queue *broker.Queue
	if cfg.RedisURL != "" {
		queue, err = broker.New(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal("connect redis", zap.Error(err))
		}
		defer queue.Close()
		retry = queue
		log.Info("side effect retry queue enabled")
	}

	var avatars services.AvatarStore
	if cfg.Minio.Enabled() {
		s, err := objectstore.New(ctx, cfg.Minio, log)
		if err != nil {
			log.Fatal("connect object store", zap.Error(err))
		}
		avatars = s
	} else {
		log.Warn("object store not configured, profile image uploads disabled")
	}

	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	trending := services.NewTrendingService(store.Trending, retry, log)
	notifications := services.NewNotificationService(store, retry, log)
	posts := services.NewPostService(store, trending, notifications, log)
	users := services.NewUserService(store.Users, tokens, avatars, log)
	follows := services.NewFollowService(store, notifications)

	if queue != nil {
		queue.On(services.ActionRecordTopic, trending.ReplayRecord)
		queue.On(services.ActionCreateNotification, notifications.ReplayCreate)
		go queue.Run(ctx)
	}

	app := server.NewApp("connected", cfg.CORSOrigins, log)
	handlers.Register(app, handlers.Handlers{
		Users: handlers.NewUsers(users, follows),
		Posts: handlers.NewPosts(posts, services.NewBotService(store.Users, posts, log)),
		Interactions: handlers.NewInteractions(
			services.NewCommentService(store, notifications),
			services.NewLikeService(store, posts, notifications),
			notifications,
			trending,
		),
		Messages: handlers.NewMessages(services.NewMessageService(store)),
	}, cfg.JWTSecret)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server starting", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("listen", zap.Error(err))
	}
}
