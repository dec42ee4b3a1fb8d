package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/devanshjhaa/TicketsManage/internal/api/http"
	"github.com/devanshjhaa/TicketsManage/internal/api/http/handlers"
	"github.com/devanshjhaa/TicketsManage/internal/auth"
	"github.com/devanshjhaa/TicketsManage/internal/config"
	"github.com/devanshjhaa/TicketsManage/internal/events"
	"github.com/devanshjhaa/TicketsManage/internal/notify"
	"github.com/devanshjhaa/TicketsManage/internal/observability"
	"github.com/devanshjhaa/TicketsManage/internal/persistence"
	"github.com/devanshjhaa/TicketsManage/internal/repository"
	"github.com/devanshjhaa/TicketsManage/internal/service"
	"github.com/devanshjhaa/TicketsManage/internal/storage"
	"github.com/devanshjhaa/TicketsManage/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	blobs, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal("failed to init blob store", zap.Error(err))
	}

	pool := pg.PoolHandle()
	repos := repository.NewRepositories(pool)
	txManager := repository.NewTxManager(pool)

	dispatcher := events.NewAsyncDispatcher(logger, cfg.Notification.EventBuffer)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(repos.Users, tokens, cfg.Auth.BcryptCost)
	ticketService := service.NewTicketService(service.TicketDependencies{
		Repos:      repos,
		Tx:         txManager,
		Dispatcher: dispatcher,
	})
	activityService := service.NewActivityService(repos)
	commentService := service.NewCommentService(repos, txManager, dispatcher, ticketService)
	attachmentService := service.NewAttachmentService(repos, txManager, dispatcher, blobs, ticketService, logger)
	adminService := service.NewAdminService(repos, redis.Client, logger)

	emailSender := notify.NewResendClient(cfg.Notification, logger)
	notificationService := service.NewNotificationService(emailSender, cfg.Notification.FrontendURL, logger)
	notificationWorker := worker.NewNotificationWorker(dispatcher, notificationService, logger)
	notificationWorker.Start(ctx)

	authMiddleware := auth.NewAuthMiddleware(tokens, repos.Users)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 26 << 20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, activityService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Attachments:    handlers.NewAttachmentsHandler(attachmentService),
		Admin:          handlers.NewAdminHandler(adminService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
