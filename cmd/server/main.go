package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dealerdesk/crm-backend/internal/auth"
	"github.com/dealerdesk/crm-backend/internal/config"
	"github.com/dealerdesk/crm-backend/internal/database"
	"github.com/dealerdesk/crm-backend/internal/events"
	"github.com/dealerdesk/crm-backend/internal/handlers"
	"github.com/dealerdesk/crm-backend/internal/logger"
	"github.com/dealerdesk/crm-backend/internal/media"
	"github.com/dealerdesk/crm-backend/internal/metrics"
	"github.com/dealerdesk/crm-backend/internal/middleware"
	"github.com/dealerdesk/crm-backend/internal/presence"
	"github.com/dealerdesk/crm-backend/internal/push"
	"github.com/dealerdesk/crm-backend/internal/qr"
	"github.com/dealerdesk/crm-backend/internal/repository"
	"github.com/dealerdesk/crm-backend/internal/routes"
	"github.com/dealerdesk/crm-backend/internal/service"
	"github.com/dealerdesk/crm-backend/internal/storage"
	"github.com/dealerdesk/crm-backend/internal/stream"
	"github.com/dealerdesk/crm-backend/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog, err := logger.New(cfg.App.Development)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer zlog.Sync()

	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoClient, err := database.ConnectMongo(ctx, cfg.Mongo.URI)
	if err != nil {
		zlog.Fatalw("mongo connect", "err", err)
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.Mongo.Database)

	rdb, err := database.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		zlog.Fatalw("redis connect", "err", err)
	}
	defer rdb.Close()

	repos := repository.NewRepositories(db)
	tokens := auth.NewManager(cfg.JWT.Secret, cfg.JWTExpiry)
	presenceStore := presence.NewStore(rdb, cfg.Redis.Prefix, 0)

	var publisher service.EventPublisher
	if cfg.Kafka.Enabled {
		kp := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		publisher = kp
	}

	authSvc := service.NewAuthService(repos.Users, tokens)
	scanSvc := service.NewScanService(repos.Customers, repos.Scans, repos.Users, repos.Notifications, publisher, zlog)
	customerSvc := service.NewCustomerService(repos.Customers, repos.Users, repos.Notifications, publisher, zlog)
	appointmentSvc := service.NewAppointmentService(repos.Appointments, repos.Customers, repos.Users, repos.Notifications, publisher, zlog)
	commentSvc := service.NewCommentService(repos.Comments, repos.Customers)
	notificationSvc := service.NewNotificationService(repos.Notifications)

	hub := ws.NewHub(zlog, ws.WithVerifier(tokens), ws.WithPresence(presenceStore))
	wsHandler := ws.NewHandler(hub, ws.Options{
		PingInterval:   cfg.PingInterval,
		WriteTimeout:   cfg.WriteTimeout,
		MaxMessageSize: cfg.WS.MaxMessageBytes,
	}, zlog)

	// The change stream on the notifications collection is the sole path
	// from a persisted notification to connected sockets.
	sinks := []stream.Sink{stream.SinkFunc(hub.BroadcastNotification)}
	if cfg.Push.Enabled {
		sinks = append(sinks, push.NewClient(cfg.Push.GatewayURL, cfg.Push.APIKey, zlog))
	}
	consumer := stream.NewConsumer(
		stream.MongoSource(db.Collection(repository.NotificationsCollection)),
		zlog, sinks,
	)
	consumer.Start(ctx)

	deps := routes.Deps{
		JWT: tokens,
		RateLimit: middleware.NewRateLimiter(rdb, cfg.Redis.Prefix,
			cfg.RateLimit.PublicLimit, time.Duration(cfg.RateLimit.PublicWindow)*time.Second),
		WS:            wsHandler,
		Auth:          handlers.NewAuthHandler(authSvc),
		Customers:     handlers.NewCustomerHandler(customerSvc, commentSvc),
		Scans:         handlers.NewScanHandler(scanSvc),
		Appointments:  handlers.NewAppointmentHandler(appointmentSvc),
		Notifications: handlers.NewNotificationHandler(notificationSvc),
		Presence:      handlers.NewPresenceHandler(presenceStore),
	}
	if cfg.App.PublicURL != "" {
		deps.QR = handlers.NewQRHandler(qr.NewGenerator(cfg.App.PublicURL))
	}
	if cfg.S3.Enabled {
		store, err := storage.NewS3Store(ctx, cfg.S3.Region, cfg.S3.Bucket)
		if err != nil {
			zlog.Fatalw("s3 init", "err", err)
		}
		deps.Media = handlers.NewMediaHandler(media.NewService(store), store)
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: !cfg.App.Development,
	})
	routes.Register(app, deps)

	errs := make(chan error, 1)
	go func() {
		addr := ":" + cfg.App.Port
		zlog.Infow("starting server", "addr", addr)
		errs <- app.Listen(addr)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errs:
		zlog.Fatalw("server error", "err", err)
	case s := <-sig:
		zlog.Infow("signal received", "signal", s.String())
	}

	cancel()
	hub.Shutdown()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Warnw("shutdown", "err", err)
	}
	zlog.Infow("stopped")
}
