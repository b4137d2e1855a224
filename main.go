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
	"github.com/sirupsen/logrus"

	"backoffice/internal/config"
	"backoffice/internal/database"
	"backoffice/internal/events"
	"backoffice/internal/handlers"
	"backoffice/internal/memstore"
	"backoffice/internal/router"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	logger.SetLevel(cfg.Level())
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := router.Deps{
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.AccessTokenTTL,
		APIPrefix:   cfg.APIPrefix,
		CORSOrigins: cfg.CORSOrigins,
		Log:         logger,
	}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		stores := memstore.New()
		deps.Categories = stores.Categories
		deps.Products = stores.Products
		deps.Orders = stores.Orders
		deps.Users = stores.Users
		deps.Populator = stores.Populator()
		logger.Warn("using in-memory store, data is lost on exit")

	default:
		client, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			logger.WithError(err).Fatal("mongo connection failed")
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.WithError(err).Warn("mongo disconnect failed")
			}
		}()

		db := client.Database(cfg.DBName)
		logger.WithField("db", db.Name()).Info("MongoDB connected")

		if err := database.EnsureProductIndexes(db, logger); err != nil {
			logger.WithError(err).Warn("product index warning")
		}
		if err := database.EnsureUserIndexes(db, logger); err != nil {
			logger.WithError(err).Warn("user index warning")
		}
		if err := database.EnsureOrderIndexes(db, logger); err != nil {
			logger.WithError(err).Warn("order index warning")
		}

		users := database.NewUserStore(db, cfg.StoreTimeout)
		products := database.NewProductStore(db, cfg.StoreTimeout)
		deps.Categories = database.NewCategoryStore(db, cfg.StoreTimeout)
		deps.Products = products
		deps.Orders = database.NewOrderStore(db, cfg.StoreTimeout)
		deps.Users = users
		deps.Populator = database.Populator{Users: users, Products: products}
		deps.Ping = func(ctx context.Context) error { return database.Ping(ctx, db) }
	}

	if err := handlers.EnsureAdmin(ctx, deps.Users, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		logger.WithError(err).Fatal("admin bootstrap failed")
	}

	deps.Events = events.Noop{}
	if cfg.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue)
		if err != nil {
			logger.WithError(err).Warn("order events disabled: broker unavailable")
		} else {
			deps.Events = publisher
			logger.WithField("queue", cfg.EventsQueue).Info("publishing order events")
		}
	}
	defer func() {
		if err := deps.Events.Close(); err != nil {
			logger.WithError(err).Warn("event publisher close failed")
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
