// GaragePro - garage job card, reporting and customer messaging service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"garagepro/internal/config"
	"garagepro/internal/domain/notifications"
	"garagepro/internal/lifecycle"
	"garagepro/internal/messages"
	"garagepro/internal/repository"
	"garagepro/internal/repository/kv"
	"garagepro/internal/repository/memory"
	"garagepro/internal/repository/mongo"
	"garagepro/internal/repository/postgres"
	"garagepro/internal/repository/redis"
	"garagepro/internal/repository/sqlite"
	"garagepro/internal/scheduler"
	"garagepro/internal/server"
	"garagepro/internal/workshop"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load("config.json")
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	logger := newLogger(cfg)
	logger.WithFields(log.Fields{
		"garage": cfg.Business.Name,
		"debug":  cfg.Debug,
		"store":  cfg.Store.Driver,
	}).Info("Starting GaragePro")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open record store")
	}
	defer store.Close()
	logger.Info("Record store initialized")

	loc, err := cfg.Location()
	if err != nil {
		logger.WithError(err).Fatal("Invalid timezone")
	}

	formatter, err := messages.NewFormatter(messages.Options{
		GarageName: cfg.Business.Name,
		Currency:   messages.Currency{Code: cfg.Currency.Code, Symbol: cfg.Currency.Symbol},
		Location:   loc,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to load message templates")
	}

	sharer, closeSharer := newSharer(cfg, logger)
	defer closeSharer()

	repos := kv.NewRepositories(store, time.Now)
	ws := workshop.New(workshop.Config{
		Repos:     repos,
		Engine:    lifecycle.NewEngine(lifecycle.WithPolicy(lifecycle.PolicyFor(cfg.Lifecycle.StrictTransitions))),
		Formatter: formatter,
		Sharer:    sharer,
		Logger:    logger,
	})

	if os.Getenv("SEED_DATA") == "true" {
		if _, err := ws.SeedServices(ctx); err != nil {
			logger.WithError(err).Warn("Could not seed default services")
		}
	}

	sched := scheduler.New(repos.Settings, ws,
		scheduler.WithInterval(cfg.CheckInterval()),
		scheduler.WithLocation(loc),
		scheduler.WithLogger(logger),
	)
	go sched.Run(ctx)

	srv, err := server.New(cfg, ws, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create server")
	}
	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Fatal("Server error")
	}
}

func newLogger(cfg *config.Config) *log.Logger {
	logger := log.New()
	logger.SetOutput(os.Stdout)

	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// openStore opens the record store backend selected by the configuration
func openStore(ctx context.Context, cfg *config.Config) (repository.RecordStore, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.GetDatabasePath())
	case config.DriverMemory:
		return memory.NewRecordStore(), nil
	case config.DriverRedis:
		return redis.Open(ctx, redis.Options{
			Addr:      cfg.Store.RedisAddr,
			Password:  cfg.Store.RedisPassword,
			DB:        cfg.Store.RedisDB,
			KeyPrefix: cfg.Store.KeyPrefix,
		})
	case config.DriverMongo:
		return mongo.Connect(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
	case config.DriverPostgres:
		return postgres.Open(cfg.Store.PostgresDSN)
	}
	return nil, fmt.Errorf("unknown store driver: %q", cfg.Store.Driver)
}

// newSharer logs every share and also publishes it when a broker is configured
func newSharer(cfg *config.Config, logger *log.Logger) (notifications.Sharer, func()) {
	logSharer := notifications.NewLogSharer(logger)
	if cfg.MQTT.Broker == "" {
		return logSharer, func() {}
	}

	mq, err := notifications.NewMQTTSharer(notifications.MQTTConfig{
		Broker:   cfg.MQTT.Broker,
		ClientID: cfg.MQTT.ClientID,
		Topic:    cfg.MQTT.Topic,
		Username: cfg.MQTT.Username,
		Password: cfg.MQTT.Password,
	})
	if err != nil {
		logger.WithError(err).WithField("broker", cfg.MQTT.Broker).Warn("MQTT unavailable, shares will only be logged")
		return logSharer, func() {}
	}
	logger.WithField("broker", cfg.MQTT.Broker).Info("Publishing shares to MQTT")
	return notifications.NewCompositeSharer(logSharer, mq), mq.Close
}
