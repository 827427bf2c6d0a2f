package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ali5829511/wwwr/internal/auth"
	"github.com/Ali5829511/wwwr/internal/config"
	"github.com/Ali5829511/wwwr/internal/database"
	"github.com/Ali5829511/wwwr/internal/events"
	"github.com/Ali5829511/wwwr/internal/export"
	"github.com/Ali5829511/wwwr/internal/formtrack"
	httpapi "github.com/Ali5829511/wwwr/internal/http"
	"github.com/Ali5829511/wwwr/internal/ingest"
	"github.com/Ali5829511/wwwr/internal/logger"
	"github.com/Ali5829511/wwwr/internal/mqtt"
	"github.com/Ali5829511/wwwr/internal/repository"
	"github.com/Ali5829511/wwwr/internal/service"
	"github.com/Ali5829511/wwwr/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// a missing .env is normal outside development
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "housing-admin")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, publisher, redisClient := openStore(ctx, cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}
	collections := store.NewCollections(kv)

	usersColl := repository.NewUsersCollection(collections)
	violationsColl := repository.NewViolationsCollection(collections)
	hasher := auth.NewHasher(cfg.Security.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Session.Secret, cfg.Session.Issuer, 24*time.Hour)
	feed := service.NewFeedLoader(cfg.Feed.URL, cfg.Feed.Timeout, collections, log)

	authService := service.NewAuthService(usersColl, kv, tokens, hasher, publisher, cfg.Session.Timeout, log)
	userService := service.NewUserService(usersColl, hasher, log)
	stickerService := service.NewStickerService(repository.NewStickersCollection(collections), log)
	violationService := service.NewViolationService(violationsColl, publisher, log)
	vehicleService := service.NewVehicleService(repository.NewVehiclesCollection(collections), violationsColl, publisher, log)
	unitService := service.NewUnitService(repository.NewUnitsCollection(collections), feed, log)
	dataService := service.NewDataService(collections, log)

	bootstrap(ctx, cfg, log, userService, stickerService, unitService, feed)

	// Optional reporting database
	var reports repository.ReportsRepository
	var db *sql.DB
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(ctx, &cfg.Database); err == nil {
			db = d
			reports = repository.NewPostgresReportsRepository(db)
			log.Info("Reporting database enabled", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Database))
		} else {
			log.Warn("DB enabled but connection failed, reports disabled", zap.Error(err))
		}
	}
	if db != nil {
		defer db.Close()
	}

	// Optional plate-recognition ingest
	if cfg.MQTT.Enabled {
		mqttCfg := cfg.MQTT
		mqttCfg.ClientID = cfg.MQTT.ClientID + "-" + uuid.NewString()[:8]
		client, err := mqtt.NewClient(&mqttCfg, log)
		if err != nil {
			log.Warn("MQTT enabled but connection failed, plate ingest disabled", zap.Error(err))
		} else {
			defer client.Disconnect()
			consumer := ingest.NewPlateConsumer(violationService, cfg.MQTT.MinConfidence, log)
			if err := client.Subscribe(cfg.MQTT.Topic, cfg.MQTT.QoS, consumer.HandleMessage); err != nil {
				log.Warn("Failed to subscribe to plate recognitions", zap.Error(err))
			}
		}
	}

	forms := formtrack.NewRegistry()
	authService.OnSessionEnd(forms.Drop)

	router := httpapi.NewAPI(httpapi.Services{
		Auth:       authService,
		Users:      userService,
		Stickers:   stickerService,
		Violations: violationService,
		Vehicles:   vehicleService,
		Units:      unitService,
		Data:       dataService,
		Reports:    reports,
		Exporter:   export.NewExporter(),
		Forms:      forms,
	}, log)

	watcher := service.NewSessionWatcher(authService, cfg.Session.CheckInterval, log)
	go watcher.Run(ctx)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", zap.Error(err))
		}
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// openStore connects to Redis, falling back to the in-memory KV when it is disabled
// or unreachable.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.KV, events.Publisher, *redis.Client) {
	if !cfg.Redis.Enabled {
		log.Warn("Redis disabled, using in-memory store; data is lost on restart")
		return store.NewMemoryKV(), events.NopPublisher{}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unreachable, using in-memory store; data is lost on restart",
			zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = client.Close()
		return store.NewMemoryKV(), events.NopPublisher{}, nil
	}
	log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr), zap.Int("db", cfg.Redis.DB))
	return store.NewRedisKV(client), events.NewRedisStreamPublisher(client, cfg.Events.Stream), client
}

// bootstrap seeds accounts, units and the feed copy. Failures are logged; the API still starts.
func bootstrap(
	ctx context.Context,
	cfg *config.Config,
	log *zap.Logger,
	users service.UserService,
	stickers service.StickerService,
	units service.UnitService,
	feed *service.FeedLoader,
) {
	if cfg.Seed.DefaultUsers {
		if seeded, err := users.EnsureDefaultUsers(ctx); err != nil {
			log.Error("Failed to seed default users", zap.Error(err))
		} else if seeded {
			log.Info("Default user accounts created")
		}
	}

	res, err := feed.Load(ctx)
	if err != nil {
		log.Error("Failed to load data feed", zap.Error(err))
	} else if stickerCount, unitCount, err := feed.SeedCollections(ctx, res.Data); err != nil {
		log.Error("Failed to seed collections from feed", zap.Error(err))
	} else if stickerCount > 0 || unitCount > 0 {
		log.Info("Collections seeded from feed",
			zap.String("source", res.Source),
			zap.Int("stickers", stickerCount),
			zap.Int("units", unitCount),
		)
	}

	// after the feed, which takes precedence for stickers
	if cfg.Seed.DefaultStickers {
		if n, err := stickers.EnsureDefaultStickers(ctx); err != nil {
			log.Error("Failed to seed default stickers", zap.Error(err))
		} else if n > 0 {
			log.Info("Default stickers created", zap.Int("count", n))
		}
	}

	if cfg.Seed.SampleUnits {
		if n, err := units.EnsureSampleUnits(ctx); err != nil {
			log.Error("Failed to seed sample units", zap.Error(err))
		} else if n > 0 {
			log.Info("Sample units generated", zap.Int("count", n))
		}
	}
}
