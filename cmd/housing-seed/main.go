package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Ali5829511/wwwr/internal/auth"
	"github.com/Ali5829511/wwwr/internal/config"
	"github.com/Ali5829511/wwwr/internal/events"
	"github.com/Ali5829511/wwwr/internal/logger"
	"github.com/Ali5829511/wwwr/internal/repository"
	"github.com/Ali5829511/wwwr/internal/service"
	"github.com/Ali5829511/wwwr/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

func main() {
	reset := flag.Bool("reset", false, "delete every collection before seeding")
	syncVehicles := flag.Bool("sync-vehicles", false, "create vehicles for violation plates and recompute their stats")
	skipUnits := flag.Bool("skip-units", false, "do not generate sample residential units")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	zl, err := logger.New(cfg.Log.Level, "console", "housing-seed")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Cannot connect to Redis at %s: %v", cfg.Redis.Addr, err)
	}
	fmt.Printf("Connected to Redis: %s (db %d)\n\n", cfg.Redis.Addr, cfg.Redis.DB)

	collections := store.NewCollections(store.NewRedisKV(client))
	publisher := events.NewRedisStreamPublisher(client, cfg.Events.Stream)

	if *reset {
		fmt.Println("Resetting collections...")
		if err := service.NewDataService(collections, zl).Reset(ctx); err != nil {
			log.Fatalf("Failed to reset: %v", err)
		}
		fmt.Println("✅ All collections removed")
	}

	fmt.Println("Step 1: Default user accounts...")
	hasher := auth.NewHasher(cfg.Security.BcryptCost)
	users := service.NewUserService(repository.NewUsersCollection(collections), hasher, zl)
	seeded, err := users.EnsureDefaultUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	if seeded {
		fmt.Println("✅ Default accounts created")
	} else {
		fmt.Println("Users already present, skipped")
	}

	fmt.Println("\nStep 2: Data feed...")
	feed := service.NewFeedLoader(cfg.Feed.URL, cfg.Feed.Timeout, collections, zl)
	res, err := feed.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load feed: %v", err)
	}
	stickers, units, err := feed.SeedCollections(ctx, res.Data)
	if err != nil {
		log.Fatalf("Failed to seed from feed: %v", err)
	}
	fmt.Printf("✅ Feed source %s: %d stickers, %d units, %d residents (seeded %d stickers, %d units)\n",
		res.Source, len(res.Data.Stickers), len(res.Data.Units), len(res.Data.Residents), stickers, units)

	if cfg.Seed.DefaultStickers {
		n, err := service.NewStickerService(repository.NewStickersCollection(collections), zl).EnsureDefaultStickers(ctx)
		if err != nil {
			log.Fatalf("Failed to seed stickers: %v", err)
		}
		if n > 0 {
			fmt.Printf("✅ %d sample stickers created\n", n)
		}
	}

	if !*skipUnits {
		fmt.Println("\nStep 3: Sample residential units...")
		unitService := service.NewUnitService(repository.NewUnitsCollection(collections), feed, zl)
		n, err := unitService.EnsureSampleUnits(ctx)
		if err != nil {
			log.Fatalf("Failed to generate units: %v", err)
		}
		if n > 0 {
			fmt.Printf("✅ %d units generated\n", n)
		} else {
			fmt.Println("Units already present, skipped")
		}
	}

	if *syncVehicles {
		fmt.Println("\nStep 4: Vehicles from violations...")
		vehicles := service.NewVehicleService(
			repository.NewVehiclesCollection(collections),
			repository.NewViolationsCollection(collections),
			publisher,
			zl,
		)
		sync, err := vehicles.SyncVehiclesFromViolations(ctx)
		if err != nil {
			log.Fatalf("Failed to sync vehicles: %v", err)
		}
		fmt.Printf("✅ %d vehicles added, %d total\n", sync.Added, len(sync.Vehicles))
	}

	fmt.Println("\nDone.")
}
