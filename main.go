package main

import (
	"io"

	"github.com/google/logger"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"csifest/config"
	"csifest/controllers"
	"csifest/database"
	"csifest/models"
	"csifest/routes"
	"csifest/services"
	"csifest/storage"
)

func main() {
	// .env.local wins over .env, matching how deployments keep local
	// overrides next to the checked-in defaults.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	defer logger.Init("csifest", true, false, io.Discard).Close()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("Configuration error: %v", err)
	}

	db, err := database.Connect(cfg.MySQLDSN)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info("Database connection established and connection pool configured")

	if cfg.SeedEvents {
		if err := database.MigrateTables(db, &models.Event{}, &models.Registration{}, &models.Participant{}); err != nil {
			logger.Fatalf("Migration failed: %v", err)
		}
		if err := database.SeedEvents(db); err != nil {
			logger.Fatalf("Event seeding failed: %v", err)
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = database.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			logger.Fatalf("Failed to connect to redis: %v", err)
		}
		logger.Info("Redis connection established")
	}

	store := storage.NewGormStore(db)
	regService := services.NewRegistrationService(store, cfg.StoreTimeout)
	statsService := services.NewStatsService(store, rdb)

	r := routes.SetupRouter(
		controllers.NewRegistrationController(regService),
		controllers.NewEventController(store),
		controllers.NewStatsController(statsService),
	)

	logger.Infof("Starting server on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Fatalf("Failed to run server: %v", err)
	}
}
