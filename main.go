package main

import (
	"context"
	"log"
	"time"
	_ "time/tzdata"

	"salon-booking/cmd"
	"salon-booking/internal/data/repository"
	"salon-booking/internal/reservation"
	"salon-booking/internal/wire"
	"salon-booking/pkg/database"
	"salon-booking/pkg/telemetry"
	"salon-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("timezone", config.Booking.Timezone),
		zap.Int("hold_expiration_minutes", config.Booking.HoldExpirationMinutes),
	)

	ctx := context.Background()
	shutdownTracing := telemetry.Setup(ctx, config.App.Name, config.Telemetry, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	cal, err := reservation.LoadCalendar(reservation.SystemClock{}, config.Booking.Timezone)
	if err != nil {
		logger.Fatal("Invalid timezone", zap.Error(err))
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	repos := repository.NewRepository(db, logger)

	submissionTTL := time.Duration(config.Booking.SubmissionTTLMinutes) * time.Minute
	var submissions reservation.SubmissionStore
	switch config.Session.Store {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err), zap.String("addr", config.Redis.Addr))
		}
		submissions = repository.NewRedisSubmissionStore(rdb, submissionTTL, config.App.Name, logger)
		logger.Info("Submission store: redis", zap.String("addr", config.Redis.Addr))
	default:
		submissions = reservation.NewMemorySubmissionStore(submissionTTL, nil)
		logger.Info("Submission store: memory")
	}

	app := wire.Wiring(repos, cal, submissions, config, logger)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))
	if err := cmd.APIServer(app.Handler, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
