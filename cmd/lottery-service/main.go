package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/fairwayops/lottery-service/internal/config"
	deliveryhttp "github.com/fairwayops/lottery-service/internal/delivery/http"
	"github.com/fairwayops/lottery-service/internal/infrastructure/kafka"
	"github.com/fairwayops/lottery-service/internal/infrastructure/metrics"
	"github.com/fairwayops/lottery-service/internal/infrastructure/migrate"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/repository"
	"github.com/fairwayops/lottery-service/internal/usecase/lottery"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	logger := setupLogger(cfg)
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.MigrationsPath, logger); err != nil {
			log.Fatalf("failed to run migrations: %v\n", err)
		}
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	resultPublisher := kafka.NewResultPublisher(brokers)
	defer resultPublisher.Close()

	lotteryMetrics := metrics.NewLotteryMetrics()

	// Init repos
	entryRepo := repository.NewDefaultEntryRepository(db)
	windowRepo := repository.NewDefaultWindowRepository(db)
	restrictionRepo := repository.NewDefaultRestrictionRepository(db)
	fairnessRepo := repository.NewDefaultFairnessRepository(db)
	speedRepo := repository.NewDefaultSpeedRepository(db)
	members := repository.NewDefaultMemberDirectory(db)
	configRepo := repository.NewDefaultAlgorithmConfigRepository(db)
	runRepo := repository.NewDefaultRunRepository(db)

	// Init lottery usecase
	uc := lottery.NewDefaultLotteryUsecase(
		entryRepo,
		windowRepo,
		restrictionRepo,
		fairnessRepo,
		speedRepo,
		members,
		configRepo,
		runRepo,
		resultPublisher,
		lotteryMetrics,
		logger,
	)

	router := gin.Default()
	handler := deliveryhttp.NewHTTPHandler(uc, logger)
	handler.RegisterRoutes(router)

	// Daily batch: once per hour check whether the processing hour for
	// the target date has arrived and no committed run exists yet.
	if cfg.Scheduler.Enabled {
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				runScheduledDates(uc, cfg, logger)
				<-ticker.C
			}
		}()
	}

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("HTTP server started on %s\n", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}

func runScheduledDates(uc lottery.LotteryUsecase, cfg *config.LotteryConfig, logger *slog.Logger) {
	now := time.Now().UTC()
	if now.Hour() < cfg.Scheduler.ProcessingHour {
		return
	}
	target := now.AddDate(0, 0, cfg.Scheduler.DaysAhead)
	date := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)

	if _, err := uc.GetCommittedRun(date); err == nil {
		return
	}
	pending, err := uc.CountPendingEntries(date)
	if err != nil {
		logger.Error("pending entry check failed", "date", date.Format("2006-01-02"), "error", err.Error())
		return
	}
	if pending == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	run, err := uc.ProcessDate(ctx, date)
	if err != nil {
		logger.Error("scheduled run failed", "date", date.Format("2006-01-02"), "error", err.Error())
		return
	}
	logger.Info("scheduled run committed",
		"date", date.Format("2006-01-02"),
		"runID", run.RunID,
		"assigned", run.EntriesAssigned,
		"unassigned", run.EntriesUnassigned)
}

func setupLogger(cfg *config.LotteryConfig) *slog.Logger {
	var level slog.Level
	switch cfg.LogConfig.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogConfig.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
