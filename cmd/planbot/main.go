package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"planbot/internal/ai"
	"planbot/internal/bot"
	"planbot/internal/config"
	"planbot/internal/repository"
	"planbot/internal/service"
	"planbot/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	zapLog, err := logger.New(&logger.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
		Output: os.Getenv("LOG_OUTPUT"),
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zapLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("load config", zap.Error(err))
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		zapLog.Fatal("open database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	planSvc := service.NewPlanService(planRepo, cfg.Timezone)
	scoreSvc := service.NewScoreService(scoreRepo, cfg.ScoreFailed, cfg.Timezone)
	adminSvc := service.NewAdminService(adminRepo, userRepo, planRepo, cfg.AdminID)

	aiClient := ai.NewClient(ai.ClientConfig{
		BaseURL: cfg.OpenAIBaseURL,
		APIKey:  cfg.OpenAIKey,
		Model:   cfg.OpenAIModel,
	}, zapLog)
	extractor := ai.NewPlanExtractor(aiClient, zapLog)

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, planSvc, scoreSvc, adminSvc, extractor, aiClient, &cfg, zapLog)
	if err != nil {
		zapLog.Fatal("create bot", zap.Error(err))
	}

	reminderSvc := service.NewReminderService(userRepo, planRepo, telegramBot, cfg.Timezone, zapLog)

	scheduler := service.NewSchedulerService(cfg.Timezone)
	if _, err := scheduler.ScheduleEveryMinute(runJob(zapLog, "minute_tick", reminderSvc.MinuteTick)); err != nil {
		zapLog.Fatal("schedule minute tick", zap.Error(err))
	}
	if _, err := scheduler.ScheduleDaily(cfg.SummaryTime, runJob(zapLog, "daily_summary", reminderSvc.DailySummary)); err != nil {
		zapLog.Fatal("schedule daily summary", zap.Error(err))
	}
	if _, err := scheduler.ScheduleDaily(cfg.PendingCheckTime, runJob(zapLog, "pending_check", reminderSvc.PendingCheck)); err != nil {
		zapLog.Fatal("schedule pending check", zap.Error(err))
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return telegramBot.Start(ctx)
	})
	group.Go(func() error {
		scheduler.Start()
		<-ctx.Done()
		scheduler.Stop()
		return nil
	})

	zapLog.Info("planbot started",
		zap.String("summary_time", cfg.SummaryTime),
		zap.String("pending_check_time", cfg.PendingCheckTime),
		zap.String("timezone", cfg.Timezone.String()))

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		zapLog.Fatal("shutdown", zap.Error(err))
	}
	zapLog.Info("planbot stopped")
}

// runJob wraps a reminder job with a timeout and error logging so the cron
// scheduler's func() signature stays simple.
func runJob(zapLog *zap.Logger, name string, job func(context.Context, time.Time) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := job(ctx, time.Now()); err != nil {
			zapLog.Error("scheduled job failed",
				zap.String(logger.FieldJob, name), zap.Error(err))
		}
	}
}
