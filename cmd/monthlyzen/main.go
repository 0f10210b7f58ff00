package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"monthlyzen/internal/bot"
	"monthlyzen/internal/config"
	"monthlyzen/internal/llm"
	"monthlyzen/internal/repository"
	"monthlyzen/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	resolutionRepo := repository.NewResolutionRepository(db)
	quotaRepo := repository.NewQuotaRepository(db)
	planRepo := repository.NewPlanRepository(db)

	var generator service.PlanGenerator
	if cfg.LLMAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.LLMAPIKey, cfg.LLMModel)
		if err != nil {
			logger.Fatal("create gemini client", zap.Error(err))
		}
		generator = gemini
	} else {
		logger.Warn("no LLM API key configured, /plan will be unavailable")
	}

	quotaSvc := service.NewQuotaService(quotaRepo, cfg.Quota, logger)
	patternSvc := service.NewPatternService(taskRepo, cfg.Analytics.MinSample, logger)
	progressSvc := service.NewProgressService(taskRepo, resolutionRepo)
	insightSvc := service.NewInsightService(patternSvc, cfg.Analytics.DefaultWeeks, cfg.Analytics.RecentWeeks, logger)
	planSvc := service.NewPlanService(quotaSvc, planRepo, resolutionRepo, generator, logger)

	zenBot, err := bot.New(cfg.TelegramToken, userRepo, taskRepo, resolutionRepo, quotaSvc, planSvc, progressSvc, insightSvc, logger)
	if err != nil {
		logger.Fatal("create bot", zap.Error(err))
	}

	scheduler := service.NewSchedulerService(time.Local)
	if err := scheduler.ScheduleMorningBroadcast(cfg.ReportTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := zenBot.SendMorningIntentions(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("morning intention broadcast", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("schedule morning intentions", zap.Error(err))
	}
	if cfg.SweepInterval > 0 {
		if err := scheduler.ScheduleQuotaSweep(cfg.SweepInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := quotaSvc.SweepDueResets(jobCtx, time.Now()); err != nil {
				logger.Warn("quota rollover sweep", zap.Error(err))
			}
		}); err != nil {
			logger.Fatal("schedule quota sweep", zap.Error(err))
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	logger.Info("Monthly Zen bot started")
	if err := zenBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("bot stopped with error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
