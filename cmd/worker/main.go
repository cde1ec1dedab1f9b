package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/influmatch/backend/internal/config"
	"github.com/influmatch/backend/internal/db"
	"github.com/influmatch/backend/internal/events"
	"github.com/influmatch/backend/internal/jobs"
	"github.com/influmatch/backend/internal/llm"
	"github.com/influmatch/backend/internal/repositories"
)

// Self-hosted alternative to the cron HTTP endpoints: runs the same jobs on
// tickers. Deploy either this or an external scheduler, not both.
func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, cfg.PostgresMaxConn, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	campaignRepo := repositories.NewCampaignRepo(pool)
	submissionRepo := repositories.NewSubmissionRepo(pool)
	penaltyRepo := repositories.NewPenaltyRepo(pool)
	reportRepo := repositories.NewReportRepo(pool)
	eventRepo := repositories.NewEventRepo(pool)

	publisher := events.NewRedisPublisher(rdb, log)
	llmClient := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, log)

	runner := jobs.NewRunner(pool, campaignRepo, submissionRepo, penaltyRepo, reportRepo, eventRepo, llmClient, publisher, cfg, log)

	log.Info("worker started")

	transitionTicker := time.NewTicker(cfg.TransitionInterval)
	overdueTicker := time.NewTicker(cfg.OverdueInterval)
	reportTicker := time.NewTicker(cfg.ReportInterval)
	reminderTicker := time.NewTicker(cfg.ReminderInterval)
	defer transitionTicker.Stop()
	defer overdueTicker.Stop()
	defer reportTicker.Stop()
	defer reminderTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-transitionTicker.C:
			runTransitions(ctx, runner, log)
		case <-overdueTicker.C:
			if _, err := runner.OverdueDetection(ctx); err != nil {
				log.Error("overdue detection failed", zap.Error(err))
			}
		case <-reportTicker.C:
			if _, err := runner.GenerateReports(ctx); err != nil {
				log.Error("report generation failed", zap.Error(err))
			}
		case <-reminderTicker.C:
			if _, err := runner.DeadlineReminder(ctx); err != nil {
				log.Error("deadline reminder failed", zap.Error(err))
			}
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runTransitions(ctx context.Context, runner *jobs.Runner, log *zap.Logger) {
	if _, err := runner.AutoOpen(ctx); err != nil {
		log.Error("auto-open failed", zap.Error(err))
	}
	if _, err := runner.AutoComplete(ctx); err != nil {
		log.Error("auto-complete failed", zap.Error(err))
	}
}
