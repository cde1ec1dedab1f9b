package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/influmatch/backend/internal/cache"
	"github.com/influmatch/backend/internal/config"
	"github.com/influmatch/backend/internal/db"
	"github.com/influmatch/backend/internal/events"
	apphttp "github.com/influmatch/backend/internal/http"
	"github.com/influmatch/backend/internal/http/handlers"
	"github.com/influmatch/backend/internal/jobs"
	"github.com/influmatch/backend/internal/llm"
	"github.com/influmatch/backend/internal/postcheck"
	"github.com/influmatch/backend/internal/repositories"
	"github.com/influmatch/backend/internal/services"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, cfg.PostgresMaxConn, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	applicationRepo := repositories.NewApplicationRepo(pool)
	submissionRepo := repositories.NewSubmissionRepo(pool)
	eventRepo := repositories.NewEventRepo(pool)
	penaltyRepo := repositories.NewPenaltyRepo(pool)
	reportRepo := repositories.NewReportRepo(pool)
	reviewRepo := repositories.NewReviewRepo(pool)
	favoriteRepo := repositories.NewFavoriteRepo(pool)
	contactRepo := repositories.NewContactRepo(pool)
	surveyRepo := repositories.NewSurveyRepo(pool)
	portfolioRepo := repositories.NewPortfolioRepo(pool)
	statsRepo := repositories.NewStatsRepo(pool)

	// Events + cache
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)
	listCache := cache.New(rdb, cfg.CacheTTL, log)

	// External clients
	llmClient := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, log)
	checker := postcheck.NewChecker(10000, 2, log)

	// Services
	authService := services.NewAuthService(userRepo, cfg, log)
	campaignService := services.NewCampaignService(pool, campaignRepo, eventRepo, llmClient, listCache, publisher, cfg, log)
	applicationService := services.NewApplicationService(pool, campaignRepo, applicationRepo, eventRepo, listCache, publisher, log)
	submissionService := services.NewSubmissionService(pool, campaignRepo, applicationRepo, submissionRepo, eventRepo, checker, publisher, log)
	favoriteService := services.NewFavoriteService(favoriteRepo)
	reviewService := services.NewReviewService(campaignRepo, reviewRepo)
	searchService := services.NewSearchService(campaignRepo, userRepo)

	// Jobs (served through the cron endpoints)
	runner := jobs.NewRunner(pool, campaignRepo, submissionRepo, penaltyRepo, reportRepo, eventRepo, llmClient, publisher, cfg, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	campaignHandler := handlers.NewCampaignHandler(campaignService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	searchHandler := handlers.NewSearchHandler(searchService, submissionService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioRepo)
	contactHandler := handlers.NewContactHandler(contactRepo, surveyRepo)
	adminHandler := handlers.NewAdminHandler(penaltyRepo, contactRepo, statsRepo)
	cronHandler := handlers.NewCronHandler(runner)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: apphttp.ErrorHandler(log),
	})

	apphttp.SetupRouter(app, cfg, log, rdb, apphttp.Deps{
		Users:       userRepo,
		Auth:        authHandler,
		Campaign:    campaignHandler,
		Application: applicationHandler,
		Submission:  submissionHandler,
		Favorite:    favoriteHandler,
		Review:      reviewHandler,
		Search:      searchHandler,
		Portfolio:   portfolioHandler,
		Contact:     contactHandler,
		Admin:       adminHandler,
		Cron:        cronHandler,
		WS:          wsHub,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
