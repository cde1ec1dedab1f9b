package http

import (
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/config"
	"github.com/influmatch/backend/internal/http/dto"
	"github.com/influmatch/backend/internal/http/handlers"
	"github.com/influmatch/backend/internal/metrics"
	"github.com/influmatch/backend/internal/middleware"
)

// Deps carries everything SetupRouter wires into the route tree.
type Deps struct {
	Users       middleware.UserSource
	Auth        *handlers.AuthHandler
	Campaign    *handlers.CampaignHandler
	Application *handlers.ApplicationHandler
	Submission  *handlers.SubmissionHandler
	Favorite    *handlers.FavoriteHandler
	Review      *handlers.ReviewHandler
	Search      *handlers.SearchHandler
	Portfolio   *handlers.PortfolioHandler
	Contact     *handlers.ContactHandler
	Admin       *handlers.AdminHandler
	Cron        *handlers.CronHandler
	WS          *handlers.WSHub
}

// ErrorHandler maps any error returned from a handler to the response
// envelope. Unknown errors are logged and surfaced as INTERNAL_ERROR.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.Envelope{
				Success: false,
				Error:   &dto.ErrorBody{Code: apperr.CodeInternalError, Message: fe.Message},
			})
		}

		ae := apperr.From(err)
		if ae.Code == apperr.CodeInternalError {
			log.Error("unhandled error",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.Error(err),
			)
		}
		return c.Status(ae.HTTPStatus()).JSON(dto.Envelope{
			Success: false,
			Error:   &dto.ErrorBody{Code: ae.Code, Message: ae.Message},
		})
	}
}

func SetupRouter(app *fiber.App, cfg *config.Config, log *zap.Logger, rdb *redis.Client, d Deps) {
	authHandler := d.Auth
	campaignHandler := d.Campaign
	applicationHandler := d.Application
	submissionHandler := d.Submission
	favoriteHandler := d.Favorite
	reviewHandler := d.Review
	searchHandler := d.Search
	adminHandler := d.Admin
	cronHandler := d.Cron
	wsHub := d.WS

	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-Cron-Secret",
	}))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Middleware())

	// Ops
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// Cron (scheduler-driven, guarded by shared secret instead of user auth)
	cron := api.Group("/cron", middleware.RequireCronSecret(cfg.CronSecret))
	cron.Get("/status-transition", cronHandler.StatusTransition)
	cron.Get("/overdue-detection", cronHandler.OverdueDetection)
	cron.Get("/generate-reports", cronHandler.GenerateReports)
	cron.Get("/deadline-reminder", cronHandler.DeadlineReminder)

	api.Use(middleware.RateLimit(rdb, cfg.RateLimitPerMinute, log))

	// Auth (public)
	api.Post("/auth/signup", authHandler.Signup)
	api.Post("/auth/login", authHandler.Login)

	// Pre-signup funnel (public)
	api.Post("/contact", d.Contact.Submit)
	api.Post("/trial/survey", d.Contact.SubmitSurvey)

	// Protected endpoints
	protected := api.Group("", middleware.RequireAuth(cfg.JWTSecret, d.Users))

	protected.Get("/auth/me", authHandler.Me)
	protected.Patch("/users/profile", authHandler.UpdateProfile)

	// Campaigns
	advertiser := middleware.RequireRole("advertiser", "admin")
	influencer := middleware.RequireRole("influencer")

	protected.Post("/campaigns/generate", advertiser, campaignHandler.Generate)
	protected.Post("/campaigns", advertiser, campaignHandler.Create)
	protected.Get("/campaigns", campaignHandler.List)
	protected.Get("/campaigns/open", influencer, campaignHandler.ListOpen)
	protected.Get("/campaigns/:id", campaignHandler.Get)
	protected.Post("/campaigns/:id/regenerate", advertiser, campaignHandler.Regenerate)
	protected.Post("/campaigns/:id/approve", advertiser, campaignHandler.Approve)
	protected.Delete("/campaigns/:id", advertiser, campaignHandler.Delete)
	protected.Get("/campaigns/:id/specs", campaignHandler.GetSpecs)
	protected.Get("/campaigns/:id/events", campaignHandler.GetEvents)

	// Applications
	protected.Post("/campaigns/:id/applications", influencer, applicationHandler.Apply)
	protected.Get("/campaigns/:id/applications", applicationHandler.List)
	protected.Post("/campaigns/:id/applications/:appId/select", advertiser, applicationHandler.Resolve)
	protected.Get("/applications/me", influencer, applicationHandler.ListMine)

	// Submissions
	protected.Post("/campaigns/:id/submissions", influencer, submissionHandler.Submit)
	protected.Get("/campaigns/:id/submissions", submissionHandler.List)
	protected.Post("/campaigns/:id/submissions/:subId/review", advertiser, submissionHandler.Review)

	// Reviews
	protected.Post("/campaigns/:id/reviews", advertiser, reviewHandler.Create)
	protected.Get("/influencers/:id/reviews", reviewHandler.ListByInfluencer)
	protected.Get("/influencers/:id/insights", searchHandler.Insights)

	// Portfolios
	protected.Get("/influencers/:id/portfolio", d.Portfolio.List)
	protected.Post("/portfolio", influencer, d.Portfolio.Add)
	protected.Delete("/portfolio/:itemId", influencer, d.Portfolio.Remove)

	// Favorites
	protected.Get("/favorites", favoriteHandler.List)
	protected.Post("/favorites", favoriteHandler.Add)
	protected.Delete("/favorites", favoriteHandler.Remove)
	protected.Get("/favorites/check", favoriteHandler.Check)

	// Search
	protected.Get("/search", searchHandler.Search)

	// Admin
	admin := protected.Group("/admin", middleware.RequireRole("admin"))
	admin.Get("/penalties", adminHandler.ListPenalties)
	admin.Post("/penalties/:id/resolve", adminHandler.ResolvePenalty)
	admin.Get("/contacts", adminHandler.ListContacts)
	admin.Post("/contacts/:id/handle", adminHandler.HandleContact)
	admin.Get("/stats", adminHandler.Stats)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
