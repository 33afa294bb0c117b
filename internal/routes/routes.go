package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/mangrovewatch/backend/internal/authz"
	"github.com/mangrovewatch/backend/internal/config"
	"github.com/mangrovewatch/backend/internal/handlers"
	"github.com/mangrovewatch/backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	profileHandler *handlers.ProfileHandler,
	reportHandler *handlers.ReportHandler,
	areaHandler *handlers.AreaHandler,
	alertHandler *handlers.AlertHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Leaderboard is public so the community page renders without a session.
	api.Get("/leaderboard", profileHandler.Leaderboard)

	jwt := middleware.JWTProtected(cfg)

	api.Get("/profiles/me", jwt, profileHandler.Me)
	api.Put("/profiles/me", jwt, profileHandler.UpdateMe)
	api.Get("/points/history", jwt, profileHandler.PointsHistory)
	api.Get("/points/balance", jwt, profileHandler.PointsBalance)

	api.Post("/reports", jwt, reportHandler.Submit)
	api.Get("/reports", jwt, reportHandler.List)
	api.Get("/reports/stats", jwt, reportHandler.Stats)
	api.Get("/reports/export/csv", jwt, middleware.RequireAction(db, authz.ActionExportReports), reportHandler.ExportCSV)
	api.Get("/reports/:id", jwt, reportHandler.Get)
	api.Put("/reports/:id/status", jwt, middleware.RequireAction(db, authz.ActionUpdateReportStatus), reportHandler.UpdateStatus)

	api.Get("/areas", jwt, areaHandler.List)
	api.Post("/areas", jwt, middleware.RequireAction(db, authz.ActionCreateArea), areaHandler.Create)
	api.Get("/areas/:id", jwt, areaHandler.Get)

	api.Get("/alerts", jwt, alertHandler.List)
	api.Put("/alerts/:id/read", jwt, alertHandler.MarkRead)
}
