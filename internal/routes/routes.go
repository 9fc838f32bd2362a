// Package routes defines the API routing configuration.
// It wires repositories, services and handlers, and applies middleware.
package routes

import (
	"time"

	"github.com/upishield/upishield/internal/config"
	"github.com/upishield/upishield/internal/handlers"
	"github.com/upishield/upishield/internal/middleware"
	"github.com/upishield/upishield/internal/repositories"
	"github.com/upishield/upishield/internal/services/auth"
	"github.com/upishield/upishield/internal/services/notification"
	"github.com/upishield/upishield/internal/services/scoring"
	"github.com/upishield/upishield/internal/services/transaction"
	"github.com/upishield/upishield/internal/services/twofactor"
	"github.com/upishield/upishield/internal/services/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	txRepo := repositories.NewTransactionRepository(db)

	// Services
	notifier := notification.NewService()
	authService := auth.NewService(userRepo, repositories.CacheService, notifier)
	userService := user.NewService(userRepo)
	twoFactorService := twofactor.NewService(userRepo, repositories.CacheService)
	txService := transaction.NewService(txRepo, repositories.CacheService)

	var remote scoring.Scorer
	if url := config.GetEnv("ML_API_URL", "http://127.0.0.1:5000/predict"); url != "" && url != "disabled" {
		remote = scoring.NewRemoteScorer(url, config.GetDurationEnv("ML_API_TIMEOUT", scoring.DefaultRemoteTimeout))
	}
	scoringService := scoring.NewService(remote, scoring.NewHeuristicScorer(), txRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	twoFactorHandler := handlers.NewTwoFactorHandler(twoFactorService)
	detectHandler := handlers.NewDetectHandler(scoringService, txService, userService, notifier)
	txHandler := handlers.NewTransactionHandler(txService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	app.Get("/health", handlers.Health)
	app.Get("/api", handlers.APIInfo)

	api := app.Group("/api")

	// Public auth endpoints, with tighter limits on credentials.
	authGroup := api.Group("/auth")
	authGroup.Post("/register", rateLimit(5, time.Minute), authHandler.Register)
	authGroup.Post("/login", rateLimit(10, time.Hour), authHandler.Login)
	authGroup.Post("/refresh", rateLimit(10, 15*time.Minute), authHandler.RefreshToken)
	authGroup.Post("/forgot-password", rateLimit(5, 15*time.Minute), authHandler.ForgotPassword)
	authGroup.Post("/verify-otp", rateLimit(10, 15*time.Minute), authHandler.VerifyOTP)
	authGroup.Post("/reset-password", rateLimit(5, 15*time.Minute), authHandler.ResetPassword)
	authGroup.Post("/2fa/verify", authMiddleware.OptionalHandler, twoFactorHandler.Verify)

	// Protected routes
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/detect", detectHandler.Detect)

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/profile", authHandler.Profile)
	protected.Post("/auth/change-password", authHandler.ChangePassword)
	protected.Delete("/auth/account", authHandler.DeleteAccount)
	protected.Post("/auth/2fa/setup", twoFactorHandler.Setup)
	protected.Post("/auth/2fa/disable", twoFactorHandler.Disable)

	tx := protected.Group("/transactions")
	tx.Get("/", txHandler.List)
	tx.Get("/stats", txHandler.Stats)
	tx.Get("/export/csv", txHandler.ExportCSV)
	tx.Get("/:id", txHandler.Get)
	tx.Patch("/:id/review", txHandler.Review)
	tx.Delete("/:id", txHandler.Delete)
}

// rateLimit builds a per-IP limiter for sensitive endpoints.
func rateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}
