package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/zuri-pay/zuri_pay/internal/auth"
	"github.com/zuri-pay/zuri_pay/internal/config"
	"github.com/zuri-pay/zuri_pay/internal/funding"
	"github.com/zuri-pay/zuri_pay/internal/identity"
	"github.com/zuri-pay/zuri_pay/internal/ledger"
	"github.com/zuri-pay/zuri_pay/internal/middleware"
	"github.com/zuri-pay/zuri_pay/internal/notification"
	"github.com/zuri-pay/zuri_pay/internal/payments"
	"github.com/zuri-pay/zuri_pay/internal/retry"
	"github.com/zuri-pay/zuri_pay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	var walletStore wallet.Store
	var ledgerWriter ledger.Writer
	if d.DB != nil {
		walletStore = wallet.NewPostgresStore(d.DB)
		ledgerWriter = ledger.NewPostgresWriter(d.DB)
	} else {
		walletStore = wallet.NewMemoryStore()
		ledgerWriter = ledger.NewInMemory()
	}

	retryCfg := retry.Config{MaxAttempts: d.Cfg.RetryAttempts, BaseDelay: d.Cfg.RetryBase}
	notifier := notification.NewLoggerNotifier(d.Logger)
	walletSvc := wallet.NewService(walletStore, ledgerWriter, notifier, retryCfg, d.Logger)

	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}
	identitySvc := identity.NewService(identityRepo)
	authSvc := auth.NewService(d.Cfg, identityRepo)
	authHandler := auth.NewHandler(identitySvc, authSvc, walletSvc)

	paymentSvc := payments.NewService(walletSvc)
	paymentHandler := payments.NewHandler(paymentSvc)
	fundingSvc := funding.NewService(walletSvc)
	fundingHandler := funding.NewHandler(fundingSvc)
	walletHandler := wallet.NewHandler(walletSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	RegisterIdentityRoutes(api, identitySvc, walletSvc, d.Logger)
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	jwtmw := middleware.JWTAuth(d.Cfg, identityRepo)
	protected := api.Group("", jwtmw)
	protected.Post("/auth/logout", authHandler.Logout)
	RegisterWalletMeRoute(protected, walletSvc, identityRepo)
	RegisterWalletRoutes(protected, walletHandler)
	RegisterFundingRoutes(protected, fundingHandler)
	RegisterPaymentRoutes(protected, paymentHandler)

	return nil
}
