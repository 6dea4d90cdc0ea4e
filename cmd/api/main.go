package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/telco-selfcare-api/docs"
	appanalytics "github.com/jhoicas/telco-selfcare-api/internal/application/analytics"
	"github.com/jhoicas/telco-selfcare-api/internal/application/auth"
	"github.com/jhoicas/telco-selfcare-api/internal/application/report"
	"github.com/jhoicas/telco-selfcare-api/internal/application/usecase"
	"github.com/jhoicas/telco-selfcare-api/internal/infrastructure/jobs"
	infrapdf "github.com/jhoicas/telco-selfcare-api/internal/infrastructure/pdf"
	"github.com/jhoicas/telco-selfcare-api/internal/infrastructure/postgres"
	"github.com/jhoicas/telco-selfcare-api/internal/infrastructure/ratelimit"
	"github.com/jhoicas/telco-selfcare-api/internal/infrastructure/sms"
	httpRouter "github.com/jhoicas/telco-selfcare-api/internal/interfaces/http"
	"github.com/jhoicas/telco-selfcare-api/pkg/config"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// @title                      Telco Self-Care API
// @version                    1.0
// @description                Backend del portal de autogestión para clientes de telecomunicaciones.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones al día")
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	msisdnRepo := postgres.NewMSISDNRepository(pool)
	tariffRepo := postgres.NewTariffPlanRepository(pool)
	usageRepo := postgres.NewUsageRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	otpSender, err := sms.New(cfg.SMS, cfg.Auth.OTPTTL, log.Component("sms"))
	if err != nil {
		log.Fatal().Err(err).Msg("proveedor SMS")
	}

	// Redis es opcional: sin REDIS_URL no hay rate limiting.
	var (
		limiter  httpRouter.RateLimiter
		attempts auth.AttemptCounter
	)
	if cfg.Redis.URL != "" {
		redisClient, err := ratelimit.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, rate limiting deshabilitado")
		} else {
			defer redisClient.Close()
			l := ratelimit.New(redisClient, "selfcare")
			limiter = l
			attempts = l
		}
	}

	authUC := auth.NewAuthUseCase(auth.Deps{
		Users:     userRepo,
		Companies: companyRepo,
		Sessions:  sessionRepo,
		Logs:      auditRepo,
		Tx:        txRunner,
		Sender:    otpSender,
		Attempts:  attempts,
		Log:       log,
	}, auth.Config{
		JWTSecret:      cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		SessionTTL:     cfg.Auth.SessionTTL,
		OTPTTL:         cfg.Auth.OTPTTL,
		OTPMaxAttempts: cfg.Auth.OTPMaxAttempts,
	})

	userUC := usecase.NewUserUseCase(userRepo, auditRepo, log)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	msisdnUC := usecase.NewMSISDNUseCase(msisdnRepo, tariffRepo)
	tariffUC := usecase.NewTariffPlanUseCase(tariffRepo)
	usageUC := usecase.NewUsageUseCase(usageRepo, msisdnRepo, txRunner)
	alertUC := usecase.NewAlertUseCase(alertRepo, msisdnRepo)
	orderUC := usecase.NewOrderUseCase(orderRepo, auditRepo, txRunner, log)
	logUC := usecase.NewLogUseCase(auditRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(userRepo, msisdnRepo, alertRepo, orderRepo, usageRepo)

	// PDF: extracto mensual de consumo por empresa
	statementUC := report.NewStatementUseCase(companyRepo, msisdnRepo, usageRepo, infrapdf.NewStatementGenerator())

	scheduler := jobs.NewScheduler(log)
	if err := scheduler.AddSessionPurge(cfg.Jobs.SessionPurgeSchedule, authUC); err != nil {
		log.Fatal().Err(err).Msg("programar purga de sesiones")
	}
	scheduler.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),

		// Detrás de un proxy: c.IP() toma X-Forwarded-For solo si viene de TRUSTED_PROXIES.
		EnableTrustedProxyCheck: len(cfg.HTTP.TrustedProxies) > 0,
		TrustedProxies:          cfg.HTTP.TrustedProxies,
		ProxyHeader:             proxyHeader(cfg.HTTP.TrustedProxies),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(corsMiddleware(cfg.HTTP.CORSAllowedOrigins))
	app.Use(httpRouter.MetricsMiddleware())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Telco Self-Care API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", httpRouter.MetricsHandler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:                authUC,
		Sessions:              authUC,
		UserUC:                userUC,
		CompanyUC:             companyUC,
		MSISDNUC:              msisdnUC,
		TariffUC:              tariffUC,
		UsageUC:               usageUC,
		StatementUC:           statementUC,
		AlertUC:               alertUC,
		OrderUC:               orderUC,
		LogUC:                 logUC,
		DashboardUC:           dashboardUC,
		Limiter:               limiter,
		AuthRequestsPerMinute: cfg.Auth.AuthRequestsPerMinute,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
		},
		Log:      log.Component("http"),
		Validate: httpRouter.NewValidator(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	scheduler.Stop(shutdownCtx)

	log.Info().Msg("aplicación detenida")
}

func proxyHeader(trusted []string) string {
	if len(trusted) == 0 {
		return ""
	}
	return fiber.HeaderXForwardedFor
}

// corsMiddleware sin orígenes configurados permite cualquiera pero sin credenciales (cookies).
func corsMiddleware(origins []string) fiber.Handler {
	if len(origins) == 0 {
		return cors.New()
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	})
}
