package http

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      AuthService
	Sessions    SessionValidator
	UserUC      UserService
	CompanyUC   CompanyService
	MSISDNUC    MSISDNService
	TariffUC    TariffPlanService
	UsageUC     UsageService
	StatementUC StatementService
	AlertUC     AlertService
	OrderUC     OrderService
	LogUC       LogService
	DashboardUC DashboardService

	// Limiter opcional; nil deshabilita el rate limiting de las rutas públicas.
	Limiter               RateLimiter
	AuthRequestsPerMinute int

	Cookie   CookieConfig
	Log      *logger.Logger
	Validate *validator.Validate
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	v := deps.Validate
	if v == nil {
		v = NewValidator()
	}

	api := app.Group("/api")

	authed := AuthMiddleware(deps.Sessions, deps.Cookie.Name, log)
	anyRole := RequireRole()
	staff := RequireRole(entity.RoleAdmin, entity.RoleSSR, entity.RoleSMEA)
	operator := RequireRole(entity.RoleAdmin, entity.RoleSSR)
	admin := RequireRole(entity.RoleAdmin)

	// Auth (público, limitado por IP)
	limited := RateLimit(deps.Limiter, "auth", deps.AuthRequestsPerMinute, time.Minute, log)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie, log, v)
	api.Post("/login", limited, authHandler.Login)
	api.Post("/signup", limited, authHandler.Signup)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", limited, authHandler.Login)
	authGroup.Post("/verify-otp", limited, authHandler.VerifyOTP)
	authGroup.Post("/register", limited, authHandler.Register)
	authGroup.Post("/logout", authHandler.Logout)
	api.Post("/reset-password", authed, anyRole, authHandler.ResetPassword)

	// Usuarios
	userHandler := NewUserHandler(deps.UserUC, log, v)
	api.Get("/user", authed, anyRole, userHandler.Me)
	api.Get("/users", authed, staff, userHandler.List)
	api.Post("/users", authed, staff, userHandler.Create)
	api.Patch("/users", authed, staff, userHandler.Update)
	api.Delete("/users", authed, operator, userHandler.Delete)

	// Empresas
	companyHandler := NewCompanyHandler(deps.CompanyUC, log, v)
	api.Get("/companies", authed, operator, companyHandler.List)
	api.Post("/companies", authed, admin, companyHandler.Create)
	api.Get("/companies/:id", authed, staff, companyHandler.GetByID)

	// Líneas
	msisdnHandler := NewMSISDNHandler(deps.MSISDNUC, log, v)
	api.Get("/msisdns", authed, staff, msisdnHandler.List)
	api.Post("/msisdns", authed, staff, msisdnHandler.Upsert)
	api.Patch("/msisdns", authed, staff, msisdnHandler.Update)

	// Planes
	tariffHandler := NewTariffPlanHandler(deps.TariffUC, log, v)
	api.Get("/tariff-plans", authed, anyRole, tariffHandler.List)
	api.Post("/tariff-plans", authed, admin, tariffHandler.Create)
	api.Patch("/tariff-plans", authed, admin, tariffHandler.Update)
	api.Delete("/tariff-plans", authed, admin, tariffHandler.Delete)

	// Consumo
	usageHandler := NewUsageHandler(deps.UsageUC, deps.StatementUC, log, v)
	api.Get("/usage", authed, staff, usageHandler.List)
	api.Post("/usage", authed, staff, usageHandler.Record)
	api.Get("/usage/statement", authed, staff, usageHandler.Statement)

	// Alertas
	alertHandler := NewAlertHandler(deps.AlertUC, log, v)
	api.Get("/alerts", authed, staff, alertHandler.List)
	api.Post("/alerts", authed, staff, alertHandler.Create)
	api.Patch("/alerts", authed, staff, alertHandler.UpdateStatus)

	// Pedidos
	orderHandler := NewOrderHandler(deps.OrderUC, log, v)
	api.Get("/orders", authed, staff, orderHandler.List)
	api.Post("/orders", authed, staff, orderHandler.Create)
	api.Patch("/orders", authed, staff, orderHandler.UpdateStatus)

	// Auditoría
	logHandler := NewLogHandler(deps.LogUC, log, v)
	api.Get("/logs", authed, operator, logHandler.List)
	api.Post("/logs", authed, anyRole, logHandler.Create)

	// Dashboard
	if deps.DashboardUC != nil {
		dashboardHandler := NewDashboardHandler(deps.DashboardUC, log)
		api.Get("/dashboard/summary", authed, staff, dashboardHandler.GetSummary)
	}
}
