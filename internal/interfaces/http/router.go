package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/Portal-api/internal/application/analytics"
	"github.com/jhoicas/Portal-api/internal/application/auth"
	"github.com/jhoicas/Portal-api/internal/application/lifecycle"
	"github.com/jhoicas/Portal-api/internal/application/reports"
	"github.com/jhoicas/Portal-api/internal/domain/policy"
	"github.com/jhoicas/Portal-api/pkg/logger"
)

// Observer métricas HTTP y su exposición (lo implementa metrics.Metrics).
type Observer interface {
	httpObserver
	Handler() http.Handler
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Policy         *policy.Policy
	SessionUC      *auth.SessionUseCase
	Lifecycle      *lifecycle.Manager
	DashboardUC    *appanalytics.DashboardUseCase
	AccessReportUC *reports.AccessReportUseCase
	JWTSecret      string
	PublicLimiter  *IPRateLimiter // nil = sin límite en endpoints públicos
	RequestTimeout time.Duration
	Logger         *logger.Logger
	Metrics        Observer // nil = sin métricas
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	var obs httpObserver
	if deps.Metrics != nil {
		obs = deps.Metrics
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api", AccessLog(deps.Logger, obs), RequestTimeout(deps.RequestTimeout))

	public := func(h fiber.Handler) []fiber.Handler {
		if deps.PublicLimiter == nil {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{RateLimit(deps.PublicLimiter), h}
	}

	authHandler := NewAuthHandler(deps.SessionUC)
	requestHandler := NewAccountRequestHandler(deps.Lifecycle)
	accountHandler := NewAccountHandler(deps.Lifecycle)
	approvalHandler := NewStrategicApprovalHandler(deps.Lifecycle)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	reportHandler := NewReportHandler(deps.AccessReportUC)

	// Público (con rate limit por IP)
	api.Post("/auth/session", public(authHandler.StartSession)...)
	api.Post("/account-requests", public(requestHandler.Submit)...)

	// Rutas protegidas: Bearer Token y cuenta activa con el rol almacenado
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveAccount(deps.SessionUC))
	pol := deps.Policy

	// Usuario actual
	protected.Get("/me", authHandler.Me)
	protected.Put("/me/profile", accountHandler.UpdateProfile)

	// Solicitudes de acceso
	requests := protected.Group("/account-requests", RequirePermission(pol, policy.CapApproveAccounts))
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Post("/:id/approve", requestHandler.Approve)
	requests.Post("/:id/reject", requestHandler.Reject)

	// Cuentas (GET /:id también lo resuelve el manager para la cuenta propia)
	accounts := protected.Group("/accounts")
	accounts.Get("/", RequirePermission(pol, policy.CapManageUsers), accountHandler.List)
	accounts.Get("/:id", accountHandler.GetByID)
	accounts.Put("/:id", RequirePermission(pol, policy.CapManageUsers), accountHandler.Update)
	accounts.Delete("/:id", RequirePermission(pol, policy.CapManageUsers), accountHandler.Delete)

	// Aprobaciones estratégicas
	approvals := protected.Group("/strategic-approvals")
	approvals.Get("/", approvalHandler.List)
	approvals.Post("/", approvalHandler.Create)
	approvals.Get("/:id", approvalHandler.GetByID)
	reviewers := RequirePermission(pol, policy.CapStrategicDecisions, policy.CapApproveStrategic)
	approvals.Post("/:id/review", reviewers, approvalHandler.Review)
	approvals.Post("/:id/under-review", reviewers, approvalHandler.MarkUnderReview)

	// Tableros e informes
	protected.Get("/dashboard/executive", RequirePermission(pol, policy.CapViewAllData), dashboardHandler.GetExecutive)
	protected.Get("/dashboard/admin", RequirePermission(pol, policy.CapManageUsers), dashboardHandler.GetAdmin)
	protected.Get("/reports/access.pdf", RequirePermission(pol, policy.CapCustomReporting), reportHandler.AccessPDF)
}
