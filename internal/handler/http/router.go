package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/callforce-backend-go/internal/config"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/callforce-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/callforce-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	appConfig config.AppConfig,
	JWTService jwt.Service,
	callLogHandler CallLogHandler,
	callAttendanceHandler CallAttendanceHandler,
	incentiveHandler IncentiveHandler,
) (*chi.Mux, error) {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(appConfig.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "callforce"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appConfig.Env),
	)

	ingestLimit, err := middleware.RateLimit(appConfig.IngestRateLimit)
	if err != nil {
		return nil, err
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appConfig.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	// Audit rows record the caller's address
	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/call-logs", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionCallLogIngest))
					r.Use(ingestLimit)
					r.Post("/", callLogHandler.Submit)
					r.Post("/bulk", callLogHandler.BulkSubmit)
					r.Post("/import", callLogHandler.Import)
					r.Get("/template", callLogHandler.Template)
				})

				r.With(middleware.RequirePermission(user.PermissionCallLogViewAll)).Get("/", callLogHandler.List)
			})

			r.Route("/call-attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAnyPermission(
						user.PermissionCallAttendanceViewOwn,
						user.PermissionCallAttendanceViewAll,
					))
					r.Get("/", callAttendanceHandler.List)
					r.Get("/summary", callAttendanceHandler.Summary)
					r.Get("/export", callAttendanceHandler.Export)
				})

				// Authority is resolved per employee by the service
				r.Put("/manual", callAttendanceHandler.ManualUpdate)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionCallAttendanceReconcile))
					r.Post("/reconcile", callAttendanceHandler.Reconcile)
					r.Post("/reconcile/range", callAttendanceHandler.ReconcileRange)
					r.Get("/reconcile/status", callAttendanceHandler.ReconcileStatus)
				})

				r.Route("/configs", func(r chi.Router) {
					r.Get("/active", callAttendanceHandler.GetActiveConfig)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionCallAttendanceConfigure))
						r.Get("/", callAttendanceHandler.ListConfigs)
						r.Post("/", callAttendanceHandler.CreateConfig)
						r.Put("/{id}/activate", callAttendanceHandler.ActivateConfig)
					})
				})

				r.Route("/audits", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionCallAttendanceAuditView)).Get("/", callAttendanceHandler.ListAudit)

					// Admin only
					r.With(middleware.AdminOnly).Post("/purge", callAttendanceHandler.PurgeAudit)
				})
			})

			r.Route("/incentives", func(r chi.Router) {
				r.Get("/slabs", incentiveHandler.ListSlabs)
				r.Get("/loan-types", incentiveHandler.ListLoanTypes)
				r.With(middleware.RequireAnyPermission(
					user.PermissionIncentiveViewOwn,
					user.PermissionIncentiveViewAll,
				)).Get("/calculations", incentiveHandler.ListCalculations)
				r.Post("/preview", incentiveHandler.Preview)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAnyPermission(
						user.PermissionIncentiveViewOwn,
						user.PermissionIncentiveViewAll,
					))
					r.Get("/targets", incentiveHandler.ListTargets)
					r.Get("/performance", incentiveHandler.Performance)
					r.Get("/eligibility", incentiveHandler.Eligibility)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionIncentiveManage))
					r.Put("/slabs", incentiveHandler.ReplaceSlabs)
					r.Post("/loan-types", incentiveHandler.CreateLoanType)
					r.Post("/calculate", incentiveHandler.Calculate)
					r.Post("/calculate/bulk", incentiveHandler.BulkCalculate)
					r.Put("/targets", incentiveHandler.SetTarget)
					r.Post("/targets/auto", incentiveHandler.AutoCreateTargets)
				})
			})

			r.Route("/leads", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeadCreate)).Post("/", incentiveHandler.CreateLead)
				r.With(middleware.RequireAnyPermission(
					user.PermissionLeadCreate,
					user.PermissionLeadManage,
				)).Get("/", incentiveHandler.ListLeads)
				r.With(middleware.RequirePermission(user.PermissionLeadManage)).Put("/{id}/status", incentiveHandler.UpdateLeadStatus)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r, nil
}
