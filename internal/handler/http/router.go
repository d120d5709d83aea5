package http

import (
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/config"
	"github.com/cmlabs-hris/planilla-portal-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/unrolled/secure"
)

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Payroll    PayrollHandler
	Aguinaldo  AguinaldoHandler
}

func NewRouter(cfg *config.Config, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "planilla-portal"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      !cfg.IsProduction(),
	})

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(secureMiddleware.Handler)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	punchLimit := httprate.LimitByIP(cfg.RateLimit.Punch, time.Minute)
	bulkLimit := httprate.LimitByIP(cfg.RateLimit.Bulk, time.Minute)

	r.Route("/api/v1", func(r chi.Router) {

		// EventSource cannot send headers; the stream carries its own token.
		r.With(middleware.SSETokenRequired(JWTService)).Get("/attendance/me/events", h.Attendance.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Get("/auth/session", h.Auth.Session)
			r.Post("/auth/logout", h.Auth.Logout)

			// Attendance
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEmployee)
				r.Get("/attendance/me", h.Attendance.GetMyStatus)
				r.With(punchLimit).Post("/attendance/me/punch", h.Attendance.Punch)
				r.Post("/attendance/me/events/token", h.Attendance.IssueStreamToken)
			})
			r.With(middleware.RequireManager).Get("/attendance/{employeeId}", h.Attendance.GetEmployeeStatus)

			r.Route("/payroll", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployee)
					r.Get("/me/records", h.Payroll.ListMyRecords)
					r.Get("/me/stats", h.Payroll.GetMyStats)
				})

				// Access to a single record is decided upstream
				r.Get("/records/{id}/breakdown", h.Payroll.GetBreakdown)

				// Managers only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/employees/{employeeId}/records", h.Payroll.ListEmployeeRecords)
					r.Get("/employees/{employeeId}/stats", h.Payroll.GetEmployeeStats)
					r.Get("/periods/{period}/records", h.Payroll.ListPeriodRecords)
					r.Get("/periods/{period}/summary", h.Payroll.GetPeriodSummary)
					r.Post("/records/{id}/pay", h.Payroll.Pay)
					r.Post("/records/{id}/void", h.Payroll.Void)
					r.With(bulkLimit).Post("/periods/{period}/pay-all", h.Payroll.PayAll)
					r.With(bulkLimit).Post("/periods/{period}/void-all", h.Payroll.VoidAll)
				})
			})

			r.Route("/aguinaldo", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployee)
					r.Get("/me/records", h.Aguinaldo.ListMyRecords)
					r.Get("/me/stats", h.Aguinaldo.GetMyStats)
				})

				r.Get("/late-check", h.Aguinaldo.LateCheck)

				// Managers only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/employees/{employeeId}/records", h.Aguinaldo.ListEmployeeRecords)
					r.Get("/employees/{employeeId}/stats", h.Aguinaldo.GetEmployeeStats)
					r.Get("/years/{year}/records", h.Aguinaldo.ListYearRecords)
					r.Get("/years/{year}/summary", h.Aguinaldo.GetYearSummary)
					r.Post("/records/{id}/pay", h.Aguinaldo.Pay)
					r.Post("/records/{id}/void", h.Aguinaldo.Void)
					r.With(bulkLimit).Post("/years/{year}/pay-all", h.Aguinaldo.PayAll)
					r.With(bulkLimit).Post("/years/{year}/void-all", h.Aguinaldo.VoidAll)
				})
			})
		})
	})

	return r
}
