package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	m *metrics.Metrics,
	punchHandler PunchHandler,
	reportHandler ReportHandler,
	hourBankHandler HourBankHandler,
	settingsHandler SettingsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(m.Middleware)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)

		r.Route("/punches", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionPunchCreate))
			r.Post("/", punchHandler.Record)
			r.Get("/today", punchHandler.Today)
		})

		r.Route("/reports", reportRoutes(reportHandler))
		r.Route("/hour-bank", hourBankRoutes(hourBankHandler))

		// Another user's data; handlers check the *.view_all and hourbank.close permissions
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Route("/reports", reportRoutes(reportHandler))
			r.Route("/hour-bank", hourBankRoutes(hourBankHandler))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionSettingsView))
				r.Get("/work-hours", settingsHandler.GetWorkHours)
				r.Get("/holidays", settingsHandler.ListHolidays)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionSettingsManage))
				r.Put("/work-hours", settingsHandler.UpdateWorkHours)
				r.Post("/holidays", settingsHandler.AddHoliday)
				r.Post("/holidays/import", settingsHandler.ImportHolidays)
				r.Delete("/holidays/{date}", settingsHandler.DeleteHoliday)
			})
		})
	})
	return r
}

func reportRoutes(h ReportHandler) func(r chi.Router) {
	return func(r chi.Router) {
		r.Use(middleware.RequireAnyPermission(user.PermissionReportViewOwn, user.PermissionReportViewAll))
		r.Get("/daily", h.Daily)
		r.Get("/period", h.Period)
		r.Get("/weekly", h.Weekly)
		r.Get("/monthly", h.Monthly)
	}
}

func hourBankRoutes(h HourBankHandler) func(r chi.Router) {
	return func(r chi.Router) {
		r.Use(middleware.RequireAnyPermission(
			user.PermissionHourBankViewOwn,
			user.PermissionHourBankViewAll,
			user.PermissionHourBankClose,
		))
		r.Get("/", h.Get)
		r.Post("/close", h.Close)
		r.Get("/preview", h.Preview)
	}
}
