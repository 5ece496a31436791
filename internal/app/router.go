package app

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"examboard/internal/app/observability"
	"examboard/internal/auth"
	"examboard/internal/exam"
	"examboard/internal/question"
	"examboard/internal/report"
)

func NewRouter(cfg Config, db *sql.DB, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	collector := observability.NewCollector(db, logger)
	r.Use(collector.Middleware)

	authSvc := auth.NewService(db, auth.ServiceConfig{})
	authHandler := auth.NewHandler(authSvc)

	questionSvc := question.NewService(db)
	questionHandler := question.NewHandler(questionSvc)

	examSvc := exam.NewService(db, questionSvc, cfg.OperatorEmail)
	examHandler := exam.NewHandler(examSvc)

	reportSvc := report.NewService(db)
	reportHandler := report.NewHandler(reportSvc)

	loginLimiter := NewIPRateLimiter(cfg.AuthRateLimitPerMin, time.Minute)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/metrics", collector.MetricsHandler)

	r.Route("/api/v1", func(api chi.Router) {
		api.With(RateLimitMiddleware(loginLimiter)).Post("/auth/login", authHandler.Login)

		api.Group(func(secure chi.Router) {
			secure.Use(authHandler.RequireAuth)
			secure.Use(CSRFMiddleware(cfg.CSRFEnforced))

			secure.Get("/auth/me", authHandler.Me)
			secure.Post("/auth/logout", authHandler.Logout)

			secure.Get("/questions", questionHandler.List)
			secure.Post("/questions", questionHandler.Create)
			secure.Post("/questions/import", questionHandler.Import)
			secure.Get("/questions/export.xlsx", questionHandler.ExportExcel)
			secure.Get("/questions/{id}", questionHandler.Get)
			secure.Put("/questions/{id}", questionHandler.Update)
			secure.Delete("/questions/{id}", questionHandler.Delete)

			secure.Get("/exams", examHandler.List)
			secure.Post("/exams", examHandler.Create)
			secure.Post("/exams/draw", examHandler.Draw)
			secure.Get("/exams/{id}", examHandler.Get)
			secure.Delete("/exams/{id}", examHandler.Delete)
			secure.Get("/exams/{id}/export", examHandler.Export)

			secure.Get("/report/summary", reportHandler.Summary)
		})
	})

	return r
}
