package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/totodo713/miometory-sub002/internal/handler/http/middleware"
	"github.com/totodo713/miometory-sub002/internal/pkg/jwt"
)

func NewRouter(
	env string,
	jwtService jwt.Service,
	workLogHandler WorkLogHandler,
	absenceHandler AbsenceHandler,
	approvalHandler ApprovalHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "miometory"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "If-Match"},
		ExposedHeaders:   []string{"Link", "ETag", "Location"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/worklog", func(r chi.Router) {
				r.Post("/", workLogHandler.Create)
				r.Get("/", workLogHandler.List)
				r.Get("/summary", workLogHandler.Summary)
				r.Get("/{id}", workLogHandler.Get)
				r.Patch("/{id}", workLogHandler.Update)
				r.Delete("/{id}", workLogHandler.Delete)
			})

			r.Route("/absence", func(r chi.Router) {
				r.Post("/", absenceHandler.Create)
				r.Get("/", absenceHandler.List)
				r.Get("/{id}", absenceHandler.Get)
				r.Patch("/{id}", absenceHandler.Update)
				r.Delete("/{id}", absenceHandler.Delete)
			})

			r.Route("/submissions", func(r chi.Router) {
				r.Post("/", approvalHandler.SubmitMonth)
				r.Get("/", approvalHandler.ListSubmissions)
				r.Get("/{id}", approvalHandler.GetSubmission)
				r.Post("/{id}/approve", approvalHandler.ApproveSubmission)
				r.Post("/{id}/reject", approvalHandler.RejectSubmission)
			})

			r.Route("/approvals", func(r chi.Router) {
				r.Post("/submit", approvalHandler.SubmitEntries)
				r.Post("/approve", approvalHandler.ApproveEntries)
				r.Post("/reject", approvalHandler.RejectEntry)
				r.Post("/{id}/recall", approvalHandler.RecallApproval)
			})
		})
	})

	return r
}
