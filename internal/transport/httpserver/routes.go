package httpserver

import (
	"net/http"
	"time"

	"naat/internal/config"
	"naat/internal/transport/httpserver/handler"
	authmw "naat/internal/transport/httpserver/middleware"
	"naat/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLog(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewSupabaseAuth(cfg.Supabase, profiles, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/groups", handlers.ListGroups)
			r.Post("/groups", handlers.CreateGroup)
			r.Post("/groups/join", handlers.JoinGroup)

			r.Route("/groups/{id}", func(r chi.Router) {
				r.Get("/", handlers.GetGroup)
				r.Patch("/", handlers.UpdateGroup)
				r.Delete("/", handlers.DeleteGroup)
				r.Post("/leave", handlers.LeaveGroup)
				r.Post("/accept", handlers.AcceptInvite)

				r.Get("/members", handlers.ListMembers)
				r.Post("/members", handlers.InviteMember)
				r.Delete("/members/{user_id}", handlers.RemoveMember)

				r.Get("/contributions", handlers.ListContributions)
				r.Post("/contributions", handlers.RecordContribution)
				r.Get("/contributions/summary", handlers.ContributionSummary)

				r.Get("/payouts", handlers.ListPayouts)
				r.Post("/payouts", handlers.SchedulePayout)
			})
		})
	})

	return r
}
