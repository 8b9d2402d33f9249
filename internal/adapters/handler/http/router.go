package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vncsmyrnk/election/internal/core/ports"
)

type Handlers struct {
	Auth     *AuthHandler
	Students *StudentHandler
	Votes    *VoteHandler
	Window   *WindowHandler
	Election *ElectionHandler
}

func NewHandler(h Handlers, auth ports.AuthService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/window", h.Window.GetWindow)

		r.Route("/students", func(r chi.Router) {
			r.Post("/", h.Students.Register)
			r.Get("/{registerNumber}", h.Students.GetStudent)
		})

		r.Post("/votes", h.Votes.CastVote)
		r.Get("/results/declaration", h.Election.GetDeclaration)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin(auth))

				r.Get("/results", h.Election.GetResults)
				r.Post("/declaration", h.Election.DeclareWinner)
				r.Delete("/declaration", h.Election.ResetDeclaration)
				r.Post("/election/reset", h.Election.ResetElection)

				r.Get("/students", h.Students.ListStudents)
				r.Delete("/students", h.Students.DeleteAllStudents)
				r.Get("/voters", h.Students.ListVoters)

				r.Route("/schedule", func(r chi.Router) {
					r.Get("/", h.Window.GetSchedule)
					r.Put("/", h.Window.SetSchedule)
					r.Delete("/", h.Window.ClearSchedule)
					r.Post("/preset", h.Window.OpenPreset)
					r.Post("/enable", h.Window.EnableNow)
					r.Post("/disable", h.Window.Disable)
					r.Put("/auto-declare", h.Window.SetAutoDeclare)
				})
			})
		})
	})

	return r
}
