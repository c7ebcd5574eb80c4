package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewHandler(pollHandler *PollHandler, voteHandler *VoteHandler, actor *ActorMiddleware) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(actor.Handler)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", pollHandler.ListPolls)
			r.Post("/", pollHandler.CreatePoll)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", pollHandler.GetPoll)
				r.Patch("/", pollHandler.UpdatePoll)
				r.Delete("/", pollHandler.DeletePoll)
				r.Get("/results", pollHandler.GetResults)
				r.Post("/votes", voteHandler.VoteOnPoll)
				r.Get("/votes/me", voteHandler.GetMyVotes)
				r.Get("/voted", voteHandler.HasVoted)
			})
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/polls", pollHandler.ListUserPolls)
			r.Get("/votes", voteHandler.ListUserVotes)
		})
	})

	return r
}
