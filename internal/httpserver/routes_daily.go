// internal/httpserver/routes_daily.go
//
// HTTP route for the "Daily Challenge" mode.
//   - POST /daily/new → start a session against today's shared secret
//
// Every caller gets an individual session (own attempt budget, own token), but all
// sessions started on the same UTC date share one secret derived from date + salt.
// Attempts go through the regular /game/guess and /game/ws endpoints.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joannatufkova/mindset/internal/daily"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
	})
}

// handleDailyNew starts a session against today's secret.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	s.startSession(w, r, daily.Secret(now, s.dailySalt), daily.DateKey(now))
}
