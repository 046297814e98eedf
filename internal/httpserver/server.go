// internal/httpserver/server.go
//
// HTTP server wiring for the code-breaker backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, JSON, CORS, timeouts, panic recovery).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: POST /game/new, POST /game/guess, GET /game/state, GET /game/ws.
//   - Daily Challenge endpoint: POST /daily/new (routes_daily.go).
//   - Session-token middleware guarding everything that touches an existing session.
//
// Notes:
//   - CORS is origin-aware and allows the Authorization header.
//   - Each session is reachable only with the token issued when it was created.
//   - The secret never leaves the server while a session is playing.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/joannatufkova/mindset/internal/game"
	"github.com/joannatufkova/mindset/internal/store"
	"github.com/joannatufkova/mindset/internal/token"
)

// Options are the dependencies of a Server.
type Options struct {
	Store        store.Store
	Tokens       *token.Issuer
	Generator    *game.Generator // nil means game.NewRandomGenerator()
	Rule         game.Rule       // scoring rule for new sessions
	DailySalt    string
	ClientOrigin string
	Logger       *zerolog.Logger  // nil means the global logger
	Now          func() time.Time // nil means time.Now
}

// Server bundles router, session store and token issuer.
type Server struct {
	r         *chi.Mux
	store     store.Store
	tokens    *token.Issuer
	gen       *game.Generator
	rule      game.Rule
	dailySalt string
	origin    string
	now       func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	s := &Server{
		r:         chi.NewRouter(),
		store:     opts.Store,
		tokens:    opts.Tokens,
		gen:       opts.Generator,
		rule:      opts.Rule,
		dailySalt: opts.DailySalt,
		origin:    opts.ClientOrigin,
		now:       opts.Now,
	}
	if s.gen == nil {
		s.gen = game.NewRandomGenerator()
	}
	if s.rule == "" {
		s.rule = game.RuleMembership
	}
	if s.origin == "" {
		s.origin = "http://localhost:5173"
	}
	if s.now == nil {
		s.now = time.Now
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(logger))         // request-scoped logger
	s.r.Use(accessLog)                       // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(corsFor(s.origin))               // CORS for the configured client

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		setJSON(w)
		_, _ = w.Write([]byte(`{"service":"mindset-go","endpoints":["/health","POST /game/new","POST /game/guess","GET /game/state","GET /game/ws","POST /daily/new"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		setJSON(w)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// The websocket stream is long-lived: no handler timeout, no forced JSON header.
	s.r.Get("/game/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		r.Post("/game/new", s.handleNewGame)
		r.With(s.requireSession).Post("/game/guess", s.handleGuess)
		r.With(s.requireSession).Get("/game/state", s.handleState)

		s.mountDaily(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		setJSON(w)
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setJSON(w)
		next.ServeHTTP(w, r)
	})
}

func setJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
}

// accessLog writes one info line per request through the request-scoped logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("reqId", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// corsFor enables CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ctxGameKey is the context key type for the authenticated session id.
type ctxGameKey struct{}

// requireSession enforces a valid session token and injects its game id.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gid, err := s.tokens.Parse(bearerOrQuery(r))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxGameKey{}, gid)))
	})
}

func gameIDFrom(ctx context.Context) string {
	gid, _ := ctx.Value(ctxGameKey{}).(string)
	return gid
}

// bearerOrQuery extracts a token from the Authorization header or ?token=.
// Browsers cannot set headers on websocket handshakes, hence the query form.
func bearerOrQuery(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return r.URL.Query().Get("token")
}

// ------------------------------ GAME ---------------------------------------

// newGameRes is returned by POST /game/new and POST /daily/new.
type newGameRes struct {
	GameID      string    `json:"gameId"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Attempt     int       `json:"attempt"`
	Remaining   int       `json:"remaining"`
	MaxAttempts int       `json:"maxAttempts"`
	Rule        game.Rule `json:"rule"`
	Date        string    `json:"date,omitempty"`
}

// handleNewGame draws a random secret and starts a session.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	s.startSession(w, r, s.gen.Secret(), "")
}

// startSession creates, stores and issues a token for a session around secret.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, secret game.Secret, date string) {
	sess, err := game.NewSession(secret, s.rule)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess.Daily = date
	if err := s.store.Create(r.Context(), sess); err != nil {
		s.fail(w, r, err)
		return
	}
	tok, exp, err := s.tokens.Sign(sess.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Str("gameId", sess.ID).Str("rule", string(sess.Rule)).Str("date", date).Msg("session started")
	_ = json.NewEncoder(w).Encode(newGameRes{
		GameID:      sess.ID,
		Token:       tok,
		ExpiresAt:   exp.UTC(),
		Attempt:     sess.Attempt,
		Remaining:   sess.Remaining,
		MaxAttempts: game.MaxAttempts,
		Rule:        sess.Rule,
		Date:        date,
	})
}

// guessReq is the payload for POST /game/guess and websocket messages.
type guessReq struct {
	Guess []string `json:"guess"`
}

// guessRes is returned for each evaluated attempt.
type guessRes struct {
	game.Result
	Secret game.Secret `json:"secret,omitempty"` // revealed once terminal
}

// handleGuess applies one attempt to the caller's session.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	res, err := s.submit(r.Context(), gameIDFrom(r.Context()), req.Guess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// submit runs one attempt through the store so concurrent requests for the
// same session are serialized.
func (s *Server) submit(ctx context.Context, gameID string, guess []string) (guessRes, error) {
	var res game.Result
	sess, err := s.store.Update(ctx, gameID, func(sess *game.Session) error {
		var err error
		res, err = sess.Submit(game.Guess(guess))
		return err
	})
	if err != nil {
		return guessRes{}, err
	}
	out := guessRes{Result: res}
	if res.State.Terminal() {
		out.Secret = sess.Snapshot().Secret
		zerolog.Ctx(ctx).Info().Str("gameId", gameID).Str("state", string(res.State)).Int("attempts", res.Attempt).Msg("session finished")
	}
	return out, nil
}

// handleState returns the caller's session without the secret while playing.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), gameIDFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(sess.Snapshot())
}

// ------------------------------ errors -------------------------------------

// errorStatus maps domain errors to an HTTP status and a stable error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_guess"
	case errors.Is(err, game.ErrSessionOver):
		return http.StatusConflict, "game_finished"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, token.ErrInvalid):
		return http.StatusUnauthorized, "invalid_token"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// fail writes err as a JSON error; unexpected errors are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	}
	writeError(w, status, code)
}

func writeError(w http.ResponseWriter, status int, code string) {
	setJSON(w)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
