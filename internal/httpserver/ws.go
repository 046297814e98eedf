// internal/httpserver/ws.go
//
// WebSocket transport for attempts: GET /game/ws?token=<session token>.
//
// Protocol (JSON text frames):
//   client → {"guess":["A","B","C","D"]}
//   server → {"type":"result", ...game.Result, "secret"?}   on success
//   server → {"type":"error","error":"<code>"}               on failure
//
// The server closes the connection after a won or lost result. Messages on one
// connection are handled in order; attempts from several connections to the same
// session are serialized by the store.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
)

const (
	wsReadLimit = 1 << 10
	wsWriteWait = 5 * time.Second
	wsIdle      = 10 * time.Minute
)

// wsMessage is every server → client frame.
type wsMessage struct {
	Type string `json:"type"` // "result" | "error"
	guessRes
	Error string `json:"error,omitempty"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || o == s.origin
		},
	}
}

// handleWS upgrades the connection and processes attempts until the session ends
// or the client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	gid, err := s.tokens.Parse(bearerOrQuery(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return
	}
	if _, err := s.store.Get(r.Context(), gid); err != nil {
		s.fail(w, r, err)
		return
	}

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	logger := hlog.FromRequest(r).With().Str("gameId", gid).Logger()
	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdle))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug().Err(err).Msg("websocket closed")
			}
			return
		}

		var req guessReq
		if err := json.Unmarshal(data, &req); err != nil {
			if !writeWS(conn, wsMessage{Type: "error", Error: "bad_json"}) {
				return
			}
			continue
		}

		res, err := s.submit(r.Context(), gid, req.Guess)
		if err != nil {
			_, code := errorStatus(err)
			if code == "internal" {
				logger.Error().Err(err).Msg("websocket attempt")
			}
			if !writeWS(conn, wsMessage{Type: "error", Error: code}) {
				return
			}
			continue
		}

		if !writeWS(conn, wsMessage{Type: "result", guessRes: res}) {
			return
		}
		if res.State.Terminal() {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(res.State)),
				time.Now().Add(wsWriteWait))
			return
		}
	}
}

// writeWS sends one JSON frame and reports whether the connection is still usable.
func writeWS(conn *websocket.Conn, msg wsMessage) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg) == nil
}
