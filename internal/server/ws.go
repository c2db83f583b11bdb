package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	apperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/viewer"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = 60 * time.Second
	wsPingInterval = wsPongTimeout * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 16384,
}

// wsMessage is sent to the client after every update. Exactly one field is
// set.
type wsMessage struct {
	View  *viewer.View   `json:"view,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

// handleWebsocket streams the session view. The client sends viewer updates
// as JSON text messages; each one is answered with the new view or an error.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxBodyBytes)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(conn, done)

	view := sess.View()
	if err := writeWS(conn, wsMessage{View: &view}); err != nil {
		return
	}

	for {
		var u viewer.Update
		if err := conn.ReadJSON(&u); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				bad := apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid update")
				if writeWS(conn, wsMessage{Error: &errorResponse{Code: bad.Code, Message: bad.Message}}) != nil {
					return
				}
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket closed", "session", sess.ID, "err", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongTimeout))

		// Keeps the session alive and notices a concurrent delete.
		if _, err := s.sessions.Get(r.Context(), sess.ID); err != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session expired"),
				time.Now().Add(wsWriteTimeout))
			return
		}

		msg := wsMessage{}
		view, err := applyUpdate(sess, u)
		if err != nil {
			msg.Error = &errorResponse{Code: apperrors.GetCode(err), Message: apperrors.UserMessage(err)}
		} else {
			msg.View = &view
		}
		if err := writeWS(conn, msg); err != nil {
			return
		}
	}
}

func (s *Server) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}

func writeWS(conn *websocket.Conn, msg wsMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(msg)
}
