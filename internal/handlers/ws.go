// internal/handlers/ws.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/magnatehq/magnate/internal/engine"
	"github.com/magnatehq/magnate/internal/middleware"
)

// GameWSHandler streams update notifications for one game over a websocket.
// The socket is read-only for clients: every mutation goes through the
// action endpoint, and each notification tells the client which version to
// catch up to.
func (s *Server) GameWSHandler(w http.ResponseWriter, r *http.Request) {
	if s.Notifier == nil {
		http.Error(w, "realtime feed not configured", http.StatusServiceUnavailable)
		return
	}
	gameID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}
	if _, err := s.Store.GetGame(r.Context(), gameID); err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{"game"},
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.Log.Warnf("websocket accept error for game %s: %v", gameID, err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler exit")

	if c.Subprotocol() != "game" {
		c.Close(websocket.StatusPolicyViolation, "client must use the 'game' subprotocol")
		return
	}

	userID, err := authenticate(r)
	if err != nil {
		c.Close(websocket.StatusPolicyViolation, "authentication failed")
		return
	}
	middleware.LogWebSocketConnect(s.Log, r.RemoteAddr, r.URL.Path)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub := s.Notifier.Subscribe(ctx, gameID)
	defer sub.Close()

	// Drain client frames so pings are answered and a close is noticed.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.Read(ctx); err != nil {
				return
			}
		}
	}()

	s.Log.WithField("game", gameID).WithField("user", userID).Debug("websocket subscribed")
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			middleware.LogWebSocketDisconnect(s.Log, r.RemoteAddr, r.URL.Path, nil)
			c.Close(websocket.StatusNormalClosure, "bye")
			return
		case msg, ok := <-ch:
			if !ok {
				c.Close(websocket.StatusGoingAway, "feed closed")
				return
			}
			if err := c.Write(ctx, websocket.MessageText, []byte(msg.Payload)); err != nil {
				status := websocket.CloseStatus(err)
				if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
					middleware.LogWebSocketDisconnect(s.Log, r.RemoteAddr, r.URL.Path, err)
				}
				return
			}
		}
	}
}
