// Package handlers exposes the bank over HTTP: one action endpoint, a
// snapshot endpoint, a per-game websocket feed and the account routes.
package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/magnatehq/magnate/internal/database"
	"github.com/magnatehq/magnate/internal/engine"
	"github.com/magnatehq/magnate/internal/notify"
)

// Server bundles the processor and its collaborators for the HTTP layer.
// Notifier is nil when no Redis backend is configured; the websocket feed
// then reports itself unavailable.
type Server struct {
	Processor *engine.Processor
	Store     *database.Store
	Notifier  *notify.Publisher
	Log       *logrus.Logger
}

func NewServer(processor *engine.Processor, store *database.Store, notifier *notify.Publisher, logger *logrus.Logger) *Server {
	return &Server{Processor: processor, Store: store, Notifier: notifier, Log: logger}
}

// Routes registers every endpoint on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/create", s.CreateUserHandler)
	mux.HandleFunc("POST /user/login", s.LoginHandler)
	mux.HandleFunc("GET /user/me", s.MeHandler)
	mux.HandleFunc("POST /game/action", s.ActionHandler)
	mux.HandleFunc("GET /game/{id}/state", s.StateHandler)
	mux.HandleFunc("GET /game/{id}/events", s.EventsHandler)
	mux.HandleFunc("GET /game/ws/{id}", s.GameWSHandler)
	return mux
}
