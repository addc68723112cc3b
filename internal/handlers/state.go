// internal/handlers/state.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/magnatehq/magnate/internal/engine"
)

// StateHandler returns a consistent snapshot of one game. Any authenticated
// user may spectate; mutation is guarded at the action endpoint.
func (s *Server) StateHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := authenticate(r); err != nil {
		writeError(w, &engine.Error{Kind: engine.KindAuth, Msg: "invalid or missing auth token"})
		return
	}
	gameID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, &engine.Error{Kind: engine.KindValidation, Msg: "invalid game id"})
		return
	}

	snap, err := s.Processor.Snapshot(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.Log.WithError(err).Warn("failed to write snapshot response")
	}
}

// EventsHandler returns the event log after ?since=<version>, oldest first,
// for clients catching up from a realtime notification.
func (s *Server) EventsHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := authenticate(r); err != nil {
		writeError(w, &engine.Error{Kind: engine.KindAuth, Msg: "invalid or missing auth token"})
		return
	}
	gameID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, &engine.Error{Kind: engine.KindValidation, Msg: "invalid game id"})
		return
	}

	var since int64
	if v := r.URL.Query().Get("since"); v != "" {
		since, err = strconv.ParseInt(v, 10, 64)
		if err != nil || since < 0 {
			writeError(w, &engine.Error{Kind: engine.KindValidation, Msg: "invalid since parameter"})
			return
		}
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, &engine.Error{Kind: engine.KindValidation, Msg: "invalid limit parameter"})
			return
		}
	}

	if _, err := s.Store.GetGame(r.Context(), gameID); err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			writeError(w, &engine.Error{Kind: engine.KindNotFound, Msg: "game not found"})
			return
		}
		writeError(w, &engine.Error{Kind: engine.KindUpstream, Msg: "loading game", Err: err})
		return
	}
	events, err := s.Store.GetEvents(r.Context(), gameID, since, limit)
	if err != nil {
		writeError(w, &engine.Error{Kind: engine.KindUpstream, Msg: "loading events", Err: err})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(events); err != nil {
		s.Log.WithError(err).Warn("failed to write events response")
	}
}
