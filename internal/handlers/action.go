// internal/handlers/action.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/magnatehq/magnate/internal/engine"
	"github.com/magnatehq/magnate/internal/models"
)

// actionRequest is the wire shape of one submitted intent. game_id is absent
// for CREATE_GAME; expected_version is ignored for CREATE_GAME and
// JOIN_GAME.
type actionRequest struct {
	GameID          uuid.UUID `json:"game_id,omitempty"`
	ExpectedVersion int64     `json:"expected_version"`
	models.Intent
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// ActionHandler is the single entry point for all game intents.
func (s *Server) ActionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		writeError(w, &engine.Error{Kind: engine.KindAuth, Msg: "invalid or missing auth token"})
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &engine.Error{Kind: engine.KindValidation, Msg: "invalid request payload"})
		return
	}

	result, err := s.Processor.Apply(r.Context(), engine.Request{
		GameID:          req.GameID,
		UserID:          userID,
		Intent:          req.Intent,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		if engine.KindOf(err) == engine.KindUpstream {
			s.Log.WithError(err).WithFields(logrus.Fields{
				"game": req.GameID, "action": req.Intent.Type,
			}).Error("action failed upstream")
		}
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if req.Intent.Type == models.IntentCreateGame {
		w.WriteHeader(http.StatusCreated)
	}
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.Log.WithError(err).Warn("failed to write action response")
	}
}

// writeError maps a processor failure onto its HTTP status. Upstream detail
// is never echoed to the client.
func writeError(w http.ResponseWriter, err error) {
	kind := engine.KindOf(err)
	msg := err.Error()
	if kind == engine.KindUpstream {
		msg = "internal error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(kind.HTTPStatus())
	json.NewEncoder(w).Encode(errorResponse{Error: msg, Kind: kind.String()})
}
