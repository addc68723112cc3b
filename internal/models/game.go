// internal/models/game.go
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/magnatehq/magnate/internal/economy"
)

// GameStatus is the game lifecycle phase. Transitions are one-directional:
// lobby -> in_progress -> ended.
type GameStatus string

const (
	GameStatusLobby      GameStatus = "lobby"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusEnded      GameStatus = "ended"
)

// Game is one match, owned by its host. BoardPack selects the immutable
// catalog configuration the game plays on.
type Game struct {
	ID           uuid.UUID  `json:"id"`
	JoinCode     string     `json:"join_code"`
	Status       GameStatus `json:"status"`
	HostUserID   uuid.UUID  `json:"host_user_id"`
	BoardPack    string     `json:"board_pack"`
	StartingCash int        `json:"starting_cash"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Player is one seat in a game, unique per (game, user). Position is only
// ever mutated by the action processor during move resolution.
type Player struct {
	ID         uuid.UUID `json:"id"`
	GameID     uuid.UUID `json:"game_id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Position   int       `json:"position"`
	Eliminated bool      `json:"eliminated"`
	JoinOrder  int       `json:"join_order"`
}

// TurnPhase says what the current player may do next.
type TurnPhase string

const (
	PhaseAwaitingRoll     TurnPhase = "AWAITING_ROLL"
	PhaseAwaitingDecision TurnPhase = "AWAITING_DECISION"
)

// Roll is the last pair of dice the current player threw.
type Roll struct {
	Die1 int `json:"die1"`
	Die2 int `json:"die2"`
}

// Total returns the combined roll value.
func (r Roll) Total() int { return r.Die1 + r.Die2 }

// IsDouble reports whether both dice show the same face.
func (r Roll) IsDouble() bool { return r.Die1 == r.Die2 }

// PendingKind tags the decision the current player must resolve.
type PendingKind string

const (
	PendingBuyProperty PendingKind = "BUY_PROPERTY"
)

// BuyPropertyDecision offers the current player the tile they landed on.
type BuyPropertyDecision struct {
	TileIndex int `json:"tile_index"`
	Price     int `json:"price"`
}

// PendingAction is a closed tagged union: exactly the field matching Kind is
// set. The processor matches on Kind exhaustively instead of probing
// optional fields.
type PendingAction struct {
	Kind        PendingKind          `json:"kind"`
	BuyProperty *BuyPropertyDecision `json:"buy_property,omitempty"`
}

// TurnState is the single mutable per-game record driving whose turn it is
// and what decision, if any, is outstanding. Version is monotonic from 0 and
// advances by exactly the number of events committed in one action.
type TurnState struct {
	GameID        uuid.UUID          `json:"game_id"`
	Version       int64              `json:"version"`
	CurrentPlayer *uuid.UUID         `json:"current_player,omitempty"`
	LastRoll      *Roll              `json:"last_roll,omitempty"`
	DoublesCount  int                `json:"doubles_count"`
	ExtraRoll     bool               `json:"extra_roll"`
	Phase         TurnPhase          `json:"phase"`
	Pending       *PendingAction     `json:"pending,omitempty"`
	Balances      map[uuid.UUID]int  `json:"balances"`
	Modifiers     economy.Modifiers  `json:"modifiers,omitempty"`
	LastMacroCard string             `json:"last_macro_card,omitempty"`
}

// Clone returns a deep copy safe to mutate while deriving the next state.
func (ts *TurnState) Clone() *TurnState {
	out := *ts
	if ts.CurrentPlayer != nil {
		cp := *ts.CurrentPlayer
		out.CurrentPlayer = &cp
	}
	if ts.LastRoll != nil {
		r := *ts.LastRoll
		out.LastRoll = &r
	}
	if ts.Pending != nil {
		p := *ts.Pending
		if ts.Pending.BuyProperty != nil {
			bp := *ts.Pending.BuyProperty
			p.BuyProperty = &bp
		}
		out.Pending = &p
	}
	out.Balances = make(map[uuid.UUID]int, len(ts.Balances))
	for k, v := range ts.Balances {
		out.Balances[k] = v
	}
	out.Modifiers = make(economy.Modifiers, len(ts.Modifiers))
	copy(out.Modifiers, ts.Modifiers)
	return &out
}

// OwnershipEntry records one owned tile per game. Development counts houses;
// five houses promote to one hotel. Mortgaged tiles collect no rent, and
// tiles under a collateral loan are excluded from the salary hotel bonus.
type OwnershipEntry struct {
	GameID      uuid.UUID  `json:"game_id"`
	TileIndex   int        `json:"tile_index"`
	PlayerID    uuid.UUID  `json:"player_id"`
	Development int        `json:"development"`
	Mortgaged   bool       `json:"mortgaged"`
	LoanID      *uuid.UUID `json:"loan_id,omitempty"`
}

// Encumbered reports whether the tile is mortgaged or pledged as loan
// collateral.
func (o OwnershipEntry) Encumbered() bool { return o.Mortgaged || o.LoanID != nil }
