// internal/engine/store.go
package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/magnatehq/magnate/internal/models"
)

// Store-level sentinels. Implementations return these so the processor can
// classify failures without knowing the backing technology.
var (
	// ErrNotFound: the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict: a conditional write matched zero rows. The action
	// was not applied and must not be retried with the same random outcome.
	ErrVersionConflict = errors.New("conditional write lost the race")
)

// StatusChange is a conditional lifecycle flip committed together with an
// action: it succeeds only if the game is still in From.
type StatusChange struct {
	From models.GameStatus
	To   models.GameStatus
}

// ActionCommit is everything one action writes. The store must apply it
// atomically from the caller's perspective: the turn-state update is
// conditional on ExpectedVersion, and if that guard (or the status guard)
// fails, none of the writes may become visible.
type ActionCommit struct {
	GameID          uuid.UUID
	ExpectedVersion int64
	State           *models.TurnState
	Events          []models.Event
	PlayerPositions map[uuid.UUID]int
	Ownership       []models.OwnershipEntry
	SetStatus       *StatusChange
}

// Snapshot is a single point-in-time view of one game, for display and
// spectating. It must never mix pre- and post-commit fields.
type Snapshot struct {
	Game      *models.Game            `json:"game"`
	Players   []models.Player         `json:"players"`
	TurnState *models.TurnState       `json:"turn_state"`
	Ownership []models.OwnershipEntry `json:"ownership"`
	Events    []models.Event          `json:"events"`
}

// Store is the persistence gateway: filtered reads, idempotent upserts and
// the conditional commit the optimistic-concurrency model rests on.
type Store interface {
	// CreateGame persists a new game, its host player and the version-0 turn
	// state.
	CreateGame(ctx context.Context, g *models.Game, host *models.Player, ts *models.TurnState) error

	// GetGame returns ErrNotFound for unknown ids.
	GetGame(ctx context.Context, gameID uuid.UUID) (*models.Game, error)

	// GetPlayers returns the roster in stable join order: every caller must
	// observe the same order, since turn advancement walks it.
	GetPlayers(ctx context.Context, gameID uuid.UUID) ([]models.Player, error)

	// UpsertPlayer assigns the next join order and inserts the seat, or, on
	// (game, user) conflict, returns the existing row so repeat joins are
	// idempotent. Concurrent joins must never share a join order.
	UpsertPlayer(ctx context.Context, p *models.Player) (*models.Player, error)

	GetTurnState(ctx context.Context, gameID uuid.UUID) (*models.TurnState, error)
	GetOwnership(ctx context.Context, gameID uuid.UUID) ([]models.OwnershipEntry, error)

	// CommitAction applies one action's writes; ErrVersionConflict when the
	// version or status guard matches zero rows.
	CommitAction(ctx context.Context, commit ActionCommit) error

	// GetEvents returns events with version > sinceVersion, ascending,
	// capped at limit (0 means no cap).
	GetEvents(ctx context.Context, gameID uuid.UUID, sinceVersion int64, limit int) ([]models.Event, error)

	// Snapshot reads one consistent view of the game.
	Snapshot(ctx context.Context, gameID uuid.UUID) (*Snapshot, error)
}

// Notifier is the best-effort realtime fan-out. Implementations must never
// block or fail the action; errors are logged and dropped.
type Notifier interface {
	GamePublished(ctx context.Context, gameID uuid.UUID, version int64)
}

// NopNotifier satisfies Notifier when no realtime backend is configured.
type NopNotifier struct{}

func (NopNotifier) GamePublished(context.Context, uuid.UUID, int64) {}
