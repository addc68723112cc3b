// internal/database/store.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/magnatehq/magnate/internal/engine"
	"github.com/magnatehq/magnate/internal/models"
)

// Store implements engine.Store on a pgx pool. Turn state is stored as one
// JSONB document per game alongside a bare version column, which is what the
// conditional update guards on.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateGame(ctx context.Context, g *models.Game, host *models.Player, ts *models.TurnState) error {
	stateJSON, err := json.Marshal(ts)
	if err != nil {
		return fmt.Errorf("marshal turn state: %w", err)
	}
	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `INSERT INTO games (id, join_code, status, host_user_id, board_pack, starting_cash, created_at)
		      VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, e := tx.Exec(ctx, q, g.ID, g.JoinCode, g.Status, g.HostUserID, g.BoardPack, g.StartingCash, g.CreatedAt); e != nil {
			return e
		}
		q = `INSERT INTO players (id, game_id, user_id, name, position, join_order)
		     VALUES ($1, $2, $3, $4, 0, 0)`
		if _, e := tx.Exec(ctx, q, host.ID, host.GameID, host.UserID, host.Name); e != nil {
			return e
		}
		q = `INSERT INTO turn_states (game_id, version, state) VALUES ($1, $2, $3)`
		_, e := tx.Exec(ctx, q, g.ID, ts.Version, stateJSON)
		return e
	})
	if err != nil {
		return fmt.Errorf("tx create game: %w", err)
	}
	return nil
}

func (s *Store) GetGame(ctx context.Context, gameID uuid.UUID) (*models.Game, error) {
	var g models.Game
	q := `SELECT id, join_code, status, host_user_id, board_pack, starting_cash, created_at
	      FROM games WHERE id=$1`
	err := s.pool.QueryRow(ctx, q, gameID).Scan(
		&g.ID, &g.JoinCode, &g.Status, &g.HostUserID, &g.BoardPack, &g.StartingCash, &g.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, engine.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) GetPlayers(ctx context.Context, gameID uuid.UUID) ([]models.Player, error) {
	q := `SELECT id, game_id, user_id, name, position, eliminated, join_order
	      FROM players WHERE game_id=$1 ORDER BY join_order, id`
	rows, err := s.pool.Query(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.GameID, &p.UserID, &p.Name, &p.Position, &p.Eliminated, &p.JoinOrder); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// UpsertPlayer inserts the seat with the next join order, or returns the
// existing row when the user already holds a seat in this game. The game row
// is locked first so two concurrent joins cannot read the same seat count;
// the UNIQUE (game_id, join_order) constraint is the tripwire if they ever
// do.
func (s *Store) UpsertPlayer(ctx context.Context, p *models.Player) (*models.Player, error) {
	var out models.Player
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, e := tx.Exec(ctx, `SELECT 1 FROM games WHERE id=$1 FOR UPDATE`, p.GameID); e != nil {
			return e
		}
		q := `
		INSERT INTO players (id, game_id, user_id, name, position, join_order)
		VALUES ($1, $2, $3, $4, 0, (SELECT COUNT(*) FROM players WHERE game_id=$2))
		ON CONFLICT (game_id, user_id)
		DO UPDATE SET name = players.name
		RETURNING id, game_id, user_id, name, position, eliminated, join_order
		`
		return tx.QueryRow(ctx, q, p.ID, p.GameID, p.UserID, p.Name).Scan(
			&out.ID, &out.GameID, &out.UserID, &out.Name, &out.Position, &out.Eliminated, &out.JoinOrder,
		)
	})
	if err != nil {
		return nil, fmt.Errorf("upsert player: %w", err)
	}
	return &out, nil
}

func (s *Store) GetTurnState(ctx context.Context, gameID uuid.UUID) (*models.TurnState, error) {
	return getTurnState(ctx, s.pool, gameID)
}

// querier covers both the pool and an open transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func getTurnState(ctx context.Context, q querier, gameID uuid.UUID) (*models.TurnState, error) {
	var stateJSON []byte
	err := q.QueryRow(ctx, `SELECT state FROM turn_states WHERE game_id=$1`, gameID).Scan(&stateJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, engine.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var ts models.TurnState
	if err := json.Unmarshal(stateJSON, &ts); err != nil {
		return nil, fmt.Errorf("unmarshal turn state: %w", err)
	}
	return &ts, nil
}

func (s *Store) GetOwnership(ctx context.Context, gameID uuid.UUID) ([]models.OwnershipEntry, error) {
	return getOwnership(ctx, s.pool, gameID)
}

func getOwnership(ctx context.Context, q querier, gameID uuid.UUID) ([]models.OwnershipEntry, error) {
	rows, err := q.Query(ctx, `SELECT game_id, tile_index, player_id, development, mortgaged, loan_id
	                           FROM ownership WHERE game_id=$1 ORDER BY tile_index`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.OwnershipEntry
	for rows.Next() {
		var o models.OwnershipEntry
		if err := rows.Scan(&o.GameID, &o.TileIndex, &o.PlayerID, &o.Development, &o.Mortgaged, &o.LoanID); err != nil {
			return nil, err
		}
		entries = append(entries, o)
	}
	return entries, rows.Err()
}

// CommitAction applies one action's writes in a single transaction. The
// turn-state update is conditional on the expected version; the optional
// status flip is conditional on the expected status. Either guard matching
// zero rows rolls back everything and surfaces engine.ErrVersionConflict.
func (s *Store) CommitAction(ctx context.Context, commit engine.ActionCommit) error {
	stateJSON, err := json.Marshal(commit.State)
	if err != nil {
		return fmt.Errorf("marshal turn state: %w", err)
	}

	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if st := commit.SetStatus; st != nil {
			tag, e := tx.Exec(ctx,
				`UPDATE games SET status=$1 WHERE id=$2 AND status=$3`,
				st.To, commit.GameID, st.From)
			if e != nil {
				return e
			}
			if tag.RowsAffected() == 0 {
				return engine.ErrVersionConflict
			}
		}

		tag, e := tx.Exec(ctx,
			`UPDATE turn_states SET version=$1, state=$2 WHERE game_id=$3 AND version=$4`,
			commit.State.Version, stateJSON, commit.GameID, commit.ExpectedVersion)
		if e != nil {
			return e
		}
		if tag.RowsAffected() == 0 {
			return engine.ErrVersionConflict
		}

		for _, ev := range commit.Events {
			payload, e := json.Marshal(ev.Payload)
			if e != nil {
				return fmt.Errorf("marshal event payload: %w", e)
			}
			_, e = tx.Exec(ctx,
				`INSERT INTO events (game_id, version, type, payload) VALUES ($1, $2, $3, $4)`,
				ev.GameID, ev.Version, ev.Type, payload)
			if isUniqueViolation(e) {
				return engine.ErrVersionConflict
			}
			if e != nil {
				return e
			}
		}

		for playerID, pos := range commit.PlayerPositions {
			if _, e := tx.Exec(ctx,
				`UPDATE players SET position=$1 WHERE id=$2 AND game_id=$3`,
				pos, playerID, commit.GameID); e != nil {
				return e
			}
		}

		for _, o := range commit.Ownership {
			q := `
			INSERT INTO ownership (game_id, tile_index, player_id, development, mortgaged, loan_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (game_id, tile_index)
			DO UPDATE SET player_id=$3, development=$4, mortgaged=$5, loan_id=$6
			`
			if _, e := tx.Exec(ctx, q, commit.GameID, o.TileIndex, o.PlayerID, o.Development, o.Mortgaged, o.LoanID); e != nil {
				return e
			}
		}
		return nil
	})
	if errors.Is(err, engine.ErrVersionConflict) {
		return engine.ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("tx commit action: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Store) GetEvents(ctx context.Context, gameID uuid.UUID, sinceVersion int64, limit int) ([]models.Event, error) {
	q := `SELECT game_id, version, type, payload FROM events
	      WHERE game_id=$1 AND version > $2 ORDER BY version`
	args := []any{gameID, sinceVersion}
	if limit > 0 {
		q += ` LIMIT $3`
		args = append(args, limit)
	}
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]models.Event, error) {
	var events []models.Event
	for rows.Next() {
		var ev models.Event
		var payload json.RawMessage
		if err := rows.Scan(&ev.GameID, &ev.Version, &ev.Type, &payload); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			ev.Payload = payload
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Snapshot reads one consistent view of the game under repeatable-read
// isolation so state and events never straddle a commit.
func (s *Store) Snapshot(ctx context.Context, gameID uuid.UUID) (*engine.Snapshot, error) {
	var snap engine.Snapshot
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		var g models.Game
		err := tx.QueryRow(ctx,
			`SELECT id, join_code, status, host_user_id, board_pack, starting_cash, created_at
			 FROM games WHERE id=$1`, gameID).Scan(
			&g.ID, &g.JoinCode, &g.Status, &g.HostUserID, &g.BoardPack, &g.StartingCash, &g.CreatedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return engine.ErrNotFound
		}
		if err != nil {
			return err
		}
		snap.Game = &g

		rows, err := tx.Query(ctx,
			`SELECT id, game_id, user_id, name, position, eliminated, join_order
			 FROM players WHERE game_id=$1 ORDER BY join_order, id`, gameID)
		if err != nil {
			return err
		}
		for rows.Next() {
			var p models.Player
			if err := rows.Scan(&p.ID, &p.GameID, &p.UserID, &p.Name, &p.Position, &p.Eliminated, &p.JoinOrder); err != nil {
				rows.Close()
				return err
			}
			snap.Players = append(snap.Players, p)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if snap.TurnState, err = getTurnState(ctx, tx, gameID); err != nil {
			return err
		}
		if snap.Ownership, err = getOwnership(ctx, tx, gameID); err != nil {
			return err
		}

		evRows, err := tx.Query(ctx,
			`SELECT game_id, version, type, payload FROM events WHERE game_id=$1 ORDER BY version`, gameID)
		if err != nil {
			return err
		}
		defer evRows.Close()
		snap.Events, err = scanEvents(evRows)
		return err
	})
	if errors.Is(err, engine.ErrNotFound) {
		return nil, engine.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tx snapshot: %w", err)
	}
	return &snap, nil
}
