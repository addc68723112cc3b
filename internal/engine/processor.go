// internal/engine/processor.go
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/magnatehq/magnate/internal/catalog"
	"github.com/magnatehq/magnate/internal/models"
)

// Processor is the authoritative action processor. It is stateless between
// calls: every action loads the persisted state, validates the intent,
// derives the new turn state plus the events to append, and commits them
// conditionally, so any number of processor instances can serve the same
// game safely.
type Processor struct {
	store    Store
	dice     Roller
	notifier Notifier
	log      *logrus.Logger
}

// NewProcessor wires the processor's collaborators. notifier may be
// NopNotifier{} when no realtime backend is configured.
func NewProcessor(store Store, dice Roller, notifier Notifier, logger *logrus.Logger) *Processor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Processor{store: store, dice: dice, notifier: notifier, log: logger}
}

// Request is one authenticated player intent. ExpectedVersion is the turn
// state version the caller last observed; it is ignored for CREATE_GAME and
// JOIN_GAME, which do not mutate turn state.
type Request struct {
	GameID          uuid.UUID
	UserID          uuid.UUID
	Intent          models.Intent
	ExpectedVersion int64
}

// Result is the post-commit view returned to the caller.
type Result struct {
	Game      *models.Game            `json:"game"`
	Players   []models.Player         `json:"players"`
	TurnState *models.TurnState       `json:"turn_state"`
	Events    []models.Event          `json:"events,omitempty"`
	Ownership []models.OwnershipEntry `json:"ownership,omitempty"`
}

// Apply routes one intent through validation, transition and commit.
func (p *Processor) Apply(ctx context.Context, req Request) (*Result, error) {
	switch req.Intent.Type {
	case models.IntentCreateGame:
		return p.createGame(ctx, req)
	case models.IntentJoinGame:
		return p.joinGame(ctx, req)
	case models.IntentStartGame:
		return p.startGame(ctx, req)
	case models.IntentEndGame:
		return p.endGame(ctx, req)
	case models.IntentRollDice:
		return p.rollDice(ctx, req)
	case models.IntentBuyProperty:
		return p.buyProperty(ctx, req)
	case models.IntentDeclineProperty:
		return p.declineProperty(ctx, req)
	case models.IntentBuildHouse:
		return p.buildHouse(ctx, req)
	case models.IntentEndTurn:
		return p.endTurn(ctx, req)
	default:
		return nil, validationf("unknown action %q", req.Intent.Type)
	}
}

// Snapshot returns a consistent point-in-time view of one game.
func (p *Processor) Snapshot(ctx context.Context, gameID uuid.UUID) (*Snapshot, error) {
	snap, err := p.store.Snapshot(ctx, gameID)
	if errors.Is(err, ErrNotFound) {
		return nil, notFoundf("game %s not found", gameID)
	}
	if err != nil {
		return nil, upstream("loading snapshot", err)
	}
	return snap, nil
}

const joinCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func (p *Processor) newJoinCode() string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = joinCodeAlphabet[p.dice.Intn(len(joinCodeAlphabet))]
	}
	return string(code)
}

func (p *Processor) createGame(ctx context.Context, req Request) (*Result, error) {
	packID := req.Intent.BoardPack
	if packID == "" {
		packID = catalog.DefaultPackID
	}
	pack, ok := catalog.ByID(packID)
	if !ok {
		return nil, validationf("unknown board pack %q", packID)
	}
	if req.Intent.DisplayName == "" {
		return nil, validationf("display_name is required")
	}
	startingCash := req.Intent.StartingCash
	if startingCash == 0 {
		startingCash = pack.StartingCash
	}
	if startingCash < 0 {
		return nil, validationf("starting_cash must be positive")
	}

	game := &models.Game{
		ID:           uuid.New(),
		JoinCode:     p.newJoinCode(),
		Status:       models.GameStatusLobby,
		HostUserID:   req.UserID,
		BoardPack:    pack.ID,
		StartingCash: startingCash,
		CreatedAt:    time.Now().UTC(),
	}
	host := &models.Player{
		ID:     uuid.New(),
		GameID: game.ID,
		UserID: req.UserID,
		Name:   req.Intent.DisplayName,
	}
	ts := &models.TurnState{
		GameID:   game.ID,
		Version:  0,
		Phase:    models.PhaseAwaitingRoll,
		Balances: map[uuid.UUID]int{},
	}
	if err := p.store.CreateGame(ctx, game, host, ts); err != nil {
		return nil, upstream("creating game", err)
	}
	p.log.WithFields(logrus.Fields{"game": game.ID, "host": req.UserID, "pack": pack.ID}).
		Info("game created")
	return &Result{Game: game, Players: []models.Player{*host}, TurnState: ts}, nil
}

func (p *Processor) joinGame(ctx context.Context, req Request) (*Result, error) {
	if req.Intent.DisplayName == "" {
		return nil, validationf("display_name is required")
	}
	game, err := p.getGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameStatusLobby {
		return nil, statef("game is %s; joining requires the lobby phase", game.Status)
	}
	player, err := p.store.UpsertPlayer(ctx, &models.Player{
		ID:     uuid.New(),
		GameID: game.ID,
		UserID: req.UserID,
		Name:   req.Intent.DisplayName,
	})
	if err != nil {
		return nil, upstream("joining game", err)
	}
	players, err := p.store.GetPlayers(ctx, game.ID)
	if err != nil {
		return nil, upstream("loading roster", err)
	}
	ownership, err := p.store.GetOwnership(ctx, game.ID)
	if err != nil {
		return nil, upstream("loading ownership", err)
	}
	ts, err := p.store.GetTurnState(ctx, game.ID)
	if err != nil {
		return nil, upstream("loading turn state", err)
	}
	p.log.WithFields(logrus.Fields{"game": game.ID, "player": player.ID}).Info("player joined")
	return &Result{Game: game, Players: players, TurnState: ts, Ownership: ownership}, nil
}

func (p *Processor) startGame(ctx context.Context, req Request) (*Result, error) {
	tc, err := p.loadGame(ctx, req)
	if err != nil {
		return nil, err
	}
	if tc.game.HostUserID != req.UserID {
		return nil, forbiddenf("only the host may start the game")
	}
	if tc.game.Status != models.GameStatusLobby {
		return nil, statef("game is %s; starting requires the lobby phase", tc.game.Status)
	}
	if len(tc.players) == 0 {
		return nil, statef("cannot start a game with no players")
	}

	first, ok := firstPlayer(tc.players)
	if !ok {
		return nil, statef("no eligible players to start with")
	}
	ts := tc.ts.Clone()
	ts.CurrentPlayer = &first
	ts.Phase = models.PhaseAwaitingRoll
	order := make([]uuid.UUID, 0, len(tc.players))
	for _, pl := range tc.players {
		ts.Balances[pl.ID] = tc.game.StartingCash
		order = append(order, pl.ID)
	}
	ts.Version = tc.ts.Version + 1
	events := []models.Event{{
		GameID:  tc.game.ID,
		Version: ts.Version,
		Type:    models.EventStartGame,
		Payload: models.StartGamePayload{PlayerOrder: order, StartingCash: tc.game.StartingCash},
	}}

	status := &StatusChange{From: models.GameStatusLobby, To: models.GameStatusInProgress}
	res, err := p.commit(ctx, tc, ts, events, nil, nil, status, "game already started")
	if err != nil {
		return nil, err
	}
	tc.game.Status = models.GameStatusInProgress
	return res, nil
}

func (p *Processor) endGame(ctx context.Context, req Request) (*Result, error) {
	tc, err := p.loadGame(ctx, req)
	if err != nil {
		return nil, err
	}
	if tc.game.HostUserID != req.UserID {
		return nil, forbiddenf("only the host may end the game")
	}
	if tc.game.Status == models.GameStatusEnded {
		return nil, conflictf("game already ended")
	}

	ts := tc.ts.Clone()
	ts.Version = tc.ts.Version + 1
	events := []models.Event{{
		GameID:  tc.game.ID,
		Version: ts.Version,
		Type:    models.EventEndGame,
		Payload: models.EndGamePayload{EndedBy: req.UserID},
	}}
	status := &StatusChange{From: tc.game.Status, To: models.GameStatusEnded}
	res, err := p.commit(ctx, tc, ts, events, nil, nil, status, "game already ended")
	if err != nil {
		return nil, err
	}
	tc.game.Status = models.GameStatusEnded
	return res, nil
}

func (p *Processor) endTurn(ctx context.Context, req Request) (*Result, error) {
	tc, err := p.loadTurn(ctx, req)
	if err != nil {
		return nil, err
	}
	if tc.ts.Pending != nil {
		return nil, statef("a pending decision must be resolved before ending the turn")
	}

	ts := tc.ts.Clone()
	ver := ts.Version
	var events []models.Event
	appendEvent := func(t models.EventType, payload any) {
		ver++
		events = append(events, models.Event{GameID: tc.game.ID, Version: ver, Type: t, Payload: payload})
	}
	advanceTurn(ts, tc.players, appendEvent)
	ts.Version = ver
	return p.commit(ctx, tc, ts, events, nil, nil, nil, "")
}

func (p *Processor) buyProperty(ctx context.Context, req Request) (*Result, error) {
	tc, err := p.loadTurn(ctx, req)
	if err != nil {
		return nil, err
	}
	decision, err := pendingPurchase(tc.ts, req.Intent.TileIndex)
	if err != nil {
		return nil, err
	}
	if tc.ts.Balances[tc.caller.ID] < decision.Price {
		return nil, statef("insufficient funds: tile %d costs %d", decision.TileIndex, decision.Price)
	}

	ts := tc.ts.Clone()
	ts.Balances[tc.caller.ID] -= decision.Price
	ts.Pending = nil
	ts.Phase = models.PhaseAwaitingRoll

	ver := ts.Version
	var events []models.Event
	appendEvent := func(t models.EventType, payload any) {
		ver++
		events = append(events, models.Event{GameID: tc.game.ID, Version: ver, Type: t, Payload: payload})
	}
	appendEvent(models.EventBuyProperty, models.PurchasePayload{
		PlayerID: tc.caller.ID, TileIndex: decision.TileIndex, Price: decision.Price,
	})
	advanceTurn(ts, tc.players, appendEvent)
	ts.Version = ver

	owned := []models.OwnershipEntry{{
		GameID:    tc.game.ID,
		TileIndex: decision.TileIndex,
		PlayerID:  tc.caller.ID,
	}}
	return p.commit(ctx, tc, ts, events, nil, owned, nil, "")
}

func (p *Processor) declineProperty(ctx context.Context, req Request) (*Result, error) {
	tc, err := p.loadTurn(ctx, req)
	if err != nil {
		return nil, err
	}
	decision, err := pendingPurchase(tc.ts, req.Intent.TileIndex)
	if err != nil {
		return nil, err
	}

	ts := tc.ts.Clone()
	ts.Pending = nil
	ts.Phase = models.PhaseAwaitingRoll

	ver := ts.Version
	var events []models.Event
	appendEvent := func(t models.EventType, payload any) {
		ver++
		events = append(events, models.Event{GameID: tc.game.ID, Version: ver, Type: t, Payload: payload})
	}
	appendEvent(models.EventDeclineProperty, models.PurchasePayload{
		PlayerID: tc.caller.ID, TileIndex: decision.TileIndex,
	})
	advanceTurn(ts, tc.players, appendEvent)
	ts.Version = ver
	return p.commit(ctx, tc, ts, events, nil, nil, nil, "")
}

// pendingPurchase validates that a BUY_PROPERTY decision is outstanding and
// that the supplied tile index matches it.
func pendingPurchase(ts *models.TurnState, tileIndex *int) (*models.BuyPropertyDecision, error) {
	if ts.Pending == nil || ts.Pending.Kind != models.PendingBuyProperty || ts.Pending.BuyProperty == nil {
		return nil, statef("no purchase decision is pending")
	}
	if tileIndex == nil {
		return nil, validationf("tile_index is required")
	}
	decision := ts.Pending.BuyProperty
	if *tileIndex != decision.TileIndex {
		return nil, statef("pending purchase is for tile %d, not %d", decision.TileIndex, *tileIndex)
	}
	return decision, nil
}

// advanceTurn hands the turn to the next player in join order, resets the
// per-turn roll state and ticks macro modifiers when the order wraps into a
// new round.
func advanceTurn(ts *models.TurnState, players []models.Player, appendEvent func(models.EventType, any)) {
	if ts.CurrentPlayer == nil {
		return
	}
	cur := *ts.CurrentPlayer
	next, wrapped := nextPlayer(players, cur)
	ts.CurrentPlayer = &next
	ts.LastRoll = nil
	ts.DoublesCount = 0
	ts.ExtraRoll = false
	ts.Phase = models.PhaseAwaitingRoll
	ts.Pending = nil
	if wrapped {
		ts.Modifiers = ts.Modifiers.TickRound()
	}
	appendEvent(models.EventEndTurn, models.EndTurnPayload{PlayerID: cur, NextPlayer: next})
}

// turnCtx is the loaded state one action validates and transitions against.
type turnCtx struct {
	game      *models.Game
	players   []models.Player
	caller    *models.Player
	ts        *models.TurnState
	ownership []models.OwnershipEntry
	pack      *catalog.Pack
}

func (p *Processor) getGame(ctx context.Context, gameID uuid.UUID) (*models.Game, error) {
	if gameID == uuid.Nil {
		return nil, validationf("game_id is required")
	}
	game, err := p.store.GetGame(ctx, gameID)
	if errors.Is(err, ErrNotFound) {
		return nil, notFoundf("game %s not found", gameID)
	}
	if err != nil {
		return nil, upstream("loading game", err)
	}
	return game, nil
}

// loadGame runs the shared preconditions in order: game exists, caller is a
// member, expected version matches. Lifecycle and turn-ownership checks are
// the caller's, since they differ per intent.
func (p *Processor) loadGame(ctx context.Context, req Request) (*turnCtx, error) {
	game, err := p.getGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	players, err := p.store.GetPlayers(ctx, game.ID)
	if err != nil {
		return nil, upstream("loading roster", err)
	}
	var caller *models.Player
	for i := range players {
		if players[i].UserID == req.UserID {
			caller = &players[i]
			break
		}
	}
	if caller == nil {
		return nil, forbiddenf("you are not a member of this game")
	}
	ts, err := p.store.GetTurnState(ctx, game.ID)
	if err != nil {
		return nil, upstream("loading turn state", err)
	}
	if ts.Version != req.ExpectedVersion {
		return nil, conflictf("version conflict: expected %d, have %d", req.ExpectedVersion, ts.Version)
	}
	pack, ok := catalog.ByID(game.BoardPack)
	if !ok {
		return nil, upstream("board pack missing from catalog", errors.New(game.BoardPack))
	}
	return &turnCtx{game: game, players: players, caller: caller, ts: ts, pack: pack}, nil
}

// loadTurn extends loadGame with the turn-action preconditions: the game is
// in progress and the caller holds the turn. Ownership is loaded because
// every turn action may consult rent or development state.
func (p *Processor) loadTurn(ctx context.Context, req Request) (*turnCtx, error) {
	tc, err := p.loadGame(ctx, req)
	if err != nil {
		return nil, err
	}
	if tc.game.Status != models.GameStatusInProgress {
		return nil, statef("game is %s; turn actions require a game in progress", tc.game.Status)
	}
	if tc.ts.CurrentPlayer == nil || *tc.ts.CurrentPlayer != tc.caller.ID {
		return nil, forbiddenf("it is not your turn")
	}
	ownership, err := p.store.GetOwnership(ctx, tc.game.ID)
	if err != nil {
		return nil, upstream("loading ownership", err)
	}
	tc.ownership = ownership
	return tc, nil
}

// commit persists one action's writes conditionally and fans out the
// notification. conflictMsg overrides the generic version-conflict message
// for intents whose race has a friendlier reading (already started/ended).
func (p *Processor) commit(ctx context.Context, tc *turnCtx, ts *models.TurnState,
	events []models.Event, positions map[uuid.UUID]int, ownership []models.OwnershipEntry,
	status *StatusChange, conflictMsg string) (*Result, error) {

	err := p.store.CommitAction(ctx, ActionCommit{
		GameID:          tc.game.ID,
		ExpectedVersion: tc.ts.Version,
		State:           ts,
		Events:          events,
		PlayerPositions: positions,
		Ownership:       ownership,
		SetStatus:       status,
	})
	if errors.Is(err, ErrVersionConflict) {
		if conflictMsg != "" {
			return nil, conflictf("%s", conflictMsg)
		}
		return nil, conflictf("version conflict: state changed since version %d", tc.ts.Version)
	}
	if err != nil {
		return nil, upstream("committing action", err)
	}

	p.notifier.GamePublished(ctx, tc.game.ID, ts.Version)
	p.log.WithFields(logrus.Fields{
		"game":    tc.game.ID,
		"player":  tc.caller.ID,
		"version": ts.Version,
		"events":  len(events),
	}).Debug("action committed")

	for id, pos := range positions {
		for i := range tc.players {
			if tc.players[i].ID == id {
				tc.players[i].Position = pos
			}
		}
	}
	return &Result{
		Game:      tc.game,
		Players:   tc.players,
		TurnState: ts,
		Events:    events,
		Ownership: mergeOwnership(tc.ownership, ownership),
	}, nil
}

// mergeOwnership overlays the entries written by this action onto the
// loaded set, for the caller's post-commit view.
func mergeOwnership(loaded, written []models.OwnershipEntry) []models.OwnershipEntry {
	if len(written) == 0 {
		return loaded
	}
	out := make([]models.OwnershipEntry, 0, len(loaded)+len(written))
	replaced := map[int]bool{}
	for _, w := range written {
		replaced[w.TileIndex] = true
	}
	for _, o := range loaded {
		if !replaced[o.TileIndex] {
			out = append(out, o)
		}
	}
	return append(out, written...)
}
