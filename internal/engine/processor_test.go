// internal/engine/processor_test.go
package engine

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magnatehq/magnate/internal/catalog"
	"github.com/magnatehq/magnate/internal/economy"
	"github.com/magnatehq/magnate/internal/models"
)

// memStore is an in-memory Store with the same conditional-write semantics
// as the postgres implementation.
type memStore struct {
	games      map[uuid.UUID]*models.Game
	players    map[uuid.UUID][]models.Player
	turnStates map[uuid.UUID]*models.TurnState
	ownership  map[uuid.UUID]map[int]models.OwnershipEntry
	events     map[uuid.UUID][]models.Event
}

func newMemStore() *memStore {
	return &memStore{
		games:      map[uuid.UUID]*models.Game{},
		players:    map[uuid.UUID][]models.Player{},
		turnStates: map[uuid.UUID]*models.TurnState{},
		ownership:  map[uuid.UUID]map[int]models.OwnershipEntry{},
		events:     map[uuid.UUID][]models.Event{},
	}
}

func (m *memStore) CreateGame(_ context.Context, g *models.Game, host *models.Player, ts *models.TurnState) error {
	cp := *g
	m.games[g.ID] = &cp
	m.players[g.ID] = []models.Player{*host}
	m.turnStates[g.ID] = ts.Clone()
	m.ownership[g.ID] = map[int]models.OwnershipEntry{}
	return nil
}

func (m *memStore) GetGame(_ context.Context, gameID uuid.UUID) (*models.Game, error) {
	g, ok := m.games[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memStore) GetPlayers(_ context.Context, gameID uuid.UUID) ([]models.Player, error) {
	return append([]models.Player(nil), m.players[gameID]...), nil
}

func (m *memStore) UpsertPlayer(_ context.Context, p *models.Player) (*models.Player, error) {
	for _, existing := range m.players[p.GameID] {
		if existing.UserID == p.UserID {
			cp := existing
			return &cp, nil
		}
	}
	cp := *p
	cp.JoinOrder = len(m.players[p.GameID])
	m.players[p.GameID] = append(m.players[p.GameID], cp)
	return &cp, nil
}

func (m *memStore) GetTurnState(_ context.Context, gameID uuid.UUID) (*models.TurnState, error) {
	ts, ok := m.turnStates[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	return ts.Clone(), nil
}

func (m *memStore) GetOwnership(_ context.Context, gameID uuid.UUID) ([]models.OwnershipEntry, error) {
	var out []models.OwnershipEntry
	for _, o := range m.ownership[gameID] {
		out = append(out, o)
	}
	return out, nil
}

func (m *memStore) CommitAction(_ context.Context, commit ActionCommit) error {
	g := m.games[commit.GameID]
	ts := m.turnStates[commit.GameID]
	if g == nil || ts == nil {
		return ErrNotFound
	}
	if commit.SetStatus != nil && g.Status != commit.SetStatus.From {
		return ErrVersionConflict
	}
	if ts.Version != commit.ExpectedVersion {
		return ErrVersionConflict
	}
	if commit.SetStatus != nil {
		g.Status = commit.SetStatus.To
	}
	m.turnStates[commit.GameID] = commit.State.Clone()
	m.events[commit.GameID] = append(m.events[commit.GameID], commit.Events...)
	for id, pos := range commit.PlayerPositions {
		for i := range m.players[commit.GameID] {
			if m.players[commit.GameID][i].ID == id {
				m.players[commit.GameID][i].Position = pos
			}
		}
	}
	for _, o := range commit.Ownership {
		m.ownership[commit.GameID][o.TileIndex] = o
	}
	return nil
}

func (m *memStore) GetEvents(_ context.Context, gameID uuid.UUID, sinceVersion int64, limit int) ([]models.Event, error) {
	var out []models.Event
	for _, ev := range m.events[gameID] {
		if ev.Version > sinceVersion {
			out = append(out, ev)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) Snapshot(ctx context.Context, gameID uuid.UUID) (*Snapshot, error) {
	g, err := m.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	players, _ := m.GetPlayers(ctx, gameID)
	ts, _ := m.GetTurnState(ctx, gameID)
	own, _ := m.GetOwnership(ctx, gameID)
	events, _ := m.GetEvents(ctx, gameID, 0, 0)
	return &Snapshot{Game: g, Players: players, TurnState: ts, Ownership: own, Events: events}, nil
}

// scriptRoller feeds predetermined dice faces. Intn draws pop from their own
// queue and default to 0, which keeps join codes and deck draws stable.
type scriptRoller struct {
	dice []int
	intn []int
}

func (s *scriptRoller) Die() int {
	if len(s.dice) == 0 {
		return 1
	}
	v := s.dice[0]
	s.dice = s.dice[1:]
	return v
}

func (s *scriptRoller) Intn(int) int {
	if len(s.intn) == 0 {
		return 0
	}
	v := s.intn[0]
	s.intn = s.intn[1:]
	return v
}

// raceStore interleaves a rival write between an action's load and its
// commit, reproducing two processors racing on the same observed version.
type raceStore struct {
	*memStore
	beforeCommit func()
}

func (r *raceStore) CommitAction(ctx context.Context, commit ActionCommit) error {
	if r.beforeCommit != nil {
		hook := r.beforeCommit
		r.beforeCommit = nil
		hook()
	}
	return r.memStore.CommitAction(ctx, commit)
}

type fixture struct {
	t     *testing.T
	p     *Processor
	store *memStore
	dice  *scriptRoller

	gameID           uuid.UUID
	userA, userB     uuid.UUID
	playerA, playerB uuid.UUID
	version          int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &fixture{
		t:     t,
		store: newMemStore(),
		dice:  &scriptRoller{},
		userA: uuid.New(),
		userB: uuid.New(),
	}
	f.p = NewProcessor(f.store, f.dice, NopNotifier{}, logger)

	res, err := f.p.Apply(context.Background(), Request{
		UserID: f.userA,
		Intent: models.Intent{Type: models.IntentCreateGame, DisplayName: "Ada"},
	})
	require.NoError(t, err)
	f.gameID = res.Game.ID
	f.playerA = res.Players[0].ID

	res, err = f.p.Apply(context.Background(), Request{
		GameID: f.gameID,
		UserID: f.userB,
		Intent: models.Intent{Type: models.IntentJoinGame, DisplayName: "Grace"},
	})
	require.NoError(t, err)
	require.Len(t, res.Players, 2)
	f.playerB = res.Players[1].ID
	return f
}

func (f *fixture) start() {
	f.t.Helper()
	res, err := f.p.Apply(context.Background(), Request{
		GameID:          f.gameID,
		UserID:          f.userA,
		Intent:          models.Intent{Type: models.IntentStartGame},
		ExpectedVersion: f.version,
	})
	require.NoError(f.t, err)
	f.version = res.TurnState.Version
}

func (f *fixture) apply(userID uuid.UUID, intent models.Intent) (*Result, error) {
	res, err := f.p.Apply(context.Background(), Request{
		GameID:          f.gameID,
		UserID:          userID,
		Intent:          intent,
		ExpectedVersion: f.version,
	})
	if err == nil {
		f.version = res.TurnState.Version
	}
	return res, err
}

func (f *fixture) mustApply(userID uuid.UUID, intent models.Intent) *Result {
	f.t.Helper()
	res, err := f.apply(userID, intent)
	require.NoError(f.t, err)
	return res
}

func eventTypes(events []models.Event) []models.EventType {
	out := make([]models.EventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func tileIdx(i int) *int { return &i }

func TestCreateJoinStartFlow(t *testing.T) {
	f := newFixture(t)

	g, err := f.store.GetGame(context.Background(), f.gameID)
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusLobby, g.Status)
	assert.Equal(t, f.userA, g.HostUserID)
	assert.Len(t, g.JoinCode, 6)

	f.start()

	g, _ = f.store.GetGame(context.Background(), f.gameID)
	assert.Equal(t, models.GameStatusInProgress, g.Status)

	ts, _ := f.store.GetTurnState(context.Background(), f.gameID)
	assert.EqualValues(t, 1, ts.Version)
	require.NotNil(t, ts.CurrentPlayer)
	assert.Equal(t, f.playerA, *ts.CurrentPlayer)
	assert.Equal(t, 1500, ts.Balances[f.playerA])
	assert.Equal(t, 1500, ts.Balances[f.playerB])

	events := f.store.events[f.gameID]
	require.Len(t, events, 1)
	assert.Equal(t, models.EventStartGame, events[0].Type)
}

func TestJoinIsIdempotent(t *testing.T) {
	f := newFixture(t)
	res, err := f.p.Apply(context.Background(), Request{
		GameID: f.gameID,
		UserID: f.userB,
		Intent: models.Intent{Type: models.IntentJoinGame, DisplayName: "Grace"},
	})
	require.NoError(t, err)
	assert.Len(t, res.Players, 2)
}

func TestJoinRequiresLobby(t *testing.T) {
	f := newFixture(t)
	f.start()
	_, err := f.p.Apply(context.Background(), Request{
		GameID: f.gameID,
		UserID: uuid.New(),
		Intent: models.Intent{Type: models.IntentJoinGame, DisplayName: "Late"},
	})
	require.Error(t, err)
	assert.Equal(t, KindState, KindOf(err))
}

func TestOnlyHostMayStart(t *testing.T) {
	f := newFixture(t)
	_, err := f.apply(f.userB, models.Intent{Type: models.IntentStartGame})
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestRollOffersUnownedProperty(t *testing.T) {
	f := newFixture(t)
	f.start()

	f.dice.dice = []int{3, 4}
	res := f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	assert.Equal(t, []models.EventType{
		models.EventRollDice,
		models.EventMovePlayer,
		models.EventLandOnTile,
		models.EventLandProperty,
		models.EventOfferPurchase,
		models.EventMoveResolved,
	}, eventTypes(res.Events))

	ts := res.TurnState
	assert.Equal(t, models.PhaseAwaitingDecision, ts.Phase)
	require.NotNil(t, ts.Pending)
	assert.Equal(t, models.PendingBuyProperty, ts.Pending.Kind)
	assert.Equal(t, 7, ts.Pending.BuyProperty.TileIndex)
	assert.Equal(t, 100, ts.Pending.BuyProperty.Price)

	// Still the roller's turn: the decision belongs to them.
	assert.Equal(t, f.playerA, *ts.CurrentPlayer)
	assert.Equal(t, 7, f.store.players[f.gameID][0].Position)
}

func TestEventVersionsAreDense(t *testing.T) {
	f := newFixture(t)
	f.start()

	f.dice.dice = []int{3, 4}
	res := f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	want := int64(2)
	for _, ev := range res.Events {
		assert.Equal(t, want, ev.Version)
		want++
	}
	assert.Equal(t, want-1, res.TurnState.Version,
		"state version advances by exactly the number of events")
}

func TestBuyProperty(t *testing.T) {
	f := newFixture(t)
	f.start()

	f.dice.dice = []int{3, 4}
	f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	res := f.mustApply(f.userA, models.Intent{Type: models.IntentBuyProperty, TileIndex: tileIdx(7)})

	assert.Equal(t, []models.EventType{
		models.EventBuyProperty,
		models.EventEndTurn,
	}, eventTypes(res.Events))

	ts := res.TurnState
	assert.Equal(t, 1400, ts.Balances[f.playerA])
	assert.Nil(t, ts.Pending)
	assert.Equal(t, f.playerB, *ts.CurrentPlayer)

	own := f.store.ownership[f.gameID][7]
	assert.Equal(t, f.playerA, own.PlayerID)
	assert.Zero(t, own.Development)
}

func TestDeclinePropertyAdvancesTurn(t *testing.T) {
	f := newFixture(t)
	f.start()

	f.dice.dice = []int{3, 4}
	f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	res := f.mustApply(f.userA, models.Intent{Type: models.IntentDeclineProperty, TileIndex: tileIdx(7)})

	assert.Equal(t, []models.EventType{
		models.EventDeclineProperty,
		models.EventEndTurn,
	}, eventTypes(res.Events))
	assert.Equal(t, 1500, res.TurnState.Balances[f.playerA], "declining costs nothing")
	assert.Equal(t, f.playerB, *res.TurnState.CurrentPlayer)
	_, owned := f.store.ownership[f.gameID][7]
	assert.False(t, owned)
}

func TestDeclineWrongTileRejected(t *testing.T) {
	f := newFixture(t)
	f.start()

	f.dice.dice = []int{3, 4}
	f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	_, err := f.apply(f.userA, models.Intent{Type: models.IntentDeclineProperty, TileIndex: tileIdx(9)})
	require.Error(t, err)
	assert.Equal(t, KindState, KindOf(err))
}

func TestPendingDecisionBlocksOtherActions(t *testing.T) {
	f := newFixture(t)
	f.start()

	f.dice.dice = []int{3, 4}
	f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	_, err := f.apply(f.userA, models.Intent{Type: models.IntentRollDice})
	require.Error(t, err)
	assert.Equal(t, KindState, KindOf(err))

	_, err = f.apply(f.userA, models.Intent{Type: models.IntentEndTurn})
	require.Error(t, err)
	assert.Equal(t, KindState, KindOf(err))
}

func TestRollPaysRentToOwner(t *testing.T) {
	f := newFixture(t)
	f.start()

	f.store.ownership[f.gameID][7] = models.OwnershipEntry{
		GameID: f.gameID, TileIndex: 7, PlayerID: f.playerB,
	}

	f.dice.dice = []int{3, 4}
	res := f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	assert.Contains(t, eventTypes(res.Events), models.EventPayRent)
	// Teal base rent at development 0 is 6.
	assert.Equal(t, 1494, res.TurnState.Balances[f.playerA])
	assert.Equal(t, 1506, res.TurnState.Balances[f.playerB])
	assert.Nil(t, res.TurnState.Pending)
}

func TestMortgagedTileCollectsNoRent(t *testing.T) {
	f := newFixture(t)
	f.start()

	f.store.ownership[f.gameID][7] = models.OwnershipEntry{
		GameID: f.gameID, TileIndex: 7, PlayerID: f.playerB, Mortgaged: true,
	}

	f.dice.dice = []int{3, 4}
	res := f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	assert.NotContains(t, eventTypes(res.Events), models.EventPayRent)
	assert.Equal(t, 1500, res.TurnState.Balances[f.playerA])
}

func TestDoublesGrantExtraRoll(t *testing.T) {
	f := newFixture(t)
	f.start()

	// (2,2) lands the tax tile: 100 debit, then an extra roll credit.
	f.dice.dice = []int{2, 2}
	res := f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	assert.Equal(t, []models.EventType{
		models.EventRollDice,
		models.EventRolledDouble,
		models.EventMovePlayer,
		models.EventLandOnTile,
		models.EventLandTax,
		models.EventMoveResolved,
		models.EventAllowExtraRoll,
	}, eventTypes(res.Events))

	ts := res.TurnState
	assert.Equal(t, 1400, ts.Balances[f.playerA])
	assert.True(t, ts.ExtraRoll)
	assert.Equal(t, f.playerA, *ts.CurrentPlayer)

	// The credit is consumed by the next roll.
	f.dice.dice = []int{4, 2}
	res = f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})
	assert.False(t, res.TurnState.ExtraRoll)
}

func TestThreeConsecutiveDoublesJail(t *testing.T) {
	f := newFixture(t)
	f.start()

	f.dice.dice = []int{2, 2} // -> tax tile 4
	f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})
	f.dice.dice = []int{3, 3} // -> jail tile 10, just visiting
	f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	f.dice.dice = []int{5, 5}
	res := f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	assert.Equal(t, []models.EventType{
		models.EventRollDice,
		models.EventRolledDouble,
		models.EventGoToJail,
		models.EventEndTurn,
	}, eventTypes(res.Events), "third double short-circuits movement")

	assert.Equal(t, 10, f.store.players[f.gameID][0].Position)
	assert.Equal(t, f.playerB, *res.TurnState.CurrentPlayer)
	assert.Zero(t, res.TurnState.DoublesCount)
}

func TestGoToJailTileEndsTurn(t *testing.T) {
	f := newFixture(t)
	f.start()
	f.store.players[f.gameID][0].Position = 18

	f.dice.dice = []int{1, 3} // 18 + 4 = 22, the court order tile
	res := f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	assert.Equal(t, []models.EventType{
		models.EventRollDice,
		models.EventMovePlayer,
		models.EventLandOnTile,
		models.EventLandGoToJail,
		models.EventGoToJail,
		models.EventMoveResolved,
		models.EventEndTurn,
	}, eventTypes(res.Events))
	assert.Equal(t, 10, f.store.players[f.gameID][0].Position)
	assert.Equal(t, f.playerB, *res.TurnState.CurrentPlayer)
}

func TestPassStartSalary(t *testing.T) {
	f := newFixture(t)
	f.start()
	f.store.players[f.gameID][0].Position = 20

	f.dice.dice = []int{2, 3} // 20 + 5 = 25 -> tile 1, past start
	res := f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	assert.Equal(t, 1700, res.TurnState.Balances[f.playerA])
	assert.Equal(t, 1, f.store.players[f.gameID][0].Position)
}

func TestPassStartSalaryHotelBonus(t *testing.T) {
	f := newFixture(t)
	f.start()
	f.store.players[f.gameID][0].Position = 20
	f.store.ownership[f.gameID][6] = models.OwnershipEntry{
		GameID: f.gameID, TileIndex: 6, PlayerID: f.playerA, Development: 5,
	}
	loan := uuid.New()
	f.store.ownership[f.gameID][9] = models.OwnershipEntry{
		GameID: f.gameID, TileIndex: 9, PlayerID: f.playerA, Development: 5, LoanID: &loan,
	}

	f.dice.dice = []int{2, 3}
	res := f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	// One unencumbered hotel: 200 + 25. The pledged hotel pays nothing.
	assert.Equal(t, 1725, res.TurnState.Balances[f.playerA])
}

func TestMacroEventDraw(t *testing.T) {
	f := newFixture(t)
	f.start()
	f.store.players[f.gameID][0].Position = 23

	f.dice.dice = []int{1, 2} // 23 + 3 = 26 % 24 = tile 2, an event tile
	f.dice.intn = []int{0}    // first weighted card: boom
	res := f.mustApply(f.userA, models.Intent{Type: models.IntentRollDice})

	types := eventTypes(res.Events)
	assert.Contains(t, types, models.EventLandEvent)
	assert.Contains(t, types, models.EventMacroEvent)

	ts := res.TurnState
	require.Len(t, ts.Modifiers, 1)
	assert.Equal(t, catalog.ModifierRentMultiplier, ts.Modifiers[0].Kind)
	assert.Equal(t, "boom", ts.LastMacroCard)
	// Passed start on the way.
	assert.Equal(t, 1700, ts.Balances[f.playerA])
}

func TestModifiersTickOnRoundWrap(t *testing.T) {
	f := newFixture(t)
	f.start()

	ts, _ := f.store.GetTurnState(context.Background(), f.gameID)
	ts.Modifiers = economy.Modifiers{{Kind: catalog.ModifierRentMultiplier, Magnitude: 1.5, Remaining: 2}}
	f.store.turnStates[f.gameID] = ts

	f.mustApply(f.userA, models.Intent{Type: models.IntentEndTurn})
	mid, _ := f.store.GetTurnState(context.Background(), f.gameID)
	require.Len(t, mid.Modifiers, 1)
	assert.Equal(t, 2, mid.Modifiers[0].Remaining, "mid-round handoff must not tick")

	f.mustApply(f.userB, models.Intent{Type: models.IntentEndTurn})
	after, _ := f.store.GetTurnState(context.Background(), f.gameID)
	require.Len(t, after.Modifiers, 1)
	assert.Equal(t, 1, after.Modifiers[0].Remaining, "wrap back to the first seat ticks one round")
}

func TestNotYourTurn(t *testing.T) {
	f := newFixture(t)
	f.start()

	_, err := f.apply(f.userB, models.Intent{Type: models.IntentRollDice})
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestNonMemberRejected(t *testing.T) {
	f := newFixture(t)
	f.start()

	_, err := f.p.Apply(context.Background(), Request{
		GameID:          f.gameID,
		UserID:          uuid.New(),
		Intent:          models.Intent{Type: models.IntentRollDice},
		ExpectedVersion: f.version,
	})
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestSingleWriterWinsOnVersionRace(t *testing.T) {
	f := newFixture(t)
	f.start()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	race := &raceStore{memStore: f.store}
	rival := NewProcessor(race, &scriptRoller{dice: []int{3, 4}}, NopNotifier{}, logger)

	// Both writers observe version 1; the end-turn lands first.
	race.beforeCommit = func() {
		f.mustApply(f.userA, models.Intent{Type: models.IntentEndTurn})
	}
	_, err := rival.Apply(context.Background(), Request{
		GameID:          f.gameID,
		UserID:          f.userA,
		Intent:          models.Intent{Type: models.IntentRollDice},
		ExpectedVersion: 1,
	})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	// Exactly one writer won: the end-turn is visible, the roll is not.
	ts, _ := f.store.GetTurnState(context.Background(), f.gameID)
	assert.EqualValues(t, 2, ts.Version)
	assert.Equal(t, f.playerB, *ts.CurrentPlayer)
	assert.NotContains(t, eventTypes(f.store.events[f.gameID]), models.EventRollDice)
}

func TestConcurrentStartLosesStatusGuard(t *testing.T) {
	f := newFixture(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	race := &raceStore{memStore: f.store}
	rival := NewProcessor(race, &scriptRoller{}, NopNotifier{}, logger)

	race.beforeCommit = func() { f.start() }
	_, err := rival.Apply(context.Background(), Request{
		GameID:          f.gameID,
		UserID:          f.userA,
		Intent:          models.Intent{Type: models.IntentStartGame},
		ExpectedVersion: 0,
	})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	g, _ := f.store.GetGame(context.Background(), f.gameID)
	assert.Equal(t, models.GameStatusInProgress, g.Status)
	assert.Equal(t, []models.EventType{models.EventStartGame}, eventTypes(f.store.events[f.gameID]),
		"the losing start must append nothing")
}

func TestJoinAssignsDenseSeatOrder(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.p.Apply(context.Background(), Request{
			GameID: f.gameID,
			UserID: uuid.New(),
			Intent: models.Intent{Type: models.IntentJoinGame, DisplayName: "Seat"},
		})
		require.NoError(t, err)
	}

	players, err := f.store.GetPlayers(context.Background(), f.gameID)
	require.NoError(t, err)
	require.Len(t, players, 5)
	for i, p := range players {
		assert.Equal(t, i, p.JoinOrder, "seat orders must be dense and unique")
	}
}

func TestStaleVersionRejected(t *testing.T) {
	f := newFixture(t)
	f.start()

	_, err := f.p.Apply(context.Background(), Request{
		GameID:          f.gameID,
		UserID:          f.userA,
		Intent:          models.Intent{Type: models.IntentRollDice},
		ExpectedVersion: 0,
	})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	// Nothing was written.
	ts, _ := f.store.GetTurnState(context.Background(), f.gameID)
	assert.Nil(t, ts.LastRoll)
	assert.Len(t, f.store.events[f.gameID], 1)
}

func TestBuildHouse(t *testing.T) {
	f := newFixture(t)
	f.start()
	f.store.ownership[f.gameID][6] = models.OwnershipEntry{
		GameID: f.gameID, TileIndex: 6, PlayerID: f.playerA, Development: 2,
	}

	res := f.mustApply(f.userA, models.Intent{Type: models.IntentBuildHouse, TileIndex: tileIdx(6)})

	require.Len(t, res.Events, 1)
	assert.Equal(t, models.EventBuildHouse, res.Events[0].Type)
	assert.Equal(t, 1450, res.TurnState.Balances[f.playerA])
	assert.Equal(t, 3, f.store.ownership[f.gameID][6].Development)
	// Building does not advance the turn.
	assert.Equal(t, f.playerA, *res.TurnState.CurrentPlayer)
}

func TestBuildHouseRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	f.start()

	_, err := f.apply(f.userA, models.Intent{Type: models.IntentBuildHouse, TileIndex: tileIdx(6)})
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))

	f.store.ownership[f.gameID][6] = models.OwnershipEntry{
		GameID: f.gameID, TileIndex: 6, PlayerID: f.playerA, Mortgaged: true,
	}
	_, err = f.apply(f.userA, models.Intent{Type: models.IntentBuildHouse, TileIndex: tileIdx(6)})
	require.Error(t, err)
	assert.Equal(t, KindState, KindOf(err))
}

func TestBuildHouseRejectsNonProperty(t *testing.T) {
	f := newFixture(t)
	f.start()
	f.store.ownership[f.gameID][5] = models.OwnershipEntry{
		GameID: f.gameID, TileIndex: 5, PlayerID: f.playerA,
	}

	_, err := f.apply(f.userA, models.Intent{Type: models.IntentBuildHouse, TileIndex: tileIdx(5)})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.apply(f.userA, models.Intent{Type: models.IntentBuildHouse, TileIndex: tileIdx(99)})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestEndGame(t *testing.T) {
	f := newFixture(t)
	f.start()

	res := f.mustApply(f.userA, models.Intent{Type: models.IntentEndGame})
	require.Len(t, res.Events, 1)
	assert.Equal(t, models.EventEndGame, res.Events[0].Type)

	g, _ := f.store.GetGame(context.Background(), f.gameID)
	assert.Equal(t, models.GameStatusEnded, g.Status)

	// A second end, even at the right version, reports already-ended.
	_, err := f.apply(f.userA, models.Intent{Type: models.IntentEndGame})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	// Turn actions are rejected on an ended game.
	_, err = f.apply(f.userA, models.Intent{Type: models.IntentRollDice})
	require.Error(t, err)
	assert.Equal(t, KindState, KindOf(err))
}

func TestUnknownGame(t *testing.T) {
	f := newFixture(t)
	_, err := f.p.Apply(context.Background(), Request{
		GameID: uuid.New(),
		UserID: f.userA,
		Intent: models.Intent{Type: models.IntentRollDice},
	})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUnknownBoardPack(t *testing.T) {
	f := newFixture(t)
	_, err := f.p.Apply(context.Background(), Request{
		UserID: f.userA,
		Intent: models.Intent{Type: models.IntentCreateGame, DisplayName: "Ada", BoardPack: "atlantis"},
	})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}
