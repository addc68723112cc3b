// internal/engine/roll.go
package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/magnatehq/magnate/internal/catalog"
	"github.com/magnatehq/magnate/internal/economy"
	"github.com/magnatehq/magnate/internal/models"
)

// rollDice moves the current player and resolves the landing tile. All
// randomness is drawn before any write, so a lost conditional write never
// replays dice or deck outcomes.
func (p *Processor) rollDice(ctx context.Context, req Request) (*Result, error) {
	tc, err := p.loadTurn(ctx, req)
	if err != nil {
		return nil, err
	}
	if tc.ts.Pending != nil {
		return nil, statef("a pending decision must be resolved before rolling")
	}
	if tc.ts.LastRoll != nil && !tc.ts.ExtraRoll {
		return nil, statef("already rolled this turn")
	}

	roll := models.Roll{Die1: p.dice.Die(), Die2: p.dice.Die()}

	ts := tc.ts.Clone()
	ts.ExtraRoll = false
	ver := ts.Version
	var events []models.Event
	appendEvent := func(t models.EventType, payload any) {
		ver++
		events = append(events, models.Event{GameID: tc.game.ID, Version: ver, Type: t, Payload: payload})
	}

	caller := tc.caller.ID
	appendEvent(models.EventRollDice, models.RollDicePayload{
		PlayerID: caller, Die1: roll.Die1, Die2: roll.Die2,
		Total: roll.Total(), Double: roll.IsDouble(),
	})

	positions := map[uuid.UUID]int{}
	if roll.IsDouble() {
		ts.DoublesCount++
		appendEvent(models.EventRolledDouble, models.RolledDoublePayload{
			PlayerID: caller, DoublesCount: ts.DoublesCount,
		})
		if ts.DoublesCount >= 3 {
			// Third consecutive double: straight to jail, no movement, no
			// tile resolution.
			positions[caller] = tc.pack.JailTile
			appendEvent(models.EventGoToJail, models.GoToJailPayload{
				PlayerID: caller, JailTile: tc.pack.JailTile,
			})
			advanceTurn(ts, tc.players, appendEvent)
			ts.Version = ver
			return p.commit(ctx, tc, ts, events, positions, nil, nil, "")
		}
	} else {
		ts.DoublesCount = 0
	}
	ts.LastRoll = &roll

	from := tc.caller.Position
	size := tc.pack.BoardSize()
	to := (from + roll.Total()) % size
	passedStart := from+roll.Total() >= size

	salary := 0
	if passedStart {
		hotels := unencumberedHotels(tc.ownership, caller)
		salary = economy.Salary(tc.pack.Economy, hotels, ts.Modifiers)
		ts.Balances[caller] += salary
	}
	positions[caller] = to
	appendEvent(models.EventMovePlayer, models.MovePlayerPayload{
		PlayerID: caller, From: from, To: to, PassedStart: passedStart, Salary: salary,
	})

	tile, _ := tc.pack.Tile(to)
	appendEvent(models.EventLandOnTile, models.LandOnTilePayload{
		PlayerID: caller, TileIndex: to, TileType: string(tile.Type), TileName: tile.Name,
	})

	jailed := p.resolveTile(tc, ts, tile, roll, appendEvent, positions)
	appendEvent(models.EventMoveResolved, models.MoveResolvedPayload{PlayerID: caller, TileIndex: to})

	switch {
	case jailed:
		advanceTurn(ts, tc.players, appendEvent)
	case roll.IsDouble() && ts.Pending == nil:
		// A doubles credit with an unresolved purchase would let the decision
		// stall the whole table, so the credit only survives a clean landing.
		ts.ExtraRoll = true
		appendEvent(models.EventAllowExtraRoll, models.AllowExtraRollPayload{PlayerID: caller})
	}
	ts.Version = ver
	return p.commit(ctx, tc, ts, events, positions, nil, nil, "")
}

// resolveTile applies the landing consequence for one tile. Returns true
// when the landing sends the player to jail and must end the turn.
func (p *Processor) resolveTile(tc *turnCtx, ts *models.TurnState, tile catalog.Tile,
	roll models.Roll, appendEvent func(models.EventType, any), positions map[uuid.UUID]int) bool {

	caller := tc.caller.ID
	switch tile.Type {
	case catalog.TileProperty, catalog.TileRail, catalog.TileUtility:
		appendEvent(models.EventLandProperty, models.TileResolutionPayload{
			PlayerID: caller, TileIndex: tile.Index,
		})
		owner := ownershipAt(tc.ownership, tile.Index)
		if owner == nil {
			ts.Pending = &models.PendingAction{
				Kind:        models.PendingBuyProperty,
				BuyProperty: &models.BuyPropertyDecision{TileIndex: tile.Index, Price: tile.Price},
			}
			ts.Phase = models.PhaseAwaitingDecision
			appendEvent(models.EventOfferPurchase, models.OfferPurchasePayload{
				PlayerID: caller, TileIndex: tile.Index, Price: tile.Price,
			})
			return false
		}
		if owner.PlayerID == caller || owner.Mortgaged {
			return false
		}
		rent := p.rentFor(tc, tile, owner, roll.Total(), ts.Modifiers)
		if rent > 0 {
			ts.Balances[caller] -= rent
			ts.Balances[owner.PlayerID] += rent
			appendEvent(models.EventPayRent, models.PayRentPayload{
				FromPlayer: caller, ToPlayer: owner.PlayerID, TileIndex: tile.Index, Amount: rent,
			})
		}

	case catalog.TileTax:
		ts.Balances[caller] -= tile.TaxAmount
		appendEvent(models.EventLandTax, models.TileResolutionPayload{
			PlayerID: caller, TileIndex: tile.Index, Amount: tile.TaxAmount,
		})

	case catalog.TileEvent:
		appendEvent(models.EventLandEvent, models.TileResolutionPayload{
			PlayerID: caller, TileIndex: tile.Index,
		})
		if card, ok := economy.Draw(tc.pack.MacroDeck, ts.LastMacroCard, p.dice.Intn); ok {
			payload := p.applyMacroCard(tc, ts, card)
			ts.LastMacroCard = card.ID
			appendEvent(models.EventMacroEvent, payload)
		}

	case catalog.TileGoToJail:
		appendEvent(models.EventLandGoToJail, models.TileResolutionPayload{
			PlayerID: caller, TileIndex: tile.Index,
		})
		positions[caller] = tc.pack.JailTile
		appendEvent(models.EventGoToJail, models.GoToJailPayload{
			PlayerID: caller, JailTile: tc.pack.JailTile,
		})
		return true

	case catalog.TileJail:
		appendEvent(models.EventLandJail, models.TileResolutionPayload{
			PlayerID: caller, TileIndex: tile.Index,
		})
	case catalog.TileStart:
		appendEvent(models.EventLandStart, models.TileResolutionPayload{
			PlayerID: caller, TileIndex: tile.Index,
		})
	case catalog.TileFreeParking:
		appendEvent(models.EventLandFreeParking, models.TileResolutionPayload{
			PlayerID: caller, TileIndex: tile.Index,
		})
	}
	return false
}

// rentFor prices a landing on another player's unmortgaged tile.
func (p *Processor) rentFor(tc *turnCtx, tile catalog.Tile, owner *models.OwnershipEntry,
	lastRoll int, mods economy.Modifiers) int {

	eco := tc.pack.Economy
	switch tile.Type {
	case catalog.TileProperty:
		return economy.PropertyRent(tile, eco, owner.Development, mods)
	case catalog.TileRail:
		return economy.RailRent(eco, countOwnedType(tc, owner.PlayerID, catalog.TileRail), mods)
	case catalog.TileUtility:
		owned := countOwnedType(tc, owner.PlayerID, catalog.TileUtility)
		houses := totalDevelopment(tc.ownership, owner.PlayerID)
		return economy.UtilityRent(eco, lastRoll, owned, houses, mods)
	}
	return 0
}

// applyMacroCard applies one drawn card: duration-bound kinds register a
// modifier, instant kinds settle cash immediately.
func (p *Processor) applyMacroCard(tc *turnCtx, ts *models.TurnState, card catalog.MacroCard) models.MacroEventPayload {
	payload := models.MacroEventPayload{
		CardID:    card.ID,
		Title:     card.Title,
		Kind:      string(card.Kind),
		Magnitude: card.Magnitude,
		Duration:  card.Duration,
	}

	switch card.Kind {
	case catalog.ModifierCashDelta:
		ts.Balances[tc.caller.ID] += int(card.Magnitude)

	case catalog.ModifierRegionalDisaster:
		// One random property group takes storm damage: each owner pays the
		// card's magnitude per house built in the group.
		groups := tc.pack.PropertyGroups()
		if len(groups) == 0 {
			return payload
		}
		group := groups[p.dice.Intn(len(groups))]
		payload.Group = group
		charges := map[uuid.UUID]int{}
		for _, o := range tc.ownership {
			tile, ok := tc.pack.Tile(o.TileIndex)
			if !ok || tile.Type != catalog.TileProperty || tile.Group != group || o.Development == 0 {
				continue
			}
			charges[o.PlayerID] += int(card.Magnitude) * o.Development
		}
		for id, amount := range charges {
			ts.Balances[id] -= amount
		}
		if len(charges) > 0 {
			payload.Charges = charges
		}

	case catalog.ModifierMarginCall:
		// Every encumbered tile costs its owner the card's magnitude.
		charges := map[uuid.UUID]int{}
		for _, o := range tc.ownership {
			if o.Encumbered() {
				charges[o.PlayerID] += int(card.Magnitude)
			}
		}
		for id, amount := range charges {
			ts.Balances[id] -= amount
		}
		if len(charges) > 0 {
			payload.Charges = charges
		}

	default:
		ts.Modifiers = ts.Modifiers.Add(economy.Modifier{
			Kind:      card.Kind,
			Magnitude: card.Magnitude,
			Remaining: card.Duration,
		})
	}
	return payload
}

func (p *Processor) buildHouse(ctx context.Context, req Request) (*Result, error) {
	tc, err := p.loadTurn(ctx, req)
	if err != nil {
		return nil, err
	}
	if tc.ts.Pending != nil {
		return nil, statef("a pending decision must be resolved before building")
	}
	if req.Intent.TileIndex == nil {
		return nil, validationf("tile_index is required")
	}
	tile, ok := tc.pack.Tile(*req.Intent.TileIndex)
	if !ok {
		return nil, notFoundf("tile %d is not on the board", *req.Intent.TileIndex)
	}
	if tile.Type != catalog.TileProperty {
		return nil, validationf("tile %d is not developable", tile.Index)
	}
	owner := ownershipAt(tc.ownership, tile.Index)
	if owner == nil || owner.PlayerID != tc.caller.ID {
		return nil, forbiddenf("you do not own tile %d", tile.Index)
	}
	if owner.Encumbered() {
		return nil, statef("tile %d is mortgaged or pledged and cannot be developed", tile.Index)
	}
	cost := economy.HouseCost(tile, tc.ts.Modifiers)
	if tc.ts.Balances[tc.caller.ID] < cost {
		return nil, statef("insufficient funds: development costs %d", cost)
	}

	ts := tc.ts.Clone()
	ts.Balances[tc.caller.ID] -= cost
	ts.Version++
	level := owner.Development + 1
	events := []models.Event{{
		GameID:  tc.game.ID,
		Version: ts.Version,
		Type:    models.EventBuildHouse,
		Payload: models.BuildHousePayload{
			PlayerID: tc.caller.ID, TileIndex: tile.Index, Level: level, Cost: cost,
		},
	}}
	upgraded := *owner
	upgraded.Development = level
	return p.commit(ctx, tc, ts, events, nil, []models.OwnershipEntry{upgraded}, nil, "")
}

func ownershipAt(entries []models.OwnershipEntry, tileIndex int) *models.OwnershipEntry {
	for i := range entries {
		if entries[i].TileIndex == tileIndex {
			return &entries[i]
		}
	}
	return nil
}

func countOwnedType(tc *turnCtx, playerID uuid.UUID, tt catalog.TileType) int {
	n := 0
	for _, o := range tc.ownership {
		if o.PlayerID != playerID {
			continue
		}
		if tile, ok := tc.pack.Tile(o.TileIndex); ok && tile.Type == tt {
			n++
		}
	}
	return n
}

func totalDevelopment(entries []models.OwnershipEntry, playerID uuid.UUID) int {
	n := 0
	for _, o := range entries {
		if o.PlayerID == playerID {
			n += o.Development
		}
	}
	return n
}

// unencumberedHotels counts full hotels across the player's holdings,
// skipping mortgaged and loan-pledged tiles. Feeds the salary bonus.
func unencumberedHotels(entries []models.OwnershipEntry, playerID uuid.UUID) int {
	n := 0
	for _, o := range entries {
		if o.PlayerID != playerID || o.Encumbered() {
			continue
		}
		n += o.Development / economy.HousesPerHotel
	}
	return n
}
