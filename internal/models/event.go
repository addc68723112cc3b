// internal/models/event.go
package models

import "github.com/google/uuid"

// EventType tags an entry in a game's append-only event log.
type EventType string

const (
	EventStartGame       EventType = "START_GAME"
	EventEndGame         EventType = "END_GAME"
	EventRollDice        EventType = "ROLL_DICE"
	EventRolledDouble    EventType = "ROLLED_DOUBLE"
	EventMovePlayer      EventType = "MOVE_PLAYER"
	EventLandOnTile      EventType = "LAND_ON_TILE"
	EventLandProperty    EventType = "LAND_PROPERTY"
	EventLandTax         EventType = "LAND_TAX"
	EventLandEvent       EventType = "LAND_EVENT"
	EventLandJail        EventType = "LAND_JAIL"
	EventLandGoToJail    EventType = "LAND_GO_TO_JAIL"
	EventLandStart       EventType = "LAND_START"
	EventLandFreeParking EventType = "LAND_FREE_PARKING"
	EventGoToJail        EventType = "GO_TO_JAIL"
	EventOfferPurchase   EventType = "OFFER_PURCHASE"
	EventMoveResolved    EventType = "MOVE_RESOLVED"
	EventAllowExtraRoll  EventType = "ALLOW_EXTRA_ROLL"
	EventBuyProperty     EventType = "BUY_PROPERTY"
	EventDeclineProperty EventType = "DECLINE_PROPERTY"
	EventPayRent         EventType = "PAY_RENT"
	EventMacroEvent      EventType = "MACRO_EVENT"
	EventBuildHouse      EventType = "BUILD_HOUSE"
	EventEndTurn         EventType = "END_TURN"
)

// Event is one immutable record in a game's log, keyed by (game, version).
// Payload holds the matching typed payload struct on the write path and raw
// JSON when read back from the store.
type Event struct {
	GameID  uuid.UUID `json:"game_id"`
	Version int64     `json:"version"`
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// Typed event payloads. One struct per event type; only catalog-driven
// display text (card titles) stays free-form.

type StartGamePayload struct {
	PlayerOrder  []uuid.UUID `json:"player_order"`
	StartingCash int         `json:"starting_cash"`
}

type EndGamePayload struct {
	EndedBy uuid.UUID `json:"ended_by"`
}

type RollDicePayload struct {
	PlayerID uuid.UUID `json:"player_id"`
	Die1     int       `json:"die1"`
	Die2     int       `json:"die2"`
	Total    int       `json:"total"`
	Double   bool      `json:"double"`
}

type RolledDoublePayload struct {
	PlayerID     uuid.UUID `json:"player_id"`
	DoublesCount int       `json:"doubles_count"`
}

type MovePlayerPayload struct {
	PlayerID    uuid.UUID `json:"player_id"`
	From        int       `json:"from"`
	To          int       `json:"to"`
	PassedStart bool      `json:"passed_start"`
	Salary      int       `json:"salary,omitempty"`
}

type LandOnTilePayload struct {
	PlayerID  uuid.UUID `json:"player_id"`
	TileIndex int       `json:"tile_index"`
	TileType  string    `json:"tile_type"`
	TileName  string    `json:"tile_name"`
}

type TileResolutionPayload struct {
	PlayerID  uuid.UUID `json:"player_id"`
	TileIndex int       `json:"tile_index"`
	Amount    int       `json:"amount,omitempty"`
}

type GoToJailPayload struct {
	PlayerID uuid.UUID `json:"player_id"`
	JailTile int       `json:"jail_tile"`
}

type OfferPurchasePayload struct {
	PlayerID  uuid.UUID `json:"player_id"`
	TileIndex int       `json:"tile_index"`
	Price     int       `json:"price"`
}

type MoveResolvedPayload struct {
	PlayerID  uuid.UUID `json:"player_id"`
	TileIndex int       `json:"tile_index"`
}

type AllowExtraRollPayload struct {
	PlayerID uuid.UUID `json:"player_id"`
}

type PurchasePayload struct {
	PlayerID  uuid.UUID `json:"player_id"`
	TileIndex int       `json:"tile_index"`
	Price     int       `json:"price,omitempty"`
}

type PayRentPayload struct {
	FromPlayer uuid.UUID `json:"from_player"`
	ToPlayer   uuid.UUID `json:"to_player"`
	TileIndex  int       `json:"tile_index"`
	Amount     int       `json:"amount"`
}

type MacroEventPayload struct {
	CardID    string            `json:"card_id"`
	Title     string            `json:"title"`
	Kind      string            `json:"kind"`
	Magnitude float64           `json:"magnitude"`
	Duration  int               `json:"duration"`
	Group     string            `json:"group,omitempty"`
	Charges   map[uuid.UUID]int `json:"charges,omitempty"`
}

type BuildHousePayload struct {
	PlayerID  uuid.UUID `json:"player_id"`
	TileIndex int       `json:"tile_index"`
	Level     int       `json:"level"`
	Cost      int       `json:"cost"`
}

type EndTurnPayload struct {
	PlayerID   uuid.UUID `json:"player_id"`
	NextPlayer uuid.UUID `json:"next_player"`
}
