// internal/models/intent.go
package models

// IntentType names a player-issued action submitted to the processor.
type IntentType string

const (
	IntentCreateGame      IntentType = "CREATE_GAME"
	IntentJoinGame        IntentType = "JOIN_GAME"
	IntentStartGame       IntentType = "START_GAME"
	IntentEndGame         IntentType = "END_GAME"
	IntentRollDice        IntentType = "ROLL_DICE"
	IntentBuyProperty     IntentType = "BUY_PROPERTY"
	IntentDeclineProperty IntentType = "DECLINE_PROPERTY"
	IntentBuildHouse      IntentType = "BUILD_HOUSE"
	IntentEndTurn         IntentType = "END_TURN"
)

// Intent captures a player's request. Only the fields relevant to Type are
// read; the processor validates presence per intent.
type Intent struct {
	Type IntentType `json:"action"`

	// CREATE_GAME
	BoardPack    string `json:"board_pack,omitempty"`
	StartingCash int    `json:"starting_cash,omitempty"`

	// CREATE_GAME / JOIN_GAME
	DisplayName string `json:"display_name,omitempty"`

	// BUY_PROPERTY / DECLINE_PROPERTY / BUILD_HOUSE
	TileIndex *int `json:"tile_index,omitempty"`
}
