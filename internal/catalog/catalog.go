// Package catalog holds the static board configuration: tile layouts, rent
// tables, per-pack economic constants and the macro-event deck. Packs are
// immutable; the action processor and the economy engine read them but never
// write to them.
package catalog

// TileType discriminates how landing on a tile is resolved.
type TileType string

const (
	TileStart       TileType = "START"
	TileProperty    TileType = "PROPERTY"
	TileRail        TileType = "RAIL"
	TileUtility     TileType = "UTILITY"
	TileTax         TileType = "TAX"
	TileEvent       TileType = "EVENT"
	TileJail        TileType = "JAIL"
	TileGoToJail    TileType = "GO_TO_JAIL"
	TileFreeParking TileType = "FREE_PARKING"
)

// Tile is one board position. Price is only meaningful for ownable tiles,
// TaxAmount for TAX tiles and HouseCost for PROPERTY tiles.
type Tile struct {
	Index     int      `json:"index"`
	Name      string   `json:"name"`
	Type      TileType `json:"type"`
	Group     string   `json:"group,omitempty"`
	Price     int      `json:"price,omitempty"`
	TaxAmount int      `json:"tax_amount,omitempty"`
	HouseCost int      `json:"house_cost,omitempty"`
}

// Ownable reports whether the tile can be purchased and held.
func (t Tile) Ownable() bool {
	return t.Type == TileProperty || t.Type == TileRail || t.Type == TileUtility
}

// Economy carries the per-pack economic constants consumed by the rules
// engine.
type Economy struct {
	// PassStartSalary is the base amount credited when a player passes START.
	PassStartSalary int

	// HotelSalaryBonus is added to the salary for every hotel-level
	// development the receiving player holds on unencumbered properties.
	HotelSalaryBonus int

	// HotelIncrementMultiplier scales the top house rent into the per-hotel
	// rent increment: increment = ceil(table[4] * multiplier).
	HotelIncrementMultiplier float64

	// UtilityBaseAmount, together with the single/double multipliers, turns
	// the last dice roll into utility rent.
	UtilityBaseAmount       int
	UtilitySingleMultiplier int
	UtilityDoubleMultiplier int

	// RailRentByCount indexes rail rent by how many rails one owner holds.
	// Index 0 is unused and must be 0.
	RailRentByCount []int

	// RentTables maps a property group to its rent by development level 0-4.
	RentTables map[string][5]int

	// BaseInterestRate is the reference rate macro modifiers adjust.
	BaseInterestRate float64
}

// ModifierKind tags a macro effect drawn from the event deck. Multiplier
// kinds compose by product, delta kinds by sum; the black-swan kinds apply
// once and are never tracked as active modifiers.
type ModifierKind string

const (
	ModifierRentMultiplier      ModifierKind = "RENT_MULTIPLIER"
	ModifierRailRentMultiplier  ModifierKind = "RAIL_RENT_MULTIPLIER"
	ModifierBuildCostMultiplier ModifierKind = "BUILD_COST_MULTIPLIER"
	ModifierCashDelta           ModifierKind = "CASH_DELTA"
	ModifierLoanBlock           ModifierKind = "LOAN_BLOCK"
	ModifierInterestTrend       ModifierKind = "INTEREST_TREND"
	ModifierInterestDelta       ModifierKind = "INTEREST_DELTA"
	ModifierUtilityHouseBonus   ModifierKind = "UTILITY_HOUSE_BONUS"
	ModifierRegionalDisaster    ModifierKind = "REGIONAL_DISASTER"
	ModifierMarginCall          ModifierKind = "MARGIN_CALL"
)

// MacroCard is one entry in a pack's weighted macro-event deck. Duration 0
// means the effect applies once when drawn; a positive duration keeps the
// effect active for that many full rounds. Weight 0 removes the card from
// the draw without deleting it from the pack.
type MacroCard struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Kind      ModifierKind `json:"kind"`
	Magnitude float64      `json:"magnitude"`
	Duration  int          `json:"duration"`
	Weight    int          `json:"weight"`
}

// Pack is a complete, immutable board configuration.
type Pack struct {
	ID           string
	Name         string
	Tiles        []Tile
	Economy      Economy
	MacroDeck    []MacroCard
	JailTile     int
	StartingCash int
}

// BoardSize returns the number of tiles on the board.
func (p *Pack) BoardSize() int { return len(p.Tiles) }

// Tile returns the tile at index i, or false if i is out of range.
func (p *Pack) Tile(i int) (Tile, bool) {
	if i < 0 || i >= len(p.Tiles) {
		return Tile{}, false
	}
	return p.Tiles[i], true
}

// PropertyGroups returns the distinct property groups on the board in tile
// order. Used by black-swan effects that target a random group.
func (p *Pack) PropertyGroups() []string {
	seen := map[string]bool{}
	var groups []string
	for _, t := range p.Tiles {
		if t.Type != TileProperty || t.Group == "" || seen[t.Group] {
			continue
		}
		seen[t.Group] = true
		groups = append(groups, t.Group)
	}
	return groups
}

var packs = map[string]*Pack{
	Classic.ID: Classic,
}

// ByID looks up a registered pack.
func ByID(id string) (*Pack, bool) {
	p, ok := packs[id]
	return p, ok
}

// DefaultPackID is used when a game is created without naming a pack.
const DefaultPackID = "classic"
