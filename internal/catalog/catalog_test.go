package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassicPackIntegrity(t *testing.T) {
	pack, ok := ByID(DefaultPackID)
	require.True(t, ok)

	assert.Equal(t, 24, pack.BoardSize())
	for i, tile := range pack.Tiles {
		assert.Equal(t, i, tile.Index, "tile index must match position")
		if tile.Ownable() {
			assert.Positive(t, tile.Price, "ownable tile %d needs a price", i)
		}
		if tile.Type == TileProperty {
			assert.Positive(t, tile.HouseCost, "property %d needs a house cost", i)
			_, ok := pack.Economy.RentTables[tile.Group]
			assert.True(t, ok, "property %d group %q needs a rent table", i, tile.Group)
		}
		if tile.Type == TileTax {
			assert.Positive(t, tile.TaxAmount, "tax tile %d needs an amount", i)
		}
	}

	jail, ok := pack.Tile(pack.JailTile)
	require.True(t, ok)
	assert.Equal(t, TileJail, jail.Type)

	assert.Positive(t, pack.StartingCash)
	assert.Positive(t, pack.Economy.PassStartSalary)
	assert.Zero(t, pack.Economy.RailRentByCount[0])
}

func TestClassicMacroDeckHasWeight(t *testing.T) {
	pack, ok := ByID("classic")
	require.True(t, ok)

	total := 0
	seen := map[string]bool{}
	for _, card := range pack.MacroDeck {
		assert.False(t, seen[card.ID], "duplicate card id %q", card.ID)
		seen[card.ID] = true
		total += card.Weight
		if card.Kind == ModifierCashDelta || card.Kind == ModifierRegionalDisaster || card.Kind == ModifierMarginCall {
			assert.Zero(t, card.Duration, "instant card %q cannot have a duration", card.ID)
		} else {
			assert.Positive(t, card.Duration, "modifier card %q needs a duration", card.ID)
		}
	}
	assert.Positive(t, total)
}

func TestTileOutOfRange(t *testing.T) {
	pack, _ := ByID("classic")
	_, ok := pack.Tile(-1)
	assert.False(t, ok)
	_, ok = pack.Tile(pack.BoardSize())
	assert.False(t, ok)
}

func TestPropertyGroups(t *testing.T) {
	pack, _ := ByID("classic")
	groups := pack.PropertyGroups()
	assert.Equal(t, []string{"amber", "teal", "crimson", "sapphire", "gold"}, groups)
}

func TestByIDUnknown(t *testing.T) {
	_, ok := ByID("atlantis")
	assert.False(t, ok)
}
