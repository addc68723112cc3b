package economy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magnatehq/magnate/internal/catalog"
)

func testDeck() []catalog.MacroCard {
	return []catalog.MacroCard{
		{ID: "boom", Weight: 4},
		{ID: "recession", Weight: 4},
		{ID: "storm", Weight: 1},
		{ID: "retired", Weight: 0},
	}
}

func TestDrawNeverRepeatsPrevious(t *testing.T) {
	deck := testDeck()
	rng := rand.New(rand.NewSource(42))

	prev := ""
	for i := 0; i < 200; i++ {
		card, ok := Draw(deck, prev, rng.Intn)
		require.True(t, ok)
		assert.NotEqual(t, prev, card.ID)
		assert.NotEqual(t, "retired", card.ID, "zero-weight cards must never draw")
		prev = card.ID
	}
}

func TestDrawWeightProportions(t *testing.T) {
	deck := testDeck()
	rng := rand.New(rand.NewSource(7))

	counts := map[string]int{}
	for i := 0; i < 9000; i++ {
		card, ok := Draw(deck, "", rng.Intn)
		require.True(t, ok)
		counts[card.ID]++
	}
	// boom and recession each carry 4/9 of the weight, storm 1/9.
	assert.Greater(t, counts["boom"], counts["storm"])
	assert.Greater(t, counts["recession"], counts["storm"])
	assert.InDelta(t, 1000, counts["storm"], 300)
}

func TestDrawNoEligibleCards(t *testing.T) {
	_, ok := Draw(nil, "", func(int) int { return 0 })
	assert.False(t, ok)

	deck := []catalog.MacroCard{{ID: "only", Weight: 3}}
	_, ok = Draw(deck, "only", func(int) int { return 0 })
	assert.False(t, ok, "excluding the only weighted card leaves nothing to draw")

	_, ok = Draw([]catalog.MacroCard{{ID: "dead", Weight: 0}}, "", func(int) int { return 0 })
	assert.False(t, ok)
}

func TestDrawDeterministicWithSeededSource(t *testing.T) {
	deck := testDeck()

	a, ok := Draw(deck, "", rand.New(rand.NewSource(99)).Intn)
	require.True(t, ok)
	b, ok := Draw(deck, "", rand.New(rand.NewSource(99)).Intn)
	require.True(t, ok)
	assert.Equal(t, a.ID, b.ID)
}
