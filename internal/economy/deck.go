package economy

import "github.com/magnatehq/magnate/internal/catalog"

// Draw picks one card from the macro deck by weight, never repeating the
// immediately previous card. intn must return a uniform value in [0, n);
// injecting it keeps deck fairness unit-testable. Returns false when no
// card is eligible (empty deck, all weights zero, or only the excluded card
// carries weight).
func Draw(deck []catalog.MacroCard, excludeID string, intn func(n int) int) (catalog.MacroCard, bool) {
	total := 0
	for _, c := range deck {
		if c.ID == excludeID || c.Weight <= 0 {
			continue
		}
		total += c.Weight
	}
	if total <= 0 {
		return catalog.MacroCard{}, false
	}
	pick := intn(total)
	for _, c := range deck {
		if c.ID == excludeID || c.Weight <= 0 {
			continue
		}
		pick -= c.Weight
		if pick < 0 {
			return c, true
		}
	}
	// Unreachable when intn honours its contract.
	return catalog.MacroCard{}, false
}
