package economy

import "github.com/magnatehq/magnate/internal/catalog"

// Modifier is one active macro effect on a game's economy. Remaining counts
// full rounds; it is decremented once per completed round and the modifier
// is dropped before the next application when it reaches zero.
type Modifier struct {
	Kind      catalog.ModifierKind `json:"kind"`
	Magnitude float64              `json:"magnitude"`
	Remaining int                  `json:"remaining"`
}

// Modifiers is the set of currently active macro effects. Same-kind
// multipliers compose by multiplication, same-kind deltas by summation, so
// composition order never changes the result.
type Modifiers []Modifier

func (m Modifiers) factor(kind catalog.ModifierKind) float64 {
	f := 1.0
	for _, mod := range m {
		if mod.Kind == kind && mod.Remaining > 0 {
			f *= mod.Magnitude
		}
	}
	return f
}

func (m Modifiers) delta(kind catalog.ModifierKind) float64 {
	var d float64
	for _, mod := range m {
		if mod.Kind == kind && mod.Remaining > 0 {
			d += mod.Magnitude
		}
	}
	return d
}

// RentFactor is the composed multiplier applied to property rent and to the
// pass-start salary.
func (m Modifiers) RentFactor() float64 { return m.factor(catalog.ModifierRentMultiplier) }

// RailRentFactor is the composed multiplier applied to rail rent.
func (m Modifiers) RailRentFactor() float64 { return m.factor(catalog.ModifierRailRentMultiplier) }

// BuildCostFactor is the composed multiplier applied to development costs.
func (m Modifiers) BuildCostFactor() float64 { return m.factor(catalog.ModifierBuildCostMultiplier) }

// UtilityHouseBonus is the per-house rent bonus added to utility rent.
func (m Modifiers) UtilityHouseBonus() float64 { return m.delta(catalog.ModifierUtilityHouseBonus) }

// LoansBlocked reports whether an active modifier forbids new borrowing.
func (m Modifiers) LoansBlocked() bool {
	for _, mod := range m {
		if mod.Kind == catalog.ModifierLoanBlock && mod.Remaining > 0 {
			return true
		}
	}
	return false
}

// InterestRate applies the active trend and delta modifiers to the base
// rate: trend kinds compound multiplicatively, delta kinds add flat points.
func (m Modifiers) InterestRate(base float64) float64 {
	return base*m.factor(catalog.ModifierInterestTrend) + m.delta(catalog.ModifierInterestDelta)
}

// Add returns the set with mod appended. Zero-duration effects apply once at
// draw time and are never tracked, so they are rejected here.
func (m Modifiers) Add(mod Modifier) Modifiers {
	if mod.Remaining <= 0 {
		return m
	}
	out := make(Modifiers, len(m), len(m)+1)
	copy(out, m)
	return append(out, mod)
}

// TickRound decrements every modifier by one round and drops the expired
// ones. Called when the turn order wraps back to the first player.
func (m Modifiers) TickRound() Modifiers {
	var out Modifiers
	for _, mod := range m {
		mod.Remaining--
		if mod.Remaining > 0 {
			out = append(out, mod)
		}
	}
	return out
}
