// Package economy is the pure rules engine: rent, development cost and
// pass-start salary computed from catalog data, ownership counts and the
// active macro modifiers. It holds no state and performs no I/O; unknown
// tiles or groups fall back to zero rather than erroring.
package economy

import (
	"math"

	"github.com/magnatehq/magnate/internal/catalog"
)

// HousesPerHotel is the development level at which houses promote to a
// hotel: level 5 is one hotel, level 7 one hotel and two houses, and so on.
const HousesPerHotel = 5

// PropertyRent computes rent for a property tile at the given development
// level. Levels 0-4 index the group's rent table directly; beyond that the
// level is expressed as hotels plus remainder houses, each hotel adding
// ceil(table[4] * hotelIncrementMultiplier) on top of the remainder rent.
func PropertyRent(tile catalog.Tile, eco catalog.Economy, level int, mods Modifiers) int {
	table, ok := eco.RentTables[tile.Group]
	if !ok || level < 0 {
		return 0
	}
	var base int
	if level <= 4 {
		base = table[level]
	} else {
		hotels := level / HousesPerHotel
		remainder := level % HousesPerHotel
		increment := int(math.Ceil(float64(table[4]) * eco.HotelIncrementMultiplier))
		base = table[remainder] + hotels*increment
	}
	return int(math.Round(float64(base) * mods.RentFactor()))
}

// RailRent is indexed purely by how many rails the owner holds. A count past
// the end of the table clamps to the top entry; a missing table is zero rent.
func RailRent(eco catalog.Economy, ownedRails int, mods Modifiers) int {
	if ownedRails <= 0 || len(eco.RailRentByCount) == 0 {
		return 0
	}
	if ownedRails >= len(eco.RailRentByCount) {
		ownedRails = len(eco.RailRentByCount) - 1
	}
	return int(math.Round(float64(eco.RailRentByCount[ownedRails]) * mods.RailRentFactor()))
}

// UtilityRent computes lastRoll x multiplier x base, where the multiplier
// depends on whether the owner holds one utility or both. An active
// utility-house-bonus modifier adds its magnitude per house the owner has
// developed anywhere on the board.
func UtilityRent(eco catalog.Economy, lastRoll, ownedUtilities, ownerHouses int, mods Modifiers) int {
	if ownedUtilities <= 0 || lastRoll <= 0 {
		return 0
	}
	mult := eco.UtilitySingleMultiplier
	if ownedUtilities >= 2 {
		mult = eco.UtilityDoubleMultiplier
	}
	rent := float64(lastRoll * mult * eco.UtilityBaseAmount)
	rent += mods.UtilityHouseBonus() * float64(ownerHouses)
	return int(math.Round(rent))
}

// HouseCost prices one development step on a property tile.
func HouseCost(tile catalog.Tile, mods Modifiers) int {
	return int(math.Round(float64(tile.HouseCost) * mods.BuildCostFactor()))
}

// Salary computes the pass-start credit: the pack's base amount plus the
// hotel bonus for every hotel the receiving player holds on unencumbered
// properties, composed through the active rent multipliers.
func Salary(eco catalog.Economy, unencumberedHotels int, mods Modifiers) int {
	base := eco.PassStartSalary + unencumberedHotels*eco.HotelSalaryBonus
	return int(math.Round(float64(base) * mods.RentFactor()))
}
