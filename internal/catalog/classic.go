package catalog

// Classic is the default 24-tile board pack.
var Classic = &Pack{
	ID:           "classic",
	Name:         "Classic",
	JailTile:     10,
	StartingCash: 1500,
	Tiles: []Tile{
		{Index: 0, Name: "Start", Type: TileStart},
		{Index: 1, Name: "Juniper Lane", Type: TileProperty, Group: "amber", Price: 60, HouseCost: 50},
		{Index: 2, Name: "Market Watch", Type: TileEvent},
		{Index: 3, Name: "Mulberry Row", Type: TileProperty, Group: "amber", Price: 60, HouseCost: 50},
		{Index: 4, Name: "Income Levy", Type: TileTax, TaxAmount: 100},
		{Index: 5, Name: "North Junction", Type: TileRail, Group: "rail", Price: 200},
		{Index: 6, Name: "Harbor View", Type: TileProperty, Group: "teal", Price: 100, HouseCost: 50},
		{Index: 7, Name: "Dockside Walk", Type: TileProperty, Group: "teal", Price: 100, HouseCost: 50},
		{Index: 8, Name: "Market Watch", Type: TileEvent},
		{Index: 9, Name: "Cannery Square", Type: TileProperty, Group: "teal", Price: 120, HouseCost: 50},
		{Index: 10, Name: "Holding Cells", Type: TileJail},
		{Index: 11, Name: "Foundry Street", Type: TileProperty, Group: "crimson", Price: 140, HouseCost: 100},
		{Index: 12, Name: "Power Grid", Type: TileUtility, Group: "utility", Price: 150},
		{Index: 13, Name: "Ironworks Avenue", Type: TileProperty, Group: "crimson", Price: 140, HouseCost: 100},
		{Index: 14, Name: "Mill District", Type: TileProperty, Group: "crimson", Price: 160, HouseCost: 100},
		{Index: 15, Name: "South Junction", Type: TileRail, Group: "rail", Price: 200},
		{Index: 16, Name: "Granite Plaza", Type: TileProperty, Group: "sapphire", Price: 180, HouseCost: 100},
		{Index: 17, Name: "Waterworks", Type: TileUtility, Group: "utility", Price: 150},
		{Index: 18, Name: "Beacon Hill", Type: TileProperty, Group: "sapphire", Price: 180, HouseCost: 100},
		{Index: 19, Name: "Summit Court", Type: TileProperty, Group: "sapphire", Price: 200, HouseCost: 100},
		{Index: 20, Name: "The Commons", Type: TileFreeParking},
		{Index: 21, Name: "Regent Parade", Type: TileProperty, Group: "gold", Price: 220, HouseCost: 150},
		{Index: 22, Name: "Court Order", Type: TileGoToJail},
		{Index: 23, Name: "Crown Terrace", Type: TileProperty, Group: "gold", Price: 240, HouseCost: 150},
	},
	Economy: Economy{
		PassStartSalary:          200,
		HotelSalaryBonus:         25,
		HotelIncrementMultiplier: 0.25,
		UtilityBaseAmount:        2,
		UtilitySingleMultiplier:  2,
		UtilityDoubleMultiplier:  5,
		RailRentByCount:          []int{0, 25, 50, 100, 200},
		RentTables: map[string][5]int{
			"amber":    {2, 10, 30, 90, 160},
			"teal":     {6, 30, 90, 270, 400},
			"crimson":  {10, 50, 150, 450, 625},
			"sapphire": {14, 70, 200, 550, 750},
			"gold":     {18, 90, 250, 700, 875},
		},
		BaseInterestRate: 0.05,
	},
	MacroDeck: []MacroCard{
		{ID: "boom", Title: "Economic Boom", Kind: ModifierRentMultiplier, Magnitude: 1.5, Duration: 2, Weight: 4},
		{ID: "recession", Title: "Recession", Kind: ModifierRentMultiplier, Magnitude: 0.75, Duration: 2, Weight: 4},
		{ID: "rail_surge", Title: "Freight Surge", Kind: ModifierRailRentMultiplier, Magnitude: 2.0, Duration: 1, Weight: 3},
		{ID: "construction_boom", Title: "Construction Boom", Kind: ModifierBuildCostMultiplier, Magnitude: 1.5, Duration: 2, Weight: 3},
		{ID: "stimulus", Title: "Stimulus Cheque", Kind: ModifierCashDelta, Magnitude: 150, Duration: 0, Weight: 4},
		{ID: "windfall_tax", Title: "Windfall Tax", Kind: ModifierCashDelta, Magnitude: -100, Duration: 0, Weight: 4},
		{ID: "credit_crunch", Title: "Credit Crunch", Kind: ModifierLoanBlock, Magnitude: 0, Duration: 3, Weight: 2},
		{ID: "rate_hike", Title: "Rate Hike", Kind: ModifierInterestDelta, Magnitude: 0.02, Duration: 3, Weight: 2},
		{ID: "inflation_spiral", Title: "Inflation Spiral", Kind: ModifierInterestTrend, Magnitude: 1.1, Duration: 3, Weight: 1},
		{ID: "utility_surge", Title: "Utility Demand Surge", Kind: ModifierUtilityHouseBonus, Magnitude: 2, Duration: 2, Weight: 2},
		{ID: "storm", Title: "Coastal Storm", Kind: ModifierRegionalDisaster, Magnitude: 25, Duration: 0, Weight: 1},
		{ID: "margin_call", Title: "Margin Call", Kind: ModifierMarginCall, Magnitude: 50, Duration: 0, Weight: 1},
	},
}
