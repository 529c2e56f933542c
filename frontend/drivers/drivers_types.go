package drivers

// RosterEntry is one driver row with workload summary columns.
type RosterEntry struct {
	ID          int64  `bun:"id"`
	Name        string `bun:"name"`
	Phone       string `bun:"phone"`
	Email       string `bun:"email"`
	TruckUnit   string `bun:"truck_unit"`
	ActiveLoads int64  `bun:"active_loads"`
	TotalLoads  int64  `bun:"total_loads"`
}

// PageData feeds the drivers roster view.
type PageData struct {
	Drivers []RosterEntry
}
