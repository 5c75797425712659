package app

import "time"

type GapRequest struct {
	FarmID string
	From   time.Time
	To     time.Time
}

// GapReport compares ready supply with committed demand for one customer,
// recipe and date. CustomerID is empty for surplus trays with no customer.
type GapReport struct {
	CustomerID  string    `json:"customer_id"`
	RecipeID    string    `json:"recipe_id"`
	Date        time.Time `json:"date"`
	TraysNeeded int       `json:"trays_needed"`
	TraysReady  int       `json:"trays_ready"`
	Shortfall   int       `json:"shortfall"`
	Surplus     int       `json:"surplus"`
	TrayIDs     []string  `json:"tray_ids,omitempty"`
}

type GapResponse struct {
	FarmID         string      `json:"farm_id"`
	From           time.Time   `json:"from"`
	To             time.Time   `json:"to"`
	Reports        []GapReport `json:"reports"`
	TotalShortfall int         `json:"total_shortfall"`
	TotalSurplus   int         `json:"total_surplus"`
}
