package app

import (
	"time"

	"github.com/alexanderramin/trayflow/internal/domain"
)

type PlanRequest struct {
	FarmID      string
	WindowStart time.Time
	WindowEnd   time.Time
	// OrderIDs limits planning to these standing orders. Empty means every
	// order of the farm.
	OrderIDs []string
}

// PlanSlot is one seeding the planner wants to exist. Quantity is
// PerDelivery trays for each of Deliveries.
type PlanSlot struct {
	StandingOrderID string      `json:"standing_order_id"`
	CustomerID      string      `json:"customer_id"`
	RecipeID        string      `json:"recipe_id"`
	Quantity        int         `json:"quantity"`
	SeedDate        time.Time   `json:"seed_date"`
	DeliveryDate    time.Time   `json:"delivery_date"`
	Deliveries      []time.Time `json:"deliveries"`
	PerDelivery     int         `json:"per_delivery"`
	// RawSowDate is the sow date before weekday adjustment.
	RawSowDate time.Time `json:"raw_sow_date"`
}

// PlanTopUp is a pending request that grew to cover deliveries it did not
// cover before.
type PlanTopUp struct {
	RequestID       string      `json:"request_id"`
	StandingOrderID string      `json:"standing_order_id"`
	SeedDate        time.Time   `json:"seed_date"`
	Added           int         `json:"added"`
	Quantity        int         `json:"quantity"`
	Deliveries      []time.Time `json:"deliveries"`
}

type PlanFailureCode string

const (
	PlanErrRecipeNotLinked     PlanFailureCode = "RECIPE_NOT_LINKED"
	PlanErrNoAllowedSeedingDay PlanFailureCode = "NO_ALLOWED_SEEDING_DAY"
	PlanErrInvalidRecipe       PlanFailureCode = "INVALID_RECIPE"
)

// PlanFailure is a per-order or per-delivery planning failure. It never
// aborts planning of other orders.
type PlanFailure struct {
	StandingOrderID string          `json:"standing_order_id"`
	DeliveryDate    *time.Time      `json:"delivery_date,omitempty"`
	Code            PlanFailureCode `json:"code"`
	Message         string          `json:"message"`
	Err             error           `json:"-"`
}

func (f PlanFailure) Error() string {
	return string(f.Code) + ": " + f.Message
}

func (f PlanFailure) Unwrap() error { return f.Err }

type PlanResponse struct {
	GeneratedAt time.Time                `json:"generated_at"`
	Created     []*domain.SeedingRequest `json:"created"`
	ToppedUp    []PlanTopUp              `json:"topped_up"`
	Skipped     []PlanSlot               `json:"skipped"`
	Failures    []PlanFailure            `json:"failures"`
}
