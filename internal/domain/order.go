package domain

import (
	"fmt"
	"time"
)

type Farm struct {
	ID                 string
	Name               string
	AllowedSeedingDays WeekdaySet
	LowStockThreshold  int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Customer struct {
	ID        string
	FarmID    string
	Name      string
	CreatedAt time.Time
}

// Product is what customers order. RecipeID links it to the recipe that grows it.
type Product struct {
	ID        string
	FarmID    string
	Name      string
	RecipeID  *string
	CreatedAt time.Time
}

// StandingOrder is recurring demand on fixed delivery weekdays.
type StandingOrder struct {
	ID           string
	FarmID       string
	CustomerID   string
	ProductID    string
	Quantity     int
	DeliveryDays WeekdaySet
	StartDate    time.Time
	EndDate      *time.Time
	CreatedAt    time.Time
}

// Validate checks the order invariants.
func (o *StandingOrder) Validate() error {
	if o.Quantity <= 0 {
		return fmt.Errorf("%w: standing order quantity must be positive, got %d", ErrInvalidInput, o.Quantity)
	}
	if o.DeliveryDays.Empty() {
		return fmt.Errorf("%w: standing order needs at least one delivery weekday", ErrInvalidInput)
	}
	if o.EndDate != nil && o.EndDate.Before(o.StartDate) {
		return fmt.Errorf("%w: standing order end date %s is before start date %s", ErrInvalidInput,
			FormatDate(*o.EndDate), FormatDate(o.StartDate))
	}
	return nil
}

// ActiveOn reports whether the order is in effect on the given date.
func (o *StandingOrder) ActiveOn(d time.Time) bool {
	d = DateOf(d)
	if d.Before(DateOf(o.StartDate)) {
		return false
	}
	if o.EndDate != nil && d.After(DateOf(*o.EndDate)) {
		return false
	}
	return true
}

// DeliveriesBetween lists the order's delivery dates within [from, to].
func (o *StandingOrder) DeliveriesBetween(from, to time.Time) []time.Time {
	var out []time.Time
	for d := DateOf(from); !d.After(DateOf(to)); d = d.AddDate(0, 0, 1) {
		if o.DeliveryDays.Has(d.Weekday()) && o.ActiveOn(d) {
			out = append(out, d)
		}
	}
	return out
}

// SeedingRequest is a planned sow action that has not happened yet.
type SeedingRequest struct {
	ID              string
	FarmID          string
	RecipeID        string
	Quantity        int
	SeedDate        time.Time
	Status          SeedingStatus
	Source          SeedingSource
	StandingOrderID *string
	CustomerID      *string
	DeliveryDate    *time.Time
	SoakedAt        *time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
}
