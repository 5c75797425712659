package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// DefaultLookbackDays bounds the backward search for an allowed seeding day.
const DefaultLookbackDays = 14

// PlanOrder is a standing order with its resolved recipe. Timeline is nil
// when the product has no recipe (RecipeID empty) or the recipe did not
// compile (CompileErr set).
type PlanOrder struct {
	Order      *domain.StandingOrder
	RecipeID   string
	Timeline   *Timeline
	CompileErr error
}

// PlanInput is the farm, its orders and the delivery window to plan for.
type PlanInput struct {
	Orders      []PlanOrder
	Allowed     domain.WeekdaySet
	WindowStart time.Time
	WindowEnd   time.Time
	Lookback    int
}

// PlanOutcome holds the merged seeding slots and the failures met on the way.
type PlanOutcome struct {
	Slots    []contract.PlanSlot
	Failures []contract.PlanFailure
}

// AdjustSowDate moves raw back to the nearest allowed seeding weekday, at
// most lookback days earlier. It never moves a date forward. An empty set
// means the farm has no seeding day restriction.
func AdjustSowDate(raw time.Time, allowed domain.WeekdaySet, lookback int) (time.Time, error) {
	raw = domain.DateOf(raw)
	if allowed.Empty() {
		return raw, nil
	}
	for back := 0; back <= lookback; back++ {
		d := domain.AddDays(raw, -back)
		if allowed.Has(d.Weekday()) {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: nothing in %s within %d days before %s",
		domain.ErrNoAllowedSeedingDay, allowed, lookback, domain.FormatDate(raw))
}

// PlanSeedings computes the seedings needed to meet every delivery in the
// window. Failures are collected per order or per delivery and never stop
// planning of the rest.
func PlanSeedings(in PlanInput) PlanOutcome {
	lookback := in.Lookback
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}

	var out PlanOutcome
	type slotKey struct {
		orderID string
		seed    time.Time
	}
	index := make(map[slotKey]int)

	orders := append([]PlanOrder(nil), in.Orders...)
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Order.ID < orders[j].Order.ID })

	for _, po := range orders {
		o := po.Order
		switch {
		case po.RecipeID == "":
			out.Failures = append(out.Failures, contract.PlanFailure{
				StandingOrderID: o.ID,
				Code:            contract.PlanErrRecipeNotLinked,
				Message:         fmt.Sprintf("product %s has no recipe", o.ProductID),
				Err:             domain.ErrRecipeNotLinked,
			})
			continue
		case po.Timeline == nil:
			err := po.CompileErr
			if err == nil {
				err = domain.ErrInvalidRecipe
			}
			out.Failures = append(out.Failures, contract.PlanFailure{
				StandingOrderID: o.ID,
				Code:            contract.PlanErrInvalidRecipe,
				Message:         err.Error(),
				Err:             err,
			})
			continue
		}

		for _, d := range o.DeliveriesBetween(in.WindowStart, in.WindowEnd) {
			raw := domain.AddDays(d, -po.Timeline.TotalDays)
			seed, err := AdjustSowDate(raw, in.Allowed, lookback)
			if err != nil {
				delivery := d
				out.Failures = append(out.Failures, contract.PlanFailure{
					StandingOrderID: o.ID,
					DeliveryDate:    &delivery,
					Code:            contract.PlanErrNoAllowedSeedingDay,
					Message:         err.Error(),
					Err:             errors.Unwrap(err),
				})
				continue
			}

			k := slotKey{orderID: o.ID, seed: seed}
			if i, ok := index[k]; ok {
				out.Slots[i].Quantity += o.Quantity
				out.Slots[i].Deliveries = append(out.Slots[i].Deliveries, d)
				continue
			}
			index[k] = len(out.Slots)
			out.Slots = append(out.Slots, contract.PlanSlot{
				StandingOrderID: o.ID,
				CustomerID:      o.CustomerID,
				RecipeID:        po.RecipeID,
				Quantity:        o.Quantity,
				SeedDate:        seed,
				DeliveryDate:    d,
				Deliveries:      []time.Time{d},
				PerDelivery:     o.Quantity,
				RawSowDate:      raw,
			})
		}
	}

	sort.SliceStable(out.Slots, func(i, j int) bool {
		a, b := out.Slots[i], out.Slots[j]
		if !a.SeedDate.Equal(b.SeedDate) {
			return a.SeedDate.Before(b.SeedDate)
		}
		return a.StandingOrderID < b.StandingOrderID
	})
	return out
}
