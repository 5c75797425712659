package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// DefaultFreshnessDays is how many days before a delivery a ready tray may
// still serve it.
const DefaultFreshnessDays = 3

// GapOrder is a standing order with the recipe its product maps to. Orders
// with no recipe contribute no demand.
type GapOrder struct {
	Order    *domain.StandingOrder
	RecipeID string
}

// GapTray is a supply candidate. ReadyDate is the harvest date of a
// harvested tray, or sow date plus grow length for an active one.
type GapTray struct {
	Tray      *domain.Tray
	ReadyDate time.Time
}

// GapInput is the demand and supply to match over [From, To].
type GapInput struct {
	Orders        []GapOrder
	Trays         []GapTray
	From          time.Time
	To            time.Time
	FreshnessDays int
}

type demandSlot struct {
	order    *domain.StandingOrder
	recipeID string
	date     time.Time
}

type reportKey struct {
	customerID string
	recipeID   string
	date       time.Time
}

// MatchGaps allocates ready trays to delivery slots and reports shortfall
// and surplus per customer, recipe and date. Slots are served oldest
// commitment first: by delivery date, then order creation, then order id.
// Unused trays become surplus on their ready date, or on From when they
// were ready earlier. The result depends only on the input.
func MatchGaps(in GapInput) []contract.GapReport {
	from, to := domain.DateOf(in.From), domain.DateOf(in.To)
	fresh := in.FreshnessDays
	if fresh < 0 {
		fresh = 0
	}

	var slots []demandSlot
	for _, g := range in.Orders {
		if g.RecipeID == "" {
			continue
		}
		for _, d := range g.Order.DeliveriesBetween(from, to) {
			slots = append(slots, demandSlot{order: g.Order, recipeID: g.RecipeID, date: d})
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		if !a.order.CreatedAt.Equal(b.order.CreatedAt) {
			return a.order.CreatedAt.Before(b.order.CreatedAt)
		}
		return a.order.ID < b.order.ID
	})

	trays := append([]GapTray(nil), in.Trays...)
	for i := range trays {
		trays[i].ReadyDate = domain.DateOf(trays[i].ReadyDate)
	}
	sort.SliceStable(trays, func(i, j int) bool {
		if !trays[i].ReadyDate.Equal(trays[j].ReadyDate) {
			return trays[i].ReadyDate.Before(trays[j].ReadyDate)
		}
		return trays[i].Tray.ID < trays[j].Tray.ID
	})
	used := make([]bool, len(trays))

	reports := make(map[reportKey]*contract.GapReport)
	row := func(k reportKey) *contract.GapReport {
		r, ok := reports[k]
		if !ok {
			r = &contract.GapReport{CustomerID: k.customerID, RecipeID: k.recipeID, Date: k.date}
			reports[k] = r
		}
		return r
	}

	for _, s := range slots {
		r := row(reportKey{customerID: s.order.CustomerID, recipeID: s.recipeID, date: s.date})
		r.TraysNeeded += s.order.Quantity
		earliest := domain.AddDays(s.date, -fresh)

		take := func(assigned bool, limit int) int {
			got := 0
			for i, t := range trays {
				if got == limit {
					break
				}
				if used[i] || t.Tray.RecipeID != s.recipeID {
					continue
				}
				if t.ReadyDate.Before(earliest) || t.ReadyDate.After(s.date) {
					continue
				}
				if assigned {
					if t.Tray.CustomerID == nil || *t.Tray.CustomerID != s.order.CustomerID {
						continue
					}
				} else if t.Tray.CustomerID != nil {
					continue
				}
				used[i] = true
				got++
				r.TrayIDs = append(r.TrayIDs, t.Tray.ID)
			}
			return got
		}
		if n := take(true, s.order.Quantity); n < s.order.Quantity {
			take(false, s.order.Quantity-n)
		}
	}

	for i, t := range trays {
		if used[i] || t.ReadyDate.After(to) || t.ReadyDate.Before(domain.AddDays(from, -fresh)) {
			continue
		}
		date := t.ReadyDate
		if date.Before(from) {
			date = from
		}
		customer := ""
		if t.Tray.CustomerID != nil {
			customer = *t.Tray.CustomerID
		}
		r := row(reportKey{customerID: customer, recipeID: t.Tray.RecipeID, date: date})
		r.TrayIDs = append(r.TrayIDs, t.Tray.ID)
	}

	out := make([]contract.GapReport, 0, len(reports))
	for _, r := range reports {
		r.TraysReady = len(r.TrayIDs)
		r.Shortfall = max(0, r.TraysNeeded-r.TraysReady)
		r.Surplus = max(0, r.TraysReady-r.TraysNeeded)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.CustomerID != b.CustomerID {
			return a.CustomerID < b.CustomerID
		}
		return a.RecipeID < b.RecipeID
	})
	return out
}
