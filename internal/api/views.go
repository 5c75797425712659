package api

import (
	"time"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
)

type seedingRequestView struct {
	ID              string     `json:"id"`
	RecipeID        string     `json:"recipe_id"`
	Quantity        int        `json:"quantity"`
	SeedDate        string     `json:"seed_date"`
	Status          string     `json:"status"`
	Source          string     `json:"source"`
	StandingOrderID *string    `json:"standing_order_id,omitempty"`
	CustomerID      *string    `json:"customer_id,omitempty"`
	DeliveryDate    *string    `json:"delivery_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	SoakedAt        *time.Time `json:"soaked_at,omitempty"`
}

type planView struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Created     []seedingRequestView   `json:"created"`
	ToppedUp    []contract.PlanTopUp   `json:"topped_up"`
	Skipped     []contract.PlanSlot    `json:"skipped"`
	Failures    []contract.PlanFailure `json:"failures"`
}

func toSeedingRequestView(r *domain.SeedingRequest) seedingRequestView {
	v := seedingRequestView{
		ID:              r.ID,
		RecipeID:        r.RecipeID,
		Quantity:        r.Quantity,
		SeedDate:        domain.FormatDate(r.SeedDate),
		Status:          string(r.Status),
		Source:          string(r.Source),
		StandingOrderID: r.StandingOrderID,
		CustomerID:      r.CustomerID,
		CreatedAt:       r.CreatedAt,
		SoakedAt:        r.SoakedAt,
	}
	if r.DeliveryDate != nil {
		d := domain.FormatDate(*r.DeliveryDate)
		v.DeliveryDate = &d
	}
	return v
}

func toPlanView(resp *contract.PlanResponse) planView {
	v := planView{
		GeneratedAt: resp.GeneratedAt,
		Created:     make([]seedingRequestView, 0, len(resp.Created)),
		ToppedUp:    resp.ToppedUp,
		Skipped:     resp.Skipped,
		Failures:    resp.Failures,
	}
	for _, r := range resp.Created {
		v.Created = append(v.Created, toSeedingRequestView(r))
	}
	return v
}
