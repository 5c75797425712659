package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/db"
	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/repository"
	"github.com/alexanderramin/trayflow/internal/scheduler"
	"github.com/google/uuid"
)

type planService struct {
	farms    repository.FarmRepo
	orders   repository.StandingOrderRepo
	products repository.ProductRepo
	timeline *timelineCache
	uow      db.UnitOfWork
	lookback int
	observer UseCaseObserver
}

// NewPlanService builds the backward planner. lookbackDays bounds the
// search for an allowed seeding day; zero or less uses the default.
func NewPlanService(
	farms repository.FarmRepo,
	orders repository.StandingOrderRepo,
	products repository.ProductRepo,
	recipes repository.RecipeRepo,
	uow db.UnitOfWork,
	lookbackDays int,
	observers ...UseCaseObserver,
) PlanService {
	if lookbackDays <= 0 {
		lookbackDays = scheduler.DefaultLookbackDays
	}
	return &planService{
		farms:    farms,
		orders:   orders,
		products: products,
		timeline: newTimelineCache(recipes),
		uow:      uow,
		lookback: lookbackDays,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Plan creates the seeding requests needed for every delivery in the
// window. A slot whose pending request lacks some of the slot's deliveries
// is topped up by those deliveries. Slots that are fully covered are
// reported as skipped, so repeating a call changes nothing.
func (s *planService) Plan(ctx context.Context, req contract.PlanRequest) (resp *contract.PlanResponse, err error) {
	start := time.Now()
	fields := map[string]any{
		"farm_id":      req.FarmID,
		"window_start": domain.FormatDate(req.WindowStart),
		"window_end":   domain.FormatDate(req.WindowEnd),
	}
	defer observe(ctx, s.observer, useCasePlan, start, &err, fields)

	if err := checkWindow(req.WindowStart, req.WindowEnd); err != nil {
		return nil, err
	}
	farm, err := s.farms.GetByID(ctx, req.FarmID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.List(ctx, req.FarmID)
	if err != nil {
		return nil, fmt.Errorf("loading standing orders: %w", err)
	}
	orders = filterOrders(orders, req.OrderIDs)
	recipeOf, err := orderRecipes(ctx, s.products, orders)
	if err != nil {
		return nil, err
	}

	in := scheduler.PlanInput{
		Allowed:     farm.AllowedSeedingDays,
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
		Lookback:    s.lookback,
	}
	for _, o := range orders {
		po := scheduler.PlanOrder{Order: o, RecipeID: recipeOf[o.ID]}
		if po.RecipeID != "" {
			_, tl, err := s.timeline.get(ctx, po.RecipeID)
			switch {
			case err == nil:
				po.Timeline = tl
			case errors.Is(err, domain.ErrInvalidRecipe):
				po.CompileErr = err
			default:
				return nil, err
			}
		}
		in.Orders = append(in.Orders, po)
	}

	outcome := scheduler.PlanSeedings(in)
	now := time.Now().UTC()
	resp = &contract.PlanResponse{
		GeneratedAt: now,
		Created:     []*domain.SeedingRequest{},
		ToppedUp:    []contract.PlanTopUp{},
		Skipped:     []contract.PlanSlot{},
		Failures:    outcome.Failures,
	}
	if resp.Failures == nil {
		resp.Failures = []contract.PlanFailure{}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRequests := repository.NewSQLiteSeedingRequestRepo(tx)
		for _, slot := range outcome.Slots {
			orderID, customerID, delivery := slot.StandingOrderID, slot.CustomerID, slot.DeliveryDate
			r := &domain.SeedingRequest{
				ID:              uuid.New().String(),
				FarmID:          req.FarmID,
				RecipeID:        slot.RecipeID,
				Quantity:        slot.Quantity,
				SeedDate:        slot.SeedDate,
				Status:          domain.SeedingPending,
				Source:          domain.SourceStandingOrder,
				StandingOrderID: &orderID,
				CustomerID:      &customerID,
				DeliveryDate:    &delivery,
				CreatedAt:       now,
			}
			inserted, err := txRequests.InsertIfAbsent(ctx, r)
			if err != nil {
				return fmt.Errorf("planning order %s on %s: %w", orderID, domain.FormatDate(slot.SeedDate), err)
			}
			if inserted {
				if err := txRequests.RecordDeliveries(ctx, r.ID, slot.Deliveries, slot.PerDelivery); err != nil {
					return err
				}
				resp.Created = append(resp.Created, r)
				continue
			}
			up, err := topUp(ctx, txRequests, slot)
			if err != nil {
				return fmt.Errorf("topping up order %s on %s: %w", orderID, domain.FormatDate(slot.SeedDate), err)
			}
			if up == nil {
				resp.Skipped = append(resp.Skipped, slot)
				continue
			}
			resp.ToppedUp = append(resp.ToppedUp, *up)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["created"] = len(resp.Created)
	fields["topped_up"] = len(resp.ToppedUp)
	fields["skipped"] = len(resp.Skipped)
	fields["failed"] = len(resp.Failures)
	return resp, nil
}

// topUp adds the slot's uncovered deliveries to its live request. It
// returns nil when the request is no longer pending, covers every delivery
// already, or has no recorded deliveries to compare against.
func topUp(ctx context.Context, requests repository.SeedingRequestRepo, slot contract.PlanSlot) (*contract.PlanTopUp, error) {
	live, err := requests.FindLive(ctx, slot.StandingOrderID, slot.SeedDate)
	if err != nil {
		return nil, err
	}
	if live.Status != domain.SeedingPending {
		return nil, nil
	}
	covered, err := requests.Deliveries(ctx, live.ID)
	if err != nil {
		return nil, err
	}
	if len(covered) == 0 {
		return nil, nil
	}

	have := make(map[string]bool, len(covered))
	for _, d := range covered {
		have[domain.FormatDate(d)] = true
	}
	var missing []time.Time
	for _, d := range slot.Deliveries {
		if !have[domain.FormatDate(d)] {
			missing = append(missing, d)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	add := len(missing) * slot.PerDelivery
	ok, err := requests.AddQuantity(ctx, live.ID, add)
	if err != nil || !ok {
		return nil, err
	}
	if err := requests.RecordDeliveries(ctx, live.ID, missing, slot.PerDelivery); err != nil {
		return nil, err
	}
	return &contract.PlanTopUp{
		RequestID:       live.ID,
		StandingOrderID: slot.StandingOrderID,
		SeedDate:        slot.SeedDate,
		Added:           add,
		Quantity:        live.Quantity + add,
		Deliveries:      missing,
	}, nil
}
