package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/repository"
	"github.com/alexanderramin/trayflow/internal/scheduler"
)

type gapService struct {
	farms     repository.FarmRepo
	orders    repository.StandingOrderRepo
	products  repository.ProductRepo
	trays     repository.TrayRepo
	timeline  *timelineCache
	freshness int
	observer  UseCaseObserver
}

// NewGapService builds the fulfillment matcher. freshnessDays is how long
// before a delivery a ready tray may serve it; a negative value uses the
// default.
func NewGapService(
	farms repository.FarmRepo,
	orders repository.StandingOrderRepo,
	products repository.ProductRepo,
	trays repository.TrayRepo,
	recipes repository.RecipeRepo,
	freshnessDays int,
	observers ...UseCaseObserver,
) GapService {
	if freshnessDays < 0 {
		freshnessDays = scheduler.DefaultFreshnessDays
	}
	return &gapService{
		farms:     farms,
		orders:    orders,
		products:  products,
		trays:     trays,
		timeline:  newTimelineCache(recipes),
		freshness: freshnessDays,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *gapService) Gaps(ctx context.Context, req contract.GapRequest) (resp *contract.GapResponse, err error) {
	start := time.Now()
	fields := map[string]any{
		"farm_id": req.FarmID,
		"from":    domain.FormatDate(req.From),
		"to":      domain.FormatDate(req.To),
	}
	defer observe(ctx, s.observer, useCaseGaps, start, &err, fields)

	if err := checkWindow(req.From, req.To); err != nil {
		return nil, err
	}
	if _, err := s.farms.GetByID(ctx, req.FarmID); err != nil {
		return nil, err
	}
	orders, err := s.orders.List(ctx, req.FarmID)
	if err != nil {
		return nil, fmt.Errorf("loading standing orders: %w", err)
	}
	recipeOf, err := orderRecipes(ctx, s.products, orders)
	if err != nil {
		return nil, err
	}
	trays, err := s.trays.List(ctx, req.FarmID, domain.TrayActive, domain.TrayHarvested)
	if err != nil {
		return nil, fmt.Errorf("loading trays: %w", err)
	}

	in := scheduler.GapInput{From: req.From, To: req.To, FreshnessDays: s.freshness}
	for _, o := range orders {
		in.Orders = append(in.Orders, scheduler.GapOrder{Order: o, RecipeID: recipeOf[o.ID]})
	}
	for _, t := range trays {
		ready, err := s.readyDate(ctx, t)
		if err != nil {
			return nil, err
		}
		in.Trays = append(in.Trays, scheduler.GapTray{Tray: t, ReadyDate: ready})
	}

	resp = &contract.GapResponse{
		FarmID:  req.FarmID,
		From:    domain.DateOf(req.From),
		To:      domain.DateOf(req.To),
		Reports: scheduler.MatchGaps(in),
	}
	for _, r := range resp.Reports {
		resp.TotalShortfall += r.Shortfall
		resp.TotalSurplus += r.Surplus
	}
	fields["reports"] = len(resp.Reports)
	fields["shortfall"] = resp.TotalShortfall
	fields["surplus"] = resp.TotalSurplus
	return resp, nil
}

// readyDate is the harvest date of a harvested tray and the projected one
// of an active tray.
func (s *gapService) readyDate(ctx context.Context, t *domain.Tray) (time.Time, error) {
	if t.LossState == domain.TrayHarvested {
		if t.HarvestedOn != nil {
			return *t.HarvestedOn, nil
		}
		return domain.DateOf(t.UpdatedAt), nil
	}
	_, tl, err := s.timeline.get(ctx, t.RecipeID)
	if err != nil {
		return time.Time{}, fmt.Errorf("tray %s: %w", t.ID, err)
	}
	return scheduler.ReadyDate(tl, t.SowDate), nil
}
