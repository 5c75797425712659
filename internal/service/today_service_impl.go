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

type todayService struct {
	farms    repository.FarmRepo
	trays    repository.TrayRepo
	marks    repository.EventMarkRepo
	requests repository.SeedingRequestRepo
	timeline *timelineCache
	observer UseCaseObserver
}

func NewTodayService(
	farms repository.FarmRepo,
	trays repository.TrayRepo,
	marks repository.EventMarkRepo,
	requests repository.SeedingRequestRepo,
	recipes repository.RecipeRepo,
	observers ...UseCaseObserver,
) TodayService {
	return &todayService{
		farms:    farms,
		trays:    trays,
		marks:    marks,
		requests: requests,
		timeline: newTimelineCache(recipes),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *todayService) Today(ctx context.Context, req contract.TodayRequest) (resp *contract.TodayResponse, err error) {
	start := time.Now()
	date := domain.DateOf(req.Date)
	fields := map[string]any{"farm_id": req.FarmID, "date": domain.FormatDate(date)}
	defer observe(ctx, s.observer, useCaseToday, start, &err, fields)

	if _, err := s.farms.GetByID(ctx, req.FarmID); err != nil {
		return nil, err
	}
	trays, err := s.trays.List(ctx, req.FarmID, domain.TrayActive)
	if err != nil {
		return nil, fmt.Errorf("loading trays: %w", err)
	}
	marks, err := s.marks.ListForActiveTrays(ctx, req.FarmID)
	if err != nil {
		return nil, fmt.Errorf("loading event marks: %w", err)
	}
	pending, err := s.requests.ListPending(ctx, req.FarmID)
	if err != nil {
		return nil, fmt.Errorf("loading seeding requests: %w", err)
	}

	ids := make([]string, 0, len(trays)+len(pending))
	for _, t := range trays {
		ids = append(ids, t.RecipeID)
	}
	for _, r := range pending {
		ids = append(ids, r.RecipeID)
	}
	compiled, err := s.timeline.getMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	in := scheduler.DayInput{FarmID: req.FarmID, Date: date}
	for _, t := range trays {
		c := compiled[t.RecipeID]
		if c.err != nil {
			return nil, fmt.Errorf("tray %s: %w", t.ID, c.err)
		}
		in.Trays = append(in.Trays, scheduler.TrayAgenda{
			Tray:     t,
			Recipe:   c.recipe,
			Timeline: c.timeline,
			Resolved: scheduler.ResolvedSet(marks[t.ID]),
		})
	}
	for _, r := range pending {
		c := compiled[r.RecipeID]
		in.Requests = append(in.Requests, scheduler.RequestAgenda{
			Request:  r,
			Recipe:   c.recipe,
			Timeline: c.timeline,
		})
	}

	day := scheduler.AggregateDay(in)
	buckets := make(map[string]int, len(day.Groups))
	for _, g := range day.Groups {
		buckets[string(g.Bucket)] = len(g.Tasks)
	}
	fields["total"] = day.TotalCount
	fields["urgent"] = day.UrgentCount
	fields["overdue"] = day.OverdueCount
	fields["buckets"] = buckets
	return &day, nil
}
