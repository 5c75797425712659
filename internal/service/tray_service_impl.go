package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/db"
	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/repository"
	"github.com/alexanderramin/trayflow/internal/scheduler"
	"github.com/google/uuid"
)

type trayService struct {
	trays    repository.TrayRepo
	marks    repository.EventMarkRepo
	timeline *timelineCache
	uow      db.UnitOfWork
	loc      *time.Location
	observer UseCaseObserver
}

// NewTrayService dates harvests in UTC unless the request carries a date.
func NewTrayService(trays repository.TrayRepo, marks repository.EventMarkRepo, recipes repository.RecipeRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TrayService {
	return newTrayService(trays, marks, recipes, uow, time.UTC, observers...)
}

func newTrayService(trays repository.TrayRepo, marks repository.EventMarkRepo, recipes repository.RecipeRepo, uow db.UnitOfWork, loc *time.Location, observers ...UseCaseObserver) *trayService {
	return &trayService{
		trays:    trays,
		marks:    marks,
		timeline: newTimelineCache(recipes),
		uow:      uow,
		loc:      loc,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *trayService) Create(ctx context.Context, t *domain.Tray) error {
	recipe, tl, err := s.timeline.get(ctx, t.RecipeID)
	if err != nil {
		return err
	}
	if recipe.FarmID != t.FarmID {
		return fmt.Errorf("%w: recipe %s belongs to another farm", domain.ErrInvalidInput, t.RecipeID)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.SowDate = domain.DateOf(t.SowDate)
	t.LossState = domain.TrayActive
	t.Location = strings.TrimSpace(t.Location)
	t.CreatedAt = now
	t.UpdatedAt = now
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return insertSownTrays(ctx, tx, []*domain.Tray{t}, tl, now)
	})
}

func (s *trayService) GetByID(ctx context.Context, id string) (*domain.Tray, error) {
	return s.trays.GetByID(ctx, id)
}

func (s *trayService) List(ctx context.Context, farmID string, states ...domain.LossState) ([]*domain.Tray, error) {
	return s.trays.List(ctx, farmID, states...)
}

func (s *trayService) Relocate(ctx context.Context, id string, location string) error {
	t, err := s.trays.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.Location = strings.TrimSpace(location)
	t.UpdatedAt = time.Now().UTC()
	return s.trays.Update(ctx, t)
}

func (s *trayService) Assign(ctx context.Context, id string, customerID *string) error {
	t, err := s.trays.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.IsTerminal() {
		return fmt.Errorf("assigning tray %s: %w", id, domain.ErrTrayNotActive)
	}
	t.CustomerID = customerID
	t.UpdatedAt = time.Now().UTC()
	return s.trays.Update(ctx, t)
}

func (s *trayService) DueEvents(ctx context.Context, trayID string, asOf time.Time) (*contract.DueResponse, error) {
	t, err := s.trays.GetByID(ctx, trayID)
	if err != nil {
		return nil, err
	}
	_, tl, err := s.timeline.get(ctx, t.RecipeID)
	if err != nil {
		return nil, err
	}
	marks, err := s.marks.ListByTray(ctx, trayID)
	if err != nil {
		return nil, err
	}

	asOf = domain.DateOf(asOf)
	due := scheduler.DueEvents(tl, t, scheduler.ResolvedSet(marks), asOf)
	resp := &contract.DueResponse{TrayID: t.ID, AsOf: asOf, ElapsedDays: due.ElapsedDays}
	for _, e := range due.Today {
		resp.Today = append(resp.Today, dueEvent(t, e))
	}
	for _, e := range due.Overdue {
		resp.Overdue = append(resp.Overdue, dueEvent(t, e))
	}
	return resp, nil
}

func dueEvent(t *domain.Tray, e scheduler.TimelineEvent) contract.DueEvent {
	return contract.DueEvent{
		DayOffset:   e.DayOffset,
		Kind:        e.Kind,
		DueDate:     domain.AddDays(t.SowDate, e.DayOffset),
		Label:       e.Label,
		Water:       e.Water,
		WeightGrams: e.WeightGrams,
	}
}

func (s *trayService) Complete(ctx context.Context, req contract.CompleteRequest) (err error) {
	start := time.Now()
	fields := map[string]any{
		"tray_id":    req.TrayID,
		"day_offset": req.DayOffset,
		"kind":       string(req.Kind),
		"resolution": string(domain.ResolutionCompleted),
	}
	defer observe(ctx, s.observer, useCaseTrayComplete, start, &err, fields)

	now := nowOr(req.Now)
	harvestedOn := localDate(now, s.loc)
	if req.HarvestedOn != nil {
		harvestedOn = domain.DateOf(*req.HarvestedOn)
	}
	key := domain.EventKey{DayOffset: req.DayOffset, Kind: req.Kind}
	return s.resolve(ctx, req.TrayID, key, domain.ResolutionCompleted, req.Note, req.YieldGrams, harvestedOn, now)
}

func (s *trayService) Skip(ctx context.Context, req contract.SkipRequest) (err error) {
	start := time.Now()
	fields := map[string]any{
		"tray_id":    req.TrayID,
		"day_offset": req.DayOffset,
		"kind":       string(req.Kind),
		"resolution": string(domain.ResolutionSkipped),
	}
	defer observe(ctx, s.observer, useCaseTraySkip, start, &err, fields)

	key := domain.EventKey{DayOffset: req.DayOffset, Kind: req.Kind}
	now := nowOr(req.Now)
	return s.resolve(ctx, req.TrayID, key, domain.ResolutionSkipped, req.Note, nil, domain.DateOf(now), now)
}

// resolve validates and records one event resolution. Completing the
// harvest also moves the tray to harvested in the same transaction; the
// mark's primary key and the guarded state update make a second harvest
// fail with ErrAlreadyResolved. on is the civil date recorded as the
// harvest date.
func (s *trayService) resolve(ctx context.Context, trayID string, key domain.EventKey, res domain.Resolution, note string, yield *float64, on, now time.Time) error {
	t, err := s.trays.GetByID(ctx, trayID)
	if err != nil {
		return err
	}
	if t.LossState != domain.TrayActive {
		return fmt.Errorf("tray %s is %s: %w", t.ID, t.LossState, domain.ErrTrayNotActive)
	}
	_, tl, err := s.timeline.get(ctx, t.RecipeID)
	if err != nil {
		return err
	}
	if _, ok := tl.Lookup(key); !ok {
		return fmt.Errorf("%s on tray %s: %w", key, t.ID, domain.ErrUnknownEvent)
	}

	harvest := key.Kind == domain.EventHarvest
	if harvest && res == domain.ResolutionSkipped {
		return fmt.Errorf("tray %s: %w", t.ID, domain.ErrHarvestNotSkippable)
	}
	if harvest && (yield == nil || *yield < 0) {
		return fmt.Errorf("tray %s: %w", t.ID, domain.ErrYieldRequired)
	}

	mark := &domain.EventMark{
		TrayID:     t.ID,
		DayOffset:  key.DayOffset,
		Kind:       key.Kind,
		Resolution: res,
		Note:       strings.TrimSpace(note),
		ResolvedAt: now,
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteEventMarkRepo(tx).Insert(ctx, mark); err != nil {
			return fmt.Errorf("%s on tray %s: %w", key, t.ID, err)
		}
		if !harvest {
			return nil
		}
		ok, err := repository.NewSQLiteTrayRepo(tx).MarkHarvested(ctx, t.ID, *yield, on, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("harvesting tray %s: %w", t.ID, domain.ErrTrayNotActive)
		}
		return nil
	})
}

// SkipAllOverdue skips every overdue event of the tray, one transaction
// per event. An overdue harvest cannot be skipped and is reported as failed.
func (s *trayService) SkipAllOverdue(ctx context.Context, trayID string, asOf time.Time) (result *contract.BatchResult, err error) {
	start := time.Now()
	fields := map[string]any{"tray_id": trayID}
	defer observe(ctx, s.observer, useCaseTraySkipOverdue, start, &err, fields)

	due, err := s.DueEvents(ctx, trayID, asOf)
	if err != nil {
		return nil, err
	}

	result = &contract.BatchResult{TrayID: trayID, Items: make([]contract.BatchItem, 0, len(due.Overdue))}
	now := time.Now().UTC()
	for _, e := range due.Overdue {
		item := contract.BatchItem{DayOffset: e.DayOffset, Kind: e.Kind}
		key := domain.EventKey{DayOffset: e.DayOffset, Kind: e.Kind}
		rerr := s.resolve(ctx, trayID, key, domain.ResolutionSkipped, "bulk skip of overdue events", nil, domain.DateOf(asOf), now)
		switch {
		case rerr == nil:
			item.Status = contract.BatchApplied
			result.Applied++
		case errors.Is(rerr, domain.ErrAlreadyResolved):
			item.Status = contract.BatchAlreadyResolved
		case errors.Is(rerr, domain.ErrHarvestNotSkippable), errors.Is(rerr, domain.ErrTrayNotActive):
			item.Status = contract.BatchFailed
			item.Error = rerr.Error()
		default:
			return nil, rerr
		}
		result.Items = append(result.Items, item)
	}
	fields["applied"] = result.Applied
	fields["items"] = len(result.Items)
	return result, nil
}

func (s *trayService) MarkLost(ctx context.Context, trayID string, reason domain.LossReason, note string) (err error) {
	start := time.Now()
	fields := map[string]any{"tray_id": trayID, "reason": string(reason)}
	defer observe(ctx, s.observer, useCaseTrayMarkLost, start, &err, fields)

	if !domain.ValidLossReasons[reason] {
		return fmt.Errorf("loss reason %q: %w", reason, domain.ErrInvalidLossReason)
	}
	ok, err := s.trays.MarkLost(ctx, trayID, reason, strings.TrimSpace(note), time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		_, lookupErr := s.trays.GetByID(ctx, trayID)
		return guardFailure(lookupErr, fmt.Errorf("marking tray %s lost: %w", trayID, domain.ErrTrayNotActive))
	}
	return nil
}
