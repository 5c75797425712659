package service

import (
	"context"
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

type seedingService struct {
	requests repository.SeedingRequestRepo
	timeline *timelineCache
	uow      db.UnitOfWork
	loc      *time.Location
	observer UseCaseObserver
}

// NewSeedingService sows on the UTC date of now unless the request carries
// a sow date.
func NewSeedingService(requests repository.SeedingRequestRepo, recipes repository.RecipeRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SeedingService {
	return newSeedingService(requests, recipes, uow, time.UTC, observers...)
}

func newSeedingService(requests repository.SeedingRequestRepo, recipes repository.RecipeRepo, uow db.UnitOfWork, loc *time.Location, observers ...UseCaseObserver) *seedingService {
	return &seedingService{
		requests: requests,
		timeline: newTimelineCache(recipes),
		uow:      uow,
		loc:      loc,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create stores a manual seeding request.
func (s *seedingService) Create(ctx context.Context, r *domain.SeedingRequest) error {
	if r.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", domain.ErrInvalidInput, r.Quantity)
	}
	recipe, _, err := s.timeline.get(ctx, r.RecipeID)
	if err != nil {
		return err
	}
	if recipe.FarmID != r.FarmID {
		return fmt.Errorf("%w: recipe %s belongs to another farm", domain.ErrInvalidInput, r.RecipeID)
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Source == "" {
		r.Source = domain.SourceManual
	}
	r.SeedDate = domain.DateOf(r.SeedDate)
	r.Status = domain.SeedingPending
	r.CreatedAt = time.Now().UTC()
	return s.requests.Create(ctx, r)
}

func (s *seedingService) GetByID(ctx context.Context, id string) (*domain.SeedingRequest, error) {
	return s.requests.GetByID(ctx, id)
}

func (s *seedingService) List(ctx context.Context, farmID string, filter repository.SeedingFilter) ([]*domain.SeedingRequest, error) {
	return s.requests.List(ctx, farmID, filter)
}

func (s *seedingService) Cancel(ctx context.Context, id string) error {
	ok, err := s.requests.Transition(ctx, id, domain.SeedingPending, domain.SeedingCancelled, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return s.notPending(ctx, id)
	}
	return nil
}

func (s *seedingService) MarkSoaked(ctx context.Context, id string, at time.Time) error {
	ok, err := s.requests.MarkSoaked(ctx, id, at.UTC())
	if err != nil {
		return err
	}
	if !ok {
		return s.notPending(ctx, id)
	}
	return nil
}

func (s *seedingService) notPending(ctx context.Context, id string) error {
	_, err := s.requests.GetByID(ctx, id)
	return guardFailure(err, fmt.Errorf("seeding request %s: %w", id, domain.ErrAlreadyResolved))
}

// Complete moves the request to completed and creates one tray per unit of
// quantity, sown on the sow date. Events settled by sowing are marked
// completed on every new tray. All writes share one transaction.
func (s *seedingService) Complete(ctx context.Context, req contract.SowRequest) (trays []*domain.Tray, err error) {
	start := time.Now()
	fields := map[string]any{"request_id": req.RequestID}
	defer observe(ctx, s.observer, useCaseSeedingComplete, start, &err, fields)

	r, err := s.requests.GetByID(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}
	if r.Status != domain.SeedingPending {
		return nil, fmt.Errorf("seeding request %s is %s: %w", r.ID, r.Status, domain.ErrAlreadyResolved)
	}
	_, tl, err := s.timeline.get(ctx, r.RecipeID)
	if err != nil {
		return nil, err
	}

	now := nowOr(req.Now)
	sowDate := localDate(now, s.loc)
	if req.SowDate != nil {
		sowDate = domain.DateOf(*req.SowDate)
	}
	fields["sow_date"] = domain.FormatDate(sowDate)
	fields["quantity"] = r.Quantity

	trays = make([]*domain.Tray, 0, r.Quantity)
	for i := 0; i < r.Quantity; i++ {
		trays = append(trays, &domain.Tray{
			ID:               uuid.New().String(),
			FarmID:           r.FarmID,
			RecipeID:         r.RecipeID,
			SowDate:          sowDate,
			LossState:        domain.TrayActive,
			CustomerID:       r.CustomerID,
			SeedingRequestID: &r.ID,
			Location:         strings.TrimSpace(req.Location),
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		ok, err := repository.NewSQLiteSeedingRequestRepo(tx).Transition(ctx, r.ID, domain.SeedingPending, domain.SeedingCompleted, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("seeding request %s: %w", r.ID, domain.ErrAlreadyResolved)
		}
		return insertSownTrays(ctx, tx, trays, tl, now)
	})
	if err != nil {
		return nil, err
	}
	return trays, nil
}

// insertSownTrays creates trays and closes the events that sowing settles.
func insertSownTrays(ctx context.Context, tx db.DBTX, trays []*domain.Tray, tl *scheduler.Timeline, now time.Time) error {
	txTrays := repository.NewSQLiteTrayRepo(tx)
	txMarks := repository.NewSQLiteEventMarkRepo(tx)
	for _, t := range trays {
		if err := txTrays.Create(ctx, t); err != nil {
			return err
		}
		for _, e := range tl.SowResolved() {
			m := &domain.EventMark{
				TrayID:     t.ID,
				DayOffset:  e.DayOffset,
				Kind:       e.Kind,
				Resolution: domain.ResolutionCompleted,
				Note:       "sown",
				ResolvedAt: now,
			}
			if err := txMarks.Insert(ctx, m); err != nil {
				return fmt.Errorf("closing %s on new tray %s: %w", e.Key(), t.ID, err)
			}
		}
	}
	return nil
}
