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

type recipeService struct {
	recipes  repository.RecipeRepo
	timeline *timelineCache
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewRecipeService(recipes repository.RecipeRepo, uow db.UnitOfWork, observers ...UseCaseObserver) RecipeService {
	return &recipeService{
		recipes:  recipes,
		timeline: newTimelineCache(recipes),
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *recipeService) Save(ctx context.Context, r *domain.Recipe) (err error) {
	start := time.Now()
	fields := map[string]any{"farm_id": r.FarmID, "name": r.Name}
	defer observe(ctx, s.observer, useCaseRecipeSave, start, &err, fields)

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("%w: recipe name is required", domain.ErrInvalidInput)
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Version <= 0 {
		r.Version = 1
	}
	r.CreatedAt = time.Now().UTC()
	fields["recipe_id"] = r.ID

	if _, err := scheduler.Compile(r); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteRecipeRepo(tx).Create(ctx, r)
	})
}

func (s *recipeService) Revise(ctx context.Context, recipeID string, steps []domain.Step) (*domain.Recipe, error) {
	base, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	next := &domain.Recipe{
		FarmID:       base.FarmID,
		Variety:      base.Variety,
		Name:         base.Name,
		Version:      base.Version + 1,
		SupersedesID: &base.ID,
		Steps:        steps,
	}
	if err := s.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("revising recipe %s: %w", recipeID, err)
	}
	return next, nil
}

func (s *recipeService) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	return s.recipes.GetByID(ctx, id)
}

func (s *recipeService) List(ctx context.Context, farmID string, includeSuperseded bool) ([]*domain.Recipe, error) {
	return s.recipes.List(ctx, farmID, includeSuperseded)
}

func (s *recipeService) Timeline(ctx context.Context, recipeID string) (*contract.TimelineView, error) {
	r, tl, err := s.timeline.get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	view := &contract.TimelineView{
		RecipeID:       r.ID,
		RecipeName:     r.DisplayName(),
		TotalDays:      tl.TotalDays,
		PreSowDays:     tl.PreSowDays,
		HasGrowing:     tl.HasGrowing,
		LastGrowingDay: tl.LastGrowingDay,
		Events:         make([]contract.TimelineEventView, 0, len(tl.Events)),
	}
	for _, e := range tl.Events {
		view.Events = append(view.Events, contract.TimelineEventView{
			DayOffset:   e.DayOffset,
			Kind:        e.Kind,
			Bucket:      e.Kind.Bucket(),
			Label:       e.Label,
			Water:       e.Water,
			WeightGrams: e.WeightGrams,
		})
	}
	return view, nil
}
