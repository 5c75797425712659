package service

import (
	"context"
	"time"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/repository"
)

type FarmService interface {
	Create(ctx context.Context, f *domain.Farm) error
	GetByID(ctx context.Context, id string) (*domain.Farm, error)
	// Resolve finds a farm by id, falling back to its name.
	Resolve(ctx context.Context, idOrName string) (*domain.Farm, error)
	List(ctx context.Context) ([]*domain.Farm, error)
	SetSeedingDays(ctx context.Context, farmID string, days domain.WeekdaySet) error
}

type RecipeService interface {
	// Save compiles the recipe and stores it only when it is valid.
	Save(ctx context.Context, r *domain.Recipe) error
	// Revise stores a new version of a recipe with replaced steps.
	Revise(ctx context.Context, recipeID string, steps []domain.Step) (*domain.Recipe, error)
	GetByID(ctx context.Context, id string) (*domain.Recipe, error)
	List(ctx context.Context, farmID string, includeSuperseded bool) ([]*domain.Recipe, error)
	Timeline(ctx context.Context, recipeID string) (*contract.TimelineView, error)
}

type CustomerService interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, farmID string) ([]*domain.Customer, error)
}

type ProductService interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, farmID string) ([]*domain.Product, error)
	// LinkRecipe maps a product to the recipe that grows it. A nil recipe
	// removes the mapping.
	LinkRecipe(ctx context.Context, productID string, recipeID *string) error
}

type OrderService interface {
	Create(ctx context.Context, o *domain.StandingOrder) error
	GetByID(ctx context.Context, id string) (*domain.StandingOrder, error)
	List(ctx context.Context, farmID string) ([]*domain.StandingOrder, error)
	End(ctx context.Context, id string, end time.Time) error
	Delete(ctx context.Context, id string) error
}

type SeedingService interface {
	Create(ctx context.Context, r *domain.SeedingRequest) error
	GetByID(ctx context.Context, id string) (*domain.SeedingRequest, error)
	List(ctx context.Context, farmID string, filter repository.SeedingFilter) ([]*domain.SeedingRequest, error)
	Cancel(ctx context.Context, id string) error
	MarkSoaked(ctx context.Context, id string, at time.Time) error
	// Complete records the sowing of a pending request and creates its trays.
	Complete(ctx context.Context, req contract.SowRequest) ([]*domain.Tray, error)
}

type TrayService interface {
	// Create records a tray sown outside the request workflow.
	Create(ctx context.Context, t *domain.Tray) error
	GetByID(ctx context.Context, id string) (*domain.Tray, error)
	List(ctx context.Context, farmID string, states ...domain.LossState) ([]*domain.Tray, error)
	Relocate(ctx context.Context, id string, location string) error
	Assign(ctx context.Context, id string, customerID *string) error
	DueEvents(ctx context.Context, trayID string, asOf time.Time) (*contract.DueResponse, error)
	Complete(ctx context.Context, req contract.CompleteRequest) error
	Skip(ctx context.Context, req contract.SkipRequest) error
	SkipAllOverdue(ctx context.Context, trayID string, asOf time.Time) (*contract.BatchResult, error)
	MarkLost(ctx context.Context, trayID string, reason domain.LossReason, note string) error
}

type TodayService interface {
	Today(ctx context.Context, req contract.TodayRequest) (*contract.TodayResponse, error)
}

type PlanService interface {
	Plan(ctx context.Context, req contract.PlanRequest) (*contract.PlanResponse, error)
}

type GapService interface {
	Gaps(ctx context.Context, req contract.GapRequest) (*contract.GapResponse, error)
}
