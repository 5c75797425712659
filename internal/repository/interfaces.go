package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/trayflow/internal/domain"
)

type FarmRepo interface {
	Create(ctx context.Context, f *domain.Farm) error
	GetByID(ctx context.Context, id string) (*domain.Farm, error)
	GetByName(ctx context.Context, name string) (*domain.Farm, error)
	List(ctx context.Context) ([]*domain.Farm, error)
	Update(ctx context.Context, f *domain.Farm) error
}

type RecipeRepo interface {
	// Create stores the recipe and its steps. Recipes are never updated.
	Create(ctx context.Context, r *domain.Recipe) error
	GetByID(ctx context.Context, id string) (*domain.Recipe, error)
	// List returns the farm's recipes; superseded versions only when asked.
	List(ctx context.Context, farmID string, includeSuperseded bool) ([]*domain.Recipe, error)
	// ListByIDs loads several recipes at once, keyed by id.
	ListByIDs(ctx context.Context, ids []string) (map[string]*domain.Recipe, error)
}

type CustomerRepo interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, farmID string) ([]*domain.Customer, error)
}

type ProductRepo interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, farmID string) ([]*domain.Product, error)
	SetRecipe(ctx context.Context, productID string, recipeID *string) error
}

type StandingOrderRepo interface {
	Create(ctx context.Context, o *domain.StandingOrder) error
	GetByID(ctx context.Context, id string) (*domain.StandingOrder, error)
	List(ctx context.Context, farmID string) ([]*domain.StandingOrder, error)
	SetEndDate(ctx context.Context, id string, end *time.Time) error
	Delete(ctx context.Context, id string) error
}

// SeedingFilter narrows SeedingRequestRepo.List. Zero values match all.
type SeedingFilter struct {
	Status domain.SeedingStatus
	From   *time.Time
	To     *time.Time
}

type SeedingRequestRepo interface {
	Create(ctx context.Context, r *domain.SeedingRequest) error
	// InsertIfAbsent inserts a standing-order request unless a live request
	// for the same order and seed date exists. It reports whether a row was
	// inserted.
	InsertIfAbsent(ctx context.Context, r *domain.SeedingRequest) (bool, error)
	// FindLive returns the non-cancelled request of a standing order on a
	// seed date.
	FindLive(ctx context.Context, orderID string, seedDate time.Time) (*domain.SeedingRequest, error)
	// Deliveries lists the delivery dates a request covers, oldest first.
	Deliveries(ctx context.Context, requestID string) ([]time.Time, error)
	// RecordDeliveries adds covered delivery dates with perDelivery trays
	// each. Dates already recorded are left alone.
	RecordDeliveries(ctx context.Context, requestID string, dates []time.Time, perDelivery int) error
	// AddQuantity grows a pending request. It reports false when the request
	// is no longer pending.
	AddQuantity(ctx context.Context, id string, add int) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.SeedingRequest, error)
	List(ctx context.Context, farmID string, f SeedingFilter) ([]*domain.SeedingRequest, error)
	ListPending(ctx context.Context, farmID string) ([]*domain.SeedingRequest, error)
	// Transition moves a request from one status to another. It reports
	// false when the request was not in the from status.
	Transition(ctx context.Context, id string, from, to domain.SeedingStatus, at time.Time) (bool, error)
	// MarkSoaked records soaking of a pending, unsoaked request.
	MarkSoaked(ctx context.Context, id string, at time.Time) (bool, error)
}

type TrayRepo interface {
	Create(ctx context.Context, t *domain.Tray) error
	GetByID(ctx context.Context, id string) (*domain.Tray, error)
	List(ctx context.Context, farmID string, states ...domain.LossState) ([]*domain.Tray, error)
	// MarkHarvested and MarkLost only change active trays and report
	// whether the tray changed.
	MarkHarvested(ctx context.Context, id string, yieldGrams float64, on time.Time, now time.Time) (bool, error)
	MarkLost(ctx context.Context, id string, reason domain.LossReason, note string, now time.Time) (bool, error)
	Update(ctx context.Context, t *domain.Tray) error
}

type EventMarkRepo interface {
	// Insert records a resolution. It fails with domain.ErrAlreadyResolved
	// when the event already has a mark.
	Insert(ctx context.Context, m *domain.EventMark) error
	ListByTray(ctx context.Context, trayID string) ([]domain.EventMark, error)
	// ListForActiveTrays returns the marks of every active tray of a farm,
	// keyed by tray id, in one query.
	ListForActiveTrays(ctx context.Context, farmID string) (map[string][]domain.EventMark, error)
}
