package testutil

import (
	"time"

	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/google/uuid"
)

// Farm options
type FarmOption func(*domain.Farm)

func WithSeedingDays(days ...time.Weekday) FarmOption {
	return func(f *domain.Farm) {
		f.AllowedSeedingDays = domain.NewWeekdaySet(days...)
	}
}

func NewTestFarm(name string, opts ...FarmOption) *domain.Farm {
	now := time.Now().UTC()
	f := &domain.Farm{
		ID:                 uuid.New().String(),
		Name:               name,
		AllowedSeedingDays: domain.AllWeekdays,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Step builders
func DaysStep(order int, action domain.ActionKind, n int) domain.Step {
	return domain.Step{SequenceOrder: order, Action: action, Duration: n, Unit: domain.UnitDays}
}

func HoursStep(order int, action domain.ActionKind, n int) domain.Step {
	return domain.Step{SequenceOrder: order, Action: action, Duration: n, Unit: domain.UnitHours}
}

func Watered(s domain.Step, timesPerDay int) domain.Step {
	s.Water = &domain.WaterSpec{Type: domain.WaterPlain, Method: domain.WaterBottom, TimesPerDay: timesPerDay}
	return s
}

// Recipe options
type RecipeOption func(*domain.Recipe)

func WithSteps(steps ...domain.Step) RecipeOption {
	return func(r *domain.Recipe) {
		r.Steps = steps
	}
}

func WithVariety(v string) RecipeOption {
	return func(r *domain.Recipe) {
		r.Variety = v
	}
}

// NewTestRecipe defaults to seed 1d, blackout 3d, growing 4d, harvest: an
// 8 day recipe whose last growing day is day 7.
func NewTestRecipe(farmID, name string, opts ...RecipeOption) *domain.Recipe {
	r := &domain.Recipe{
		ID:      uuid.New().String(),
		FarmID:  farmID,
		Variety: "radish",
		Name:    name,
		Version: 1,
		Steps: []domain.Step{
			DaysStep(1, domain.ActionSeed, 1),
			DaysStep(2, domain.ActionBlackout, 3),
			DaysStep(3, domain.ActionGrowing, 4),
			DaysStep(4, domain.ActionHarvest, 0),
		},
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func NewTestCustomer(farmID, name string) *domain.Customer {
	return &domain.Customer{
		ID:        uuid.New().String(),
		FarmID:    farmID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

func NewTestProduct(farmID, name string, recipeID *string) *domain.Product {
	return &domain.Product{
		ID:        uuid.New().String(),
		FarmID:    farmID,
		Name:      name,
		RecipeID:  recipeID,
		CreatedAt: time.Now().UTC(),
	}
}

// StandingOrder options
type OrderOption func(*domain.StandingOrder)

func WithQuantity(n int) OrderOption {
	return func(o *domain.StandingOrder) {
		o.Quantity = n
	}
}

func WithDeliveryDays(days ...time.Weekday) OrderOption {
	return func(o *domain.StandingOrder) {
		o.DeliveryDays = domain.NewWeekdaySet(days...)
	}
}

func WithOrderStart(d time.Time) OrderOption {
	return func(o *domain.StandingOrder) {
		o.StartDate = d
	}
}

func WithOrderEnd(d time.Time) OrderOption {
	return func(o *domain.StandingOrder) {
		o.EndDate = &d
	}
}

func WithOrderCreatedAt(t time.Time) OrderOption {
	return func(o *domain.StandingOrder) {
		o.CreatedAt = t
	}
}

// NewTestStandingOrder defaults to one tray every Friday from 2025-01-01.
func NewTestStandingOrder(farmID, customerID, productID string, opts ...OrderOption) *domain.StandingOrder {
	o := &domain.StandingOrder{
		ID:           uuid.New().String(),
		FarmID:       farmID,
		CustomerID:   customerID,
		ProductID:    productID,
		Quantity:     1,
		DeliveryDays: domain.NewWeekdaySet(time.Friday),
		StartDate:    domain.Date(2025, 1, 1),
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SeedingRequest options
type SeedingOption func(*domain.SeedingRequest)

func WithRequestQuantity(n int) SeedingOption {
	return func(r *domain.SeedingRequest) {
		r.Quantity = n
	}
}

func WithRequestCustomer(id string) SeedingOption {
	return func(r *domain.SeedingRequest) {
		r.CustomerID = &id
	}
}

func WithRequestOrder(orderID string, delivery time.Time) SeedingOption {
	return func(r *domain.SeedingRequest) {
		r.StandingOrderID = &orderID
		r.DeliveryDate = &delivery
		r.Source = domain.SourceStandingOrder
	}
}

func WithRequestStatus(s domain.SeedingStatus) SeedingOption {
	return func(r *domain.SeedingRequest) {
		r.Status = s
	}
}

func NewTestSeedingRequest(farmID, recipeID string, seedDate time.Time, opts ...SeedingOption) *domain.SeedingRequest {
	r := &domain.SeedingRequest{
		ID:        uuid.New().String(),
		FarmID:    farmID,
		RecipeID:  recipeID,
		Quantity:  1,
		SeedDate:  seedDate,
		Status:    domain.SeedingPending,
		Source:    domain.SourceManual,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tray options
type TrayOption func(*domain.Tray)

func WithTrayCustomer(id string) TrayOption {
	return func(t *domain.Tray) {
		t.CustomerID = &id
	}
}

func WithLocation(loc string) TrayOption {
	return func(t *domain.Tray) {
		t.Location = loc
	}
}

func WithHarvest(on time.Time, yieldGrams float64) TrayOption {
	return func(t *domain.Tray) {
		t.LossState = domain.TrayHarvested
		t.HarvestedOn = &on
		t.YieldGrams = &yieldGrams
	}
}

func NewTestTray(farmID, recipeID string, sowDate time.Time, opts ...TrayOption) *domain.Tray {
	now := time.Now().UTC()
	t := &domain.Tray{
		ID:        uuid.New().String(),
		FarmID:    farmID,
		RecipeID:  recipeID,
		SowDate:   sowDate,
		LossState: domain.TrayActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
