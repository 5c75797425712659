package service

import (
	"database/sql"
	"time"

	"github.com/alexanderramin/trayflow/internal/app"
	"github.com/alexanderramin/trayflow/internal/db"
	"github.com/alexanderramin/trayflow/internal/repository"
)

// The services implement the application ports the CLI, API and
// autoplan runner are written against.
var (
	_ app.TodayUseCase          = (TodayService)(nil)
	_ app.PlanUseCase           = (PlanService)(nil)
	_ app.GapsUseCase           = (GapService)(nil)
	_ app.TrayEventsUseCase     = (TrayService)(nil)
	_ app.RecipeTimelineUseCase = (RecipeService)(nil)
	_ app.SeedingUseCase        = (SeedingService)(nil)
)

// Options tunes the planning use cases.
type Options struct {
	// LookbackDays <= 0 selects scheduler.DefaultLookbackDays.
	LookbackDays int
	// FreshnessDays < 0 selects scheduler.DefaultFreshnessDays.
	FreshnessDays int
	// Location dates harvests and sowings that carry no date. Nil means UTC.
	Location *time.Location
}

// Services is every use case wired against one database.
type Services struct {
	Farms     FarmService
	Recipes   RecipeService
	Customers CustomerService
	Products  ProductService
	Orders    OrderService
	Seedings  SeedingService
	Trays     TrayService
	Today     TodayService
	Plan      PlanService
	Gaps      GapService
}

// NewServices builds the SQLite repositories and the services on top of them.
func NewServices(database *sql.DB, opts Options, observers ...UseCaseObserver) *Services {
	uow := db.NewSQLiteUnitOfWork(database)
	farms := repository.NewSQLiteFarmRepo(database)
	recipes := repository.NewSQLiteRecipeRepo(database)
	customers := repository.NewSQLiteCustomerRepo(database)
	products := repository.NewSQLiteProductRepo(database)
	orders := repository.NewSQLiteStandingOrderRepo(database)
	requests := repository.NewSQLiteSeedingRequestRepo(database)
	trays := repository.NewSQLiteTrayRepo(database)
	marks := repository.NewSQLiteEventMarkRepo(database)

	return &Services{
		Farms:     NewFarmService(farms),
		Recipes:   NewRecipeService(recipes, uow, observers...),
		Customers: NewCustomerService(customers),
		Products:  NewProductService(products, recipes),
		Orders:    NewOrderService(orders, customers, products),
		Seedings:  newSeedingService(requests, recipes, uow, opts.Location, observers...),
		Trays:     newTrayService(trays, marks, recipes, uow, opts.Location, observers...),
		Today:     NewTodayService(farms, trays, marks, requests, recipes, observers...),
		Plan:      NewPlanService(farms, orders, products, recipes, uow, opts.LookbackDays, observers...),
		Gaps:      NewGapService(farms, orders, products, trays, recipes, opts.FreshnessDays, observers...),
	}
}
