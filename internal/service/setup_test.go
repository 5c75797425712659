package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/trayflow/internal/db"
	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/repository"
	"github.com/alexanderramin/trayflow/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv wires every repository and service against one database.
type testEnv struct {
	db  *sql.DB
	uow db.UnitOfWork
	obs *recordingObserver

	farmRepo     *repository.SQLiteFarmRepo
	recipeRepo   *repository.SQLiteRecipeRepo
	customerRepo *repository.SQLiteCustomerRepo
	productRepo  *repository.SQLiteProductRepo
	orderRepo    *repository.SQLiteStandingOrderRepo
	requestRepo  *repository.SQLiteSeedingRequestRepo
	trayRepo     *repository.SQLiteTrayRepo
	markRepo     *repository.SQLiteEventMarkRepo

	farms     FarmService
	recipes   RecipeService
	customers CustomerService
	products  ProductService
	orders    OrderService
	seedings  SeedingService
	trays     TrayService
	today     TodayService
	plan      PlanService
	gaps      GapService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvOn(t, testutil.NewTestDB(t))
}

func newTestEnvOn(t *testing.T, database *sql.DB) *testEnv {
	t.Helper()
	e := &testEnv{
		db:           database,
		uow:          testutil.NewTestUoW(database),
		obs:          &recordingObserver{},
		farmRepo:     repository.NewSQLiteFarmRepo(database),
		recipeRepo:   repository.NewSQLiteRecipeRepo(database),
		customerRepo: repository.NewSQLiteCustomerRepo(database),
		productRepo:  repository.NewSQLiteProductRepo(database),
		orderRepo:    repository.NewSQLiteStandingOrderRepo(database),
		requestRepo:  repository.NewSQLiteSeedingRequestRepo(database),
		trayRepo:     repository.NewSQLiteTrayRepo(database),
		markRepo:     repository.NewSQLiteEventMarkRepo(database),
	}
	e.farms = NewFarmService(e.farmRepo)
	e.recipes = NewRecipeService(e.recipeRepo, e.uow, e.obs)
	e.customers = NewCustomerService(e.customerRepo)
	e.products = NewProductService(e.productRepo, e.recipeRepo)
	e.orders = NewOrderService(e.orderRepo, e.customerRepo, e.productRepo)
	e.seedings = NewSeedingService(e.requestRepo, e.recipeRepo, e.uow, e.obs)
	e.trays = NewTrayService(e.trayRepo, e.markRepo, e.recipeRepo, e.uow, e.obs)
	e.today = NewTodayService(e.farmRepo, e.trayRepo, e.markRepo, e.requestRepo, e.recipeRepo, e.obs)
	e.plan = NewPlanService(e.farmRepo, e.orderRepo, e.productRepo, e.recipeRepo, e.uow, 0, e.obs)
	e.gaps = NewGapService(e.farmRepo, e.orderRepo, e.productRepo, e.trayRepo, e.recipeRepo, -1, e.obs)
	return e
}

func (e *testEnv) farm(t *testing.T, opts ...testutil.FarmOption) *domain.Farm {
	t.Helper()
	f := testutil.NewTestFarm("Greenhouse", opts...)
	require.NoError(t, e.farms.Create(context.Background(), f))
	return f
}

func (e *testEnv) recipe(t *testing.T, farmID string, opts ...testutil.RecipeOption) *domain.Recipe {
	t.Helper()
	r := testutil.NewTestRecipe(farmID, "Radish", opts...)
	require.NoError(t, e.recipes.Save(context.Background(), r))
	return r
}

// order creates a customer, a product linked to recipeID and a standing
// order for them.
func (e *testEnv) order(t *testing.T, farmID, customer, recipeID string, opts ...testutil.OrderOption) *domain.StandingOrder {
	t.Helper()
	ctx := context.Background()
	c := testutil.NewTestCustomer(farmID, customer)
	require.NoError(t, e.customers.Create(ctx, c))
	var link *string
	if recipeID != "" {
		link = &recipeID
	}
	p := testutil.NewTestProduct(farmID, customer+" mix", link)
	require.NoError(t, e.products.Create(ctx, p))
	o := testutil.NewTestStandingOrder(farmID, c.ID, p.ID, opts...)
	require.NoError(t, e.orders.Create(ctx, o))
	return o
}

func (e *testEnv) tray(t *testing.T, farmID, recipeID string, sow time.Time, opts ...testutil.TrayOption) *domain.Tray {
	t.Helper()
	tr := testutil.NewTestTray(farmID, recipeID, sow, opts...)
	require.NoError(t, e.trays.Create(context.Background(), tr))
	return tr
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) last(name string) (UseCaseEvent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.events) - 1; i >= 0; i-- {
		if o.events[i].Name == name {
			return o.events[i], true
		}
	}
	return UseCaseEvent{}, false
}

func ptr[T any](v T) *T {
	return &v
}
