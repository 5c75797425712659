package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/repository"
	"github.com/alexanderramin/trayflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFarmResolveByIDOrName(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)

	byID, err := e.farms.Resolve(ctx, f.ID)
	require.NoError(t, err)
	byName, err := e.farms.Resolve(ctx, "Greenhouse")
	require.NoError(t, err)
	assert.Equal(t, byID.ID, byName.ID)

	_, err = e.farms.Resolve(ctx, "Elsewhere")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, e.farms.Create(ctx, &domain.Farm{Name: " "}), domain.ErrInvalidInput)
}

func TestFarmSetSeedingDays(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)

	days := domain.NewWeekdaySet(time.Monday, time.Thursday)
	require.NoError(t, e.farms.SetSeedingDays(ctx, f.ID, days))
	got, err := e.farms.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, days, got.AllowedSeedingDays)
}

func TestProductLinkRecipe(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	other := testutil.NewTestFarm("Other")
	require.NoError(t, e.farms.Create(ctx, other))
	foreign := e.recipe(t, other.ID)

	p := testutil.NewTestProduct(f.ID, "Radish 100g", nil)
	require.NoError(t, e.products.Create(ctx, p))

	assert.ErrorIs(t, e.products.LinkRecipe(ctx, p.ID, &foreign.ID), domain.ErrInvalidInput)
	require.NoError(t, e.products.LinkRecipe(ctx, p.ID, &r.ID))

	got, err := e.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RecipeID)
	assert.Equal(t, r.ID, *got.RecipeID)

	require.NoError(t, e.products.LinkRecipe(ctx, p.ID, nil))
	got, err = e.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RecipeID)
}

func TestOrderCreate_Validates(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	c := testutil.NewTestCustomer(f.ID, "Bistro")
	require.NoError(t, e.customers.Create(ctx, c))
	p := testutil.NewTestProduct(f.ID, "Pea shoots", nil)
	require.NoError(t, e.products.Create(ctx, p))

	zero := testutil.NewTestStandingOrder(f.ID, c.ID, p.ID, testutil.WithQuantity(0))
	assert.ErrorIs(t, e.orders.Create(ctx, zero), domain.ErrInvalidInput)

	noDays := testutil.NewTestStandingOrder(f.ID, c.ID, p.ID)
	noDays.DeliveryDays = 0
	assert.ErrorIs(t, e.orders.Create(ctx, noDays), domain.ErrInvalidInput)

	ghost := testutil.NewTestStandingOrder(f.ID, "missing", p.ID)
	assert.ErrorIs(t, e.orders.Create(ctx, ghost), repository.ErrNotFound)

	ok := testutil.NewTestStandingOrder(f.ID, c.ID, p.ID)
	require.NoError(t, e.orders.Create(ctx, ok))

	assert.ErrorIs(t, e.orders.End(ctx, ok.ID, domain.Date(2024, 12, 1)), domain.ErrInvalidInput)
	require.NoError(t, e.orders.End(ctx, ok.ID, domain.Date(2025, 3, 31)))
	got, err := e.orders.GetByID(ctx, ok.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, domain.Date(2025, 3, 31), *got.EndDate)

	require.NoError(t, e.orders.Delete(ctx, ok.ID))
	assert.ErrorIs(t, e.orders.Delete(ctx, ok.ID), repository.ErrNotFound)
}
