package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/testutil"
	"github.com/stretchr/testify/require"
)

// seedFarm stores a farm with one default recipe.
func seedFarm(t *testing.T, conn *sql.DB) (*domain.Farm, *domain.Recipe) {
	t.Helper()
	ctx := context.Background()
	farm := testutil.NewTestFarm("Greenhouse")
	require.NoError(t, NewSQLiteFarmRepo(conn).Create(ctx, farm))
	recipe := testutil.NewTestRecipe(farm.ID, "Radish")
	require.NoError(t, NewSQLiteRecipeRepo(conn).Create(ctx, recipe))
	return farm, recipe
}

// seedOrder stores a customer, a product linked to recipeID and a Friday
// standing order.
func seedOrder(t *testing.T, conn *sql.DB, farmID, recipeID string) *domain.StandingOrder {
	t.Helper()
	ctx := context.Background()
	customer := testutil.NewTestCustomer(farmID, "Bistro")
	require.NoError(t, NewSQLiteCustomerRepo(conn).Create(ctx, customer))
	product := testutil.NewTestProduct(farmID, "Radish mix", &recipeID)
	require.NoError(t, NewSQLiteProductRepo(conn).Create(ctx, product))
	order := testutil.NewTestStandingOrder(farmID, customer.ID, product.ID)
	require.NoError(t, NewSQLiteStandingOrderRepo(conn).Create(ctx, order))
	return order
}
