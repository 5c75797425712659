package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeRepo_RoundTripsSteps(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	farm, _ := seedFarm(t, conn)
	repo := NewSQLiteRecipeRepo(conn)

	weight := 12.5
	seed := testutil.DaysStep(2, domain.ActionSeed, 1)
	seed.WeightGrams = &weight
	seed.PostSowWetting = domain.WettingMist
	grow := testutil.Watered(testutil.DaysStep(3, domain.ActionGrowing, 5), 2)
	grow.Notes = "uncover and move to rack"

	rec := testutil.NewTestRecipe(farm.ID, "Pea", testutil.WithSteps(
		testutil.HoursStep(1, domain.ActionSoak, 8),
		seed,
		grow,
		testutil.DaysStep(4, domain.ActionHarvest, 0),
	))
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, got.Steps, 4)
	assert.Equal(t, domain.UnitHours, got.Steps[0].Unit)
	assert.Nil(t, got.Steps[0].Water)
	require.NotNil(t, got.Steps[1].WeightGrams)
	assert.Equal(t, 12.5, *got.Steps[1].WeightGrams)
	assert.Equal(t, domain.WettingMist, got.Steps[1].PostSowWetting)
	require.NotNil(t, got.Steps[2].Water)
	assert.Equal(t, 2, got.Steps[2].Water.TimesPerDay)
	assert.Equal(t, domain.WaterBottom, got.Steps[2].Water.Method)
	assert.Equal(t, "uncover and move to rack", got.Steps[2].Notes)
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Microsecond)
}

func TestRecipeRepo_NotFound(t *testing.T) {
	conn := testutil.NewTestDB(t)
	_, err := NewSQLiteRecipeRepo(conn).GetByID(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRecipeRepo_ListHidesSupersededVersions(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	farm, v1 := seedFarm(t, conn)
	repo := NewSQLiteRecipeRepo(conn)

	v2 := testutil.NewTestRecipe(farm.ID, v1.Name)
	v2.Version = 2
	v2.SupersedesID = &v1.ID
	require.NoError(t, repo.Create(ctx, v2))

	latest, err := repo.List(ctx, farm.ID, false)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, v2.ID, latest[0].ID)
	assert.Len(t, latest[0].Steps, 4)

	all, err := repo.List(ctx, farm.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// A version can be superseded once.
	fork := testutil.NewTestRecipe(farm.ID, v1.Name)
	fork.Version = 2
	fork.SupersedesID = &v1.ID
	assert.Error(t, repo.Create(ctx, fork))
}

func TestRecipeRepo_ListByIDs(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	farm, a := seedFarm(t, conn)
	repo := NewSQLiteRecipeRepo(conn)
	b := testutil.NewTestRecipe(farm.ID, "Sunflower")
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.ListByIDs(ctx, []string{a.ID, b.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "Sunflower", got[b.ID].Name)
	assert.Len(t, got[a.ID].Steps, 4)

	empty, err := repo.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
