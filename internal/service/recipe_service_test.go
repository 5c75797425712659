package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeSave_InvalidRecipeIsNotStored(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)

	bad := testutil.NewTestRecipe(f.ID, "Broken", testutil.WithSteps(
		testutil.DaysStep(1, domain.ActionSeed, 1),
		testutil.DaysStep(2, domain.ActionHarvest, 0),
		testutil.DaysStep(4, domain.ActionGrowing, -2),
	))
	err := e.recipes.Save(ctx, bad)
	require.ErrorIs(t, err, domain.ErrInvalidRecipe)

	var verr *domain.RecipeValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Problems), 2)

	list, err := e.recipes.List(ctx, f.ID, true)
	require.NoError(t, err)
	assert.Empty(t, list)

	ev, ok := e.obs.last(useCaseRecipeSave)
	require.True(t, ok)
	assert.False(t, ev.Success)
}

func TestRecipeSave_RequiresName(t *testing.T) {
	e := newTestEnv(t)
	f := e.farm(t)
	r := testutil.NewTestRecipe(f.ID, "   ")
	assert.ErrorIs(t, e.recipes.Save(context.Background(), r), domain.ErrInvalidInput)
}

func TestRecipeRevise_CreatesNewVersion(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	base := e.recipe(t, f.ID)
	tr := e.tray(t, f.ID, base.ID, sow)

	next, err := e.recipes.Revise(ctx, base.ID, []domain.Step{
		testutil.DaysStep(1, domain.ActionSeed, 1),
		testutil.DaysStep(2, domain.ActionBlackout, 4),
		testutil.DaysStep(3, domain.ActionGrowing, 5),
		testutil.DaysStep(4, domain.ActionHarvest, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, next.Version)
	require.NotNil(t, next.SupersedesID)
	assert.Equal(t, base.ID, *next.SupersedesID)
	assert.Equal(t, "Radish v2", next.DisplayName())

	current, err := e.recipes.List(ctx, f.ID, false)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, next.ID, current[0].ID)

	// Existing trays keep the version they were sown with.
	got, err := e.trays.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, base.ID, got.RecipeID)

	oldView, err := e.recipes.Timeline(ctx, base.ID)
	require.NoError(t, err)
	newView, err := e.recipes.Timeline(ctx, next.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, oldView.TotalDays)
	assert.Equal(t, 10, newView.TotalDays)
}

func TestRecipeTimeline_View(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)

	view, err := e.recipes.Timeline(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, view.RecipeID)
	assert.Equal(t, 8, view.TotalDays)
	assert.True(t, view.HasGrowing)
	assert.Equal(t, 7, view.LastGrowingDay)

	last := view.Events[len(view.Events)-1]
	assert.Equal(t, domain.EventHarvest, last.Kind)
	assert.Equal(t, domain.BucketHarvest, last.Bucket)
	assert.Equal(t, 8, last.DayOffset)
}
