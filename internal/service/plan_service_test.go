package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/repository"
	"github.com/alexanderramin/trayflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tenDays grows for ten days: seed 1, blackout 3, growing 6.
func tenDays() testutil.RecipeOption {
	return testutil.WithSteps(
		testutil.DaysStep(1, domain.ActionSeed, 1),
		testutil.DaysStep(2, domain.ActionBlackout, 3),
		testutil.DaysStep(3, domain.ActionGrowing, 6),
		testutil.DaysStep(4, domain.ActionHarvest, 0),
	)
}

var planWeek = contract.PlanRequest{
	WindowStart: domain.Date(2025, 6, 9),
	WindowEnd:   domain.Date(2025, 6, 15),
}

func TestPlan_FridayDeliveryMovesBackToMonday(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t, testutil.WithSeedingDays(time.Monday, time.Wednesday, time.Friday))
	r := e.recipe(t, f.ID, tenDays())
	o := e.order(t, f.ID, "Bistro", r.ID, testutil.WithQuantity(2))

	req := planWeek
	req.FarmID = f.ID
	resp, err := e.plan.Plan(ctx, req)
	require.NoError(t, err)
	require.Empty(t, resp.Failures)
	require.Len(t, resp.Created, 1)

	got := resp.Created[0]
	// Delivery Fri 2025-06-13, raw sow Tue 06-03, adjusted to Mon 06-02.
	assert.Equal(t, domain.Date(2025, 6, 2), got.SeedDate)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, domain.SourceStandingOrder, got.Source)
	require.NotNil(t, got.StandingOrderID)
	assert.Equal(t, o.ID, *got.StandingOrderID)
	require.NotNil(t, got.CustomerID)
	assert.Equal(t, o.CustomerID, *got.CustomerID)
	require.NotNil(t, got.DeliveryDate)
	assert.Equal(t, domain.Date(2025, 6, 13), *got.DeliveryDate)

	ev, ok := e.obs.last(useCasePlan)
	require.True(t, ok)
	assert.True(t, ev.Success)
	assert.Equal(t, 1, ev.Fields["created"])
}

func TestPlan_IsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	e.order(t, f.ID, "Bistro", r.ID, testutil.WithDeliveryDays(time.Tuesday, time.Friday))

	req := planWeek
	req.FarmID = f.ID
	first, err := e.plan.Plan(ctx, req)
	require.NoError(t, err)
	assert.Len(t, first.Created, 2)

	second, err := e.plan.Plan(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Len(t, second.Skipped, 2)

	all, err := e.requestRepo.List(ctx, f.ID, repository.SeedingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPlan_WidenedWindowTopsUpPendingRequest(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t, testutil.WithSeedingDays(time.Monday))
	r := e.recipe(t, f.ID)
	e.order(t, f.ID, "Bistro", r.ID, testutil.WithQuantity(3),
		testutil.WithDeliveryDays(time.Thursday, time.Friday))

	thursday, friday := domain.Date(2025, 6, 12), domain.Date(2025, 6, 13)
	// Both deliveries seed on Monday 2025-06-02.
	first, err := e.plan.Plan(ctx, contract.PlanRequest{FarmID: f.ID, WindowStart: thursday, WindowEnd: thursday})
	require.NoError(t, err)
	require.Len(t, first.Created, 1)
	assert.Equal(t, 3, first.Created[0].Quantity)
	id := first.Created[0].ID

	wide := contract.PlanRequest{FarmID: f.ID, WindowStart: thursday, WindowEnd: friday}
	second, err := e.plan.Plan(ctx, wide)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Empty(t, second.Skipped)
	require.Len(t, second.ToppedUp, 1)
	up := second.ToppedUp[0]
	assert.Equal(t, id, up.RequestID)
	assert.Equal(t, 3, up.Added)
	assert.Equal(t, 6, up.Quantity)
	assert.Equal(t, []time.Time{friday}, up.Deliveries)

	third, err := e.plan.Plan(ctx, wide)
	require.NoError(t, err)
	assert.Empty(t, third.Created)
	assert.Empty(t, third.ToppedUp)
	assert.Len(t, third.Skipped, 1)

	all, err := e.requestRepo.List(ctx, f.ID, repository.SeedingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 6, all[0].Quantity)
	assert.Equal(t, domain.Date(2025, 6, 2), all[0].SeedDate)

	covered, err := e.requestRepo.Deliveries(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{thursday, friday}, covered)
}

func TestPlan_SownRequestIsNotToppedUp(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t, testutil.WithSeedingDays(time.Monday))
	r := e.recipe(t, f.ID)
	e.order(t, f.ID, "Bistro", r.ID, testutil.WithDeliveryDays(time.Thursday, time.Friday))

	thursday, friday := domain.Date(2025, 6, 12), domain.Date(2025, 6, 13)
	first, err := e.plan.Plan(ctx, contract.PlanRequest{FarmID: f.ID, WindowStart: thursday, WindowEnd: thursday})
	require.NoError(t, err)
	require.Len(t, first.Created, 1)
	sowDate := domain.Date(2025, 6, 2)
	_, err = e.seedings.Complete(ctx, contract.SowRequest{RequestID: first.Created[0].ID, SowDate: &sowDate})
	require.NoError(t, err)

	second, err := e.plan.Plan(ctx, contract.PlanRequest{FarmID: f.ID, WindowStart: thursday, WindowEnd: friday})
	require.NoError(t, err)
	assert.Empty(t, second.ToppedUp)
	assert.Len(t, second.Skipped, 1)

	got, err := e.requestRepo.GetByID(ctx, first.Created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
}

func TestPlan_CancelledRequestIsReplanned(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	e.order(t, f.ID, "Bistro", r.ID)

	req := planWeek
	req.FarmID = f.ID
	first, err := e.plan.Plan(ctx, req)
	require.NoError(t, err)
	require.Len(t, first.Created, 1)
	require.NoError(t, e.seedings.Cancel(ctx, first.Created[0].ID))

	again, err := e.plan.Plan(ctx, req)
	require.NoError(t, err)
	assert.Len(t, again.Created, 1)
}

func TestPlan_FailuresDoNotAbortOtherOrders(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	unlinked := e.order(t, f.ID, "Cafe", "")
	linked := e.order(t, f.ID, "Bistro", r.ID)

	req := planWeek
	req.FarmID = f.ID
	resp, err := e.plan.Plan(ctx, req)
	require.NoError(t, err)

	require.Len(t, resp.Failures, 1)
	failure := resp.Failures[0]
	assert.Equal(t, unlinked.ID, failure.StandingOrderID)
	assert.Equal(t, contract.PlanErrRecipeNotLinked, failure.Code)
	assert.True(t, errors.Is(failure, domain.ErrRecipeNotLinked))

	require.Len(t, resp.Created, 1)
	assert.Equal(t, linked.ID, *resp.Created[0].StandingOrderID)
}

func TestPlan_OrderScope(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	a := e.order(t, f.ID, "Bistro", r.ID)
	e.order(t, f.ID, "Cafe", r.ID)

	req := planWeek
	req.FarmID = f.ID
	req.OrderIDs = []string{a.ID}
	resp, err := e.plan.Plan(ctx, req)
	require.NoError(t, err)
	require.Len(t, resp.Created, 1)
	assert.Equal(t, a.ID, *resp.Created[0].StandingOrderID)
}

func TestPlan_RejectsInvertedWindow(t *testing.T) {
	e := newTestEnv(t)
	f := e.farm(t)
	_, err := e.plan.Plan(context.Background(), contract.PlanRequest{
		FarmID:      f.ID,
		WindowStart: domain.Date(2025, 6, 15),
		WindowEnd:   domain.Date(2025, 6, 9),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPlan_UnknownFarm(t *testing.T) {
	e := newTestEnv(t)
	req := planWeek
	req.FarmID = "missing"
	_, err := e.plan.Plan(context.Background(), req)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
