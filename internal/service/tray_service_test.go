package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/repository"
	"github.com/alexanderramin/trayflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sow = domain.Date(2025, 6, 1)

func TestTrayCreate_SowingResolvesSeedEvent(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	tr := e.tray(t, f.ID, r.ID, sow)

	due, err := e.trays.DueEvents(ctx, tr.ID, sow)
	require.NoError(t, err)
	assert.Empty(t, due.Today, "seed is settled by sowing")
	assert.Empty(t, due.Overdue)

	due, err = e.trays.DueEvents(ctx, tr.ID, domain.AddDays(sow, 1))
	require.NoError(t, err)
	require.Len(t, due.Today, 1)
	assert.Equal(t, domain.EventBlackout, due.Today[0].Kind)
	assert.Equal(t, domain.AddDays(sow, 1), due.Today[0].DueDate)
}

func TestTrayComplete_DoubleCompleteIsAlreadyResolved(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	tr := e.tray(t, f.ID, r.ID, sow)

	req := contract.CompleteRequest{TrayID: tr.ID, DayOffset: 1, Kind: domain.EventBlackout}
	require.NoError(t, e.trays.Complete(ctx, req))

	err := e.trays.Complete(ctx, req)
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)

	marks, err := e.markRepo.ListByTray(ctx, tr.ID)
	require.NoError(t, err)
	assert.Len(t, marks, 2, "seed mark plus one blackout mark")
}

func TestTrayComplete_UnknownEvent(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	tr := e.tray(t, f.ID, r.ID, sow)

	err := e.trays.Complete(ctx, contract.CompleteRequest{TrayID: tr.ID, DayOffset: 2, Kind: domain.EventBlackout})
	assert.ErrorIs(t, err, domain.ErrUnknownEvent)

	err = e.trays.Skip(ctx, contract.SkipRequest{TrayID: tr.ID, DayOffset: 1, Kind: domain.EventWater})
	assert.ErrorIs(t, err, domain.ErrUnknownEvent)
}

func TestTrayComplete_MissingTray(t *testing.T) {
	e := newTestEnv(t)
	err := e.trays.Complete(context.Background(), contract.CompleteRequest{TrayID: "nope", Kind: domain.EventHarvest})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTrayComplete_HarvestNeedsYieldAndEndsTray(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	tr := e.tray(t, f.ID, r.ID, sow)
	harvestDay := domain.AddDays(sow, 8)

	err := e.trays.Complete(ctx, contract.CompleteRequest{TrayID: tr.ID, DayOffset: 8, Kind: domain.EventHarvest})
	assert.ErrorIs(t, err, domain.ErrYieldRequired)

	require.NoError(t, e.trays.Complete(ctx, contract.CompleteRequest{
		TrayID: tr.ID, DayOffset: 8, Kind: domain.EventHarvest, YieldGrams: ptr(310.0), Now: &harvestDay,
	}))

	got, err := e.trayRepo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TrayHarvested, got.LossState)
	require.NotNil(t, got.YieldGrams)
	assert.InDelta(t, 310.0, *got.YieldGrams, 0.001)
	require.NotNil(t, got.HarvestedOn)
	assert.Equal(t, harvestDay, *got.HarvestedOn)

	err = e.trays.Complete(ctx, contract.CompleteRequest{TrayID: tr.ID, DayOffset: 4, Kind: domain.EventUncover})
	assert.ErrorIs(t, err, domain.ErrTrayNotActive)

	ev, ok := e.obs.last(useCaseTrayComplete)
	require.True(t, ok)
	assert.False(t, ev.Success)
}

func TestTrayComplete_HarvestDateFollowsFarmZone(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	tr := e.tray(t, f.ID, r.ID, sow)

	edt := time.FixedZone("EDT", -4*60*60)
	svc := newTrayService(e.trayRepo, e.markRepo, e.recipeRepo, e.uow, edt)
	harvestDay := domain.AddDays(sow, 8)
	// 21:00 local on the harvest day, already the next day in UTC.
	now := time.Date(2025, 6, 9, 21, 0, 0, 0, edt)

	require.NoError(t, svc.Complete(ctx, contract.CompleteRequest{
		TrayID: tr.ID, DayOffset: 8, Kind: domain.EventHarvest, YieldGrams: ptr(280.0), Now: &now,
	}))

	got, err := e.trayRepo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	require.NotNil(t, got.HarvestedOn)
	assert.Equal(t, harvestDay, *got.HarvestedOn)
}

func TestTraySkip_HarvestIsNotSkippable(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	tr := e.tray(t, f.ID, r.ID, sow)

	err := e.trays.Skip(ctx, contract.SkipRequest{TrayID: tr.ID, DayOffset: 8, Kind: domain.EventHarvest})
	assert.ErrorIs(t, err, domain.ErrHarvestNotSkippable)

	require.NoError(t, e.trays.Skip(ctx, contract.SkipRequest{TrayID: tr.ID, DayOffset: 4, Kind: domain.EventUncover, Note: "  forgot  "}))
	marks, err := e.markRepo.ListByTray(ctx, tr.ID)
	require.NoError(t, err)
	var skipped []domain.EventMark
	for _, m := range marks {
		if m.Resolution == domain.ResolutionSkipped {
			skipped = append(skipped, m)
		}
	}
	require.Len(t, skipped, 1)
	assert.Equal(t, "forgot", skipped[0].Note)
}

func TestTraySkipAllOverdue(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	tr := e.tray(t, f.ID, r.ID, sow)

	// Day 5: blackout (1) and uncover (4) are overdue.
	res, err := e.trays.SkipAllOverdue(ctx, tr.ID, domain.AddDays(sow, 5))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Applied)
	require.Len(t, res.Items, 2)
	for _, item := range res.Items {
		assert.Equal(t, contract.BatchApplied, item.Status)
	}

	res, err = e.trays.SkipAllOverdue(ctx, tr.ID, domain.AddDays(sow, 5))
	require.NoError(t, err)
	assert.Zero(t, res.Applied)
	assert.Empty(t, res.Items)

	// Day 10: the overdue harvest is reported, not skipped.
	res, err = e.trays.SkipAllOverdue(ctx, tr.ID, domain.AddDays(sow, 10))
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, domain.EventHarvest, res.Items[0].Kind)
	assert.Equal(t, contract.BatchFailed, res.Items[0].Status)
	assert.Contains(t, res.Items[0].Error, "cannot be skipped")
}

func TestTrayMarkLost(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	tr := e.tray(t, f.ID, r.ID, sow)

	err := e.trays.MarkLost(ctx, tr.ID, "gremlins", "")
	assert.ErrorIs(t, err, domain.ErrInvalidLossReason)

	require.NoError(t, e.trays.MarkLost(ctx, tr.ID, domain.LossMold, "white fuzz"))
	got, err := e.trayRepo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TrayLost, got.LossState)
	require.NotNil(t, got.LossReason)
	assert.Equal(t, domain.LossMold, *got.LossReason)

	err = e.trays.MarkLost(ctx, tr.ID, domain.LossPest, "")
	assert.ErrorIs(t, err, domain.ErrTrayNotActive)

	err = e.trays.MarkLost(ctx, "missing", domain.LossPest, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	due, err := e.trays.DueEvents(ctx, tr.ID, domain.AddDays(sow, 5))
	require.NoError(t, err)
	assert.Empty(t, due.Today)
	assert.Empty(t, due.Overdue)
}

func TestTrayRelocateAndAssign(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	tr := e.tray(t, f.ID, r.ID, sow)
	c := testutil.NewTestCustomer(f.ID, "Bistro")
	require.NoError(t, e.customers.Create(ctx, c))

	require.NoError(t, e.trays.Relocate(ctx, tr.ID, " rack B2 "))
	require.NoError(t, e.trays.Assign(ctx, tr.ID, &c.ID))

	got, err := e.trays.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "rack B2", got.Location)
	require.NotNil(t, got.CustomerID)
	assert.Equal(t, c.ID, *got.CustomerID)
}

func TestTrayComplete_HarvestRollsBackMark(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	tr := e.tray(t, f.ID, r.ID, sow)

	// The mark is inserted before the tray moves to harvested.
	failing := &testutil.FailingUoW{DB: e.db, Match: "UPDATE trays", Err: errors.New("injected harvest failure")}
	svc := NewTrayService(e.trayRepo, e.markRepo, e.recipeRepo, failing)

	err := svc.Complete(ctx, contract.CompleteRequest{
		TrayID: tr.ID, DayOffset: 8, Kind: domain.EventHarvest, YieldGrams: ptr(200.0),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected harvest failure")
	assert.True(t, failing.Hit)

	got, err := e.trayRepo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TrayActive, got.LossState)

	marks, err := e.markRepo.ListByTray(ctx, tr.ID)
	require.NoError(t, err)
	for _, m := range marks {
		assert.NotEqual(t, domain.EventHarvest, m.Kind, "harvest mark must roll back")
	}
}

func TestTrayComplete_ConcurrentHarvestSucceedsOnce(t *testing.T) {
	e := newTestEnvOn(t, testutil.NewFileTestDB(t))
	ctx := context.Background()
	f := e.farm(t)
	r := e.recipe(t, f.ID)
	tr := e.tray(t, f.ID, r.ID, sow)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = e.trays.Complete(ctx, contract.CompleteRequest{
				TrayID: tr.ID, DayOffset: 8, Kind: domain.EventHarvest, YieldGrams: ptr(float64(100 + i)),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrAlreadyResolved) || errors.Is(err, domain.ErrTrayNotActive),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	got, err := e.trayRepo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TrayHarvested, got.LossState)
}
