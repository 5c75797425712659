package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupKinds(tasks []contract.Task) []domain.EventKind {
	var out []domain.EventKind
	for _, task := range tasks {
		out = append(out, task.Kind)
	}
	return out
}

func TestAggregateDay_GroupsInFixedBucketOrder(t *testing.T) {
	r := basilRecipe()
	tl := mustCompile(r)
	day := domain.Date(2025, 6, 10)

	resp := AggregateDay(DayInput{
		FarmID: "f-1",
		Date:   day,
		Trays: []TrayAgenda{
			{Tray: activeTray("t-harvest", r.ID, domain.AddDays(day, -8)), Recipe: r, Timeline: tl,
				Resolved: map[domain.EventKey]bool{{DayOffset: 0, Kind: domain.EventSeed}: true,
					{DayOffset: 1, Kind: domain.EventBlackout}: true, {DayOffset: 4, Kind: domain.EventUncover}: true}},
			{Tray: activeTray("t-uncover", r.ID, domain.AddDays(day, -4)), Recipe: r, Timeline: tl,
				Resolved: map[domain.EventKey]bool{{DayOffset: 0, Kind: domain.EventSeed}: true,
					{DayOffset: 1, Kind: domain.EventBlackout}: true}},
		},
	})

	require.Len(t, resp.Groups, len(domain.BucketOrder))
	for i, g := range resp.Groups {
		assert.Equal(t, domain.BucketOrder[i], g.Bucket)
	}
	assert.Equal(t, []domain.EventKind{domain.EventUncover}, groupKinds(resp.Group(domain.BucketUncover)))
	assert.Equal(t, []domain.EventKind{domain.EventHarvest}, groupKinds(resp.Group(domain.BucketHarvest)))
	assert.Empty(t, resp.Overdue)
	assert.Equal(t, 2, resp.TotalCount)
}

func TestAggregateDay_HarvestAfterLastGrowingDayIsUrgent(t *testing.T) {
	r := basilRecipe()
	tl := mustCompile(r)
	day := domain.Date(2025, 6, 10)
	resolved := map[domain.EventKey]bool{
		{DayOffset: 0, Kind: domain.EventSeed}:     true,
		{DayOffset: 1, Kind: domain.EventBlackout}: true,
		{DayOffset: 4, Kind: domain.EventUncover}:  true,
	}

	resp := AggregateDay(DayInput{Date: day, Trays: []TrayAgenda{
		{Tray: activeTray("t-1", r.ID, domain.AddDays(day, -8)), Recipe: r, Timeline: tl, Resolved: resolved},
	}})

	harvest := resp.Group(domain.BucketHarvest)
	require.Len(t, harvest, 1)
	assert.Equal(t, domain.UrgencyUrgent, harvest[0].Urgency)
	assert.Equal(t, 1, resp.UrgentCount)
	assert.Equal(t, "Recipe r-basic", harvest[0].Payload.RecipeName)
}

func TestAggregateDay_OverdueListedOnce(t *testing.T) {
	r := basilRecipe()
	tl := mustCompile(r)
	day := domain.Date(2025, 6, 10)

	resp := AggregateDay(DayInput{Date: day, Trays: []TrayAgenda{
		{Tray: activeTray("t-1", r.ID, domain.AddDays(day, -2)), Recipe: r, Timeline: tl},
	}})

	require.Len(t, resp.Overdue, 2)
	for _, task := range resp.Overdue {
		assert.Equal(t, domain.UrgencyOverdue, task.Urgency)
		assert.True(t, task.DueDate.Before(day))
	}
	assert.Equal(t, domain.AddDays(day, -2), resp.Overdue[0].DueDate)
	for _, g := range resp.Groups {
		assert.Empty(t, g.Tasks, "bucket %s", g.Bucket)
	}
	assert.Equal(t, 2, resp.OverdueCount)
	assert.Equal(t, 2, resp.UrgentCount)
}

func TestAggregateDay_SeedingRequests(t *testing.T) {
	r := recipeOf("r-pea",
		days(1, domain.ActionSoak, 1),
		days(2, domain.ActionSeed, 1),
		days(3, domain.ActionHarvest, 0),
	)
	tl := mustCompile(r)
	day := domain.Date(2025, 6, 10)

	tomorrow := &domain.SeedingRequest{ID: "sr-1", RecipeID: r.ID, Quantity: 3,
		SeedDate: domain.AddDays(day, 1), Status: domain.SeedingPending}
	today := &domain.SeedingRequest{ID: "sr-2", RecipeID: r.ID, Quantity: 2,
		SeedDate: day, Status: domain.SeedingPending, CustomerID: strPtr("c-1")}
	soaked := time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC)
	today.SoakedAt = &soaked

	resp := AggregateDay(DayInput{Date: day, Requests: []RequestAgenda{
		{Request: tomorrow, Recipe: r, Timeline: tl},
		{Request: today, Recipe: r, Timeline: tl},
	}})

	soak := resp.Group(domain.BucketSoak)
	require.Len(t, soak, 1)
	assert.Equal(t, "sr-1", soak[0].SourceID)
	assert.Equal(t, 3, soak[0].Payload.Quantity)

	seed := resp.Group(domain.BucketSeed)
	require.Len(t, seed, 1)
	assert.Equal(t, "sr-2", seed[0].SourceID)
	assert.Equal(t, domain.TaskFromRequest, seed[0].Source)
	assert.Equal(t, "c-1", *seed[0].Payload.CustomerID)
}

func TestAggregateDay_MissedSeedingIsOverdue(t *testing.T) {
	r := basilRecipe()
	day := domain.Date(2025, 6, 10)
	req := &domain.SeedingRequest{ID: "sr-1", RecipeID: r.ID, Quantity: 1,
		SeedDate: domain.AddDays(day, -1), Status: domain.SeedingPending}
	done := &domain.SeedingRequest{ID: "sr-2", RecipeID: r.ID, Quantity: 1,
		SeedDate: day, Status: domain.SeedingCompleted}

	resp := AggregateDay(DayInput{Date: day, Requests: []RequestAgenda{
		{Request: req, Recipe: r, Timeline: mustCompile(r)},
		{Request: done, Recipe: r, Timeline: mustCompile(r)},
	}})
	require.Len(t, resp.Overdue, 1)
	assert.Equal(t, domain.EventSeed, resp.Overdue[0].Kind)
	assert.Equal(t, 1, resp.TotalCount)
}
