package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
)

func TestFormatToday_OverdueListedSeparately(t *testing.T) {
	day := domain.Date(2025, 6, 9)
	overdue := contract.Task{
		Source: domain.TaskFromTray, SourceID: "tray-0001-aaaa", Kind: domain.EventUncover,
		Bucket: domain.BucketUncover, DayOffset: 4, DueDate: domain.Date(2025, 6, 7),
		Urgency: domain.UrgencyOverdue,
		Payload: contract.TaskPayload{Quantity: 1, RecipeName: "Radish", Location: "rack A"},
	}
	water := contract.Task{
		Source: domain.TaskFromTray, SourceID: "tray-0002-bbbb", Kind: domain.EventWater,
		Bucket: domain.BucketWater, DayOffset: 5, DueDate: day, Urgency: domain.UrgencyNormal,
		Payload: contract.TaskPayload{
			Quantity: 3, RecipeName: "Pea",
			Water: &domain.WaterSpec{Type: domain.WaterPlain, Method: domain.WaterBottom, TimesPerDay: 2},
		},
	}
	resp := &contract.TodayResponse{
		Date:         day,
		Groups:       []contract.TaskGroup{{Bucket: domain.BucketWater, Tasks: []contract.Task{water}}, {Bucket: domain.BucketUncover, Tasks: []contract.Task{overdue}}},
		Overdue:      []contract.Task{overdue},
		TotalCount:   2,
		OverdueCount: 1,
	}

	out := stripANSI(FormatToday(resp, nil))
	assert.Contains(t, out, "TODAY MON 2025-06-09")
	assert.Contains(t, out, "2 tasks · 0 urgent · 1 overdue")
	assert.Contains(t, out, "OVERDUE")
	assert.Contains(t, out, "Radish  @rack A  due 2025-06-07")
	assert.Contains(t, out, "Pea  ×3  water, bottom ×2")
	assert.NotContains(t, out, "UNCOVER", "overdue tasks are not repeated under their bucket")
}

func TestFormatToday_Empty(t *testing.T) {
	out := stripANSI(FormatToday(&contract.TodayResponse{Date: domain.Date(2025, 6, 9)}, nil))
	assert.Contains(t, out, "Nothing due")
}

func TestFormatPlan(t *testing.T) {
	customer := "cust-1"
	delivery := domain.Date(2025, 6, 13)
	resp := &contract.PlanResponse{
		Created: []*domain.SeedingRequest{{
			ID: "req-12345678", RecipeID: "rec-1", Quantity: 2, SeedDate: domain.Date(2025, 6, 2),
			CustomerID: &customer, DeliveryDate: &delivery,
		}},
		ToppedUp: []contract.PlanTopUp{{
			RequestID: "req-87654321", SeedDate: domain.Date(2025, 6, 9), Added: 3, Quantity: 6,
			Deliveries: []time.Time{domain.Date(2025, 6, 20)},
		}},
		Skipped: []contract.PlanSlot{{StandingOrderID: "o2"}},
		Failures: []contract.PlanFailure{{
			StandingOrderID: "order-without-recipe", Code: contract.PlanErrRecipeNotLinked, Message: "product has no recipe",
		}},
	}
	out := stripANSI(FormatPlan(resp, Names{"rec-1": "Radish", "cust-1": "Bistro"}))
	assert.Contains(t, out, "1 created · 1 topped up · 1 already planned · 1 failed")
	assert.Contains(t, out, "+3")
	assert.Contains(t, out, "Fri 2025-06-20")
	assert.Contains(t, out, "Mon 2025-06-02")
	assert.Contains(t, out, "Bistro")
	assert.Contains(t, out, "Fri 2025-06-13")
	assert.Contains(t, out, "RECIPE_NOT_LINKED order order-wi: product has no recipe")
}

func TestFormatGaps(t *testing.T) {
	resp := &contract.GapResponse{
		From: domain.Date(2025, 6, 9), To: domain.Date(2025, 6, 15),
		Reports: []contract.GapReport{
			{CustomerID: "c1", RecipeID: "r1", Date: domain.Date(2025, 6, 13), TraysNeeded: 2, TraysReady: 1, Shortfall: 1},
			{RecipeID: "r1", Date: domain.Date(2025, 6, 13), TraysReady: 1, Surplus: 1},
		},
		TotalShortfall: 1, TotalSurplus: 1,
	}
	out := stripANSI(FormatGaps(resp, Names{"c1": "Cafe", "r1": "Radish"}))
	assert.Contains(t, out, "short 1")
	assert.Contains(t, out, "unassigned")
	assert.Contains(t, out, "surplus 1")
	assert.Contains(t, out, "Shortfall 1 · Surplus 1")
}

func TestFormatTimeline(t *testing.T) {
	v := &contract.TimelineView{
		RecipeName: "Sunflower", TotalDays: 9, PreSowDays: 1, HasGrowing: true, LastGrowingDay: 8,
		Events: []contract.TimelineEventView{
			{DayOffset: -1, Kind: domain.EventSoak, Bucket: domain.BucketSoak},
			{DayOffset: 0, Kind: domain.EventSeed, Bucket: domain.BucketSeed, WeightGrams: ptr(25.0)},
		},
	}
	out := stripANSI(FormatTimeline(v))
	assert.Contains(t, out, "9 days to harvest · starts 1 day(s) before sowing · watering through day 8")
	assert.Contains(t, out, "-1   soak")
	assert.Contains(t, out, "25g")
}

func TestFormatBatch(t *testing.T) {
	res := &contract.BatchResult{TrayID: "t1", Applied: 1, Items: []contract.BatchItem{
		{DayOffset: 1, Kind: domain.EventBlackout, Status: contract.BatchApplied},
		{DayOffset: 8, Kind: domain.EventHarvest, Status: contract.BatchFailed, Error: "harvest cannot be skipped"},
	}}
	out := stripANSI(FormatBatch(res))
	assert.Contains(t, out, "Skipped 1 event on tray t1")
	assert.Contains(t, out, "failed  harvest cannot be skipped")
}
