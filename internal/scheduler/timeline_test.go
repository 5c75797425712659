package scheduler

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindsAt(tl *Timeline, offset int) []domain.EventKind {
	var out []domain.EventKind
	for _, e := range tl.Events {
		if e.DayOffset == offset {
			out = append(out, e.Kind)
		}
	}
	return out
}

func TestCompile_BasicRecipeHarvestsOnDayEight(t *testing.T) {
	tl, err := Compile(basilRecipe())
	require.NoError(t, err)

	assert.Equal(t, 8, tl.TotalDays)
	assert.Equal(t, 0, tl.PreSowDays)
	assert.True(t, tl.HasGrowing)
	assert.Equal(t, 7, tl.LastGrowingDay)

	var got []domain.EventKey
	for _, e := range tl.Events {
		got = append(got, e.Key())
	}
	assert.Equal(t, []domain.EventKey{
		{DayOffset: 0, Kind: domain.EventSeed},
		{DayOffset: 1, Kind: domain.EventBlackout},
		{DayOffset: 4, Kind: domain.EventUncover},
		{DayOffset: 8, Kind: domain.EventHarvest},
	}, got)
}

func TestCompile_PreSowSoakGetsNegativeOffset(t *testing.T) {
	r := recipeOf("r-pea",
		hours(1, domain.ActionSoak, 12),
		days(2, domain.ActionSeed, 1),
		days(3, domain.ActionBlackout, 2),
		days(4, domain.ActionHarvest, 0),
	)
	tl, err := Compile(r)
	require.NoError(t, err)

	assert.Equal(t, 1, tl.PreSowDays)
	off, ok := tl.SoakOffset()
	require.True(t, ok)
	assert.Equal(t, -1, off)
	assert.Equal(t, 3, tl.TotalDays)

	resolved := tl.SowResolved()
	require.Len(t, resolved, 2)
	assert.Equal(t, domain.EventSoak, resolved[0].Kind)
	assert.Equal(t, domain.EventSeed, resolved[1].Kind)
}

func TestCompile_HourStepsRoundUpToWholeDays(t *testing.T) {
	r := recipeOf("r-hours",
		days(1, domain.ActionSeed, 1),
		hours(2, domain.ActionBlackout, 36),
		hours(3, domain.ActionGrowing, 24),
	)
	tl, err := Compile(r)
	require.NoError(t, err)

	// 1 + ceil(36/24)=2 + 1
	assert.Equal(t, 4, tl.TotalDays)
	assert.Equal(t, []domain.EventKind{domain.EventBlackout}, kindsAt(tl, 1))
	assert.Equal(t, []domain.EventKind{domain.EventUncover}, kindsAt(tl, 3))
}

func TestCompile_SynthesizesHarvest(t *testing.T) {
	r := recipeOf("r-noharvest",
		days(1, domain.ActionSeed, 1),
		days(2, domain.ActionGrowing, 5),
	)
	tl, err := Compile(r)
	require.NoError(t, err)

	last := tl.Events[len(tl.Events)-1]
	assert.Equal(t, domain.EventHarvest, last.Kind)
	assert.Equal(t, 6, last.DayOffset)
}

func TestCompile_WaterEventPerDayWithFrequencyPayload(t *testing.T) {
	r := recipeOf("r-water",
		days(1, domain.ActionSeed, 1),
		watered(days(2, domain.ActionGrowing, 3), 2),
		days(3, domain.ActionHarvest, 0),
	)
	tl, err := Compile(r)
	require.NoError(t, err)

	var waterDays []int
	for _, e := range tl.Events {
		if e.Kind == domain.EventWater {
			waterDays = append(waterDays, e.DayOffset)
			require.NotNil(t, e.Water)
			assert.Equal(t, 2, e.Water.TimesPerDay)
		}
	}
	assert.Equal(t, []int{1, 2, 3}, waterDays)
}

func TestCompile_PostSowWettingOnce(t *testing.T) {
	seed := days(1, domain.ActionSeed, 1)
	seed.PostSowWetting = domain.WettingMist
	r := recipeOf("r-mist", seed, days(2, domain.ActionHarvest, 0))

	tl, err := Compile(r)
	require.NoError(t, err)

	ev, ok := tl.Lookup(domain.EventKey{DayOffset: 0, Kind: domain.EventWetSeeds})
	require.True(t, ok)
	assert.Contains(t, ev.Label, "mist")
	assert.Equal(t, domain.BucketWater, ev.Kind.Bucket())
}

func TestCompile_MergesDuplicateKeys(t *testing.T) {
	r := recipeOf("r-dup",
		days(1, domain.ActionSeed, 1),
		days(2, domain.ActionOther, 0),
		days(3, domain.ActionOther, 2),
	)
	r.Steps[1].Notes = "label trays"
	r.Steps[2].Notes = "rotate"
	tl, err := Compile(r)
	require.NoError(t, err)

	ev, ok := tl.Lookup(domain.EventKey{DayOffset: 1, Kind: domain.EventMaintenance})
	require.True(t, ok)
	assert.Equal(t, "label trays; rotate", ev.Label)

	seen := map[domain.EventKey]bool{}
	for _, e := range tl.Events {
		assert.False(t, seen[e.Key()], "duplicate key %s", e.Key())
		seen[e.Key()] = true
	}
}

func TestCompile_InvalidRecipeReportsEveryProblem(t *testing.T) {
	r := recipeOf("r-bad",
		days(1, domain.ActionSeed, 1),
		days(1, domain.ActionHarvest, 0),
		days(4, domain.ActionGrowing, -2),
	)
	_, err := Compile(r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidRecipe))

	var verr *domain.RecipeValidationError
	require.ErrorAs(t, err, &verr)
	msg := err.Error()
	assert.Contains(t, msg, "duplicate sequence order 1")
	assert.Contains(t, msg, "sequence order 2 is missing")
	assert.Contains(t, msg, "negative duration")
	assert.Contains(t, msg, "harvest must be the last step")
}

func TestCompile_EmptyRecipeIsInvalid(t *testing.T) {
	_, err := Compile(recipeOf("r-empty"))
	assert.ErrorIs(t, err, domain.ErrInvalidRecipe)
}

func TestCompile_WateringNeedsFrequency(t *testing.T) {
	r := recipeOf("r-w", watered(days(1, domain.ActionSeed, 1), 0))
	_, err := Compile(r)
	require.ErrorIs(t, err, domain.ErrInvalidRecipe)
	assert.Contains(t, err.Error(), "at least one time per day")
}

// TestCompile_Deterministic compiles random valid recipes twice, once with
// the steps shuffled, and expects identical timelines.
func TestCompile_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	actions := []domain.ActionKind{
		domain.ActionBlackout, domain.ActionGermination, domain.ActionGrowing, domain.ActionOther,
	}

	for trial := 0; trial < 200; trial++ {
		var steps []domain.Step
		order := 1
		if rng.Intn(2) == 0 {
			steps = append(steps, hours(order, domain.ActionSoak, rng.Intn(30)+1))
			order++
		}
		steps = append(steps, days(order, domain.ActionSeed, rng.Intn(2)+1))
		order++
		for n := rng.Intn(4) + 1; n > 0; n-- {
			s := days(order, actions[rng.Intn(len(actions))], rng.Intn(6))
			if rng.Intn(3) == 0 {
				s.Unit = domain.UnitHours
				s.Duration = rng.Intn(72)
			}
			if rng.Intn(2) == 0 {
				s = watered(s, rng.Intn(3)+1)
			}
			steps = append(steps, s)
			order++
		}
		steps = append(steps, days(order, domain.ActionHarvest, 0))

		a, err := Compile(recipeOf("r", steps...))
		require.NoError(t, err)

		shuffled := append([]domain.Step(nil), steps...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		b, err := Compile(recipeOf("r", shuffled...))
		require.NoError(t, err)

		assert.Equal(t, a.Events, b.Events)
		assert.Equal(t, a.TotalDays, b.TotalDays)

		last := a.Events[len(a.Events)-1]
		assert.Equal(t, domain.EventHarvest, last.Kind)
		assert.Equal(t, a.TotalDays, last.DayOffset)
		for i := 1; i < len(a.Events); i++ {
			assert.LessOrEqual(t, a.Events[i-1].DayOffset, a.Events[i].DayOffset)
		}
	}
}
