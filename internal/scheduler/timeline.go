package scheduler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/trayflow/internal/domain"
)

// TimelineEvent is one scheduled action, DayOffset days after sowing.
// Pre-sow events (soaking) have negative offsets.
type TimelineEvent struct {
	DayOffset   int
	Kind        domain.EventKind
	StepOrder   int
	Water       *domain.WaterSpec
	WeightGrams *float64
	Label       string
}

// Key returns the (day offset, kind) pair that identifies the event.
func (e TimelineEvent) Key() domain.EventKey {
	return domain.EventKey{DayOffset: e.DayOffset, Kind: e.Kind}
}

// Timeline is the compiled form of a recipe.
type Timeline struct {
	RecipeID string
	Events   []TimelineEvent
	// TotalDays is the harvest offset: days from sowing until ready.
	TotalDays int
	// PreSowDays is how many days before sowing the first pre-sow step starts.
	PreSowDays int
	// HasGrowing is set when the recipe has a growing phase; LastGrowingDay is
	// then the offset of its final day.
	HasGrowing     bool
	LastGrowingDay int

	index map[domain.EventKey]int
}

// Lookup returns the event with the given key.
func (t *Timeline) Lookup(key domain.EventKey) (TimelineEvent, bool) {
	i, ok := t.index[key]
	if !ok {
		return TimelineEvent{}, false
	}
	return t.Events[i], true
}

// SoakOffset returns the offset of the earliest pre-sow soak event.
func (t *Timeline) SoakOffset() (int, bool) {
	for _, e := range t.Events {
		if e.Kind == domain.EventSoak && e.DayOffset <= 0 {
			return e.DayOffset, true
		}
	}
	return 0, false
}

// SowResolved lists the events that are settled by the act of sowing: every
// pre-sow event and the seed event itself.
func (t *Timeline) SowResolved() []TimelineEvent {
	var out []TimelineEvent
	for _, e := range t.Events {
		if e.DayOffset < 0 || (e.DayOffset == 0 && (e.Kind == domain.EventSeed || e.Kind == domain.EventSoak)) {
			out = append(out, e)
		}
	}
	return out
}

// ValidateRecipe returns every structural problem of the recipe's steps.
func ValidateRecipe(r *domain.Recipe) []string {
	var problems []string
	if len(r.Steps) == 0 {
		return []string{"recipe has no steps"}
	}

	seen := make(map[int]bool, len(r.Steps))
	for _, s := range r.Steps {
		if seen[s.SequenceOrder] {
			problems = append(problems, fmt.Sprintf("duplicate sequence order %d", s.SequenceOrder))
		}
		seen[s.SequenceOrder] = true
	}
	for i := 1; i <= len(r.Steps); i++ {
		if !seen[i] {
			problems = append(problems, fmt.Sprintf("sequence order %d is missing (orders must be 1..%d)", i, len(r.Steps)))
		}
	}

	ordered := sortedSteps(r.Steps)
	for i, s := range ordered {
		if !domain.ValidActionKinds[string(s.Action)] {
			problems = append(problems, fmt.Sprintf("step %d: unknown action %q", s.SequenceOrder, s.Action))
		}
		if s.Duration < 0 {
			problems = append(problems, fmt.Sprintf("step %d: negative duration %d", s.SequenceOrder, s.Duration))
		}
		if s.Unit != domain.UnitDays && s.Unit != domain.UnitHours {
			problems = append(problems, fmt.Sprintf("step %d: unknown duration unit %q", s.SequenceOrder, s.Unit))
		}
		if s.Action == domain.ActionHarvest && i != len(ordered)-1 {
			problems = append(problems, fmt.Sprintf("step %d: harvest must be the last step", s.SequenceOrder))
		}
		if s.Water.Active() {
			if s.Water.TimesPerDay < 1 {
				problems = append(problems, fmt.Sprintf("step %d: watering needs at least one time per day", s.SequenceOrder))
			}
			if s.Water.Method != domain.WaterTop && s.Water.Method != domain.WaterBottom {
				problems = append(problems, fmt.Sprintf("step %d: unknown watering method %q", s.SequenceOrder, s.Water.Method))
			}
			if s.Water.Type != domain.WaterPlain && s.Water.Type != domain.WaterNutrients {
				problems = append(problems, fmt.Sprintf("step %d: unknown water type %q", s.SequenceOrder, s.Water.Type))
			}
		}
		if s.WeightGrams != nil && *s.WeightGrams < 0 {
			problems = append(problems, fmt.Sprintf("step %d: negative weight", s.SequenceOrder))
		}
	}
	return problems
}

// Compile turns a recipe into its timeline. It is pure: the same recipe
// always yields the same events in the same order.
//
// Offset 0 is the first seed step (or the first step when the recipe has no
// seed step). Hour-unit steps occupy ceil(hours/24) days.
func Compile(r *domain.Recipe) (*Timeline, error) {
	if problems := ValidateRecipe(r); len(problems) > 0 {
		return nil, &domain.RecipeValidationError{RecipeID: r.ID, Problems: problems}
	}

	steps := sortedSteps(r.Steps)
	anchor := 0
	for i, s := range steps {
		if s.Action == domain.ActionSeed {
			anchor = i
			break
		}
	}

	starts := make([]int, len(steps))
	preSow := 0
	for i := 0; i < anchor; i++ {
		preSow += steps[i].DayContribution()
	}
	// Pre-sow steps run back to back and finish on the sow date.
	offset := -preSow
	for i := 0; i < anchor; i++ {
		starts[i] = offset
		offset += steps[i].DayContribution()
	}
	offset = 0
	for i := anchor; i < len(steps); i++ {
		starts[i] = offset
		if steps[i].Action != domain.ActionHarvest {
			offset += steps[i].DayContribution()
		}
	}

	tl := &Timeline{RecipeID: r.ID, TotalDays: offset, PreSowDays: preSow}
	var events []TimelineEvent
	wetted := false
	hasHarvest := false

	for i, s := range steps {
		start := starts[i]
		switch s.Action {
		case domain.ActionHarvest:
			hasHarvest = true
			events = append(events, TimelineEvent{
				DayOffset: tl.TotalDays, Kind: domain.EventHarvest, StepOrder: s.SequenceOrder,
				WeightGrams: s.WeightGrams, Label: stepLabel(s, "harvest"),
			})
			continue
		case domain.ActionGrowing:
			if span := s.DayContribution(); span > 0 {
				last := start + span - 1
				if !tl.HasGrowing || last > tl.LastGrowingDay {
					tl.LastGrowingDay = last
				}
			} else if !tl.HasGrowing {
				tl.LastGrowingDay = start
			}
			tl.HasGrowing = true
		}

		kind := startKind(s.Action)
		events = append(events, TimelineEvent{
			DayOffset: start, Kind: kind, StepOrder: s.SequenceOrder,
			Water: s.Water, WeightGrams: s.WeightGrams, Label: stepLabel(s, string(kind)),
		})

		if s.Action == domain.ActionSeed && !wetted && s.PostSowWetting != domain.WettingNone {
			wetted = true
			events = append(events, TimelineEvent{
				DayOffset: start, Kind: domain.EventWetSeeds, StepOrder: s.SequenceOrder,
				Label: string(s.PostSowWetting) + " seeds after sowing",
			})
		}

		if s.Water.Active() {
			for d := 0; d < s.DayContribution(); d++ {
				events = append(events, TimelineEvent{
					DayOffset: start + d, Kind: domain.EventWater, StepOrder: s.SequenceOrder,
					Water: s.Water, Label: waterLabel(s.Water),
				})
			}
		}
	}

	if !hasHarvest {
		events = append(events, TimelineEvent{
			DayOffset: tl.TotalDays, Kind: domain.EventHarvest, StepOrder: len(steps) + 1, Label: "harvest",
		})
	}

	tl.Events = mergeEvents(events)
	tl.index = make(map[domain.EventKey]int, len(tl.Events))
	for i, e := range tl.Events {
		tl.index[e.Key()] = i
	}
	return tl, nil
}

func sortedSteps(steps []domain.Step) []domain.Step {
	out := make([]domain.Step, len(steps))
	copy(out, steps)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SequenceOrder < out[j].SequenceOrder })
	return out
}

func startKind(a domain.ActionKind) domain.EventKind {
	switch a {
	case domain.ActionSeed:
		return domain.EventSeed
	case domain.ActionSoak:
		return domain.EventSoak
	case domain.ActionBlackout:
		return domain.EventBlackout
	case domain.ActionGermination:
		return domain.EventGermination
	case domain.ActionGrowing:
		return domain.EventUncover
	case domain.ActionHarvest:
		return domain.EventHarvest
	default:
		return domain.EventMaintenance
	}
}

func stepLabel(s domain.Step, fallback string) string {
	if strings.TrimSpace(s.Notes) != "" {
		return s.Notes
	}
	return fallback
}

func waterLabel(w *domain.WaterSpec) string {
	what := "water"
	if w.Type == domain.WaterNutrients {
		what = "nutrients"
	}
	return fmt.Sprintf("%s from %s, %dx", what, w.Method, w.TimesPerDay)
}

// mergeEvents sorts events and collapses duplicates of the same (offset,
// kind) pair so that the pair is a unique key. The first event wins and
// later labels are appended.
func mergeEvents(events []TimelineEvent) []TimelineEvent {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.DayOffset != b.DayOffset {
			return a.DayOffset < b.DayOffset
		}
		if a.StepOrder != b.StepOrder {
			return a.StepOrder < b.StepOrder
		}
		return a.Kind.Rank() < b.Kind.Rank()
	})

	out := make([]TimelineEvent, 0, len(events))
	pos := make(map[domain.EventKey]int, len(events))
	for _, e := range events {
		if i, ok := pos[e.Key()]; ok {
			if e.Label != "" && e.Label != out[i].Label {
				out[i].Label += "; " + e.Label
			}
			continue
		}
		pos[e.Key()] = len(out)
		out = append(out, e)
	}
	return out
}
