package domain

import (
	"strconv"
	"time"
)

type WaterSpec struct {
	Type        WaterType
	Method      WaterMethod
	TimesPerDay int
}

// Active reports whether the spec asks for any watering at all.
func (w *WaterSpec) Active() bool {
	return w != nil && w.Type != "" && w.Type != WaterNone
}

type Step struct {
	SequenceOrder  int
	Action         ActionKind
	Duration       int
	Unit           DurationUnit
	WeightGrams    *float64
	Water          *WaterSpec
	PostSowWetting WettingMethod
	Notes          string
}

// DayContribution is the number of calendar days the step occupies. Hour
// steps round up to whole days.
func (s Step) DayContribution() int {
	if s.Duration <= 0 {
		return 0
	}
	if s.Unit == UnitHours {
		return (s.Duration + 23) / 24
	}
	return s.Duration
}

// Recipe is an immutable grow template. Changing a recipe creates a new
// version that supersedes it; trays keep pointing at the version they were
// sown with.
type Recipe struct {
	ID           string
	FarmID       string
	Variety      string
	Name         string
	Version      int
	SupersedesID *string
	Steps        []Step
	CreatedAt    time.Time
}

// DisplayName returns "Name v2" style labels.
func (r *Recipe) DisplayName() string {
	if r.Version > 1 {
		return r.Name + " v" + strconv.Itoa(r.Version)
	}
	return r.Name
}
