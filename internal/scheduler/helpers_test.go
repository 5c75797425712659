package scheduler

import (
	"time"

	"github.com/alexanderramin/trayflow/internal/domain"
)

func days(order int, action domain.ActionKind, n int) domain.Step {
	return domain.Step{SequenceOrder: order, Action: action, Duration: n, Unit: domain.UnitDays}
}

func hours(order int, action domain.ActionKind, n int) domain.Step {
	return domain.Step{SequenceOrder: order, Action: action, Duration: n, Unit: domain.UnitHours}
}

func watered(s domain.Step, times int) domain.Step {
	s.Water = &domain.WaterSpec{Type: domain.WaterPlain, Method: domain.WaterBottom, TimesPerDay: times}
	return s
}

func recipeOf(id string, steps ...domain.Step) *domain.Recipe {
	return &domain.Recipe{ID: id, Name: "Recipe " + id, Variety: "radish", Version: 1, Steps: steps}
}

// basilRecipe is seed 1d, blackout 3d, growing 4d, harvest: harvest lands on day 8.
func basilRecipe() *domain.Recipe {
	return recipeOf("r-basic",
		days(1, domain.ActionSeed, 1),
		days(2, domain.ActionBlackout, 3),
		days(3, domain.ActionGrowing, 4),
		days(4, domain.ActionHarvest, 0),
	)
}

func mustCompile(r *domain.Recipe) *Timeline {
	tl, err := Compile(r)
	if err != nil {
		panic(err)
	}
	return tl
}

func activeTray(id, recipeID string, sow time.Time) *domain.Tray {
	return &domain.Tray{ID: id, RecipeID: recipeID, SowDate: sow, LossState: domain.TrayActive}
}

func strPtr(s string) *string { return &s }
