package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/google/uuid"
)

// Convert turns a validated recipe file into recipes for the given farm.
// Call ValidateRecipeFile first; Convert assumes the file is valid.
func Convert(file *RecipeFile, farmID string) []*domain.Recipe {
	now := time.Now().UTC()
	out := make([]*domain.Recipe, 0, len(file.Recipes))
	for _, ri := range file.Recipes {
		r := &domain.Recipe{
			ID:        uuid.New().String(),
			FarmID:    farmID,
			Variety:   strings.TrimSpace(ri.Variety),
			Name:      strings.TrimSpace(ri.Name),
			Version:   1,
			Steps:     make([]domain.Step, 0, len(ri.Steps)),
			CreatedAt: now,
		}
		if r.Variety == "" {
			r.Variety = r.Name
		}
		for i, si := range ri.Steps {
			r.Steps = append(r.Steps, convertStep(i+1, si))
		}
		out = append(out, r)
	}
	return out
}

func convertStep(position int, si StepImport) domain.Step {
	s := domain.Step{
		SequenceOrder:  position,
		Action:         domain.ActionKind(si.Action),
		Duration:       si.Duration,
		Unit:           domain.UnitDays,
		WeightGrams:    si.WeightGrams,
		PostSowWetting: domain.WettingMethod(si.Wetting),
		Notes:          strings.TrimSpace(si.Notes),
	}
	if si.Order != nil {
		s.SequenceOrder = *si.Order
	}
	if si.Unit == string(domain.UnitHours) {
		s.Unit = domain.UnitHours
	}
	if si.Water != nil && si.Water.Type != string(domain.WaterNone) {
		w := &domain.WaterSpec{
			Type:        domain.WaterType(si.Water.Type),
			Method:      domain.WaterMethod(si.Water.Method),
			TimesPerDay: si.Water.TimesPerDay,
		}
		if w.Method == "" {
			w.Method = domain.WaterBottom
		}
		if w.TimesPerDay == 0 {
			w.TimesPerDay = 1
		}
		s.Water = w
	}
	return s
}
