package importer

import (
	"fmt"

	"github.com/alexanderramin/trayflow/internal/domain"
)

var (
	validUnits       = map[string]bool{"": true, "days": true, "hours": true}
	validWaterTypes  = map[string]bool{"none": true, "water": true, "nutrients": true}
	validWaterMethod = map[string]bool{"": true, "top": true, "bottom": true}
	validWetting     = map[string]bool{"": true, "mist": true, "water": true}
)

// ValidateRecipeFile checks field spelling and value ranges before
// conversion. It returns every problem found. Structural rules such as
// step ordering and harvest placement are checked by the timeline compiler
// when the recipe is saved.
func ValidateRecipeFile(file *RecipeFile) []error {
	var errs []error
	if len(file.Recipes) == 0 {
		errs = append(errs, fmt.Errorf("recipes: at least one recipe is required"))
	}
	names := make(map[string]bool)
	for i, r := range file.Recipes {
		prefix := fmt.Sprintf("recipes[%d]", i)
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if names[r.Name] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate recipe %q", prefix, r.Name))
		}
		names[r.Name] = true
		if len(r.Steps) == 0 {
			errs = append(errs, fmt.Errorf("%s.steps: at least one step is required", prefix))
		}
		for j, s := range r.Steps {
			errs = append(errs, validateStep(fmt.Sprintf("%s.steps[%d]", prefix, j), s)...)
		}
	}
	return errs
}

func validateStep(prefix string, s StepImport) []error {
	var errs []error
	if !domain.ValidActionKinds[s.Action] {
		errs = append(errs, fmt.Errorf("%s.action: invalid value %q", prefix, s.Action))
	}
	if !validUnits[s.Unit] {
		errs = append(errs, fmt.Errorf("%s.unit: invalid value %q (expected days or hours)", prefix, s.Unit))
	}
	if s.Duration < 0 {
		errs = append(errs, fmt.Errorf("%s.duration: must not be negative", prefix))
	}
	if s.Order != nil && *s.Order < 1 {
		errs = append(errs, fmt.Errorf("%s.order: must be at least 1", prefix))
	}
	if s.WeightGrams != nil && *s.WeightGrams < 0 {
		errs = append(errs, fmt.Errorf("%s.weight_grams: must not be negative", prefix))
	}
	if !validWetting[s.Wetting] {
		errs = append(errs, fmt.Errorf("%s.wetting: invalid value %q", prefix, s.Wetting))
	}
	if s.Water != nil {
		if !validWaterTypes[s.Water.Type] {
			errs = append(errs, fmt.Errorf("%s.water.type: invalid value %q", prefix, s.Water.Type))
		}
		if !validWaterMethod[s.Water.Method] {
			errs = append(errs, fmt.Errorf("%s.water.method: invalid value %q", prefix, s.Water.Method))
		}
		if s.Water.TimesPerDay < 0 {
			errs = append(errs, fmt.Errorf("%s.water.times_per_day: must not be negative", prefix))
		}
	}
	return errs
}
