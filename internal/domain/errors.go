package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRecipe is returned when a recipe's steps cannot be compiled.
	// No tray may be seeded against such a recipe.
	ErrInvalidRecipe = errors.New("invalid recipe")

	// ErrUnknownEvent is returned when a (day offset, kind) pair is not part
	// of the tray's compiled timeline.
	ErrUnknownEvent = errors.New("unknown timeline event")

	// ErrAlreadyResolved is returned when an event or request has already
	// been completed, skipped or cancelled. Callers treat it as a no-op.
	ErrAlreadyResolved = errors.New("already resolved")

	// ErrRecipeNotLinked is returned when a standing order's product has no
	// recipe mapping.
	ErrRecipeNotLinked = errors.New("product has no recipe")

	// ErrNoAllowedSeedingDay is returned when no allowed seeding weekday is
	// found within the planner's lookback.
	ErrNoAllowedSeedingDay = errors.New("no allowed seeding day within lookback")

	// ErrInvalidInput marks caller mistakes such as a missing name or an
	// inverted date window.
	ErrInvalidInput = errors.New("invalid input")

	ErrTrayNotActive       = errors.New("tray is not active")
	ErrYieldRequired       = errors.New("harvest requires a yield")
	ErrHarvestNotSkippable = errors.New("harvest cannot be skipped; mark the tray lost instead")
	ErrInvalidLossReason   = errors.New("invalid loss reason")
)

// RecipeValidationError lists every problem found in a recipe. It matches
// ErrInvalidRecipe with errors.Is.
type RecipeValidationError struct {
	RecipeID string
	Problems []string
}

func (e *RecipeValidationError) Error() string {
	id := e.RecipeID
	if id == "" {
		id = "(new)"
	}
	return fmt.Sprintf("invalid recipe %s: %s", id, strings.Join(e.Problems, "; "))
}

func (e *RecipeValidationError) Unwrap() error { return ErrInvalidRecipe }
