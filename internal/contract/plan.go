package contract

import "github.com/alexanderramin/trayflow/internal/app"

type PlanRequest = app.PlanRequest

type PlanSlot = app.PlanSlot

type PlanTopUp = app.PlanTopUp

type PlanFailureCode = app.PlanFailureCode

const (
	PlanErrRecipeNotLinked     PlanFailureCode = app.PlanErrRecipeNotLinked
	PlanErrNoAllowedSeedingDay PlanFailureCode = app.PlanErrNoAllowedSeedingDay
	PlanErrInvalidRecipe       PlanFailureCode = app.PlanErrInvalidRecipe
)

type PlanFailure = app.PlanFailure

type PlanResponse = app.PlanResponse
