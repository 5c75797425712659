package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/repository"
)

type errorBody struct {
	Error    string   `json:"error"`
	Code     string   `json:"code"`
	Problems []string `json:"problems,omitempty"`
}

// statusFor maps a service error to its HTTP status and a stable code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrUnknownEvent):
		return http.StatusNotFound, "unknown_event"
	case errors.Is(err, domain.ErrAlreadyResolved):
		return http.StatusConflict, "already_resolved"
	case errors.Is(err, domain.ErrTrayNotActive):
		return http.StatusConflict, "tray_not_active"
	case errors.Is(err, domain.ErrInvalidRecipe):
		return http.StatusUnprocessableEntity, "invalid_recipe"
	case errors.Is(err, domain.ErrYieldRequired):
		return http.StatusUnprocessableEntity, "yield_required"
	case errors.Is(err, domain.ErrHarvestNotSkippable):
		return http.StatusUnprocessableEntity, "harvest_not_skippable"
	case errors.Is(err, domain.ErrInvalidLossReason):
		return http.StatusUnprocessableEntity, "invalid_loss_reason"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "invalid_input"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	_ = c.Error(err)
	body := errorBody{Error: err.Error(), Code: code}
	if status == http.StatusInternalServerError {
		body.Error = "internal error"
	}
	var rv *domain.RecipeValidationError
	if errors.As(err, &rv) {
		body.Problems = rv.Problems
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: err.Error(), Code: "bad_request"})
}
