package handlers

import (
	"errors"
	"net/http"

	"github.com/fundloop/fundloop/backend/internal/services"
	"github.com/fundloop/fundloop/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// handleServiceError maps the service error taxonomy onto HTTP responses.
// Messages pass through unchanged; they are written to be user-facing.
func handleServiceError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		invariantErr  *services.InvariantViolationError
		expiredErr    *services.ExpiredError
		exhaustedErr  *services.ExhaustedError
		batchErr      *services.BatchValidationError
	)

	switch {
	case errors.As(err, &batchErr):
		c.JSON(http.StatusBadRequest, response.Response{
			Code:    400,
			Message: batchErr.Error(),
			Data:    gin.H{"rows": batchErr.Rows},
		})
	case errors.As(err, &validationErr):
		response.BadRequest(c, validationErr.Message)
	case errors.As(err, &notFoundErr):
		response.NotFound(c, notFoundErr.Message)
	case errors.As(err, &invariantErr):
		response.Conflict(c, invariantErr.Message)
	case errors.As(err, &expiredErr):
		response.Gone(c, expiredErr.Message)
	case errors.As(err, &exhaustedErr):
		response.Conflict(c, exhaustedErr.Message)
	default:
		response.ServerError(c, err.Error())
	}
}
