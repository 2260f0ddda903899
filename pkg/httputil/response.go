package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipperline/barbershop-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithError sends an error response, mapping AppError codes onto
// HTTP statuses and hiding internal error details.
func RespondWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := errors.As(err); ok {
		statusCode = appErr.StatusCode()
		message = appErr.Message
	}

	_ = c.Error(err)
	c.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
	})
}

// RespondWithValidationError sends a 400 with the binding error detail.
func RespondWithValidationError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, Response{
		Status:  "error",
		Message: err.Error(),
	})
}
