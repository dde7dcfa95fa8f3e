package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	skyerr "skywatch.app/errors"
	"skywatch.app/models"
)

// handleError maps application error types onto HTTP status codes
func (s *Server) handleError(c *gin.Context, err error) {
	var appErr *skyerr.AppError
	var statusCode int
	var message string

	if errors.As(err, &appErr) {
		switch appErr.Type {
		case skyerr.ValidationError:
			statusCode = http.StatusBadRequest
			message = appErr.Message
		case skyerr.NotFoundError:
			statusCode = http.StatusNotFound
			message = appErr.Message
		case skyerr.ExternalAPIError:
			statusCode = http.StatusServiceUnavailable
			message = "External service unavailable"
		case skyerr.UnavailableError:
			statusCode = http.StatusServiceUnavailable
			message = appErr.Message
		case skyerr.NotificationError:
			statusCode = http.StatusServiceUnavailable
			message = "Unable to deliver notification"
		case skyerr.AgentError:
			statusCode = http.StatusBadGateway
			message = "Agent backend error"
		case skyerr.DatabaseError:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		default:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		}
	} else {
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	c.JSON(statusCode, models.ErrorResponse{Error: message})
}
