package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New(ValidationError, "latitude out of range")
	assert.Equal(t, "VALIDATION_ERROR: latitude out of range", err.Error())

	wrapped := Wrap(ExternalAPIError, "weather fetch failed", fmt.Errorf("connection refused"))
	assert.Equal(t, "EXTERNAL_API_ERROR: weather fetch failed (caused by: connection refused)", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewExternalAPIError("weather fetch failed", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, ValidationError, NewValidationError("bad input").Type)
	assert.Equal(t, NotFoundError, NewNotFoundError("missing").Type)
	assert.Equal(t, DatabaseError, NewDatabaseError("query failed", nil).Type)
	assert.Equal(t, ExternalAPIError, NewExternalAPIError("API down", nil).Type)
	assert.Equal(t, NotificationError, NewNotificationError("send failed", nil).Type)
	assert.Equal(t, AgentError, NewAgentError("backend error", nil).Type)
	assert.Equal(t, ConfigurationError, NewConfigurationError("bad config", nil).Type)
	assert.Equal(t, UnavailableError, NewUnavailableError("not connected").Type)
}

func TestTypeCheckHelpers(t *testing.T) {
	assert.True(t, IsNotFoundError(NewNotFoundError("missing")))
	assert.False(t, IsNotFoundError(NewValidationError("bad input")))
	assert.False(t, IsNotFoundError(fmt.Errorf("plain error")))

	assert.True(t, IsValidationError(NewValidationError("bad input")))
	assert.True(t, IsExternalAPIError(NewExternalAPIError("down", nil)))
	assert.True(t, IsUnavailableError(NewUnavailableError("not connected")))
	assert.False(t, IsUnavailableError(nil))
}
