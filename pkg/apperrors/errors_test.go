package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesCopies(t *testing.T) {
	cause := errors.New("smtp: 535")
	err := fmt.Errorf("send: %w", ErrEmailDeliveryFailed.WithError(cause))

	assert.ErrorIs(t, err, ErrEmailDeliveryFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrAdminEmailNotConfigured)
}

func TestAppError_WithHeaderDoesNotShareMap(t *testing.T) {
	first := NewRateLimitError(0)
	second := first.WithHeader("X-Test", "1")

	assert.Equal(t, "1", first.Headers["Retry-After"])
	assert.NotContains(t, first.Headers, "X-Test")
	assert.Equal(t, "1", second.Headers["X-Test"])
}

func TestHandleError_UnknownErrorIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, errors.New("db is gone"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Internal server error","code":"INTERNAL_ERROR"}`, rec.Body.String())
}
