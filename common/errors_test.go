package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Send(t *testing.T) {
	t.Run("internal error is not exposed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewAppError(http.StatusInternalServerError, "Internal server error", errors.New("pq: connection refused")).Send(rr)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"code":500,"message":"Internal server error"}`, rr.Body.String())
		assert.NotContains(t, rr.Body.String(), "pq:")
	})

	t.Run("unauthorized sets challenge header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewAppError(http.StatusUnauthorized, "Could not validate credentials", nil).Send(rr)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	})
}

func TestValidateAndDecode(t *testing.T) {
	type payload struct {
		Email string `json:"email" validate:"required,email"`
	}

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"alice@example.com"}`))
		var p payload
		assert.Nil(t, ValidateAndDecode(req, &p))
		assert.Equal(t, "alice@example.com", p.Email)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
		var p payload
		appErr := ValidateAndDecode(req, &p)
		if assert.NotNil(t, appErr) {
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
		}
	})

	t.Run("failed validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"not-an-email"}`))
		var p payload
		appErr := ValidateAndDecode(req, &p)
		if assert.NotNil(t, appErr) {
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
		}
	})
}
