package handler

import (
	"errors"
	"fmt"
	"go-blog-api/common"
	"go-blog-api/service"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"invalid token", service.ErrInvalidToken, http.StatusUnauthorized, credentialsMessage},
		{"revoked token", service.ErrTokenRevoked, http.StatusUnauthorized, credentialsMessage},
		{"wrong owner", service.ErrOwnershipMismatch, http.StatusUnauthorized, credentialsMessage},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, credentialsMessage},
		{"inactive", service.ErrAccountInactive, http.StatusForbidden, "Account is not active"},
		{"not elevated", service.ErrNotElevated, http.StatusForbidden, "Elevated privileges required"},
		{"bare forbidden", service.ErrForbidden, http.StatusForbidden, "Forbidden"},
		{"missing blog", service.ErrBlogNotFound, http.StatusNotFound, "Blog not found"},
		{"title taken", service.ErrTitleTaken, http.StatusBadRequest, "Title already exists"},
		{"invalid id", service.ErrInvalidID, http.StatusBadRequest, "Invalid identifier"},
		{"infrastructure", fmt.Errorf("revocation lookup failed: %w", errors.New("dial tcp")), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := mapServiceError(tt.err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestErrorHandlingMiddleware(t *testing.T) {
	t.Run("error is written as JSON", func(t *testing.T) {
		h := ErrorHandlingMiddleware(func(w http.ResponseWriter, r *http.Request) *common.AppError {
			return mapServiceError(service.ErrTokenRevoked)
		})
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
		assert.JSONEq(t, `{"code":401,"message":"Could not validate credentials"}`, rr.Body.String())
	})

	t.Run("internal details stay private", func(t *testing.T) {
		h := ErrorHandlingMiddleware(func(w http.ResponseWriter, r *http.Request) *common.AppError {
			return mapServiceError(errors.New("pq: connection refused"))
		})
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "pq")
	})

	t.Run("success passes through", func(t *testing.T) {
		h := ErrorHandlingMiddleware(func(w http.ResponseWriter, r *http.Request) *common.AppError {
			w.WriteHeader(http.StatusNoContent)
			return nil
		})
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest(http.MethodDelete, "/", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}
