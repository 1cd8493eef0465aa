package handler

import (
	"errors"
	"go-blog-api/common"
	"go-blog-api/service"
	"net/http"
	"strings"
)

// AppHandler is an http handler that reports failures as an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *common.AppError

func ErrorHandlingMiddleware(next AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

const credentialsMessage = "Could not validate credentials"

// mapServiceError turns a service error into the response the client sees.
// Every authentication failure gets the same message.
func mapServiceError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrAuthFailed):
		return common.NewAppError(http.StatusUnauthorized, credentialsMessage, err)
	case errors.Is(err, service.ErrForbidden):
		return common.NewAppError(http.StatusForbidden, publicMessage(err, service.ErrForbidden), err)
	case errors.Is(err, service.ErrNotFound):
		return common.NewAppError(http.StatusNotFound, publicMessage(err, service.ErrNotFound), err)
	case errors.Is(err, service.ErrBadRequest):
		return common.NewAppError(http.StatusBadRequest, publicMessage(err, service.ErrBadRequest), err)
	default:
		return common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
}

// publicMessage strips the "<kind>: " prefix from a refined error.
func publicMessage(err, kind error) string {
	msg := strings.TrimPrefix(err.Error(), kind.Error()+": ")
	if msg == "" {
		return kind.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
