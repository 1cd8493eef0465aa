// file: service/errors.go

package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Failure kinds. Every error returned by this package for a rejected request
// satisfies errors.Is against exactly one of these.
var (
	ErrAuthFailed = errors.New("could not validate credentials")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

var (
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrAuthFailed)
	ErrTokenRevoked       = fmt.Errorf("%w: token revoked", ErrAuthFailed)
	ErrInvalidCredentials = fmt.Errorf("%w: incorrect username or password", ErrAuthFailed)
	ErrOwnershipMismatch  = fmt.Errorf("%w: caller does not own the resource", ErrAuthFailed)

	ErrAccountInactive = fmt.Errorf("%w: account is not active", ErrForbidden)
	ErrNotElevated     = fmt.Errorf("%w: elevated privileges required", ErrForbidden)

	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrBlogNotFound = fmt.Errorf("%w: blog not found", ErrNotFound)
	ErrPostNotFound = fmt.Errorf("%w: post not found", ErrNotFound)

	ErrInvalidID            = fmt.Errorf("%w: invalid identifier", ErrBadRequest)
	ErrPasswordMismatch     = fmt.Errorf("%w: the two passwords did not match", ErrBadRequest)
	ErrWrongCurrentPassword = fmt.Errorf("%w: current password is incorrect", ErrBadRequest)
	ErrEmailTaken           = fmt.Errorf("%w: email already registered", ErrBadRequest)
	ErrUsernameTaken        = fmt.Errorf("%w: username is not available", ErrBadRequest)
	ErrTitleTaken           = fmt.Errorf("%w: title already exists", ErrBadRequest)
)

// ParseID parses a resource identifier taken from a request.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}
