package handler

import (
	"context"
	"go-blog-api/common"
	"go-blog-api/model"
	"net/http"
	"strings"
)

type contextKey string

const callerKey contextKey = "caller"

// Authenticator resolves the caller behind an access token. *service.AccessGate satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*model.User, *model.AppClaims, error)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware rejects requests without a valid, unrevoked access token and
// stores the caller in the request context.
func AuthMiddleware(gate Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				common.NewAppError(http.StatusUnauthorized, credentialsMessage, nil).Send(w)
				return
			}

			user, _, err := gate.Authenticate(r.Context(), token)
			if err != nil {
				mapServiceError(err).Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// callerFrom returns the authenticated caller stored by AuthMiddleware.
func callerFrom(r *http.Request) (*model.User, *common.AppError) {
	user, ok := r.Context().Value(callerKey).(*model.User)
	if !ok || user == nil {
		return nil, common.NewAppError(http.StatusUnauthorized, credentialsMessage, nil)
	}
	return user, nil
}
