// file: service/token_service.go

package service

import (
	"context"
	"errors"
	"fmt"
	"go-blog-api/config"
	"go-blog-api/logger"
	"go-blog-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ClaimOption adds a caller-supplied claim to issued tokens.
type ClaimOption func(extra map[string]string)

// WithClaim sets an extra string claim.
func WithClaim(key, value string) ClaimOption {
	return func(extra map[string]string) { extra[key] = value }
}

// TokenService issues and verifies signed tokens. Signing is pure CPU work;
// the only I/O is the revocation lookup during Verify.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	ledger     RevocationLedger
	now        func() time.Time
}

// NewTokenService builds a TokenService from an immutable JWT configuration.
func NewTokenService(cfg config.JWTConfig, ledger RevocationLedger) (*TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("token service: empty signing secret")
	}
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token service: unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.AccessTTL < time.Second || cfg.RefreshTTL < time.Second {
		return nil, errors.New("token service: token lifetimes must be at least one second")
	}
	if cfg.RefreshTTL <= cfg.AccessTTL {
		return nil, errors.New("token service: refresh lifetime must exceed access lifetime")
	}
	if ledger == nil {
		return nil, errors.New("token service: revocation ledger is required")
	}
	return &TokenService{
		secret:     []byte(cfg.SecretKey),
		method:     method,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		ledger:     ledger,
		now:        time.Now,
	}, nil
}

// WithClock replaces the time source. Intended for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// RefreshTTL is the lifetime of refresh tokens; the refresh cookie uses it too.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *TokenService) sign(claims *model.AppClaims) (model.SignedToken, error) {
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		logger.Log.WithError(err).WithField("subject", claims.Subject).Error("Failed to sign JWT")
		return model.SignedToken{}, fmt.Errorf("failed to sign token string: %w", err)
	}
	return model.SignedToken{Token: signed, Claims: claims}, nil
}

func newClaims(subject, tokenID string, purpose model.TokenPurpose, issuedAt time.Time, ttl time.Duration, extra map[string]string) *model.AppClaims {
	return &model.AppClaims{
		Version: model.ClaimsVersion,
		Purpose: purpose,
		Extra:   extra,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
}

func collectExtra(opts []ClaimOption) map[string]string {
	if len(opts) == 0 {
		return nil
	}
	extra := make(map[string]string, len(opts))
	for _, opt := range opts {
		opt(extra)
	}
	return extra
}

// IssuePair signs an access and a refresh token for user. Both carry the
// username as subject and share one fresh token identifier.
func (s *TokenService) IssuePair(user *model.User, opts ...ClaimOption) (*model.TokenPair, error) {
	now := s.now()
	tokenID := uuid.NewString()
	extra := collectExtra(opts)

	access, err := s.sign(newClaims(user.Username, tokenID, model.PurposeAccess, now, s.accessTTL, extra))
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(newClaims(user.Username, tokenID, model.PurposeRefresh, now, s.refreshTTL, extra))
	if err != nil {
		return nil, err
	}
	return &model.TokenPair{Access: access, Refresh: refresh}, nil
}

// IssueSinglePurpose signs a token addressed to the user's email, used for
// email verification and password reset links.
func (s *TokenService) IssueSinglePurpose(user *model.User, purpose model.TokenPurpose, ttl time.Duration) (model.SignedToken, error) {
	if ttl < time.Second {
		return model.SignedToken{}, errors.New("token lifetime must be at least one second")
	}
	return s.sign(newClaims(user.Email, uuid.NewString(), purpose, s.now(), ttl, nil))
}

// Reissue mints a fresh access token from verified refresh claims, keeping
// subject, token identifier and extra claims. The new token never outlives
// the refresh token it came from.
func (s *TokenService) Reissue(refresh *model.AppClaims) (model.SignedToken, error) {
	now := s.now()
	ttl := s.accessTTL
	if refresh.ExpiresAt != nil {
		if remaining := refresh.ExpiresAt.Sub(now); remaining < ttl {
			ttl = remaining
		}
	}
	if ttl <= 0 {
		return model.SignedToken{}, ErrInvalidToken
	}
	return s.sign(newClaims(refresh.Subject, refresh.ID, model.PurposeAccess, now, ttl, refresh.Extra))
}

// Verify checks signature, algorithm, expiry, claim layout and purpose, then
// consults the revocation ledger. Every token problem is reported as
// ErrInvalidToken or ErrTokenRevoked, both of which are ErrAuthFailed.
func (s *TokenService) Verify(ctx context.Context, tokenString string, purpose model.TokenPurpose) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		logger.Log.WithError(err).Debug("Token rejected during parsing")
		return nil, ErrInvalidToken
	}
	if !wellFormed(claims) || claims.Purpose != purpose {
		logger.Log.WithFields(logrus.Fields{
			"token_id": claims.ID,
			"purpose":  claims.Purpose,
			"expected": purpose,
		}).Debug("Token rejected for malformed claims or wrong purpose")
		return nil, ErrInvalidToken
	}

	revoked, err := s.ledger.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("revocation lookup failed: %w", err)
	}
	if revoked {
		logger.Log.WithField("token_id", claims.ID).Info("Rejected revoked token")
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func wellFormed(c *model.AppClaims) bool {
	return c.Version == model.ClaimsVersion &&
		c.Subject != "" &&
		c.ID != "" &&
		c.IssuedAt != nil &&
		c.ExpiresAt != nil &&
		c.ExpiresAt.After(c.IssuedAt.Time)
}
