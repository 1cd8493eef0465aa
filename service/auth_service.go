// file: service/auth_service.go

package service

import (
	"context"
	"errors"
	"go-blog-api/logger"
	"go-blog-api/model"
	"go-blog-api/repository"
	"time"

	"github.com/sirupsen/logrus"
)

// AuthService implements registration, login and the token lifecycle on top of
// the token service, the credential store and the user record store.
type AuthService struct {
	users   repository.IUserRepository
	tokens  *TokenService
	ledger  RevocationLedger
	hasher  *PasswordHasher
	mailer  MailDispatcher
	gate    *AccessGate
	mailTTL time.Duration

	// Compared against when the username is unknown so both paths cost one bcrypt run.
	dummyHash string
}

func NewAuthService(
	users repository.IUserRepository,
	tokens *TokenService,
	ledger RevocationLedger,
	hasher *PasswordHasher,
	mailer MailDispatcher,
	gate *AccessGate,
	mailTTL time.Duration,
) *AuthService {
	dummy, _ := hasher.HashPassword("not-a-real-password")
	return &AuthService{
		users:     users,
		tokens:    tokens,
		ledger:    ledger,
		hasher:    hasher,
		mailer:    mailer,
		gate:      gate,
		mailTTL:   mailTTL,
		dummyHash: dummy,
	}
}

// Register creates an inactive identity and dispatches a verification email.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"username": req.Username,
		"email":    req.Email,
	})

	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	existing, err = s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	log.Info("User registered, awaiting email verification")

	token, err := s.tokens.IssueSinglePurpose(user, model.PurposeVerifyEmail, s.mailTTL)
	if err != nil {
		return nil, err
	}
	s.mailer.Dispatch(model.MailTask{
		Recipient: user.Email,
		Username:  user.Username,
		Kind:      model.MailVerify,
		Token:     token.Token,
	})
	return user, nil
}

// VerifyEmail redeems a verification token and activates its identity.
// The token is revoked first so the link works at most once, and identities
// disabled by an administrator stay disabled.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(ctx, token, model.PurposeVerifyEmail)
	if err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.ledger.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}

	log := logger.Log.WithField("username", user.Username)
	if user.IsDisabled {
		log.Warn("Verification link redeemed for a disabled account")
		return ErrAccountInactive
	}
	active := true
	if _, err := s.users.Patch(ctx, user.Username, model.UserPatch{IsActive: &active}); err != nil {
		return err
	}
	log.Info("User activated")
	return nil
}

// Login checks credentials and issues a token pair for an active identity.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.TokenPair, error) {
	log := logger.Log.WithField("username", username)

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.hasher.CheckPasswordHash(password, s.dummyHash)
		log.Warn("Login failed")
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.CheckPasswordHash(password, user.Password) {
		log.Warn("Login failed")
		return nil, ErrInvalidCredentials
	}
	if err := s.gate.RequireActive(user); err != nil {
		log.Warn("Login refused for inactive account")
		return nil, err
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}
	log.WithField("token_id", pair.Access.Claims.ID).Info("User logged in")
	return pair, nil
}

// Refresh mints a new access token from a refresh token that is valid and
// not revoked. Logging out revokes the refresh token of the same pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.SignedToken, error) {
	claims, err := s.tokens.Verify(ctx, refreshToken, model.PurposeRefresh)
	if err != nil {
		return model.SignedToken{}, err
	}
	return s.tokens.Reissue(claims)
}

// Logout revokes the token identifier of a valid access token. The ledger
// entry outlives the refresh token that shares the identifier.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tokens.Verify(ctx, accessToken, model.PurposeAccess)
	if err != nil {
		return err
	}

	expiresAt := claims.ExpiresAt.Time
	if pairEnd := claims.IssuedAt.Add(s.tokens.RefreshTTL()); pairEnd.After(expiresAt) {
		expiresAt = pairEnd
	}
	if err := s.ledger.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return err
	}
	logger.Log.WithFields(logrus.Fields{
		"username": claims.Subject,
		"token_id": claims.ID,
	}).Info("User logged out")
	return nil
}

// ForgotPassword dispatches a reset link when the email is registered and
// otherwise does nothing, so the response never reveals which emails exist.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	token, err := s.tokens.IssueSinglePurpose(user, model.PurposePasswordReset, s.mailTTL)
	if err != nil {
		return err
	}
	s.mailer.Dispatch(model.MailTask{
		Recipient: user.Email,
		Username:  user.Username,
		Kind:      model.MailPasswordReset,
		Token:     token.Token,
	})
	return nil
}

// ResetPassword redeems a reset token. The token is single use.
func (s *AuthService) ResetPassword(ctx context.Context, token string, req model.PasswordResetRequest) error {
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	claims, err := s.tokens.Verify(ctx, token, model.PurposePasswordReset)
	if err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.ledger.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	if err := s.setPassword(ctx, user.Username, req.Password); err != nil {
		return err
	}
	logger.Log.WithField("username", user.Username).Info("Password reset")
	return nil
}

// UpdatePassword changes the password of an authenticated caller who proves
// knowledge of the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, caller *model.User, req model.PasswordUpdateRequest) error {
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if !s.hasher.CheckPasswordHash(req.OldPassword, caller.Password) {
		logger.Log.WithField("username", caller.Username).Warn("Password update with wrong current password")
		return ErrWrongCurrentPassword
	}
	if err := s.setPassword(ctx, caller.Username, req.Password); err != nil {
		return err
	}
	logger.Log.WithField("username", caller.Username).Info("Password updated")
	return nil
}

func (s *AuthService) setPassword(ctx context.Context, username, password string) error {
	hashed, err := s.hasher.HashPassword(password)
	if err != nil {
		return err
	}
	updated, err := s.users.Patch(ctx, username, model.UserPatch{Password: &hashed})
	if err != nil {
		return err
	}
	if updated == nil {
		return ErrUserNotFound
	}
	return nil
}

// ListUsers returns every identity. Elevated callers only.
func (s *AuthService) ListUsers(ctx context.Context, caller *model.User) ([]*model.User, error) {
	if err := s.gate.RequireElevated(caller); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// DisableUser deactivates an identity. Elevated callers only.
func (s *AuthService) DisableUser(ctx context.Context, caller *model.User, username string) (*model.User, error) {
	if err := s.gate.RequireElevated(caller); err != nil {
		return nil, err
	}
	user, err := s.users.Disable(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	logger.Log.WithFields(logrus.Fields{
		"username":    username,
		"disabled_by": caller.Username,
	}).Info("User disabled")
	return user, nil
}
