package handler

import (
	"go-blog-api/common"
	"go-blog-api/model"
	"go-blog-api/service"
	"net/http"
	"strings"
	"time"
)

const refreshCookieName = "refresh"

// AuthHandler exposes registration, login and the token lifecycle.
type AuthHandler struct {
	auth         *service.AuthService
	secureCookie bool
}

func NewAuthHandler(auth *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie}
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token model.SignedToken) {
	expires := token.Claims.ExpiresAt.Time
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token.Token,
		Path:     "/api/auth",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an inactive account and emails a verification link.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user body model.RegisterRequest true "Registration details"
// @Success      201  {object}  model.User
// @Failure      400  {object}  common.AppError "Validation failed, passwords differ, or username/email taken"
// @Failure      500  {object}  common.AppError
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(r.Context(), req)
	if err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusCreated, user)
	return nil
}

// Verify godoc
// @Summary      Verify an email address
// @Tags         auth
// @Produce      json
// @Param        token query string true "Verification token from the email"
// @Success      200  {object}  model.MessageResponse
// @Failure      401  {object}  common.AppError "Invalid, expired or already used token"
// @Router       /api/auth/verify [get]
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := h.auth.VerifyEmail(r.Context(), r.URL.Query().Get("token")); err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusOK, model.MessageResponse{Msg: "Successfully activated"})
	return nil
}

// decodeLogin accepts an OAuth2 password form or a JSON body.
func decodeLogin(r *http.Request) (model.LoginRequest, *common.AppError) {
	var req model.LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return req, common.NewAppError(http.StatusBadRequest, "Invalid request body", nil)
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
		return req, common.Validate(&req)
	}
	return req, common.ValidateAndDecode(r, &req)
}

// Login godoc
// @Summary      Log in
// @Description  Returns an access token and sets the refresh token as an HTTP-only cookie.
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        credentials body model.LoginRequest true "Username and password"
// @Success      200  {object}  model.AccessTokenResponse
// @Failure      401  {object}  common.AppError "Incorrect username or password"
// @Failure      403  {object}  common.AppError "Account not active"
// @Failure      429  {object}  common.AppError "Too many attempts"
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	req, appErr := decodeLogin(r)
	if appErr != nil {
		return appErr
	}

	pair, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return mapServiceError(err)
	}
	h.setRefreshCookie(w, pair.Refresh)
	common.WriteJSON(w, http.StatusOK, model.AccessTokenResponse{Token: pair.Access.Token})
	return nil
}

// Refresh godoc
// @Summary      Refresh the access token
// @Description  Mints a new access token from the refresh cookie.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.AccessTokenResponse
// @Failure      400  {object}  common.AppError "Refresh cookie missing"
// @Failure      401  {object}  common.AppError "Invalid, expired or revoked refresh token"
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return common.NewAppError(http.StatusBadRequest, "Refresh token required", nil)
	}

	access, err := h.auth.Refresh(r.Context(), cookie.Value)
	if err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusOK, model.AccessTokenResponse{Token: access.Token})
	return nil
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the access token and the refresh token issued with it.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.MessageResponse
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	token, ok := bearerToken(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, credentialsMessage, nil)
	}
	if err := h.auth.Logout(r.Context(), token); err != nil {
		return mapServiceError(err)
	}
	h.clearRefreshCookie(w)
	common.WriteJSON(w, http.StatusOK, model.MessageResponse{Msg: "Successfully logged out"})
	return nil
}

// ForgotPassword godoc
// @Summary      Request a password reset email
// @Description  Always answers with the same message, whether or not the email is registered.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.ForgotPasswordRequest true "Account email"
// @Success      200  {object}  model.MessageResponse
// @Failure      429  {object}  common.AppError "Too many attempts"
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ForgotPasswordRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	if err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusOK, model.MessageResponse{
		Msg: "If the email is registered, a reset link has been sent",
	})
	return nil
}

// PasswordReset godoc
// @Summary      Reset a forgotten password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token query string true "Reset token from the email"
// @Param        request body model.PasswordResetRequest true "New password"
// @Success      200  {object}  model.MessageResponse
// @Failure      400  {object}  common.AppError "Passwords differ"
// @Failure      401  {object}  common.AppError "Invalid, expired or already used token"
// @Router       /api/auth/password-reset [post]
func (h *AuthHandler) PasswordReset(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.PasswordResetRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(r.Context(), r.URL.Query().Get("token"), req); err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusOK, model.MessageResponse{Msg: "Password successfully reset"})
	return nil
}

// PasswordUpdate godoc
// @Summary      Change the password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.PasswordUpdateRequest true "Current and new password"
// @Success      200  {object}  model.MessageResponse
// @Failure      400  {object}  common.AppError "Wrong current password or passwords differ"
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/password-update [post]
func (h *AuthHandler) PasswordUpdate(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := callerFrom(r)
	if appErr != nil {
		return appErr
	}
	var req model.PasswordUpdateRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	if err := h.auth.UpdatePassword(r.Context(), caller, req); err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusOK, model.MessageResponse{Msg: "Password successfully updated"})
	return nil
}
