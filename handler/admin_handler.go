package handler

import (
	"go-blog-api/common"
	"go-blog-api/service"
	"net/http"
)

// AdminHandler serves identity management for elevated callers.
type AdminHandler struct {
	auth *service.AuthService
}

func NewAdminHandler(auth *service.AuthService) *AdminHandler {
	return &AdminHandler{auth: auth}
}

// ListUsers godoc
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.User
// @Failure      403  {object}  common.AppError "Elevated privileges required"
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := callerFrom(r)
	if appErr != nil {
		return appErr
	}
	users, err := h.auth.ListUsers(r.Context(), caller)
	if err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusOK, users)
	return nil
}

// DisableUser godoc
// @Summary      Disable a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Username"
// @Success      200  {object}  model.User
// @Failure      403  {object}  common.AppError "Elevated privileges required"
// @Failure      404  {object}  common.AppError
// @Router       /api/admin/users/{username}/disable [post]
func (h *AdminHandler) DisableUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := callerFrom(r)
	if appErr != nil {
		return appErr
	}
	user, err := h.auth.DisableUser(r.Context(), caller, r.PathValue("username"))
	if err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusOK, user)
	return nil
}
