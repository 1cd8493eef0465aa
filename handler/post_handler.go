package handler

import (
	"go-blog-api/common"
	"go-blog-api/model"
	"go-blog-api/service"
	"net/http"
)

type PostHandler struct {
	service *service.PostService
}

func NewPostHandler(s *service.PostService) *PostHandler {
	return &PostHandler{service: s}
}

// ListPosts godoc
// @Summary      List posts across my blogs
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Post
// @Router       /api/posts [get]
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := callerFrom(r)
	if appErr != nil {
		return appErr
	}
	posts, err := h.service.ListForOwner(r.Context(), caller)
	if err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusOK, posts)
	return nil
}

// CreatePost godoc
// @Summary      Create a post in one of my blogs
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        post body model.CreatePostRequest true "Post content"
// @Success      201  {object}  model.Post
// @Failure      400  {object}  common.AppError "Title already used in this blog"
// @Failure      401  {object}  common.AppError "Not the owner of the blog"
// @Router       /api/posts [post]
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := callerFrom(r)
	if appErr != nil {
		return appErr
	}
	var req model.CreatePostRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	post, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusCreated, post)
	return nil
}

// GetPost godoc
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  model.Post
// @Failure      404  {object}  common.AppError
// @Router       /api/posts/{id} [get]
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := callerFrom(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	post, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusOK, post)
	return nil
}

// UpdatePost godoc
// @Summary      Update a post
// @Description  Empty fields are left unchanged.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        post body model.UpdatePostRequest true "Fields to change"
// @Success      200  {object}  model.Post
// @Failure      401  {object}  common.AppError "Not the owner"
// @Router       /api/posts/{id} [patch]
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := callerFrom(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	var req model.UpdatePostRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	post, err := h.service.Update(r.Context(), caller, id, req)
	if err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusOK, post)
	return nil
}

// DeletePost godoc
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      204
// @Failure      401  {object}  common.AppError "Not the owner"
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := callerFrom(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		return mapServiceError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
