package handler

import (
	"go-blog-api/common"
	"go-blog-api/logger"
	"go-blog-api/model"
	"go-blog-api/service"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BlogHandler struct {
	service *service.BlogService
}

func NewBlogHandler(s *service.BlogService) *BlogHandler {
	return &BlogHandler{service: s}
}

// pathID parses the {id} wildcard of the matched route.
func pathID(r *http.Request) (uuid.UUID, *common.AppError) {
	id, err := service.ParseID(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, mapServiceError(err)
	}
	return id, nil
}

// ListBlogs godoc
// @Summary      List my blogs
// @Tags         blogs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Blog
// @Failure      401  {object}  common.AppError
// @Router       /api/blogs [get]
func (h *BlogHandler) ListBlogs(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := callerFrom(r)
	if appErr != nil {
		return appErr
	}
	blogs, err := h.service.ListForOwner(r.Context(), caller)
	if err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusOK, blogs)
	return nil
}

// CreateBlog godoc
// @Summary      Create a blog
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        blog body model.BlogRequest true "Blog title"
// @Success      201  {object}  model.Blog
// @Failure      400  {object}  common.AppError "Title already used by one of your blogs"
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError "Account not active"
// @Router       /api/blogs [post]
func (h *BlogHandler) CreateBlog(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := callerFrom(r)
	if appErr != nil {
		return appErr
	}
	var req model.BlogRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"username": caller.Username,
		"title":    req.Title,
	}).Info("Create blog request received")

	blog, err := h.service.Create(r.Context(), caller, req.Title)
	if err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusCreated, blog)
	return nil
}

// GetBlog godoc
// @Summary      Get one of my blogs
// @Tags         blogs
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Blog ID"
// @Success      200  {object}  model.Blog
// @Failure      404  {object}  common.AppError
// @Router       /api/blogs/{id} [get]
func (h *BlogHandler) GetBlog(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := callerFrom(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	blog, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusOK, blog)
	return nil
}

// RenameBlog godoc
// @Summary      Rename a blog
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Blog ID"
// @Param        blog body model.BlogRequest true "New title"
// @Success      200  {object}  model.Blog
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError "Not the owner"
// @Router       /api/blogs/{id} [patch]
func (h *BlogHandler) RenameBlog(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := callerFrom(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	var req model.BlogRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	blog, err := h.service.Rename(r.Context(), caller, id, req.Title)
	if err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusOK, blog)
	return nil
}

// DeleteBlog godoc
// @Summary      Delete a blog
// @Tags         blogs
// @Security     BearerAuth
// @Param        id path string true "Blog ID"
// @Success      204
// @Failure      401  {object}  common.AppError "Not the owner"
// @Router       /api/blogs/{id} [delete]
func (h *BlogHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) *common.AppError {
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

// ListPostTitles godoc
// @Summary      List post titles of a blog
// @Tags         blogs
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Blog ID"
// @Success      200  {array}   string
// @Failure      404  {object}  common.AppError
// @Router       /api/blogs/{id}/posts [get]
func (h *BlogHandler) ListPostTitles(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := callerFrom(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	titles, err := h.service.PostTitles(r.Context(), caller, id)
	if err != nil {
		return mapServiceError(err)
	}
	common.WriteJSON(w, http.StatusOK, titles)
	return nil
}
