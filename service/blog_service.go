// file: service/blog_service.go

package service

import (
	"context"
	"go-blog-api/logger"
	"go-blog-api/model"
	"go-blog-api/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BlogService handles blog business logic. Every method receives the caller
// already resolved by the AccessGate.
type BlogService struct {
	blogs repository.IBlogRepository
	posts repository.IPostRepository
	gate  *AccessGate
}

func NewBlogService(blogs repository.IBlogRepository, posts repository.IPostRepository, gate *AccessGate) *BlogService {
	return &BlogService{blogs: blogs, posts: posts, gate: gate}
}

// ListForOwner lists the caller's live blogs.
func (s *BlogService) ListForOwner(ctx context.Context, caller *model.User) ([]*model.Blog, error) {
	return s.blogs.ListByOwner(ctx, caller.ID)
}

// Get returns one of the caller's blogs. Blogs of other users read as missing.
func (s *BlogService) Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Blog, error) {
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog == nil || blog.OwnerID != caller.ID {
		return nil, ErrBlogNotFound
	}
	return blog, nil
}

// Create adds a blog whose title is unique among the caller's live blogs.
func (s *BlogService) Create(ctx context.Context, caller *model.User, title string) (*model.Blog, error) {
	if err := s.gate.RequireActive(caller); err != nil {
		return nil, err
	}
	available, err := s.blogs.TitleAvailable(ctx, caller.ID, title)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrTitleTaken
	}

	blog := &model.Blog{Title: title, OwnerID: caller.ID}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{
		"blog_id":  blog.ID,
		"owner_id": caller.ID,
	}).Info("Blog created")
	return blog, nil
}

// Rename changes the title of one of the caller's blogs.
func (s *BlogService) Rename(ctx context.Context, caller *model.User, id uuid.UUID, title string) (*model.Blog, error) {
	if err := s.gate.RequireActive(caller); err != nil {
		return nil, err
	}
	blog, err := s.gate.AuthorizeBlog(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if blog.Title == title {
		return blog, nil
	}

	available, err := s.blogs.TitleAvailable(ctx, caller.ID, title)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrTitleTaken
	}
	updated, err := s.blogs.UpdateTitle(ctx, id, title)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrBlogNotFound
	}
	return updated, nil
}

// Delete soft-deletes one of the caller's blogs. Another user's blog and a
// missing blog fail identically.
func (s *BlogService) Delete(ctx context.Context, caller *model.User, id uuid.UUID) error {
	if err := s.gate.RequireActive(caller); err != nil {
		return err
	}
	if _, err := s.gate.AuthorizeBlog(ctx, caller, id); err != nil {
		return err
	}
	if err := s.blogs.SoftDelete(ctx, id); err != nil {
		return err
	}
	logger.Log.WithField("blog_id", id).Info("Blog deleted")
	return nil
}

// PostTitles lists the titles of live posts in one of the caller's blogs.
func (s *BlogService) PostTitles(ctx context.Context, caller *model.User, id uuid.UUID) ([]string, error) {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return nil, err
	}
	return s.posts.ListTitlesByBlog(ctx, id)
}
