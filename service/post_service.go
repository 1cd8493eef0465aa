// file: service/post_service.go

package service

import (
	"context"
	"go-blog-api/logger"
	"go-blog-api/model"
	"go-blog-api/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PostService handles post business logic. Ownership of a post is ownership of its blog.
type PostService struct {
	posts repository.IPostRepository
	gate  *AccessGate
}

func NewPostService(posts repository.IPostRepository, gate *AccessGate) *PostService {
	return &PostService{posts: posts, gate: gate}
}

func (s *PostService) ListForOwner(ctx context.Context, caller *model.User) ([]*model.Post, error) {
	return s.posts.ListByOwner(ctx, caller.ID)
}

// Get returns a post from one of the caller's blogs.
func (s *PostService) Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil || post.OwnerID != caller.ID {
		return nil, ErrPostNotFound
	}
	return &post.Post, nil
}

// Create adds a post to a blog the caller owns.
func (s *PostService) Create(ctx context.Context, caller *model.User, req model.CreatePostRequest) (*model.Post, error) {
	if err := s.gate.RequireActive(caller); err != nil {
		return nil, err
	}
	blogID, err := ParseID(req.BlogID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.AuthorizeBlog(ctx, caller, blogID); err != nil {
		return nil, err
	}

	available, err := s.posts.TitleAvailable(ctx, blogID, req.Title)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrTitleTaken
	}

	post := &model.Post{BlogID: blogID, Title: req.Title, Body: req.Body}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{
		"post_id": post.ID,
		"blog_id": blogID,
	}).Info("Post created")
	return post, nil
}

// Update patches title and/or body of a post the caller owns.
func (s *PostService) Update(ctx context.Context, caller *model.User, id uuid.UUID, req model.UpdatePostRequest) (*model.Post, error) {
	if err := s.gate.RequireActive(caller); err != nil {
		return nil, err
	}
	post, err := s.gate.AuthorizePost(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" && req.Title != post.Title {
		available, err := s.posts.TitleAvailable(ctx, post.BlogID, req.Title)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, ErrTitleTaken
		}
	}

	updated, err := s.posts.Update(ctx, id, req.Title, req.Body)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostNotFound
	}
	return updated, nil
}

// Delete soft-deletes a post the caller owns.
func (s *PostService) Delete(ctx context.Context, caller *model.User, id uuid.UUID) error {
	if err := s.gate.RequireActive(caller); err != nil {
		return err
	}
	if _, err := s.gate.AuthorizePost(ctx, caller, id); err != nil {
		return err
	}
	if err := s.posts.SoftDelete(ctx, id); err != nil {
		return err
	}
	logger.Log.WithField("post_id", id).Info("Post deleted")
	return nil
}
