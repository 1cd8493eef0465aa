// file: service/gate.go

package service

import (
	"context"
	"go-blog-api/logger"
	"go-blog-api/model"
	"go-blog-api/repository"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AccessGate authorizes a single request: it resolves the caller from an
// access token and checks ownership before a mutation is allowed.
// It keeps no state between requests.
type AccessGate struct {
	tokens *TokenService
	users  repository.IUserRepository
	blogs  repository.IBlogRepository
	posts  repository.IPostRepository
}

func NewAccessGate(tokens *TokenService, users repository.IUserRepository, blogs repository.IBlogRepository, posts repository.IPostRepository) *AccessGate {
	return &AccessGate{tokens: tokens, users: users, blogs: blogs, posts: posts}
}

// Authenticate verifies an access token and loads the identity it names.
func (g *AccessGate) Authenticate(ctx context.Context, accessToken string) (*model.User, *model.AppClaims, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, nil, ErrInvalidToken
	}
	claims, err := g.tokens.Verify(ctx, accessToken, model.PurposeAccess)
	if err != nil {
		return nil, nil, err
	}

	user, err := g.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}
	return user, claims, nil
}

// RequireActive rejects identities that have not verified their email or were disabled.
func (g *AccessGate) RequireActive(user *model.User) error {
	if !user.IsActive {
		return ErrAccountInactive
	}
	return nil
}

// RequireElevated rejects callers without administrative privilege.
func (g *AccessGate) RequireElevated(user *model.User) error {
	if err := g.RequireActive(user); err != nil {
		return err
	}
	if !user.IsElevated {
		logger.Log.WithField("username", user.Username).Warn("Elevated operation attempted by regular user")
		return ErrNotElevated
	}
	return nil
}

// AuthorizeBlog loads a blog for mutation by caller. A missing blog and a blog
// owned by someone else produce the same error.
func (g *AccessGate) AuthorizeBlog(ctx context.Context, caller *model.User, blogID uuid.UUID) (*model.Blog, error) {
	blog, err := g.blogs.FindByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if blog == nil || blog.OwnerID != caller.ID {
		g.denied(caller, "blog", blogID)
		return nil, ErrOwnershipMismatch
	}
	return blog, nil
}

// AuthorizePost is AuthorizeBlog for posts, with ownership inherited from the blog.
func (g *AccessGate) AuthorizePost(ctx context.Context, caller *model.User, postID uuid.UUID) (*model.PostWithOwner, error) {
	post, err := g.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.OwnerID != caller.ID {
		g.denied(caller, "post", postID)
		return nil, ErrOwnershipMismatch
	}
	return post, nil
}

func (g *AccessGate) denied(caller *model.User, kind string, id uuid.UUID) {
	logger.Log.WithFields(logrus.Fields{
		"username":    caller.Username,
		"resource":    kind,
		"resource_id": id,
	}).Warn("Ownership check failed")
}
