package repository

import (
	"context"
	"database/sql"
	"errors"
	"go-blog-api/logger"
	"go-blog-api/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IPostRepository defines the contract for post persistence.
// Ownership of a post is resolved through its blog.
type IPostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PostWithOwner, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Post, error)
	ListTitlesByBlog(ctx context.Context, blogID uuid.UUID) ([]string, error)
	Update(ctx context.Context, id uuid.UUID, title, body string) (*model.Post, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	TitleAvailable(ctx context.Context, blogID uuid.UUID, title string) (bool, error)
}

// PostRepository implements IPostRepository.
type PostRepository struct {
	DB *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	log := logger.Log.WithFields(logrus.Fields{
		"blog_id": post.BlogID,
		"title":   post.Title,
	})
	log.Info("Executing query to create a new post")

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	query := `INSERT INTO posts (id, blog_id, title, body) VALUES ($1, $2, $3, $4) RETURNING created_at, is_deleted`
	err := r.DB.QueryRowContext(ctx, query, post.ID, post.BlogID, post.Title, post.Body).Scan(&post.CreatedAt, &post.IsDeleted)
	if err != nil {
		log.WithError(err).Error("Failed to execute create post query")
		return err
	}
	return nil
}

// FindByID returns a live post in a live blog, together with the blog's owner.
func (r *PostRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PostWithOwner, error) {
	log := logger.Log.WithField("post_id", id)

	p := &model.PostWithOwner{}
	query := `
		SELECT p.id, p.blog_id, p.title, p.body, p.created_at, p.is_deleted, b.owner_id
		FROM posts p
		JOIN blogs b ON b.id = p.blog_id
		WHERE p.id = $1 AND NOT p.is_deleted AND NOT b.is_deleted`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.BlogID, &p.Title, &p.Body, &p.CreatedAt, &p.IsDeleted, &p.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.WithError(err).Error("Failed to execute get post query")
		return nil, err
	}
	return p, nil
}

// ListByOwner retrieves all live posts across the live blogs of a user.
func (r *PostRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Post, error) {
	log := logger.Log.WithField("owner_id", ownerID)
	log.Info("Executing query to get posts by owner")

	query := `
		SELECT p.id, p.blog_id, p.title, p.body, p.created_at, p.is_deleted
		FROM posts p
		JOIN blogs b ON b.id = p.blog_id
		WHERE b.owner_id = $1 AND NOT p.is_deleted AND NOT b.is_deleted
		ORDER BY p.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for posts by owner")
		return nil, err
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.BlogID, &p.Title, &p.Body, &p.CreatedAt, &p.IsDeleted); err != nil {
			log.WithError(err).Error("Failed to scan post row")
			return nil, err
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) ListTitlesByBlog(ctx context.Context, blogID uuid.UUID) ([]string, error) {
	log := logger.Log.WithField("blog_id", blogID)

	rows, err := r.DB.QueryContext(ctx, `SELECT title FROM posts WHERE blog_id = $1 AND NOT is_deleted ORDER BY created_at`, blogID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for post titles")
		return nil, err
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			log.WithError(err).Error("Failed to scan post title")
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// Update replaces title and body; empty values keep the current column value.
func (r *PostRepository) Update(ctx context.Context, id uuid.UUID, title, body string) (*model.Post, error) {
	log := logger.Log.WithField("post_id", id)
	log.Info("Executing query to update post")

	p := &model.Post{}
	query := `
		UPDATE posts SET title = COALESCE(NULLIF($1, ''), title), body = COALESCE(NULLIF($2, ''), body)
		WHERE id = $3 AND NOT is_deleted
		RETURNING id, blog_id, title, body, created_at, is_deleted`
	err := r.DB.QueryRowContext(ctx, query, title, body, id).Scan(&p.ID, &p.BlogID, &p.Title, &p.Body, &p.CreatedAt, &p.IsDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.WithError(err).Error("Failed to execute update post query")
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	log := logger.Log.WithField("post_id", id)
	log.Info("Executing query to soft delete post")

	if _, err := r.DB.ExecContext(ctx, `UPDATE posts SET is_deleted = TRUE WHERE id = $1`, id); err != nil {
		log.WithError(err).Error("Failed to execute soft delete post query")
		return err
	}
	return nil
}

// TitleAvailable reports whether blogID has no live post with this title.
func (r *PostRepository) TitleAvailable(ctx context.Context, blogID uuid.UUID, title string) (bool, error) {
	var taken bool
	query := `SELECT EXISTS (SELECT 1 FROM posts WHERE blog_id = $1 AND title = $2 AND NOT is_deleted)`
	if err := r.DB.QueryRowContext(ctx, query, blogID, title).Scan(&taken); err != nil {
		logger.Log.WithError(err).WithField("blog_id", blogID).Error("Failed to execute post title check")
		return false, err
	}
	return !taken, nil
}
