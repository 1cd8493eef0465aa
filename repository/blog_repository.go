// file: repository/blog_repository.go

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

// IBlogRepository defines the contract for blog persistence.
type IBlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Blog, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) (*model.Blog, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	TitleAvailable(ctx context.Context, ownerID uuid.UUID, title string) (bool, error)
}

type BlogRepository struct {
	DB *sql.DB
}

func NewBlogRepository(db *sql.DB) *BlogRepository {
	return &BlogRepository{DB: db}
}

// Create adds a new blog to the database.
func (r *BlogRepository) Create(ctx context.Context, blog *model.Blog) error {
	log := logger.Log.WithFields(logrus.Fields{
		"owner_id": blog.OwnerID,
		"title":    blog.Title,
	})
	log.Info("Executing query to create a new blog")

	if blog.ID == uuid.Nil {
		blog.ID = uuid.New()
	}
	query := `INSERT INTO blogs (id, title, owner_id) VALUES ($1, $2, $3) RETURNING created_at, is_deleted`
	err := r.DB.QueryRowContext(ctx, query, blog.ID, blog.Title, blog.OwnerID).Scan(&blog.CreatedAt, &blog.IsDeleted)
	if err != nil {
		log.WithError(err).Error("Failed to execute create blog query")
		return err
	}
	return nil
}

// FindByID returns a non-deleted blog, or nil when none matches.
func (r *BlogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	log := logger.Log.WithField("blog_id", id)

	blog := &model.Blog{}
	query := `SELECT id, title, owner_id, created_at, is_deleted FROM blogs WHERE id = $1 AND NOT is_deleted`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&blog.ID, &blog.Title, &blog.OwnerID, &blog.CreatedAt, &blog.IsDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.WithError(err).Error("Failed to execute get blog query")
		return nil, err
	}
	return blog, nil
}

// ListByOwner retrieves all non-deleted blogs of a user.
func (r *BlogRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Blog, error) {
	log := logger.Log.WithField("owner_id", ownerID)
	log.Info("Executing query to get blogs by owner")

	query := `SELECT id, title, owner_id, created_at, is_deleted FROM blogs
		WHERE owner_id = $1 AND NOT is_deleted ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for blogs by owner")
		return nil, err
	}
	defer rows.Close()

	blogs := []*model.Blog{}
	for rows.Next() {
		var b model.Blog
		if err := rows.Scan(&b.ID, &b.Title, &b.OwnerID, &b.CreatedAt, &b.IsDeleted); err != nil {
			log.WithError(err).Error("Failed to scan blog row")
			return nil, err
		}
		blogs = append(blogs, &b)
	}
	return blogs, rows.Err()
}

func (r *BlogRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) (*model.Blog, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"blog_id": id,
		"title":   title,
	})
	log.Info("Executing query to update blog title")

	blog := &model.Blog{}
	query := `UPDATE blogs SET title = $1 WHERE id = $2 AND NOT is_deleted
		RETURNING id, title, owner_id, created_at, is_deleted`
	err := r.DB.QueryRowContext(ctx, query, title, id).Scan(&blog.ID, &blog.Title, &blog.OwnerID, &blog.CreatedAt, &blog.IsDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.WithError(err).Error("Failed to execute update blog title query")
		return nil, err
	}
	return blog, nil
}

// SoftDelete flags a blog as deleted; the row is kept.
func (r *BlogRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	log := logger.Log.WithField("blog_id", id)
	log.Info("Executing query to soft delete blog")

	if _, err := r.DB.ExecContext(ctx, `UPDATE blogs SET is_deleted = TRUE WHERE id = $1`, id); err != nil {
		log.WithError(err).Error("Failed to execute soft delete blog query")
		return err
	}
	return nil
}

// TitleAvailable reports whether ownerID has no live blog with this title.
func (r *BlogRepository) TitleAvailable(ctx context.Context, ownerID uuid.UUID, title string) (bool, error) {
	var taken bool
	query := `SELECT EXISTS (SELECT 1 FROM blogs WHERE owner_id = $1 AND title = $2 AND NOT is_deleted)`
	if err := r.DB.QueryRowContext(ctx, query, ownerID, title).Scan(&taken); err != nil {
		logger.Log.WithError(err).WithField("owner_id", ownerID).Error("Failed to execute blog title check")
		return false, err
	}
	return !taken, nil
}
