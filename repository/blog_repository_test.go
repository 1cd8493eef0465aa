// file: repository/blog_repository_test.go

package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"go-blog-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogRepository_CreateAndFind(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBlogRepository(db)
	ownerID := uuid.New()

	dbMock.ExpectQuery(regexp.QuoteMeta("INSERT INTO blogs (id, title, owner_id)")).
		WithArgs(sqlmock.AnyArg(), "Go notes", ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "is_deleted"}).AddRow(time.Now(), false))

	blog := &model.Blog{Title: "Go notes", OwnerID: ownerID}
	require.NoError(t, repo.Create(context.Background(), blog))
	assert.NotEqual(t, uuid.Nil, blog.ID)

	dbMock.ExpectQuery(regexp.QuoteMeta("FROM blogs WHERE id = $1 AND NOT is_deleted")).
		WithArgs(blog.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "owner_id", "created_at", "is_deleted"}).
			AddRow(blog.ID.String(), "Go notes", ownerID.String(), time.Now(), false))

	found, err := repo.FindByID(context.Background(), blog.ID)
	assert.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, ownerID, found.OwnerID)

	dbMock.ExpectQuery(regexp.QuoteMeta("FROM blogs WHERE id = $1")).
		WillReturnError(sql.ErrNoRows)
	missing, err := repo.FindByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, missing)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestBlogRepository_TitleAvailable(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBlogRepository(db)
	ownerID := uuid.New()

	dbMock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM blogs")).
		WithArgs(ownerID, "Taken").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	available, err := repo.TitleAvailable(context.Background(), ownerID, "Taken")
	assert.NoError(t, err)
	assert.False(t, available)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostRepository_FindByIDResolvesOwner(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostRepository(db)
	postID, blogID, ownerID := uuid.New(), uuid.New(), uuid.New()

	dbMock.ExpectQuery(regexp.QuoteMeta("JOIN blogs b ON b.id = p.blog_id")).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "blog_id", "title", "body", "created_at", "is_deleted", "owner_id"}).
			AddRow(postID.String(), blogID.String(), "Hello", "World", time.Now(), false, ownerID.String()))

	post, err := repo.FindByID(context.Background(), postID)
	assert.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, ownerID, post.OwnerID)
	assert.Equal(t, blogID, post.BlogID)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
