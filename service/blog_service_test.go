package service

import (
	"context"
	"testing"

	"go-blog-api/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.seedUser(t, "alice", "alice-password", true, false)
	bob := f.seedUser(t, "bob", "bob-password", true, false)
	pending := f.seedUser(t, "pending", "pending-password", false, false)

	travel, err := f.blogs.Create(ctx, alice, "Travel")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, travel.OwnerID)

	t.Run("duplicate title for the same owner", func(t *testing.T) {
		_, err := f.blogs.Create(ctx, alice, "Travel")
		assert.ErrorIs(t, err, ErrTitleTaken)
	})

	t.Run("same title for another owner", func(t *testing.T) {
		_, err := f.blogs.Create(ctx, bob, "Travel")
		assert.NoError(t, err)
	})

	t.Run("inactive callers cannot write", func(t *testing.T) {
		_, err := f.blogs.Create(ctx, pending, "Drafts")
		assert.ErrorIs(t, err, ErrAccountInactive)
	})

	t.Run("foreign blogs read as missing", func(t *testing.T) {
		_, err := f.blogs.Get(ctx, bob, travel.ID)
		assert.ErrorIs(t, err, ErrBlogNotFound)
		_, err = f.blogs.PostTitles(ctx, bob, travel.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list only returns own blogs", func(t *testing.T) {
		blogs, err := f.blogs.ListForOwner(ctx, alice)
		require.NoError(t, err)
		require.Len(t, blogs, 1)
		assert.Equal(t, travel.ID, blogs[0].ID)
	})

	t.Run("rename", func(t *testing.T) {
		food, err := f.blogs.Create(ctx, alice, "Food")
		require.NoError(t, err)

		_, err = f.blogs.Rename(ctx, alice, food.ID, "Travel")
		assert.ErrorIs(t, err, ErrTitleTaken)

		_, err = f.blogs.Rename(ctx, bob, food.ID, "Mine now")
		assert.ErrorIs(t, err, ErrOwnershipMismatch)

		renamed, err := f.blogs.Rename(ctx, alice, food.ID, "Cooking")
		require.NoError(t, err)
		assert.Equal(t, "Cooking", renamed.Title)

		same, err := f.blogs.Rename(ctx, alice, food.ID, "Cooking")
		require.NoError(t, err)
		assert.Equal(t, food.ID, same.ID)
	})

	t.Run("delete", func(t *testing.T) {
		scratch, err := f.blogs.Create(ctx, alice, "Scratch")
		require.NoError(t, err)

		require.NoError(t, f.blogs.Delete(ctx, alice, scratch.ID))
		_, err = f.blogs.Get(ctx, alice, scratch.ID)
		assert.ErrorIs(t, err, ErrBlogNotFound)

		err = f.blogs.Delete(ctx, alice, scratch.ID)
		assert.ErrorIs(t, err, ErrAuthFailed, "a deleted blog cannot be deleted again")

		_, err = f.blogs.Create(ctx, alice, "Scratch")
		assert.NoError(t, err, "titles of deleted blogs are free again")
	})
}

func TestPostService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.seedUser(t, "alice", "alice-password", true, false)
	bob := f.seedUser(t, "bob", "bob-password", true, false)

	blog, err := f.blogs.Create(ctx, alice, "Travel")
	require.NoError(t, err)
	post, err := f.posts.Create(ctx, alice, model.CreatePostRequest{BlogID: blog.ID.String(), Title: "Day one", Body: "Arrived."})
	require.NoError(t, err)

	t.Run("create rejects bad input", func(t *testing.T) {
		_, err := f.posts.Create(ctx, alice, model.CreatePostRequest{BlogID: "not-a-uuid", Title: "x", Body: "y"})
		assert.ErrorIs(t, err, ErrInvalidID)

		_, err = f.posts.Create(ctx, alice, model.CreatePostRequest{BlogID: blog.ID.String(), Title: "Day one", Body: "again"})
		assert.ErrorIs(t, err, ErrTitleTaken)

		_, err = f.posts.Create(ctx, bob, model.CreatePostRequest{BlogID: blog.ID.String(), Title: "Spam", Body: "spam"})
		assert.ErrorIs(t, err, ErrAuthFailed)

		_, err = f.posts.Create(ctx, alice, model.CreatePostRequest{BlogID: uuid.NewString(), Title: "Lost", Body: "lost"})
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("read", func(t *testing.T) {
		got, err := f.posts.Get(ctx, alice, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Arrived.", got.Body)

		_, err = f.posts.Get(ctx, bob, post.ID)
		assert.ErrorIs(t, err, ErrPostNotFound)

		titles, err := f.blogs.PostTitles(ctx, alice, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Day one"}, titles)
	})

	t.Run("update keeps empty fields", func(t *testing.T) {
		updated, err := f.posts.Update(ctx, alice, post.ID, model.UpdatePostRequest{Body: "Arrived late."})
		require.NoError(t, err)
		assert.Equal(t, "Day one", updated.Title)
		assert.Equal(t, "Arrived late.", updated.Body)

		_, err = f.posts.Update(ctx, bob, post.ID, model.UpdatePostRequest{Title: "Hijacked"})
		assert.ErrorIs(t, err, ErrOwnershipMismatch)
	})

	t.Run("update rejects a taken title", func(t *testing.T) {
		_, err := f.posts.Create(ctx, alice, model.CreatePostRequest{BlogID: blog.ID.String(), Title: "Day two", Body: "..."})
		require.NoError(t, err)
		_, err = f.posts.Update(ctx, alice, post.ID, model.UpdatePostRequest{Title: "Day two"})
		assert.ErrorIs(t, err, ErrTitleTaken)
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, f.posts.Delete(ctx, bob, post.ID), ErrAuthFailed)
		require.NoError(t, f.posts.Delete(ctx, alice, post.ID))

		_, err := f.posts.Get(ctx, alice, post.ID)
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("posts of a deleted blog disappear", func(t *testing.T) {
		require.NoError(t, f.blogs.Delete(ctx, alice, blog.ID))
		posts, err := f.posts.ListForOwner(ctx, alice)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}
