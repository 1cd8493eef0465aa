package repository

import (
	"context"
	"testing"

	"go-blog-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users()

	alice := &model.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, users.Create(ctx, alice))
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", alice.ID.String())
	assert.False(t, alice.CreatedAt.IsZero())

	err := users.Create(ctx, &model.User{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
	err = users.Create(ctx, &model.User{Username: "other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	missing, err := users.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, missing)

	active := true
	patched, err := users.Patch(ctx, "alice", model.UserPatch{IsActive: &active})
	require.NoError(t, err)
	assert.True(t, patched.IsActive)
	assert.Equal(t, "hash", patched.Password)

	disabled, err := users.Disable(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, disabled.IsActive)
	assert.True(t, disabled.IsDisabled)

	gone, err := users.Disable(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestMemoryStore_BlogsAndPosts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	owner := &model.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, store.Users().Create(ctx, owner))

	first := &model.Blog{Title: "First", OwnerID: owner.ID}
	second := &model.Blog{Title: "Second", OwnerID: owner.ID}
	require.NoError(t, store.Blogs().Create(ctx, first))
	require.NoError(t, store.Blogs().Create(ctx, second))

	blogs, err := store.Blogs().ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, blogs, 2)
	assert.Equal(t, "Second", blogs[0].Title, "newest first")

	available, err := store.Blogs().TitleAvailable(ctx, owner.ID, "First")
	require.NoError(t, err)
	assert.False(t, available)

	a := &model.Post{BlogID: first.ID, Title: "A", Body: "a"}
	b := &model.Post{BlogID: first.ID, Title: "B", Body: "b"}
	require.NoError(t, store.Posts().Create(ctx, a))
	require.NoError(t, store.Posts().Create(ctx, b))

	titles, err := store.Posts().ListTitlesByBlog(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles)

	updated, err := store.Posts().Update(ctx, a.ID, "", "changed")
	require.NoError(t, err)
	assert.Equal(t, "A", updated.Title)
	assert.Equal(t, "changed", updated.Body)

	found, err := store.Posts().FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, owner.ID, found.OwnerID)

	require.NoError(t, store.Blogs().SoftDelete(ctx, first.ID))

	found, err = store.Posts().FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, found, "posts of a deleted blog are hidden")

	posts, err := store.Posts().ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, posts)

	available, err = store.Blogs().TitleAvailable(ctx, owner.ID, "First")
	require.NoError(t, err)
	assert.True(t, available)
}
