// file: model/post.go

package model

import (
	"time"

	"github.com/google/uuid"
)

// Post belongs to a blog; its owner is the blog's owner.
type Post struct {
	ID        uuid.UUID `json:"id"`
	BlogID    uuid.UUID `json:"blog_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	IsDeleted bool      `json:"is_deleted"`
}

// PostWithOwner is a post joined with the owner of its blog.
type PostWithOwner struct {
	Post
	OwnerID uuid.UUID `json:"-"`
}
