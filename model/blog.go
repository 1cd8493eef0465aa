// file: model/blog.go

package model

import (
	"time"

	"github.com/google/uuid"
)

// Blog is owned directly by a single user.
type Blog struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	IsDeleted bool      `json:"is_deleted"`
}
