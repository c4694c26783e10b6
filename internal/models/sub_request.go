package models

import (
	"time"

	"github.com/google/uuid"
)

// SubRequest is a pending ask by a user to follow a non-public creator.
// The composite unique index guarantees at most one pending request per
// (user, creator) pair. Rows are terminal: resolution deletes them.
type SubRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sub_requests_user_creator" json:"user_id"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sub_requests_user_creator" json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
}
