package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber is a durable access grant of a user against a creator.
// Re-granting upserts on the (user, creator) pair rather than inserting
// a duplicate row. HasAccess=false marks a revoked grant kept as a row.
type Subscriber struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscribers_user_creator" json:"user_id"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscribers_user_creator" json:"creator_id"`
	HasAccess bool      `gorm:"not null;default:false" json:"has_access"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
