package models

import (
	"time"

	"github.com/google/uuid"
)

// Post content types.
const (
	PostTypeText  = "text"
	PostTypeImage = "image"
	PostTypeVideo = "video"
)

// Post is a content item owned by a creator. Exactly one of Content and
// BlobURL is populated, determined by Type: text posts carry inline
// content, image/video posts reference externally stored media.
type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null;index" json:"creator_id"`
	Type      string    `gorm:"size:10;not null" json:"type"`
	Content   *string   `gorm:"size:1024" json:"content,omitempty"`
	BlobURL   *string   `gorm:"size:2048" json:"blob_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Creator   Creator   `gorm:"foreignKey:CreatorID" json:"-"`
}
