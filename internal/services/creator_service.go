package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/linkupapp/linkup-backend/internal/cache"
	"github.com/linkupapp/linkup-backend/internal/dto"
	"github.com/linkupapp/linkup-backend/internal/models"
	"github.com/linkupapp/linkup-backend/internal/storage"
	"gorm.io/gorm"
)

type CreatorService struct {
	db     *gorm.DB
	blobs  storage.BlobStore
	access *cache.AccessCache
}

func NewCreatorService(db *gorm.DB, blobs storage.BlobStore, access *cache.AccessCache) *CreatorService {
	return &CreatorService{db: db, blobs: blobs, access: access}
}

// Create opens a creator profile for the owner. The unique index on
// user_id enforces one profile per user; a duplicate insert comes back
// as a conflict instead of racing a lookup.
func (s *CreatorService) Create(ctx context.Context, ownerID uuid.UUID, isPublic bool) (*models.Creator, error) {
	creator := models.Creator{
		ID:       uuid.New(),
		UserID:   ownerID,
		IsPublic: isPublic,
	}
	if err := s.db.WithContext(ctx).Create(&creator).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCreatorExists
		}
		return nil, fmt.Errorf("failed to create creator: %w", err)
	}
	return &creator, nil
}

func (s *CreatorService) Get(ctx context.Context, creatorID uuid.UUID) (*dto.CreatorResponse, error) {
	var row struct {
		ID       uuid.UUID
		Name     string
		IsPublic bool
	}
	err := s.db.WithContext(ctx).Model(&models.Creator{}).
		Select("creators.id, users.name, creators.is_public").
		Joins("JOIN users ON users.id = creators.user_id").
		Where("creators.id = ?", creatorID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, err
	}
	return &dto.CreatorResponse{ID: row.ID, UserName: row.Name, IsPublic: row.IsPublic}, nil
}

// ListPublic returns every creator whose content is open to all
// authenticated users.
func (s *CreatorService) ListPublic(ctx context.Context) ([]dto.CreatorResponse, error) {
	var rows []struct {
		ID       uuid.UUID
		Name     string
		IsPublic bool
	}
	err := s.db.WithContext(ctx).Model(&models.Creator{}).
		Select("creators.id, users.name, creators.is_public").
		Joins("JOIN users ON users.id = creators.user_id").
		Where("creators.is_public = ?", true).
		Order("creators.created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.CreatorResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CreatorResponse{ID: r.ID, UserName: r.Name, IsPublic: r.IsPublic})
	}
	return out, nil
}

// Update flips the visibility flag. Keyed on (creator, owner): a miss
// means absent or not yours, reported identically.
func (s *CreatorService) Update(ctx context.Context, creatorID, ownerID uuid.UUID, isPublic bool) error {
	result := s.db.WithContext(ctx).Model(&models.Creator{}).
		Where("id = ? AND user_id = ?", creatorID, ownerID).
		Update("is_public", isPublic)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCreatorNotFound
	}

	// Visibility changes what the read gate answers for everyone.
	s.access.InvalidateCreator(ctx, creatorID)
	return nil
}

// Delete removes the creator and all dependents. Media blobs go first;
// the row cascade then runs in a single transaction so a partial
// failure never leaves posts or grants pointing at a missing creator.
func (s *CreatorService) Delete(ctx context.Context, creatorID, ownerID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	var creator models.Creator
	if err := db.Where("id = ? AND user_id = ?", creatorID, ownerID).First(&creator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCreatorNotFound
		}
		return err
	}

	if err := deleteCreatorBlobs(ctx, db, s.blobs, creatorID); err != nil {
		return err
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return deleteCreatorRows(tx, creatorID)
	}); err != nil {
		return err
	}

	s.access.InvalidateCreator(ctx, creatorID)
	return nil
}
