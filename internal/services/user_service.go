package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/linkupapp/linkup-backend/internal/dto"
	"github.com/linkupapp/linkup-backend/internal/models"
	"github.com/linkupapp/linkup-backend/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db    *gorm.DB
	blobs storage.BlobStore
}

func NewUserService(db *gorm.DB, blobs storage.BlobStore) *UserService {
	return &UserService{db: db, blobs: blobs}
}

func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &dto.UserResponse{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

func (s *UserService) List(ctx context.Context) ([]dto.UserResponse, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return out, nil
}

// Update replaces name, email and password. All three fields are
// required, matching registration.
func (s *UserService) Update(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateProfile(req.Name, email, req.Password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"name":     req.Name,
			"email":    email,
			"password": string(hash),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the account and everything hanging off it: the owned
// creator with its posts (media blobs first), requests and grants the
// user made against other creators, and refresh tokens. Blob deletion
// failures abort before any row is removed.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	var creator models.Creator
	hasCreator := true
	if err := db.Where("user_id = ?", userID).First(&creator).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hasCreator = false
	}

	if hasCreator {
		if err := deleteCreatorBlobs(ctx, db, s.blobs, creator.ID); err != nil {
			return err
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if hasCreator {
			if err := deleteCreatorRows(tx, creator.ID); err != nil {
				return err
			}
		}
		// Requests and grants this user holds against other creators.
		if err := tx.Where("user_id = ?", userID).Delete(&models.SubRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Subscriber{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// deleteCreatorBlobs removes every media blob referenced by the
// creator's posts. Runs before the row cascade: an orphaned blob is the
// acceptable failure, a dangling reference is not.
func deleteCreatorBlobs(ctx context.Context, db *gorm.DB, blobs storage.BlobStore, creatorID uuid.UUID) error {
	var urls []string
	if err := db.Model(&models.Post{}).
		Where("creator_id = ? AND blob_url IS NOT NULL", creatorID).
		Pluck("blob_url", &urls).Error; err != nil {
		return err
	}
	for _, u := range urls {
		if err := blobs.Delete(ctx, u); err != nil {
			return fmt.Errorf("failed to delete media blob: %w", err)
		}
	}
	return nil
}

// deleteCreatorRows removes a creator and its dependents inside the
// caller's transaction.
func deleteCreatorRows(tx *gorm.DB, creatorID uuid.UUID) error {
	if err := tx.Where("creator_id = ?", creatorID).Delete(&models.Post{}).Error; err != nil {
		return err
	}
	if err := tx.Where("creator_id = ?", creatorID).Delete(&models.SubRequest{}).Error; err != nil {
		return err
	}
	if err := tx.Where("creator_id = ?", creatorID).Delete(&models.Subscriber{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", creatorID).Delete(&models.Creator{}).Error
}
