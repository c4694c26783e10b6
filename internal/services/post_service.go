package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/linkupapp/linkup-backend/internal/models"
	"github.com/linkupapp/linkup-backend/internal/storage"
	"gorm.io/gorm"
)

// MediaUpload carries an incoming multipart media file into the blob
// gateway.
type MediaUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string
}

type PostService struct {
	db    *gorm.DB
	blobs storage.BlobStore
	subs  *SubscriptionService
}

func NewPostService(db *gorm.DB, blobs storage.BlobStore, subs *SubscriptionService) *PostService {
	return &PostService{db: db, blobs: blobs, subs: subs}
}

// Create publishes a post. The type decides the body: text posts carry
// inline content and never media, image/video posts carry uploaded
// media and never inline content.
func (s *PostService) Create(ctx context.Context, ownerID, creatorID uuid.UUID, postType, content string, media *MediaUpload) (*models.Post, error) {
	db := s.db.WithContext(ctx)

	if err := ensureCreatorOwner(db, creatorID, ownerID); err != nil {
		return nil, err
	}

	post := models.Post{
		ID:        uuid.New(),
		CreatorID: creatorID,
		Type:      postType,
	}

	switch postType {
	case models.PostTypeText:
		if media != nil {
			return nil, fmt.Errorf("%w: media is not allowed for text posts", ErrValidation)
		}
		content = strings.TrimSpace(content)
		if content == "" {
			return nil, fmt.Errorf("%w: content is required for text posts", ErrValidation)
		}
		if len(content) > 1024 {
			return nil, fmt.Errorf("%w: content must be at most 1024 characters", ErrValidation)
		}
		post.Content = &content

	case models.PostTypeImage, models.PostTypeVideo:
		if strings.TrimSpace(content) != "" {
			return nil, fmt.Errorf("%w: inline content is not allowed for %s posts", ErrValidation, postType)
		}
		if media == nil {
			return nil, fmt.Errorf("%w: a media file is required for %s posts", ErrValidation, postType)
		}

		name := uuid.New().String() + filepath.Ext(media.Filename)
		blobURL, err := s.blobs.Upload(ctx, name, media.Reader, media.Size, media.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload media: %w", err)
		}
		post.BlobURL = &blobURL

	default:
		return nil, fmt.Errorf("%w: type must be text, image or video", ErrValidation)
	}

	if err := db.Create(&post).Error; err != nil {
		// Best effort: don't strand the blob we just uploaded.
		if post.BlobURL != nil {
			_ = s.blobs.Delete(ctx, *post.BlobURL)
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return &post, nil
}

func (s *PostService) Get(ctx context.Context, viewerID, creatorID, postID uuid.UUID) (*models.Post, error) {
	allowed, err := s.subs.CanReadPosts(ctx, viewerID, creatorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNoAccess
	}

	var post models.Post
	if err := s.db.WithContext(ctx).Where("id = ? AND creator_id = ?", postID, creatorID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *PostService) List(ctx context.Context, viewerID, creatorID uuid.UUID) ([]models.Post, error) {
	allowed, err := s.subs.CanReadPosts(ctx, viewerID, creatorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNoAccess
	}

	var posts []models.Post
	if err := s.db.WithContext(ctx).Where("creator_id = ?", creatorID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes one post, owner only. The blob goes first: if the
// gateway refuses, the row stays so no reference ever dangles.
func (s *PostService) Delete(ctx context.Context, ownerID, creatorID, postID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	if err := ensureCreatorOwner(db, creatorID, ownerID); err != nil {
		return err
	}

	var post models.Post
	if err := db.Where("id = ? AND creator_id = ?", postID, creatorID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if post.BlobURL != nil {
		if err := s.blobs.Delete(ctx, *post.BlobURL); err != nil {
			return fmt.Errorf("failed to delete media blob: %w", err)
		}
	}

	return db.Where("id = ?", post.ID).Delete(&models.Post{}).Error
}

// DeleteAll removes every post of the creator, blobs first. Any blob
// failure aborts before rows are touched.
func (s *PostService) DeleteAll(ctx context.Context, ownerID, creatorID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	if err := ensureCreatorOwner(db, creatorID, ownerID); err != nil {
		return err
	}

	if err := deleteCreatorBlobs(ctx, db, s.blobs, creatorID); err != nil {
		return err
	}

	return db.Where("creator_id = ?", creatorID).Delete(&models.Post{}).Error
}

// ensureCreatorOwner verifies the creator exists and is owned by the
// caller; both failures collapse into ErrCreatorNotFound.
func ensureCreatorOwner(db *gorm.DB, creatorID, ownerID uuid.UUID) error {
	var count int64
	err := db.Model(&models.Creator{}).
		Where("id = ? AND user_id = ?", creatorID, ownerID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCreatorNotFound
	}
	return nil
}
