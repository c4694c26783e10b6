package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/linkupapp/linkup-backend/internal/cache"
	"github.com/linkupapp/linkup-backend/internal/dto"
	"github.com/linkupapp/linkup-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionService owns the request -> accept/deny workflow and the
// read-access predicate the post layer consults.
//
// Per (user, creator) pair the states are:
//
//	NONE -> request -> PENDING -> accept -> GRANTED
//	                           -> deny   -> NONE
//	NONE -> request (public creator) -> GRANTED
type SubscriptionService struct {
	db     *gorm.DB
	access *cache.AccessCache
}

func NewSubscriptionService(db *gorm.DB, access *cache.AccessCache) *SubscriptionService {
	return &SubscriptionService{db: db, access: access}
}

// RequestAccess asks to follow a creator. Public creators auto-accept:
// the grant is upserted directly and no pending request ever exists.
func (s *SubscriptionService) RequestAccess(ctx context.Context, requesterID, creatorID uuid.UUID) (*dto.RequestAccessResponse, error) {
	db := s.db.WithContext(ctx)

	var creator models.Creator
	if err := db.First(&creator, "id = ?", creatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, err
	}

	if creator.UserID == requesterID {
		return nil, ErrSelfSubscription
	}

	if creator.IsPublic {
		if err := s.upsertGrant(db, requesterID, creatorID); err != nil {
			return nil, err
		}
		s.access.Invalidate(ctx, requesterID, creatorID)
		return &dto.RequestAccessResponse{Granted: true}, nil
	}

	req := models.SubRequest{
		ID:        uuid.New(),
		UserID:    requesterID,
		CreatorID: creatorID,
	}
	if err := db.Create(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePending
		}
		return nil, fmt.Errorf("failed to create subscription request: %w", err)
	}

	return &dto.RequestAccessResponse{SubRequestID: &req.ID}, nil
}

// Resolve accepts or denies a pending request. The acting identity must
// own the target creator; the requester has no say. Accept upserts the
// grant and consumes the request in one transaction, so the same
// request can never be resolved twice.
func (s *SubscriptionService) Resolve(ctx context.Context, subRequestID, creatorID, ownerID uuid.UUID, accept bool) error {
	db := s.db.WithContext(ctx)

	if err := ensureCreatorOwner(db, creatorID, ownerID); err != nil {
		return err
	}

	var req models.SubRequest
	if err := db.Where("id = ? AND creator_id = ?", subRequestID, creatorID).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if accept {
			if err := s.upsertGrant(tx, req.UserID, creatorID); err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", req.ID).Delete(&models.SubRequest{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost a race with a concurrent resolution.
			return ErrRequestNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.access.Invalidate(ctx, req.UserID, creatorID)
	return nil
}

// upsertGrant inserts or re-activates the Subscriber row for the pair.
// The update path covers re-subscription after a prior revoke.
func (s *SubscriptionService) upsertGrant(tx *gorm.DB, userID, creatorID uuid.UUID) error {
	sub := models.Subscriber{
		ID:        uuid.New(),
		UserID:    userID,
		CreatorID: creatorID,
		HasAccess: true,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "creator_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"has_access": true,
			"updated_at": time.Now(),
		}),
	}).Create(&sub).Error
}

// ListRequests returns the pending requests for a creator, owner only.
func (s *SubscriptionService) ListRequests(ctx context.Context, creatorID, ownerID uuid.UUID) ([]dto.SubRequestResponse, error) {
	db := s.db.WithContext(ctx)
	if err := ensureCreatorOwner(db, creatorID, ownerID); err != nil {
		return nil, err
	}

	var reqs []models.SubRequest
	if err := db.Where("creator_id = ?", creatorID).Order("created_at").Find(&reqs).Error; err != nil {
		return nil, err
	}

	out := make([]dto.SubRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, dto.SubRequestResponse{ID: r.ID, UserID: r.UserID, CreatorID: r.CreatorID})
	}
	return out, nil
}

func (s *SubscriptionService) GetRequest(ctx context.Context, subRequestID, creatorID, ownerID uuid.UUID) (*dto.SubRequestResponse, error) {
	db := s.db.WithContext(ctx)
	if err := ensureCreatorOwner(db, creatorID, ownerID); err != nil {
		return nil, err
	}

	var req models.SubRequest
	if err := db.Where("id = ? AND creator_id = ?", subRequestID, creatorID).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &dto.SubRequestResponse{ID: req.ID, UserID: req.UserID, CreatorID: req.CreatorID}, nil
}

// CanReadPosts is the read-access gate: the viewer owns the creator, or
// the creator is public, or an active grant exists for the pair.
func (s *SubscriptionService) CanReadPosts(ctx context.Context, viewerID, creatorID uuid.UUID) (bool, error) {
	if allowed, hit := s.access.Get(ctx, viewerID, creatorID); hit {
		return allowed, nil
	}

	db := s.db.WithContext(ctx)

	var creator models.Creator
	if err := db.First(&creator, "id = ?", creatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCreatorNotFound
		}
		return false, err
	}

	allowed := creator.UserID == viewerID || creator.IsPublic
	if !allowed {
		var count int64
		err := db.Model(&models.Subscriber{}).
			Where("user_id = ? AND creator_id = ? AND has_access = ?", viewerID, creatorID, true).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		allowed = count > 0
	}

	s.access.Set(ctx, viewerID, creatorID, allowed)
	return allowed, nil
}

// ListSubscribers is visible to the owner and to subscribers holding an
// active grant. Public visibility does not extend to the subscriber
// list.
func (s *SubscriptionService) ListSubscribers(ctx context.Context, viewerID, creatorID uuid.UUID) ([]dto.SubscriberResponse, error) {
	db := s.db.WithContext(ctx)
	if err := s.requireOwnerOrSubscriber(db, creatorID, viewerID); err != nil {
		return nil, err
	}

	var rows []struct {
		ID        uuid.UUID
		Name      string
		Email     string
		HasAccess bool
	}
	err := db.Model(&models.Subscriber{}).
		Select("subscribers.id, users.name, users.email, subscribers.has_access").
		Joins("JOIN users ON users.id = subscribers.user_id").
		Where("subscribers.creator_id = ?", creatorID).
		Order("subscribers.created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.SubscriberResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.SubscriberResponse{ID: r.ID, Name: r.Name, Email: r.Email, HasAccess: r.HasAccess})
	}
	return out, nil
}

func (s *SubscriptionService) GetSubscriber(ctx context.Context, viewerID, creatorID, subscriberID uuid.UUID) (*dto.SubscriberResponse, error) {
	db := s.db.WithContext(ctx)
	if err := s.requireOwnerOrSubscriber(db, creatorID, viewerID); err != nil {
		return nil, err
	}

	var row struct {
		ID        uuid.UUID
		Name      string
		Email     string
		HasAccess bool
	}
	err := db.Model(&models.Subscriber{}).
		Select("subscribers.id, users.name, users.email, subscribers.has_access").
		Joins("JOIN users ON users.id = subscribers.user_id").
		Where("subscribers.id = ? AND subscribers.creator_id = ?", subscriberID, creatorID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriberNotFound
		}
		return nil, err
	}
	return &dto.SubscriberResponse{ID: row.ID, Name: row.Name, Email: row.Email, HasAccess: row.HasAccess}, nil
}

// RemoveSubscriber revokes a grant, owner only. The row is deleted: a
// removed subscriber looks the same as one who never subscribed.
func (s *SubscriptionService) RemoveSubscriber(ctx context.Context, subscriberID, creatorID, ownerID uuid.UUID) error {
	db := s.db.WithContext(ctx)
	if err := ensureCreatorOwner(db, creatorID, ownerID); err != nil {
		return err
	}

	var sub models.Subscriber
	if err := db.Where("id = ? AND creator_id = ?", subscriberID, creatorID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriberNotFound
		}
		return err
	}

	if err := db.Where("id = ?", sub.ID).Delete(&models.Subscriber{}).Error; err != nil {
		return err
	}

	s.access.Invalidate(ctx, sub.UserID, creatorID)
	return nil
}

func (s *SubscriptionService) requireOwnerOrSubscriber(db *gorm.DB, creatorID, viewerID uuid.UUID) error {
	var creator models.Creator
	if err := db.First(&creator, "id = ?", creatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCreatorNotFound
		}
		return err
	}
	if creator.UserID == viewerID {
		return nil
	}

	var count int64
	err := db.Model(&models.Subscriber{}).
		Where("user_id = ? AND creator_id = ? AND has_access = ?", viewerID, creatorID, true).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNoAccess
	}
	return nil
}
