package repository

import (
	"context"
	"fmt"

	"github.com/John-6670/SimpleSocialApp/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts a like row. A duplicate (user, kind, id) insert returns
// gorm.ErrDuplicatedKey untouched so the engagement service can absorb it.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return err
		}
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, userID uuid.UUID, kind models.TargetKind, targetID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		Delete(&models.Like{}).Error; err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

func (r *LikeRepository) Get(ctx context.Context, userID uuid.UUID, kind models.TargetKind, targetID uuid.UUID) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		First(&like).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get like: %w", err)
	}
	return &like, nil
}

func (r *LikeRepository) Count(ctx context.Context, kind models.TargetKind, targetID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

func (r *LikeRepository) IsLiked(ctx context.Context, userID uuid.UUID, kind models.TargetKind, targetID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check like status: %w", err)
	}
	return count > 0, nil
}

// LikedTargets returns which of the given target ids the user has liked,
// in one query, for annotating listings.
func (r *LikeRepository) LikedTargets(ctx context.Context, userID uuid.UUID, kind models.TargetKind, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if len(targetIDs) == 0 {
		return map[uuid.UUID]bool{}, nil
	}
	var likes []*models.Like
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id IN ?", userID, kind, targetIDs).
		Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("failed to get liked targets: %w", err)
	}
	liked := make(map[uuid.UUID]bool, len(likes))
	for _, like := range likes {
		liked[like.TargetID] = true
	}
	return liked, nil
}

func (r *LikeRepository) ListByTarget(ctx context.Context, kind models.TargetKind, targetID uuid.UUID, offset, limit int) ([]*models.Like, error) {
	var likes []*models.Like
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}
	return likes, nil
}
