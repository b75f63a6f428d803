package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/John-6670/SimpleSocialApp/internal/models"
	"github.com/John-6670/SimpleSocialApp/internal/repository"
	"github.com/John-6670/SimpleSocialApp/pkg/errs"
	"github.com/John-6670/SimpleSocialApp/pkg/logger"
	"github.com/John-6670/SimpleSocialApp/pkg/queue"
	"github.com/google/uuid"
)

// LikeService toggles reactions on any reactable target, identified by a
// (kind, id) pair. The store's unique index on (user, kind, id) is the
// sole arbiter under concurrent toggles.
type LikeService struct {
	likeStore    LikeStore
	postStore    PostStore
	commentStore CommentStore
	cache        CounterCache
	producer     EventPublisher
	counterTTL   time.Duration
	logger       *logger.Logger
}

func NewLikeService(likeStore LikeStore, postStore PostStore, commentStore CommentStore, cache CounterCache, producer EventPublisher, counterTTL time.Duration, logger *logger.Logger) *LikeService {
	if counterTTL <= 0 {
		counterTTL = time.Hour
	}
	return &LikeService{
		likeStore:    likeStore,
		postStore:    postStore,
		commentStore: commentStore,
		cache:        cache,
		producer:     producer,
		counterTTL:   counterTTL,
		logger:       logger,
	}
}

type ToggleLikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// Toggle flips the actor's like on the target. End state is determined by
// call parity: absent -> created (liked=true), present -> deleted
// (liked=false). A create that loses a race to a concurrent duplicate is
// reported as liked=true, not as an error.
func (s *LikeService) Toggle(ctx context.Context, actorID *uuid.UUID, kind models.TargetKind, targetID uuid.UUID) (*ToggleLikeResult, error) {
	if actorID == nil {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "You must be logged in.")
	}
	if !kind.Valid() {
		return nil, errs.Errorf(errs.EINVALID, "Unknown like target kind %q.", kind)
	}

	if err := s.targetExists(ctx, kind, targetID); err != nil {
		return nil, err
	}

	existing, err := s.likeStore.Get(ctx, *actorID, kind, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to check like status: %w", err)
	}

	liked := false
	if existing == nil {
		err := s.likeStore.Create(ctx, &models.Like{
			UserID:     *actorID,
			TargetKind: kind,
			TargetID:   targetID,
		})
		switch {
		case err == nil:
			liked = true
			s.bumpCounter(ctx, kind, targetID, 1)
			s.publish(ctx, queue.EventLikeCreated, *actorID, kind, targetID)
		case errors.Is(err, repository.ErrDuplicateKey):
			// Lost the race to an identical create. The row exists,
			// which is what the caller asked for.
			liked = true
		default:
			return nil, err
		}
	} else {
		if err := s.likeStore.Delete(ctx, *actorID, kind, targetID); err != nil {
			return nil, err
		}
		s.bumpCounter(ctx, kind, targetID, -1)
		s.publish(ctx, queue.EventLikeDeleted, *actorID, kind, targetID)
	}

	count, err := s.likeStore.Count(ctx, kind, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	if err := s.cache.SetInt64(ctx, likeCountKey(kind, targetID), count, s.counterTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to refresh like counter cache")
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":     actorID.String(),
		"target_kind": kind,
		"target_id":   targetID.String(),
		"liked":       liked,
	}).Info("Like toggled")

	return &ToggleLikeResult{Liked: liked, LikeCount: count}, nil
}

// Count returns the target's like count, cache-aside.
func (s *LikeService) Count(ctx context.Context, kind models.TargetKind, targetID uuid.UUID) (int64, error) {
	key := likeCountKey(kind, targetID)
	if count, err := s.cache.GetInt64(ctx, key); err == nil {
		return count, nil
	}

	count, err := s.likeStore.Count(ctx, kind, targetID)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	if err := s.cache.SetInt64(ctx, key, count, s.counterTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache like counter")
	}
	return count, nil
}

// IsLikedBy reports whether the viewer likes the target. Anonymous viewers
// simply get false.
func (s *LikeService) IsLikedBy(ctx context.Context, viewerID *uuid.UUID, kind models.TargetKind, targetID uuid.UUID) (bool, error) {
	if viewerID == nil {
		return false, nil
	}
	return s.likeStore.IsLiked(ctx, *viewerID, kind, targetID)
}

// Likers lists the users who liked a target, newest like first, as
// public projections.
func (s *LikeService) Likers(ctx context.Context, kind models.TargetKind, targetID uuid.UUID, offset, limit int) ([]*AuthorView, error) {
	if !kind.Valid() {
		return nil, errs.Errorf(errs.EINVALID, "Unknown like target kind %q.", kind)
	}
	if err := s.targetExists(ctx, kind, targetID); err != nil {
		return nil, err
	}

	likes, err := s.likeStore.ListByTarget(ctx, kind, targetID, offset, limit)
	if err != nil {
		return nil, err
	}

	views := make([]*AuthorView, 0, len(likes))
	for _, like := range likes {
		view := authorView(like.User)
		views = append(views, &view)
	}
	return views, nil
}

func (s *LikeService) targetExists(ctx context.Context, kind models.TargetKind, targetID uuid.UUID) error {
	switch kind {
	case models.TargetPost:
		post, err := s.postStore.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if post == nil {
			return errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
	case models.TargetComment:
		comment, err := s.commentStore.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if comment == nil {
			return errs.Errorf(errs.ENOTFOUND, "The comment does not exist.")
		}
	}
	return nil
}

func (s *LikeService) bumpCounter(ctx context.Context, kind models.TargetKind, targetID uuid.UUID, delta int64) {
	var err error
	switch kind {
	case models.TargetPost:
		err = s.postStore.IncrementLikeCount(ctx, targetID, delta)
	case models.TargetComment:
		err = s.commentStore.IncrementLikeCount(ctx, targetID, delta)
	}
	if err != nil {
		// The worker reconciles drift from the like rows.
		s.logger.WithError(err).Error("Failed to update denormalized like count")
	}
}

func (s *LikeService) publish(ctx context.Context, eventType queue.EventType, userID uuid.UUID, kind models.TargetKind, targetID uuid.UUID) {
	event := queue.NewEvent(eventType, queue.LikeEventData{
		UserID:     userID.String(),
		TargetKind: string(kind),
		TargetID:   targetID.String(),
	})
	if err := s.producer.Publish(ctx, userID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish like event")
	}
}

func likeCountKey(kind models.TargetKind, targetID uuid.UUID) string {
	return fmt.Sprintf("likes:%s:%s", kind, targetID)
}
