package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/John-6670/SimpleSocialApp/internal/models"
	"github.com/John-6670/SimpleSocialApp/internal/repository"
	"github.com/John-6670/SimpleSocialApp/pkg/errs"
	"github.com/John-6670/SimpleSocialApp/pkg/logger"
	"github.com/John-6670/SimpleSocialApp/pkg/queue"
	"github.com/google/uuid"
)

// FollowService is the social graph: the follow/unfollow toggle and the
// follower/following listings.
type FollowService struct {
	userStore   UserStore
	followStore FollowStore
	producer    EventPublisher
	logger      *logger.Logger
}

func NewFollowService(userStore UserStore, followStore FollowStore, producer EventPublisher, logger *logger.Logger) *FollowService {
	return &FollowService{
		userStore:   userStore,
		followStore: followStore,
		producer:    producer,
		logger:      logger,
	}
}

type ToggleFollowResult struct {
	Following bool `json:"following"`
}

// Toggle follows the target when no edge exists and unfollows otherwise.
// The create is attempted first; a duplicate-key conflict means the edge
// already exists, so it is deleted instead. The unique (follower,
// following) index keeps concurrent toggles from ever persisting two
// edges.
func (s *FollowService) Toggle(ctx context.Context, actorID *uuid.UUID, targetUsername string) (*ToggleFollowResult, error) {
	if actorID == nil {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "You must be logged in.")
	}

	target, err := s.userStore.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
	}

	// Checked before the toggle, never absorbed into it.
	if target.ID == *actorID {
		return nil, errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
	}

	err = s.followStore.Create(ctx, &models.Follow{
		FollowerID:  *actorID,
		FollowingID: target.ID,
	})
	switch {
	case err == nil:
		s.publish(ctx, queue.EventFollowCreated, *actorID, target.ID)
		s.logger.WithFields(map[string]interface{}{
			"follower_id":  actorID.String(),
			"following_id": target.ID.String(),
		}).Info("User followed")
		return &ToggleFollowResult{Following: true}, nil
	case errors.Is(err, repository.ErrDuplicateKey):
		if err := s.followStore.Delete(ctx, *actorID, target.ID); err != nil {
			return nil, err
		}
		s.publish(ctx, queue.EventFollowDeleted, *actorID, target.ID)
		s.logger.WithFields(map[string]interface{}{
			"follower_id":  actorID.String(),
			"following_id": target.ID.String(),
		}).Info("User unfollowed")
		return &ToggleFollowResult{Following: false}, nil
	default:
		return nil, fmt.Errorf("failed to toggle follow: %w", err)
	}
}

// Followers lists the users following the named user, as public
// projections. An empty username defaults to the acting user, which then
// requires authentication.
func (s *FollowService) Followers(ctx context.Context, actorID *uuid.UUID, username string, offset, limit int) ([]*AuthorView, error) {
	user, err := s.resolve(ctx, actorID, username)
	if err != nil {
		return nil, err
	}
	users, err := s.followStore.Followers(ctx, user.ID, offset, limit)
	if err != nil {
		return nil, err
	}
	return authorViews(users), nil
}

// Following lists the users the named user follows, as public
// projections.
func (s *FollowService) Following(ctx context.Context, actorID *uuid.UUID, username string, offset, limit int) ([]*AuthorView, error) {
	user, err := s.resolve(ctx, actorID, username)
	if err != nil {
		return nil, err
	}
	users, err := s.followStore.Following(ctx, user.ID, offset, limit)
	if err != nil {
		return nil, err
	}
	return authorViews(users), nil
}

func (s *FollowService) resolve(ctx context.Context, actorID *uuid.UUID, username string) (*models.User, error) {
	if username == "" {
		if actorID == nil {
			return nil, errs.Errorf(errs.EUNAUTHENTICATED, "You are not logged in.")
		}
		user, err := s.userStore.GetByID(ctx, *actorID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
		}
		return user, nil
	}

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
	}
	return user, nil
}

func (s *FollowService) publish(ctx context.Context, eventType queue.EventType, followerID, followingID uuid.UUID) {
	event := queue.NewEvent(eventType, queue.FollowEventData{
		FollowerID:  followerID.String(),
		FollowingID: followingID.String(),
	})
	if err := s.producer.Publish(ctx, followerID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish follow event")
	}
}
