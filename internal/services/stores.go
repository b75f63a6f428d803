package services

import (
	"context"
	"time"

	"github.com/John-6670/SimpleSocialApp/internal/models"
	"github.com/John-6670/SimpleSocialApp/internal/repository"
	"github.com/John-6670/SimpleSocialApp/pkg/queue"
	"github.com/google/uuid"
)

// Store interfaces consumed by the services. The gorm repositories satisfy
// them; tests substitute mocks.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Search(ctx context.Context, username string, offset, limit int) ([]*models.User, error)
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]*models.Post, error)
	ListByAuthors(ctx context.Context, authorIDs []uuid.UUID, offset, limit int) ([]*models.Post, error)
	Search(ctx context.Context, term string, offset, limit int) ([]*models.Post, error)
	IncrementLikeCount(ctx context.Context, postID uuid.UUID, delta int64) error
	IncrementCommentCount(ctx context.Context, postID uuid.UUID, delta int64) error
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListTopLevel(ctx context.Context, postID uuid.UUID, offset, limit int) ([]*models.Comment, error)
	ListReplies(ctx context.Context, parentID uuid.UUID, offset, limit int) ([]*models.Comment, error)
	Search(ctx context.Context, postID uuid.UUID, term string, offset, limit int) ([]*models.Comment, error)
	IncrementLikeCount(ctx context.Context, commentID uuid.UUID, delta int64) error
}

type LikeStore interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, userID uuid.UUID, kind models.TargetKind, targetID uuid.UUID) error
	Get(ctx context.Context, userID uuid.UUID, kind models.TargetKind, targetID uuid.UUID) (*models.Like, error)
	Count(ctx context.Context, kind models.TargetKind, targetID uuid.UUID) (int64, error)
	IsLiked(ctx context.Context, userID uuid.UUID, kind models.TargetKind, targetID uuid.UUID) (bool, error)
	LikedTargets(ctx context.Context, userID uuid.UUID, kind models.TargetKind, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	ListByTarget(ctx context.Context, kind models.TargetKind, targetID uuid.UUID, offset, limit int) ([]*models.Like, error)
}

type FollowStore interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	Followers(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.User, error)
	Following(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.User, error)
	FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)
}

// EventPublisher decouples services from the Kafka producer.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event queue.Event) error
}

// CounterCache is the cache-aside store for like counters.
type CounterCache interface {
	GetInt64(ctx context.Context, key string) (int64, error)
	SetInt64(ctx context.Context, key string, value int64, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

var (
	_ UserStore    = (*repository.UserRepository)(nil)
	_ PostStore    = (*repository.PostRepository)(nil)
	_ CommentStore = (*repository.CommentRepository)(nil)
	_ LikeStore    = (*repository.LikeRepository)(nil)
	_ FollowStore  = (*repository.FollowRepository)(nil)
)
