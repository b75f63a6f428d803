package services

import (
	"context"
	"time"

	"github.com/John-6670/SimpleSocialApp/internal/models"
	"github.com/John-6670/SimpleSocialApp/pkg/cache"
	"github.com/John-6670/SimpleSocialApp/pkg/logger"
	"github.com/John-6670/SimpleSocialApp/pkg/queue"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func testLogger() *logger.Logger {
	return logger.New("error", "text")
}

// fakePublisher records published events in order.
type fakePublisher struct {
	events []queue.Event
}

func (f *fakePublisher) Publish(_ context.Context, _ string, event queue.Event) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) eventTypes() []queue.EventType {
	types := make([]queue.EventType, 0, len(f.events))
	for _, e := range f.events {
		types = append(types, e.Type)
	}
	return types
}

// fakeCache is an in-memory CounterCache.
type fakeCache struct {
	counters map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{counters: map[string]int64{}}
}

func (f *fakeCache) GetInt64(_ context.Context, key string) (int64, error) {
	v, ok := f.counters[key]
	if !ok {
		return 0, cache.ErrMiss
	}
	return v, nil
}

func (f *fakeCache) SetInt64(_ context.Context, key string, value int64, _ time.Duration) error {
	f.counters[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.counters, k)
	}
	return nil
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) Search(ctx context.Context, username string, offset, limit int) ([]*models.User, error) {
	args := m.Called(ctx, username, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockPostStore struct {
	mock.Mock
}

func (m *MockPostStore) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostStore) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostStore) List(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostStore) ListByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]*models.Post, error) {
	args := m.Called(ctx, authorID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostStore) ListByAuthors(ctx context.Context, authorIDs []uuid.UUID, offset, limit int) ([]*models.Post, error) {
	args := m.Called(ctx, authorIDs, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostStore) Search(ctx context.Context, term string, offset, limit int) ([]*models.Post, error) {
	args := m.Called(ctx, term, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostStore) IncrementLikeCount(ctx context.Context, postID uuid.UUID, delta int64) error {
	args := m.Called(ctx, postID, delta)
	return args.Error(0)
}

func (m *MockPostStore) IncrementCommentCount(ctx context.Context, postID uuid.UUID, delta int64) error {
	args := m.Called(ctx, postID, delta)
	return args.Error(0)
}

type MockCommentStore struct {
	mock.Mock
}

func (m *MockCommentStore) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentStore) Update(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentStore) ListTopLevel(ctx context.Context, postID uuid.UUID, offset, limit int) ([]*models.Comment, error) {
	args := m.Called(ctx, postID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentStore) ListReplies(ctx context.Context, parentID uuid.UUID, offset, limit int) ([]*models.Comment, error) {
	args := m.Called(ctx, parentID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentStore) Search(ctx context.Context, postID uuid.UUID, term string, offset, limit int) ([]*models.Comment, error) {
	args := m.Called(ctx, postID, term, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentStore) IncrementLikeCount(ctx context.Context, commentID uuid.UUID, delta int64) error {
	args := m.Called(ctx, commentID, delta)
	return args.Error(0)
}

type MockLikeStore struct {
	mock.Mock
}

func (m *MockLikeStore) Create(ctx context.Context, like *models.Like) error {
	args := m.Called(ctx, like)
	return args.Error(0)
}

func (m *MockLikeStore) Delete(ctx context.Context, userID uuid.UUID, kind models.TargetKind, targetID uuid.UUID) error {
	args := m.Called(ctx, userID, kind, targetID)
	return args.Error(0)
}

func (m *MockLikeStore) Get(ctx context.Context, userID uuid.UUID, kind models.TargetKind, targetID uuid.UUID) (*models.Like, error) {
	args := m.Called(ctx, userID, kind, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Like), args.Error(1)
}

func (m *MockLikeStore) Count(ctx context.Context, kind models.TargetKind, targetID uuid.UUID) (int64, error) {
	args := m.Called(ctx, kind, targetID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLikeStore) IsLiked(ctx context.Context, userID uuid.UUID, kind models.TargetKind, targetID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, kind, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeStore) LikedTargets(ctx context.Context, userID uuid.UUID, kind models.TargetKind, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, userID, kind, targetIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}

func (m *MockLikeStore) ListByTarget(ctx context.Context, kind models.TargetKind, targetID uuid.UUID, offset, limit int) ([]*models.Like, error) {
	args := m.Called(ctx, kind, targetID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Like), args.Error(1)
}

type MockFollowStore struct {
	mock.Mock
}

func (m *MockFollowStore) Create(ctx context.Context, follow *models.Follow) error {
	args := m.Called(ctx, follow)
	return args.Error(0)
}

func (m *MockFollowStore) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	args := m.Called(ctx, followerID, followingID)
	return args.Error(0)
}

func (m *MockFollowStore) Followers(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.User, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockFollowStore) Following(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.User, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockFollowStore) FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockFollowStore) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowStore) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
