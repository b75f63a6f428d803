package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/John-6670/SimpleSocialApp/internal/models"
	"github.com/John-6670/SimpleSocialApp/internal/repository"
	"github.com/John-6670/SimpleSocialApp/pkg/errs"
	"github.com/John-6670/SimpleSocialApp/pkg/queue"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type followFixture struct {
	users    *MockUserStore
	follows  *MockFollowStore
	producer *fakePublisher
	service  *FollowService
}

func newFollowFixture() *followFixture {
	f := &followFixture{
		users:    new(MockUserStore),
		follows:  new(MockFollowStore),
		producer: &fakePublisher{},
	}
	f.service = NewFollowService(f.users, f.follows, f.producer, testLogger())
	return f
}

func TestFollowToggle(t *testing.T) {
	ctx := context.Background()

	t.Run("no edge creates one", func(t *testing.T) {
		f := newFollowFixture()
		actorID := uuid.New()
		target := &models.User{ID: uuid.New(), Username: "bob"}

		f.users.On("GetByUsername", ctx, "bob").Return(target, nil)
		f.follows.On("Create", ctx, mock.AnythingOfType("*models.Follow")).Return(nil)

		result, err := f.service.Toggle(ctx, &actorID, "bob")

		assert.NoError(t, err)
		assert.True(t, result.Following)
		assert.Equal(t, []queue.EventType{queue.EventFollowCreated}, f.producer.eventTypes())
		f.follows.AssertExpectations(t)
	})

	t.Run("duplicate edge deletes it instead", func(t *testing.T) {
		f := newFollowFixture()
		actorID := uuid.New()
		target := &models.User{ID: uuid.New(), Username: "bob"}

		f.users.On("GetByUsername", ctx, "bob").Return(target, nil)
		f.follows.On("Create", ctx, mock.AnythingOfType("*models.Follow")).Return(repository.ErrDuplicateKey)
		f.follows.On("Delete", ctx, actorID, target.ID).Return(nil)

		result, err := f.service.Toggle(ctx, &actorID, "bob")

		assert.NoError(t, err)
		assert.False(t, result.Following)
		assert.Equal(t, []queue.EventType{queue.EventFollowDeleted}, f.producer.eventTypes())
		f.follows.AssertExpectations(t)
	})

	t.Run("self follow is rejected before any write", func(t *testing.T) {
		f := newFollowFixture()
		actorID := uuid.New()

		f.users.On("GetByUsername", ctx, "me").Return(&models.User{ID: actorID, Username: "me"}, nil)

		_, err := f.service.Toggle(ctx, &actorID, "me")

		assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
		f.follows.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown target is not found", func(t *testing.T) {
		f := newFollowFixture()
		actorID := uuid.New()

		f.users.On("GetByUsername", ctx, "ghost").Return(nil, nil)

		_, err := f.service.Toggle(ctx, &actorID, "ghost")

		assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	})

	t.Run("anonymous actor is rejected", func(t *testing.T) {
		f := newFollowFixture()

		_, err := f.service.Toggle(ctx, nil, "bob")

		assert.Equal(t, errs.EUNAUTHENTICATED, errs.ErrorCode(err))
		f.users.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
	})
}

func TestFollowListings(t *testing.T) {
	ctx := context.Background()

	t.Run("named user resolved by username", func(t *testing.T) {
		f := newFollowFixture()
		target := &models.User{ID: uuid.New(), Username: "bob"}
		followers := []*models.User{{ID: uuid.New(), Username: "alice", DisplayName: "Alice"}}

		f.users.On("GetByUsername", ctx, "bob").Return(target, nil)
		f.follows.On("Followers", ctx, target.ID, 0, 20).Return(followers, nil)

		got, err := f.service.Followers(ctx, nil, "bob", 0, 20)

		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "alice", got[0].Username)
		assert.Equal(t, "Alice", got[0].DisplayName)
	})

	t.Run("follower listing never serializes private fields", func(t *testing.T) {
		f := newFollowFixture()
		target := &models.User{ID: uuid.New(), Username: "alice"}
		birthDate := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)
		followers := []*models.User{{
			ID:        uuid.New(),
			Username:  "bob",
			Email:     "bob@example.com",
			Password:  "hash",
			BirthDate: &birthDate,
		}}

		f.users.On("GetByUsername", ctx, "alice").Return(target, nil)
		f.follows.On("Followers", ctx, target.ID, 0, 20).Return(followers, nil)

		got, err := f.service.Followers(ctx, nil, "alice", 0, 20)
		assert.NoError(t, err)

		payload, err := json.Marshal(got)
		assert.NoError(t, err)
		assert.NotContains(t, string(payload), "email")
		assert.NotContains(t, string(payload), "birth_date")
		assert.NotContains(t, string(payload), "is_active")
		assert.Contains(t, string(payload), `"username":"bob"`)
	})

	t.Run("empty username defaults to the actor", func(t *testing.T) {
		f := newFollowFixture()
		actorID := uuid.New()
		following := []*models.User{{ID: uuid.New(), Username: "carol"}}

		f.users.On("GetByID", ctx, actorID).Return(&models.User{ID: actorID}, nil)
		f.follows.On("Following", ctx, actorID, 0, 20).Return(following, nil)

		got, err := f.service.Following(ctx, &actorID, "", 0, 20)

		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "carol", got[0].Username)
	})

	t.Run("empty username with no actor requires login", func(t *testing.T) {
		f := newFollowFixture()

		_, err := f.service.Followers(ctx, nil, "", 0, 20)

		assert.Equal(t, errs.EUNAUTHENTICATED, errs.ErrorCode(err))
	})

	t.Run("nil store result becomes an empty slice", func(t *testing.T) {
		f := newFollowFixture()
		target := &models.User{ID: uuid.New(), Username: "bob"}

		f.users.On("GetByUsername", ctx, "bob").Return(target, nil)
		f.follows.On("Followers", ctx, target.ID, 0, 20).Return([]*models.User(nil), nil)

		got, err := f.service.Followers(ctx, nil, "bob", 0, 20)

		assert.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
