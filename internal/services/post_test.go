package services

import (
	"context"
	"testing"

	"github.com/John-6670/SimpleSocialApp/internal/models"
	"github.com/John-6670/SimpleSocialApp/pkg/errs"
	"github.com/John-6670/SimpleSocialApp/pkg/queue"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type postFixture struct {
	posts    *MockPostStore
	users    *MockUserStore
	follows  *MockFollowStore
	likes    *MockLikeStore
	producer *fakePublisher
	service  *PostService
}

func newPostFixture() *postFixture {
	f := &postFixture{
		posts:    new(MockPostStore),
		users:    new(MockUserStore),
		follows:  new(MockFollowStore),
		likes:    new(MockLikeStore),
		producer: &fakePublisher{},
	}
	f.service = NewPostService(f.posts, f.users, f.follows, f.likes, f.producer, testLogger())
	return f
}

func TestFeedComposition(t *testing.T) {
	ctx := context.Background()

	t.Run("search overrides the follow graph", func(t *testing.T) {
		f := newPostFixture()
		viewerID := uuid.New()
		posts := []*models.Post{{ID: uuid.New(), Content: "go generics"}}

		f.posts.On("Search", ctx, "generics", 0, 20).Return(posts, nil)
		f.likes.On("LikedTargets", ctx, viewerID, models.TargetPost, mock.Anything).
			Return(map[uuid.UUID]bool{}, nil)

		views, err := f.service.List(ctx, &viewerID, "generics", 0, 20)

		assert.NoError(t, err)
		assert.Len(t, views, 1)
		f.follows.AssertNotCalled(t, "FollowingIDs", mock.Anything, mock.Anything)
		f.posts.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("search term is trimmed before deciding", func(t *testing.T) {
		f := newPostFixture()

		f.posts.On("List", ctx, 0, 20).Return([]*models.Post{}, nil)

		views, err := f.service.List(ctx, nil, "   ", 0, 20)

		assert.NoError(t, err)
		assert.Empty(t, views)
		f.posts.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("viewer with followees sees their posts", func(t *testing.T) {
		f := newPostFixture()
		viewerID := uuid.New()
		followeeID := uuid.New()
		posts := []*models.Post{{ID: uuid.New(), AuthorID: followeeID}}

		f.follows.On("FollowingIDs", ctx, viewerID).Return([]uuid.UUID{followeeID}, nil)
		f.posts.On("ListByAuthors", ctx, []uuid.UUID{followeeID}, 0, 20).Return(posts, nil)
		f.likes.On("LikedTargets", ctx, viewerID, models.TargetPost, mock.Anything).
			Return(map[uuid.UUID]bool{posts[0].ID: true}, nil)

		views, err := f.service.List(ctx, &viewerID, "", 0, 20)

		assert.NoError(t, err)
		assert.Len(t, views, 1)
		assert.True(t, views[0].LikedByViewer)
		f.posts.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("viewer following nobody falls back to the global feed", func(t *testing.T) {
		f := newPostFixture()
		viewerID := uuid.New()
		posts := []*models.Post{{ID: uuid.New()}}

		f.follows.On("FollowingIDs", ctx, viewerID).Return([]uuid.UUID{}, nil)
		f.posts.On("List", ctx, 0, 20).Return(posts, nil)
		f.likes.On("LikedTargets", ctx, viewerID, models.TargetPost, mock.Anything).
			Return(map[uuid.UUID]bool{}, nil)

		views, err := f.service.List(ctx, &viewerID, "", 0, 20)

		assert.NoError(t, err)
		assert.Len(t, views, 1)
	})

	t.Run("anonymous viewer sees the global feed unannotated", func(t *testing.T) {
		f := newPostFixture()
		posts := []*models.Post{{ID: uuid.New()}}

		f.posts.On("List", ctx, 0, 20).Return(posts, nil)

		views, err := f.service.List(ctx, nil, "", 0, 20)

		assert.NoError(t, err)
		assert.Len(t, views, 1)
		assert.False(t, views[0].LikedByViewer)
		f.likes.AssertNotCalled(t, "LikedTargets", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no-match search returns an empty page, not an error", func(t *testing.T) {
		f := newPostFixture()

		f.posts.On("Search", ctx, "nothing", 0, 20).Return([]*models.Post{}, nil)

		views, err := f.service.List(ctx, nil, "nothing", 0, 20)

		assert.NoError(t, err)
		assert.NotNil(t, views)
		assert.Empty(t, views)
	})
}

func TestPostCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and publishes", func(t *testing.T) {
		f := newPostFixture()
		actorID := uuid.New()
		author := &models.User{ID: actorID, Username: "alice"}

		f.users.On("GetByID", ctx, actorID).Return(author, nil)
		f.posts.On("Create", ctx, mock.AnythingOfType("*models.Post")).Return(nil)

		view, err := f.service.Create(ctx, &actorID, &CreatePostRequest{Content: "hello"})

		assert.NoError(t, err)
		assert.Equal(t, "hello", view.Content)
		assert.Equal(t, "alice", view.Author.Username)
		assert.True(t, view.IsPublished)
		assert.Equal(t, []queue.EventType{queue.EventPostCreated}, f.producer.eventTypes())
	})

	t.Run("anonymous actor cannot create", func(t *testing.T) {
		f := newPostFixture()

		_, err := f.service.Create(ctx, nil, &CreatePostRequest{Content: "hello"})

		assert.Equal(t, errs.EUNAUTHENTICATED, errs.ErrorCode(err))
	})

	t.Run("blank content is invalid", func(t *testing.T) {
		f := newPostFixture()
		actorID := uuid.New()

		_, err := f.service.Create(ctx, &actorID, &CreatePostRequest{Content: "   "})

		assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
		f.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestPostUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	newPost := func() *models.Post {
		return &models.Post{ID: uuid.New(), AuthorID: ownerID, Content: "original"}
	}

	t.Run("owner updates", func(t *testing.T) {
		f := newPostFixture()
		post := newPost()
		content := "edited"

		f.posts.On("GetByID", ctx, post.ID).Return(post, nil)
		f.users.On("GetByID", ctx, ownerID).Return(&models.User{ID: ownerID}, nil)
		f.posts.On("Update", ctx, post).Return(nil)
		f.likes.On("IsLiked", ctx, ownerID, models.TargetPost, post.ID).Return(false, nil)

		view, err := f.service.Update(ctx, &ownerID, post.ID, &UpdatePostRequest{Content: &content})

		assert.NoError(t, err)
		assert.Equal(t, "edited", view.Content)
	})

	t.Run("non-owner update is forbidden", func(t *testing.T) {
		f := newPostFixture()
		post := newPost()
		strangerID := uuid.New()
		content := "edited"

		f.posts.On("GetByID", ctx, post.ID).Return(post, nil)
		f.users.On("GetByID", ctx, strangerID).Return(&models.User{ID: strangerID}, nil)

		_, err := f.service.Update(ctx, &strangerID, post.ID, &UpdatePostRequest{Content: &content})

		assert.Equal(t, errs.EFORBIDDEN, errs.ErrorCode(err))
		f.posts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("anonymous update is unauthenticated", func(t *testing.T) {
		f := newPostFixture()
		post := newPost()
		content := "edited"

		f.posts.On("GetByID", ctx, post.ID).Return(post, nil)

		_, err := f.service.Update(ctx, nil, post.ID, &UpdatePostRequest{Content: &content})

		assert.Equal(t, errs.EUNAUTHENTICATED, errs.ErrorCode(err))
	})

	t.Run("owner deletes", func(t *testing.T) {
		f := newPostFixture()
		post := newPost()

		f.posts.On("GetByID", ctx, post.ID).Return(post, nil)
		f.users.On("GetByID", ctx, ownerID).Return(&models.User{ID: ownerID}, nil)
		f.posts.On("Delete", ctx, post.ID).Return(nil)

		err := f.service.Delete(ctx, &ownerID, post.ID)

		assert.NoError(t, err)
		assert.Equal(t, []queue.EventType{queue.EventPostDeleted}, f.producer.eventTypes())
	})

	t.Run("non-owner delete is forbidden", func(t *testing.T) {
		f := newPostFixture()
		post := newPost()
		strangerID := uuid.New()

		f.posts.On("GetByID", ctx, post.ID).Return(post, nil)
		f.users.On("GetByID", ctx, strangerID).Return(&models.User{ID: strangerID}, nil)

		err := f.service.Delete(ctx, &strangerID, post.ID)

		assert.Equal(t, errs.EFORBIDDEN, errs.ErrorCode(err))
		f.posts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing post is not found", func(t *testing.T) {
		f := newPostFixture()
		id := uuid.New()

		f.posts.On("GetByID", ctx, id).Return(nil, nil)

		err := f.service.Delete(ctx, &ownerID, id)

		assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	})
}
