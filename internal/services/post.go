package services

import (
	"context"
	"strings"

	"github.com/John-6670/SimpleSocialApp/internal/models"
	"github.com/John-6670/SimpleSocialApp/pkg/errs"
	"github.com/John-6670/SimpleSocialApp/pkg/logger"
	"github.com/John-6670/SimpleSocialApp/pkg/queue"
	"github.com/google/uuid"
)

// PostService owns the post lifecycle and composes the feed.
type PostService struct {
	postStore   PostStore
	userStore   UserStore
	followStore FollowStore
	likeStore   LikeStore
	producer    EventPublisher
	logger      *logger.Logger
}

func NewPostService(postStore PostStore, userStore UserStore, followStore FollowStore, likeStore LikeStore, producer EventPublisher, logger *logger.Logger) *PostService {
	return &PostService{
		postStore:   postStore,
		userStore:   userStore,
		followStore: followStore,
		likeStore:   likeStore,
		producer:    producer,
		logger:      logger,
	}
}

type CreatePostRequest struct {
	Content     string `json:"content" binding:"required,min=1,max=5000"`
	ImageURL    string `json:"image_url"`
	IsPublished *bool  `json:"is_published"`
}

type UpdatePostRequest struct {
	Content     *string `json:"content" binding:"omitempty,min=1,max=5000"`
	ImageURL    *string `json:"image_url"`
	IsPublished *bool   `json:"is_published"`
}

// List builds the feed for a viewer. Search takes precedence over the
// follow graph, which takes precedence over the global listing; every
// branch is ordered newest first and never re-ranked.
func (s *PostService) List(ctx context.Context, viewerID *uuid.UUID, search string, offset, limit int) ([]*PostView, error) {
	var (
		posts []*models.Post
		err   error
	)

	search = strings.TrimSpace(search)
	switch {
	case search != "":
		posts, err = s.postStore.Search(ctx, search, offset, limit)
	case viewerID != nil:
		var followingIDs []uuid.UUID
		followingIDs, err = s.followStore.FollowingIDs(ctx, *viewerID)
		if err != nil {
			return nil, err
		}
		if len(followingIDs) > 0 {
			posts, err = s.postStore.ListByAuthors(ctx, followingIDs, offset, limit)
		} else {
			posts, err = s.postStore.List(ctx, offset, limit)
		}
	default:
		posts, err = s.postStore.List(ctx, offset, limit)
	}
	if err != nil {
		return nil, err
	}

	return s.annotate(ctx, viewerID, posts)
}

func (s *PostService) ListByUser(ctx context.Context, viewerID *uuid.UUID, username string, offset, limit int) ([]*PostView, error) {
	author, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
	}

	posts, err := s.postStore.ListByAuthor(ctx, author.ID, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, viewerID, posts)
}

func (s *PostService) Create(ctx context.Context, actorID *uuid.UUID, req *CreatePostRequest) (*PostView, error) {
	if actorID == nil {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "You must be logged in.")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errs.Errorf(errs.EINVALID, "Post content must not be empty.")
	}

	author, err := s.userStore.GetByID(ctx, *actorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "You must be logged in.")
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	post := &models.Post{
		AuthorID:    *actorID,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		IsPublished: published,
	}
	if err := s.postStore.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = *author

	event := queue.NewEvent(queue.EventPostCreated, queue.PostEventData{
		PostID:   post.ID.String(),
		AuthorID: actorID.String(),
	})
	if err := s.producer.Publish(ctx, actorID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish post created event")
	}

	s.logger.WithFields(map[string]interface{}{
		"post_id":   post.ID,
		"author_id": actorID.String(),
	}).Info("Post created")

	return postView(post, false), nil
}

func (s *PostService) Get(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*PostView, error) {
	post, err := s.postStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
	}

	liked := false
	if viewerID != nil {
		liked, err = s.likeStore.IsLiked(ctx, *viewerID, models.TargetPost, id)
		if err != nil {
			return nil, err
		}
	}
	return postView(post, liked), nil
}

func (s *PostService) Update(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req *UpdatePostRequest) (*PostView, error) {
	post, err := s.postStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorizeWrite(actor, post); err != nil {
		return nil, err
	}

	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, errs.Errorf(errs.EINVALID, "Post content must not be empty.")
		}
		post.Content = *req.Content
	}
	if req.ImageURL != nil {
		post.ImageURL = *req.ImageURL
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	if err := s.postStore.Update(ctx, post); err != nil {
		return nil, err
	}

	event := queue.NewEvent(queue.EventPostUpdated, queue.PostEventData{
		PostID:   post.ID.String(),
		AuthorID: post.AuthorID.String(),
	})
	if err := s.producer.Publish(ctx, post.AuthorID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish post updated event")
	}

	liked, err := s.likeStore.IsLiked(ctx, *actorID, models.TargetPost, id)
	if err != nil {
		return nil, err
	}
	return postView(post, liked), nil
}

func (s *PostService) Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error {
	post, err := s.postStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return errs.Errorf(errs.EUNAUTHENTICATED, "You must be logged in.")
	}
	if !CanDelete(actor, post) {
		return errs.Errorf(errs.EFORBIDDEN, "You do not have permission to delete this post.")
	}

	if err := s.postStore.Delete(ctx, id); err != nil {
		return err
	}

	event := queue.NewEvent(queue.EventPostDeleted, queue.PostEventData{
		PostID:   post.ID.String(),
		AuthorID: post.AuthorID.String(),
	})
	if err := s.producer.Publish(ctx, post.AuthorID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish post deleted event")
	}

	s.logger.WithField("post_id", id).Info("Post deleted")
	return nil
}

// annotate attaches liked-by-viewer state to each post using one batched
// lookup. Counts come off the denormalized columns the engagement engine
// and the worker maintain.
func (s *PostService) annotate(ctx context.Context, viewerID *uuid.UUID, posts []*models.Post) ([]*PostView, error) {
	views := make([]*PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	liked := map[uuid.UUID]bool{}
	if viewerID != nil {
		ids := make([]uuid.UUID, 0, len(posts))
		for _, post := range posts {
			ids = append(ids, post.ID)
		}
		var err error
		liked, err = s.likeStore.LikedTargets(ctx, *viewerID, models.TargetPost, ids)
		if err != nil {
			return nil, err
		}
	}

	for _, post := range posts {
		views = append(views, postView(post, liked[post.ID]))
	}
	return views, nil
}

// actor loads the acting user; nil id or a vanished user both come back as
// a nil actor, which the policy treats as unauthenticated.
func (s *PostService) actor(ctx context.Context, actorID *uuid.UUID) (*models.User, error) {
	if actorID == nil {
		return nil, nil
	}
	return s.userStore.GetByID(ctx, *actorID)
}
