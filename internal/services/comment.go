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

// CommentService resolves the comment tree for a post. Comments are stored
// flat; replies reference their parent by id and are fetched with a
// filtered query.
type CommentService struct {
	commentStore CommentStore
	postStore    PostStore
	userStore    UserStore
	likeStore    LikeStore
	producer     EventPublisher
	logger       *logger.Logger
}

func NewCommentService(commentStore CommentStore, postStore PostStore, userStore UserStore, likeStore LikeStore, producer EventPublisher, logger *logger.Logger) *CommentService {
	return &CommentService{
		commentStore: commentStore,
		postStore:    postStore,
		userStore:    userStore,
		likeStore:    likeStore,
		producer:     producer,
		logger:       logger,
	}
}

type CreateCommentRequest struct {
	Content  string     `json:"content" binding:"required,min=1,max=2000"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// ListForPost returns a post's top-level comments, optionally filtered by
// a search term against content or author username. Replies are not
// recursed into; use ListReplies.
func (s *CommentService) ListForPost(ctx context.Context, viewerID *uuid.UUID, postID uuid.UUID, search string, offset, limit int) ([]*CommentView, error) {
	post, err := s.postStore.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
	}

	var comments []*models.Comment
	search = strings.TrimSpace(search)
	if search != "" {
		comments, err = s.commentStore.Search(ctx, postID, search, offset, limit)
	} else {
		comments, err = s.commentStore.ListTopLevel(ctx, postID, offset, limit)
	}
	if err != nil {
		return nil, err
	}

	return s.annotate(ctx, viewerID, comments)
}

// ListReplies returns the direct children of a comment.
func (s *CommentService) ListReplies(ctx context.Context, viewerID *uuid.UUID, commentID uuid.UUID, offset, limit int) ([]*CommentView, error) {
	parent, err := s.commentStore.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "The comment does not exist.")
	}

	replies, err := s.commentStore.ListReplies(ctx, commentID, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, viewerID, replies)
}

func (s *CommentService) Create(ctx context.Context, actorID *uuid.UUID, postID uuid.UUID, req *CreateCommentRequest) (*CommentView, error) {
	if actorID == nil {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "You need to be logged in to comment.")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errs.Errorf(errs.EINVALID, "Comment content must not be empty.")
	}

	author, err := s.userStore.GetByID(ctx, *actorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "You need to be logged in to comment.")
	}

	post, err := s.postStore.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
	}

	if req.ParentID != nil {
		parent, err := s.commentStore.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, errs.Errorf(errs.ENOTFOUND, "The parent comment does not exist.")
		}
		// No cross-post parenting: the reply tree stays inside one post.
		if parent.PostID != postID {
			return nil, errs.Errorf(errs.EINVALID, "The parent comment does not belong to this post.")
		}
	}

	comment := &models.Comment{
		PostID:   postID,
		ParentID: req.ParentID,
		AuthorID: *actorID,
		Content:  req.Content,
	}
	if err := s.commentStore.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = *author

	if err := s.postStore.IncrementCommentCount(ctx, postID, 1); err != nil {
		s.logger.WithError(err).Error("Failed to update post comment count")
	}

	event := queue.NewEvent(queue.EventCommentCreated, queue.CommentEventData{
		CommentID: comment.ID.String(),
		AuthorID:  actorID.String(),
		PostID:    postID.String(),
	})
	if err := s.producer.Publish(ctx, actorID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish comment created event")
	}

	s.logger.WithFields(map[string]interface{}{
		"comment_id": comment.ID,
		"post_id":    postID,
		"author_id":  actorID.String(),
	}).Info("Comment created")

	return commentView(comment, false), nil
}

func (s *CommentService) Update(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req *UpdateCommentRequest) (*CommentView, error) {
	comment, err := s.commentStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "The comment does not exist.")
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorizeWrite(actor, comment); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Content) == "" {
		return nil, errs.Errorf(errs.EINVALID, "Comment content must not be empty.")
	}
	comment.Content = req.Content

	if err := s.commentStore.Update(ctx, comment); err != nil {
		return nil, err
	}

	liked, err := s.likeStore.IsLiked(ctx, *actorID, models.TargetComment, id)
	if err != nil {
		return nil, err
	}
	return commentView(comment, liked), nil
}

func (s *CommentService) Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error {
	comment, err := s.commentStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return errs.Errorf(errs.ENOTFOUND, "The comment does not exist.")
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return errs.Errorf(errs.EUNAUTHENTICATED, "You must be logged in.")
	}
	if !CanDelete(actor, comment) {
		return errs.Errorf(errs.EFORBIDDEN, "You do not have permission to delete this comment.")
	}

	if err := s.commentStore.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.postStore.IncrementCommentCount(ctx, comment.PostID, -1); err != nil {
		s.logger.WithError(err).Error("Failed to update post comment count")
	}

	event := queue.NewEvent(queue.EventCommentDeleted, queue.CommentEventData{
		CommentID: comment.ID.String(),
		AuthorID:  comment.AuthorID.String(),
		PostID:    comment.PostID.String(),
	})
	if err := s.producer.Publish(ctx, comment.AuthorID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish comment deleted event")
	}

	s.logger.WithField("comment_id", id).Info("Comment deleted")
	return nil
}

func (s *CommentService) annotate(ctx context.Context, viewerID *uuid.UUID, comments []*models.Comment) ([]*CommentView, error) {
	views := make([]*CommentView, 0, len(comments))
	if len(comments) == 0 {
		return views, nil
	}

	liked := map[uuid.UUID]bool{}
	if viewerID != nil {
		ids := make([]uuid.UUID, 0, len(comments))
		for _, comment := range comments {
			ids = append(ids, comment.ID)
		}
		var err error
		liked, err = s.likeStore.LikedTargets(ctx, *viewerID, models.TargetComment, ids)
		if err != nil {
			return nil, err
		}
	}

	for _, comment := range comments {
		views = append(views, commentView(comment, liked[comment.ID]))
	}
	return views, nil
}

func (s *CommentService) actor(ctx context.Context, actorID *uuid.UUID) (*models.User, error) {
	if actorID == nil {
		return nil, nil
	}
	return s.userStore.GetByID(ctx, *actorID)
}
