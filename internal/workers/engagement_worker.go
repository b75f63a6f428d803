package workers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/John-6670/SimpleSocialApp/internal/models"
	"github.com/John-6670/SimpleSocialApp/internal/repository"
	"github.com/John-6670/SimpleSocialApp/pkg/cache"
	"github.com/John-6670/SimpleSocialApp/pkg/logger"
	"github.com/John-6670/SimpleSocialApp/pkg/queue"
	"github.com/google/uuid"
)

// EngagementWorker consumes engagement events and reconciles the
// denormalized like/comment counters and the Redis counter cache against
// the actual like and comment rows. A request that crashed between
// writing its like row and bumping the counter leaves drift; recounting
// from the rows fixes it.
type EngagementWorker struct {
	consumer    *queue.KafkaConsumer
	likeRepo    *repository.LikeRepository
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
	cache       *cache.RedisClient
	counterTTL  time.Duration
	logger      *logger.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewEngagementWorker(consumer *queue.KafkaConsumer, likeRepo *repository.LikeRepository, postRepo *repository.PostRepository, commentRepo *repository.CommentRepository, cache *cache.RedisClient, counterTTL time.Duration, logger *logger.Logger) *EngagementWorker {
	if counterTTL <= 0 {
		counterTTL = time.Hour
	}
	// The cancelable context is created here, before Start and Stop can
	// run on different goroutines.
	ctx, cancel := context.WithCancel(context.Background())
	return &EngagementWorker{
		consumer:    consumer,
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		cache:       cache,
		counterTTL:  counterTTL,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start consumes engagement events until Stop is called.
func (w *EngagementWorker) Start() error {
	w.logger.Info("Starting engagement worker")

	return w.consumer.Subscribe(w.ctx, func(event queue.Event) error {
		switch event.Type {
		case queue.EventLikeCreated, queue.EventLikeDeleted:
			return w.reconcileLikes(w.ctx, event)
		case queue.EventCommentCreated, queue.EventCommentDeleted:
			return w.reconcileComments(w.ctx, event)
		default:
			return nil
		}
	})
}

func (w *EngagementWorker) Stop() error {
	w.cancel()
	return w.consumer.Close()
}

func (w *EngagementWorker) reconcileLikes(ctx context.Context, event queue.Event) error {
	var data queue.LikeEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		w.logger.WithError(err).Warn("Dropping malformed like event")
		return nil
	}

	kind := models.TargetKind(data.TargetKind)
	targetID, err := uuid.Parse(data.TargetID)
	if err != nil || !kind.Valid() {
		w.logger.WithField("target_id", data.TargetID).Warn("Dropping like event with bad target")
		return nil
	}

	count, err := w.likeRepo.Count(ctx, kind, targetID)
	if err != nil {
		return err
	}

	switch kind {
	case models.TargetPost:
		err = w.postRepo.SetLikeCount(ctx, targetID, count)
	case models.TargetComment:
		err = w.commentRepo.SetLikeCount(ctx, targetID, count)
	}
	if err != nil {
		return err
	}

	key := "likes:" + string(kind) + ":" + targetID.String()
	if err := w.cache.SetInt64(ctx, key, count, w.counterTTL); err != nil {
		w.logger.WithError(err).Warn("Failed to refresh like counter cache")
	}

	w.logger.WithFields(map[string]interface{}{
		"target_kind": kind,
		"target_id":   targetID,
		"like_count":  count,
	}).Debug("Reconciled like counter")
	return nil
}

func (w *EngagementWorker) reconcileComments(ctx context.Context, event queue.Event) error {
	var data queue.CommentEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		w.logger.WithError(err).Warn("Dropping malformed comment event")
		return nil
	}

	postID, err := uuid.Parse(data.PostID)
	if err != nil {
		w.logger.WithField("post_id", data.PostID).Warn("Dropping comment event with bad post id")
		return nil
	}

	count, err := w.commentRepo.CountByPost(ctx, postID)
	if err != nil {
		return err
	}
	if err := w.postRepo.SetCommentCount(ctx, postID, count); err != nil {
		return err
	}

	w.logger.WithFields(map[string]interface{}{
		"post_id":       postID,
		"comment_count": count,
	}).Debug("Reconciled comment counter")
	return nil
}
