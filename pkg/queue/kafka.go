package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type KafkaProducer struct {
	writer *kafka.Writer
}

type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
		Async:    false,
	}

	return &KafkaProducer{writer: writer}
}

func NewKafkaConsumer(brokers []string, topic, groupID string) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: 1 * time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	return &KafkaConsumer{reader: reader}
}

func (p *KafkaProducer) Publish(ctx context.Context, key string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	return p.writer.WriteMessages(ctx, message)
}

// Subscribe reads events until ctx is cancelled, passing each decoded event
// to handler. Undecodable messages and handler errors are logged and
// skipped, not fatal.
func (c *KafkaConsumer) Subscribe(ctx context.Context, handler func(Event) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			message, err := c.reader.ReadMessage(ctx)
			if err != nil {
				return fmt.Errorf("failed to read message: %w", err)
			}
			c.dispatch(message, handler)
		}
	}
}

func (c *KafkaConsumer) dispatch(message kafka.Message, handler func(Event) error) {
	var event Event
	if err := json.Unmarshal(message.Value, &event); err != nil {
		logrus.WithError(err).Warn("Failed to unmarshal event")
		return
	}

	if err := handler(event); err != nil {
		logrus.WithError(err).WithField("event_type", event.Type).Error("Failed to handle event")
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

type EventType string

const (
	EventUserCreated    EventType = "user_created"
	EventPostCreated    EventType = "post_created"
	EventPostUpdated    EventType = "post_updated"
	EventPostDeleted    EventType = "post_deleted"
	EventFollowCreated  EventType = "follow_created"
	EventFollowDeleted  EventType = "follow_deleted"
	EventLikeCreated    EventType = "like_created"
	EventLikeDeleted    EventType = "like_deleted"
	EventCommentCreated EventType = "comment_created"
	EventCommentDeleted EventType = "comment_deleted"
)

type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent marshals data into the event payload. Marshal failures are
// programming errors; the payload types below are all marshalable.
func NewEvent(eventType EventType, data interface{}) Event {
	raw, _ := json.Marshal(data)
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      raw,
	}
}

type PostEventData struct {
	PostID   string `json:"post_id"`
	AuthorID string `json:"author_id"`
}

type FollowEventData struct {
	FollowerID  string `json:"follower_id"`
	FollowingID string `json:"following_id"`
}

// LikeEventData identifies the reactable target by kind and id, matching
// the polymorphic like rows.
type LikeEventData struct {
	UserID     string `json:"user_id"`
	TargetKind string `json:"target_kind"`
	TargetID   string `json:"target_id"`
}

type CommentEventData struct {
	CommentID string `json:"comment_id"`
	AuthorID  string `json:"author_id"`
	PostID    string `json:"post_id"`
}

type UserEventData struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
