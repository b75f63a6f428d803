package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TargetKind names the kind of entity a Like points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Valid reports whether k is a known reactable kind.
func (k TargetKind) Valid() bool {
	return k == TargetPost || k == TargetComment
}

type Post struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AuthorID     uuid.UUID      `json:"author_id" gorm:"type:uuid;not null;index"`
	Content      string         `json:"content" gorm:"type:text;not null"`
	ImageURL     string         `json:"image_url"`
	IsPublished  bool           `json:"is_published" gorm:"default:true"`
	LikeCount    int64          `json:"like_count" gorm:"default:0"`
	CommentCount int64          `json:"comment_count" gorm:"default:0"`
	CreatedAt    time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Author User `json:"author" gorm:"foreignKey:AuthorID"`
}

// OwnerID satisfies the ownership policy's Owned interface.
func (p *Post) OwnerID() uuid.UUID {
	return p.AuthorID
}

// Comment rows store the reply tree flat: ParentID references another row
// in the same table, and replies are fetched by a filtered query rather
// than pointer traversal. A parent must belong to the same post.
type Comment struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PostID    uuid.UUID      `json:"post_id" gorm:"type:uuid;not null;index"`
	ParentID  *uuid.UUID     `json:"parent_id" gorm:"type:uuid;index"`
	AuthorID  uuid.UUID      `json:"author_id" gorm:"type:uuid;not null"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	LikeCount int64          `json:"like_count" gorm:"default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Author User `json:"author" gorm:"foreignKey:AuthorID"`
}

func (c *Comment) OwnerID() uuid.UUID {
	return c.AuthorID
}

// Like is a polymorphic reaction row keyed by (user, target kind, target
// id). The three-column unique index is the single arbiter for concurrent
// toggles; rows are hard-deleted so toggling back on reuses the key.
type Like struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_like_user_target"`
	TargetKind TargetKind `json:"target_kind" gorm:"type:varchar(16);not null;uniqueIndex:idx_like_user_target"`
	TargetID   uuid.UUID  `json:"target_id" gorm:"type:uuid;not null;uniqueIndex:idx_like_user_target"`
	CreatedAt  time.Time  `json:"created_at"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

func (Post) TableName() string {
	return "posts"
}

func (Comment) TableName() string {
	return "comments"
}

func (Like) TableName() string {
	return "likes"
}
