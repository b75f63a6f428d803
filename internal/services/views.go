package services

import (
	"time"

	"github.com/John-6670/SimpleSocialApp/internal/models"
	"github.com/google/uuid"
)

// AuthorView is the compact public projection of a user: the author
// summary embedded in post and comment projections, and the element type
// of every user listing. It never carries email or other private fields.
type AuthorView struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Avatar      string    `json:"avatar"`
}

// PostView is a post annotated with engagement state for a viewer.
type PostView struct {
	ID            uuid.UUID  `json:"id"`
	Author        AuthorView `json:"author"`
	Content       string     `json:"content"`
	ImageURL      string     `json:"image_url,omitempty"`
	IsPublished   bool       `json:"is_published"`
	LikeCount     int64      `json:"like_count"`
	CommentCount  int64      `json:"comment_count"`
	LikedByViewer bool       `json:"liked_by_viewer"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CommentView is a comment annotated with engagement state for a viewer.
type CommentView struct {
	ID            uuid.UUID  `json:"id"`
	PostID        uuid.UUID  `json:"post_id"`
	ParentID      *uuid.UUID `json:"parent_id,omitempty"`
	Author        AuthorView `json:"author"`
	Content       string     `json:"content"`
	LikeCount     int64      `json:"like_count"`
	LikedByViewer bool       `json:"liked_by_viewer"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// UserView is the public projection of a user, without email or other
// private fields.
type UserView struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	Bio            string    `json:"bio"`
	Avatar         string    `json:"avatar"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
}

func authorView(user models.User) AuthorView {
	return AuthorView{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Avatar:      user.Avatar,
	}
}

// authorViews projects a user listing. The result is never nil, so empty
// listings serialize as [] rather than null.
func authorViews(users []*models.User) []*AuthorView {
	views := make([]*AuthorView, 0, len(users))
	for _, user := range users {
		view := authorView(*user)
		views = append(views, &view)
	}
	return views
}

func postView(post *models.Post, likedByViewer bool) *PostView {
	return &PostView{
		ID:            post.ID,
		Author:        authorView(post.Author),
		Content:       post.Content,
		ImageURL:      post.ImageURL,
		IsPublished:   post.IsPublished,
		LikeCount:     post.LikeCount,
		CommentCount:  post.CommentCount,
		LikedByViewer: likedByViewer,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
}

func commentView(comment *models.Comment, likedByViewer bool) *CommentView {
	return &CommentView{
		ID:            comment.ID,
		PostID:        comment.PostID,
		ParentID:      comment.ParentID,
		Author:        authorView(comment.Author),
		Content:       comment.Content,
		LikeCount:     comment.LikeCount,
		LikedByViewer: likedByViewer,
		CreatedAt:     comment.CreatedAt,
		UpdatedAt:     comment.UpdatedAt,
	}
}
