package handlers

import (
	"net/http"

	"github.com/John-6670/SimpleSocialApp/internal/models"
	"github.com/John-6670/SimpleSocialApp/internal/services"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *services.CommentService
	likeService    *services.LikeService
}

func NewCommentHandler(commentService *services.CommentService, likeService *services.LikeService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		likeService:    likeService,
	}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), actorID(c), postID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	offset, limit := pagination(c)
	comments, err := h.commentService.ListForPost(c.Request.Context(), actorID(c), postID, c.Query("search"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *CommentHandler) ListReplies(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	offset, limit := pagination(c)
	replies, err := h.commentService.ListReplies(c.Request.Context(), actorID(c), commentID, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"replies": replies})
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), actorID(c), commentID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), actorID(c), commentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) ToggleLike(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.likeService.Toggle(c.Request.Context(), actorID(c), models.TargetComment, commentID)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Liked {
		c.JSON(http.StatusCreated, result)
		return
	}
	c.Status(http.StatusNoContent)
}
