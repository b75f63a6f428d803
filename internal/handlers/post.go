package handlers

import (
	"net/http"

	"github.com/John-6670/SimpleSocialApp/internal/models"
	"github.com/John-6670/SimpleSocialApp/internal/services"
	"github.com/John-6670/SimpleSocialApp/pkg/errs"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PostHandler struct {
	postService *services.PostService
	likeService *services.LikeService
}

func NewPostHandler(postService *services.PostService, likeService *services.LikeService) *PostHandler {
	return &PostHandler{
		postService: postService,
		likeService: likeService,
	}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postService.Create(c.Request.Context(), actorID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// ListPosts is the feed endpoint: a non-empty search term overrides the
// follow-based filter, which overrides the global listing.
func (h *PostHandler) ListPosts(c *gin.Context) {
	offset, limit := pagination(c)
	posts, err := h.postService.List(c.Request.Context(), actorID(c), c.Query("search"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) GetUserPosts(c *gin.Context) {
	offset, limit := pagination(c)
	posts, err := h.postService.ListByUser(c.Request.Context(), actorID(c), c.Param("username"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.postService.Get(c.Request.Context(), actorID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postService.Update(c.Request.Context(), actorID(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), actorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleLike flips the caller's like on a post. Liking is a 201 with the
// new count; unliking is a 204 with no body.
func (h *PostHandler) ToggleLike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.likeService.Toggle(c.Request.Context(), actorID(c), models.TargetPost, id)
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

func (h *PostHandler) GetPostLikes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	offset, limit := pagination(c)
	users, err := h.likeService.Likers(c.Request.Context(), models.TargetPost, id, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// pathID parses a uuid path parameter, writing the error response itself
// on failure.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, errs.Errorf(errs.EINVALID, "Invalid id format."))
		return uuid.Nil, false
	}
	return id, true
}
