package handlers

import (
	"net/http"
	"time"

	"github.com/John-6670/SimpleSocialApp/internal/middleware"
	"github.com/John-6670/SimpleSocialApp/internal/services"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService   *services.UserService
	followService *services.FollowService
	jwtSecret     string
	jwtExpire     time.Duration
}

func NewUserHandler(userService *services.UserService, followService *services.FollowService, jwtSecret string, jwtExpire time.Duration) *UserHandler {
	if jwtExpire <= 0 {
		jwtExpire = 24 * time.Hour
	}
	return &UserHandler{
		userService:   userService,
		followService: followService,
		jwtSecret:     jwtSecret,
		jwtExpire:     jwtExpire,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created",
		"user":    user,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user.ID.String(), user.Username, h.jwtSecret, h.jwtExpire)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.Profile(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), actorID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated",
		"user":    user,
	})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), actorID(c), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	offset, limit := pagination(c)
	users, err := h.userService.Search(c.Request.Context(), c.Query("username"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ToggleFollow flips the follow edge toward the named user. A new edge is
// a 201; removing the existing one is a 204 with no body.
func (h *UserHandler) ToggleFollow(c *gin.Context) {
	result, err := h.followService.Toggle(c.Request.Context(), actorID(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Following {
		c.JSON(http.StatusCreated, result)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) GetFollowers(c *gin.Context) {
	offset, limit := pagination(c)
	followers, err := h.followService.Followers(c.Request.Context(), actorID(c), c.Param("username"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"followers": followers})
}

func (h *UserHandler) GetFollowing(c *gin.Context) {
	offset, limit := pagination(c)
	following, err := h.followService.Following(c.Request.Context(), actorID(c), c.Param("username"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}
