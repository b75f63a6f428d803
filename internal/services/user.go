package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/John-6670/SimpleSocialApp/internal/models"
	"github.com/John-6670/SimpleSocialApp/internal/repository"
	"github.com/John-6670/SimpleSocialApp/pkg/errs"
	"github.com/John-6670/SimpleSocialApp/pkg/logger"
	"github.com/John-6670/SimpleSocialApp/pkg/queue"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userStore   UserStore
	followStore FollowStore
	producer    EventPublisher
	logger      *logger.Logger
}

func NewUserService(userStore UserStore, followStore FollowStore, producer EventPublisher, logger *logger.Logger) *UserService {
	return &UserService{
		userStore:   userStore,
		followStore: followStore,
		producer:    producer,
		logger:      logger,
	}
}

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=30"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6,max=72"`
	DisplayName string `json:"display_name" binding:"max=50"`
	Bio         string `json:"bio" binding:"max=500"`
	BirthDate   string `json:"birth_date"` // YYYY-MM-DD
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=50"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	Avatar      *string `json:"avatar"`
	BirthDate   *string `json:"birth_date"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	existing, err := s.userStore.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Errorf(errs.ECONFLICT, "Username is already taken.")
	}

	existing, err = s.userStore.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Errorf(errs.ECONFLICT, "Email address is already taken.")
	}

	var birthDate *time.Time
	if req.BirthDate != "" {
		parsed, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, errs.Errorf(errs.EINVALID, "Birth date must be in YYYY-MM-DD format.")
		}
		birthDate = &parsed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hashed),
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		BirthDate:   birthDate,
		IsActive:    true,
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		// Pre-checks race with concurrent registrations; the unique
		// index has the final word.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, errs.Errorf(errs.ECONFLICT, "Username or email is already taken.")
		}
		return nil, err
	}

	event := queue.NewEvent(queue.EventUserCreated, queue.UserEventData{
		UserID:   user.ID.String(),
		Username: user.Username,
	})
	if err := s.producer.Publish(ctx, user.ID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish user created event")
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	user, err := s.userStore.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "Username or password is incorrect.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "Username or password is incorrect.")
	}

	// Checked after the password so the response never reveals account
	// state to a guesser.
	if !user.IsActive {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "This account has been deactivated.")
	}

	return user, nil
}

// Profile returns the acting user's own record. An anonymous caller gets
// a "not logged in" failure, distinct from forbidden.
func (s *UserService) Profile(ctx context.Context, actorID *uuid.UUID) (*models.User, error) {
	if actorID == nil {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "You are not logged in.")
	}
	user, err := s.userStore.GetByID(ctx, *actorID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
	}
	return user, nil
}

// GetByUsername returns the public view of a user, resolved
// case-insensitively.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*UserView, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
	}

	followers, err := s.followStore.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.followStore.CountFollowing(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &UserView{
		ID:             user.ID,
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		Bio:            user.Bio,
		Avatar:         user.Avatar,
		FollowerCount:  followers,
		FollowingCount: following,
		CreatedAt:      user.CreatedAt,
	}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, actorID *uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.Profile(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.BirthDate != nil {
		if *req.BirthDate == "" {
			user.BirthDate = nil
		} else {
			parsed, err := time.Parse("2006-01-02", *req.BirthDate)
			if err != nil {
				return nil, errs.Errorf(errs.EINVALID, "Birth date must be in YYYY-MM-DD format.")
			}
			user.BirthDate = &parsed
		}
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("Profile updated")
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, actorID *uuid.UUID, req *ChangePasswordRequest) error {
	user, err := s.Profile(ctx, actorID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return errs.Errorf(errs.EINVALID, "Old password is incorrect.")
	}
	if req.NewPassword != req.ConfirmPassword {
		return errs.Errorf(errs.EINVALID, "Passwords don't match.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := s.userStore.Update(ctx, user); err != nil {
		return err
	}

	s.logger.WithField("user_id", user.ID).Info("Password changed")
	return nil
}

// Search finds users by username substring and returns their public
// projections. An empty term is rejected rather than listing everyone.
func (s *UserService) Search(ctx context.Context, term string, offset, limit int) ([]*AuthorView, error) {
	if strings.TrimSpace(term) == "" {
		return nil, errs.Errorf(errs.EINVALID, "Query parameter 'username' is required.")
	}

	users, err := s.userStore.Search(ctx, term, offset, limit)
	if err != nil {
		return nil, err
	}
	return authorViews(users), nil
}
