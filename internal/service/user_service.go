package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"trackmyfood/internal/cache"
	"trackmyfood/internal/dto"
	"trackmyfood/internal/errors"
	"trackmyfood/internal/model"
	"trackmyfood/internal/repository"
)

const (
	bcryptCost      = 10
	profileCacheTTL = 5 * time.Minute
)

// UserService exposes account lifecycle operations.
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error)
	GetProfile(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, patch *dto.ProfileUpdate) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID uint, password string) error
	ListUsers(ctx context.Context, requesterID uint) ([]model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("profile:%d", id)
}

// Register creates a new user with a hashed password. Usernames are unique;
// enum fields must carry known codes.
func (s *userService) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	taken, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, errors.ErrUsernameTaken
	}

	user := req.ToUser()
	if user.ActivityLevel != nil && !user.ActivityLevel.Valid() {
		return nil, errors.ErrInvalidChoice
	}
	if !user.UnitPreference.Valid() {
		return nil, errors.ErrInvalidChoice
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// GetProfile returns a user by id, served from cache when possible.
func (s *userService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(userID)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(userID), payload, profileCacheTTL)
	}
	return user, nil
}

// UpdateProfile merges a partial patch onto the stored record. Fields absent
// from the patch keep their prior value.
func (s *userService) UpdateProfile(ctx context.Context, userID uint, patch *dto.ProfileUpdate) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	patch.Apply(user)
	if user.ActivityLevel != nil && !user.ActivityLevel.Valid() {
		return nil, errors.ErrInvalidChoice
	}
	if !user.UnitPreference.Valid() {
		return nil, errors.ErrInvalidChoice
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return user, nil
}

// ChangePassword replaces the stored hash after verifying the old password.
func (s *userService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return errors.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, string(hashed)); err != nil {
		return fmt.Errorf("store password hash: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return nil
}

// DeleteAccount hard-deletes the record after re-verifying the password.
func (s *userService) DeleteAccount(ctx context.Context, userID uint, password string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return errors.ErrWrongPassword
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return nil
}

// ListUsers returns every user for staff requesters. Non-staff requesters get
// a single-element list holding their own record; the scope narrows silently
// rather than erroring.
func (s *userService) ListUsers(ctx context.Context, requesterID uint) ([]model.User, error) {
	requester, err := s.repo.FindByID(ctx, requesterID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	if requester.IsStaff {
		return s.repo.List(ctx)
	}
	return []model.User{*requester}, nil
}
