package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mesto/internal/cache"
	apperrors "mesto/internal/errors"
	"mesto/internal/model"
	"mesto/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes profile operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id, name, about string) (*model.User, error)
	UpdateAvatar(ctx context.Context, id, avatar string) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id, name, about string) (*model.User, error) {
	return s.update(ctx, id, model.UserUpdate{Name: &name, About: &about})
}

func (s *userService) UpdateAvatar(ctx context.Context, id, avatar string) (*model.User, error) {
	return s.update(ctx, id, model.UserUpdate{Avatar: &avatar})
}

func (s *userService) update(ctx context.Context, id string, update model.UserUpdate) (*model.User, error) {
	user, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, s.translate(err, id)
	}
	s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) translate(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.Newf(apperrors.KindNotFound, "user with id %s not found", id)
	}
	return apperrors.Internal(err)
}
