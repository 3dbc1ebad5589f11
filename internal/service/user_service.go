package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "cohorts/internal/errors"
	"cohorts/internal/model"
	"cohorts/internal/repository"
)

// UserService exposes user lookups. Only public projections leave it.
type UserService interface {
	GetUser(ctx context.Context, id string) (*model.PublicUser, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService over the repository.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUser(ctx context.Context, id string) (*model.PublicUser, error) {
	id, ok := model.ParseID(id)
	if !ok {
		return nil, apperrors.InvalidID()
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound()
		}
		return nil, apperrors.Internal(fmt.Errorf("get user %s: %w", id, err))
	}
	public := user.Public()
	return &public, nil
}
