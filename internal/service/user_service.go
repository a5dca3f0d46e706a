package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/postloop/postloop-api/internal/models"
	"github.com/postloop/postloop-api/internal/repository"
)

type UserService interface {
	GetUserInfo(ctx context.Context, id int64) (*models.User, error)
	ListActivities(ctx context.Context, userID int64, limit int) ([]*models.Activity, error)
	RemoveUser(ctx context.Context, userID int64) error
}

type userService struct {
	u repository.UserRepository
	a repository.ActivityRepository
}

func NewUserService(u repository.UserRepository, a repository.ActivityRepository) UserService {
	return &userService{
		u: u,
		a: a,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id int64) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Error getting user info")
	}

	if !isExist {
		err = errors.New("User not found")
		slog.Info(err.Error())
		return nil, fmt.Errorf("User doesn't exist")
	}

	return user, nil
}

func (s *userService) ListActivities(ctx context.Context, userID int64, limit int) ([]*models.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	activities, err := s.a.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("Error getting activities")
	}
	return activities, nil
}

func (s *userService) RemoveUser(ctx context.Context, userID int64) error {
	err := s.u.Remove(ctx, userID)
	if err != nil {
		return err
	}
	return nil
}
