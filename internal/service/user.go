package service

import (
	"context"
	"fmt"

	"github.com/jo-france/reservation-api/internal/domain"
	"github.com/jo-france/reservation-api/internal/repository"
)

var ErrUserNotFound = repository.ErrUserNotFound

// PageSize is the fixed page size of every admin listing. One extra
// row is fetched to detect whether a next page exists.
const PageSize = 10

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// ListUsers returns one page of users ordered by id and whether more
// pages follow. Pages start at 1.
func (s *UserService) ListUsers(ctx context.Context, page int) ([]domain.User, bool, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	users, err := s.repo.List(ctx, PageSize+1, offset)
	if err != nil {
		return nil, false, fmt.Errorf("s.repo.List -> %w", err)
	}

	hasNext := len(users) > PageSize
	if hasNext {
		users = users[:PageSize]
	}

	return users, hasNext, nil
}
