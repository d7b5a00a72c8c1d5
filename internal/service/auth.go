package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
	"golang.org/x/crypto/bcrypt"

	"github.com/jo-france/reservation-api/internal/domain"
	"github.com/jo-france/reservation-api/internal/pkg/ticketkey"
	"github.com/jo-france/reservation-api/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrWrongPassword   = errors.New("wrong password")
	ErrWeakPassword    = errors.New("password must be at least 8 characters and contain a digit")
)

// At least 8 characters with at least one digit. regexp2 because the
// look-ahead is not supported by the standard library.
var passwordPolicy = regexp2.MustCompile(`^(?=.*\d).{8,}$`, regexp2.None)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type AuthService struct {
	repo AuthUserRepository
}

func NewAuthService(repo AuthUserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

// Register creates a user with a bcrypt password hash and a fresh,
// immutable key1. Weak passwords and duplicate emails are rejected.
func (s *AuthService) Register(ctx context.Context, user domain.User) (domain.User, error) {
	if ok, _ := passwordPolicy.MatchString(user.Password); !ok {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}
	user.Password = string(hash)

	user.Key1, err = ticketkey.NewSecret()
	if err != nil {
		return domain.User{}, fmt.Errorf("ticketkey.NewSecret -> %w", err)
	}

	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserEmailExists) {
			return domain.User{}, ErrUserEmailExists
		}

		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}
