package service

import (
	"context"
	"fmt"

	"github.com/jaekwang-park/agenda-api/internal/repository"
)

// UserService maps identity-provider subjects to the user ids that partition
// tasks, creating the user on first sight.
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) ResolveUserID(ctx context.Context, subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	user, err := s.repo.GetOrCreate(ctx, subject)
	if err != nil {
		return "", fmt.Errorf("failed to resolve user: %w", err)
	}
	return user.ID, nil
}
