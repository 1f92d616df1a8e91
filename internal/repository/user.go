package repository

import (
	"context"

	"github.com/jaekwang-park/agenda-api/internal/model"
)

type UserRepository interface {
	GetOrCreate(ctx context.Context, subject string) (model.User, error)
	GetBySubject(ctx context.Context, subject string) (model.User, error)
}
