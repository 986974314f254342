package repository

import (
	"context"

	"github.com/martijn/miniblog/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// DeleteCascade removes the user's sessions, then posts, then the user
	// row itself, all inside a single transaction.
	DeleteCascade(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.User, error)
}
