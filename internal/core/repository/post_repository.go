package repository

import (
	"context"

	"github.com/martijn/miniblog/internal/core/domain"
)

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id int64) error
	// ListWithAuthors returns every post joined with its author, in
	// insertion order.
	ListWithAuthors(ctx context.Context) ([]*domain.PostWithAuthor, error)
}
