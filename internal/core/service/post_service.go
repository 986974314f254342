package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/martijn/miniblog/internal/core/domain"
	"github.com/martijn/miniblog/internal/core/repository"
)

// PostService enforces the post business rules: authentication, field
// presence, and the owner-or-admin check on mutations.
type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// Create makes a new post owned by the caller. Any authenticated user may
// create posts.
func (s *PostService) Create(ctx context.Context, caller *domain.User, topic, content string) error {
	if caller == nil {
		return domain.ErrAuthRequired
	}
	if topic == "" || content == "" {
		return domain.ErrMissingTopicContent
	}

	post := domain.NewPost(caller.ID, topic, content)
	if err := s.postRepo.Create(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// Edit applies a partial update to a post the caller owns (or any post, for
// admins). An empty topic or content leaves that field unchanged.
func (s *PostService) Edit(ctx context.Context, caller *domain.User, postID int64, topic, content string) error {
	if caller == nil {
		return domain.ErrAuthRequired
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if !caller.CanModify(post) {
		return domain.ErrPermissionDenied
	}

	if topic != "" {
		post.Topic = topic
	}
	if content != "" {
		post.Content = content
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// Delete removes a post the caller owns (or any post, for admins).
func (s *PostService) Delete(ctx context.Context, caller *domain.User, postID int64) error {
	if caller == nil {
		return domain.ErrAuthRequired
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if !caller.CanModify(post) {
		return domain.ErrPermissionDenied
	}

	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// AdminDelete removes any post regardless of ownership. Admin only.
func (s *PostService) AdminDelete(ctx context.Context, caller *domain.User, postID int64) error {
	if caller == nil || !caller.IsAdmin {
		return domain.ErrAdminRequired
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// List returns every post with its author, in insertion order. Available to
// anonymous callers; email redaction happens at the API boundary.
func (s *PostService) List(ctx context.Context) ([]*domain.PostWithAuthor, error) {
	posts, err := s.postRepo.ListWithAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) getPost(ctx context.Context, postID int64) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}
