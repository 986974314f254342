package service

import (
	"testing"
	"time"

	"github.com/martijn/miniblog/internal/core/repository"
	"github.com/martijn/miniblog/internal/infrastructure/sqlite"
)

type testServices struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	sessionRepo repository.SessionRepository
	auth        *AuthService
	posts       *PostService
	users       *UserService
}

func newTestServices(t *testing.T) *testServices {
	return newTestServicesTTL(t, time.Hour)
}

func newTestServicesTTL(t *testing.T, ttl time.Duration) *testServices {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	userRepo := sqlite.NewUserRepository(db)
	postRepo := sqlite.NewPostRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	auth := NewAuthService(userRepo, sessionRepo, "test-secret", ttl)

	return &testServices{
		userRepo:    userRepo,
		postRepo:    postRepo,
		sessionRepo: sessionRepo,
		auth:        auth,
		posts:       NewPostService(postRepo),
		users:       NewUserService(userRepo, sessionRepo, auth),
	}
}
