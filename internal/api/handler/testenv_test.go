package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/martijn/miniblog/internal/api/middleware"
	"github.com/martijn/miniblog/internal/core/repository"
	"github.com/martijn/miniblog/internal/core/service"
	"github.com/martijn/miniblog/internal/infrastructure/sqlite"
)

// testEnv holds all test dependencies
type testEnv struct {
	db       *sqlite.DB
	router   *gin.Engine
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	auth     *service.AuthService
	users    *service.UserService
}

// setupTestEnv creates a test environment with an in-memory SQLite database
// and the full middleware chain in front of the RPC endpoint.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	userRepo := sqlite.NewUserRepository(db)
	postRepo := sqlite.NewPostRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)

	authService := service.NewAuthService(userRepo, sessionRepo, "test-secret", time.Hour)
	postService := service.NewPostService(postRepo)
	userService := service.NewUserService(userRepo, sessionRepo, authService)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rpcHandler := NewRPCHandler(authService, postService, userService, logger, 3600, false)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.SessionMiddleware(authService))
	router.POST("/api", rpcHandler.Dispatch)

	return &testEnv{
		db:       db,
		router:   router,
		userRepo: userRepo,
		postRepo: postRepo,
		auth:     authService,
		users:    userService,
	}
}

// post sends a raw body to /api with the given cookies attached.
func (env *testEnv) post(t *testing.T, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// rpc builds an envelope, sends it and decodes the response body.
func (env *testEnv) rpc(t *testing.T, method string, params any, cookies []*http.Cookie) map[string]any {
	t.Helper()

	envelope := map[string]any{"method": method, "id": 1}
	if params != nil {
		envelope["params"] = params
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	w := env.post(t, string(raw), cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d for %s: %s", w.Code, method, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

// register creates a user through the RPC surface.
func (env *testEnv) register(t *testing.T, login, email string) {
	t.Helper()

	resp := env.rpc(t, "register", map[string]any{
		"login":    login,
		"password": "Pass123!",
		"name":     "User " + login,
		"email":    email,
	}, nil)
	if resp["error"] != nil {
		t.Fatalf("failed to register %s: %v", login, resp["error"])
	}
}

// login authenticates and returns the session cookies.
func (env *testEnv) login(t *testing.T, login, password string) []*http.Cookie {
	t.Helper()

	raw, _ := json.Marshal(map[string]any{
		"method": "login",
		"params": map[string]any{"login": login, "password": password},
		"id":     1,
	})
	w := env.post(t, string(raw), nil)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse login response: %v", err)
	}
	if resp["error"] != nil {
		t.Fatalf("failed to log in as %s: %v", login, resp["error"])
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login set no session cookie")
	}
	return cookies
}

// seedAdmin ensures the bootstrap admin exists and returns its cookies.
func (env *testEnv) seedAdmin(t *testing.T) []*http.Cookie {
	t.Helper()

	if _, err := env.users.EnsureAdmin(t.Context(), "adminpass"); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	return env.login(t, "admin", "adminpass")
}

// createPost makes a post as the given caller and returns its id.
func (env *testEnv) createPost(t *testing.T, cookies []*http.Cookie, topic, content string) int64 {
	t.Helper()

	resp := env.rpc(t, "create_post", map[string]any{"topic": topic, "content": content}, cookies)
	if resp["error"] != nil {
		t.Fatalf("failed to create post: %v", resp["error"])
	}

	posts := env.getPosts(t, cookies)
	last := posts[len(posts)-1].(map[string]any)
	return int64(last["id"].(float64))
}

// getPosts returns the raw get_posts result entries.
func (env *testEnv) getPosts(t *testing.T, cookies []*http.Cookie) []any {
	t.Helper()

	resp := env.rpc(t, "get_posts", nil, cookies)
	if resp["error"] != nil {
		t.Fatalf("get_posts failed: %v", resp["error"])
	}
	result, ok := resp["result"].([]any)
	if !ok {
		t.Fatalf("get_posts result is not a list: %v", resp["result"])
	}
	return result
}
