package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/martijn/miniblog/internal/core/domain"
)

func TestDispatchInvalidJSON(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"truncated object", `{"method": "get_posts"`},
		{"plain text", "not json at all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.post(t, tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
			body := w.Body.String()
			if !strings.Contains(body, `"error":"Invalid JSON"`) {
				t.Errorf("unexpected body: %s", body)
			}
			if strings.Contains(body, `"id"`) {
				t.Errorf("no id should be echoed for an unparseable body: %s", body)
			}
		})
	}
}

func TestDispatchMethodNotFound(t *testing.T) {
	env := setupTestEnv(t)

	w := env.post(t, `{"method": "explode", "id": 42}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"error":"Method not found"`) {
		t.Errorf("unexpected body: %s", body)
	}
	if !strings.Contains(body, `"id":42`) {
		t.Errorf("id not echoed: %s", body)
	}
}

func TestDispatchEchoesMissingIDAsNull(t *testing.T) {
	env := setupTestEnv(t)

	w := env.post(t, `{"method": "logout"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"id":null`) {
		t.Errorf("expected null id, got: %s", w.Body.String())
	}
}

func TestDispatchEchoesStringID(t *testing.T) {
	env := setupTestEnv(t)

	w := env.post(t, `{"method": "get_posts", "id": "req-7"}`, nil)
	if !strings.Contains(w.Body.String(), `"id":"req-7"`) {
		t.Errorf("id not echoed: %s", w.Body.String())
	}
}

func TestRegisterValidationOrder(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	tests := []struct {
		name    string
		params  map[string]any
		wantErr string
	}{
		{
			name:    "no params",
			params:  map[string]any{},
			wantErr: "Missing required fields",
		},
		{
			name: "empty password",
			params: map[string]any{
				"login": "bob", "password": "", "name": "Bob", "email": "bob@example.com",
			},
			wantErr: "Missing required fields",
		},
		{
			name: "login with spaces",
			params: map[string]any{
				"login": "bad login", "password": "Pass123!", "name": "Bob", "email": "bob@example.com",
			},
			wantErr: "Invalid login",
		},
		{
			name: "password with disallowed characters",
			params: map[string]any{
				"login": "bob", "password": "white space", "name": "Bob", "email": "bob@example.com",
			},
			wantErr: "Invalid password",
		},
		{
			name: "duplicate login",
			params: map[string]any{
				"login": "alice", "password": "Pass123!", "name": "Other", "email": "other@example.com",
			},
			wantErr: "Login already exists",
		},
		{
			name: "duplicate email",
			params: map[string]any{
				"login": "alice2", "password": "Pass123!", "name": "Other", "email": "alice@example.com",
			},
			wantErr: "Email already exists",
		},
		{
			name: "invalid login reported before duplicate email",
			params: map[string]any{
				"login": "bad login", "password": "Pass123!", "name": "Other", "email": "alice@example.com",
			},
			wantErr: "Invalid login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.rpc(t, "register", tt.params, nil)
			if resp["error"] != tt.wantErr {
				t.Errorf("expected error %q, got %v", tt.wantErr, resp["error"])
			}
		})
	}
}

func TestRegisterAboutDefaultsToEmpty(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.rpc(t, "register", map[string]any{
		"login": "carol", "password": "Pass123!", "name": "Carol", "email": "carol@example.com",
	}, nil)
	if resp["result"] != "User registered successfully" {
		t.Fatalf("unexpected response: %v", resp)
	}

	user, err := env.userRepo.FindByLogin(t.Context(), "carol")
	if err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if user.About != "" {
		t.Errorf("expected empty about, got %q", user.About)
	}
	if user.IsAdmin {
		t.Error("registered users must not be admins")
	}
}

func TestLoginIndistinguishability(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	unknown := env.rpc(t, "login", map[string]any{"login": "nobody", "password": "Pass123!"}, nil)
	wrongPassword := env.rpc(t, "login", map[string]any{"login": "alice", "password": "wrong"}, nil)

	if unknown["error"] != "Invalid credentials" {
		t.Errorf("unknown login: expected Invalid credentials, got %v", unknown["error"])
	}
	if unknown["error"] != wrongPassword["error"] {
		t.Errorf("errors must be identical: %v vs %v", unknown["error"], wrongPassword["error"])
	}

	missing := env.rpc(t, "login", map[string]any{"login": "alice"}, nil)
	if missing["error"] != "Missing login or password" {
		t.Errorf("expected Missing login or password, got %v", missing["error"])
	}
}

func TestLoginLogoutRoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	cookies := env.login(t, "alice", "Pass123!")

	resp := env.rpc(t, "get_current_user", nil, cookies)
	me := resp["result"].(map[string]any)
	if me["is_authenticated"] != true {
		t.Fatalf("expected authenticated caller, got %v", me)
	}
	if me["is_admin"] != false {
		t.Errorf("alice must not be admin: %v", me)
	}
	if me["id"] == nil {
		t.Errorf("expected user id, got %v", me)
	}

	resp = env.rpc(t, "logout", nil, cookies)
	if resp["result"] != "Logged out successfully" {
		t.Fatalf("logout failed: %v", resp)
	}

	// The session is revoked server side, so the old cookie is dead.
	resp = env.rpc(t, "get_current_user", nil, cookies)
	me = resp["result"].(map[string]any)
	if me["is_authenticated"] != false {
		t.Errorf("expected anonymous caller after logout, got %v", me)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	cookies := env.login(t, "alice", "Pass123!")

	for i := 0; i < 2; i++ {
		resp := env.rpc(t, "logout", nil, cookies)
		if resp["error"] != nil {
			t.Fatalf("logout attempt %d errored: %v", i+1, resp["error"])
		}
	}

	// Logging out anonymously succeeds too.
	resp := env.rpc(t, "logout", nil, nil)
	if resp["result"] != "Logged out successfully" {
		t.Errorf("anonymous logout should succeed: %v", resp)
	}
}

func TestGetCurrentUserAnonymous(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.rpc(t, "get_current_user", nil, nil)
	me := resp["result"].(map[string]any)
	if me["is_authenticated"] != false || me["is_admin"] != false || me["id"] != nil {
		t.Errorf("unexpected anonymous identity: %v", me)
	}
}

func TestCreatePost(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	cookies := env.login(t, "alice", "Pass123!")

	resp := env.rpc(t, "create_post", map[string]any{"topic": "Hello", "content": "World"}, nil)
	if resp["error"] != "Authentication required" {
		t.Errorf("anonymous create_post: expected Authentication required, got %v", resp["error"])
	}

	resp = env.rpc(t, "create_post", map[string]any{"topic": "Hello"}, cookies)
	if resp["error"] != "Missing topic or content" {
		t.Errorf("expected Missing topic or content, got %v", resp["error"])
	}

	resp = env.rpc(t, "create_post", map[string]any{"topic": "Hello", "content": "World"}, cookies)
	if resp["result"] != "Post created successfully" {
		t.Fatalf("create_post failed: %v", resp)
	}

	posts := env.getPosts(t, nil)
	if len(posts) != 1 {
		t.Fatalf("expected exactly one post, got %d", len(posts))
	}
	post := posts[0].(map[string]any)
	if post["topic"] != "Hello" || post["content"] != "World" || post["author"] != "User alice" {
		t.Errorf("unexpected post entry: %v", post)
	}
}

func TestGetPostsEmailVisibility(t *testing.T) {
	env := setupTestEnv(t)
	adminCookies := env.seedAdmin(t)
	env.register(t, "alice", "alice@example.com")
	env.register(t, "bob", "bob@example.com")

	aliceCookies := env.login(t, "alice", "Pass123!")
	bobCookies := env.login(t, "bob", "Pass123!")
	env.createPost(t, aliceCookies, "Alice post", "by alice")
	env.createPost(t, bobCookies, "Bob post", "by bob")

	emailsByTopic := func(cookies []*http.Cookie) map[string]any {
		out := map[string]any{}
		for _, p := range env.getPosts(t, cookies) {
			post := p.(map[string]any)
			out[post["topic"].(string)] = post["email"]
		}
		return out
	}

	anon := emailsByTopic(nil)
	if anon["Alice post"] != nil || anon["Bob post"] != nil {
		t.Errorf("anonymous caller must never see emails: %v", anon)
	}

	asAlice := emailsByTopic(aliceCookies)
	if asAlice["Alice post"] != "alice@example.com" {
		t.Errorf("alice must see her own email: %v", asAlice)
	}
	if asAlice["Bob post"] != nil {
		t.Errorf("alice must not see bob's email: %v", asAlice)
	}

	asAdmin := emailsByTopic(adminCookies)
	if asAdmin["Alice post"] != "alice@example.com" || asAdmin["Bob post"] != "bob@example.com" {
		t.Errorf("admin must see every email: %v", asAdmin)
	}
}

func TestEditPost(t *testing.T) {
	env := setupTestEnv(t)
	adminCookies := env.seedAdmin(t)
	env.register(t, "alice", "alice@example.com")
	env.register(t, "bob", "bob@example.com")
	aliceCookies := env.login(t, "alice", "Pass123!")
	bobCookies := env.login(t, "bob", "Pass123!")

	postID := env.createPost(t, aliceCookies, "Original", "Original content")

	resp := env.rpc(t, "edit_post", map[string]any{"post_id": postID, "topic": "Hijacked"}, bobCookies)
	if resp["error"] != "Permission denied" {
		t.Errorf("non-owner edit: expected Permission denied, got %v", resp["error"])
	}

	resp = env.rpc(t, "edit_post", map[string]any{"post_id": postID, "topic": "Hijacked"}, nil)
	if resp["error"] != "Authentication required" {
		t.Errorf("anonymous edit: expected Authentication required, got %v", resp["error"])
	}

	resp = env.rpc(t, "edit_post", map[string]any{"post_id": 9999, "topic": "X"}, aliceCookies)
	if resp["error"] != "Post not found" {
		t.Errorf("missing post: expected Post not found, got %v", resp["error"])
	}

	// Owner updates the topic; the empty content leaves the stored value alone.
	resp = env.rpc(t, "edit_post", map[string]any{"post_id": postID, "topic": "Updated", "content": ""}, aliceCookies)
	if resp["result"] != "Post updated successfully" {
		t.Fatalf("owner edit failed: %v", resp)
	}

	post := env.getPosts(t, nil)[0].(map[string]any)
	if post["topic"] != "Updated" || post["content"] != "Original content" {
		t.Errorf("partial update went wrong: %v", post)
	}

	// Admins can edit anyone's post.
	resp = env.rpc(t, "edit_post", map[string]any{"post_id": postID, "content": "Moderated"}, adminCookies)
	if resp["result"] != "Post updated successfully" {
		t.Fatalf("admin edit failed: %v", resp)
	}
	post = env.getPosts(t, nil)[0].(map[string]any)
	if post["content"] != "Moderated" {
		t.Errorf("admin edit not persisted: %v", post)
	}
}

func TestDeletePost(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	env.register(t, "bob", "bob@example.com")
	aliceCookies := env.login(t, "alice", "Pass123!")
	bobCookies := env.login(t, "bob", "Pass123!")

	postID := env.createPost(t, aliceCookies, "Keep me", "please")

	resp := env.rpc(t, "delete_post", map[string]any{"post_id": postID}, bobCookies)
	if resp["error"] != "Permission denied" {
		t.Errorf("non-owner delete: expected Permission denied, got %v", resp["error"])
	}

	resp = env.rpc(t, "delete_post", map[string]any{"post_id": 9999}, aliceCookies)
	if resp["error"] != "Post not found" {
		t.Errorf("missing post: expected Post not found, got %v", resp["error"])
	}

	resp = env.rpc(t, "delete_post", map[string]any{"post_id": postID}, aliceCookies)
	if resp["result"] != "Post deleted successfully" {
		t.Fatalf("owner delete failed: %v", resp)
	}
	if posts := env.getPosts(t, nil); len(posts) != 0 {
		t.Errorf("post still listed after delete: %v", posts)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alice", "alice@example.com")
	env.register(t, "bob", "bob@example.com")
	aliceCookies := env.login(t, "alice", "Pass123!")
	bobCookies := env.login(t, "bob", "Pass123!")

	env.createPost(t, aliceCookies, "Alice 1", "x")
	env.createPost(t, aliceCookies, "Alice 2", "y")
	env.createPost(t, bobCookies, "Bob 1", "z")

	resp := env.rpc(t, "delete_account", nil, nil)
	if resp["error"] != "Authentication required" {
		t.Errorf("anonymous delete_account: expected Authentication required, got %v", resp["error"])
	}

	resp = env.rpc(t, "delete_account", nil, aliceCookies)
	if resp["result"] != "Account deleted successfully" {
		t.Fatalf("delete_account failed: %v", resp)
	}

	// Alice's posts are gone, bob's survive.
	posts := env.getPosts(t, nil)
	if len(posts) != 1 {
		t.Fatalf("expected exactly bob's post to remain, got %v", posts)
	}
	if posts[0].(map[string]any)["topic"] != "Bob 1" {
		t.Errorf("wrong survivor: %v", posts[0])
	}

	// The deleted credentials no longer work.
	resp = env.rpc(t, "login", map[string]any{"login": "alice", "password": "Pass123!"}, nil)
	if resp["error"] != "Invalid credentials" {
		t.Errorf("deleted account login: expected Invalid credentials, got %v", resp["error"])
	}

	// The old session cookie resolves to anonymous.
	resp = env.rpc(t, "get_current_user", nil, aliceCookies)
	if resp["result"].(map[string]any)["is_authenticated"] != false {
		t.Errorf("stale session still authenticates: %v", resp)
	}
}

func TestAdminDeleteUser(t *testing.T) {
	env := setupTestEnv(t)
	adminCookies := env.seedAdmin(t)
	env.register(t, "alice", "alice@example.com")
	env.register(t, "bob", "bob@example.com")
	aliceCookies := env.login(t, "alice", "Pass123!")
	bobCookies := env.login(t, "bob", "Pass123!")

	env.createPost(t, bobCookies, "Bob post", "z")

	resp := env.rpc(t, "admin_delete_user", map[string]any{"user_id": 1}, aliceCookies)
	if resp["error"] != "Admin privileges required" {
		t.Errorf("non-admin: expected Admin privileges required, got %v", resp["error"])
	}

	resp = env.rpc(t, "admin_delete_user", map[string]any{"user_id": 9999}, adminCookies)
	if resp["error"] != "User not found" {
		t.Errorf("missing user: expected User not found, got %v", resp["error"])
	}

	bob, err := env.userRepo.FindByLogin(t.Context(), "bob")
	if err != nil {
		t.Fatalf("bob missing: %v", err)
	}
	resp = env.rpc(t, "admin_delete_user", map[string]any{"user_id": bob.ID}, adminCookies)
	if resp["result"] != "User deleted successfully" {
		t.Fatalf("admin_delete_user failed: %v", resp)
	}

	if posts := env.getPosts(t, nil); len(posts) != 0 {
		t.Errorf("bob's posts must be cascade-deleted: %v", posts)
	}
	resp = env.rpc(t, "login", map[string]any{"login": "bob", "password": "Pass123!"}, nil)
	if resp["error"] != "Invalid credentials" {
		t.Errorf("deleted user can still log in: %v", resp)
	}
}

func TestAdminCannotDeleteAdmin(t *testing.T) {
	env := setupTestEnv(t)
	adminCookies := env.seedAdmin(t)

	// A second administrator, seeded directly through the repository since
	// the admin flag is never settable over the wire.
	hash, err := env.auth.HashPassword("Other123!")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	second := domain.NewUser("root2", "root2@example.com", "Root Two", "", hash)
	second.IsAdmin = true
	if err := env.userRepo.Create(t.Context(), second); err != nil {
		t.Fatalf("failed to create second admin: %v", err)
	}
	secondCookies := env.login(t, "root2", "Other123!")
	env.createPost(t, secondCookies, "Admin post", "still here")

	resp := env.rpc(t, "admin_delete_user", map[string]any{"user_id": second.ID}, adminCookies)
	if resp["error"] != "Cannot delete admin user" {
		t.Fatalf("expected Cannot delete admin user, got %v", resp)
	}

	// Both the admin and their posts are intact.
	if _, err := env.userRepo.GetByID(t.Context(), second.ID); err != nil {
		t.Errorf("second admin was deleted: %v", err)
	}
	if posts := env.getPosts(t, nil); len(posts) != 1 {
		t.Errorf("admin's posts must be intact: %v", posts)
	}
}

func TestAdminDeletePost(t *testing.T) {
	env := setupTestEnv(t)
	adminCookies := env.seedAdmin(t)
	env.register(t, "alice", "alice@example.com")
	aliceCookies := env.login(t, "alice", "Pass123!")

	postID := env.createPost(t, aliceCookies, "Borderline", "content")

	// Ownership does not matter: the method is admin-only even for the
	// post's own author.
	resp := env.rpc(t, "admin_delete_post", map[string]any{"post_id": postID}, aliceCookies)
	if resp["error"] != "Admin privileges required" {
		t.Errorf("expected Admin privileges required, got %v", resp["error"])
	}

	resp = env.rpc(t, "admin_delete_post", map[string]any{"post_id": 9999}, adminCookies)
	if resp["error"] != "Post not found" {
		t.Errorf("missing post: expected Post not found, got %v", resp["error"])
	}

	resp = env.rpc(t, "admin_delete_post", map[string]any{"post_id": postID}, adminCookies)
	if resp["result"] != "Post deleted successfully" {
		t.Fatalf("admin_delete_post failed: %v", resp)
	}
	if posts := env.getPosts(t, nil); len(posts) != 0 {
		t.Errorf("post still listed: %v", posts)
	}
}
