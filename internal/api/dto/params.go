package dto

// RegisterParams represents the register method parameters
type RegisterParams struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	About    string `json:"about"`
}

// LoginParams represents the login method parameters
type LoginParams struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// CreatePostParams represents the create_post method parameters
type CreatePostParams struct {
	Topic   string `json:"topic"`
	Content string `json:"content"`
}

// EditPostParams represents the edit_post method parameters. Topic and
// content are optional; an omitted or empty field leaves the stored value
// unchanged.
type EditPostParams struct {
	PostID  int64  `json:"post_id"`
	Topic   string `json:"topic"`
	Content string `json:"content"`
}

// PostIDParams represents parameters for methods targeting a single post
type PostIDParams struct {
	PostID int64 `json:"post_id"`
}

// UserIDParams represents parameters for methods targeting a single user
type UserIDParams struct {
	UserID int64 `json:"user_id"`
}

// PostEntry is one get_posts result row. Email is null unless the caller is
// an admin or the post's author.
type PostEntry struct {
	ID      int64   `json:"id"`
	Topic   string  `json:"topic"`
	Content string  `json:"content"`
	Author  string  `json:"author"`
	UserID  int64   `json:"user_id"`
	Email   *string `json:"email"`
}

// CurrentUserResult is the get_current_user payload
type CurrentUserResult struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	IsAdmin         bool   `json:"is_admin"`
	ID              *int64 `json:"id"`
}
