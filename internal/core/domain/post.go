package domain

import "time"

// Post is a text entry owned by exactly one user. Ownership is fixed at
// creation and never transfers.
type Post struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Topic     string    `db:"topic"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

func NewPost(userID int64, topic, content string) *Post {
	return &Post{
		UserID:    userID,
		Topic:     topic,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// PostWithAuthor is a post joined with its author's public attributes,
// as returned by get_posts.
type PostWithAuthor struct {
	Post
	AuthorName  string `db:"author_name"`
	AuthorEmail string `db:"author_email"`
}
