package domain

import "time"

type User struct {
	ID           int64     `db:"id"`
	Login        string    `db:"login"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	About        string    `db:"about"`
	PasswordHash string    `db:"password_hash"` // bcrypt hashed
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
}

func NewUser(login, email, name, about, hashedPassword string) *User {
	return &User{
		Login:        login,
		Email:        email,
		Name:         name,
		About:        about,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now(),
	}
}

// CanModify reports whether the user may edit or delete the given post.
func (u *User) CanModify(p *Post) bool {
	return u.IsAdmin || p.UserID == u.ID
}
