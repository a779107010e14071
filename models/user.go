package models

// Roles recognised by the application. The column is free text; these are conventions.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account in the local store.
// It maps to the `users` table in SQLite. Password is stored as entered.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
	Role     string `db:"role" json:"role"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
