package domain

// UserRole gates access to the admin surface.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User is an authenticated identity. Each user owns exactly one account,
// created at registration.
type User struct {
	UserID       string   `json:"userID"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	AuditFields
}

// IsAdmin reports whether the user may access admin endpoints.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
