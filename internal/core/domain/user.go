package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Profile is the public, self-edited part of a user.
type Profile struct {
	Bio         string            `json:"bio"`
	Skills      []string          `json:"skills"`
	SocialLinks map[string]string `json:"socialLinks,omitempty"`
}

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// AuthorRef is the denormalized author shape embedded in projects and comments.
type AuthorRef struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
}

// Ref returns the author reference for u.
func (u *User) Ref() AuthorRef {
	return AuthorRef{ID: u.ID, FullName: u.FullName, Email: u.Email}
}
