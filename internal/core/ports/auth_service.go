package ports

import (
	"context"

	"github.com/devshowcase/showcase-api/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// UpdateProfileInput carries a partial profile update. Nil fields are left unchanged.
type UpdateProfileInput struct {
	FullName    *string
	Email       *string
	Password    *string
	Bio         *string
	Skills      *[]string
	SocialLinks map[string]string
}

// AuthResult pairs a freshly issued token with the user it identifies.
type AuthResult struct {
	Token string
	User  *domain.User
}

// IdentityResolver turns a bearer token into the persisted user it names.
// Both the HTTP middleware and the realtime handshake depend on it.
type IdentityResolver interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type AuthService interface {
	IdentityResolver
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*AuthResult, error)
	ChangePassword(ctx context.Context, userID, current, next string) (string, error)
}
