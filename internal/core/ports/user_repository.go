package ports

import (
	"context"

	"github.com/devshowcase/showcase-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create inserts a user; a taken email yields domain.ErrEmailInUse.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// Update persists every mutable field of user; a taken email yields domain.ErrEmailInUse.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
	// ClaimAdminSeat atomically reserves the first-admin seat. At most one
	// caller ever receives true until the seat is released.
	ClaimAdminSeat(ctx context.Context) (bool, error)
	ReleaseAdminSeat(ctx context.Context) error
}
