// Package policy decides whether an authenticated actor may perform a
// mutating action on a resource. It has no side effects; callers check it
// before touching the store and fail with domain.ErrForbidden on denial.
package policy

import "github.com/devshowcase/showcase-api/internal/core/domain"

// Action names a guarded operation.
type Action string

const (
	EditComment     Action = "comment:edit"
	DeleteComment   Action = "comment:delete"
	ModerateComment Action = "comment:moderate"
	UpdateProject   Action = "project:update"
	DeleteProject   Action = "project:delete"
	FeatureProject  Action = "project:feature"
	ManageCategory  Action = "category:manage"
	ManageUser      Action = "user:manage"
	ViewDashboard   Action = "dashboard:view"
)

// Actor is the acting identity.
type Actor struct {
	ID   string
	Role string
}

// ActorOf returns the actor for an authenticated user.
func ActorOf(u *domain.User) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{ID: u.ID, Role: u.Role}
}

func (a Actor) isAdmin() bool { return a.Role == domain.RoleAdmin }

func (a Actor) owns(ownerID string) bool { return a.ID != "" && a.ID == ownerID }

// Allow reports whether actor may perform action on a resource owned by ownerID.
// ownerID is ignored for admin-only actions.
func Allow(actor Actor, ownerID string, action Action) bool {
	switch action {
	case EditComment, DeleteComment, DeleteProject:
		return actor.owns(ownerID) || actor.isAdmin()
	case UpdateProject:
		return actor.owns(ownerID)
	case ModerateComment, FeatureProject, ManageCategory, ManageUser, ViewDashboard:
		return actor.isAdmin()
	default:
		return false
	}
}
