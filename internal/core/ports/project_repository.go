package ports

import (
	"context"

	"github.com/devshowcase/showcase-api/internal/core/domain"
)

// Sort orders accepted by project listings.
const (
	SortByDate       = "date"
	SortByLikes      = "likes"
	SortByPopularity = "popularity"
)

// ListProjectsFilter carries the query parameters for listing projects.
type ListProjectsFilter struct {
	Search     string   // optional: case-insensitive match on title, description or tags
	CategoryID string   // optional
	Tags       []string // optional: any-of match
	SortBy     string   // date (default), likes or popularity
	PublicOnly bool
	Page       int // 1-based
	Limit      int
}

// ProjectPatch is a field-level update. Nil fields are not written.
type ProjectPatch struct {
	Title       *string
	Description *string
	DriveFileID *string
	Media       *[]string
	Tags        *[]string
	CategoryID  *string
	Visibility  *domain.Visibility
}

// AuthorStats is one row of the top-authors aggregation.
type AuthorStats struct {
	AuthorID     string            `json:"authorId"`
	FullName     string            `json:"fullName"`
	Email        string            `json:"email"`
	Role         string            `json:"role"`
	Bio          string            `json:"bio"`
	Skills       []string          `json:"skills"`
	SocialLinks  map[string]string `json:"socialLinks,omitempty"`
	ProjectCount int64             `json:"projectCount"`
}

// ProjectRepository defines persistence for projects. Counter and reference
// list mutations are single atomic document updates.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Project, error)
	// IncrementViews bumps viewCount by one and returns the updated project.
	IncrementViews(ctx context.Context, id string) (*domain.Project, error)
	Update(ctx context.Context, id string, patch ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListProjectsFilter) ([]*domain.Project, int64, error)
	Featured(ctx context.Context, limit int) ([]*domain.Project, error)
	TopAuthors(ctx context.Context, limit int) ([]AuthorStats, error)
	SetFeatured(ctx context.Context, id string, featured bool) error
	AddComment(ctx context.Context, projectID, commentID string) error
	RemoveComment(ctx context.Context, projectID, commentID string) error
	// AdjustCounter adds delta to the likeCount or bookmarkCount of a project.
	AdjustCounter(ctx context.Context, projectID string, kind domain.EngagementKind, delta int64) error
	Count(ctx context.Context) (int64, error)
}

// CommentRepository defines persistence for comments.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	// ListByProject returns a project's comments, newest first.
	ListByProject(ctx context.Context, projectID string) ([]*domain.Comment, error)
	UpdateContent(ctx context.Context, id, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
	Count(ctx context.Context) (int64, error)
}

// EngagementRepository persists like and bookmark join records. The join
// collection is the source of truth for membership.
type EngagementRepository interface {
	// Insert fails with domain.ErrEngagementExists when the triple already exists.
	Insert(ctx context.Context, e *domain.Engagement) error
	// Delete fails with domain.ErrEngagementNotFound when nothing was removed.
	Delete(ctx context.Context, kind domain.EngagementKind, userID, projectID string) error
	Exists(ctx context.Context, kind domain.EngagementKind, userID, projectID string) (bool, error)
	// ExistsAny reports, per project id, whether userID holds the relation.
	ExistsAny(ctx context.Context, kind domain.EngagementKind, userID string, projectIDs []string) (map[string]bool, error)
	CountByProject(ctx context.Context, kind domain.EngagementKind, projectID string) (int64, error)
	// ListByUser returns a user's records, newest first.
	ListByUser(ctx context.Context, kind domain.EngagementKind, userID string) ([]*domain.Engagement, error)
	DeleteByProject(ctx context.Context, kind domain.EngagementKind, projectID string) error
	Count(ctx context.Context, kind domain.EngagementKind) (int64, error)
}

// CategoryRepository defines persistence for categories.
type CategoryRepository interface {
	// Create fails with domain.ErrCategoryExists when the name is taken.
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Category, error)
	// Update persists name and description; a taken name yields domain.ErrCategoryExists.
	Update(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Category, error)
	Count(ctx context.Context) (int64, error)
}
