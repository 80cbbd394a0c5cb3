package ports

import (
	"context"
	"time"

	"github.com/devshowcase/showcase-api/internal/core/domain"
)

// CreateProjectInput carries the fields of a new project.
type CreateProjectInput struct {
	Title       string
	Description string
	DriveFileID string
	Media       []string
	Tags        string // comma-delimited
	CategoryID  string
	Visibility  string
	Author      *domain.User
}

// UpdateProjectInput carries a partial project update. Nil fields are left unchanged.
type UpdateProjectInput struct {
	Title       *string
	Description *string
	DriveFileID *string
	Media       *[]string
	Tags        *string // comma-delimited
	CategoryID  *string
	Visibility  *string
}

// ListProjectsInput carries listing parameters. Viewer is nil for anonymous callers.
type ListProjectsInput struct {
	Search     string
	CategoryID string
	Tags       string // comma-delimited
	SortBy     string
	Page       int
	Limit      int
	Viewer     *domain.User
}

// CategoryRef is the denormalized category shape embedded in projects.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProjectView is a project with its author and category resolved.
// Liked is only set for authenticated viewers.
type ProjectView struct {
	*domain.Project
	Author   *domain.AuthorRef `json:"author,omitempty"`
	Category *CategoryRef      `json:"category,omitempty"`
	Liked    *bool             `json:"liked,omitempty"`
}

// ProjectDetail is the single-project view with comments resolved.
type ProjectDetail struct {
	ProjectView
	Comments []CommentView `json:"comments"`
}

// CommentView is a comment with its author resolved.
type CommentView struct {
	*domain.Comment
	Author *domain.AuthorRef `json:"author,omitempty"`
}

// ListProjectsResult is a page of projects.
type ListProjectsResult struct {
	Items      []ProjectView
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// LikeStatus is the like summary of a project for one viewer.
type LikeStatus struct {
	LikeCount int64 `json:"likeCount"`
	Liked     bool  `json:"liked"`
}

// BookmarkView is a bookmark with its project populated. Project is nil when
// the project has since been removed.
type BookmarkView struct {
	ProjectID string       `json:"projectId"`
	CreatedAt time.Time    `json:"createdAt"`
	Project   *ProjectView `json:"project"`
}

// DashboardStats are the admin dashboard aggregates.
type DashboardStats struct {
	Users      int64 `json:"users"`
	Projects   int64 `json:"projects"`
	Comments   int64 `json:"comments"`
	Likes      int64 `json:"likes"`
	Bookmarks  int64 `json:"bookmarks"`
	Categories int64 `json:"categories"`
}

// TagSuggester derives tags from free text. It never fails: any error in the
// underlying service degrades to an empty list.
type TagSuggester interface {
	Suggest(ctx context.Context, title, description string) []string
}

// TagQuota bounds how often a user may ask for tag suggestions.
type TagQuota interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

// CommentNotifier fans a committed comment out to realtime subscribers.
// Implementations must not block the caller.
type CommentNotifier interface {
	CommentCreated(view CommentView)
}

// ProjectVisibility checks read access to a project without side effects.
type ProjectVisibility interface {
	// Visible returns domain.ErrProjectNotFound when viewer may not read the project.
	Visible(ctx context.Context, id string, viewer *domain.User) error
}

type ProjectService interface {
	ProjectVisibility
	Create(ctx context.Context, in CreateProjectInput) (*domain.Project, error)
	List(ctx context.Context, in ListProjectsInput) (*ListProjectsResult, error)
	Get(ctx context.Context, id string, viewer *domain.User) (*ProjectDetail, error)
	Featured(ctx context.Context) ([]ProjectView, error)
	Authors(ctx context.Context) ([]AuthorStats, error)
	Update(ctx context.Context, id string, actor *domain.User, in UpdateProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, id string, actor *domain.User) error
	SuggestTags(ctx context.Context, actor *domain.User, title, description string) ([]string, error)
	SetFeatured(ctx context.Context, id string, actor *domain.User, featured bool) error
}

type CommentService interface {
	Add(ctx context.Context, projectID string, actor *domain.User, content string) (*CommentView, error)
	List(ctx context.Context, projectID string, viewer *domain.User) ([]CommentView, error)
	Edit(ctx context.Context, id string, actor *domain.User, content *string) (*CommentView, error)
	Delete(ctx context.Context, id string, actor *domain.User) error
	Moderate(ctx context.Context, id string, actor *domain.User) error
}

type EngagementService interface {
	Add(ctx context.Context, kind domain.EngagementKind, projectID string, actor *domain.User) error
	Remove(ctx context.Context, kind domain.EngagementKind, projectID string, actor *domain.User) error
	LikeStatus(ctx context.Context, projectID string, viewer *domain.User) (*LikeStatus, error)
	Bookmarks(ctx context.Context, actor *domain.User) ([]BookmarkView, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, actor *domain.User, name, description string) (*domain.Category, error)
	Update(ctx context.Context, id string, actor *domain.User, name, description *string) (*domain.Category, error)
	Delete(ctx context.Context, id string, actor *domain.User) error
}

type AdminService interface {
	Users(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	DeleteUser(ctx context.Context, id string, actor *domain.User) error
	Dashboard(ctx context.Context, actor *domain.User) (*DashboardStats, error)
}
