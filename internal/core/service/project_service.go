package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/policy"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	featuredLimit   = 5
	topAuthorsLimit = 50
)

type ProjectService struct {
	repos  Repositories
	views  viewBuilder
	tags   ports.TagSuggester
	quota  ports.TagQuota
	logger zerolog.Logger
}

// NewProjectService wires the project use cases. quota may be nil, in which
// case tag suggestions are not rate limited.
func NewProjectService(repos Repositories, tags ports.TagSuggester, quota ports.TagQuota, logger zerolog.Logger) *ProjectService {
	return &ProjectService{
		repos:  repos,
		views:  viewBuilder{repos: repos},
		tags:   tags,
		quota:  quota,
		logger: logger.With().Str("component", "project_service").Logger(),
	}
}

// Create stores a new project authored by in.Author. When no tags are given
// the suggester fills them; a failed suggestion leaves the list empty.
func (s *ProjectService) Create(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	if in.Author == nil {
		return nil, domain.ErrInvalidToken
	}
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, domain.InvalidInput("Title and description are required")
	}

	visibility := domain.VisibilityPublic
	if in.Visibility != "" {
		visibility = domain.Visibility(in.Visibility)
		if !visibility.Valid() {
			return nil, domain.InvalidInput("Visibility must be public or private")
		}
	}

	categoryID := strings.TrimSpace(in.CategoryID)
	if categoryID != "" {
		if _, err := s.repos.Categories.FindByID(ctx, categoryID); err != nil {
			return nil, err
		}
	}

	tags := domain.ParseTags(in.Tags)
	if len(tags) == 0 && s.tags != nil {
		tags = domain.NormalizeTags(s.tags.Suggest(ctx, title, description))
	}

	media := in.Media
	if media == nil {
		media = []string{}
	}

	now := time.Now().UTC()
	created, err := s.repos.Projects.Create(ctx, &domain.Project{
		Title:       title,
		Description: description,
		DriveFileID: strings.TrimSpace(in.DriveFileID),
		Media:       media,
		Tags:        tags,
		AuthorID:    in.Author.ID,
		CategoryID:  categoryID,
		Visibility:  visibility,
		CommentIDs:  []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("project_id", created.ID).Str("author_id", created.AuthorID).Int("tags", len(created.Tags)).Msg("project created")
	return created, nil
}

// List returns a page of public projects.
func (s *ProjectService) List(ctx context.Context, in ports.ListProjectsInput) (*ports.ListProjectsResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	sortBy := in.SortBy
	switch sortBy {
	case ports.SortByDate, ports.SortByLikes, ports.SortByPopularity:
	case "":
		sortBy = ports.SortByDate
	default:
		return nil, domain.InvalidInput("sortBy must be one of date, likes, popularity")
	}

	projects, total, err := s.repos.Projects.List(ctx, ports.ListProjectsFilter{
		Search:     strings.TrimSpace(in.Search),
		CategoryID: strings.TrimSpace(in.CategoryID),
		Tags:       domain.ParseTags(in.Tags),
		SortBy:     sortBy,
		PublicOnly: true,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	items, err := s.views.projects(ctx, projects, in.Viewer)
	if err != nil {
		return nil, err
	}

	return &ports.ListProjectsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Get returns a project with author, category and comments resolved, and
// counts the read as a view. Private projects are reported as missing to
// anyone but their author and admins.
func (s *ProjectService) Get(ctx context.Context, id string, viewer *domain.User) (*ports.ProjectDetail, error) {
	current, err := s.repos.Projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.VisibleTo(viewer) {
		return nil, domain.ErrProjectNotFound
	}

	project, err := s.repos.Projects.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := s.views.projects(ctx, []*domain.Project{project}, viewer)
	if err != nil {
		return nil, err
	}

	comments, err := s.repos.Comments.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	commentViews, err := s.views.comments(ctx, comments)
	if err != nil {
		return nil, err
	}

	return &ports.ProjectDetail{ProjectView: views[0], Comments: commentViews}, nil
}

// Visible reports, as an error, whether viewer may read the project.
func (s *ProjectService) Visible(ctx context.Context, id string, viewer *domain.User) error {
	project, err := s.repos.Projects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !project.VisibleTo(viewer) {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (s *ProjectService) Featured(ctx context.Context) ([]ports.ProjectView, error) {
	projects, err := s.repos.Projects.Featured(ctx, featuredLimit)
	if err != nil {
		return nil, err
	}
	return s.views.projects(ctx, projects, nil)
}

func (s *ProjectService) Authors(ctx context.Context) ([]ports.AuthorStats, error) {
	return s.repos.Projects.TopAuthors(ctx, topAuthorsLimit)
}

// Update applies the provided fields. Only the author may update a project.
func (s *ProjectService) Update(ctx context.Context, id string, actor *domain.User, in ports.UpdateProjectInput) (*domain.Project, error) {
	project, err := s.repos.Projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allow(policy.ActorOf(actor), project.AuthorID, policy.UpdateProject) {
		return nil, domain.Forbidden("Not authorized to update this project")
	}

	var patch ports.ProjectPatch
	if v := trimmed(in.Title); v != "" {
		patch.Title = &v
	}
	if v := trimmed(in.Description); v != "" {
		patch.Description = &v
	}
	if v := trimmed(in.DriveFileID); v != "" {
		patch.DriveFileID = &v
	}
	if in.Media != nil {
		media := *in.Media
		if media == nil {
			media = []string{}
		}
		patch.Media = &media
	}
	if in.Tags != nil {
		tags := domain.ParseTags(*in.Tags)
		patch.Tags = &tags
	}
	if v := trimmed(in.CategoryID); v != "" {
		if _, err := s.repos.Categories.FindByID(ctx, v); err != nil {
			return nil, err
		}
		patch.CategoryID = &v
	}
	if v := trimmed(in.Visibility); v != "" {
		visibility := domain.Visibility(v)
		if !visibility.Valid() {
			return nil, domain.InvalidInput("Visibility must be public or private")
		}
		patch.Visibility = &visibility
	}

	return s.repos.Projects.Update(ctx, id, patch)
}

// Delete removes a project and, best-effort, its comments, likes and bookmarks.
func (s *ProjectService) Delete(ctx context.Context, id string, actor *domain.User) error {
	project, err := s.repos.Projects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.Allow(policy.ActorOf(actor), project.AuthorID, policy.DeleteProject) {
		return domain.Forbidden("Not authorized to delete this project")
	}

	if err := s.repos.Projects.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.repos.Comments.DeleteByProject(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("project_id", id).Msg("cascade comments failed")
	}
	for _, kind := range []domain.EngagementKind{domain.KindLike, domain.KindBookmark} {
		if err := s.repos.Engagements.DeleteByProject(ctx, kind, id); err != nil {
			s.logger.Warn().Err(err).Str("project_id", id).Str("kind", string(kind)).Msg("cascade engagements failed")
		}
	}

	s.logger.Info().Str("project_id", id).Str("actor_id", actor.ID).Msg("project deleted")
	return nil
}

// SuggestTags asks the tag suggester for tags. Callers are rate limited per
// user; a quota backend failure lets the request through.
func (s *ProjectService) SuggestTags(ctx context.Context, actor *domain.User, title, description string) ([]string, error) {
	if actor == nil {
		return nil, domain.ErrInvalidToken
	}
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" && description == "" {
		return nil, domain.InvalidInput("Title or description is required")
	}

	if s.quota != nil {
		allowed, err := s.quota.Allow(ctx, actor.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", actor.ID).Msg("tag quota unavailable, allowing request")
		} else if !allowed {
			return nil, domain.ErrTagQuotaExceeded
		}
	}

	if s.tags == nil {
		return []string{}, nil
	}
	return domain.NormalizeTags(s.tags.Suggest(ctx, title, description)), nil
}

func (s *ProjectService) SetFeatured(ctx context.Context, id string, actor *domain.User, featured bool) error {
	if !policy.Allow(policy.ActorOf(actor), "", policy.FeatureProject) {
		return domain.Forbidden("Not authorized as an admin")
	}
	if err := s.repos.Projects.SetFeatured(ctx, id, featured); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrProjectNotFound
		}
		return err
	}
	s.logger.Info().Str("project_id", id).Bool("featured", featured).Msg("project feature flag changed")
	return nil
}
