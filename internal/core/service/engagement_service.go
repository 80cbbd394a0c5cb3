package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

// EngagementService manages likes and bookmarks. The join records are the
// source of truth; the counters on the project follow them and are rolled
// back together with the record when either write fails.
type EngagementService struct {
	repos  Repositories
	views  viewBuilder
	logger zerolog.Logger
}

func NewEngagementService(repos Repositories, logger zerolog.Logger) *EngagementService {
	return &EngagementService{
		repos:  repos,
		views:  viewBuilder{repos: repos},
		logger: logger.With().Str("component", "engagement_service").Logger(),
	}
}

func (s *EngagementService) Add(ctx context.Context, kind domain.EngagementKind, projectID string, actor *domain.User) error {
	if actor == nil {
		return domain.ErrInvalidToken
	}
	if err := s.visibleProject(ctx, projectID, actor); err != nil {
		return err
	}

	record := &domain.Engagement{
		Kind:      kind,
		UserID:    actor.ID,
		ProjectID: projectID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repos.Engagements.Insert(ctx, record); err != nil {
		if errors.Is(err, domain.ErrEngagementExists) {
			return kind.DuplicateErr()
		}
		return err
	}

	if err := s.repos.Projects.AdjustCounter(ctx, projectID, kind, 1); err != nil {
		if derr := s.repos.Engagements.Delete(ctx, kind, actor.ID, projectID); derr != nil {
			s.logger.Error().Err(derr).Str("kind", string(kind)).Str("project_id", projectID).Msg("compensating delete failed")
		}
		return err
	}
	return nil
}

func (s *EngagementService) Remove(ctx context.Context, kind domain.EngagementKind, projectID string, actor *domain.User) error {
	if actor == nil {
		return domain.ErrInvalidToken
	}
	if _, err := s.repos.Projects.FindByID(ctx, projectID); err != nil {
		return err
	}

	if err := s.repos.Engagements.Delete(ctx, kind, actor.ID, projectID); err != nil {
		if errors.Is(err, domain.ErrEngagementNotFound) {
			return kind.MissingErr()
		}
		return err
	}

	if err := s.repos.Projects.AdjustCounter(ctx, projectID, kind, -1); err != nil {
		restore := &domain.Engagement{Kind: kind, UserID: actor.ID, ProjectID: projectID, CreatedAt: time.Now().UTC()}
		if rerr := s.repos.Engagements.Insert(ctx, restore); rerr != nil {
			s.logger.Error().Err(rerr).Str("kind", string(kind)).Str("project_id", projectID).Msg("compensating insert failed")
		}
		return err
	}
	return nil
}

// LikeStatus reads the like count from the join collection. Liked is false
// for anonymous viewers.
func (s *EngagementService) LikeStatus(ctx context.Context, projectID string, viewer *domain.User) (*ports.LikeStatus, error) {
	if err := s.visibleProject(ctx, projectID, viewer); err != nil {
		return nil, err
	}

	count, err := s.repos.Engagements.CountByProject(ctx, domain.KindLike, projectID)
	if err != nil {
		return nil, err
	}

	status := &ports.LikeStatus{LikeCount: count}
	if viewer != nil {
		status.Liked, err = s.repos.Engagements.Exists(ctx, domain.KindLike, viewer.ID, projectID)
		if err != nil {
			return nil, err
		}
	}
	return status, nil
}

// Bookmarks lists the actor's bookmarks, newest first, with projects
// populated. Bookmarks of projects the actor can no longer see keep a nil
// project.
func (s *EngagementService) Bookmarks(ctx context.Context, actor *domain.User) ([]ports.BookmarkView, error) {
	if actor == nil {
		return nil, domain.ErrInvalidToken
	}
	records, err := s.repos.Engagements.ListByUser(ctx, domain.KindBookmark, actor.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ProjectID)
	}
	projects, err := s.repos.Projects.FindByIDs(ctx, uniq(ids))
	if err != nil {
		return nil, err
	}

	visible := make([]*domain.Project, 0, len(projects))
	for _, p := range projects {
		if p.VisibleTo(actor) {
			visible = append(visible, p)
		}
	}
	views, err := s.views.projects(ctx, visible, actor)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*ports.ProjectView, len(views))
	for i := range views {
		byID[views[i].ID] = &views[i]
	}

	out := make([]ports.BookmarkView, 0, len(records))
	for _, r := range records {
		out = append(out, ports.BookmarkView{ProjectID: r.ProjectID, CreatedAt: r.CreatedAt, Project: byID[r.ProjectID]})
	}
	return out, nil
}

func (s *EngagementService) visibleProject(ctx context.Context, projectID string, viewer *domain.User) error {
	project, err := s.repos.Projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.VisibleTo(viewer) {
		return domain.ErrProjectNotFound
	}
	return nil
}
