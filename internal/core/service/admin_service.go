package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/policy"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

type AdminService struct {
	repos  Repositories
	logger zerolog.Logger
}

func NewAdminService(repos Repositories, logger zerolog.Logger) *AdminService {
	return &AdminService{repos: repos, logger: logger.With().Str("component", "admin_service").Logger()}
}

func (s *AdminService) Users(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if !policy.Allow(policy.ActorOf(actor), "", policy.ManageUser) {
		return nil, domain.Forbidden("Not authorized as an admin")
	}
	return s.repos.Users.List(ctx)
}

// DeleteUser removes an account. Admins cannot remove themselves.
func (s *AdminService) DeleteUser(ctx context.Context, id string, actor *domain.User) error {
	if !policy.Allow(policy.ActorOf(actor), "", policy.ManageUser) {
		return domain.Forbidden("Not authorized as an admin")
	}
	if id == actor.ID {
		return domain.InvalidInput("Admins cannot delete their own account")
	}
	if err := s.repos.Users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Str("actor_id", actor.ID).Msg("user deleted")
	return nil
}

func (s *AdminService) Dashboard(ctx context.Context, actor *domain.User) (*ports.DashboardStats, error) {
	if !policy.Allow(policy.ActorOf(actor), "", policy.ViewDashboard) {
		return nil, domain.Forbidden("Not authorized as an admin")
	}

	var (
		stats ports.DashboardStats
		err   error
	)
	if stats.Users, err = s.repos.Users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Projects, err = s.repos.Projects.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Comments, err = s.repos.Comments.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Likes, err = s.repos.Engagements.Count(ctx, domain.KindLike); err != nil {
		return nil, err
	}
	if stats.Bookmarks, err = s.repos.Engagements.Count(ctx, domain.KindBookmark); err != nil {
		return nil, err
	}
	if stats.Categories, err = s.repos.Categories.Count(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}
