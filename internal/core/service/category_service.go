package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/policy"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

type CategoryService struct {
	repo   ports.CategoryRepository
	logger zerolog.Logger
}

func NewCategoryService(repo ports.CategoryRepository, logger zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger.With().Str("component", "category_service").Logger()}
}

func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Create(ctx context.Context, actor *domain.User, name, description string) (*domain.Category, error) {
	if !policy.Allow(policy.ActorOf(actor), "", policy.ManageCategory) {
		return nil, domain.Forbidden("Not authorized as an admin")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.InvalidInput("Category name is required")
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Category{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("category_id", created.ID).Str("name", created.Name).Msg("category created")
	return created, nil
}

// Update changes the non-empty fields. Renaming onto an existing name is a conflict.
func (s *CategoryService) Update(ctx context.Context, id string, actor *domain.User, name, description *string) (*domain.Category, error) {
	if !policy.Allow(policy.ActorOf(actor), "", policy.ManageCategory) {
		return nil, domain.Forbidden("Not authorized as an admin")
	}
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := trimmed(name); v != "" {
		category.Name = v
	}
	if v := trimmed(description); v != "" {
		category.Description = v
	}
	category.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, category)
}

// Delete removes a category. Projects that reference it keep the stale id.
func (s *CategoryService) Delete(ctx context.Context, id string, actor *domain.User) error {
	if !policy.Allow(policy.ActorOf(actor), "", policy.ManageCategory) {
		return domain.Forbidden("Not authorized as an admin")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("category_id", id).Msg("category deleted")
	return nil
}
