package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/policy"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

type CommentService struct {
	repos  Repositories
	views  viewBuilder
	logger zerolog.Logger
}

func NewCommentService(repos Repositories, logger zerolog.Logger) *CommentService {
	return &CommentService{
		repos:  repos,
		views:  viewBuilder{repos: repos},
		logger: logger.With().Str("component", "comment_service").Logger(),
	}
}

// Add stores a comment and links it to its project. Notifying subscribers is
// left to the caller, once the response has been written.
func (s *CommentService) Add(ctx context.Context, projectID string, actor *domain.User, content string) (*ports.CommentView, error) {
	if actor == nil {
		return nil, domain.ErrInvalidToken
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.InvalidInput("Comment content is required")
	}

	project, err := s.repos.Projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.VisibleTo(actor) {
		return nil, domain.ErrProjectNotFound
	}

	now := time.Now().UTC()
	comment, err := s.repos.Comments.Create(ctx, &domain.Comment{
		Content:   content,
		AuthorID:  actor.ID,
		ProjectID: project.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repos.Projects.AddComment(ctx, project.ID, comment.ID); err != nil {
		if derr := s.repos.Comments.Delete(ctx, comment.ID); derr != nil {
			s.logger.Error().Err(derr).Str("comment_id", comment.ID).Msg("rollback of orphan comment failed")
		}
		return nil, err
	}

	ref := actor.Ref()
	return &ports.CommentView{Comment: comment, Author: &ref}, nil
}

// List returns a project's comments, newest first. Comments of a private
// project are only listed for its author and admins.
func (s *CommentService) List(ctx context.Context, projectID string, viewer *domain.User) ([]ports.CommentView, error) {
	project, err := s.repos.Projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.VisibleTo(viewer) {
		return nil, domain.ErrProjectNotFound
	}
	comments, err := s.repos.Comments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.views.comments(ctx, comments)
}

// Edit replaces a comment's content. A nil content leaves the comment as is.
func (s *CommentService) Edit(ctx context.Context, id string, actor *domain.User, content *string) (*ports.CommentView, error) {
	comment, err := s.repos.Comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allow(policy.ActorOf(actor), comment.AuthorID, policy.EditComment) {
		return nil, domain.Forbidden("Not authorized to edit this comment")
	}

	if content != nil {
		text := strings.TrimSpace(*content)
		if text == "" {
			return nil, domain.InvalidInput("Comment content is required")
		}
		comment, err = s.repos.Comments.UpdateContent(ctx, id, text)
		if err != nil {
			return nil, err
		}
	}

	views, err := s.views.comments(ctx, []*domain.Comment{comment})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *CommentService) Delete(ctx context.Context, id string, actor *domain.User) error {
	comment, err := s.repos.Comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.Allow(policy.ActorOf(actor), comment.AuthorID, policy.DeleteComment) {
		return domain.Forbidden("Not authorized to delete this comment")
	}
	return s.remove(ctx, comment)
}

// Moderate removes any comment on behalf of an admin.
func (s *CommentService) Moderate(ctx context.Context, id string, actor *domain.User) error {
	if !policy.Allow(policy.ActorOf(actor), "", policy.ModerateComment) {
		return domain.Forbidden("Not authorized as an admin")
	}
	comment, err := s.repos.Comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.remove(ctx, comment); err != nil {
		return err
	}
	s.logger.Info().Str("comment_id", id).Str("actor_id", actor.ID).Msg("comment moderated")
	return nil
}

// remove unlinks the comment from its project before deleting it, so a
// project never references a deleted comment. A vanished project is fine.
func (s *CommentService) remove(ctx context.Context, comment *domain.Comment) error {
	linked := true
	if err := s.repos.Projects.RemoveComment(ctx, comment.ProjectID, comment.ID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		linked = false
	}

	if err := s.repos.Comments.Delete(ctx, comment.ID); err != nil {
		if linked {
			if rerr := s.repos.Projects.AddComment(ctx, comment.ProjectID, comment.ID); rerr != nil {
				s.logger.Error().Err(rerr).Str("comment_id", comment.ID).Str("project_id", comment.ProjectID).Msg("relink comment after failed delete")
			}
		}
		return err
	}
	return nil
}
