package service

import (
	"context"

	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

// Repositories bundles the persistence ports shared by the services.
type Repositories struct {
	Users       ports.UserRepository
	Projects    ports.ProjectRepository
	Comments    ports.CommentRepository
	Engagements ports.EngagementRepository
	Categories  ports.CategoryRepository
}

// viewBuilder resolves author, category and like references for read models.
type viewBuilder struct {
	repos Repositories
}

func (b viewBuilder) authors(ctx context.Context, ids []string) (map[string]*domain.AuthorRef, error) {
	refs := make(map[string]*domain.AuthorRef, len(ids))
	ids = uniq(ids)
	if len(ids) == 0 {
		return refs, nil
	}
	users, err := b.repos.Users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		ref := u.Ref()
		refs[u.ID] = &ref
	}
	return refs, nil
}

func (b viewBuilder) categories(ctx context.Context, ids []string) (map[string]*ports.CategoryRef, error) {
	refs := make(map[string]*ports.CategoryRef, len(ids))
	ids = uniq(ids)
	if len(ids) == 0 {
		return refs, nil
	}
	cats, err := b.repos.Categories.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		refs[c.ID] = &ports.CategoryRef{ID: c.ID, Name: c.Name}
	}
	return refs, nil
}

// projects builds list views. The liked flag is only resolved when viewer is set.
func (b viewBuilder) projects(ctx context.Context, projects []*domain.Project, viewer *domain.User) ([]ports.ProjectView, error) {
	authorIDs := make([]string, 0, len(projects))
	categoryIDs := make([]string, 0, len(projects))
	projectIDs := make([]string, 0, len(projects))
	for _, p := range projects {
		authorIDs = append(authorIDs, p.AuthorID)
		projectIDs = append(projectIDs, p.ID)
		if p.CategoryID != "" {
			categoryIDs = append(categoryIDs, p.CategoryID)
		}
	}

	authors, err := b.authors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	cats, err := b.categories(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	var liked map[string]bool
	if viewer != nil && len(projectIDs) > 0 {
		liked, err = b.repos.Engagements.ExistsAny(ctx, domain.KindLike, viewer.ID, projectIDs)
		if err != nil {
			return nil, err
		}
	}

	views := make([]ports.ProjectView, 0, len(projects))
	for _, p := range projects {
		v := ports.ProjectView{Project: p, Author: authors[p.AuthorID]}
		if p.CategoryID != "" {
			v.Category = cats[p.CategoryID]
		}
		if viewer != nil {
			l := liked[p.ID]
			v.Liked = &l
		}
		views = append(views, v)
	}
	return views, nil
}

func (b viewBuilder) comments(ctx context.Context, comments []*domain.Comment) ([]ports.CommentView, error) {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	authors, err := b.authors(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]ports.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, ports.CommentView{Comment: c, Author: authors[c.AuthorID]})
	}
	return views, nil
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
