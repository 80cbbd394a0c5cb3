package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

// In-memory stand-ins for the persistence ports.

type stubUserRepo struct {
	users     map[string]*domain.User
	seq       int
	seatTaken bool
	// countZero makes Count report an empty store, as two racing
	// registrations would both observe.
	countZero bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailInUse
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("u%d", r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Count(context.Context) (int64, error) {
	if r.countZero {
		return 0, nil
	}
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) ClaimAdminSeat(context.Context) (bool, error) {
	if r.seatTaken {
		return false, nil
	}
	r.seatTaken = true
	return true, nil
}

func (r *stubUserRepo) ReleaseAdminSeat(context.Context) error {
	r.seatTaken = false
	return nil
}

func (r *stubUserRepo) List(context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubProjectRepo struct {
	projects  map[string]*domain.Project
	seq       int
	adjustErr error
	removeErr error
	lastList  ports.ListProjectsFilter
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{projects: make(map[string]*domain.Project)}
}

func cloneProject(p *domain.Project) *domain.Project {
	clone := *p
	clone.Tags = append([]string(nil), p.Tags...)
	clone.Media = append([]string(nil), p.Media...)
	clone.CommentIDs = append([]string(nil), p.CommentIDs...)
	return &clone
}

func (r *stubProjectRepo) put(p *domain.Project) *domain.Project {
	if p.ID == "" {
		r.seq++
		p.ID = fmt.Sprintf("p%d", r.seq)
	}
	if p.Visibility == "" {
		p.Visibility = domain.VisibilityPublic
	}
	r.projects[p.ID] = cloneProject(p)
	return p
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	return cloneProject(r.put(cloneProject(p))), nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return cloneProject(p), nil
}

func (r *stubProjectRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, id := range ids {
		if p, ok := r.projects[id]; ok {
			out = append(out, cloneProject(p))
		}
	}
	return out, nil
}

func (r *stubProjectRepo) IncrementViews(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	p.ViewCount++
	return cloneProject(p), nil
}

func (r *stubProjectRepo) Update(_ context.Context, id string, patch ports.ProjectPatch) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.DriveFileID != nil {
		p.DriveFileID = *patch.DriveFileID
	}
	if patch.Media != nil {
		p.Media = *patch.Media
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.Visibility != nil {
		p.Visibility = *patch.Visibility
	}
	return cloneProject(p), nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *stubProjectRepo) List(_ context.Context, f ports.ListProjectsFilter) ([]*domain.Project, int64, error) {
	r.lastList = f
	var out []*domain.Project
	for _, p := range r.projects {
		if f.PublicOnly && p.Visibility != domain.VisibilityPublic {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubProjectRepo) Featured(_ context.Context, limit int) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.projects {
		if p.IsFeatured && p.Visibility == domain.VisibilityPublic && len(out) < limit {
			out = append(out, cloneProject(p))
		}
	}
	return out, nil
}

func (r *stubProjectRepo) TopAuthors(context.Context, int) ([]ports.AuthorStats, error) {
	return nil, nil
}

func (r *stubProjectRepo) SetFeatured(_ context.Context, id string, featured bool) error {
	p, ok := r.projects[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	p.IsFeatured = featured
	return nil
}

func (r *stubProjectRepo) AddComment(_ context.Context, projectID, commentID string) error {
	p, ok := r.projects[projectID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	p.CommentIDs = append(p.CommentIDs, commentID)
	return nil
}

func (r *stubProjectRepo) RemoveComment(_ context.Context, projectID, commentID string) error {
	if r.removeErr != nil {
		return r.removeErr
	}
	p, ok := r.projects[projectID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	kept := p.CommentIDs[:0]
	for _, id := range p.CommentIDs {
		if id != commentID {
			kept = append(kept, id)
		}
	}
	p.CommentIDs = kept
	return nil
}

func (r *stubProjectRepo) AdjustCounter(_ context.Context, projectID string, kind domain.EngagementKind, delta int64) error {
	if r.adjustErr != nil {
		return r.adjustErr
	}
	p, ok := r.projects[projectID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	if kind == domain.KindBookmark {
		p.BookmarkCount += delta
	} else {
		p.LikeCount += delta
	}
	return nil
}

func (r *stubProjectRepo) Count(context.Context) (int64, error) { return int64(len(r.projects)), nil }

type stubCommentRepo struct {
	comments  map[string]*domain.Comment
	seq       int
	deleteErr error
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{comments: make(map[string]*domain.Comment)}
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	r.seq++
	copy := *c
	copy.ID = fmt.Sprintf("c%d", r.seq)
	stored := copy
	r.comments[copy.ID] = &stored
	return &copy, nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	copy := *c
	return &copy, nil
}

func (r *stubCommentRepo) ListByProject(_ context.Context, projectID string) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.ProjectID == projectID {
			copy := *c
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubCommentRepo) UpdateContent(_ context.Context, id, content string) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	c.Content = content
	copy := *c
	return &copy, nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.comments[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *stubCommentRepo) DeleteByProject(_ context.Context, projectID string) error {
	for id, c := range r.comments {
		if c.ProjectID == projectID {
			delete(r.comments, id)
		}
	}
	return nil
}

func (r *stubCommentRepo) Count(context.Context) (int64, error) { return int64(len(r.comments)), nil }

type engagementKey struct {
	kind      domain.EngagementKind
	userID    string
	projectID string
}

type stubEngagementRepo struct {
	records map[engagementKey]*domain.Engagement
}

func newStubEngagementRepo() *stubEngagementRepo {
	return &stubEngagementRepo{records: make(map[engagementKey]*domain.Engagement)}
}

func (r *stubEngagementRepo) Insert(_ context.Context, e *domain.Engagement) error {
	key := engagementKey{e.Kind, e.UserID, e.ProjectID}
	if _, ok := r.records[key]; ok {
		return domain.ErrEngagementExists
	}
	copy := *e
	r.records[key] = &copy
	return nil
}

func (r *stubEngagementRepo) Delete(_ context.Context, kind domain.EngagementKind, userID, projectID string) error {
	key := engagementKey{kind, userID, projectID}
	if _, ok := r.records[key]; !ok {
		return domain.ErrEngagementNotFound
	}
	delete(r.records, key)
	return nil
}

func (r *stubEngagementRepo) Exists(_ context.Context, kind domain.EngagementKind, userID, projectID string) (bool, error) {
	_, ok := r.records[engagementKey{kind, userID, projectID}]
	return ok, nil
}

func (r *stubEngagementRepo) ExistsAny(_ context.Context, kind domain.EngagementKind, userID string, projectIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, id := range projectIDs {
		if _, ok := r.records[engagementKey{kind, userID, id}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (r *stubEngagementRepo) CountByProject(_ context.Context, kind domain.EngagementKind, projectID string) (int64, error) {
	var n int64
	for k := range r.records {
		if k.kind == kind && k.projectID == projectID {
			n++
		}
	}
	return n, nil
}

func (r *stubEngagementRepo) ListByUser(_ context.Context, kind domain.EngagementKind, userID string) ([]*domain.Engagement, error) {
	var out []*domain.Engagement
	for k, e := range r.records {
		if k.kind == kind && k.userID == userID {
			copy := *e
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubEngagementRepo) DeleteByProject(_ context.Context, kind domain.EngagementKind, projectID string) error {
	for k := range r.records {
		if k.kind == kind && k.projectID == projectID {
			delete(r.records, k)
		}
	}
	return nil
}

func (r *stubEngagementRepo) Count(_ context.Context, kind domain.EngagementKind) (int64, error) {
	var n int64
	for k := range r.records {
		if k.kind == kind {
			n++
		}
	}
	return n, nil
}

type stubCategoryRepo struct {
	categories map[string]*domain.Category
	seq        int
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[string]*domain.Category)}
}

func (r *stubCategoryRepo) nameTaken(name, exceptID string) bool {
	for id, c := range r.categories {
		if id != exceptID && c.Name == name {
			return true
		}
	}
	return false
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	if r.nameTaken(c.Name, "") {
		return nil, domain.ErrCategoryExists
	}
	r.seq++
	copy := *c
	copy.ID = fmt.Sprintf("cat%d", r.seq)
	stored := copy
	r.categories[copy.ID] = &stored
	return &copy, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	copy := *c
	return &copy, nil
}

func (r *stubCategoryRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, id := range ids {
		if c, ok := r.categories[id]; ok {
			copy := *c
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *domain.Category) (*domain.Category, error) {
	if _, ok := r.categories[c.ID]; !ok {
		return nil, domain.ErrCategoryNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return nil, domain.ErrCategoryExists
	}
	copy := *c
	r.categories[c.ID] = &copy
	return c, nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *stubCategoryRepo) List(context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range r.categories {
		copy := *c
		out = append(out, &copy)
	}
	return out, nil
}

func (r *stubCategoryRepo) Count(context.Context) (int64, error) {
	return int64(len(r.categories)), nil
}

type stubSuggester struct {
	tags  []string
	calls int
}

func (s *stubSuggester) Suggest(context.Context, string, string) []string {
	s.calls++
	return s.tags
}

type stubQuota struct {
	allowed bool
	err     error
}

func (q stubQuota) Allow(context.Context, string) (bool, error) { return q.allowed, q.err }

type fixture struct {
	users       *stubUserRepo
	projects    *stubProjectRepo
	comments    *stubCommentRepo
	engagements *stubEngagementRepo
	categories  *stubCategoryRepo
}

func newFixture() *fixture {
	return &fixture{
		users:       newStubUserRepo(),
		projects:    newStubProjectRepo(),
		comments:    newStubCommentRepo(),
		engagements: newStubEngagementRepo(),
		categories:  newStubCategoryRepo(),
	}
}

func (f *fixture) repos() Repositories {
	return Repositories{
		Users:       f.users,
		Projects:    f.projects,
		Comments:    f.comments,
		Engagements: f.engagements,
		Categories:  f.categories,
	}
}

func (f *fixture) user(name, role string) *domain.User {
	u, err := f.users.Create(context.Background(), &domain.User{
		FullName: name,
		Email:    strings.ToLower(name) + "@example.com",
		Role:     role,
	})
	if err != nil {
		panic(err)
	}
	return u
}

func (f *fixture) project(author *domain.User, title string) *domain.Project {
	return f.projects.put(&domain.Project{
		Title:       title,
		Description: title + " description",
		AuthorID:    author.ID,
		Visibility:  domain.VisibilityPublic,
		Tags:        []string{"go"},
		CommentIDs:  []string{},
	})
}

var nopLogger = zerolog.Nop()
