package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devshowcase/showcase-api/internal/api/middleware"
	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

type stubProjectService struct {
	ports.ProjectService

	createFn  func(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error)
	listFn    func(ctx context.Context, in ports.ListProjectsInput) (*ports.ListProjectsResult, error)
	updateFn  func(ctx context.Context, id string, actor *domain.User, in ports.UpdateProjectInput) (*domain.Project, error)
	suggestFn func(ctx context.Context, actor *domain.User, title, description string) ([]string, error)
}

func (s *stubProjectService) Create(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	return s.createFn(ctx, in)
}

func (s *stubProjectService) List(ctx context.Context, in ports.ListProjectsInput) (*ports.ListProjectsResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubProjectService) Update(ctx context.Context, id string, actor *domain.User, in ports.UpdateProjectInput) (*domain.Project, error) {
	return s.updateFn(ctx, id, actor, in)
}

func (s *stubProjectService) SuggestTags(ctx context.Context, actor *domain.User, title, description string) ([]string, error) {
	return s.suggestFn(ctx, actor, title, description)
}

func TestProjectHandler_Create(t *testing.T) {
	e := newTestEcho()
	author := &domain.User{ID: "u1"}
	stub := &stubProjectService{
		createFn: func(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
			if in.Author != author || in.Tags != "go, api" || in.CategoryID != "cat1" || len(in.Media) != 1 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Project{ID: "p1", Title: in.Title, Tags: []string{"go", "api"}, Visibility: domain.VisibilityPublic}, nil
		},
	}
	handler := NewProjectHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/projects",
		`{"title":"T","description":"D","tags":"go, api","category":"cat1","media":["https://x/1.png"]}`), rec)
	c.Set(middleware.UserKey, author)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestProjectHandler_Create_RejectsUnknownVisibility(t *testing.T) {
	e := newTestEcho()
	handler := NewProjectHandler(&stubProjectService{
		createFn: func(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/projects", `{"title":"T","description":"D","visibility":"secret"}`), httptest.NewRecorder())
	c.Set(middleware.UserKey, &domain.User{ID: "u1"})

	if err := handler.Create(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestProjectHandler_List_BindsQuery(t *testing.T) {
	e := newTestEcho()
	viewer := &domain.User{ID: "u1"}
	stub := &stubProjectService{
		listFn: func(ctx context.Context, in ports.ListProjectsInput) (*ports.ListProjectsResult, error) {
			if in.Search != "chat" || in.Tags != "go,rust" || in.SortBy != "likes" || in.Page != 2 || in.Limit != 5 {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Viewer != viewer {
				t.Fatalf("viewer not passed")
			}
			liked := true
			return &ports.ListProjectsResult{
				Items:      []ports.ProjectView{{Project: &domain.Project{ID: "p1"}, Liked: &liked}},
				Total:      6,
				Page:       2,
				Limit:      5,
				TotalPages: 2,
			}, nil
		},
	}
	handler := NewProjectHandler(stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/projects?search=chat&tags=go,rust&sortBy=likes&page=2&limit=5", nil)
	c := e.NewContext(req, rec)
	c.Set(middleware.UserKey, viewer)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Projects []map[string]any `json:"projects"`
		Total    int64            `json:"total"`
		Pages    int              `json:"totalPages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 6 || resp.Pages != 2 || len(resp.Projects) != 1 || resp.Projects[0]["liked"] != true {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
}

func TestProjectHandler_List_BadPage(t *testing.T) {
	e := newTestEcho()
	handler := NewProjectHandler(&stubProjectService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/projects?page=abc", nil), httptest.NewRecorder())
	if err := handler.List(c); err == nil {
		t.Fatalf("expected error for non-numeric page")
	}
}

func TestProjectHandler_Update_OmittedFieldsStayNil(t *testing.T) {
	e := newTestEcho()
	stub := &stubProjectService{
		updateFn: func(ctx context.Context, id string, actor *domain.User, in ports.UpdateProjectInput) (*domain.Project, error) {
			if id != "p1" || in.Title == nil || *in.Title != "New" {
				t.Fatalf("unexpected input: %s %+v", id, in)
			}
			if in.Description != nil || in.Tags != nil || in.Media != nil || in.Visibility != nil {
				t.Fatalf("omitted fields must stay nil: %+v", in)
			}
			return &domain.Project{ID: id, Title: *in.Title}, nil
		},
	}
	handler := NewProjectHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/projects/p1", `{"title":"New"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	c.Set(middleware.UserKey, &domain.User{ID: "u1"})

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProjectHandler_SuggestTags(t *testing.T) {
	e := newTestEcho()
	stub := &stubProjectService{
		suggestFn: func(ctx context.Context, actor *domain.User, title, description string) ([]string, error) {
			if title == "" {
				return nil, domain.ErrTagQuotaExceeded
			}
			return nil, nil
		},
	}
	handler := NewProjectHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/projects/tags", `{"title":"Chat app","description":"realtime"}`), rec)
	c.Set(middleware.UserKey, &domain.User{ID: "u1"})

	if err := handler.SuggestTags(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "{\"data\":[]}\n" {
		t.Fatalf("expected empty data list, got %q", rec.Body.String())
	}

	c = e.NewContext(jsonRequest(http.MethodPost, "/projects/tags", `{"description":"realtime"}`), httptest.NewRecorder())
	c.Set(middleware.UserKey, &domain.User{ID: "u1"})
	if err := handler.SuggestTags(c); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected rate limited error, got %v", err)
	}
}
