package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devshowcase/showcase-api/internal/api/middleware"
	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

type stubCommentService struct {
	ports.CommentService

	addFn  func(ctx context.Context, projectID string, actor *domain.User, content string) (*ports.CommentView, error)
	listFn func(ctx context.Context, projectID string, viewer *domain.User) ([]ports.CommentView, error)
}

func (s *stubCommentService) Add(ctx context.Context, projectID string, actor *domain.User, content string) (*ports.CommentView, error) {
	return s.addFn(ctx, projectID, actor, content)
}

func (s *stubCommentService) List(ctx context.Context, projectID string, viewer *domain.User) ([]ports.CommentView, error) {
	return s.listFn(ctx, projectID, viewer)
}

type notifierFunc func(view ports.CommentView)

func (f notifierFunc) CommentCreated(view ports.CommentView) { f(view) }

func TestCommentHandler_Add_NotifiesAfterResponse(t *testing.T) {
	e := newTestEcho()
	author := &domain.User{ID: "u1", FullName: "Ann"}
	stub := &stubCommentService{
		addFn: func(ctx context.Context, projectID string, actor *domain.User, content string) (*ports.CommentView, error) {
			ref := actor.Ref()
			return &ports.CommentView{
				Comment: &domain.Comment{ID: "c1", ProjectID: projectID, AuthorID: actor.ID, Content: content},
				Author:  &ref,
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	var notified []ports.CommentView
	statusAtNotify := 0
	handler := NewCommentHandler(stub, notifierFunc(func(view ports.CommentView) {
		statusAtNotify = rec.Code
		notified = append(notified, view)
	}))

	c := e.NewContext(jsonRequest(http.MethodPost, "/comments/p1", `{"content":"nice"}`), rec)
	c.SetParamNames("projectId")
	c.SetParamValues("p1")
	c.Set(middleware.UserKey, author)

	if err := handler.Add(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(notified) != 1 || notified[0].ID != "c1" || notified[0].Author.FullName != "Ann" {
		t.Fatalf("unexpected notifications %+v", notified)
	}
	if statusAtNotify != http.StatusCreated || rec.Body.Len() == 0 {
		t.Fatalf("notification fired before the response was written (status %d)", statusAtNotify)
	}
}

func TestCommentHandler_Add_NoNotificationOnFailure(t *testing.T) {
	e := newTestEcho()
	stub := &stubCommentService{
		addFn: func(ctx context.Context, projectID string, actor *domain.User, content string) (*ports.CommentView, error) {
			return nil, domain.ErrProjectNotFound
		},
	}
	handler := NewCommentHandler(stub, notifierFunc(func(ports.CommentView) {
		t.Fatalf("failed comment must not be broadcast")
	}))

	c := e.NewContext(jsonRequest(http.MethodPost, "/comments/p1", `{"content":"nice"}`), httptest.NewRecorder())
	c.SetParamNames("projectId")
	c.SetParamValues("p1")
	c.Set(middleware.UserKey, &domain.User{ID: "u1"})

	if err := handler.Add(c); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestCommentHandler_List_PassesViewer(t *testing.T) {
	e := newTestEcho()
	viewer := &domain.User{ID: "u1"}
	stub := &stubCommentService{
		listFn: func(ctx context.Context, projectID string, got *domain.User) ([]ports.CommentView, error) {
			if projectID != "p1" || got != viewer {
				t.Fatalf("unexpected args %s %+v", projectID, got)
			}
			return []ports.CommentView{}, nil
		},
	}
	handler := NewCommentHandler(stub, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/comments/p1", nil), rec)
	c.SetParamNames("projectId")
	c.SetParamValues("p1")
	c.Set(middleware.UserKey, viewer)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
