package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseTags(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"x, y", []string{"x", "y"}},
		{"  go ,  ,rust,", []string{"go", "rust"}},
		{"a,a, b", []string{"a", "b"}},
		{"", []string{}},
		{" , ", []string{}},
	}

	for _, tc := range cases {
		got := ParseTags(tc.raw)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestProject_VisibleTo(t *testing.T) {
	owner := &User{ID: "u1", Role: RoleUser}
	other := &User{ID: "u2", Role: RoleUser}
	admin := &User{ID: "u3", Role: RoleAdmin}

	public := &Project{AuthorID: "u1", Visibility: VisibilityPublic}
	if !public.VisibleTo(nil) {
		t.Error("public project must be visible to anonymous viewers")
	}

	private := &Project{AuthorID: "u1", Visibility: VisibilityPrivate}
	if private.VisibleTo(nil) || private.VisibleTo(other) {
		t.Error("private project leaked to a non-owner")
	}
	if !private.VisibleTo(owner) || !private.VisibleTo(admin) {
		t.Error("private project must be visible to its author and admins")
	}
}

func TestError_MatchesKindAndInstance(t *testing.T) {
	var err error = ErrCategoryExists
	if !errors.Is(err, ErrConflict) {
		t.Error("ErrCategoryExists must match ErrConflict")
	}
	if !errors.Is(err, ErrCategoryExists) {
		t.Error("ErrCategoryExists must match itself")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("ErrCategoryExists must not match ErrNotFound")
	}
	if err.Error() != "Category already exists" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
