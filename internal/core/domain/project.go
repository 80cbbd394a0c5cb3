package domain

import (
	"strings"
	"time"
)

// Visibility controls whether a project is listed publicly.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Project is the showcase aggregate root.
type Project struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	DriveFileID   string     `json:"driveFileId,omitempty"`
	Media         []string   `json:"media"`
	Tags          []string   `json:"tags"`
	AuthorID      string     `json:"authorId"`
	CategoryID    string     `json:"categoryId,omitempty"`
	Visibility    Visibility `json:"visibility"`
	IsFeatured    bool       `json:"isFeatured"`
	ViewCount     int64      `json:"viewCount"`
	LikeCount     int64      `json:"likeCount"`
	BookmarkCount int64      `json:"bookmarkCount"`
	CommentIDs    []string   `json:"comments"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// VisibleTo reports whether a viewer may read the project. Private projects
// are restricted to their author and admins.
func (p *Project) VisibleTo(viewer *User) bool {
	if p.Visibility != VisibilityPrivate {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.ID == p.AuthorID || viewer.IsAdmin()
}

// ParseTags splits comma-delimited tag text into a trimmed list. Empty entries
// and repeats are dropped; first-seen order is kept.
func ParseTags(raw string) []string {
	tags := make([]string, 0)
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// NormalizeTags applies ParseTags rules to an already split list.
func NormalizeTags(in []string) []string {
	return ParseTags(strings.Join(in, ","))
}
