package domain

import "time"

// EngagementKind distinguishes the two (user, project) join relations.
type EngagementKind string

const (
	KindLike     EngagementKind = "like"
	KindBookmark EngagementKind = "bookmark"
)

// Engagement is a join record: one user liked or bookmarked one project.
// A (kind, user, project) triple exists at most once.
type Engagement struct {
	Kind      EngagementKind `json:"kind"`
	UserID    string         `json:"userId"`
	ProjectID string         `json:"projectId"`
	CreatedAt time.Time      `json:"createdAt"`
}

// DuplicateErr is the conflict returned when the relation already exists.
func (k EngagementKind) DuplicateErr() error {
	if k == KindBookmark {
		return ErrAlreadyBookmarked
	}
	return ErrAlreadyLiked
}

// MissingErr is the conflict returned when removing a relation that does not exist.
func (k EngagementKind) MissingErr() error {
	if k == KindBookmark {
		return ErrNotBookmarked
	}
	return ErrNotLiked
}
