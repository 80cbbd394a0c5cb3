package handler

import (
	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Message string `json:"message"`
}

// messageResponse acknowledges a mutation that returns no resource.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	FullName string `json:"fullName" validate:"max=120"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password" validate:"max=72"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	FullName    *string           `json:"fullName"    validate:"omitempty,max=120"`
	Email       *string           `json:"email"       validate:"omitempty,email"`
	Password    *string           `json:"password"    validate:"omitempty,max=72"`
	Bio         *string           `json:"bio"         validate:"omitempty,max=2000"`
	Skills      *[]string         `json:"skills"      validate:"omitempty,max=50"`
	SocialLinks map[string]string `json:"socialLinks" validate:"omitempty,max=20"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"max=72"`
}

type authResponse struct {
	ID       string          `json:"_id"`
	FullName string          `json:"fullName"`
	Email    string          `json:"email"`
	Role     string          `json:"role"`
	Profile  *domain.Profile `json:"profile,omitempty"`
	Token    string          `json:"token"`
}

type tokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// --- Projects ---

type createProjectRequest struct {
	Title       string   `json:"title"       validate:"max=200"`
	Description string   `json:"description" validate:"max=10000"`
	DriveFileID string   `json:"driveFileId" validate:"max=200"`
	Media       []string `json:"media"       validate:"max=20,dive,max=2048"`
	Tags        string   `json:"tags"        validate:"max=1000"`
	Category    string   `json:"category"`
	Visibility  string   `json:"visibility"  validate:"omitempty,oneof=public private"`
}

type updateProjectRequest struct {
	Title       *string   `json:"title"       validate:"omitempty,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=10000"`
	DriveFileID *string   `json:"driveFileId" validate:"omitempty,max=200"`
	Media       *[]string `json:"media"       validate:"omitempty,max=20,dive,max=2048"`
	Tags        *string   `json:"tags"        validate:"omitempty,max=1000"`
	Category    *string   `json:"category"`
	Visibility  *string   `json:"visibility"  validate:"omitempty,oneof=public private"`
}

type listProjectsQuery struct {
	Search   string `query:"search"`
	Category string `query:"category"`
	Tags     string `query:"tags"`
	SortBy   string `query:"sortBy"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

type listProjectsResponse struct {
	Projects   []ports.ProjectView `json:"projects"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"totalPages"`
}

type suggestTagsRequest struct {
	Title       string `json:"title"       validate:"max=200"`
	Description string `json:"description" validate:"max=10000"`
}

type suggestTagsResponse struct {
	Data []string `json:"data"`
}

// --- Comments ---

type commentRequest struct {
	Content *string `json:"content" validate:"omitempty,max=5000"`
}

// --- Categories ---

type categoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}
