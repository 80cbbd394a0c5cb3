package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

const (
	// DefaultTokenTTL is the fixed lifetime of an issued token.
	DefaultTokenTTL   = 30 * 24 * time.Hour
	minPasswordLength = 6
)

// AuthService implements registration, login, profile management and token
// verification.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: time.Now}
}

// Register creates an account. The very first account becomes an admin.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := normalizeEmail(in.Email)
	if fullName == "" || email == "" || in.Password == "" {
		return nil, domain.InvalidInput("Please enter all fields")
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.InvalidInput("Password must be at least 6 characters long")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailInUse
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	role, err := s.bootstrapRole(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Profile:      domain.Profile{Skills: []string{}},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if role == domain.RoleAdmin {
			_ = s.repo.ReleaseAdminSeat(ctx)
		}
		return nil, err
	}

	return s.issue(created)
}

// bootstrapRole grants admin to the account created on an empty store. The
// seat claim keeps concurrent first registrations from both becoming admin.
func (s *AuthService) bootstrapRole(ctx context.Context) (string, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return "", err
	}
	if total > 0 {
		return domain.RoleUser, nil
	}
	claimed, err := s.repo.ClaimAdminSeat(ctx)
	if err != nil {
		return "", err
	}
	if claimed {
		return domain.RoleAdmin, nil
	}
	return domain.RoleUser, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate verifies a token's signature and expiry and resolves its
// subject to a persisted user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	id, _ := claims["id"].(string)
	if id == "" {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile applies the non-empty fields of in and returns a refreshed token.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ports.UpdateProfileInput) (*ports.AuthResult, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if v := trimmed(in.FullName); v != "" {
		user.FullName = v
	}
	if v := normalizeEmail(deref(in.Email)); v != "" && v != user.Email {
		if other, err := s.repo.FindByEmail(ctx, v); err == nil && other.ID != user.ID {
			return nil, domain.ErrEmailInUse
		} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		user.Email = v
	}
	if pw := deref(in.Password); pw != "" {
		if len(pw) < minPasswordLength {
			return nil, domain.InvalidInput("Password must be at least 6 characters long")
		}
		hash, err := hashPassword(pw)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if v := trimmed(in.Bio); v != "" {
		user.Profile.Bio = v
	}
	if in.Skills != nil {
		user.Profile.Skills = domain.NormalizeTags(*in.Skills)
	}
	if in.SocialLinks != nil {
		user.Profile.SocialLinks = in.SocialLinks
	}
	user.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.issue(updated)
}

// ChangePassword rotates the credential after verifying the current one and
// returns a new token.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) (string, error) {
	if current == "" || next == "" {
		return "", domain.InvalidInput("Please provide both current and new passwords")
	}
	if len(next) < minPasswordLength {
		return "", domain.InvalidInput("New password must be at least 6 characters long")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return "", domain.ErrWrongPassword
	}

	hash, err := hashPassword(next)
	if err != nil {
		return "", err
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now().UTC()

	if _, err := s.repo.Update(ctx, user); err != nil {
		return "", err
	}
	return s.generateToken(user.ID)
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) generateToken(userID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func hashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimmed(s *string) string {
	return strings.TrimSpace(deref(s))
}
