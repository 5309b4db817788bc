package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	userDomain "github.com/care-io/service-booking/internal/domain/user"
	"github.com/care-io/service-booking/pkg/auth"
	"github.com/care-io/service-booking/pkg/domain"
)

// RegisterRequest is the request DTO for creating an account with a password.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	NID      string `json:"nid"`
	Contact  string `json:"contact"`
}

// LoginRequest is the request DTO for password sign-in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UpdateProfileRequest is the request DTO for editing the caller's profile.
type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// ChangePasswordRequest is the request DTO for rotating a password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// GoogleProfile is the identity returned by Google after sign-in.
type GoogleProfile struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// UserDTO is the API response representation of an account.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	NID         string     `json:"nid,omitempty"`
	Contact     string     `json:"contact,omitempty"`
	Image       string     `json:"image,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// AuthResult is returned by every sign-in flow.
type AuthResult struct {
	Tokens *auth.TokenPair `json:"tokens"`
	User   UserDTO         `json:"user"`
}

// AccessTokenDTO is returned when an access token is refreshed.
type AccessTokenDTO struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// UserService handles account use cases.
type UserService struct {
	repo        userDomain.UserRepository
	jwt         *auth.JWTManager
	logger      *zap.Logger
	adminEmails map[string]struct{}
}

// NewUserService creates a new UserService.
func NewUserService(repo userDomain.UserRepository, jwt *auth.JWTManager, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, jwt: jwt, logger: logger, adminEmails: map[string]struct{}{}}
}

// SetAdminEmails lists accounts that are granted the admin role when they sign in.
func (s *UserService) SetAdminEmails(emails []string) {
	s.adminEmails = make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = userDomain.NormalizeEmail(e); e != "" {
			s.adminEmails[e] = struct{}{}
		}
	}
}

// Register creates an account. The password is hashed here, before the
// repository sees it.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	email := userDomain.NormalizeEmail(req.Email)
	if len(req.Password) < userDomain.MinPasswordLength {
		return nil, domain.NewFieldValidationError("password", "password must be at least 8 characters")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !domain.IsNotFound(err) {
		return nil, asStorageError("find user", err)
	}
	if existing != nil {
		return nil, domain.NewConflictError("an account with this email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, domain.NewStorageError("hash password", err)
	}

	u, err := userDomain.NewUser(req.Name, email, hash, req.NID, req.Contact, "", "")
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, asStorageError("save user", err)
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID().String()))

	result := toUserDTO(u)
	return &result, nil
}

// Login verifies credentials and issues a token pair.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	u, err := s.repo.FindByEmail(ctx, userDomain.NormalizeEmail(req.Email))
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUnauthenticatedError("invalid email or password")
		}
		return nil, asStorageError("find user", err)
	}

	if !auth.CheckPassword(u.PasswordHash(), req.Password) {
		return nil, domain.NewUnauthenticatedError("invalid email or password")
	}
	if !u.IsActive() {
		return nil, domain.NewUnauthenticatedError("account is not active")
	}

	return s.issueTokens(ctx, u)
}

// LoginWithGoogle signs in a Google identity, linking it to an existing
// account with the same email or creating a new one.
func (s *UserService) LoginWithGoogle(ctx context.Context, profile GoogleProfile) (*AuthResult, error) {
	if profile.Subject == "" || profile.Email == "" {
		return nil, domain.NewUnauthenticatedError("google profile is incomplete")
	}
	if !profile.EmailVerified {
		return nil, domain.NewUnauthenticatedError("google email is not verified")
	}

	u, err := s.repo.FindByGoogleID(ctx, profile.Subject)
	if err != nil && !domain.IsNotFound(err) {
		return nil, asStorageError("find user", err)
	}

	if u == nil {
		u, err = s.repo.FindByEmail(ctx, userDomain.NormalizeEmail(profile.Email))
		if err != nil && !domain.IsNotFound(err) {
			return nil, asStorageError("find user", err)
		}
		if u != nil {
			u.LinkGoogle(profile.Subject, profile.Picture)
			if err := s.repo.Update(ctx, u); err != nil {
				return nil, asStorageError("update user", err)
			}
		}
	}

	if u == nil {
		name := strings.TrimSpace(profile.Name)
		if name == "" {
			name = strings.Split(profile.Email, "@")[0]
		}
		u, err = userDomain.NewUser(name, profile.Email, "", "", "", profile.Subject, profile.Picture)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Save(ctx, u); err != nil {
			return nil, asStorageError("save user", err)
		}
		s.logger.Info("user registered via google", zap.String("user_id", u.ID().String()))
	}

	if !u.IsActive() {
		return nil, domain.NewUnauthenticatedError("account is not active")
	}

	return s.issueTokens(ctx, u)
}

// RefreshToken exchanges a refresh token for a new access token. The account
// is re-read so role changes and suspensions take effect.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*AccessTokenDTO, error) {
	p, err := s.jwt.ResolveRefresh(refreshToken)
	if err != nil {
		return nil, domain.NewUnauthenticatedError("invalid refresh token")
	}

	u, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUnauthenticatedError("invalid refresh token")
		}
		return nil, asStorageError("find user", err)
	}
	if !u.IsActive() {
		return nil, domain.NewUnauthenticatedError("account is not active")
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(u.Principal())
	if err != nil {
		return nil, domain.NewStorageError("sign token", err)
	}
	return &AccessTokenDTO{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// GetProfile returns the principal's own account.
func (s *UserService) GetProfile(ctx context.Context, principal auth.Principal) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// UpdateProfile changes the principal's name and contact number.
func (s *UserService) UpdateProfile(ctx context.Context, principal auth.Principal, req UpdateProfileRequest) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	if err := u.UpdateProfile(req.Name, req.Contact); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, asStorageError("update user", err)
	}

	result := toUserDTO(u)
	return &result, nil
}

// ChangePassword replaces the principal's password after checking the
// current one. Accounts without a password (Google only) may set one.
func (s *UserService) ChangePassword(ctx context.Context, principal auth.Principal, req ChangePasswordRequest) error {
	if len(req.NewPassword) < userDomain.MinPasswordLength {
		return domain.NewFieldValidationError("newPassword", "password must be at least 8 characters")
	}

	u, err := s.repo.FindByID(ctx, principal.ID)
	if err != nil {
		return err
	}

	if u.PasswordHash() != "" && !auth.CheckPassword(u.PasswordHash(), req.CurrentPassword) {
		return domain.NewFieldValidationError("currentPassword", "current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return domain.NewStorageError("hash password", err)
	}
	u.SetPasswordHash(hash)

	if err := s.repo.Update(ctx, u); err != nil {
		return asStorageError("update user", err)
	}

	s.logger.Info("password changed", zap.String("user_id", u.ID().String()))
	return nil
}

func (s *UserService) issueTokens(ctx context.Context, u *userDomain.User) (*AuthResult, error) {
	if _, ok := s.adminEmails[u.Email()]; ok && u.Role() != auth.RoleAdmin {
		u.PromoteToAdmin()
		s.logger.Info("user promoted to admin", zap.String("user_id", u.ID().String()))
	}

	tokens, err := s.jwt.GenerateTokenPair(u.Principal())
	if err != nil {
		return nil, domain.NewStorageError("sign token", err)
	}

	u.RecordLogin()
	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Warn("failed to record login",
			zap.String("user_id", u.ID().String()),
			zap.Error(err),
		)
	}

	return &AuthResult{Tokens: tokens, User: toUserDTO(u)}, nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:          u.ID(),
		Name:        u.Name(),
		Email:       u.Email(),
		NID:         u.NID(),
		Contact:     u.Contact(),
		Image:       u.Image(),
		Role:        string(u.Role()),
		Status:      string(u.Status()),
		LastLoginAt: u.LastLoginAt(),
		CreatedAt:   u.CreatedAt(),
		UpdatedAt:   u.UpdatedAt(),
	}
}
