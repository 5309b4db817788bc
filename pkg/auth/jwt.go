package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role is the authorization role carried by a principal.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid returns true if the role is recognized.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// ErrInvalidToken is returned for malformed, expired or mistyped tokens.
var ErrInvalidToken = errors.New("invalid token")

// Principal identifies the acting user of a request.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Claims is the JWT payload.
type Claims struct {
	Email string    `json:"email"`
	Role  Role      `json:"role"`
	Type  TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is issued on login.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// JWTManager issues and verifies HS256 tokens.
type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTManager creates a JWTManager.
func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// GenerateTokenPair issues an access and a refresh token for p.
func (m *JWTManager) GenerateTokenPair(p Principal) (*TokenPair, error) {
	access, expiresAt, err := m.sign(p, TokenAccess, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := m.sign(p, TokenRefresh, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

// GenerateAccessToken issues a single access token for p.
func (m *JWTManager) GenerateAccessToken(p Principal) (string, time.Time, error) {
	return m.sign(p, TokenAccess, m.accessTTL)
}

func (m *JWTManager) sign(p Principal, typ TokenType, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Email: p.Email,
		Role:  p.Role,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ResolvePrincipal verifies an access token and returns the principal it names.
func (m *JWTManager) ResolvePrincipal(token string) (Principal, error) {
	return m.verify(token, TokenAccess)
}

// ResolveRefresh verifies a refresh token and returns the principal it names.
func (m *JWTManager) ResolveRefresh(token string) (Principal, error) {
	return m.verify(token, TokenRefresh)
}

func (m *JWTManager) verify(tokenStr string, want TokenType) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	if claims.Type != want || !claims.Role.IsValid() {
		return Principal{}, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Principal{}, ErrInvalidToken
	}
	return Principal{ID: id, Email: claims.Email, Role: claims.Role}, nil
}
