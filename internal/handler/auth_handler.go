package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/care-io/service-booking/internal/application"
	"github.com/care-io/service-booking/pkg/response"
)

const oauthStateCookie = "oauth_state"

// GoogleAuthenticator runs the Google authorization code flow.
type GoogleAuthenticator interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*application.GoogleProfile, error)
}

// AuthHandler handles registration and sign-in.
type AuthHandler struct {
	service *application.UserService
	google  GoogleAuthenticator
}

// NewAuthHandler creates a new AuthHandler. google may be nil, in which case
// the Google routes answer 404.
func NewAuthHandler(service *application.UserService, google GoogleAuthenticator) *AuthHandler {
	return &AuthHandler{service: service, google: google}
}

// RegisterRoutes registers the public auth routes.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.GET("/google/login", h.GoogleLogin)
		authGroup.GET("/google/callback", h.GoogleCallback)
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req application.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req application.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GoogleLogin handles GET /api/v1/auth/google/login by redirecting to the
// consent screen.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.google == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	state, err := newOAuthState()
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/api/v1/auth/google", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

// GoogleCallback handles GET /api/v1/auth/google/callback.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || expected == "" || expected != c.Query("state") {
		response.BadRequest(c, "invalid oauth state")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/api/v1/auth/google", "", c.Request.TLS != nil, true)

	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "missing authorization code")
		return
	}

	profile, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		response.Unauthorized(c, "google sign-in failed")
		return
	}

	result, err := h.service.LoginWithGoogle(c.Request.Context(), *profile)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func newOAuthState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
