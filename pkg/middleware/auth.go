package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/care-io/service-booking/pkg/auth"
	"github.com/care-io/service-booking/pkg/response"
)

const principalKey = "principal"

// PrincipalResolver turns a bearer credential into a Principal.
type PrincipalResolver interface {
	ResolvePrincipal(token string) (auth.Principal, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// resolved principal on the context.
func AuthMiddleware(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}

		principal, err := resolver.ResolvePrincipal(strings.TrimSpace(token))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the principal holds one of roles.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	allowed := make(map[auth.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			response.Unauthorized(c, "")
			return
		}
		if _, ok := allowed[p.Role]; !ok {
			response.Forbidden(c, "insufficient role")
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the principal stored by AuthMiddleware.
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// GetUserID returns the principal's id.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	p, ok := GetPrincipal(c)
	if !ok {
		return uuid.Nil, false
	}
	return p.ID, true
}

// GetUserRole returns the principal's role.
func GetUserRole(c *gin.Context) (auth.Role, bool) {
	p, ok := GetPrincipal(c)
	if !ok {
		return "", false
	}
	return p.Role, true
}
