package middleware

import (
	"net/http"
	"strings"

	"boleteria/common"
	"boleteria/internal/auth"

	"github.com/gin-gonic/gin"
)

// Authenticator turns a bearer token into a principal.
type Authenticator interface {
	Authenticate(token string) (*auth.Principal, error)
}

// Authenticate requires a valid, unrevoked bearer token. revoker may be nil.
func Authenticate(tokens Authenticator, revoker auth.Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		send := Send(c)

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			send(Response{Code: http.StatusUnauthorized, Message: "Unauthorized", Error: common.ErrUnauthenticated})
			return
		}

		principal, err := tokens.Authenticate(strings.TrimSpace(token))
		if err != nil {
			send(Response{Code: http.StatusUnauthorized, Message: "Unauthorized", Error: err})
			return
		}

		if revoker != nil && principal.TokenID != "" {
			revoked, err := revoker.IsRevoked(c.Request.Context(), principal.TokenID)
			if err != nil {
				send(Response{Code: http.StatusInternalServerError, Message: "Failed to check token", Error: err})
				return
			}
			if revoked {
				send(Response{Code: http.StatusUnauthorized, Message: "Unauthorized", Error: auth.ErrTokenRevoked})
				return
			}
		}

		c.Set(KeyPrincipal, principal)
		c.Next()
	}
}

// RequireRoles lets the request through when the principal holds any of
// roles. Must run after Authenticate.
func RequireRoles(roles ...common.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			Send(c)(Response{Code: http.StatusUnauthorized, Message: "Unauthorized", Error: common.ErrUnauthenticated})
			return
		}
		for _, role := range roles {
			if principal.Roles.Has(role) {
				c.Next()
				return
			}
		}
		Send(c)(Response{Code: http.StatusForbidden, Message: "Forbidden", Error: common.ErrForbidden})
	}
}

// GetPrincipal returns the principal set by Authenticate
func GetPrincipal(c *gin.Context) (*auth.Principal, bool) {
	value, exists := c.Get(KeyPrincipal)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*auth.Principal)
	return principal, ok
}
