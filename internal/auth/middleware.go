package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/username/alarm-api/internal/apperr"
	"github.com/username/alarm-api/internal/middleware"
)

// PublicRoutes is the allow-list of requests the guard lets through without a
// token. Exact entries are "METHOD /path"; Prefixes match any method.
type PublicRoutes struct {
	Exact    []string
	Prefixes []string
}

// DefaultPublicRoutes lists the endpoints reachable without a token.
func DefaultPublicRoutes(uploadsPrefix string) PublicRoutes {
	return PublicRoutes{
		Exact: []string{
			http.MethodPost + " /auth/register",
			http.MethodPost + " /auth/login",
			http.MethodGet + " /health",
		},
		Prefixes: []string{strings.TrimRight(uploadsPrefix, "/") + "/"},
	}
}

func (p PublicRoutes) allows(method, path string) bool {
	key := method + " " + path
	for _, e := range p.Exact {
		if e == key {
			return true
		}
	}
	for _, prefix := range p.Prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Guard rejects every request without a valid bearer token, except those on
// the public list. It must be installed before any route is registered.
func Guard(issuer *TokenIssuer, public PublicRoutes) gin.HandlerFunc {
	return func(c *gin.Context) {
		if public.allows(c.Request.Method, c.Request.URL.Path) {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperr.Respond(c, nil, apperr.Unauthorized("Authorization header missing or invalid"))
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		cu, err := issuer.Parse(tokenString)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			apperr.Respond(c, nil, apperr.Unauthorized(msg))
			return
		}

		// taruh di context
		c.Set(ContextUserKey, cu)
		c.Set(middleware.PrincipalIDKey, cu.ID)

		c.Next()
	}
}
