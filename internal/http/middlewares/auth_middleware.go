package middlewares

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/userhub/internal/apperr"
	"github.com/geocoder89/userhub/internal/auth"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep these small interfaces so tests can fake them easily.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

type UserLoader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthMiddleware struct {
	jwt   TokenVerifier
	users UserLoader
}

func NewAuthMiddleware(jwt TokenVerifier, users UserLoader) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users}
}

// RequireAuth verifies the bearer token and attaches the stored user to the
// context. A token for a user that no longer exists is rejected.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, apperr.Unauthorized("unauthorized", "Not authorized, no token"))
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abort(c, apperr.Unauthorized("unauthorized", "Not authorized, no token"))
			return
		}

		claims, err := m.jwt.VerifyToken(raw)
		if err != nil {
			abort(c, apperr.Unauthorized("unauthorized", "Not authorized, invalid or expired token").Wrap(err))
			return
		}

		cctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		u, err := m.users.GetByID(cctx, claims.UserID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				abort(c, apperr.Unauthorized("unauthorized", "Not authorized, user not found"))
				return
			}
			abort(c, apperr.Internal("Could not load user", err))
			return
		}

		SetCurrentUser(c, u)

		c.Next()
	}
}

// Optional helpers so handlers don't need to know the magic keys.

// SetCurrentUser stashes the authenticated user on the context.
func SetCurrentUser(c *gin.Context, u user.User) {
	c.Set(ctxUserIDKey, u.ID)
	c.Set(ctxUserKey, u)
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func CurrentUser(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

func abort(c *gin.Context, err *apperr.Error) {
	_ = c.Error(err)
	c.Abort()
}
