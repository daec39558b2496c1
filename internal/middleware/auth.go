package middleware

import (
	"errors"
	"net/http"
	"strings"

	"anoa.com/mediannsp/internal/entity"
	auth "anoa.com/mediannsp/internal/modules/auth/service"
	userRepo "anoa.com/mediannsp/internal/modules/user/repository"
	"anoa.com/mediannsp/pkg/response"
	"github.com/gin-gonic/gin"
)

const userKey = "user"

type AuthMiddleware struct {
	userRepo userRepo.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthMiddleware(userRepo userRepo.UserRepository, tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RequireAuth verifies the bearer token and attaches the current user.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			response.Abort(c, http.StatusUnauthorized, "Access token is required")
			return
		}

		claims, err := m.tokens.Parse(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				response.Abort(c, http.StatusUnauthorized, "Token expired")
				return
			}
			response.Abort(c, http.StatusForbidden, "Invalid token")
			return
		}

		user, err := m.userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if user == nil {
			response.Abort(c, http.StatusUnauthorized, "Invalid token: user no longer exists")
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// SetCurrentUser attaches user to the request.
func SetCurrentUser(c *gin.Context, user *entity.User) {
	c.Set(userKey, user)
}

// CurrentUser returns the user attached by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*entity.User)
	return user
}

// CurrentUserID is the authenticated user's id for created_by style columns.
func CurrentUserID(c *gin.Context) *uint {
	user := CurrentUser(c)
	if user == nil {
		return nil
	}
	id := user.ID
	return &id
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		for _, role := range roles {
			if user.RoleName == role {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}

func RequirePermission(perm entity.Permission) gin.HandlerFunc {
	return RequireRole(entity.RolesWith(perm)...)
}
