package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/service"

	"github.com/gin-gonic/gin"
)

const ContextActorKey = "actor"

// Authenticator resolves a bearer token to the acting user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (model.Actor, error)
}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			return
		}

		actor, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnauthorized):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
			case errors.Is(err, service.ErrUpstream):
				c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"msg": "session store unavailable"})
			default:
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "internal server error"})
			}
			return
		}

		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

// RequirePrivileged must run after AuthMiddleware.
func RequirePrivileged() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
			return
		}
		if !actor.Role.IsPrivileged() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "moderator, admin or owner role required"})
			return
		}
		c.Next()
	}
}

func ActorFrom(c *gin.Context) (model.Actor, bool) {
	v, ok := c.Get(ContextActorKey)
	if !ok {
		return model.Actor{}, false
	}
	actor, ok := v.(model.Actor)
	return actor, ok
}
