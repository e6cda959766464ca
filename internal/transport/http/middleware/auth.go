package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/FrancoTaaber/photos-api/internal/infra/security"
	"github.com/FrancoTaaber/photos-api/internal/usecase"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// RequireAuth validates the Authorization header and stores the caller's
// identity on the request context.
func RequireAuth(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid authorization format: expected 'Bearer <token>'"))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing access token"))
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid access token"))
			return
		}

		actor := usecase.Actor{
			Name:   claims.Subject,
			Roles:  claims.Roles,
			Origin: c.ClientIP(),
		}
		c.Set(ActorKey, actor)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.Actor = actor.Name
		}

		c.Next()
	}
}

// RequireRole checks that the authenticated caller holds any of the named
// roles. Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		for _, role := range roles {
			if actor.HasRole(role) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			newErrorResponse(c, "insufficient permissions"))
	}
}

// GetActor retrieves the authenticated caller from the request context.
func GetActor(c *gin.Context) (usecase.Actor, bool) {
	value, exists := c.Get(ActorKey)
	if !exists {
		return usecase.Actor{}, false
	}

	actor, ok := value.(usecase.Actor)
	return actor, ok
}

// AnonymousActor describes an unauthenticated caller for operations that do
// not require identity, keeping the request origin for the audit log.
func AnonymousActor(c *gin.Context) usecase.Actor {
	return usecase.Actor{Origin: c.ClientIP()}
}
