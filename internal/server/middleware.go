package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/yaseeradam/school-ms-sub002/internal/auth"
	obscontext "github.com/yaseeradam/school-ms-sub002/internal/observability/context"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolctx"
)

const contextClaimsKey = "auth_claims"

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthRequired verifies the Bearer token and scopes the request to the
// caller's school before any handler runs.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := c.Request.Context()
		ctx = schoolctx.WithSchoolID(ctx, mustParseSchoolID(claims.SchoolID))
		ctx = obscontext.WithSchoolID(ctx, claims.SchoolID)
		ctx = obscontext.WithActor(ctx, string(claims.Role), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Set(contextClaimsKey, claims)
		c.Next()
	}
}

func mustParseSchoolID(schoolID string) int64 {
	id, err := snowflake.ParseString(strings.TrimSpace(schoolID))
	if err != nil {
		return 0
	}
	return int64(id)
}

// RequireRole gates a route to the listed roles. AuthRequired must run
// first.
func (s *Server) RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFromContext(c)
		if claims == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

func claimsFromContext(c *gin.Context) *auth.Claims {
	value, ok := c.Get(contextClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
