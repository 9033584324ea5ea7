package middleware

import (
	"context"
	"strings"

	"github.com/aknur111/blog-web-site/internal/pkg/identity"
	"github.com/aknur111/blog-web-site/pkg/errs"
	"github.com/aknur111/blog-web-site/pkg/response"

	"github.com/gin-gonic/gin"
)

// TokenResolver 根据 token 查找调用者
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*identity.Identity, error)
}

// ParseBearer extracts the token from "Bearer <token>". The scheme is case
// sensitive and the header must have exactly two space separated parts.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", errs.Unauthorized("missing token")
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errs.Unauthorized("invalid authorization header")
	}
	return parts[1], nil
}

// AuthMiddleware 令牌认证中间件，成功后将 Identity 写入上下文
func AuthMiddleware(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := ParseBearer(c.GetHeader("Authorization"))
		if err != nil {
			response.HandleError(c, err)
			return
		}

		id, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			response.HandleError(c, err)
			return
		}

		identity.Set(c, id)
		c.Next()
	}
}
