package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"used-market/internal/core/auth"
	resp "used-market/internal/transport/http/response"
)

// KeyUserID 校验通过后写入 gin.Context 的 subject（uid）
const KeyUserID = "userId"

func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(resp.Status(code), resp.Error(code, msg))
}

// AuthJWT 只校验 token 并取出 uid，角色由 RequireAdmin 查库判断
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			abort(c, resp.CodeUnauthorized, "unauthorized access")
			return
		}
		claims, err := j.Parse(strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")))
		if err != nil {
			abort(c, resp.CodeUnauthorized, "unauthorized access")
			return
		}
		c.Set("claims", claims)
		c.Set(KeyUserID, claims.UID)
		c.Next()
	}
}
