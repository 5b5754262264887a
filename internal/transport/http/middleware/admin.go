package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"used-market/internal/domain"
	resp "used-market/internal/transport/http/response"
)

// HeaderAdminID 删除用户时要求调用方再声明一次自己的 uid
const HeaderAdminID = "X-Admin-Id"

type UserLookup interface {
	Get(ctx context.Context, uid string) (*domain.User, error)
}

// RequireAdmin 按 uid 查库判断角色；查不到用户同样 403
func RequireAdmin(users UserLookup, l *zap.Logger) gin.HandlerFunc {
	if l == nil {
		l = zap.NewNop()
	}
	return func(c *gin.Context) {
		uid := c.GetString(KeyUserID)
		if uid == "" {
			abort(c, resp.CodeUnauthorized, "unauthorized access")
			return
		}
		u, err := users.Get(c.Request.Context(), uid)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			abort(c, resp.CodeForbidden, "forbidden access")
			return
		case err != nil:
			l.Error("admin gate: load user", zap.String("uid", uid), zap.Error(err))
			abort(c, resp.CodeServerError, "")
			return
		case !u.IsAdmin():
			abort(c, resp.CodeForbidden, "forbidden access")
			return
		}
		c.Next()
	}
}

// RequireAdminHeader X-Admin-Id 必须等于 token 的 uid
func RequireAdminHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader(HeaderAdminID)
		if h == "" || h != c.GetString(KeyUserID) {
			abort(c, resp.CodeForbidden, "forbidden access")
			return
		}
		c.Next()
	}
}
