package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const KeyRequestID = "X-Request-ID"

type ridKey struct{}

// 客户端传入的 id 过长时丢弃，重新生成
const maxRequestIDLen = 128

// RequestID 同时写入 gin.Context 与 request context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ridKey{}, rid))
		c.Next()
	}
}

// RequestIDFrom 从 context 取 request id，没有则为空串
func RequestIDFrom(ctx context.Context) string {
	s, _ := ctx.Value(ridKey{}).(string)
	return s
}
