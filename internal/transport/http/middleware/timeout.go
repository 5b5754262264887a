package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	resp "used-market/internal/transport/http/response"
)

func Timeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		return pass
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			abort(c, resp.CodeTimeout, "timeout")
		}
	}
}
