package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "used-market/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小
func MaxBodyBytes(n int64) gin.HandlerFunc {
	if n <= 0 {
		return pass
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			abort(c, resp.CodeBadRequest, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
