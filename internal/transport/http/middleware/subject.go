package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	resp "used-market/internal/transport/http/response"
)

var errBadBody = errors.New("invalid json body")

// SubjectSource 从请求里取出“资源归属人”的 uid
type SubjectSource func(c *gin.Context) (string, error)

// FromParam 取路径参数
func FromParam(name string) SubjectSource {
	return func(c *gin.Context) (string, error) { return c.Param(name), nil }
}

// FromBody 取 JSON body 中的字段；读完后把 body 放回去，handler 还能再绑定
func FromBody(field string) SubjectSource {
	return func(c *gin.Context) (string, error) {
		if c.Request.Body == nil {
			return "", nil
		}
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return "", err
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(b))
		if len(bytes.TrimSpace(b)) == 0 {
			return "", nil
		}
		var m map[string]json.RawMessage
		if err := json.Unmarshal(b, &m); err != nil {
			return "", errBadBody
		}
		raw, ok := m[field]
		if !ok {
			return "", nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", errBadBody
		}
		return s, nil
	}
}

// SubjectMatch 要求 token 的 uid 与请求声明的 uid 一致，否则 403，不进入 handler
func SubjectMatch(src SubjectSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString(KeyUserID)
		if uid == "" {
			abort(c, resp.CodeUnauthorized, "unauthorized access")
			return
		}
		claimed, err := src(c)
		if err != nil {
			if errors.Is(err, errBadBody) {
				abort(c, resp.CodeBadRequest, err.Error())
				return
			}
			abort(c, resp.CodeBadRequest, "read request body failed")
			return
		}
		if claimed != uid {
			abort(c, resp.CodeForbidden, "forbidden access")
			return
		}
		c.Next()
	}
}
