package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"used-market/internal/domain"
	"used-market/internal/service"
	mdw "used-market/internal/transport/http/middleware"
	resp "used-market/internal/transport/http/response"
)

/* ================== 轻封装：分组 + 日志 ================== */

type EZ struct {
	g *gin.RouterGroup
	l *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, l: l}
}

/* ================== Action（一行注册一个接口） ================== */

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Data any
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// cascadeData 下单部分成功时随 500 一起返回
type cascadeData struct {
	OrderID    string `json:"orderId"`
	FailedStep string `json:"failedStep"`
}

// toAErr 把 service/domain 错误映射为响应码；未知错误不向外暴露细节
func toAErr(err error) *AErr {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae
	}
	var ce *service.OrderCascadeError
	if errors.As(err, &ce) {
		return &AErr{
			Code: resp.CodeServerError,
			Msg:  "order created but " + ce.Step + " failed",
			Data: cascadeData{OrderID: ce.OrderID, FailedStep: ce.Step},
			Err:  err,
		}
	}
	switch {
	case errors.Is(err, domain.ErrInvalid):
		return &AErr{Code: resp.CodeBadRequest, Msg: err.Error(), Err: err}
	case errors.Is(err, domain.ErrNotFound):
		return &AErr{Code: resp.CodeNotFound, Msg: err.Error(), Err: err}
	case errors.Is(err, domain.ErrConflict):
		return &AErr{Code: resp.CodeConflict, Msg: err.Error(), Err: err}
	case errors.Is(err, domain.ErrUnauthorized):
		return &AErr{Code: resp.CodeUnauthorized, Msg: "unauthorized access", Err: err}
	case errors.Is(err, domain.ErrForbidden):
		return &AErr{Code: resp.CodeForbidden, Msg: "forbidden access", Err: err}
	case errors.Is(err, domain.ErrUpstream):
		return &AErr{Code: resp.CodeBadGateway, Msg: "upstream service failed", Err: err}
	}
	return &AErr{Code: resp.CodeServerError, Err: err}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string            // "GET" | "POST" | "PUT" | "PATCH" | "DELETE"
	Path    string            // 例："/product"、"/my-products/:id"
	Binder  Binder            // 绑定方式
	Mw      []gin.HandlerFunc // 路由级中间件（鉴权、subject 校验、admin）
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default:
		}
		if bindErr != nil {
			c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		// 2) 执行
		out, err := a.Handler(c, &in)

		// 3) 统一错误映射
		if err != nil {
			ae := toAErr(err)
			if ae.Code >= resp.CodeServerError {
				e.l.Error("action failed",
					zap.String("rid", mdw.RequestIDFrom(c.Request.Context())),
					zap.String("path", a.Path),
					zap.String("uid", c.GetString(mdw.KeyUserID)),
					zap.Int("code", ae.Code),
					zap.Error(err),
				)
			}
			c.JSON(resp.Status(ae.Code), resp.ErrorWith(ae.Code, ae.Msg, ae.Data))
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	handlers := append(append([]gin.HandlerFunc{}, a.Mw...), h)
	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, handlers...)
	case http.MethodPut:
		e.g.PUT(a.Path, handlers...)
	case http.MethodPatch:
		e.g.PATCH(a.Path, handlers...)
	case http.MethodDelete:
		e.g.DELETE(a.Path, handlers...)
	default: // 默认 POST
		e.g.POST(a.Path, handlers...)
	}
}
