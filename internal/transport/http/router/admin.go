package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"used-market/internal/domain"
	mdw "used-market/internal/transport/http/middleware"
)

// 管理端接口：token + admin 角色；不做资源归属校验
func mountAdminActions(ez EZ, d Deps, g guards) {
	type listQ struct {
		Role string `form:"role"`
	}
	RegisterAction(ez, Action[listQ, []domain.User]{
		Method: http.MethodGet,
		Path:   "/all-users",
		Binder: BindQuery,
		Mw:     g.adminOnly(),
		Handler: func(c *gin.Context, in *listQ) ([]domain.User, error) {
			return d.Users.List(c.Request.Context(), in.Role)
		},
	})

	// 不存在则插入一条只有 uid/verified 的记录
	type verifyIn struct {
		Verified *bool `json:"verified" binding:"required"`
	}
	RegisterAction(ez, Action[verifyIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/all-users/:id",
		Binder: BindJSON,
		Mw:     g.adminOnly(),
		Handler: func(c *gin.Context, in *verifyIn) (*domain.User, error) {
			return d.Users.SetVerified(c.Request.Context(), c.Param("id"), *in.Verified)
		},
	})

	type roleIn struct {
		Role string `json:"role" binding:"required"`
	}
	RegisterAction(ez, Action[roleIn, gin.H]{
		Method: http.MethodPatch,
		Path:   "/all-users/:id/role",
		Binder: BindJSON,
		Mw:     g.adminOnly(),
		Handler: func(c *gin.Context, in *roleIn) (gin.H, error) {
			if err := d.Users.SetRole(c.Request.Context(), c.Param("id"), in.Role); err != nil {
				return nil, err
			}
			return gin.H{"uid": c.Param("id"), "role": in.Role}, nil
		},
	})

	// 先删身份服务，再删本地；身份服务失败时本地记录保留
	RegisterAction(ez, Action[struct{}, countOut]{
		Method: http.MethodDelete,
		Path:   "/user/:uid",
		Binder: BindNone,
		Mw:     append(g.adminOnly(), mdw.RequireAdminHeader()),
		Handler: func(c *gin.Context, _ *struct{}) (countOut, error) {
			n, err := d.Users.Delete(c.Request.Context(), c.Param("uid"))
			return countOut{DeletedCount: n}, err
		},
	})
}
