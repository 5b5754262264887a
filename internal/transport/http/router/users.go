package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"used-market/internal/domain"
)

func mountUserActions(ez EZ, d Deps, _ guards) {
	// /used-jwt：按 uid 签发 token
	type tokenIn struct {
		UID string `json:"uid" binding:"required"`
	}
	type tokenOut struct {
		Token string `json:"token"`
	}
	RegisterAction(ez, Action[tokenIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/used-jwt",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *tokenIn) (tokenOut, error) {
			tok, err := d.JWT.Issue(in.UID)
			if err != nil {
				return tokenOut{}, Internal("issue token failed", err)
			}
			return tokenOut{Token: tok}, nil
		},
	})

	// /users：按 uid 幂等创建，已存在时原样返回
	type userIn struct {
		UID      string `json:"uid" binding:"required"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		PhotoURL string `json:"photoURL"`
	}
	RegisterAction(ez, Action[userIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *userIn) (*domain.User, error) {
			u, _, err := d.Users.Ensure(c.Request.Context(), domain.User{
				UID: in.UID, Name: in.Name, Email: in.Email, PhotoURL: in.PhotoURL,
			})
			return u, err
		},
	})

	RegisterAction(ez, Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return d.Users.Get(c.Request.Context(), c.Param("id"))
		},
	})
}
