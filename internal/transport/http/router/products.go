package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"used-market/internal/domain"
	"used-market/internal/readmodel"
	mdw "used-market/internal/transport/http/middleware"
)

// ownerIn 修改/删除自己的资源时 body 里声明的 uid
type ownerIn struct {
	UID string `json:"uid" binding:"required"`
}

func mountProductActions(ez EZ, d Deps, g guards) {
	RegisterAction(ez, Action[domain.Product, *domain.Product]{
		Method: http.MethodPost,
		Path:   "/product",
		Binder: BindJSON,
		Mw:     g.owner(mdw.FromBody("authorID")),
		Handler: func(c *gin.Context, in *domain.Product) (*domain.Product, error) {
			return d.Products.Create(c.Request.Context(), *in)
		},
	})

	RegisterAction(ez, Action[struct{}, *domain.Product]{
		Method: http.MethodGet,
		Path:   "/product/:id",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Product, error) {
			return d.Products.Get(c.Request.Context(), c.Param("id"))
		},
	})

	type browseQ struct {
		Category string `form:"category"`
		Brand    string `form:"brand"`
	}
	RegisterAction(ez, Action[browseQ, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: BindQuery,
		Handler: func(c *gin.Context, in *browseQ) ([]domain.Product, error) {
			return d.Products.Browse(c.Request.Context(), in.Category, in.Brand)
		},
	})

	RegisterAction(ez, Action[struct{}, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/my-products/:uid",
		Binder: BindNone,
		Mw:     g.owner(mdw.FromParam("uid")),
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Product, error) {
			return d.Products.ByAuthor(c.Request.Context(), c.Param("uid"))
		},
	})

	RegisterAction(ez, Action[ownerIn, countOut]{
		Method: http.MethodPatch,
		Path:   "/my-products/:id",
		Binder: BindJSON,
		Mw:     g.owner(mdw.FromBody("uid")),
		Handler: func(c *gin.Context, in *ownerIn) (countOut, error) {
			n, err := d.Products.ToggleAdvertise(c.Request.Context(), c.Param("id"), in.UID)
			return countOut{ModifiedCount: n}, err
		},
	})

	RegisterAction(ez, Action[ownerIn, countOut]{
		Method: http.MethodDelete,
		Path:   "/my-products/:id",
		Binder: BindJSON,
		Mw:     g.owner(mdw.FromBody("uid")),
		Handler: func(c *gin.Context, in *ownerIn) (countOut, error) {
			n, err := d.Products.Delete(c.Request.Context(), c.Param("id"), in.UID)
			return countOut{DeletedCount: n}, err
		},
	})

	RegisterAction(ez, Action[struct{}, []readmodel.AdvertisedProduct]{
		Method: http.MethodGet,
		Path:   "/advertise-product",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]readmodel.AdvertisedProduct, error) {
			return d.Products.Advertised(c.Request.Context())
		},
	})
}
