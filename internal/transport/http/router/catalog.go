package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"used-market/internal/domain"
)

type valueIn struct {
	Value string `json:"value" binding:"required"`
}

func mountCatalogActions(ez EZ, d Deps, g guards) {
	// --- 分类 ---
	RegisterAction(ez, Action[struct{}, []domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Category, error) {
			return d.Catalog.Categories(c.Request.Context())
		},
	})
	RegisterAction(ez, Action[struct{}, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/category/:id",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Product, error) {
			return d.Catalog.CategoryProducts(c.Request.Context(), c.Param("id"))
		},
	})
	RegisterAction(ez, Action[valueIn, *domain.Category]{
		Method: http.MethodPost,
		Path:   "/category",
		Binder: BindJSON,
		Mw:     []gin.HandlerFunc{g.token},
		Handler: func(c *gin.Context, in *valueIn) (*domain.Category, error) {
			return d.Catalog.CreateCategory(c.Request.Context(), in.Value)
		},
	})
	RegisterAction(ez, Action[struct{}, countOut]{
		Method: http.MethodDelete,
		Path:   "/category/:id",
		Binder: BindNone,
		Mw:     g.adminOnly(),
		Handler: func(c *gin.Context, _ *struct{}) (countOut, error) {
			n, err := d.Catalog.DeleteCategory(c.Request.Context(), c.Param("id"))
			return countOut{DeletedCount: n}, err
		},
	})

	// --- 品牌 ---
	RegisterAction(ez, Action[struct{}, []domain.Brand]{
		Method: http.MethodGet,
		Path:   "/brand",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Brand, error) {
			return d.Catalog.Brands(c.Request.Context())
		},
	})
	RegisterAction(ez, Action[struct{}, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/brand/:id",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Product, error) {
			return d.Catalog.BrandProducts(c.Request.Context(), c.Param("id"))
		},
	})
	RegisterAction(ez, Action[valueIn, *domain.Brand]{
		Method: http.MethodPost,
		Path:   "/brand",
		Binder: BindJSON,
		Mw:     g.adminOnly(),
		Handler: func(c *gin.Context, in *valueIn) (*domain.Brand, error) {
			return d.Catalog.CreateBrand(c.Request.Context(), in.Value)
		},
	})
	RegisterAction(ez, Action[struct{}, countOut]{
		Method: http.MethodDelete,
		Path:   "/brand/:id",
		Binder: BindNone,
		Mw:     g.adminOnly(),
		Handler: func(c *gin.Context, _ *struct{}) (countOut, error) {
			n, err := d.Catalog.DeleteBrand(c.Request.Context(), c.Param("id"))
			return countOut{DeletedCount: n}, err
		},
	})
}
