package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"used-market/internal/domain"
	"used-market/internal/readmodel"
	mdw "used-market/internal/transport/http/middleware"
)

func mountWishlistActions(ez EZ, d Deps, g guards) {
	type addIn struct {
		AuthorID  string `json:"authorID"  binding:"required"`
		ProductID string `json:"productID" binding:"required"`
	}
	RegisterAction(ez, Action[addIn, *domain.WishlistEntry]{
		Method: http.MethodPost,
		Path:   "/wishlist",
		Binder: BindJSON,
		Mw:     g.owner(mdw.FromBody("authorID")),
		Handler: func(c *gin.Context, in *addIn) (*domain.WishlistEntry, error) {
			return d.Wishlist.Add(c.Request.Context(), in.AuthorID, in.ProductID)
		},
	})

	RegisterAction(ez, Action[struct{}, []readmodel.WishlistItem]{
		Method: http.MethodGet,
		Path:   "/wishlist/:uid",
		Binder: BindNone,
		Mw:     g.owner(mdw.FromParam("uid")),
		Handler: func(c *gin.Context, _ *struct{}) ([]readmodel.WishlistItem, error) {
			return d.Wishlist.List(c.Request.Context(), c.Param("uid"))
		},
	})

	RegisterAction(ez, Action[ownerIn, countOut]{
		Method: http.MethodDelete,
		Path:   "/wishlist/:id",
		Binder: BindJSON,
		Mw:     g.owner(mdw.FromBody("uid")),
		Handler: func(c *gin.Context, in *ownerIn) (countOut, error) {
			n, err := d.Wishlist.Remove(c.Request.Context(), c.Param("id"), in.UID)
			return countOut{DeletedCount: n}, err
		},
	})
}
