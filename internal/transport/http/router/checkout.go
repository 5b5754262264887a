package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func mountCheckoutActions(ez EZ, d Deps) {
	type intentIn struct {
		Price float64 `json:"price" binding:"required"`
	}
	type intentOut struct {
		ClientSecret string `json:"clientSecret"`
	}
	RegisterAction(ez, Action[intentIn, intentOut]{
		Method: http.MethodPost,
		Path:   "/create-payment-intent",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *intentIn) (intentOut, error) {
			pi, err := d.Checkout.CreateIntent(c.Request.Context(), in.Price)
			if err != nil {
				return intentOut{}, err
			}
			return intentOut{ClientSecret: pi.ClientSecret}, nil
		},
	})
}
