package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"used-market/internal/readmodel"
	"used-market/internal/service"
	mdw "used-market/internal/transport/http/middleware"
)

func mountOrderActions(ez EZ, d Deps, g guards) {
	type orderIn struct {
		ProductID     string     `json:"productID"   binding:"required"`
		CustomerID    string     `json:"customer_id" binding:"required"`
		Price         float64    `json:"price"`
		Date          *time.Time `json:"date"`
		TransactionID string     `json:"transactionId"`
	}

	var mw []gin.HandlerFunc
	if d.Cfg.Orders.RequireAuth {
		mw = g.owner(mdw.FromBody("customer_id"))
	}
	RegisterAction(ez, Action[orderIn, *service.PlaceOrderResult]{
		Method: http.MethodPost,
		Path:   "/orders",
		Binder: BindJSON,
		Mw:     mw,
		Handler: func(c *gin.Context, in *orderIn) (*service.PlaceOrderResult, error) {
			po := service.PlaceOrderInput{
				ProductID:     in.ProductID,
				CustomerID:    in.CustomerID,
				Price:         in.Price,
				TransactionID: in.TransactionID,
			}
			if in.Date != nil {
				po.Date = *in.Date
			}
			res, err := d.Orders.Place(c.Request.Context(), po)
			var ce *service.OrderCascadeError
			switch {
			case err == nil:
				mdw.ObserveOrder("ok")
			case errors.As(err, &ce):
				mdw.ObserveOrder("partial")
			default:
				if ae := toAErr(err); ae.Code < 500 {
					mdw.ObserveOrder("rejected")
				} else {
					mdw.ObserveOrder("error")
				}
			}
			return res, err
		},
	})

	RegisterAction(ez, Action[struct{}, []readmodel.OrderItem]{
		Method: http.MethodGet,
		Path:   "/my-orders/:uid",
		Binder: BindNone,
		Mw:     g.owner(mdw.FromParam("uid")),
		Handler: func(c *gin.Context, _ *struct{}) ([]readmodel.OrderItem, error) {
			return d.Orders.ByCustomer(c.Request.Context(), c.Param("uid"))
		},
	})
}
