package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"used-market/internal/core/auth"
	"used-market/internal/core/config"
	"used-market/internal/core/server"
	"used-market/internal/service"
	mdw "used-market/internal/transport/http/middleware"
	resp "used-market/internal/transport/http/response"
)

// Deps 由 main 组装后注入，路由层不持有任何全局状态
type Deps struct {
	Log      *zap.Logger
	Cfg      *config.Config
	JWT      *auth.JWTer
	Users    *service.UserService
	Products *service.ProductService
	Catalog  *service.CatalogService
	Wishlist *service.WishlistService
	Orders   *service.OrderService
	Checkout *service.CheckoutService
	// Health 探测 DB/缓存，可为 nil
	Health func(ctx context.Context) error
}

func NewAPIEngine(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Cfg == nil {
		d.Cfg = config.Default()
	}
	lim := d.Cfg.Limits

	r := server.NewRouter(d.Log, d.Cfg.App.Env)
	if d.Cfg.Tracing.Enable {
		r.Use(otelgin.Middleware(d.Cfg.App.Name))
	}
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst, 10*time.Minute),
		mdw.ConcurrencyLimit(lim.Concurrency),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(time.Duration(lim.TimeoutSec)*time.Second),
		mdw.Recovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Used Server is running") })
	r.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				d.Log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, "unhealthy"))
				return
			}
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1}))
	})
	r.GET("/metrics", mdw.MetricsHandler())

	ez := New(&r.RouterGroup, d.Log)
	g := guards{
		token: mdw.AuthJWT(d.JWT),
		admin: mdw.RequireAdmin(d.Users, d.Log),
	}

	mountUserActions(ez, d, g)
	mountProductActions(ez, d, g)
	mountWishlistActions(ez, d, g)
	mountOrderActions(ez, d, g)
	mountCatalogActions(ez, d, g)
	mountAdminActions(ez, d, g)
	mountCheckoutActions(ez, d)

	return r
}

// guards 常用的路由级中间件组合
type guards struct {
	token gin.HandlerFunc
	admin gin.HandlerFunc
}

// owner token + subject 校验
func (g guards) owner(src mdw.SubjectSource) []gin.HandlerFunc {
	return []gin.HandlerFunc{g.token, mdw.SubjectMatch(src)}
}

func (g guards) adminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{g.token, g.admin}
}

type countOut struct {
	DeletedCount  int64 `json:"deletedCount,omitempty"`
	ModifiedCount int64 `json:"modifiedCount,omitempty"`
}
