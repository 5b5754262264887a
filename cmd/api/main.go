package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"used-market/internal/core/auth"
	"used-market/internal/core/cache"
	"used-market/internal/core/config"
	"used-market/internal/core/database"
	"used-market/internal/core/events"
	"used-market/internal/core/identity"
	"used-market/internal/core/logger"
	"used-market/internal/core/payment"
	"used-market/internal/core/server"
	"used-market/internal/core/tracing"
	"used-market/internal/repo"
	"used-market/internal/service"
	"used-market/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log, zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// 缓存（可选）
	var c *cache.Cache
	if cfg.Redis.Enable {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := c.Ping(ctx); err != nil {
			log.Fatal("redis ping", zap.Error(err))
		}
		defer c.Close()
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	// 外部依赖
	gw, err := payment.New(cfg.Payment)
	if err != nil {
		log.Fatal("payment gateway", zap.Error(err))
	}
	idp, err := identity.New(ctx, cfg.Identity)
	if err != nil {
		log.Fatal("identity provider", zap.Error(err))
	}
	var pub events.Publisher = events.Nop{}
	if cfg.MQ.Enable {
		a, err := events.NewAMQP(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Fatal("rabbitmq", zap.Error(err))
		}
		defer closeQuietly(log, "rabbitmq", a)
		pub = a
	}
	if cfg.Tracing.Enable {
		shutdown, err := tracing.Init(ctx, cfg.App.Name, cfg.App.Env, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatal("tracing", zap.Error(err))
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
	}
	log.Info("providers ready",
		zap.String("payment", cfg.Payment.Provider),
		zap.String("identity", cfg.Identity.Provider),
		zap.Bool("mq", cfg.MQ.Enable),
		zap.Bool("tracing", cfg.Tracing.Enable),
	)

	// 仓储 + 服务
	users := repo.NewUserRepo(db)
	products := repo.NewProductRepo(db)
	wishlist := repo.NewWishlistRepo(db)
	deps := router.Deps{
		Log: log,
		Cfg: cfg,
		JWT: &auth.JWTer{
			Secret: []byte(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		},
		Users:    service.NewUserService(users, idp, pub, log),
		Products: service.NewProductService(products, users),
		Catalog: service.NewCatalogService(repo.NewCategoryRepo(db), repo.NewBrandRepo(db), products,
			c, time.Duration(cfg.Redis.TTLSec)*time.Second),
		Wishlist: service.NewWishlistService(wishlist, products),
		Orders:   service.NewOrderService(repo.NewOrderRepo(db), products, wishlist, pub, log),
		Checkout: service.NewCheckoutService(gw, cfg.Payment.Currency),
		Health: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.PingContext(ctx); err != nil {
				return err
			}
			return c.Ping(ctx)
		},
	}
	r := router.NewAPIEngine(deps)

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)
	if el, err := logger.ToStdLogger(log.Named("http"), zapcore.WarnLevel); err == nil {
		srv.ErrorLog = el
	}

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("used server starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("used server stopped with error", zap.Error(err))
		return
	}
	log.Info("used server stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

func closeQuietly(l *zap.Logger, what string, c io.Closer) {
	if err := c.Close(); err != nil {
		l.Warn("close "+what, zap.Error(err))
	}
}
