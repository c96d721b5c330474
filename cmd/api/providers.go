package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	appcatalog "github.com/xiebiao/bookservice/internal/application/catalog"
	"github.com/xiebiao/bookservice/internal/infrastructure/config"
	"github.com/xiebiao/bookservice/internal/infrastructure/logger"
	"github.com/xiebiao/bookservice/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookservice/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookservice/internal/interface/http/dto"
	"github.com/xiebiao/bookservice/internal/interface/http/handler"
	"github.com/xiebiao/bookservice/internal/interface/http/middleware"
	"github.com/xiebiao/bookservice/pkg/mq"
)

// ========================================
// Providers
// ========================================
// main.go手动组装和wire.go的Injector共用这些Provider

// provideConfig 加载config/config.yaml + 环境变量
func provideConfig() (*config.Config, error) {
	return config.Load()
}

// provideLogger 创建slog.Logger并设为默认Logger
func provideLogger(cfg *config.Config) *slog.Logger {
	l := logger.New(cfg.Log, os.Stdout)
	slog.SetDefault(l)
	return l
}

// provideDB 数据库连接(启动时自动建表)
// cleanup关闭底层连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup, err := dbCleanup(db)
	if err != nil {
		return nil, nil, err
	}
	return db, cleanup, nil
}

func dbCleanup(db *gorm.DB) (func(), error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return func() {
		_ = sqlDB.Close()
	}, nil
}

// provideViewCache 视图缓存
// redis.enabled=false时返回NopCache,不连接Redis
func provideViewCache(cfg *config.Config) (appcatalog.ViewCache, func(), error) {
	if !cfg.Redis.Enabled {
		return appcatalog.NopCache{}, func() {}, nil
	}
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return redis.NewViewCache(client, cfg.Redis.CacheTTL), cleanup, nil
}

// provideEventPublisher 领域事件发布者
// mq.enabled=false时返回NopPublisher
func provideEventPublisher(cfg *config.Config) (mq.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return mq.NopPublisher{}, func() {}, nil
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = publisher.Close()
	}
	return publisher, cleanup, nil
}

// provideDeps 服务公共依赖
func provideDeps(tx *mysql.TxManager, cache appcatalog.ViewCache, events mq.EventPublisher) appcatalog.Deps {
	return appcatalog.Deps{
		Tx:     tx,
		Cache:  cache,
		Events: events,
		Now:    time.Now,
	}
}

// provideGinEngine 创建Gin引擎并注册中间件和路由
// 中间件顺序:Recovery → Tracing → Logger → Metrics
func provideGinEngine(cfg *config.Config, log *slog.Logger, handlers *handler.Handlers) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}
	dto.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}
	r.Use(middleware.Logger(log))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	handler.RegisterRoutes(r, handlers)
	return r
}
