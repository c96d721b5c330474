package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcatalog "github.com/xiebiao/bookservice/internal/application/catalog"
	"github.com/xiebiao/bookservice/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookservice/internal/interface/http/handler"
	"github.com/xiebiao/bookservice/pkg/tracing"
)

// main 主程序入口
// 说明:手动依赖注入,wire.go中的InitializeApp描述同一条依赖链
func main() {
	if err := run(); err != nil {
		log.Fatalf("服务启动失败: %v", err)
	}
}

func run() error {
	// 1. 加载配置
	cfg, err := provideConfig()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	logger := provideLogger(cfg)
	logger.Info("配置加载成功",
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"database", fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName),
		"redis", cfg.Redis.Enabled,
		"mq", cfg.MQ.Enabled,
		"tracing", cfg.Tracing.Enabled,
	)

	// 2. 链路追踪(可选)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			return fmt.Errorf("初始化链路追踪失败: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				slog.Warn("关闭链路追踪失败", "error", err)
			}
		}()
	}

	// 3. 数据库(启动时自动建表)
	db, closeDB, err := provideDB(cfg)
	if err != nil {
		return fmt.Errorf("初始化数据库失败: %w", err)
	}
	defer closeDB()

	// 4. 视图缓存和事件发布(可选)
	cache, closeCache, err := provideViewCache(cfg)
	if err != nil {
		return fmt.Errorf("初始化Redis失败: %w", err)
	}
	defer closeCache()

	events, closeEvents, err := provideEventPublisher(cfg)
	if err != nil {
		return fmt.Errorf("初始化RabbitMQ失败: %w", err)
	}
	defer closeEvents()

	// 5. 依赖注入(手动组装)
	// Repository ← Service ← Handler
	deps := provideDeps(mysql.NewTxManager(db), cache, events)
	handlers := handler.NewHandlers(
		handler.NewAuthorHandler(appcatalog.NewAuthorService(mysql.NewAuthorRepository(db), deps)),
		handler.NewBookHandler(appcatalog.NewBookService(mysql.NewBookRepository(db), deps)),
		handler.NewCustomerHandler(appcatalog.NewCustomerService(mysql.NewCustomerRepository(db), deps)),
		handler.NewOrderHandler(appcatalog.NewOrderService(mysql.NewOrderRepository(db), deps)),
	)

	// 6. HTTP服务
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      provideGinEngine(cfg, logger, handlers),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("服务启动成功", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 7. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP服务异常退出: %w", err)
	case <-quit:
	}

	logger.Info("正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("关闭HTTP服务失败: %w", err)
	}
	logger.Info("服务已关闭")
	return nil
}
