//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire在编译期生成依赖创建代码(wire_gen.go),零运行时开销
// 2. 运行 `wire gen ./cmd/api` 生成代码
// 3. Provider定义在providers.go,main.go手动组装时也复用它们
// 4. 返回cleanup函数的Provider(MySQL、Redis、RabbitMQ)由Wire串成一个总的cleanup

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appcatalog "github.com/xiebiao/bookservice/internal/application/catalog"
	"github.com/xiebiao/bookservice/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookservice/internal/interface/http/handler"
)

// infrastructureSet 基础设施层依赖
// 包含：配置、日志、数据库、视图缓存、事件发布
var infrastructureSet = wire.NewSet(
	provideConfig,
	provideLogger,
	provideDB,
	provideViewCache,
	provideEventPublisher,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewAuthorRepository,
	mysql.NewBookRepository,
	mysql.NewCustomerRepository,
	mysql.NewOrderRepository,
	mysql.NewTxManager,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	provideDeps,
	appcatalog.NewAuthorService,
	appcatalog.NewBookService,
	appcatalog.NewCustomerService,
	appcatalog.NewOrderService,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewAuthorHandler,
	handler.NewBookHandler,
	handler.NewCustomerHandler,
	handler.NewOrderHandler,
	handler.NewHandlers,
)

// InitializeApp 初始化整个应用
// 返回：配置好的Gin引擎和释放MySQL/Redis/RabbitMQ连接的cleanup
//
// 依赖链示例：
// *gin.Engine 需要 → *handler.Handlers
// *handler.AuthorHandler 需要 → *appcatalog.AuthorService
// *appcatalog.AuthorService 需要 → catalog.AuthorRepository + appcatalog.Deps
// appcatalog.Deps 需要 → *mysql.TxManager + ViewCache + EventPublisher
// *mysql.TxManager 需要 → *gorm.DB 需要 → *config.Config
func InitializeApp() (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		applicationSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil, nil
}
