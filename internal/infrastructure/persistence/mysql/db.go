package mysql

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookservice/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 启动时建表（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	slog.Info("数据库连接成功", "host", cfg.Database.Host, "db", cfg.Database.DBName)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// Migrate 建表
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 关联表(books_authors、orders_books)由显式的关联模型创建,主键为两列组合
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&AuthorModel{},
		&BookModel{},
		&CustomerModel{},
		&OrderModel{},
		&BookAuthorModel{},
		&OrderBookModel{},
	)
}

// AuthorModel GORM作者模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/catalog/entity.go是领域实体，不依赖GORM
// 3. Books只用于读取(Preload),写入关联统一走图书一侧
type AuthorModel struct {
	ID        uint        `gorm:"primaryKey"`
	FullName  string      `gorm:"index;size:256;not null;comment:作者全名"`
	BirthYear int         `gorm:"not null;comment:出生年份"`
	Books     []BookModel `gorm:"many2many:books_authors;joinForeignKey:AuthorID;joinReferences:BookID"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// BookModel GORM图书模型
// 教学要点:books_authors关联的拥有方
type BookModel struct {
	ID              uint          `gorm:"primaryKey"`
	Name            string        `gorm:"index;size:256;not null;comment:书名"`
	PublicationYear int           `gorm:"not null;comment:出版年份"`
	Annotation      string        `gorm:"size:4096;not null;comment:简介"`
	Authors         []AuthorModel `gorm:"many2many:books_authors;joinForeignKey:BookID;joinReferences:AuthorID"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// CustomerModel GORM顾客模型
// Orders是由orders.customer_id推导的一对多反向引用
type CustomerModel struct {
	ID     uint         `gorm:"primaryKey"`
	Name   string       `gorm:"index;size:256;not null;comment:姓名"`
	Phone  string       `gorm:"size:20;not null;comment:电话"`
	Orders []OrderModel `gorm:"foreignKey:CustomerID"`
}

// TableName 指定表名
func (CustomerModel) TableName() string {
	return "customers"
}

// OrderModel GORM订单模型
// 教学要点:
// 1. CustomerID外键关联customers表(belongs to)
// 2. 日期列使用date类型,按UTC零点读写
// 3. orders_books关联的拥有方
type OrderModel struct {
	ID           uint          `gorm:"primaryKey"`
	CustomerID   uint          `gorm:"index;not null;comment:顾客ID"`
	Customer     CustomerModel `gorm:"foreignKey:CustomerID"`
	CreationDate time.Time     `gorm:"type:date;index;not null;comment:创建日期"`
	CompleteDate *time.Time    `gorm:"type:date;comment:完成日期"`
	Completed    bool          `gorm:"not null;default:false;comment:是否完成"`
	Books        []BookModel   `gorm:"many2many:orders_books;joinForeignKey:OrderID;joinReferences:BookID"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// BookAuthorModel 图书-作者关联表
type BookAuthorModel struct {
	BookID   uint `gorm:"primaryKey;autoIncrement:false"`
	AuthorID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName 指定表名
func (BookAuthorModel) TableName() string {
	return "books_authors"
}

// OrderBookModel 订单-图书关联表
type OrderBookModel struct {
	OrderID uint `gorm:"primaryKey;autoIncrement:false"`
	BookID  uint `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName 指定表名
func (OrderBookModel) TableName() string {
	return "orders_books"
}
