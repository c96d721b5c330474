package catalog

import (
	"context"
	"time"
)

// 仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层(gorm)实现
// 2. FindByID在记录不存在时返回NotFound错误,其余查询返回空切片
// 3. Save: ID为0时插入,否则整体替换(标量字段 + 拥有方关联)
// 4. DeleteByID幂等,删除不存在的ID不报错
// 5. 所有方法从ctx中取事务(见TxManager),保证关联图在同一事务内加载

// AuthorRepository 作者仓储
type AuthorRepository interface {
	FindByID(ctx context.Context, id uint) (*Author, error)
	FindByFullName(ctx context.Context, fullName string) ([]*Author, error)
	FindAll(ctx context.Context) ([]*Author, error)
	Save(ctx context.Context, author *Author) error
	DeleteByID(ctx context.Context, id uint) error
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// BookRepository 图书仓储
// Save会按Authors的ID重写books_authors关联,引用不存在的作者返回ErrReferenceNotFound
type BookRepository interface {
	FindByID(ctx context.Context, id uint) (*Book, error)
	FindByName(ctx context.Context, name string) ([]*Book, error)
	FindAll(ctx context.Context) ([]*Book, error)
	Save(ctx context.Context, book *Book) error
	DeleteByID(ctx context.Context, id uint) error
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// CustomerRepository 顾客仓储
type CustomerRepository interface {
	FindByID(ctx context.Context, id uint) (*Customer, error)
	FindByName(ctx context.Context, name string) ([]*Customer, error)
	FindAll(ctx context.Context) ([]*Customer, error)
	Save(ctx context.Context, customer *Customer) error

	// DeleteByID 顾客仍有订单时返回ErrCustomerHasOrders
	DeleteByID(ctx context.Context, id uint) error
	ExistsByID(ctx context.Context, id uint) (bool, error)

	// ReportOrders 按顾客聚合[start, end]内订单的图书数量
	ReportOrders(ctx context.Context, start, end time.Time, mode ReportMode) ([]*ReportRow, error)
}

// OrderRepository 订单仓储
// Save会校验顾客和图书存在,并重写orders_books关联
type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*Order, error)
	FindByCustomerID(ctx context.Context, customerID uint) ([]*Order, error)
	FindAll(ctx context.Context) ([]*Order, error)
	Save(ctx context.Context, order *Order) error
	DeleteByID(ctx context.Context, id uint) error
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// ReportMode 报表聚合方式
type ReportMode int

const (
	// ReportAll 区间内全部订单,不带完成标记
	ReportAll ReportMode = iota
	// ReportOnlyCompleted 只统计已完成订单
	ReportOnlyCompleted
	// ReportWithCompletedFlag 全部订单,附带"该顾客区间内订单是否全部完成"
	ReportWithCompletedFlag
)

// ReportModeOf 三态参数映射: nil→ReportAll, true→ReportOnlyCompleted, false→ReportWithCompletedFlag
func ReportModeOf(onlyCompleted *bool) ReportMode {
	switch {
	case onlyCompleted == nil:
		return ReportAll
	case *onlyCompleted:
		return ReportOnlyCompleted
	default:
		return ReportWithCompletedFlag
	}
}

func (m ReportMode) String() string {
	switch m {
	case ReportOnlyCompleted:
		return "only-completed"
	case ReportWithCompletedFlag:
		return "with-completed-flag"
	default:
		return "all"
	}
}

// ReportRow 报表行
// Completed只在ReportWithCompletedFlag下有值
type ReportRow struct {
	CustomerID uint   `json:"-"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	BookCount  int64  `json:"bookCount"`
	Completed  *bool  `json:"completed,omitempty"`
}
