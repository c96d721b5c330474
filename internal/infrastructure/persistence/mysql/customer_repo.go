package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookservice/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

// customerRepository 顾客仓储实现(MySQL)
// 设计说明:
// 1. Orders是由orders.customer_id推导的只读反向引用,Save不写订单
// 2. 顾客仍有订单时拒绝删除(订单的customer_id是必填外键)
// 3. ReportOrders用一条参数化聚合查询实现三种报表
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建顾客仓储
func NewCustomerRepository(db *gorm.DB) catalog.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) query(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db).
		Preload("Orders", byID("orders")).
		Preload("Orders.Books", byID("books"))
}

// FindByID 根据ID查找顾客(含订单及订单图书)
func (r *customerRepository) FindByID(ctx context.Context, id uint) (*catalog.Customer, error) {
	var model CustomerModel
	err := r.query(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NotFound(catalog.EntityCustomer, id)
		}
		return nil, apperrors.ErrDatabaseError.WithCause(err, "查询顾客失败")
	}
	return toCustomerEntity(&model), nil
}

// FindByName 按姓名精确查找
func (r *customerRepository) FindByName(ctx context.Context, name string) ([]*catalog.Customer, error) {
	var models []CustomerModel
	if err := r.query(ctx).Where("name = ?", name).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.ErrDatabaseError.WithCause(err, "查询顾客失败")
	}
	return toCustomerEntities(models), nil
}

// FindAll 查询全部顾客
func (r *customerRepository) FindAll(ctx context.Context) ([]*catalog.Customer, error) {
	var models []CustomerModel
	if err := r.query(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.ErrDatabaseError.WithCause(err, "查询顾客列表失败")
	}
	return toCustomerEntities(models), nil
}

// Save 新增或整体更新顾客标量字段
func (r *customerRepository) Save(ctx context.Context, c *catalog.Customer) error {
	model := toCustomerModel(c)
	db := dbFrom(ctx, r.db).Omit(clause.Associations)

	var err error
	if model.ID == 0 {
		err = db.Create(model).Error
	} else {
		err = db.Save(model).Error
	}
	if err != nil {
		return apperrors.ErrDatabaseError.WithCause(err, "保存顾客失败")
	}

	c.ID = model.ID
	return nil
}

// DeleteByID 删除顾客(幂等;仍有订单时返回ErrCustomerHasOrders)
func (r *customerRepository) DeleteByID(ctx context.Context, id uint) error {
	db := dbFrom(ctx, r.db)

	var orders int64
	if err := db.Model(&OrderModel{}).Where("customer_id = ?", id).Count(&orders).Error; err != nil {
		return apperrors.ErrDatabaseError.WithCause(err, "查询顾客订单失败")
	}
	if orders > 0 {
		return apperrors.Newf(catalog.ErrCustomerHasOrders.Code,
			"Customer (id = %d) still has %d order(s)", id, orders)
	}

	if err := db.Delete(&CustomerModel{}, id).Error; err != nil {
		return apperrors.ErrDatabaseError.WithCause(err, "删除顾客失败")
	}
	return nil
}

// ExistsByID 判断顾客是否存在
func (r *customerRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := dbFrom(ctx, r.db).Model(&CustomerModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.ErrDatabaseError.WithCause(err, "查询顾客失败")
	}
	return count > 0, nil
}

// reportRecord 报表扫描结果
type reportRecord struct {
	CustomerID   uint
	Name         string
	Phone        string
	BookCount    int64
	AllCompleted *int64
}

// ReportOrders 按顾客聚合区间内订单的图书数量
// 教学要点:
// 1. 区间按日历日闭区间比较orders.creation_date
// 2. 内连接orders_books/books:没有图书的订单不出现在报表中
// 3. "全部完成"标记用MIN(CASE ...)计算,MySQL和SQLite通用
func (r *customerRepository) ReportOrders(ctx context.Context, start, end time.Time, mode catalog.ReportMode) ([]*catalog.ReportRow, error) {
	start, end = dateRange(start, end)

	sel := "customers.id AS customer_id, customers.name AS name, customers.phone AS phone, COUNT(books.id) AS book_count"
	if mode == catalog.ReportWithCompletedFlag {
		sel += ", MIN(CASE WHEN orders.completed THEN 1 ELSE 0 END) AS all_completed"
	}

	q := dbFrom(ctx, r.db).
		Table("customers").
		Select(sel).
		Joins("JOIN orders ON orders.customer_id = customers.id").
		Joins("JOIN orders_books ON orders_books.order_id = orders.id").
		Joins("JOIN books ON books.id = orders_books.book_id").
		Where("orders.creation_date >= ? AND orders.creation_date <= ?", start, end)
	if mode == catalog.ReportOnlyCompleted {
		q = q.Where("orders.completed = ?", true)
	}

	var records []reportRecord
	err := q.Group("customers.id, customers.name, customers.phone").
		Order("customers.id").
		Scan(&records).Error
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithCause(err, "生成订单报表失败")
	}

	rows := make([]*catalog.ReportRow, len(records))
	for i, rec := range records {
		row := &catalog.ReportRow{
			CustomerID: rec.CustomerID,
			Name:       rec.Name,
			Phone:      rec.Phone,
			BookCount:  rec.BookCount,
		}
		if mode == catalog.ReportWithCompletedFlag {
			completed := rec.AllCompleted != nil && *rec.AllCompleted == 1
			row.Completed = &completed
		}
		rows[i] = row
	}
	return rows, nil
}

func toCustomerEntities(models []CustomerModel) []*catalog.Customer {
	customers := make([]*catalog.Customer, len(models))
	for i := range models {
		customers[i] = toCustomerEntity(&models[i])
	}
	return customers
}
