package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookservice/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// 教学要点:
// 1. 订单持有customer_id外键,是orders_books的拥有方
// 2. Save在同一事务内校验顾客和图书存在,再整体重写关联行
// 3. 读取时Preload顾客和图书,避免N+1查询
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) catalog.OrderRepository {
	return &orderRepository{db: db}
}

// query Preload会执行:
// 1. SELECT * FROM orders WHERE ...
// 2. SELECT * FROM customers WHERE id IN (?)
// 3. SELECT * FROM orders_books WHERE order_id IN (?) + SELECT * FROM books WHERE id IN (?)
func (r *orderRepository) query(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db).Preload("Customer").Preload("Books", byID("books"))
}

// FindByID 根据ID查找订单
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*catalog.Order, error) {
	var model OrderModel
	err := r.query(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NotFound(catalog.EntityOrder, id)
		}
		return nil, apperrors.ErrDatabaseError.WithCause(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// FindByCustomerID 查询顾客的全部订单
func (r *orderRepository) FindByCustomerID(ctx context.Context, customerID uint) ([]*catalog.Order, error) {
	var models []OrderModel
	if err := r.query(ctx).Where("customer_id = ?", customerID).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.ErrDatabaseError.WithCause(err, "查询订单失败")
	}
	return toOrderEntities(models), nil
}

// FindAll 查询全部订单
func (r *orderRepository) FindAll(ctx context.Context) ([]*catalog.Order, error) {
	var models []OrderModel
	if err := r.query(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.ErrDatabaseError.WithCause(err, "查询订单列表失败")
	}
	return toOrderEntities(models), nil
}

// Save 新增或整体更新订单,并重写图书关联
// 教学要点:必须在事务中调用(通过dbFrom从context获取事务DB)
func (r *orderRepository) Save(ctx context.Context, o *catalog.Order) error {
	db := dbFrom(ctx, r.db)
	bookIDs := uniqueIDs(o.BookIDs())

	// 1. 校验引用
	if err := checkExisting(db, &CustomerModel{}, catalog.EntityCustomer, []uint{o.CustomerID()}); err != nil {
		return err
	}
	if err := checkExisting(db, &BookModel{}, catalog.EntityBook, bookIDs); err != nil {
		return err
	}

	// 2. 写入订单
	model := toOrderModel(o)
	var err error
	if model.ID == 0 {
		err = db.Omit(clause.Associations).Create(model).Error
	} else {
		err = db.Omit(clause.Associations).Save(model).Error
	}
	if err != nil {
		return apperrors.ErrDatabaseError.WithCause(err, "保存订单失败")
	}
	o.ID = model.ID

	// 3. 重写关联行
	if err := db.Where("order_id = ?", model.ID).Delete(&OrderBookModel{}).Error; err != nil {
		return apperrors.ErrDatabaseError.WithCause(err, "更新订单图书失败")
	}
	if len(bookIDs) == 0 {
		return nil
	}
	rows := make([]OrderBookModel, len(bookIDs))
	for i, id := range bookIDs {
		rows[i] = OrderBookModel{OrderID: model.ID, BookID: id}
	}
	if err := db.Create(&rows).Error; err != nil {
		return apperrors.ErrDatabaseError.WithCause(err, "更新订单图书失败")
	}
	return nil
}

// DeleteByID 删除订单及其图书关联(幂等)
func (r *orderRepository) DeleteByID(ctx context.Context, id uint) error {
	err := dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&OrderBookModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&OrderModel{}, id).Error
	})
	if err != nil {
		return apperrors.ErrDatabaseError.WithCause(err, "删除订单失败")
	}
	return nil
}

// ExistsByID 判断订单是否存在
func (r *orderRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := dbFrom(ctx, r.db).Model(&OrderModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.ErrDatabaseError.WithCause(err, "查询订单失败")
	}
	return count > 0, nil
}

func toOrderEntities(models []OrderModel) []*catalog.Order {
	orders := make([]*catalog.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders
}
