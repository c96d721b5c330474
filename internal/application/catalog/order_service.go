package catalog

import (
	"context"
	"strconv"

	"github.com/xiebiao/bookservice/internal/application/view"
	"github.com/xiebiao/bookservice/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

// OrderService 订单用例
// 教学要点:
// 1. 订单持有顾客外键和orders_books关联,写入时在同一事务内校验引用
// 2. 完成订单是领域行为(Order.Complete),服务只负责加载和保存
type OrderService struct {
	base
	repo catalog.OrderRepository
}

// NewOrderService 创建订单服务
func NewOrderService(repo catalog.OrderRepository, deps Deps) *OrderService {
	return &OrderService{base: newBase(catalog.EntityOrder, deps), repo: repo}
}

// FindByID 按ID查询,视图omit-authors-and-orders(订单→顾客/图书)
func (s *OrderService) FindByID(ctx context.Context, id uint) ([]byte, error) {
	return s.read(ctx, "find_by_id", "id:"+formatID(id), func(ctx context.Context) ([]byte, error) {
		order, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return view.Render(view.OmitAuthorsAndOrders, order)
	})
}

// FindByCustomerID 查询顾客的订单,视图omit-authors-and-customer
func (s *OrderService) FindByCustomerID(ctx context.Context, customerID uint) ([]byte, error) {
	return s.read(ctx, "find_by_customer", "customer:"+formatID(customerID), func(ctx context.Context) ([]byte, error) {
		orders, err := s.repo.FindByCustomerID(ctx, customerID)
		if err != nil {
			return nil, err
		}
		return view.Render(view.OmitAuthorsAndCustomer, orders)
	})
}

// FindAll 全部订单,视图omit-books-and-orders
func (s *OrderService) FindAll(ctx context.Context) ([]byte, error) {
	return s.read(ctx, "find_all", "all", func(ctx context.Context) ([]byte, error) {
		orders, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return view.Render(view.OmitBooksAndOrders, orders)
	})
}

// Add 新增订单
// 业务流程:
// 1. ID必须为0
// 2. 新订单一律未完成(忽略请求中的completed/completeDate)
// 3. 校验字段,再在事务内校验顾客和图书存在并写入
func (s *OrderService) Add(ctx context.Context, order *catalog.Order) (*catalog.Order, error) {
	if order.ID != 0 {
		return nil, catalog.IDMustBeZero(catalog.EntityOrder)
	}
	order.Completed = false
	order.CompleteDate = nil
	order.CreationDate = catalog.DateOf(order.CreationDate)
	if err := order.Validate(); err != nil {
		return nil, err
	}
	err := s.write(ctx, "add", actionCreated, func(ctx context.Context) (uint, error) {
		if err := s.repo.Save(ctx, order); err != nil {
			return 0, err
		}
		return order.ID, nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Update 整体更新订单(标量字段、顾客、图书关联)
func (s *OrderService) Update(ctx context.Context, order *catalog.Order) error {
	order.CreationDate = catalog.DateOf(order.CreationDate)
	if order.CompleteDate != nil {
		day := catalog.DateOf(*order.CompleteDate)
		order.CompleteDate = &day
	}
	if err := order.Validate(); err != nil {
		return err
	}
	return s.write(ctx, "update", actionUpdated, func(ctx context.Context) (uint, error) {
		exists, err := s.repo.ExistsByID(ctx, order.ID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, catalog.Missing(catalog.EntityOrder, order.ID)
		}
		return order.ID, s.repo.Save(ctx, order)
	})
}

// Delete 删除订单(幂等)
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	return s.write(ctx, "delete", actionDeleted, func(ctx context.Context) (uint, error) {
		return id, s.repo.DeleteByID(ctx, id)
	})
}

// CompleteByID 完成订单
// 业务规则:
// 1. 订单不存在 → 非法参数
// 2. 已完成 → 非法参数,状态不变
// 3. completeDate设为当天(UTC日期)
func (s *OrderService) CompleteByID(ctx context.Context, id uint) error {
	return s.write(ctx, "complete", actionCompleted, func(ctx context.Context) (uint, error) {
		order, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return 0, catalog.Missing(catalog.EntityOrder, id)
			}
			return 0, err
		}
		if err := order.Complete(s.now()); err != nil {
			return 0, err
		}
		return id, s.repo.Save(ctx, order)
	})
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
