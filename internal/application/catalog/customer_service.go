package catalog

import (
	"context"
	"time"

	"github.com/xiebiao/bookservice/internal/application/view"
	"github.com/xiebiao/bookservice/internal/domain/catalog"
)

// CustomerService 顾客用例
// Orders是派生字段,写入时忽略
type CustomerService struct {
	base
	repo catalog.CustomerRepository
}

// NewCustomerService 创建顾客服务
func NewCustomerService(repo catalog.CustomerRepository, deps Deps) *CustomerService {
	return &CustomerService{base: newBase(catalog.EntityCustomer, deps), repo: repo}
}

// FindByID 按ID查询,视图omit-authors-and-customer(顾客→订单→图书)
func (s *CustomerService) FindByID(ctx context.Context, id uint) ([]byte, error) {
	return s.read(ctx, "find_by_id", "id:"+formatID(id), func(ctx context.Context) ([]byte, error) {
		customer, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return view.Render(view.OmitAuthorsAndCustomer, customer)
	})
}

// FindByName 按姓名精确查询
func (s *CustomerService) FindByName(ctx context.Context, name string) ([]byte, error) {
	return s.read(ctx, "find_by_name", "name:"+name, func(ctx context.Context) ([]byte, error) {
		customers, err := s.repo.FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
		return view.Render(view.OmitAuthorsAndCustomer, customers)
	})
}

// FindAll 全部顾客,视图omit-orders
func (s *CustomerService) FindAll(ctx context.Context) ([]byte, error) {
	return s.read(ctx, "find_all", "all", func(ctx context.Context) ([]byte, error) {
		customers, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return view.Render(view.OmitOrders, customers)
	})
}

// Add 新增顾客
func (s *CustomerService) Add(ctx context.Context, customer *catalog.Customer) (*catalog.Customer, error) {
	if customer.ID != 0 {
		return nil, catalog.IDMustBeZero(catalog.EntityCustomer)
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	err := s.write(ctx, "add", actionCreated, func(ctx context.Context) (uint, error) {
		if err := s.repo.Save(ctx, customer); err != nil {
			return 0, err
		}
		return customer.ID, nil
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// Update 整体更新顾客
func (s *CustomerService) Update(ctx context.Context, customer *catalog.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	return s.write(ctx, "update", actionUpdated, func(ctx context.Context) (uint, error) {
		exists, err := s.repo.ExistsByID(ctx, customer.ID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, catalog.Missing(catalog.EntityCustomer, customer.ID)
		}
		return customer.ID, s.repo.Save(ctx, customer)
	})
}

// Delete 删除顾客(幂等;仍有订单时拒绝)
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	return s.write(ctx, "delete", actionDeleted, func(ctx context.Context) (uint, error) {
		return id, s.repo.DeleteByID(ctx, id)
	})
}

// ReportOrders 生成[start, end]区间内的顾客订单报表
// onlyCompleted三态:
//   - nil:   全部订单,不带完成标记
//   - true:  只统计已完成订单
//   - false: 全部订单,附带completed(该顾客区间内订单是否全部完成)
//
// 报表不缓存,每次实时查询
func (s *CustomerService) ReportOrders(ctx context.Context, start, end time.Time, onlyCompleted *bool) ([]*catalog.ReportRow, error) {
	var rows []*catalog.ReportRow
	err := s.query(ctx, "report", func(ctx context.Context) error {
		var err error
		rows, err = s.repo.ReportOrders(ctx, catalog.DateOf(start), catalog.DateOf(end), catalog.ReportModeOf(onlyCompleted))
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
