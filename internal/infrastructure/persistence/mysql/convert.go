package mysql

import (
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookservice/internal/domain/catalog"
)

// =========================================
// 辅助函数:模型转换
// =========================================
// 教学要点:
// 1. 读取时只转换已预加载的关联(一层正向关联)
// 2. 写入时只转换标量字段,关联由各仓储按ID单独写关联表

// toAuthorEntity GORM模型 → 领域实体
func toAuthorEntity(m *AuthorModel) *catalog.Author {
	a := &catalog.Author{
		ID:        m.ID,
		FullName:  m.FullName,
		BirthYear: m.BirthYear,
		Books:     make([]*catalog.Book, 0, len(m.Books)),
	}
	for i := range m.Books {
		a.Books = append(a.Books, toBookEntity(&m.Books[i]))
	}
	return a
}

func toAuthorModel(a *catalog.Author) *AuthorModel {
	return &AuthorModel{
		ID:        a.ID,
		FullName:  a.FullName,
		BirthYear: a.BirthYear,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(m *BookModel) *catalog.Book {
	b := &catalog.Book{
		ID:              m.ID,
		Name:            m.Name,
		PublicationYear: m.PublicationYear,
		Annotation:      m.Annotation,
		Authors:         make([]*catalog.Author, 0, len(m.Authors)),
	}
	for i := range m.Authors {
		b.Authors = append(b.Authors, toAuthorEntity(&m.Authors[i]))
	}
	return b
}

func toBookModel(b *catalog.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		Name:            b.Name,
		PublicationYear: b.PublicationYear,
		Annotation:      b.Annotation,
	}
}

// toCustomerEntity GORM模型 → 领域实体
// 订单的Customer回指当前顾客(渲染时按身份输出为id)
func toCustomerEntity(m *CustomerModel) *catalog.Customer {
	c := &catalog.Customer{
		ID:     m.ID,
		Name:   m.Name,
		Phone:  m.Phone,
		Orders: make([]*catalog.Order, 0, len(m.Orders)),
	}
	for i := range m.Orders {
		o := toOrderEntity(&m.Orders[i])
		o.Customer = c
		c.Orders = append(c.Orders, o)
	}
	return c
}

func toCustomerModel(c *catalog.Customer) *CustomerModel {
	return &CustomerModel{
		ID:    c.ID,
		Name:  c.Name,
		Phone: c.Phone,
	}
}

// toOrderEntity GORM模型 → 领域实体
// 未预加载顾客时只保留顾客ID
func toOrderEntity(m *OrderModel) *catalog.Order {
	o := &catalog.Order{
		ID:           m.ID,
		CreationDate: catalog.DateOf(m.CreationDate),
		Completed:    m.Completed,
		Books:        make([]*catalog.Book, 0, len(m.Books)),
	}
	if m.CompleteDate != nil {
		day := catalog.DateOf(*m.CompleteDate)
		o.CompleteDate = &day
	}
	switch {
	case m.Customer.ID != 0:
		o.Customer = toCustomerEntity(&m.Customer)
	case m.CustomerID != 0:
		o.Customer = &catalog.Customer{ID: m.CustomerID}
	}
	for i := range m.Books {
		o.Books = append(o.Books, toBookEntity(&m.Books[i]))
	}
	return o
}

func toOrderModel(o *catalog.Order) *OrderModel {
	m := &OrderModel{
		ID:           o.ID,
		CustomerID:   o.CustomerID(),
		CreationDate: catalog.DateOf(o.CreationDate),
		Completed:    o.Completed,
	}
	if o.CompleteDate != nil {
		day := catalog.DateOf(*o.CompleteDate)
		m.CompleteDate = &day
	}
	return m
}

// byID 关联预加载按主键排序,保证输出稳定
func byID(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".id")
	}
}

// dateRange 报表日期区间(闭区间,按日历日)
func dateRange(start, end time.Time) (time.Time, time.Time) {
	return catalog.DateOf(start), catalog.DateOf(end)
}
