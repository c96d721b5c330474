package catalog

import (
	"time"
)

// Author 作者实体
// 设计说明:
// 1. Books是与Book的多对多关联,关联关系由Book一侧(books_authors表)维护
// 2. 通过作者写入时Books被忽略,读取时由仓储回填
type Author struct {
	ID        uint
	FullName  string // 作者全名(1-256字符)
	BirthYear int    // 出生年份(年份规则)
	Books     []*Book
}

// Book 图书实体
// Authors为关联的拥有方:新增/更新图书时会按ID重写books_authors关联行
type Book struct {
	ID              uint
	Name            string // 书名(1-256字符)
	PublicationYear int    // 出版年份(年份规则)
	Annotation      string // 简介(1-4096字符)
	Authors         []*Author
}

// Customer 顾客实体
// Orders是派生的反向引用(由orders.customer_id计算),只读
type Customer struct {
	ID     uint
	Name   string // 姓名(1-256字符)
	Phone  string // 电话(1-20字符,见phonePattern)
	Orders []*Order
}

// Order 订单实体(聚合根)
// 设计说明:
// 1. Customer必填,订单持有指向顾客的外键
// 2. CreationDate/CompleteDate是日历日期,统一按UTC零点存储
// 3. CompleteDate在完成前为nil,与Completed=false同时成立
type Order struct {
	ID           uint
	Customer     *Customer
	CreationDate time.Time
	CompleteDate *time.Time
	Completed    bool
	Books        []*Book
}

// NewAuthor 创建作者
func NewAuthor(fullName string, birthYear int) *Author {
	return &Author{FullName: fullName, BirthYear: birthYear}
}

// NewBook 创建图书
func NewBook(name string, publicationYear int, annotation string) *Book {
	return &Book{Name: name, PublicationYear: publicationYear, Annotation: annotation}
}

// NewCustomer 创建顾客
func NewCustomer(name, phone string) *Customer {
	return &Customer{Name: name, Phone: phone}
}

// NewOrder 创建订单(工厂方法)
// 初始状态:未完成,CompleteDate为空
func NewOrder(customer *Customer, creationDate time.Time, books ...*Book) *Order {
	return &Order{
		Customer:     customer,
		CreationDate: DateOf(creationDate),
		Books:        books,
	}
}

// Complete 完成订单(领域行为)
// 业务规则:已完成的订单不能再次完成
func (o *Order) Complete(now time.Time) error {
	if o.Completed {
		return AlreadyCompleted(o.ID)
	}
	day := DateOf(now)
	o.CompleteDate = &day
	o.Completed = true
	return nil
}

// CustomerID 返回订单所属顾客ID(未设置时为0)
func (o *Order) CustomerID() uint {
	if o.Customer == nil {
		return 0
	}
	return o.Customer.ID
}

// BookIDs 返回订单引用的图书ID
func (o *Order) BookIDs() []uint {
	return bookIDs(o.Books)
}

// AuthorIDs 返回图书引用的作者ID
func (b *Book) AuthorIDs() []uint {
	ids := make([]uint, 0, len(b.Authors))
	for _, a := range b.Authors {
		if a != nil {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func bookIDs(books []*Book) []uint {
	ids := make([]uint, 0, len(books))
	for _, b := range books {
		if b != nil {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// DateOf 截断为UTC日历日期(零点)
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
