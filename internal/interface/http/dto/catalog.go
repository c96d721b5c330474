package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xiebiao/bookservice/internal/application/view"
	"github.com/xiebiao/bookservice/internal/domain/catalog"
)

// 请求DTO
// 设计说明:
// 1. 嵌套的关联对象只认id,其余字段忽略(Ref)
// 2. 作者的books、顾客的orders由另一侧维护,写入时忽略
// 3. binding tag做第一道校验(year/phone见validator.go),领域层Validate做最终校验

// Ref 关联引用,只取id
type Ref struct {
	ID uint `json:"id"`
}

// Date dd.MM.yyyy格式的日期
type Date struct {
	time.Time
}

// UnmarshalJSON 解析"20.05.2024";null表示未设置
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string in format dd.MM.yyyy: %w", err)
	}
	t, err := view.ParseDate(s)
	if err != nil {
		return fmt.Errorf("failed parse date %q, expected format dd.MM.yyyy", s)
	}
	d.Time = t
	return nil
}

// MarshalJSON 输出dd.MM.yyyy
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(view.FormatDate(d.Time))
}

// AuthorRequest 新增/更新作者
type AuthorRequest struct {
	ID        uint   `json:"id"`
	FullName  string `json:"fullName" binding:"required,max=256" example:"Лев Толстой"`
	BirthYear int    `json:"birthYear" binding:"year" example:"1828"`
	Books     []Ref  `json:"books"` // 忽略
}

// ToEntity 转换为领域实体
func (r *AuthorRequest) ToEntity() *catalog.Author {
	return &catalog.Author{ID: r.ID, FullName: r.FullName, BirthYear: r.BirthYear}
}

// BookRequest 新增/更新图书
type BookRequest struct {
	ID              uint   `json:"id"`
	Name            string `json:"name" binding:"required,max=256" example:"Война и мир"`
	PublicationYear int    `json:"publicationYear" binding:"year" example:"1869"`
	Annotation      string `json:"annotation" binding:"required,max=4096"`
	Authors         []Ref  `json:"authors"`
}

// ToEntity 转换为领域实体,作者只带ID
func (r *BookRequest) ToEntity() *catalog.Book {
	authors := make([]*catalog.Author, len(r.Authors))
	for i, ref := range r.Authors {
		authors[i] = &catalog.Author{ID: ref.ID}
	}
	return &catalog.Book{
		ID:              r.ID,
		Name:            r.Name,
		PublicationYear: r.PublicationYear,
		Annotation:      r.Annotation,
		Authors:         authors,
	}
}

// CustomerRequest 新增/更新顾客
type CustomerRequest struct {
	ID     uint   `json:"id"`
	Name   string `json:"name" binding:"required,max=256"`
	Phone  string `json:"phone" binding:"required,max=20,phone" example:"+7-111-111-11-11"`
	Orders []Ref  `json:"orders"` // 忽略
}

// ToEntity 转换为领域实体
func (r *CustomerRequest) ToEntity() *catalog.Customer {
	return &catalog.Customer{ID: r.ID, Name: r.Name, Phone: r.Phone}
}

// OrderRequest 新增/更新订单
// 新增时completed/completeDate被忽略
type OrderRequest struct {
	ID           uint  `json:"id"`
	Customer     *Ref  `json:"customer" binding:"required"`
	CreationDate *Date `json:"creationDate" binding:"required"`
	CompleteDate *Date `json:"completeDate"`
	Completed    bool  `json:"completed"`
	Books        []Ref `json:"books"`
}

// ToEntity 转换为领域实体,顾客和图书只带ID
func (r *OrderRequest) ToEntity() *catalog.Order {
	order := &catalog.Order{ID: r.ID, Completed: r.Completed}
	if r.Customer != nil {
		order.Customer = &catalog.Customer{ID: r.Customer.ID}
	}
	if r.CreationDate != nil {
		order.CreationDate = r.CreationDate.Time
	}
	if r.CompleteDate != nil {
		t := r.CompleteDate.Time
		order.CompleteDate = &t
	}
	order.Books = make([]*catalog.Book, len(r.Books))
	for i, ref := range r.Books {
		order.Books[i] = &catalog.Book{ID: ref.ID}
	}
	return order
}

// IDResponse 新增成功只返回ID
type IDResponse struct {
	ID uint `json:"id" example:"1"`
}

// ReportQuery 订单报表查询参数
// onlyCompleted缺省 → 全部订单;true → 只统计已完成;false → 附带完成标记
type ReportQuery struct {
	StartDate     string `form:"startDate" binding:"required" example:"01.05.2024"`
	EndDate       string `form:"endDate" binding:"required" example:"31.05.2024"`
	OnlyCompleted *bool  `form:"onlyCompleted"`
}
