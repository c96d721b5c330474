package view

import (
	"fmt"
)

// View 命名的JSON渲染视图
// 设计说明:
// 1. 每个视图是一组被排除的关联字段,由调用方按接口选择
// 2. 被排除的字段在输出中完全不出现(不是空数组)
// 3. 视图只描述"排除什么",渲染逻辑见encoder
type View int

const (
	OmitBooks View = iota + 1
	OmitAuthors
	OmitOrders
	OmitBooksAndOrders
	OmitAuthorsAndOrders
	OmitAuthorsAndCustomer
)

// 关联字段名(与JSON字段名一致)
const (
	FieldBooks    = "books"
	FieldAuthors  = "authors"
	FieldOrders   = "orders"
	FieldCustomer = "customer"
)

type definition struct {
	name     string
	excluded []string
}

var definitions = map[View]definition{
	OmitBooks:              {"omit-books", []string{FieldBooks}},
	OmitAuthors:            {"omit-authors", []string{FieldAuthors}},
	OmitOrders:             {"omit-orders", []string{FieldOrders}},
	OmitBooksAndOrders:     {"omit-books-and-orders", []string{FieldBooks, FieldOrders}},
	OmitAuthorsAndOrders:   {"omit-authors-and-orders", []string{FieldAuthors, FieldOrders}},
	OmitAuthorsAndCustomer: {"omit-authors-and-customer", []string{FieldAuthors, FieldCustomer}},
}

func (v View) String() string {
	if d, ok := definitions[v]; ok {
		return d.name
	}
	return fmt.Sprintf("view(%d)", int(v))
}

// Excludes 判断视图是否排除某个关联字段
func (v View) Excludes(field string) bool {
	for _, f := range definitions[v].excluded {
		if f == field {
			return true
		}
	}
	return false
}

// Valid 是否是已定义的视图
func (v View) Valid() bool {
	_, ok := definitions[v]
	return ok
}

// ParseView 按名称解析视图(如"omit-books")
func ParseView(name string) (View, error) {
	for v, d := range definitions {
		if d.name == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown view %q", name)
}
