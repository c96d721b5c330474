package catalog

import (
	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

// 目录领域错误定义
// 带ID的错误由NotFound/AlreadyCompleted派生,错误码不变,errors.Is仍可匹配
var (
	// ErrAuthorNotFound 作者不存在
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeAuthorNotFound, "Author not found")

	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "Book not found")

	// ErrCustomerNotFound 顾客不存在
	ErrCustomerNotFound = apperrors.New(apperrors.ErrCodeCustomerNotFound, "Customer not found")

	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "Order not found")

	// ErrOrderAlreadyCompleted 订单已完成
	ErrOrderAlreadyCompleted = apperrors.New(apperrors.ErrCodeOrderCompleted, "Order already completed")

	// ErrReferenceNotFound 关联的记录不存在
	ErrReferenceNotFound = apperrors.New(apperrors.ErrCodeReferenceMissing, "referenced record not found")

	// ErrCustomerHasOrders 顾客仍有订单,不能删除
	ErrCustomerHasOrders = apperrors.New(apperrors.ErrCodeCustomerHasOrder, "customer still has orders")
)

// 实体名称(用于错误信息与缓存键)
const (
	EntityAuthor   = "Author"
	EntityBook     = "Book"
	EntityCustomer = "Customer"
	EntityOrder    = "Order"
)

var notFoundCodes = map[string]int{
	EntityAuthor:   apperrors.ErrCodeAuthorNotFound,
	EntityBook:     apperrors.ErrCodeBookNotFound,
	EntityCustomer: apperrors.ErrCodeCustomerNotFound,
	EntityOrder:    apperrors.ErrCodeOrderNotFound,
}

// NotFound 生成"X (id = N) not found"形式的错误
func NotFound(entity string, id uint) *apperrors.AppError {
	code, ok := notFoundCodes[entity]
	if !ok {
		code = apperrors.ErrCodeNotFound
	}
	return apperrors.Newf(code, "%s (id = %d) not found", entity, id)
}

// AlreadyCompleted 生成"Order (id = N) already completed"错误
func AlreadyCompleted(id uint) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeOrderCompleted, "Order (id = %d) already completed", id)
}

// InvalidArgument 构造通用非法参数错误
func InvalidArgument(format string, args ...interface{}) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeBusinessError, format, args...)
}

// ReferenceNotFound 构造关联记录不存在错误
func ReferenceNotFound(entity string, id uint) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeReferenceMissing, "referenced %s (id = %d) not found", entity, id)
}

// IDMustBeZero 新增实体时ID必须为0或缺省
func IDMustBeZero(entity string) *apperrors.AppError {
	return InvalidArgument("ID of new %s generate automatically and must be equal 0 or absent", entity)
}

// Missing 更新/完成不存在的记录时返回非法参数错误(而不是NotFound)
func Missing(entity string, id uint) *apperrors.AppError {
	return InvalidArgument("%s (id = %d) not found", entity, id)
}
