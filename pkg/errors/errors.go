package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
// 4. Fields是字段级校验失败列表，只有校验错误才会携带
type AppError struct {
	Code    int          `json:"code"`             // 业务错误码
	Message string       `json:"message"`          // 用户友好的错误提示
	Fields  []FieldError `json:"fields,omitempty"` // 字段级错误（校验失败时）
	Err     error        `json:"-"`                // 内部错误（不序列化）
}

// FieldError 单个字段的校验失败
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，使预定义错误经过WithCause/WithMessagef派生后仍能被errors.Is识别
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithCause 基于预定义错误派生：保留错误码，替换提示信息并附带内部错误
// 用法：apperrors.ErrDatabaseError.WithCause(err, "查询作者失败")
func (e *AppError) WithCause(err error, message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     err,
	}
}

// WithMessagef 基于预定义错误派生：保留错误码，格式化提示信息
func (e *AppError) WithMessagef(format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 格式化创建AppError
func Newf(code int, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap 包装未归类的系统错误（数据库、缓存、消息队列各有自己的错误码）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return ErrInternal.WithCause(err, message)
}

// Validation 创建校验失败错误，携带全部字段错误
func Validation(fields []FieldError) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidParams,
		Message: "参数校验失败",
		Fields:  fields,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、序列化失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeSerialization = 50003 // JSON渲染失败
	ErrCodeMQError       = 50004 // 消息队列错误

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400 // 资源不存在(通用)
	ErrCodeAuthorNotFound   = 40401 // 作者不存在
	ErrCodeBookNotFound     = 40402 // 图书不存在
	ErrCodeOrderNotFound    = 40403 // 订单不存在
	ErrCodeCustomerNotFound = 40404 // 顾客不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError    = 40000 // 非法参数(通用)
	ErrCodeOrderCompleted   = 40002 // 订单已完成
	ErrCodeReferenceMissing = 40006 // 关联记录不存在
	ErrCodeCustomerHasOrder = 40007 // 顾客仍有订单

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数校验失败
	ErrCodeBindError     = 40901 // 参数绑定/解析失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")
	ErrSerialization = New(ErrCodeSerialization, "数据渲染失败")
	ErrMQError       = New(ErrCodeMQError, "消息服务错误")

	// 参数错误
	ErrInvalidArgument = New(ErrCodeBusinessError, "非法参数")
	ErrInvalidParams   = New(ErrCodeInvalidParams, "参数校验失败")
	ErrBindError       = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// IsNotFound 判断是否为资源不存在类错误（404xx）
func IsNotFound(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code/100 == ErrCodeNotFound/100
}
