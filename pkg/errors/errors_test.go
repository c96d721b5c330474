package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAppError_Is 派生错误按错误码匹配预定义错误
func TestAppError_Is(t *testing.T) {
	derived := Newf(ErrCodeBookNotFound, "Book (id = %d) not found", 7)
	sentinel := New(ErrCodeBookNotFound, "Book not found")

	assert.True(t, errors.Is(derived, sentinel))
	assert.False(t, errors.Is(derived, ErrInvalidArgument))

	wrapped := fmt.Errorf("service: %w", derived)
	assert.True(t, errors.Is(wrapped, sentinel), "经过fmt.Errorf包装后仍能识别")
}

// TestAppError_Error 错误信息包含内部错误
func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "[40000] 非法参数", ErrInvalidArgument.Error())

	cause := errors.New("connection refused")
	err := Wrap(cause, "查询作者失败")
	assert.Equal(t, "[50000] 查询作者失败: connection refused", err.Error())
	assert.True(t, errors.Is(err, cause), "Unwrap暴露内部错误")
}

// TestGetAppError 非AppError包装为内部错误
func TestGetAppError(t *testing.T) {
	appErr := GetAppError(errors.New("boom"))
	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.Equal(t, "系统内部错误", appErr.Message)

	original := New(ErrCodeOrderCompleted, "Order (id = 1) already completed")
	assert.Same(t, original, GetAppError(fmt.Errorf("wrap: %w", original)))
}

// TestValidation 校验错误携带字段列表
func TestValidation(t *testing.T) {
	err := Validation([]FieldError{
		{Field: "fullName", Rule: "length", Message: "too long"},
		{Field: "birthYear", Rule: "year", Message: "bad year"},
	})
	assert.Equal(t, ErrCodeInvalidParams, err.Code)
	assert.Len(t, err.Fields, 2)
	assert.True(t, errors.Is(err, ErrInvalidParams))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrCodeAuthorNotFound, "x")))
	assert.True(t, IsNotFound(New(ErrCodeCustomerNotFound, "x")))
	assert.False(t, IsNotFound(New(ErrCodeOrderCompleted, "x")))
	assert.False(t, IsNotFound(errors.New("x")))
	assert.True(t, IsAppError(fmt.Errorf("w: %w", ErrInternal)))
}

// TestDerive 基于预定义错误派生,错误码不变
func TestDerive(t *testing.T) {
	t.Run("WithCause附带内部错误", func(t *testing.T) {
		cause := errors.New("driver: bad connection")
		err := ErrDatabaseError.WithCause(cause, "查询作者失败")
		assert.Equal(t, ErrCodeDatabaseError, err.Code)
		assert.Equal(t, "查询作者失败", err.Message)
		assert.True(t, errors.Is(err, ErrDatabaseError))
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, "数据库错误", ErrDatabaseError.Message, "预定义错误本身不被修改")
	})

	t.Run("WithMessagef格式化提示", func(t *testing.T) {
		err := ErrBindError.WithMessagef("Failed parse specified date: %s", "32.01.2024")
		assert.Equal(t, ErrCodeBindError, err.Code)
		assert.Equal(t, "Failed parse specified date: 32.01.2024", err.Message)
		assert.Nil(t, err.Err)
		assert.True(t, errors.Is(err, ErrBindError))
	})

	t.Run("消息队列错误", func(t *testing.T) {
		err := ErrMQError.WithCause(errors.New("channel closed"), "发布消息失败")
		assert.Equal(t, ErrCodeMQError, GetAppError(fmt.Errorf("publish: %w", err)).Code)
	})
}
