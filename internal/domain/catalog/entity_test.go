package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

// TestOrder_Complete 测试订单完成
func TestOrder_Complete(t *testing.T) {
	order := NewOrder(&Customer{ID: 1}, time.Date(2020, time.May, 13, 15, 4, 0, 0, time.UTC))
	order.ID = 7
	assert.False(t, order.Completed)
	assert.Nil(t, order.CompleteDate)
	assert.Equal(t, time.Date(2020, time.May, 13, 0, 0, 0, 0, time.UTC), order.CreationDate, "创建日期应该截断到零点")

	now := time.Date(2020, time.May, 20, 18, 30, 0, 0, time.UTC)
	require.NoError(t, order.Complete(now))
	assert.True(t, order.Completed)
	require.NotNil(t, order.CompleteDate)
	assert.Equal(t, DateOf(now), *order.CompleteDate)

	t.Run("重复完成应该失败且状态不变", func(t *testing.T) {
		err := order.Complete(now.AddDate(0, 0, 1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrOrderAlreadyCompleted))
		assert.Equal(t, "Order (id = 7) already completed", apperrors.GetAppError(err).Message)
		assert.Equal(t, DateOf(now), *order.CompleteDate)
	})
}

// TestNotFound 测试带ID的错误仍能被errors.Is识别
func TestNotFound(t *testing.T) {
	err := NotFound(EntityBook, 42)
	assert.Equal(t, "Book (id = 42) not found", err.Message)
	assert.True(t, errors.Is(err, ErrBookNotFound))
	assert.False(t, errors.Is(err, ErrAuthorNotFound))
	assert.True(t, apperrors.IsNotFound(err))

	missing := Missing(EntityOrder, 3)
	assert.True(t, errors.Is(missing, apperrors.ErrInvalidArgument))
	assert.False(t, apperrors.IsNotFound(missing))
}

// TestReportModeOf 测试三态参数映射
func TestReportModeOf(t *testing.T) {
	yes, no := true, false
	assert.Equal(t, ReportAll, ReportModeOf(nil))
	assert.Equal(t, ReportOnlyCompleted, ReportModeOf(&yes))
	assert.Equal(t, ReportWithCompletedFlag, ReportModeOf(&no))
}

// TestIDs 测试关联ID提取
func TestIDs(t *testing.T) {
	book := &Book{Authors: []*Author{{ID: 1}, nil, {ID: 3}}}
	assert.Equal(t, []uint{1, 3}, book.AuthorIDs())

	order := &Order{Books: []*Book{{ID: 2}}}
	assert.Equal(t, []uint{2}, order.BookIDs())
	assert.Equal(t, uint(0), order.CustomerID())
}
