package catalog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

var fixedNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

// TestValidYear 测试年份规则边界
func TestValidYear(t *testing.T) {
	cases := []struct {
		name  string
		year  int
		valid bool
	}{
		{"公元1年", 1, true},
		{"当前年份", fixedNow.Year(), true},
		{"公元前", -3999, true},
		{"0年", 0, false},
		{"下界", -4000, false},
		{"未来年份", fixedNow.Year() + 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, validYearAt(tc.year, fixedNow))
		})
	}

	assert.True(t, ValidYear(time.Now().Year()), "当前年份在实时校验中应该合法")
	assert.False(t, ValidYear(time.Now().Year()+1))
}

// TestValidDate 测试日期规则按UTC年份判断
func TestValidDate(t *testing.T) {
	assert.True(t, validDateAt(time.Date(2020, time.May, 13, 0, 0, 0, 0, time.UTC), fixedNow))
	assert.False(t, validDateAt(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), fixedNow))

	// 东八区的2025-01-01 02:00在UTC仍是2024年
	cst := time.FixedZone("CST", 8*3600)
	assert.True(t, validDateAt(time.Date(2025, time.January, 1, 2, 0, 0, 0, cst), fixedNow))
}

// TestValidLength 测试字符串长度按字符计数
func TestValidLength(t *testing.T) {
	assert.False(t, ValidLength("", 1, 256))
	assert.True(t, ValidLength("a", 1, 256))
	assert.True(t, ValidLength(strings.Repeat("书", 256), 1, 256))
	assert.False(t, ValidLength(strings.Repeat("a", 257), 1, 256))
}

// TestValidPhone 测试电话格式
func TestValidPhone(t *testing.T) {
	valid := []string{
		"+7-111-111-11-11",
		"8 (800) 555-35-35",
		"+1(212)5551234",
		"123",
	}
	for _, p := range valid {
		assert.True(t, ValidPhone(p), "应该合法: %q", p)
	}

	invalid := []string{
		"",
		"+7-111-1t1-11-11",
		"(1)(2)",
		"7+111",
		"+7-111-111-11-11-1111",
	}
	for _, p := range invalid {
		assert.False(t, ValidPhone(p), "应该非法: %q", p)
	}
}

// TestAuthor_Validate 测试批量收集字段错误
func TestAuthor_Validate(t *testing.T) {
	t.Run("合法作者", func(t *testing.T) {
		require.NoError(t, NewAuthor("Author name", 1980).validateAt(fixedNow))
	})

	t.Run("多个字段同时非法", func(t *testing.T) {
		err := NewAuthor("", 0).validateAt(fixedNow)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidParams))

		appErr := apperrors.GetAppError(err)
		require.Len(t, appErr.Fields, 2)
		assert.Equal(t, "fullName", appErr.Fields[0].Field)
		assert.Equal(t, RuleLength, appErr.Fields[0].Rule)
		assert.Equal(t, "birthYear", appErr.Fields[1].Field)
		assert.Equal(t, RuleYear, appErr.Fields[1].Rule)
	})
}

// TestBook_Validate 测试图书校验
func TestBook_Validate(t *testing.T) {
	require.NoError(t, NewBook("Book name", 2018, "Book annotation").validateAt(fixedNow))

	err := NewBook("Book name", fixedNow.Year()+1, strings.Repeat("a", MaxAnnotationLength+1)).validateAt(fixedNow)
	appErr := apperrors.GetAppError(err)
	require.Len(t, appErr.Fields, 2)
	assert.Equal(t, "publicationYear", appErr.Fields[0].Field)
	assert.Equal(t, "annotation", appErr.Fields[1].Field)
}

// TestCustomer_Validate 测试顾客校验
func TestCustomer_Validate(t *testing.T) {
	require.NoError(t, NewCustomer("Customer name", "+7-111-111-11-11").Validate())

	err := NewCustomer("Customer name", "+7-111-1t1-11-11").Validate()
	appErr := apperrors.GetAppError(err)
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, RulePhone, appErr.Fields[0].Rule)
}

// TestOrder_Validate 测试订单校验
func TestOrder_Validate(t *testing.T) {
	customer := &Customer{ID: 1}
	day := time.Date(2020, time.May, 13, 0, 0, 0, 0, time.UTC)

	require.NoError(t, NewOrder(customer, day).validateAt(fixedNow))

	t.Run("缺少顾客和创建日期", func(t *testing.T) {
		appErr := apperrors.GetAppError((&Order{}).validateAt(fixedNow))
		require.Len(t, appErr.Fields, 2)
		assert.Equal(t, "customer", appErr.Fields[0].Field)
		assert.Equal(t, "creationDate", appErr.Fields[1].Field)
	})

	t.Run("完成日期在未来年份", func(t *testing.T) {
		future := time.Date(fixedNow.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		order := NewOrder(customer, day)
		order.CompleteDate = &future
		order.Completed = true
		appErr := apperrors.GetAppError(order.validateAt(fixedNow))
		require.Len(t, appErr.Fields, 1)
		assert.Equal(t, RuleDate, appErr.Fields[0].Rule)
	})

	t.Run("完成标记与完成日期不一致", func(t *testing.T) {
		completedNoDate := NewOrder(customer, day)
		completedNoDate.Completed = true
		appErr := apperrors.GetAppError(completedNoDate.validateAt(fixedNow))
		require.Len(t, appErr.Fields, 1)
		assert.Equal(t, "completeDate", appErr.Fields[0].Field)
		assert.Equal(t, RuleComplete, appErr.Fields[0].Rule)

		dateNotCompleted := NewOrder(customer, day)
		dateNotCompleted.CompleteDate = &day
		appErr = apperrors.GetAppError(dateNotCompleted.validateAt(fixedNow))
		require.Len(t, appErr.Fields, 1)
		assert.Equal(t, RuleComplete, appErr.Fields[0].Rule)

		consistent := NewOrder(customer, day)
		consistent.CompleteDate = &day
		consistent.Completed = true
		assert.NoError(t, consistent.validateAt(fixedNow))
	})
}
