package catalog

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

// 字段约束
const (
	MinYear = -4000 // 年份下界(不含)

	MaxNameLength       = 256
	MaxAnnotationLength = 4096
	MaxPhoneLength      = 20
)

// 校验规则名称(出现在FieldError.Rule中)
const (
	RuleRequired = "required"
	RuleLength   = "length"
	RuleYear     = "year"
	RuleDate     = "date"
	RulePhone    = "phone"
	RuleComplete = "completion"
)

// phonePattern 可选前导+,只允许数字/空格/连字符,最多一个括号分组
var phonePattern = regexp.MustCompile(`^\+?[\d\s-]*(\([\d\s-]*\))?[\d\s-]*$`)

// ValidYear 年份规则: y > -4000 且 y != 0 且 y <= 当前年份
// 当前年份在校验时求值
func ValidYear(y int) bool {
	return validYearAt(y, time.Now())
}

func validYearAt(y int, now time.Time) bool {
	return y > MinYear && y != 0 && y <= now.Year()
}

// ValidDate 日期规则: 日期的UTC年份满足年份规则
func ValidDate(t time.Time) bool {
	return validDateAt(t, time.Now())
}

func validDateAt(t time.Time, now time.Time) bool {
	return validYearAt(t.UTC().Year(), now)
}

// ValidLength 非空且字符数在[min, max]之间(按rune计数)
func ValidLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// ValidPhone 电话规则: 长度1-20且匹配phonePattern
func ValidPhone(s string) bool {
	return ValidLength(s, 1, MaxPhoneLength) && phonePattern.MatchString(s)
}

// validator 收集字段错误(批量校验,不在第一个错误处短路)
type validator struct {
	now    time.Time
	fields []apperrors.FieldError
}

func newValidator(now time.Time) *validator {
	return &validator{now: now}
}

func (v *validator) add(field, rule, format string, args ...interface{}) {
	v.fields = append(v.fields, apperrors.FieldError{
		Field:   field,
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) length(field, value string, max int) {
	if !ValidLength(value, 1, max) {
		v.add(field, RuleLength, "%s length must be between 1 and %d", field, max)
	}
}

func (v *validator) year(field string, value int) {
	if !validYearAt(value, v.now) {
		v.add(field, RuleYear, "%s must be greater than %d, not equal to 0 and not in the future", field, MinYear)
	}
}

func (v *validator) date(field string, value time.Time) {
	if !validDateAt(value, v.now) {
		v.add(field, RuleDate, "%s year must be greater than %d, not equal to 0 and not in the future", field, MinYear)
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return apperrors.Validation(v.fields)
}

// Validate 校验作者字段
func (a *Author) Validate() error {
	return a.validateAt(time.Now())
}

func (a *Author) validateAt(now time.Time) error {
	v := newValidator(now)
	v.length("fullName", a.FullName, MaxNameLength)
	v.year("birthYear", a.BirthYear)
	return v.err()
}

// Validate 校验图书字段
func (b *Book) Validate() error {
	return b.validateAt(time.Now())
}

func (b *Book) validateAt(now time.Time) error {
	v := newValidator(now)
	v.length("name", b.Name, MaxNameLength)
	v.year("publicationYear", b.PublicationYear)
	v.length("annotation", b.Annotation, MaxAnnotationLength)
	return v.err()
}

// Validate 校验顾客字段
func (c *Customer) Validate() error {
	v := newValidator(time.Now())
	v.length("name", c.Name, MaxNameLength)
	if !ValidPhone(c.Phone) {
		v.add("phone", RulePhone, "phone must be 1-%d digits, spaces or hyphens with optional leading + and one parenthesized group", MaxPhoneLength)
	}
	return v.err()
}

// Validate 校验订单字段
// 顾客是否存在由仓储在写事务内检查
func (o *Order) Validate() error {
	return o.validateAt(time.Now())
}

func (o *Order) validateAt(now time.Time) error {
	v := newValidator(now)
	if o.CustomerID() == 0 {
		v.add("customer", RuleRequired, "customer is required")
	}
	if o.CreationDate.IsZero() {
		v.add("creationDate", RuleRequired, "creationDate is required")
	} else {
		v.date("creationDate", o.CreationDate)
	}
	if o.CompleteDate != nil {
		v.date("completeDate", *o.CompleteDate)
	}
	// completed和completeDate只能一起设置
	if o.Completed != (o.CompleteDate != nil) {
		v.add("completeDate", RuleComplete, "completeDate must be set if and only if completed is true")
	}
	return v.err()
}
