package dto

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/xiebiao/bookservice/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

var registerOnce sync.Once

// RegisterValidators 向gin的validator注册自定义tag
//   - year:  年份规则(非0,大于-4000,不晚于今年)
//   - phone: 电话格式
//
// 同时让字段名使用json/form tag,使错误信息里的字段名与请求一致
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("year", func(fl validator.FieldLevel) bool {
			return catalog.ValidYear(int(fl.Field().Int()))
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return catalog.ValidPhone(fl.Field().String())
		})
	})
}

// 绑定tag → 领域规则名
var ruleNames = map[string]string{
	"required": catalog.RuleRequired,
	"max":      catalog.RuleLength,
	"year":     catalog.RuleYear,
	"phone":    catalog.RulePhone,
}

// BindError 将ShouldBind的错误转换为AppError
//   - validator.ValidationErrors → 参数校验失败(40900),逐字段列出
//   - 其它(JSON语法、日期格式) → 参数格式错误(40901)
func BindError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.ErrBindError.WithMessagef("Failed parse request: %v", err)
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		rule, ok := ruleNames[fe.Tag()]
		if !ok {
			rule = fe.Tag()
		}
		fields = append(fields, apperrors.FieldError{
			Field:   fe.Field(),
			Rule:    rule,
			Message: buildMessage(fe),
		})
	}
	return apperrors.Validation(fields)
}

func buildMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " length must be at most " + fe.Param()
	case "year":
		return fe.Field() + " must be a valid year"
	case "phone":
		return fe.Field() + " is not a valid phone number"
	default:
		return fe.Field() + " is invalid (" + fe.Tag() + ")"
	}
}
