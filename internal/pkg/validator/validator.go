package validator

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

// Engine 返回进程内共享的校验器，HTTP 层与领域层使用同一套规则
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New()

		// 错误中的字段名使用 json 标签，便于和请求体对应
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("skill_label", validateSkillLabel)

		engine = v
	})
	return engine
}

// Struct 使用共享校验器校验结构体
func Struct(i interface{}) error {
	return Engine().Struct(i)
}

// validateSkillLabel 技能名称：允许为空，非空时不超过 64 个字符且不含控制字符
func validateSkillLabel(fl validator.FieldLevel) bool {
	label := fl.Field().String()
	if label == "" {
		return true
	}
	if len([]rune(label)) > 64 {
		return false
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// CustomValidator wraps go-playground validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(400, TranslateValidationError(err))
	}
	return nil
}

// New creates a new custom validator instance
func New() echo.Validator {
	return &CustomValidator{
		validator: Engine(),
	}
}
