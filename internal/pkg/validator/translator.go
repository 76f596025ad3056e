package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError 验证错误详情
type ValidationError struct {
	Field   string `json:"field"`   // 字段名
	Message string `json:"message"` // 错误消息
	Tag     string `json:"tag"`     // 验证标签（如：required, email）
	Value   string `json:"value"`   // 实际值（脱敏后）
}

// TranslateValidationErrors 翻译所有验证错误（返回详细列表）
func TranslateValidationErrors(err error) []ValidationError {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		// 非 validator 错误，返回通用错误
		return []ValidationError{
			{
				Field:   "request",
				Message: err.Error(),
				Tag:     "unknown",
			},
		}
	}

	// 翻译所有错误
	result := make([]ValidationError, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		result = append(result, ValidationError{
			Field:   fieldErr.Field(),
			Message: translateFieldError(fieldErr),
			Tag:     fieldErr.Tag(),
			Value:   sanitizeValue(fieldErr.Value()),
		})
	}

	return result
}

// TranslateValidationError 将 validator 验证错误转换为中文消息（返回第一个错误）
func TranslateValidationError(err error) string {
	if err == nil {
		return ""
	}

	details := TranslateValidationErrors(err)
	if len(details) > 0 {
		return details[0].Message
	}

	return err.Error()
}

// sanitizeValue 截断过长的值，避免整段战斗日志进入错误消息
func sanitizeValue(value interface{}) string {
	if value == nil {
		return ""
	}

	strValue := fmt.Sprintf("%v", value)

	// 限制长度
	if len(strValue) > 50 {
		return strValue[:50] + "..."
	}

	return strValue
}

// translateFieldError 翻译单个字段验证错误
func translateFieldError(fe validator.FieldError) string {
	field := getFieldName(fe.Field())
	tag := fe.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("%s不能为空", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s长度不能少于%s个字符", field, fe.Param())
		}
		return fmt.Sprintf("%s不能小于%s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s长度不能超过%s个字符", field, fe.Param())
		}
		return fmt.Sprintf("%s不能大于%s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s必须大于或等于%s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s必须小于或等于%s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s必须大于%s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s必须小于%s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s长度必须为%s", field, fe.Param())
	case "alpha":
		return fmt.Sprintf("%s只能包含字母", field)
	case "alphanum":
		return fmt.Sprintf("%s只能包含字母和数字", field)
	case "numeric":
		return fmt.Sprintf("%s只能包含数字", field)
	case "uuid":
		return fmt.Sprintf("%s格式不正确,请输入有效的UUID", field)
	case "skill_label":
		return fmt.Sprintf("%s不能超过64个字符且不能包含控制字符", field)
	case "required_without":
		return fmt.Sprintf("%s与%s至少需要提供一个", field, getFieldName(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s的值必须是以下之一: %s", field, fe.Param())
	case "dive":
		return fmt.Sprintf("%s包含无效的值", field)
	default:
		// 未知的验证规则,返回通用错误
		return fmt.Sprintf("%s验证失败: %s", field, tag)
	}
}

// getFieldName 将字段名转换为中文友好名称
func getFieldName(field string) string {
	fieldNames := map[string]string{
		"battle_id":         "战斗ID",
		"battle_code":       "战斗编码",
		"session_id":        "回放会话ID",
		"challenger":        "挑战者",
		"opponent":          "对手",
		"identity":          "身份信息",
		"name":              "名称",
		"max_health":        "生命上限",
		"max_mana":          "法力上限",
		"role":              "阵营",
		"turns":             "回合列表",
		"outcome":           "战斗结果",
		"sequence_index":    "回合序号",
		"attacker":          "出手方",
		"damage":            "伤害",
		"heal":              "治疗",
		"skill_used":        "技能名称",
		"challenger_health": "挑战者生命",
		"opponent_health":   "对手生命",
		"challenger_mana":   "挑战者法力",
		"opponent_mana":     "对手法力",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
