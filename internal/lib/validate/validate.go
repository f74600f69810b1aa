// Package validate собирает валидатор структур с правилами, специфичными для
// bukafresh, и переводит ошибки валидации в человеко-читаемый текст.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

// nigerianPhone повторяет правило бэкенда: +234XXXXXXXXXX или 0XXXXXXXXXX.
var nigerianPhone = regexp.MustCompile(`^(\+234[789]\d{9}|0[789]\d{9})$`)

var shared = New()

// New возвращает валидатор с зарегистрированным тегом ngphone.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("ngphone", func(fl validator.FieldLevel) bool {
		return nigerianPhone.MatchString(fl.Field().String())
	})
	return v
}

// IsPhone проверяет номер телефона по тому же правилу, что и тег ngphone.
func IsPhone(s string) bool {
	return nigerianPhone.MatchString(s)
}

// IsEmail проверяет формат адреса почты.
func IsEmail(s string) bool {
	return shared.Var(s, "required,email") == nil
}

// Message формирует текст из ошибки валидации. Ошибки другого типа
// возвращаются как есть.
func Message(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", e.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s must be at least %s characters", e.Field(), e.Param()))
		case "len":
			msgs = append(msgs, fmt.Sprintf("field %s must be exactly %s characters", e.Field(), e.Param()))
		case "numeric":
			msgs = append(msgs, fmt.Sprintf("field %s can contain only numbers", e.Field()))
		case "ngphone":
			msgs = append(msgs, fmt.Sprintf("field %s must be a Nigerian phone number (+234XXXXXXXXXX or 0XXXXXXXXXX)", e.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of: %s", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not a valid", e.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}
