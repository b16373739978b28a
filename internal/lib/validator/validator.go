package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CreateNewValidator создает объект типа *validator.Validate, в котором название
// поля берется из env тега. Используется для проверки конфигурации на старте.
func CreateNewValidator() *validator.Validate {
	valid := validator.New()

	valid.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("env"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return valid
}
