package util

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/guregu/null.v3"
)

func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("caseinsensitiveoneof", caseInsensitiveOneOf)
	validate.RegisterValidation("isodate", isoDate)
	validate.RegisterValidation("clockwindow", clockWindow)
	validate.RegisterCustomTypeFunc(nullFloatValuer, null.Float{})
	validate.RegisterCustomTypeFunc(nullStringValuer, null.String{})

	return validate
}

func caseInsensitiveOneOf(fl validator.FieldLevel) bool {
	val := strings.ToLower(fl.Field().String())
	candidates := strings.Split(strings.ToLower(fl.Param()), " ")
	for _, v := range candidates {
		if val == v {
			return true
		}
	}
	return false
}

func isoDate(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", val)
	return err == nil
}

// clockWindow only checks the shape HH:MM-HH:MM; ranges are checked when the
// window is parsed.
func clockWindow(fl validator.FieldLevel) bool {
	from, to, ok := strings.Cut(fl.Field().String(), "-")
	return ok && len(from) >= 4 && len(to) >= 4 && strings.Contains(from, ":") && strings.Contains(to, ":")
}

func nullFloatValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.Float); ok {
		return valuer.Float64
	}

	return nil
}

func nullStringValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.String); ok {
		return valuer.String
	}

	return nil
}
