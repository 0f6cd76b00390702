// Package validators registers the custom binding tags used by request
// structs: date, role and condition.
package validators

import (
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	"github.com/BruksfildServices01/equipment-rental/internal/domain/catalog"
	"github.com/BruksfildServices01/equipment-rental/internal/timezone"
)

func IsDate(s string) bool {
	_, err := time.Parse(timezone.DateLayout, s)
	return err == nil
}

// Register wires the tags into gin's validator and reports fields by
// their json name.
func Register() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	Setup(v)
}

func Setup(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonName)

	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		return IsDate(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return auth.IsRole(fl.Field().String())
	})
	_ = v.RegisterValidation("condition", func(fl validator.FieldLevel) bool {
		return catalog.IsCondition(fl.Field().String())
	})
}

func jsonName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}
