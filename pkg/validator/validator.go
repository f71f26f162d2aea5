package validator

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	initOnce sync.Once
	validate *validator.Validate
)

func Init() {
	initOnce.Do(func() {
		validate = validator.New()

		registerCustomValidations(validate)

		if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustomValidations(engine)
		}
	})
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("nav_key", validateNavKey)
	v.RegisterValidation("no_html", validateNoHTML)
}

func Validate(s interface{}) error {
	Init()
	return validate.Struct(s)
}

// validateNavKey accepts slash separated slug segments such as "people/tasks".
func validateNavKey(fl validator.FieldLevel) bool {
	key := strings.Trim(fl.Field().String(), "/")
	if key == "" {
		return false
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" {
			return false
		}
		for _, r := range segment {
			if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
				return false
			}
		}
	}
	return true
}

func validateNoHTML(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !strings.Contains(value, "<") && !strings.Contains(value, ">")
}
