package utils

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var digitsPattern = regexp.MustCompile(`^[0-9]+$`)

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = Validate.RegisterValidation("notblank", notBlank)
	_ = Validate.RegisterValidation("strongpassword", strongPassword)
	_ = Validate.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsPattern.MatchString(fl.Field().String())
	})
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// strongPassword requires an ASCII lower case letter, upper case letter, digit and one of @$!%*?&.
// Any other character fails.
func strongPassword(fl validator.FieldLevel) bool {
	var lower, upper, digit, special bool
	for _, r := range fl.Field().String() {
		switch {
		case 'a' <= r && r <= 'z':
			lower = true
		case 'A' <= r && r <= 'Z':
			upper = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}
