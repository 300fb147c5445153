// Package validation provides custom validators for the application
package validation

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// unknownRegion is what phonenumbers returns for unassigned calling codes
const unknownRegion = "ZZ"

// Initialize registers all custom validators
func Initialize() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register adds the custom rules to v
func Register(v *validator.Validate) {
	rules := map[string]validator.Func{
		"notblank": validateNotBlank,
		"dialcode": validateDialCode,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// validateNotBlank checks if a string contains non-space characters
func validateNotBlank(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.TrimSpace(value) != ""
}

func validateDialCode(fl validator.FieldLevel) bool {
	return RegionForDialCode(fl.Field().String()) != ""
}

// RegionForDialCode returns the primary region of an international calling
// code such as "46" or "+46", empty when the code is not assigned
func RegionForDialCode(dialCode string) string {
	code, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(dialCode), "+"))
	if err != nil || code <= 0 {
		return ""
	}
	region := phonenumbers.GetRegionCodeForCountryCode(code)
	if region == unknownRegion {
		return ""
	}
	return region
}

// ValidPhone reports whether phone is a valid national number under dialCode
func ValidPhone(dialCode, phone string) bool {
	region := RegionForDialCode(dialCode)
	if region == "" {
		return false
	}
	num, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}
