package validation

import (
	"errors"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ().-]{7,20}$`)
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	once     sync.Once
	instance *validator.Validate
)

// FieldError is the client-facing shape of a single failed rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// Validator returns the shared validator with custom rules registered.
// Field names in errors use the json tag so they match request bodies.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
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
		_ = v.RegisterValidation("valid_phone", ValidPhone)
		_ = v.RegisterValidation("iso_date", ISODate)
		_ = v.RegisterValidation("loose_url", LooseURL)
		instance = v
	})
	return instance
}

// Struct validates s and returns flattened field errors, or nil.
func Struct(s any) []FieldError {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	return Flatten(err)
}

// Flatten converts validator errors into FieldErrors.
func Flatten(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Rule: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: trimNamespace(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// trimNamespace drops the root struct name: "ProfileData.personalInfo.email" -> "personalInfo.email".
func trimNamespace(ns string) string {
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

// ValidPhone accepts an optional leading + followed by digits and common separators.
func ValidPhone(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}

// ISODate accepts YYYY-MM-DD calendar dates.
func ISODate(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if val == "" {
		return true
	}
	if !dateRegex.MatchString(val) {
		return false
	}
	_, err := time.Parse("2006-01-02", val)
	return err == nil
}

// LooseURL accepts links with or without a scheme ("linkedin.com/in/ada"),
// requiring a dotted host.
func LooseURL(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if val == "" {
		return true
	}
	if !strings.Contains(val, "://") {
		val = "https://" + val
	}
	u, err := url.Parse(val)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.Contains(u.Hostname(), ".")
}
