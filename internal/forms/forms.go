// Package forms declares the HTML forms the site accepts and validates them
// with go-playground/validator.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// GeneralKey holds errors that do not belong to a single field.
const GeneralKey = "_form"

// Errors maps a form field name to a message for the user. An empty map means
// the form is valid.
type Errors map[string]string

// Valid reports whether there are no errors.
func (e Errors) Valid() bool { return len(e) == 0 }

// Get returns the message for field, or "".
func (e Errors) Get(field string) string { return e[field] }

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

var (
	slugPattern   = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
	reservedSlugs = map[string]struct{}{
		"new":    {},
		"edit":   {},
		"static": {},
		"admin":  {},
	}
)

// MaxPasswordBytes is bcrypt's input limit. It counts bytes, so a password of
// multi-byte characters hits it well before 72 characters.
const MaxPasswordBytes = 72

// MaxSlugLength bounds event slugs.
const MaxSlugLength = 64

// ValidSlug reports whether s is usable as an event slug.
func ValidSlug(s string) bool {
	if len(s) == 0 || len(s) > MaxSlugLength || !slugPattern.MatchString(s) {
		return false
	}
	_, reserved := reservedSlugs[s]
	return !reserved
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return ValidSlug(fl.Field().String())
		}); err != nil {
			panic(err)
		}
		if err := v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= MaxPasswordBytes
		}); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// Validate trims the string fields of form (a pointer to a struct), checks
// every constraint and returns all violations at once.
func Validate(form any) Errors {
	errs := Errors{}

	rv := reflect.ValueOf(form)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		errs.Add(GeneralKey, "Invalid form")
		return errs
	}
	trimStrings(rv.Elem())

	err := engine().Struct(form)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(GeneralKey, "Invalid form")
		return errs
	}

	t := rv.Elem().Type()
	for _, fe := range verrs {
		label := fe.Field()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if l := sf.Tag.Get("label"); l != "" {
				label = l
			}
		}
		errs.Add(fe.Field(), message(fe, label))
	}
	return errs
}

// Bind reads the submitted form into form and validates it.
func Bind(c *gin.Context, form any) Errors {
	if err := c.ShouldBind(form); err != nil {
		errs := Errors{}
		errs.Add(GeneralKey, "The form could not be read. Please try again.")
		return errs
	}
	return Validate(form)
}

func trimStrings(v reflect.Value) {
	t := v.Type()
	for i := range t.NumField() {
		f := v.Field(i)
		if f.Kind() != reflect.String || !f.CanSet() {
			continue
		}
		if t.Field(i).Tag.Get("trim") == "false" {
			continue
		}
		f.SetString(strings.TrimSpace(f.String()))
	}
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", label, fe.Param())
	case "eqfield":
		return "Passwords do not match"
	case "datetime":
		return "Enter a valid date and time"
	case "bcryptlen":
		return label + " is too long; use fewer or simpler characters"
	case "slug":
		return label + " may only use lowercase letters, numbers and dashes, and must not be a reserved word"
	default:
		return label + " is invalid"
	}
}
