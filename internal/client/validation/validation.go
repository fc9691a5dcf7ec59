// Package validation checks the client's forms before anything is sent.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// emailPattern is loose: something@something.something with no
// whitespace. The server owns real address validation.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors maps a form field (lowerCamel, as sent on the wire) to the
// message shown next to it.
type FieldErrors map[string]string

// First returns the message of the alphabetically first field, which gives
// a stable single-line summary.
func (fe FieldErrors) First() string {
	if len(fe) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fe[keys[0]]
}

// messages per field and failed tag.
var messages = map[string]map[string]string{
	"name": {
		"required": "Name is required",
		"notblank": "Name is required",
	},
	"email": {
		"required":      "Email is required",
		"notblank":      "Email is required",
		"email_pattern": "Please enter a valid email",
	},
	"password": {
		"required": "Password is required",
		"min":      "Password must be at least 6 characters",
	},
	"confirmPassword": {
		"eqfield": "Passwords do not match",
	},
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("email_pattern", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	}); err != nil {
		// only fails on an empty tag name or a nil func
		panic(fmt.Sprintf("register email_pattern: %v", err))
	}
	// required alone accepts "   "
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank: %v", err))
	}
	return &Validator{v: v}
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Struct validates a form struct. It returns nil when the form is valid.
// Only the first failing rule of each field is reported.
func (v *Validator) Struct(form any) (FieldErrors, error) {
	err := v.v.Struct(form)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("validate: %w", err)
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.StructField())
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := messages[field][fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", field)
		}
		out[field] = msg
	}
	return out, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// String renders the errors one per line in field order.
func (fe FieldErrors) String() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(fe[k])
	}
	return sb.String()
}
