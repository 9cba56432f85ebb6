// Package validation holds the field-format checks used by the onboarding
// wizard, both as plain functions and as validator struct tags.
package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
	nonDigitRegex = regexp.MustCompile(`\D`)
)

// ValidateUsername reports whether s is 3 to 30 letters, digits or underscores.
func ValidateUsername(s string) bool {
	return s != "" && usernameRegex.MatchString(s)
}

// ValidateTaxNumber reports whether s holds a CPF (11 digits) or CNPJ (14 digits),
// ignoring any punctuation.
func ValidateTaxNumber(s string) bool {
	if s == "" {
		return false
	}
	n := len(digits(s))
	return n == 11 || n == 14
}

// ValidatePostalCode reports whether s holds an 8-digit CEP, ignoring punctuation.
func ValidatePostalCode(s string) bool {
	if s == "" {
		return false
	}
	return len(digits(s)) == 8
}

func digits(s string) string {
	return nonDigitRegex.ReplaceAllString(s, "")
}

// Validator wraps a validator instance with the onboarding tags registered.
type Validator struct {
	v *validator.Validate
}

// tagRule binds a struct tag to a string check.
type tagRule struct {
	tag   string
	check func(string) bool
}

var onboardingRules = []tagRule{
	{tag: "username", check: ValidateUsername},
	{tag: "taxnumber", check: ValidateTaxNumber},
	{tag: "postalcode", check: ValidatePostalCode},
}

// New returns a Validator with the username, taxnumber and postalcode tags
// registered. It panics if a tag cannot be registered.
func New() *Validator {
	v, err := newValidator(onboardingRules)
	if err != nil {
		panic(err)
	}
	return v
}

func newValidator(rules []tagRule) (*Validator, error) {
	v := validator.New()
	for _, r := range rules {
		if err := v.RegisterValidation(r.tag, fieldFunc(r.check)); err != nil {
			return nil, fmt.Errorf("registering %q validation: %w", r.tag, err)
		}
	}
	return &Validator{v: v}, nil
}

func fieldFunc(check func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return check(fl.Field().String())
	}
}

// Violation names the first rule a struct breaks.
type Violation struct {
	Field string
	Rule  string
}

// First validates s and returns the first violation. A missing required
// field wins over any format failure; otherwise violations are reported in
// field declaration order. ok is false when s is valid.
func (v *Validator) First(s any) (Violation, bool, error) {
	err := v.v.Struct(s)
	if err == nil {
		return Violation{}, false, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return Violation{}, false, err
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return Violation{Field: fe.Field(), Rule: fe.Tag()}, true, nil
		}
	}
	fe := fieldErrs[0]
	return Violation{Field: fe.Field(), Rule: fe.Tag()}, true, nil
}
