package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field rules shared by registration and profile edit. These are the
// authoritative checks; whatever a client validated is advisory only.
var (
	allDigitsRe = regexp.MustCompile(`^\d+$`)
	usernameRe  = regexp.MustCompile(`^[a-zA-Z0-9ก-๛]+$`)
	phoneRe     = regexp.MustCompile(`^(06|08|09)\d{8}$`)
	zipcodeRe   = regexp.MustCompile(`^\d{5}$`)
	letterRe    = regexp.MustCompile(`[a-zA-Zก-ฮ]`)
	addressRe   = regexp.MustCompile(`^[a-zA-Z0-9ก-๛\s./]+$`)
)

// Rules returns a validator with the storefront's custom field rules
// registered.
func Rules() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username", validUsername)
	_ = v.RegisterValidation("thphone", validPhone)
	_ = v.RegisterValidation("zipcode", validZipcode)
	_ = v.RegisterValidation("address", validAddress)
	return v
}

// username: letters and digits only, and not digits alone.
func validUsername(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	return usernameRe.MatchString(s) && !allDigitsRe.MatchString(s)
}

// thphone: 10 digits starting 06/08/09; spaces and dashes are cleaned
// before the check.
func validPhone(fl validator.FieldLevel) bool {
	s := strings.NewReplacer("-", "", " ", "").Replace(fl.Field().String())
	return phoneRe.MatchString(s)
}

func validZipcode(fl validator.FieldLevel) bool {
	return zipcodeRe.MatchString(fl.Field().String())
}

// address: at least 10 chars, contains a letter, no specials beyond
// space, dot and slash.
func validAddress(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	return len([]rune(s)) >= 10 && letterRe.MatchString(s) && addressRe.MatchString(s)
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: Rules()}
}

func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}
