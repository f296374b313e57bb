package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Permissive mailbox shape: local@domain.tld, single @, no whitespace.
	// Whitespace includes \v, Unicode separators and BOM, not only ASCII \s.
	mailboxRegex = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

	// Vietnamese mobile: +84 / 84 / 0 prefix, then 9 digits starting 1-9
	vnPhoneRegex = regexp.MustCompile(`^(\+84|84|0)[1-9][0-9]{8}$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("mailbox", Mailbox)
	_ = v.RegisterValidation("vn_phone", VNPhone)
	_ = v.RegisterValidation("min_trimmed", MinTrimmed)
}

// New returns a validator with the custom tags registered
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// Mailbox validates the text@text.text shape without full RFC 5322 parsing
func Mailbox(fl validator.FieldLevel) bool {
	return IsMailbox(fl.Field().String())
}

// VNPhone validates a Vietnamese mobile number, ignoring whitespace
func VNPhone(fl validator.FieldLevel) bool {
	return IsVNPhone(fl.Field().String())
}

// MinTrimmed validates the rune length of the trimmed value against the tag param
func MinTrimmed(fl validator.FieldLevel) bool {
	minLen, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= minLen
}

func IsMailbox(s string) bool {
	return mailboxRegex.MatchString(s)
}

func IsVNPhone(s string) bool {
	return vnPhoneRegex.MatchString(StripSpaces(s))
}

// StripSpaces removes every whitespace rune, including the ones inside the value
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
