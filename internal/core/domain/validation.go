package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MinAge            = 18

	maxExactInteger = 1 << 53
)

// emailPattern is a permissive local@domain.tld check, not full RFC 5322.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateName rejects a blank display name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	return nil
}

// ValidateEmail checks presence and shape of an email address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalidFormat
	}
	return nil
}

// ValidatePassword checks presence and minimum length. Length is counted in
// characters, not bytes.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidateAge accepts the raw decoded value of an age field and returns it as
// an int. Zero and negative integers fail the minimum check like any other
// value below MinAge.
func ValidateAge(age any) (int, error) {
	if age == nil {
		return 0, ErrAgeRequired
	}

	var n int64
	switch v := age.(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case float64:
		i, ok := wholeNumber(v)
		if !ok {
			return 0, ErrAgeNotInteger
		}
		n = i
	case float32:
		i, ok := wholeNumber(float64(v))
		if !ok {
			return 0, ErrAgeNotInteger
		}
		n = i
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, ErrAgeNotInteger
		}
		n = i
	default:
		return 0, ErrAgeNotInteger
	}

	if n < MinAge {
		return 0, ErrAgeUnderMinimum
	}
	if n > math.MaxInt32 {
		return 0, ErrAgeNotInteger
	}
	return int(n), nil
}

func wholeNumber(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if math.Abs(f) > maxExactInteger {
		return 0, false
	}
	return int64(f), true
}

// ValidateRole resolves an optional role value. An empty value defaults to
// RoleUser.
func ValidateRole(role string) (Role, error) {
	switch Role(role) {
	case "":
		return RoleUser, nil
	case RoleUser, RoleAdmin:
		return Role(role), nil
	default:
		return "", ErrRoleInvalid
	}
}
