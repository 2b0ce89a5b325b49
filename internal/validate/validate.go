// Package validate classifies raw request values. Values come straight from
// encoding/json decoding into interface{}: strings, float64, bool, nil, etc.
package validate

import (
	"math"
	"net/url"
	"regexp"
	"strings"
)

var (
	uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	namePattern = regexp.MustCompile(`^[\x{4e00}-\x{9fff}a-zA-Z0-9]{2,10}$`)
)

// IsUndefined reports a field that was absent from the payload. JSON null
// decodes to the same nil and is treated as absent too.
func IsUndefined(v interface{}) bool {
	return v == nil
}

// IsNotValidString is true for non-strings and for strings that are empty
// after percent-decoding and trimming. Malformed escapes are invalid.
func IsNotValidString(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return true
	}
	return strings.TrimSpace(decoded) == ""
}

// MaxInteger is the largest value IsNotValidInteger accepts.
const MaxInteger = math.MaxInt32

// IsNotValidInteger is true unless v is a whole number in [0, MaxInteger].
func IsNotValidInteger(v interface{}) bool {
	switch n := v.(type) {
	case float64:
		return n < 0 || n > MaxInteger || math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n)
	case float32:
		f := float64(n)
		return f < 0 || f > MaxInteger || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f)
	case int:
		return n < 0 || int64(n) > MaxInteger
	case int32:
		return n < 0
	case int64:
		return n < 0 || n > MaxInteger
	case uint:
		return uint64(n) > MaxInteger
	case uint32:
		return n > MaxInteger
	case uint64:
		return n > MaxInteger
	default:
		return true
	}
}

// IsNotValidUUID requires the canonical lowercase 8-4-4-4-12 form.
func IsNotValidUUID(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	return !uuidPattern.MatchString(s)
}

// IsNotSecureURL is true unless v is a string starting with "https".
func IsNotSecureURL(v interface{}) bool {
	if IsNotValidString(v) {
		return true
	}
	return !strings.HasPrefix(v.(string), "https")
}

// IsNotValidName enforces 2-10 CJK ideographs, letters or digits.
func IsNotValidName(v interface{}) bool {
	if IsNotValidString(v) {
		return true
	}
	return !namePattern.MatchString(v.(string))
}

// IsNotValidPassword requires 8-16 characters with at least one digit, one
// lowercase and one uppercase letter.
func IsNotValidPassword(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	if n := len([]rune(s)); n < 8 || n > 16 {
		return true
	}
	var digit, lower, upper bool
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r == '\n' || r == '\r':
			return true
		}
	}
	return !(digit && lower && upper)
}

// AnyUndefinedOrNotString is the common "required text field" check.
func AnyUndefinedOrNotString(vs ...interface{}) bool {
	for _, v := range vs {
		if IsUndefined(v) || IsNotValidString(v) {
			return true
		}
	}
	return false
}

// AsInt converts a value already accepted by IsNotValidInteger.
func AsInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case float32:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		return int(n)
	}
	return 0
}

// AsString returns the string or "" for anything else.
func AsString(v interface{}) string {
	s, _ := v.(string)
	return s
}
