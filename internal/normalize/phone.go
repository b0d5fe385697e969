package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var nonDigit = regexp.MustCompile(`[^0-9]+`)

const phoneDigits = 10

// Phone coerces a raw phone value to exactly ten digits. Strings are stripped
// of non-digits and truncated to their last ten digits; fewer than ten digits
// left means the phone is absent (nil, nil). Numeric input is already in
// destination form, so any length other than ten is an error.
func Phone(v any) (*string, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case string:
		return phoneFromString(n), nil
	case json.Number:
		if _, err := n.Int64(); err != nil {
			return nil, fmt.Errorf("phone is not an integer: %s", n)
		}
		return phoneFromNumber(n.String())
	case float64:
		if n != math.Trunc(n) || n < 0 {
			return nil, fmt.Errorf("phone is not an integer: %v", n)
		}
		return phoneFromNumber(strconv.FormatFloat(n, 'f', 0, 64))
	case int:
		return phoneFromNumber(strconv.Itoa(n))
	case int64:
		return phoneFromNumber(strconv.FormatInt(n, 10))
	default:
		return nil, fmt.Errorf("unsupported phone type %T", v)
	}
}

func phoneFromString(s string) *string {
	digits := nonDigit.ReplaceAllString(s, "")
	if len(digits) < phoneDigits {
		return nil
	}
	digits = digits[len(digits)-phoneDigits:]
	return &digits
}

func phoneFromNumber(digits string) (*string, error) {
	if nonDigit.MatchString(digits) {
		return nil, fmt.Errorf("numeric phone %s is not a digit string", digits)
	}
	if len(digits) != phoneDigits {
		return nil, fmt.Errorf("numeric phone has %d digits, want %d", len(digits), phoneDigits)
	}
	return &digits, nil
}
