package money

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// ParseMinor converts a decimal string such as "1250.5" into minor units.
// Exponents, thousands separators and more than two decimals are rejected.
func ParseMinor(input string) (int64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, ErrInvalidAmount
	}
	unsigned := strings.TrimLeft(trimmed, "+-")
	if len(trimmed)-len(unsigned) > 1 {
		return 0, ErrInvalidAmount
	}
	parts := strings.SplitN(unsigned, ".", 2)
	if parts[0] == "" && (len(parts) == 1 || parts[1] == "") {
		return 0, ErrInvalidAmount
	}
	if !isDigits(parts[0]) {
		return 0, ErrInvalidAmount
	}
	if len(parts) == 2 {
		if !isDigits(parts[1]) {
			return 0, ErrInvalidAmount
		}
		if len(parts[1]) > 2 {
			return 0, ErrTooManyDecimals
		}
	}
	normalized := trimmed[:len(trimmed)-len(unsigned)]
	if parts[0] == "" {
		normalized += "0"
	}
	normalized += parts[0]
	if len(parts) == 2 && parts[1] != "" {
		normalized += "." + parts[1]
	}
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	minor := value.Shift(2)
	if minor.Abs().GreaterThan(maxMinor) {
		return 0, ErrInvalidAmount
	}
	return minor.IntPart(), nil
}

func FormatMinor(value int64) string {
	return decimal.New(value, -2).StringFixed(2)
}

// Amount accepts either a JSON string ("500.00") or a JSON number (500) and
// keeps the literal text so it can be parsed without float rounding.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) Minor() (int64, error) {
	return ParseMinor(string(a))
}

func (a Amount) IsZero() bool {
	return strings.TrimSpace(string(a)) == ""
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
