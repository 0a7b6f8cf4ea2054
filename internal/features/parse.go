package features

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrEmpty is returned by Parse for blank input.
var ErrEmpty = errors.New("empty value")

// Parse is the single numeric parser used both for field validation and
// for building the prediction payload. The whole trimmed string must be a
// finite decimal number; partial parses such as "12abc" are rejected, and
// so are hex floats and digit separators ("0x1p4", "1_000").
func Parse(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrEmpty
	}
	if !isDecimal(s) {
		return 0, fmt.Errorf("not a decimal number: %q", raw)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}

	return v, nil
}

// Valid reports whether a raw field value is acceptable while editing:
// either still empty or a finite number.
func Valid(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}
	_, err := Parse(raw)
	return err == nil
}

// isDecimal reports whether s uses only plain decimal notation characters.
// ParseFloat still checks the structure.
func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '.', c == '+', c == '-', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}
