package ledger

import (
	"strconv"
	"strings"
)

// ParseScore converts raw cell input to a score value. Anything that does
// not parse as a number (including the empty string) maps to absent rather
// than an error, so a cleared or mistyped cell simply blanks the slot.
func ParseScore(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
