package gateway

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var decimalPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// ParseDecimal converts the longest leading decimal literal of s, after
// leading whitespace. Input without such a prefix yields NaN; trailing text
// is ignored ("12kW" is 12).
func ParseDecimal(s string) float64 {
	s = strings.TrimLeftFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '\ufeff' })
	literal := decimalPrefix.FindString(s)
	if literal == "" {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(literal, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}
