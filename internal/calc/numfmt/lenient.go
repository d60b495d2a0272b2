package numfmt

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseLenient reads the longest numeric prefix of s the way a browser's
// parseFloat does and returns 0 when there is none. Solver coefficients and
// converter inputs use it so that bad input degrades to zero.
func ParseLenient(s string) float64 {
	v, ok := ParsePrefix(s)
	if !ok {
		return 0
	}
	return v
}

// ParsePrefix parses the longest numeric prefix of s after leading white
// space. ok is false when s does not start with a number. "Infinity" with an
// optional sign is accepted.
func ParsePrefix(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	body := strings.TrimLeft(s, "+-")
	if len(s)-len(body) <= 1 && strings.HasPrefix(body, "Infinity") {
		if strings.HasPrefix(s, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	end := numericPrefix(s)
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		// Overflowing literals parse to ±Inf with a range error.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v, true
		}
		return 0, false
	}
	return v, true
}

// numericPrefix returns the length of the longest prefix of s that forms a
// decimal literal: sign, digits, optional fraction, optional exponent.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	mantissaStart := i
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i == mantissaStart {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
