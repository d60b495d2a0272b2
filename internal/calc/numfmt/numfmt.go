// Package numfmt renders calculator values as display strings.
//
// Format produces the canonical value string shown on the display and stored
// in history. Group is a separate presentation step that inserts thousands
// separators. Format uses shortest round-trip digits laid out like ECMAScript
// Number::toString, exponential notation outside [1e-10, 1e12) and a ten
// significant digit fallback for long fixed-point strings.
package numfmt

import (
	"math"
	"strconv"
	"strings"
)

const (
	// SmallThreshold is the magnitude below which non-zero values switch to exponential form.
	SmallThreshold = 1e-10
	// LargeThreshold is the magnitude from which values switch to exponential form.
	LargeThreshold = 1e12
	// MaxFixedLength is the longest fixed-point string kept before re-rendering with ten significant digits.
	MaxFixedLength = 14
	// ErrorText is shown for non-finite values and domain errors.
	ErrorText = "Error"

	roundingScale     = 1e10
	exponentialDigits = 6
	fallbackPrecision = 10
)

// Format returns the canonical display string for x.
func Format(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return ErrorText
	}

	abs := math.Abs(x)
	if (abs < SmallThreshold && x != 0) || abs >= LargeThreshold {
		return Exponential(x, exponentialDigits)
	}

	rounded := roundHalfUp(x*roundingScale) / roundingScale
	s := Shortest(rounded)
	if len(s) > MaxFixedLength && !strings.ContainsRune(s, 'e') {
		s = Precision(rounded, fallbackPrecision)
	}
	return s
}

// roundHalfUp rounds like Math.round: halves go towards +Inf.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Shortest renders x with the fewest digits that round-trip, laid out as
// ECMAScript Number::toString does: plain integers up to 21 digits, fixed
// fractions down to 1e-6 and exponential notation beyond that.
func Shortest(x float64) string {
	if x == 0 {
		return "0"
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return ErrorText
	}

	negative := x < 0
	digits, n := decimalDigits(math.Abs(x), -1)
	k := len(digits)

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}

	switch {
	case k <= n && n <= 21:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		b.WriteString(digits[:n])
		b.WriteByte('.')
		b.WriteString(digits[n:])
	case -6 < n && n <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -n))
		b.WriteString(digits)
	default:
		b.WriteByte(digits[0])
		if k > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteString(exponentSuffix(n - 1))
	}
	return b.String()
}

// Exponential renders x with fraction digits after the point, like
// Number.prototype.toExponential.
func Exponential(x float64, fraction int) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return ErrorText
	}
	s := strconv.FormatFloat(x, 'e', fraction, 64)
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	e, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return mantissa + exponentSuffix(e)
}

// Precision renders x with the given number of significant digits, like
// Number.prototype.toPrecision.
func Precision(x float64, precision int) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return ErrorText
	}
	if x == 0 {
		return strconv.FormatFloat(0, 'f', precision-1, 64)
	}
	_, exp, _ := strings.Cut(strconv.FormatFloat(x, 'e', precision-1, 64), "e")
	e, _ := strconv.Atoi(exp)
	if e < -6 || e >= precision {
		return Exponential(x, precision-1)
	}
	return strconv.FormatFloat(x, 'f', precision-1-e, 64)
}

// decimalDigits returns the significant digits of a positive x and the
// position n of the decimal point, so that x = 0.d1d2...dk * 10^n.
func decimalDigits(x float64, precision int) (string, int) {
	s := strconv.FormatFloat(x, 'e', precision, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	e, _ := strconv.Atoi(exp)
	digits := strings.Replace(mantissa, ".", "", 1)
	digits = strings.TrimRight(digits, "0")
	if digits == "" {
		digits = "0"
	}
	return digits, e + 1
}

func exponentSuffix(e int) string {
	if e < 0 {
		return "e-" + strconv.Itoa(-e)
	}
	return "e+" + strconv.Itoa(e)
}
