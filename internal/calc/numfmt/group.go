package numfmt

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Group inserts thousands separators into the integer part of a display
// string. Exponential forms, the error text and anything that is not a plain
// decimal are returned unchanged.
func Group(s string) string {
	if s == ErrorText || strings.ContainsAny(s, "eE") {
		return s
	}

	intPart, frac, hasFrac := strings.Cut(s, ".")
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}
	if intPart == "" {
		return s
	}

	var grouped string
	if n, err := strconv.ParseUint(intPart, 10, 64); err == nil {
		grouped = sign + printer.Sprintf("%d", n)
	} else if allDigits(intPart) {
		// Beyond uint64 the digits are grouped directly.
		grouped = sign + groupDigits(intPart)
	} else {
		return s
	}
	if hasFrac {
		grouped += "." + frac
	}
	return grouped
}

func groupDigits(digits string) string {
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Ungroup removes thousands separators so a displayed value can be parsed again.
func Ungroup(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// Parse reads a displayed value back into a float, ignoring separators.
func Parse(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(Ungroup(s)), 64)
}
