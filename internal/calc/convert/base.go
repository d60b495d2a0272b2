// Package convert holds the converters: integer radix conversion, factor
// table unit conversion and temperature scales.
package convert

import (
	"math/big"
	"strconv"
	"strings"
	"unicode"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/foundation/core/errors"
)

// Base is a supported radix.
type Base int

const (
	Binary  Base = 2
	Octal   Base = 8
	Decimal Base = 10
	Hex     Base = 16
)

// String returns the short name of the base.
func (b Base) String() string {
	switch b {
	case Binary:
		return "bin"
	case Octal:
		return "oct"
	case Decimal:
		return "dec"
	case Hex:
		return "hex"
	default:
		return "base" + strconv.Itoa(int(b))
	}
}

// ParseBase accepts "bin", "oct", "dec", "hex", their long names and the
// radix itself.
func ParseBase(s string) (Base, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2", "bin", "binary":
		return Binary, nil
	case "8", "oct", "octal":
		return Octal, nil
	case "10", "dec", "decimal":
		return Decimal, nil
	case "16", "hex", "hexadecimal":
		return Hex, nil
	}
	return 0, errors.NewErrorBuilder(errors.ModuleConvert).
		Operation("parse_base").
		Messagef("unsupported base %q", s).
		Code(mdwerror.CodeInvalidBase).
		Detail("base", s).
		Build()
}

// BaseSet is one integer rendered in every supported base. Hex digits are
// upper case.
type BaseSet struct {
	Binary  string `json:"bin"`
	Octal   string `json:"oct"`
	Decimal string `json:"dec"`
	Hex     string `json:"hex"`
}

// Bases parses input in base from and renders it in all four bases. Input
// is read up to the first character that is not a digit of the base;
// input without any digit counts as 0. A leading sign is kept and "0x" is
// accepted before decimal and hex input.
func Bases(input string, from Base) (BaseSet, error) {
	switch from {
	case Binary, Octal, Decimal, Hex:
	default:
		return BaseSet{}, errors.NewErrorBuilder(errors.ModuleConvert).
			Operation("bases").
			Messagef("unsupported base %d", int(from)).
			Code(mdwerror.CodeInvalidBase).
			Build()
	}

	n := parseIntPrefix(input, from)
	return BaseSet{
		Binary:  n.Text(2),
		Octal:   n.Text(8),
		Decimal: n.Text(10),
		Hex:     strings.ToUpper(n.Text(16)),
	}, nil
}

func parseIntPrefix(s string, base Base) *big.Int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	radix := int(base)
	if base == Decimal || base == Hex {
		if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
			s = s[2:]
			radix = 16
		}
	}

	end := 0
	for end < len(s) && digitValue(s[end]) < radix {
		end++
	}

	n := new(big.Int)
	if end == 0 {
		return n
	}
	n.SetString(s[:end], radix)
	if negative {
		n.Neg(n)
	}
	return n
}

func digitValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 99
	}
}
