package session

import (
	"strings"

	"github.com/msto63/rechenwerk/foundation/core/errors"
	"github.com/msto63/rechenwerk/internal/calc/accumulator"
)

// KeyKind is the closed set of key classes a session understands.
type KeyKind int

const (
	KindDigit KeyKind = iota
	KindDecimal
	KindOperator
	KindFunction
	KindConstant
	KindEquals
	KindClear
	KindClearEntry
	KindBackspace
	KindNegate
	KindToggleAngle
)

// Key is one key press. Only the field matching Kind is meaningful.
type Key struct {
	Kind     KeyKind
	Digit    int
	Operator accumulator.Operator
	Function accumulator.Function
	Constant accumulator.Constant
}

var (
	KeyDecimal     = Key{Kind: KindDecimal}
	KeyEquals      = Key{Kind: KindEquals}
	KeyClear       = Key{Kind: KindClear}
	KeyClearEntry  = Key{Kind: KindClearEntry}
	KeyBackspace   = Key{Kind: KindBackspace}
	KeyNegate      = Key{Kind: KindNegate}
	KeyToggleAngle = Key{Kind: KindToggleAngle}
)

// Digit returns the key for d.
func Digit(d int) Key { return Key{Kind: KindDigit, Digit: d} }

// Op returns the key for a binary operator.
func Op(op accumulator.Operator) Key { return Key{Kind: KindOperator, Operator: op} }

// Fn returns the key for a unary function.
func Fn(fn accumulator.Function) Key { return Key{Kind: KindFunction, Function: fn} }

// Const returns the key for a constant.
func Const(c accumulator.Constant) Key { return Key{Kind: KindConstant, Constant: c} }

// String returns the name ParseKey accepts for k.
func (k Key) String() string {
	switch k.Kind {
	case KindDigit:
		return string(rune('0' + k.Digit))
	case KindDecimal:
		return "."
	case KindOperator:
		return k.Operator.Name()
	case KindFunction:
		return k.Function.Name()
	case KindConstant:
		return "const:" + k.Constant.Name()
	case KindEquals:
		return "="
	case KindClear:
		return "clear"
	case KindClearEntry:
		return "ce"
	case KindBackspace:
		return "backspace"
	case KindNegate:
		return "negate"
	case KindToggleAngle:
		return "angle"
	default:
		return "unknown"
	}
}

// ParseKey resolves a key name. Control keys win over operators, operators
// over functions and functions over constants, so "c" is Clear; use the
// "op:", "fn:" and "const:" prefixes to pick a class explicitly.
func ParseKey(s string) (Key, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	if prefix, rest, ok := strings.Cut(name, ":"); ok {
		switch prefix {
		case "op":
			if op, ok := accumulator.ParseOperator(rest); ok {
				return Op(op), nil
			}
		case "fn":
			if fn, ok := accumulator.ParseFunction(rest); ok {
				return Fn(fn), nil
			}
		case "const":
			if c, ok := accumulator.ParseConstant(rest); ok {
				return Const(c), nil
			}
		}
		return Key{}, unknownKey(s)
	}

	if len(name) == 1 && name[0] >= '0' && name[0] <= '9' {
		return Digit(int(name[0] - '0')), nil
	}

	switch name {
	case ".", ",", "decimal", "point":
		return KeyDecimal, nil
	case "=", "enter", "equals":
		return KeyEquals, nil
	case "c", "ac", "clear", "esc", "escape":
		return KeyClear, nil
	case "ce", "clear_entry":
		return KeyClearEntry, nil
	case "backspace", "bs", "⌫", "del":
		return KeyBackspace, nil
	case "negate", "neg", "±", "+/-":
		return KeyNegate, nil
	case "angle", "drg", "deg/rad":
		return KeyToggleAngle, nil
	}

	if op, ok := accumulator.ParseOperator(name); ok {
		return Op(op), nil
	}
	if fn, ok := accumulator.ParseFunction(name); ok {
		return Fn(fn), nil
	}
	if c, ok := accumulator.ParseConstant(name); ok {
		return Const(c), nil
	}
	return Key{}, unknownKey(s)
}

// ParseKeys splits s on white space and parses every token. Numeric tokens
// such as "12.5" or "-3" expand into their digit keys, a leading minus
// becoming a trailing negate.
func ParseKeys(s string) ([]Key, error) {
	var keys []Key
	for _, tok := range strings.Fields(s) {
		if digits, ok := numberKeys(tok); ok {
			keys = append(keys, digits...)
			continue
		}
		k, err := ParseKey(tok)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func numberKeys(tok string) ([]Key, bool) {
	negative := strings.HasPrefix(tok, "-")
	body := strings.TrimPrefix(tok, "-")
	if len(body) < 2 && !(len(body) == 1 && negative) {
		// single characters go through ParseKey
		return nil, false
	}

	keys := make([]Key, 0, len(body)+1)
	for _, r := range body {
		switch {
		case r >= '0' && r <= '9':
			keys = append(keys, Digit(int(r-'0')))
		case r == '.':
			keys = append(keys, KeyDecimal)
		default:
			return nil, false
		}
	}
	if negative {
		keys = append(keys, KeyNegate)
	}
	return keys, true
}

func unknownKey(s string) error {
	return errors.InvalidInput(errors.ModuleSession, "parse_key", s, "digit, operator, function, constant or control key")
}
