package accumulator

import (
	"math"
	"strings"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/foundation/core/errors"
	"github.com/msto63/rechenwerk/internal/calc/arith"
)

// Operator is a binary operator that can be pending in the accumulator.
type Operator int

const (
	OpNone Operator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	OpMod
	OpGCD
	OpLCM
	OpPermutation
	OpCombination
	OpNthRoot
	OpLogBase
	OpAtan2
)

var operatorNames = map[Operator]string{
	OpAdd:         "add",
	OpSub:         "subtract",
	OpMul:         "multiply",
	OpDiv:         "divide",
	OpPow:         "power",
	OpMod:         "mod",
	OpGCD:         "gcd",
	OpLCM:         "lcm",
	OpPermutation: "npr",
	OpCombination: "ncr",
	OpNthRoot:     "nthroot",
	OpLogBase:     "logbase",
	OpAtan2:       "atan2",
}

// Operators lists every binary operator in display order.
func Operators() []Operator {
	return []Operator{OpAdd, OpSub, OpMul, OpDiv, OpPow, OpMod, OpGCD, OpLCM,
		OpPermutation, OpCombination, OpNthRoot, OpLogBase, OpAtan2}
}

// Name is the stable identifier used by key bindings and the wire protocols.
func (op Operator) Name() string {
	if n, ok := operatorNames[op]; ok {
		return n
	}
	return "none"
}

func (op Operator) String() string {
	return op.Name()
}

// Symbol is the glyph shown in expressions.
func (op Operator) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "−"
	case OpMul:
		return "×"
	case OpDiv:
		return "÷"
	case OpPow:
		return "^"
	case OpMod:
		return "mod"
	case OpGCD:
		return "gcd"
	case OpLCM:
		return "lcm"
	case OpPermutation:
		return "P"
	case OpCombination:
		return "C"
	case OpNthRoot:
		return "√"
	case OpLogBase:
		return "log"
	case OpAtan2:
		return "atan2"
	}
	return ""
}

// ParseOperator resolves an operator by name, by its ASCII symbol or by the
// display glyphs of the four basic operations.
func ParseOperator(s string) (Operator, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "+", "plus":
		return OpAdd, true
	case "-", "−", "minus", "sub":
		return OpSub, true
	case "*", "×", "x", "times", "mul":
		return OpMul, true
	case "/", "÷", "div":
		return OpDiv, true
	case "^", "pow", "powerof":
		return OpPow, true
	}
	for op, name := range operatorNames {
		if name == key {
			return op, true
		}
	}
	return OpNone, false
}

// Evaluate applies op to a and b. The angle mode only matters for atan2,
// whose result is given in degrees in Degrees mode.
func Evaluate(op Operator, a, b float64, mode AngleMode) Operand {
	switch op {
	case OpAdd:
		return Ok(a + b)
	case OpSub:
		return Ok(a - b)
	case OpMul:
		return Ok(a * b)
	case OpDiv:
		if b == 0 {
			return Fail(errors.DivisionByZero(errors.ModuleEngine, "divide"))
		}
		return Ok(a / b)
	case OpPow:
		return Ok(math.Pow(a, b))
	case OpMod:
		return Ok(math.Mod(a, b))
	case OpGCD:
		return Ok(arith.GCD(a, b))
	case OpLCM:
		v, err := arith.LCM(a, b)
		return fromResult(v, err, "lcm")
	case OpPermutation:
		v, err := arith.Permutation(a, b)
		return fromResult(v, err, "permutation")
	case OpCombination:
		v, err := arith.Combination(a, b)
		return fromResult(v, err, "combination")
	case OpNthRoot:
		return Ok(math.Pow(a, 1/b))
	case OpLogBase:
		return Ok(math.Log(a) / math.Log(b))
	case OpAtan2:
		v := math.Atan2(a, b)
		if mode == Degrees {
			v = arith.ToDegrees(v)
		}
		return Ok(v)
	}
	return Fail(errors.NewErrorBuilder(errors.ModuleEngine).
		Operation("evaluate").
		Messagef("unknown operator %d", int(op)).
		Code(mdwerror.CodeUnknownOperation).
		Build())
}
