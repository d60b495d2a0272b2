package accumulator

import (
	"math"
	"strings"

	"github.com/msto63/rechenwerk/foundation/core/errors"
	"github.com/msto63/rechenwerk/internal/calc/arith"
)

// Function is a unary function applied to the current entry.
type Function int

const (
	FnPercent Function = iota
	FnSqrt
	FnCbrt
	FnSquare
	FnCube
	FnExp10
	FnInverse
	FnAbs
	FnSin
	FnCos
	FnTan
	FnCsc
	FnSec
	FnCot
	FnAsin
	FnAcos
	FnAtan
	FnSinh
	FnCosh
	FnTanh
	FnCsch
	FnSech
	FnCoth
	FnAsinh
	FnAcosh
	FnAtanh
	FnExp
	FnLog10
	FnLn
	FnLog2
	FnFactorial
)

type functionInfo struct {
	name  string
	label string
}

var functionTable = [...]functionInfo{
	FnPercent:   {"percent", "%"},
	FnSqrt:      {"sqrt", "√"},
	FnCbrt:      {"cbrt", "³√"},
	FnSquare:    {"square", "sqr"},
	FnCube:      {"cube", "cube"},
	FnExp10:     {"exp10", "10^"},
	FnInverse:   {"inverse", "1/"},
	FnAbs:       {"abs", "abs"},
	FnSin:       {"sin", "sin"},
	FnCos:       {"cos", "cos"},
	FnTan:       {"tan", "tan"},
	FnCsc:       {"csc", "csc"},
	FnSec:       {"sec", "sec"},
	FnCot:       {"cot", "cot"},
	FnAsin:      {"asin", "asin"},
	FnAcos:      {"acos", "acos"},
	FnAtan:      {"atan", "atan"},
	FnSinh:      {"sinh", "sinh"},
	FnCosh:      {"cosh", "cosh"},
	FnTanh:      {"tanh", "tanh"},
	FnCsch:      {"csch", "csch"},
	FnSech:      {"sech", "sech"},
	FnCoth:      {"coth", "coth"},
	FnAsinh:     {"asinh", "asinh"},
	FnAcosh:     {"acosh", "acosh"},
	FnAtanh:     {"atanh", "atanh"},
	FnExp:       {"exp", "e^"},
	FnLog10:     {"log", "log"},
	FnLn:        {"ln", "ln"},
	FnLog2:      {"log2", "log₂"},
	FnFactorial: {"factorial", "fact"},
}

// Functions lists every unary function.
func Functions() []Function {
	fns := make([]Function, len(functionTable))
	for i := range functionTable {
		fns[i] = Function(i)
	}
	return fns
}

func (fn Function) valid() bool {
	return fn >= 0 && int(fn) < len(functionTable)
}

// Name is the stable identifier used by key bindings and the wire protocols.
func (fn Function) Name() string {
	if !fn.valid() {
		return "unknown"
	}
	return functionTable[fn].name
}

func (fn Function) String() string {
	return fn.Name()
}

// Label is the prefix used in history expressions, e.g. "√(9)".
func (fn Function) Label() string {
	if !fn.valid() {
		return "?"
	}
	return functionTable[fn].label
}

// ParseFunction resolves a function by name. "sqr", "power" and "fact" are
// accepted as aliases.
func ParseFunction(s string) (Function, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "sqr", "power":
		return FnSquare, true
	case "fact", "!":
		return FnFactorial, true
	case "%":
		return FnPercent, true
	case "log10":
		return FnLog10, true
	}
	for i, info := range functionTable {
		if info.name == key {
			return Function(i), true
		}
	}
	return 0, false
}

// Apply evaluates fn at x. Trigonometric inputs and inverse trigonometric
// outputs use the given angle mode.
func Apply(fn Function, x float64, mode AngleMode) Operand {
	toRad := func(v float64) float64 {
		if mode == Degrees {
			return arith.ToRadians(v)
		}
		return v
	}
	fromRad := func(v float64) float64 {
		if mode == Degrees {
			return arith.ToDegrees(v)
		}
		return v
	}

	switch fn {
	case FnPercent:
		return Ok(x / 100)
	case FnSqrt:
		return Ok(math.Sqrt(x))
	case FnCbrt:
		return Ok(math.Cbrt(x))
	case FnSquare:
		return Ok(x * x)
	case FnCube:
		return Ok(x * x * x)
	case FnExp10:
		return Ok(math.Pow(10, x))
	case FnInverse:
		if x == 0 {
			return Fail(errors.DivisionByZero(errors.ModuleEngine, "inverse"))
		}
		return Ok(1 / x)
	case FnAbs:
		return Ok(math.Abs(x))

	case FnSin:
		return Ok(math.Sin(toRad(x)))
	case FnCos:
		return Ok(math.Cos(toRad(x)))
	case FnTan:
		return Ok(math.Tan(toRad(x)))
	case FnCsc:
		return Ok(1 / math.Sin(toRad(x)))
	case FnSec:
		return Ok(1 / math.Cos(toRad(x)))
	case FnCot:
		return Ok(1 / math.Tan(toRad(x)))
	case FnAsin:
		return Ok(fromRad(math.Asin(x)))
	case FnAcos:
		return Ok(fromRad(math.Acos(x)))
	case FnAtan:
		return Ok(fromRad(math.Atan(x)))

	case FnSinh:
		return Ok(math.Sinh(x))
	case FnCosh:
		return Ok(math.Cosh(x))
	case FnTanh:
		return Ok(math.Tanh(x))
	case FnCsch:
		return Ok(1 / math.Sinh(x))
	case FnSech:
		return Ok(1 / math.Cosh(x))
	case FnCoth:
		return Ok(1 / math.Tanh(x))
	case FnAsinh:
		return Ok(math.Asinh(x))
	case FnAcosh:
		return Ok(math.Acosh(x))
	case FnAtanh:
		return Ok(math.Atanh(x))
	case FnExp:
		return Ok(math.Exp(x))

	case FnLog10:
		return Ok(math.Log10(x))
	case FnLn:
		return Ok(math.Log(x))
	case FnLog2:
		return Ok(math.Log2(x))
	case FnFactorial:
		v, err := arith.Factorial(x)
		return fromResult(v, err, "factorial")
	}
	return Fail(errors.Domain(errors.ModuleEngine, "apply", "unknown function"))
}
