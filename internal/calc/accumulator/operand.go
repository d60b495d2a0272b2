// Package accumulator implements the calculator's key-press state machine:
// one running entry, at most one pending binary operator, unary functions,
// constants and the error state.
//
// The engine is owned by a single session. The angle mode is read from an
// AngleSource owned by the caller and completed calculations are reported
// to a Recorder as (expression, result) pairs.
package accumulator

import (
	"math"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/foundation/core/errors"
	"github.com/msto63/rechenwerk/internal/calc/numfmt"
)

// Operand is either a finite value or a domain error.
type Operand struct {
	value float64
	err   *mdwerror.Error
}

// Ok wraps a value. Non-finite values become a domain error.
func Ok(v float64) Operand {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Fail(errors.Domain(errors.ModuleEngine, "evaluate", "result is not a finite number").
			WithDetail("value", v))
	}
	return Operand{value: v}
}

// Fail wraps a domain error.
func Fail(err *mdwerror.Error) Operand {
	if err == nil {
		err = errors.Domain(errors.ModuleEngine, "evaluate", "unknown failure")
	}
	return Operand{value: math.NaN(), err: err}
}

// IsError reports whether the operand is a domain error.
func (o Operand) IsError() bool {
	return o.err != nil
}

// Value returns the value, or NaN for an error.
func (o Operand) Value() float64 {
	if o.err != nil {
		return math.NaN()
	}
	return o.value
}

// Err returns the domain error or nil.
func (o Operand) Err() *mdwerror.Error {
	return o.err
}

// String formats the operand for the display.
func (o Operand) String() string {
	if o.err != nil {
		return numfmt.ErrorText
	}
	return numfmt.Format(o.value)
}

func fromResult(v float64, err error, op string) Operand {
	if err != nil {
		if mdwErr, ok := mdwerror.As(err); ok {
			return Fail(mdwErr)
		}
		return Fail(errors.Domain(errors.ModuleEngine, op, err.Error()))
	}
	return Ok(v)
}
