package accumulator

import (
	"math/rand/v2"
	"strconv"
	"strings"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/foundation/core/errors"
	"github.com/msto63/rechenwerk/internal/calc/numfmt"
)

// DefaultMaxInputLength caps the number of characters typed into one entry.
const DefaultMaxInputLength = 16

// Recorder receives every completed calculation.
type Recorder interface {
	Record(expression, result string)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(expression, result string)

// Record implements Recorder.
func (f RecorderFunc) Record(expression, result string) {
	f(expression, result)
}

// State is a read-only snapshot of the engine.
type State struct {
	// Display is the entry text, or "Error".
	Display string
	// Current is the entry as an operand.
	Current Operand
	// Pending is the stashed left operand; only meaningful with HasPending.
	Pending    float64
	HasPending bool
	Operator   Operator
	// Awaiting is true right after an operator or equals: the next digit
	// starts a new number.
	Awaiting bool
	// Expression is the pending part of the calculation, e.g. "12 ×".
	Expression string
}

// Engine is the accumulator state machine. It is not safe for concurrent use.
type Engine struct {
	entry string
	err   *mdwerror.Error

	pending    float64
	hasPending bool
	operator   Operator
	awaiting   bool
	// fresh marks a computed entry (function result, constant, recalled
	// value): the next digit replaces it without affecting the pending
	// operator.
	fresh bool

	angles   AngleSource
	recorder Recorder
	maxInput int
	random   func() float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithAngleSource sets where the engine reads the angle mode from.
func WithAngleSource(src AngleSource) Option {
	return func(e *Engine) {
		if src != nil {
			e.angles = src
		}
	}
}

// WithRecorder sets the receiver of completed calculations.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithMaxInputLength overrides DefaultMaxInputLength.
func WithMaxInputLength(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxInput = n
		}
	}
}

// WithRandom sets the source used by ConstRandom.
func WithRandom(random func() float64) Option {
	return func(e *Engine) {
		if random != nil {
			e.random = random
		}
	}
}

// New returns an engine showing 0.
func New(opts ...Option) *Engine {
	e := &Engine{
		entry:    "0",
		angles:   FixedAngle(Radians),
		maxInput: DefaultMaxInputLength,
		random:   rand.Float64,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a snapshot of the engine.
func (e *Engine) State() State {
	s := State{
		Display:    e.entry,
		Current:    e.current(),
		Pending:    e.pending,
		HasPending: e.hasPending,
		Operator:   e.operator,
		Awaiting:   e.awaiting,
	}
	if e.err != nil {
		s.Display = numfmt.ErrorText
	}
	if e.operator != OpNone && e.hasPending {
		s.Expression = numfmt.Format(e.pending) + " " + e.operator.Symbol()
	}
	return s
}

// Display returns the entry text, or "Error".
func (e *Engine) Display() string {
	if e.err != nil {
		return numfmt.ErrorText
	}
	return e.entry
}

// Err returns the error that put the engine into the error state, if any.
func (e *Engine) Err() *mdwerror.Error {
	return e.err
}

// InputDigit types one decimal digit. Values outside 0..9 are ignored.
func (e *Engine) InputDigit(d int) {
	if d < 0 || d > 9 {
		return
	}
	digit := strconv.Itoa(d)

	switch {
	case e.startsFresh():
		e.entry = digit
		e.resetEntryFlags()
	case e.entry == "0":
		e.entry = digit
	case e.entry == "-0":
		e.entry = "-" + digit
	default:
		e.entry += digit
	}

	if len(e.entry) > e.maxInput {
		e.entry = e.entry[:e.maxInput]
	}
}

// InputDecimalPoint types ".". A second point in the same entry is ignored.
func (e *Engine) InputDecimalPoint() {
	if e.startsFresh() {
		e.entry = "0."
		e.resetEntryFlags()
		return
	}
	if !strings.Contains(e.entry, ".") && len(e.entry) < e.maxInput {
		e.entry += "."
	}
}

// ApplyUnary replaces the entry with fn(entry). Ignored in the error state.
func (e *Engine) ApplyUnary(fn Function) {
	if e.err != nil {
		return
	}
	x := e.value()
	result := Apply(fn, x, e.angles.AngleMode())
	if result.IsError() {
		e.fail(result.Err())
		return
	}

	e.entry = numfmt.Format(result.Value())
	e.awaiting = false
	e.fresh = true
	e.record(fn.Label()+"("+numfmt.Format(x)+")", e.entry)
}

// ApplyOperator stashes the entry as the left operand, resolving a pending
// operation first when a right operand has been typed ("1 + 2 +" shows 3).
// Ignored in the error state.
func (e *Engine) ApplyOperator(op Operator) {
	if e.err != nil || op == OpNone {
		return
	}

	value := e.value()
	switch {
	case !e.hasPending:
		e.pending = value
		e.hasPending = true
	case e.operator != OpNone && !e.awaiting:
		result := Evaluate(e.operator, e.pending, value, e.angles.AngleMode())
		if result.IsError() {
			e.fail(result.Err())
			return
		}
		e.entry = numfmt.Format(result.Value())
		e.pending = result.Value()
	}

	e.operator = op
	e.awaiting = true
	e.fresh = false
}

// Equals resolves the pending operation. It does nothing unless an operator
// is pending and its right operand has been entered.
func (e *Engine) Equals() {
	if e.err != nil || e.operator == OpNone || !e.hasPending || e.awaiting {
		return
	}

	value := e.value()
	op, left := e.operator, e.pending
	result := Evaluate(op, left, value, e.angles.AngleMode())

	e.hasPending = false
	e.operator = OpNone
	if result.IsError() {
		e.fail(result.Err())
		return
	}

	e.entry = numfmt.Format(result.Value())
	e.awaiting = true
	e.fresh = false
	e.record(numfmt.Format(left)+" "+op.Symbol()+" "+numfmt.Format(value), e.entry)
}

// Clear resets the engine to its initial state.
func (e *Engine) Clear() {
	e.entry = "0"
	e.err = nil
	e.pending = 0
	e.hasPending = false
	e.operator = OpNone
	e.awaiting = false
	e.fresh = false
}

// ClearEntry resets the entry to 0 and leaves a pending operation alone.
func (e *Engine) ClearEntry() {
	e.entry = "0"
	e.err = nil
	e.fresh = false
}

// Backspace removes the last character of the entry. The error state and
// single characters become 0.
func (e *Engine) Backspace() {
	if e.err != nil {
		e.ClearEntry()
		return
	}

	if len(e.entry) > 1 {
		e.entry = e.entry[:len(e.entry)-1]
	} else {
		e.entry = "0"
	}
	if e.entry == "-" || e.entry == "" {
		e.entry = "0"
	}

	e.fresh = false
	if e.operator == OpNone {
		e.awaiting = false
	}
}

// Negate toggles the sign of the entry. Zero and the error state are left alone.
func (e *Engine) Negate() {
	if e.err != nil || e.entry == "0" {
		return
	}
	if strings.HasPrefix(e.entry, "-") {
		e.entry = e.entry[1:]
	} else {
		e.entry = "-" + e.entry
	}
}

// SetConstant puts a constant on the display.
func (e *Engine) SetConstant(c Constant) {
	e.entry = numfmt.Shortest(c.Value(e.random))
	e.resetEntryFlags()
	e.fresh = true
}

// SetValue puts x on the display as if it had been computed. Non-finite
// values put the engine into the error state.
func (e *Engine) SetValue(x float64) {
	v := Ok(x)
	if v.IsError() {
		e.fail(v.Err())
		return
	}
	e.entry = numfmt.Shortest(x)
	e.resetEntryFlags()
	e.fresh = true
}

// Recall loads a displayed result, e.g. from history. Thousands separators
// are ignored.
func (e *Engine) Recall(result string) error {
	plain := numfmt.Ungroup(strings.TrimSpace(result))
	if _, err := strconv.ParseFloat(plain, 64); err != nil {
		return errors.InvalidInput(errors.ModuleEngine, "recall", result, "formatted number")
	}
	e.entry = plain
	e.resetEntryFlags()
	e.fresh = true
	return nil
}

// Value returns the entry as an operand.
func (e *Engine) Value() Operand {
	return e.current()
}

func (e *Engine) current() Operand {
	if e.err != nil {
		return Fail(e.err)
	}
	return Ok(e.value())
}

func (e *Engine) value() float64 {
	return numfmt.ParseLenient(e.entry)
}

func (e *Engine) startsFresh() bool {
	return e.err != nil || e.awaiting || e.fresh
}

func (e *Engine) resetEntryFlags() {
	e.err = nil
	e.awaiting = false
	e.fresh = false
}

// fail enters the error state. The pending operation is dropped so the next
// digit starts a new calculation.
func (e *Engine) fail(err *mdwerror.Error) {
	e.err = err
	e.entry = "0"
	e.hasPending = false
	e.pending = 0
	e.operator = OpNone
	e.awaiting = false
	e.fresh = false
}

func (e *Engine) record(expression, result string) {
	if e.recorder != nil {
		e.recorder.Record(expression, result)
	}
}
