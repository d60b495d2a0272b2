// Package solver implements the closed-form equation solvers: linear,
// quadratic and cubic equations in one unknown and 2×2 linear systems.
//
// Every solver returns a classified result rather than an error. Degenerate
// equations (a leading coefficient of zero, a singular system) are reported
// through the Kind so that callers can render "infinite" or "no solution"
// without special error handling.
package solver

import (
	"math"

	"github.com/msto63/rechenwerk/internal/calc/numfmt"
)

// DependentTolerance decides whether the right-hand sides of a singular
// system describe the same line.
const DependentTolerance = 1e-10

// Kind classifies a solver result.
type Kind int

const (
	// Unique is a single real solution (linear equations and systems).
	Unique Kind = iota
	// Infinite means every value solves the equation.
	Infinite
	// None means the equation is contradictory.
	None
	// TwoReal is a quadratic with two distinct real roots.
	TwoReal
	// DoubleRoot is a quadratic with one repeated real root.
	DoubleRoot
	// ComplexPair is a quadratic with two conjugate complex roots.
	ComplexPair
	// NotCubic is returned for a cubic whose leading coefficient is zero.
	NotCubic
	// OneRealTwoComplex is a cubic with one real root and a conjugate pair.
	OneRealTwoComplex
	// SimpleAndDouble is a cubic with a simple and a double real root.
	SimpleAndDouble
	// TripleRoot is a cubic with one real root of multiplicity three.
	TripleRoot
	// ThreeReal is a cubic with three distinct real roots.
	ThreeReal
)

var kindNames = [...]string{
	Unique:            "unique",
	Infinite:          "infinite",
	None:              "none",
	TwoReal:           "two_real",
	DoubleRoot:        "double_root",
	ComplexPair:       "complex_pair",
	NotCubic:          "not_cubic",
	OneRealTwoComplex: "one_real_two_complex",
	SimpleAndDouble:   "simple_and_double",
	TripleRoot:        "triple_root",
	ThreeReal:         "three_real",
}

// String returns the snake_case name used on the wire.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Solvable reports whether the result carries roots.
func (k Kind) Solvable() bool {
	switch k {
	case Infinite, None, NotCubic:
		return false
	default:
		return true
	}
}

// Result is the outcome of a single-variable solver.
type Result struct {
	Kind  Kind
	Roots []complex128

	// Discriminant is b²-4ac for quadratics and q²/4+p³/27 of the depressed
	// form for cubics.
	Discriminant    float64
	HasDiscriminant bool
}

// RealRoots returns the real parts of the roots whose imaginary part is zero.
func (r Result) RealRoots() []float64 {
	var out []float64
	for _, z := range r.Roots {
		if imag(z) == 0 {
			out = append(out, real(z))
		}
	}
	return out
}

// SystemResult is the outcome of SolveSystem2x2. X and Y are only meaningful
// for Kind == Unique.
type SystemResult struct {
	Kind Kind
	X, Y float64
}

// SolveLinear solves a·x + b = 0.
func SolveLinear(a, b float64) Result {
	if a == 0 {
		if b == 0 {
			return Result{Kind: Infinite}
		}
		return Result{Kind: None}
	}
	return Result{Kind: Unique, Roots: []complex128{complex(-b/a, 0)}}
}

// SolveQuadratic solves a·x² + b·x + c = 0. With a == 0 it falls back to the
// linear equation b·x + c = 0.
func SolveQuadratic(a, b, c float64) Result {
	if a == 0 {
		return SolveLinear(b, c)
	}

	d := b*b - 4*a*c
	res := Result{Discriminant: d, HasDiscriminant: true}

	switch {
	case d > 0:
		sq := math.Sqrt(d)
		res.Kind = TwoReal
		res.Roots = []complex128{
			complex((-b+sq)/(2*a), 0),
			complex((-b-sq)/(2*a), 0),
		}
	case d == 0:
		res.Kind = DoubleRoot
		res.Roots = []complex128{complex(-b/(2*a), 0)}
	default:
		re := -b / (2 * a)
		im := math.Abs(math.Sqrt(-d) / (2 * a))
		res.Kind = ComplexPair
		res.Roots = []complex128{complex(re, im), complex(re, -im)}
	}
	return res
}

// SolveCubic solves a·x³ + b·x² + c·x + d = 0 with Cardano's method on the
// depressed cubic t³ + p·t + q.
func SolveCubic(a, b, c, d float64) Result {
	if a == 0 {
		return Result{Kind: NotCubic}
	}
	b, c, d = b/a, c/a, d/a

	p := (3*c - b*b) / 3
	q := (2*b*b*b - 9*b*c + 27*d) / 27
	disc := q*q/4 + p*p*p/27
	shift := b / 3

	res := Result{Discriminant: disc, HasDiscriminant: true}

	switch {
	case disc > 0:
		sq := math.Sqrt(disc)
		u := math.Cbrt(-q/2 + sq)
		v := math.Cbrt(-q/2 - sq)
		re := -(u+v)/2 - shift
		im := math.Abs(math.Sqrt(3) * (u - v) / 2)
		res.Kind = OneRealTwoComplex
		res.Roots = []complex128{
			complex(u+v-shift, 0),
			complex(re, im),
			complex(re, -im),
		}
	case disc == 0:
		if p == 0 && q == 0 {
			res.Kind = TripleRoot
			res.Roots = []complex128{complex(-shift, 0)}
			break
		}
		u := math.Cbrt(-q / 2)
		res.Kind = SimpleAndDouble
		res.Roots = []complex128{
			complex(2*u-shift, 0),
			complex(-u-shift, 0),
		}
	default:
		r := math.Sqrt(-p * p * p / 27)
		phi := math.Acos(clamp(-q/(2*r), -1, 1))
		t := 2 * math.Cbrt(r)
		res.Kind = ThreeReal
		res.Roots = make([]complex128, 3)
		for k := range res.Roots {
			res.Roots[k] = complex(t*math.Cos((phi+2*math.Pi*float64(k))/3)-shift, 0)
		}
	}
	return res
}

// SolveSystem2x2 solves
//
//	a1·x + b1·y = c1
//	a2·x + b2·y = c2
//
// by Cramer's rule. A singular system is Infinite when both equations
// describe the same line and None when the lines are parallel.
func SolveSystem2x2(a1, b1, c1, a2, b2, c2 float64) SystemResult {
	det := a1*b2 - a2*b1
	if det == 0 {
		if math.Abs(ratio(a1, b1, c1)-ratio(a2, b2, c2)) < DependentTolerance {
			return SystemResult{Kind: Infinite}
		}
		return SystemResult{Kind: None}
	}
	return SystemResult{
		Kind: Unique,
		X:    (c1*b2 - c2*b1) / det,
		Y:    (a1*c2 - a2*c1) / det,
	}
}

// ratio scales the right-hand side by the first non-zero coefficient.
func ratio(a, b, c float64) float64 {
	switch {
	case a != 0:
		return c / a
	case b != 0:
		return c / b
	default:
		return 0
	}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Coefficients parses coefficient fields leniently; anything that is not a
// number counts as 0.
func Coefficients(fields ...string) []float64 {
	out := make([]float64, len(fields))
	for i, f := range fields {
		out[i] = numfmt.ParseLenient(f)
	}
	return out
}

// FormatRoot renders z as "re + imi" with the display formatter, or as a
// plain number when z is real.
func FormatRoot(z complex128) string {
	re, im := real(z), imag(z)
	if im == 0 {
		return numfmt.Format(re)
	}
	sign := "+"
	if im < 0 {
		sign = "-"
	}
	return numfmt.Format(re) + " " + sign + " " + numfmt.Format(math.Abs(im)) + "i"
}
