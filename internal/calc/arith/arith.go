// Package arith holds the integer and angle primitives shared by the
// accumulator and the solvers: factorial, gcd/lcm, permutations and
// combinations, degree/radian conversion.
//
// Arguments are float64 because they come straight from the display; integer
// functions round their inputs to the nearest integer first. Failures are
// domain errors from the foundation error package.
package arith

import (
	"math"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/foundation/core/errors"
)

// MaxFactorial is the largest n whose factorial is finite in float64.
const MaxFactorial = 170

// Round rounds to the nearest integer; halves go towards +Inf.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Factorial returns n! for round(n) in [0, 170].
func Factorial(n float64) (float64, error) {
	k := Round(n)
	if math.IsNaN(k) || k < 0 || k > MaxFactorial {
		return math.NaN(), errors.OutOfRange(errors.ModuleArith, "factorial", n, 0, MaxFactorial).
			WithCode(mdwerror.CodeDomainError)
	}
	return factorial(int(k)), nil
}

func factorial(n int) float64 {
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return result
}

// GCD is Euclid's algorithm on |round(a)| and |round(b)|. GCD(a, 0) = |round(a)|.
func GCD(a, b float64) float64 {
	x, y := math.Abs(Round(a)), math.Abs(Round(b))
	for y != 0 {
		x, y = y, math.Mod(x, y)
	}
	return x
}

// LCM returns a*b / gcd(a, b) on the rounded absolute inputs. LCM(0, 0) is
// 0/0 and therefore a domain error.
func LCM(a, b float64) (float64, error) {
	x, y := math.Abs(Round(a)), math.Abs(Round(b))
	g := GCD(x, y)
	if g == 0 {
		return math.NaN(), errors.Domain(errors.ModuleArith, "lcm", "lcm(0, 0) is undefined")
	}
	return x * y / g, nil
}

// Permutation returns n! / (n-r)! for 0 <= r <= n <= 170.
func Permutation(n, r float64) (float64, error) {
	n, r = Round(n), Round(r)
	if err := checkChoose("permutation", n, r); err != nil {
		return math.NaN(), err
	}
	return factorial(int(n)) / factorial(int(n-r)), nil
}

// Combination returns n! / (r! (n-r)!) for 0 <= r <= n <= 170.
func Combination(n, r float64) (float64, error) {
	n, r = Round(n), Round(r)
	if err := checkChoose("combination", n, r); err != nil {
		return math.NaN(), err
	}
	return factorial(int(n)) / (factorial(int(r)) * factorial(int(n-r))), nil
}

func checkChoose(op string, n, r float64) error {
	switch {
	case math.IsNaN(n) || math.IsNaN(r):
		return errors.Domain(errors.ModuleArith, op, "arguments must be numbers")
	case n < 0 || r < 0:
		return errors.Domain(errors.ModuleArith, op, "arguments must not be negative").
			WithDetail("n", n).WithDetail("r", r)
	case r > n:
		return errors.Domain(errors.ModuleArith, op, "r must not exceed n").
			WithDetail("n", n).WithDetail("r", r)
	case n > MaxFactorial:
		return errors.OutOfRange(errors.ModuleArith, op, n, 0, MaxFactorial).
			WithCode(mdwerror.CodeDomainError)
	}
	return nil
}

// ToRadians converts degrees to radians.
func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// ToDegrees converts radians to degrees.
func ToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
