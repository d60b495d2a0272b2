package accumulator

import (
	"math"
	"strings"
)

// Constant is a value that can be placed on the display with one key.
type Constant int

const (
	ConstPi Constant = iota
	ConstE
	ConstPhi
	ConstSqrt2
	ConstSqrt3
	ConstLn2
	ConstLn10
	ConstLightSpeed
	ConstGravity
	ConstRandom
)

var constantNames = [...]string{
	ConstPi:         "pi",
	ConstE:          "e",
	ConstPhi:        "phi",
	ConstSqrt2:      "sqrt2",
	ConstSqrt3:      "sqrt3",
	ConstLn2:        "ln2",
	ConstLn10:       "ln10",
	ConstLightSpeed: "c",
	ConstGravity:    "g",
	ConstRandom:     "rand",
}

// Constants lists every constant.
func Constants() []Constant {
	cs := make([]Constant, len(constantNames))
	for i := range constantNames {
		cs[i] = Constant(i)
	}
	return cs
}

// Name is the stable identifier of the constant.
func (c Constant) Name() string {
	if c < 0 || int(c) >= len(constantNames) {
		return "unknown"
	}
	return constantNames[c]
}

func (c Constant) String() string {
	return c.Name()
}

// ParseConstant resolves a constant by name; "π" is accepted for pi.
func ParseConstant(s string) (Constant, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "π" {
		return ConstPi, true
	}
	for i, name := range constantNames {
		if name == key {
			return Constant(i), true
		}
	}
	return 0, false
}

// Value returns the constant. random is only consulted for ConstRandom.
func (c Constant) Value(random func() float64) float64 {
	switch c {
	case ConstPi:
		return math.Pi
	case ConstE:
		return math.E
	case ConstPhi:
		return math.Phi
	case ConstSqrt2:
		return math.Sqrt2
	case ConstSqrt3:
		return math.Sqrt(3)
	case ConstLn2:
		return math.Ln2
	case ConstLn10:
		return math.Ln10
	case ConstLightSpeed:
		return 299792458
	case ConstGravity:
		return 9.80665
	case ConstRandom:
		return random()
	}
	return 0
}
