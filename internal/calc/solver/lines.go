package solver

import (
	"github.com/msto63/rechenwerk/internal/calc/numfmt"
)

// Lines renders the result as the calculator shows it, one line per root
// plus the discriminant where it is informative.
func (r Result) Lines() []string {
	switch r.Kind {
	case Infinite:
		return []string{"Infinite solutions (0 = 0)"}
	case None:
		return []string{"No solution (contradiction)"}
	case NotCubic:
		return []string{"Not a cubic equation (a = 0)"}
	case Unique:
		return []string{"x = " + FormatRoot(r.root(0))}
	case TwoReal:
		return []string{
			"x₁ = " + FormatRoot(r.root(0)),
			"x₂ = " + FormatRoot(r.root(1)),
			"Δ = " + numfmt.Format(r.Discriminant),
		}
	case DoubleRoot:
		return []string{
			"x = " + FormatRoot(r.root(0)) + " (double root)",
			"Δ = 0",
		}
	case ComplexPair:
		return []string{
			"x₁ = " + FormatRoot(r.root(0)),
			"x₂ = " + FormatRoot(r.root(1)),
			"Δ = " + numfmt.Format(r.Discriminant) + " (complex roots)",
		}
	case OneRealTwoComplex:
		return []string{
			"x₁ = " + FormatRoot(r.root(0)),
			"x₂ = " + FormatRoot(r.root(1)),
			"x₃ = " + FormatRoot(r.root(2)),
		}
	case SimpleAndDouble:
		return []string{
			"x₁ = " + FormatRoot(r.root(0)),
			"x₂ = x₃ = " + FormatRoot(r.root(1)) + " (double root)",
		}
	case TripleRoot:
		return []string{"x₁ = x₂ = x₃ = " + FormatRoot(r.root(0)) + " (triple root)"}
	case ThreeReal:
		return []string{
			"x₁ = " + FormatRoot(r.root(0)),
			"x₂ = " + FormatRoot(r.root(1)),
			"x₃ = " + FormatRoot(r.root(2)),
		}
	default:
		return nil
	}
}

func (r Result) root(i int) complex128 {
	if i < len(r.Roots) {
		return r.Roots[i]
	}
	return 0
}

// Lines renders a system result.
func (s SystemResult) Lines() []string {
	switch s.Kind {
	case Unique:
		return []string{"x = " + numfmt.Format(s.X), "y = " + numfmt.Format(s.Y)}
	case Infinite:
		return []string{"Infinite solutions (dependent equations)"}
	default:
		return []string{"No solution (parallel lines)"}
	}
}
