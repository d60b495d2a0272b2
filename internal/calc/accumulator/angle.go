package accumulator

import "strings"

// AngleMode selects the unit trigonometric functions work in.
type AngleMode int

const (
	Radians AngleMode = iota
	Degrees
)

func (m AngleMode) String() string {
	if m == Degrees {
		return "DEG"
	}
	return "RAD"
}

// Toggle returns the other mode.
func (m AngleMode) Toggle() AngleMode {
	if m == Degrees {
		return Radians
	}
	return Degrees
}

// ParseAngleMode accepts rad/radians and deg/degrees in any case.
func ParseAngleMode(s string) (AngleMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rad", "radian", "radians":
		return Radians, true
	case "deg", "degree", "degrees":
		return Degrees, true
	}
	return Radians, false
}

// AngleSource supplies the current angle mode. It is owned by the caller.
type AngleSource interface {
	AngleMode() AngleMode
}

// FixedAngle is an AngleSource that never changes.
type FixedAngle AngleMode

// AngleMode implements AngleSource.
func (f FixedAngle) AngleMode() AngleMode {
	return AngleMode(f)
}
