package convert

import (
	"slices"
	"strings"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/foundation/core/errors"
)

// Category names.
const (
	CategoryLength      = "length"
	CategoryMass        = "mass"
	CategoryArea        = "area"
	CategoryVolume      = "volume"
	CategoryTime        = "time"
	CategoryTemperature = "temperature"
)

// Factors are relative to the base unit of each category (m, kg, m², m³, s).
var factorTables = map[string]map[string]float64{
	CategoryLength: {
		"m": 1, "km": 1000, "cm": 0.01, "mm": 0.001,
		"mi": 1609.344, "yd": 0.9144, "ft": 0.3048, "in": 0.0254,
	},
	CategoryMass: {
		"kg": 1, "g": 0.001, "mg": 0.000001,
		"lb": 0.453592, "oz": 0.0283495, "t": 1000,
	},
	CategoryArea: {
		"m2": 1, "km2": 1000000, "cm2": 0.0001, "ha": 10000,
		"ac": 4046.86, "ft2": 0.092903, "mi2": 2590000,
	},
	CategoryVolume: {
		"m3": 1, "l": 0.001, "ml": 0.000001, "cm3": 0.000001,
		"gal": 0.003785411784, "qt": 0.000946352946, "ft3": 0.028316846592,
	},
	CategoryTime: {
		"s": 1, "ms": 0.001, "min": 60, "h": 3600,
		"d": 86400, "wk": 604800, "yr": 31557600,
	},
}

var temperatureUnits = []string{"c", "f", "k"}

// Categories lists every conversion category, temperature last.
func Categories() []string {
	return []string{CategoryLength, CategoryMass, CategoryArea, CategoryVolume, CategoryTime, CategoryTemperature}
}

// Units returns the sorted unit names of category, or nil if the category
// is unknown.
func Units(category string) []string {
	category = normalize(category)
	if category == CategoryTemperature {
		return slices.Clone(temperatureUnits)
	}
	table, ok := factorTables[category]
	if !ok {
		return nil
	}
	units := make([]string, 0, len(table))
	for u := range table {
		units = append(units, u)
	}
	slices.Sort(units)
	return units
}

// Unit converts value between two units of a factor-table category by way
// of the category's base unit.
func Unit(category string, value float64, from, to string) (float64, error) {
	category = normalize(category)
	table, ok := factorTables[category]
	if !ok {
		return 0, unknownCategory(category)
	}
	f, ok := table[normalize(from)]
	if !ok {
		return 0, errors.UnknownUnit(category, from)
	}
	t, ok := table[normalize(to)]
	if !ok {
		return 0, errors.UnknownUnit(category, to)
	}
	return value * f / t, nil
}

// Temperature converts between Celsius ("c"), Fahrenheit ("f") and
// Kelvin ("k") by way of Celsius.
func Temperature(value float64, from, to string) (float64, error) {
	var celsius float64
	switch normalize(from) {
	case "c":
		celsius = value
	case "f":
		celsius = (value - 32) * 5 / 9
	case "k":
		celsius = value - 273.15
	default:
		return 0, errors.UnknownUnit(CategoryTemperature, from)
	}

	switch normalize(to) {
	case "c":
		return celsius, nil
	case "f":
		return celsius*9/5 + 32, nil
	case "k":
		return celsius + 273.15, nil
	default:
		return 0, errors.UnknownUnit(CategoryTemperature, to)
	}
}

// Convert dispatches to Temperature or Unit depending on category.
func Convert(category string, value float64, from, to string) (float64, error) {
	if normalize(category) == CategoryTemperature {
		return Temperature(value, from, to)
	}
	return Unit(category, value, from, to)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "°")
	return strings.NewReplacer("²", "2", "³", "3").Replace(s)
}

func unknownCategory(category string) *mdwerror.Error {
	return errors.NewErrorBuilder(errors.ModuleConvert).
		Operation("unit").
		Messagef("unknown unit category %q", category).
		Code(mdwerror.CodeUnknownUnit).
		Detail("category", category).
		Build()
}
