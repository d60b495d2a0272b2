package service

import (
	"strings"

	"github.com/msto63/rechenwerk/foundation/core/errors"
)

var equationAliases = map[string]string{
	"lin":  EquationLinear,
	"quad": EquationQuadratic,
	"cub":  EquationCubic,
	"sys":  EquationSystem,
	"2x2":  EquationSystem,
}

// ParseSolveArgs builds a SolveRequest from command-line style arguments:
// the equation name followed by its coefficients, e.g.
// "quadratic 1 0 -4".
func ParseSolveArgs(args []string) (*SolveRequest, error) {
	if len(args) == 0 {
		return nil, errors.InvalidInput(errors.ModuleService, "parse_solve", "",
			"linear, quadratic, cubic or system followed by coefficients")
	}

	equation := strings.ToLower(args[0])
	if alias, ok := equationAliases[equation]; ok {
		equation = alias
	}

	req := &SolveRequest{Equation: equation}
	for _, a := range args[1:] {
		req.Coefficients = append(req.Coefficients, Field(a))
	}
	return req, nil
}

// ParseConvertArgs builds a ConvertRequest from command-line style
// arguments:
//
//	base <value> <from> [to]
//	unit <category> <value> <from> <to>
//	temp <value> <from> <to>
func ParseConvertArgs(args []string) (*ConvertRequest, error) {
	if len(args) == 0 {
		return nil, convertUsage("")
	}

	kind := strings.ToLower(args[0])
	rest := args[1:]
	switch kind {
	case ConvertBase:
		if len(rest) < 2 || len(rest) > 3 {
			return nil, convertUsage(kind)
		}
		req := &ConvertRequest{Kind: kind, Value: Field(rest[0]), From: rest[1]}
		if len(rest) == 3 {
			req.To = rest[2]
		}
		return req, nil
	case ConvertUnit:
		if len(rest) != 4 {
			return nil, convertUsage(kind)
		}
		return &ConvertRequest{Kind: kind, Category: rest[0], Value: Field(rest[1]), From: rest[2], To: rest[3]}, nil
	case "temp", ConvertTemperature:
		if len(rest) != 3 {
			return nil, convertUsage(ConvertTemperature)
		}
		return &ConvertRequest{Kind: ConvertTemperature, Value: Field(rest[0]), From: rest[1], To: rest[2]}, nil
	}
	return &ConvertRequest{Kind: kind}, nil
}

func convertUsage(kind string) error {
	expected := map[string]string{
		"":                 "base, unit or temp",
		ConvertBase:        "base <value> <from> [to]",
		ConvertUnit:        "unit <category> <value> <from> <to>",
		ConvertTemperature: "temp <value> <from> <to>",
	}[kind]
	return errors.InvalidInput(errors.ModuleService, "parse_convert", kind, expected)
}

// Lines renders the summary as "label: value" lines.
func (r *StatsResponse) Lines() []string {
	lines := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		lines = append(lines, f.Label+": "+f.Value)
	}
	return lines
}

// Lines renders the conversion result. Base conversions without a target
// base list all four bases.
func (r *ConvertResponse) Lines() []string {
	if r.Bases == nil || r.Result != r.Bases.Decimal {
		return []string{r.Result}
	}
	return []string{
		"DEC: " + r.Bases.Decimal,
		"BIN: " + r.Bases.Binary,
		"OCT: " + r.Bases.Octal,
		"HEX: " + r.Bases.Hex,
	}
}
