// ============================================================================
// meinRECHENWERK (mRW) - Rechner-Engine
// ============================================================================
//
// Package:     service
// Description: Request/response facade over the calculator engines, shared
//              by the HTTP gateway, the gRPC server and the CLI
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/foundation/core/errors"
	"github.com/msto63/rechenwerk/internal/calc/accumulator"
	"github.com/msto63/rechenwerk/internal/calc/convert"
	"github.com/msto63/rechenwerk/internal/calc/history"
	"github.com/msto63/rechenwerk/internal/calc/numfmt"
	"github.com/msto63/rechenwerk/internal/calc/session"
	"github.com/msto63/rechenwerk/internal/calc/solver"
	"github.com/msto63/rechenwerk/internal/calc/stats"
	"github.com/msto63/rechenwerk/pkg/core/logging"
)

// Equation names accepted by Solve.
const (
	EquationLinear    = "linear"
	EquationQuadratic = "quadratic"
	EquationCubic     = "cubic"
	EquationSystem    = "system"
)

// Conversion kinds accepted by Convert.
const (
	ConvertBase        = "base"
	ConvertUnit        = "unit"
	ConvertTemperature = "temperature"
)

// Format modes accepted by Format.
const (
	FormatDisplay     = "display"
	FormatShortest    = "shortest"
	FormatExponential = "exponential"
	FormatPrecision   = "precision"
)

var coefficientCount = map[string]int{
	EquationLinear:    2,
	EquationQuadratic: 3,
	EquationCubic:     4,
	EquationSystem:    6,
}

// Field is a numeric input field. It decodes from a JSON number or string and
// is parsed leniently: text that is not a number counts as 0.
type Field string

// UnmarshalJSON accepts numbers, strings and null.
func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Field(s)
	default:
		*f = Field(b)
	}
	return nil
}

// Float returns the lenient numeric value.
func (f Field) Float() float64 {
	return numfmt.ParseLenient(string(f))
}

// SolveRequest asks for the solution of one equation. Coefficients are in
// the order a, b, c, d for single equations and a1, b1, c1, a2, b2, c2 for
// systems. Missing trailing coefficients count as 0.
type SolveRequest struct {
	Equation     string  `json:"equation"`
	Coefficients []Field `json:"coefficients"`
}

// Root is one solution of a single-variable equation.
type Root struct {
	Real float64 `json:"real"`
	Imag float64 `json:"imag"`
	Text string  `json:"text"`
}

// SolveResponse is the classified solution.
type SolveResponse struct {
	Equation     string   `json:"equation"`
	Kind         string   `json:"kind"`
	Roots        []Root   `json:"roots,omitempty"`
	Discriminant *float64 `json:"discriminant,omitempty"`
	X            *float64 `json:"x,omitempty"`
	Y            *float64 `json:"y,omitempty"`
	Lines        []string `json:"lines"`
}

// StatsRequest carries a series either as free text or as a list.
type StatsRequest struct {
	Input  string  `json:"input,omitempty"`
	Values []Field `json:"values,omitempty"`
}

// StatsResponse is a statistics summary in display order.
type StatsResponse struct {
	Count  int           `json:"count"`
	Values []float64     `json:"values"`
	Fields []stats.Field `json:"fields"`
}

// ConvertRequest describes a base, unit or temperature conversion. For base
// conversions Value is read as text in base From; To optionally selects the
// target base.
type ConvertRequest struct {
	Kind     string `json:"kind"`
	Category string `json:"category,omitempty"`
	Value    Field  `json:"value"`
	From     string `json:"from"`
	To       string `json:"to,omitempty"`
}

// ConvertResponse holds the converted value.
type ConvertResponse struct {
	Kind   string           `json:"kind"`
	Result string           `json:"result"`
	Value  *float64         `json:"value,omitempty"`
	Bases  *convert.BaseSet `json:"bases,omitempty"`
}

// FormatRequest renders a number.
type FormatRequest struct {
	Value  Field  `json:"value"`
	Mode   string `json:"mode,omitempty"`
	Digits int    `json:"digits,omitempty"`
	Group  bool   `json:"group,omitempty"`
}

// FormatResponse is the rendered number.
type FormatResponse struct {
	Text string `json:"text"`
}

// EvaluateRequest replays key presses on a fresh calculator, e.g.
// "12 + 3 =" or "op:sin fn:sqrt".
type EvaluateRequest struct {
	Keys      string `json:"keys"`
	AngleMode string `json:"angle_mode,omitempty"`
}

// EvaluateResponse is the final display and the calculations performed.
type EvaluateResponse struct {
	Snapshot session.Snapshot `json:"snapshot"`
	History  []history.Entry  `json:"history"`
}

// Config holds service configuration
type Config struct {
	AngleMode      accumulator.AngleMode
	MaxInputLength int
	Grouping       bool
}

// DefaultConfig returns the defaults used by the calculator front-ends.
func DefaultConfig() Config {
	return Config{
		AngleMode:      accumulator.Radians,
		MaxInputLength: accumulator.DefaultMaxInputLength,
		Grouping:       true,
	}
}

// Service evaluates stateless calculator requests.
type Service struct {
	config Config
	logger *logging.Logger
}

// New creates a calculator service.
func New(cfg Config) *Service {
	return &Service{
		config: cfg,
		logger: logging.New("calc-service"),
	}
}

// Solve solves a linear, quadratic or cubic equation or a 2×2 system.
func (s *Service) Solve(ctx context.Context, req *SolveRequest) (*SolveResponse, error) {
	equation := strings.ToLower(strings.TrimSpace(req.Equation))
	want, ok := coefficientCount[equation]
	if !ok {
		return nil, errors.NewErrorBuilder(errors.ModuleService).
			Operation("solve").
			Messagef("unknown equation %q", req.Equation).
			Code(mdwerror.CodeUnknownOperation).
			Detail("equation", req.Equation).
			Build()
	}
	if len(req.Coefficients) > want {
		return nil, errors.InvalidInput(errors.ModuleService, "solve", len(req.Coefficients),
			"at most "+numfmt.Shortest(float64(want))+" coefficients")
	}

	fields := make([]string, want)
	for i, c := range req.Coefficients {
		fields[i] = string(c)
	}
	k := solver.Coefficients(fields...)

	resp := &SolveResponse{Equation: equation}
	if equation == EquationSystem {
		res := solver.SolveSystem2x2(k[0], k[1], k[2], k[3], k[4], k[5])
		resp.Kind = res.Kind.String()
		resp.Lines = res.Lines()
		if res.Kind == solver.Unique {
			if err := finite("solve", res.X, res.Y); err != nil {
				return nil, err
			}
			resp.X, resp.Y = &res.X, &res.Y
		}
		return resp, nil
	}

	var res solver.Result
	switch equation {
	case EquationLinear:
		res = solver.SolveLinear(k[0], k[1])
	case EquationQuadratic:
		res = solver.SolveQuadratic(k[0], k[1], k[2])
	case EquationCubic:
		res = solver.SolveCubic(k[0], k[1], k[2], k[3])
	}

	resp.Kind = res.Kind.String()
	resp.Lines = res.Lines()
	for _, z := range res.Roots {
		if err := finite("solve", real(z), imag(z)); err != nil {
			return nil, err
		}
		resp.Roots = append(resp.Roots, Root{Real: real(z), Imag: imag(z), Text: solver.FormatRoot(z)})
	}
	if res.HasDiscriminant {
		if err := finite("solve", res.Discriminant); err != nil {
			return nil, err
		}
		d := res.Discriminant
		resp.Discriminant = &d
	}
	s.logger.Debug("solved", "equation", equation, "kind", resp.Kind)
	return resp, nil
}

// Statistics summarises a series. Tokens that are not finite numbers are
// skipped. Summary values that overflow render as the error text.
func (s *Service) Statistics(ctx context.Context, req *StatsRequest) (*StatsResponse, error) {
	var parsed []float64
	if len(req.Values) > 0 {
		for _, f := range req.Values {
			if v, ok := numfmt.ParsePrefix(string(f)); ok {
				parsed = append(parsed, v)
			}
		}
	} else {
		parsed = stats.ParseSeries(req.Input)
	}
	values := make([]float64, 0, len(parsed))
	for _, v := range parsed {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			values = append(values, v)
		}
	}

	summary := stats.Compute(values)
	return &StatsResponse{
		Count:  summary.N,
		Values: values,
		Fields: summary.Fields(),
	}, nil
}

// Convert performs a base, unit or temperature conversion.
func (s *Service) Convert(ctx context.Context, req *ConvertRequest) (*ConvertResponse, error) {
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	switch kind {
	case ConvertBase:
		return s.convertBase(req)
	case ConvertTemperature:
		v, err := convert.Temperature(req.Value.Float(), req.From, req.To)
		if err != nil {
			return nil, err
		}
		if err := finite("convert", v); err != nil {
			return nil, err
		}
		return &ConvertResponse{Kind: kind, Result: numfmt.Format(v), Value: &v}, nil
	case ConvertUnit:
		v, err := convert.Convert(req.Category, req.Value.Float(), req.From, req.To)
		if err != nil {
			return nil, err
		}
		if err := finite("convert", v); err != nil {
			return nil, err
		}
		return &ConvertResponse{Kind: kind, Result: numfmt.Format(v), Value: &v}, nil
	}
	return nil, errors.NewErrorBuilder(errors.ModuleService).
		Operation("convert").
		Messagef("unknown conversion %q", req.Kind).
		Code(mdwerror.CodeUnknownOperation).
		Detail("kind", req.Kind).
		Build()
}

func (s *Service) convertBase(req *ConvertRequest) (*ConvertResponse, error) {
	from, err := convert.ParseBase(req.From)
	if err != nil {
		return nil, err
	}
	set, err := convert.Bases(string(req.Value), from)
	if err != nil {
		return nil, err
	}

	resp := &ConvertResponse{Kind: ConvertBase, Result: set.Decimal, Bases: &set}
	if req.To != "" {
		to, err := convert.ParseBase(req.To)
		if err != nil {
			return nil, err
		}
		switch to {
		case convert.Binary:
			resp.Result = set.Binary
		case convert.Octal:
			resp.Result = set.Octal
		case convert.Hex:
			resp.Result = set.Hex
		}
	}
	return resp, nil
}

// Format renders a number with the display formatter or one of the
// fixed-width modes.
func (s *Service) Format(ctx context.Context, req *FormatRequest) (*FormatResponse, error) {
	x := req.Value.Float()

	var text string
	switch strings.ToLower(req.Mode) {
	case "", FormatDisplay:
		text = numfmt.Format(x)
	case FormatShortest:
		text = numfmt.Shortest(x)
	case FormatExponential:
		if req.Digits < 0 || req.Digits > 100 {
			return nil, errors.OutOfRange(errors.ModuleService, "format", req.Digits, 0, 100)
		}
		text = numfmt.Exponential(x, req.Digits)
	case FormatPrecision:
		if req.Digits < 1 || req.Digits > 100 {
			return nil, errors.OutOfRange(errors.ModuleService, "format", req.Digits, 1, 100)
		}
		text = numfmt.Precision(x, req.Digits)
	default:
		return nil, errors.InvalidInput(errors.ModuleService, "format", req.Mode,
			"display, shortest, exponential or precision")
	}

	if req.Group {
		text = numfmt.Group(text)
	}
	return &FormatResponse{Text: text}, nil
}

// Evaluate presses the keys on a fresh session and returns its final state.
func (s *Service) Evaluate(ctx context.Context, req *EvaluateRequest) (*EvaluateResponse, error) {
	keys, err := session.ParseKeys(req.Keys)
	if err != nil {
		return nil, err
	}

	mode := s.config.AngleMode
	if req.AngleMode != "" {
		m, ok := accumulator.ParseAngleMode(req.AngleMode)
		if !ok {
			return nil, errors.InvalidInput(errors.ModuleService, "evaluate", req.AngleMode, "rad or deg")
		}
		mode = m
	}

	log := history.New(history.DefaultCapacity)
	sess := session.New(ctx,
		session.WithHistory(log),
		session.WithAngleMode(mode),
		session.WithMaxInputLength(s.config.MaxInputLength),
		session.WithGrouping(s.config.Grouping),
	)

	return &EvaluateResponse{
		Snapshot: sess.PressAll(keys),
		History:  log.Entries(),
	}, nil
}

// finite rejects results that have no JSON or display representation.
func finite(operation string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Domain(errors.ModuleService, operation, "result is not a finite number")
		}
	}
	return nil
}
