package service

import (
	"context"
	"reflect"
	"testing"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
)

func TestParseSolveArgs(t *testing.T) {
	tests := []struct {
		args     []string
		equation string
		coeffs   int
	}{
		{[]string{"quadratic", "1", "0", "-4"}, EquationQuadratic, 3},
		{[]string{"QUAD", "1"}, EquationQuadratic, 1},
		{[]string{"2x2", "1", "1", "3", "2", "-1", "0"}, EquationSystem, 6},
		{[]string{"lin"}, EquationLinear, 0},
	}

	for _, tt := range tests {
		req, err := ParseSolveArgs(tt.args)
		if err != nil {
			t.Fatalf("ParseSolveArgs(%v) error = %v", tt.args, err)
		}
		if req.Equation != tt.equation {
			t.Errorf("ParseSolveArgs(%v).Equation = %q, want %q", tt.args, req.Equation, tt.equation)
		}
		if len(req.Coefficients) != tt.coeffs {
			t.Errorf("ParseSolveArgs(%v) coefficients = %d, want %d", tt.args, len(req.Coefficients), tt.coeffs)
		}
	}

	if _, err := ParseSolveArgs(nil); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("ParseSolveArgs(nil) error = %v, want invalid input", err)
	}
}

func TestParseConvertArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want ConvertRequest
	}{
		{"base", []string{"base", "ff", "hex"}, ConvertRequest{Kind: ConvertBase, Value: "ff", From: "hex"}},
		{"base to", []string{"base", "255", "dec", "bin"}, ConvertRequest{Kind: ConvertBase, Value: "255", From: "dec", To: "bin"}},
		{"unit", []string{"unit", "length", "1", "km", "m"}, ConvertRequest{Kind: ConvertUnit, Category: "length", Value: "1", From: "km", To: "m"}},
		{"temp", []string{"temp", "100", "c", "f"}, ConvertRequest{Kind: ConvertTemperature, Value: "100", From: "c", To: "f"}},
		{"unknown kind", []string{"volume"}, ConvertRequest{Kind: "volume"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConvertArgs(tt.args)
			if err != nil {
				t.Fatalf("ParseConvertArgs() error = %v", err)
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("ParseConvertArgs() = %+v, want %+v", *got, tt.want)
			}
		})
	}

	for _, args := range [][]string{nil, {"base", "ff"}, {"unit", "length", "1"}, {"temp", "1", "c"}} {
		if _, err := ParseConvertArgs(args); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
			t.Errorf("ParseConvertArgs(%v) error = %v, want invalid input", args, err)
		}
	}
}

func TestResponseLines(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	conv, err := svc.Convert(ctx, &ConvertRequest{Kind: ConvertBase, Value: "ff", From: "hex"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	want := []string{"DEC: 255", "BIN: 11111111", "OCT: 377", "HEX: FF"}
	if got := conv.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %v, want %v", got, want)
	}

	conv, err = svc.Convert(ctx, &ConvertRequest{Kind: ConvertBase, Value: "255", From: "dec", To: "hex"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got := conv.Lines(); !reflect.DeepEqual(got, []string{"FF"}) {
		t.Errorf("Lines() = %v, want [FF]", got)
	}

	st, err := svc.Statistics(ctx, &StatsRequest{Input: "1 2 3 4"})
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	lines := st.Lines()
	if len(lines) != 12 {
		t.Fatalf("Lines() = %d lines, want 12", len(lines))
	}
	if lines[2] != "Mean: 2.5" {
		t.Errorf("Lines()[2] = %q, want %q", lines[2], "Mean: 2.5")
	}
}
