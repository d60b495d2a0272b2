package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"strings"
	"testing"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/internal/service"
	"github.com/msto63/rechenwerk/pkg/core/config"
	"github.com/msto63/rechenwerk/pkg/core/health"
)

// run executes the command tree in-process. Package flag variables keep
// their values between runs, so they are reset first.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MRW_CONFIG", "")
	t.Setenv("HOME", t.TempDir())

	cfgFile, verbose, dbPath, jsonOut = "", false, "", false
	historyLimit = 0
	formatMode, formatDigits, formatGroup = service.FormatDisplay, 6, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEvalCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"eval", "12", "+", "3", "="}, "15\n"},
		{[]string{"eval", "12 +"}, "12 + 12\n"},
		{[]string{"eval", "2", "^", "20", "="}, "1,048,576\n"},
		{[]string{"eval", "9", "sqrt"}, "3\n"},
	}

	for _, tt := range tests {
		got, err := run(t, "", append(tt.args, "--db", "")...)
		if err != nil {
			t.Fatalf("%v: error = %v", tt.args, err)
		}
		if got != tt.want {
			t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
		}
	}

	got, err := run(t, "", "eval", "1 / 0 =", "--db", "")
	if !mdwerror.HasCode(err, mdwerror.CodeDomainError) {
		t.Errorf("eval 1 / 0 = error = %v, want domain error", err)
	}
	if got != "Error\n" {
		t.Errorf("eval 1 / 0 = %q, want %q", got, "Error\n")
	}

	if _, err := run(t, "", "eval", "bogus", "--db", ""); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("eval bogus error = %v, want invalid input", err)
	}
}

func TestSolveCommand(t *testing.T) {
	got, err := run(t, "", "solve", "quadratic", "1", "0", "-4", "--db", "")
	if err != nil {
		t.Fatalf("solve error = %v", err)
	}
	if want := "x₁ = 2\nx₂ = -2\nΔ = 16\n"; got != want {
		t.Errorf("solve = %q, want %q", got, want)
	}

	got, err = run(t, "", "solve", "system", "1", "1", "3", "2", "-1", "0", "--json", "--db", "")
	if err != nil {
		t.Fatalf("solve --json error = %v", err)
	}
	var resp service.SolveResponse
	if err := json.Unmarshal([]byte(got), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.Kind != "unique" || resp.X == nil || *resp.X != 1 || *resp.Y != 2 {
		t.Errorf("solve system = %+v, want x=1 y=2", resp)
	}

	if _, err := run(t, "", "solve", "quartic", "1", "--db", ""); !mdwerror.HasCode(err, mdwerror.CodeUnknownOperation) {
		t.Errorf("solve quartic error = %v, want unknown operation", err)
	}
}

func TestStatsCommand(t *testing.T) {
	fromArgs, err := run(t, "", "stats", "1", "2", "3", "4", "--db", "")
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	fromStdin, err := run(t, "1, 2\n3 4\n", "stats", "--db", "")
	if err != nil {
		t.Fatalf("stats stdin error = %v", err)
	}
	if fromArgs != fromStdin {
		t.Errorf("stats from stdin = %q, want %q", fromStdin, fromArgs)
	}
	if !strings.Contains(fromArgs, "Mean: 2.5\n") {
		t.Errorf("stats = %q, want Mean: 2.5", fromArgs)
	}
}

func TestConvertAndFormatCommands(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"convert", "base", "255", "dec", "hex"}, "FF\n"},
		{[]string{"convert", "base", "ff", "hex"}, "DEC: 255\nBIN: 11111111\nOCT: 377\nHEX: FF\n"},
		{[]string{"convert", "unit", "length", "1", "km", "m"}, "1000\n"},
		{[]string{"convert", "temp", "100", "c", "f"}, "212\n"},
		{[]string{"convert", "units", "temperature"}, "temperature  c f k\n"},
		{[]string{"format", "1e13"}, "1.000000e+13\n"},
		{[]string{"format", "1234567", "--group"}, "1,234,567\n"},
		{[]string{"format", "3.14159", "--mode", "precision", "--digits", "3"}, "3.14\n"},
	}

	for _, tt := range tests {
		got, err := run(t, "", append(tt.args, "--db", "")...)
		if err != nil {
			t.Fatalf("%v: error = %v", tt.args, err)
		}
		if got != tt.want {
			t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
		}
	}

	if _, err := run(t, "", "convert", "unit", "length", "1", "km", "parsec", "--db", ""); !mdwerror.HasCode(err, mdwerror.CodeUnknownUnit) {
		t.Errorf("convert parsec error = %v, want unknown unit", err)
	}
}

func TestHistoryCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "mrw.db")

	if _, err := run(t, "", "eval", "1000 * 3 =", "--db", db); err != nil {
		t.Fatalf("eval error = %v", err)
	}
	if _, err := run(t, "", "eval", "2 + 2 =", "--db", db); err != nil {
		t.Fatalf("eval error = %v", err)
	}

	got, err := run(t, "", "history", "list", "--db", db, "--limit", "1")
	if err != nil {
		t.Fatalf("history list error = %v", err)
	}
	if !strings.HasSuffix(got, "2 + 2 = 4\n") || strings.Count(got, "\n") != 1 {
		t.Errorf("history list = %q, want only the newest entry", got)
	}

	got, err = run(t, "", "history", "list", "--db", db, "--json")
	if err != nil {
		t.Fatalf("history list --json error = %v", err)
	}
	var entries []map[string]interface{}
	if err := json.Unmarshal([]byte(got), &entries); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(entries) != 2 || entries[1]["expression"] != "1000 × 3" {
		t.Errorf("history list --json = %v", entries)
	}

	got, err = run(t, "", "history", "clear", "--db", db)
	if err != nil {
		t.Fatalf("history clear error = %v", err)
	}
	if got != "2 Einträge gelöscht\n" {
		t.Errorf("history clear = %q", got)
	}

	got, _ = run(t, "", "history", "list", "--db", db)
	if got != "Verlauf ist leer\n" {
		t.Errorf("history list after clear = %q", got)
	}
}

func TestVersionCommand(t *testing.T) {
	got, err := run(t, "", "version", "--db", "")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(got, "meinRECHENWERK v") {
		t.Errorf("version = %q", got)
	}
}

func TestHistoryDefaultsToList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "mrw.db")

	if _, err := run(t, "", "eval", "6 * 7 =", "--db", db); err != nil {
		t.Fatalf("eval error = %v", err)
	}
	got, err := run(t, "", "history", "-n", "1", "--db", db)
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.HasSuffix(got, "6 × 7 = 42\n") {
		t.Errorf("history = %q, want the newest entry", got)
	}
}

func TestRegisterGRPCCheck(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	cfg := config.Default()
	cfg.Server.GRPCPort = lis.Addr().(*net.TCPAddr).Port

	registry := health.NewRegistry("mrw", "test")
	registerGRPCCheck(registry, cfg)

	if got := registry.Check(context.Background()).Status; got != health.StatusHealthy {
		t.Errorf("Check() with listener = %v, want healthy", got)
	}

	lis.Close()
	if got := registry.Check(context.Background()).Status; got != health.StatusUnhealthy {
		t.Errorf("Check() without listener = %v, want unhealthy", got)
	}
}
