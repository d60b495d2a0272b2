package errors

import (
	"errors"
	"testing"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *mdwerror.Error
		wantCode mdwerror.Code
		wantOp   string
		module   string
	}{
		{"domain", Domain(ModuleArith, "factorial", "factorial is defined for 0..170"), mdwerror.CodeDomainError, "arith.factorial", ModuleArith},
		{"division", DivisionByZero(ModuleEngine, "divide"), mdwerror.CodeDivisionByZero, "accumulator.divide", ModuleEngine},
		{"input", InvalidInput(ModuleConvert, "base", "xyz", "number"), mdwerror.CodeInvalidInput, "convert.base", ModuleConvert},
		{"range", OutOfRange(ModuleArith, "permutation", 5, 0, 3), mdwerror.CodeValueOutOfRange, "arith.permutation", ModuleArith},
		{"unit", UnknownUnit("length", "parsec"), mdwerror.CodeUnknownUnit, "convert.unit", ModuleConvert},
		{"not found", NotFound(ModuleHistory, "get", "abc"), mdwerror.CodeNotFound, "history.get", ModuleHistory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code() != tt.wantCode {
				t.Errorf("Code() = %v, want %v", tt.err.Code(), tt.wantCode)
			}
			if tt.err.Operation() != tt.wantOp {
				t.Errorf("Operation() = %q, want %q", tt.err.Operation(), tt.wantOp)
			}
			if !IsModuleError(tt.err, tt.module) {
				t.Errorf("IsModuleError(%q) = false", tt.module)
			}
			if tt.err.Severity() != mdwerror.SeverityLow {
				t.Errorf("Severity() = %v, want low", tt.err.Severity())
			}
		})
	}
}

func TestStoreFailure(t *testing.T) {
	cause := errors.New("database is locked")
	err := StoreFailure("append", cause)

	if !errors.Is(err, cause) {
		t.Error("StoreFailure() should wrap its cause")
	}
	if err.Code() != mdwerror.CodeDatabaseError {
		t.Errorf("Code() = %v, want DATABASE_ERROR", err.Code())
	}
	if err.Severity() != mdwerror.SeverityHigh {
		t.Errorf("Severity() = %v, want high", err.Severity())
	}
}

func TestBuilderDefaults(t *testing.T) {
	err := NewErrorBuilder(ModuleGateway).Operation("serve").Build()
	if err.Error() != "gateway.serve failed" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Code() != mdwerror.CodeInternal {
		t.Errorf("Code() = %v, want INTERNAL", err.Code())
	}

	custom := NewErrorBuilder(ModuleRPC).Severity(mdwerror.SeverityCritical).Code(mdwerror.CodeDomainError).Build()
	if custom.Severity() != mdwerror.SeverityCritical {
		t.Errorf("Severity() = %v, want critical", custom.Severity())
	}
	if ExtractModule(errors.New("plain")) != "" {
		t.Error("ExtractModule() on plain error should be empty")
	}
}
