package version

import (
	"regexp"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"Platform", Platform},
		{"Engine", Engine},
		{"Gateway", Gateway},
		{"RPC", RPC},
		{"TUI", TUI},
		{"Store", Store},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.version == "" {
				t.Errorf("%s version is empty", tt.name)
			}
			if !semverRegex.MatchString(tt.version) {
				t.Errorf("%s version %q does not match semver format (x.y.z)", tt.name, tt.version)
			}
		})
	}
}

func TestServiceVersion(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		expected string
	}{
		{"engine", "engine", Engine},
		{"gateway", "gateway", Gateway},
		{"rpc", "rpc", RPC},
		{"tui", "tui", TUI},
		{"store", "store", Store},
		{"unknown component", "unknown", Platform},
		{"empty component", "", Platform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ServiceVersion(tt.service)
			if result != tt.expected {
				t.Errorf("ServiceVersion(%q) = %q, want %q", tt.service, result, tt.expected)
			}
		})
	}
}

func TestGet(t *testing.T) {
	info := Get()

	if info.Version != Platform {
		t.Errorf("Get().Version = %q, want %q", info.Version, Platform)
	}
	if !strings.HasPrefix(info.GoVersion, "go") && info.GoVersion != "devel" {
		t.Errorf("Get().GoVersion = %q, want a go toolchain version", info.GoVersion)
	}
	if info.Commit == "" {
		t.Error("Get().Commit should default to a placeholder")
	}
}
