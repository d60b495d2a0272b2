// ============================================================================
// meinRECHENWERK (mRW) - Rechner-Engine
// ============================================================================
//
// Package:     version
// Description: Central version management for all components
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import "runtime"

// Version constants for all mRW components
const (
	// Platform version
	Platform = "1.0.0"

	// Component versions
	Engine  = "1.0.0"
	Gateway = "1.0.0"
	RPC     = "1.0.0"
	TUI     = "1.0.0"
	Store   = "1.0.0"
)

// Set at build time via -ldflags "-X ...version.Commit=..."
var (
	Commit    = "dev"
	BuildDate = "unknown"
)

// ServiceVersion returns the version for a given component name
func ServiceVersion(name string) string {
	switch name {
	case "engine":
		return Engine
	case "gateway":
		return Gateway
	case "rpc":
		return RPC
	case "tui":
		return TUI
	case "store":
		return Store
	default:
		return Platform
	}
}

// Info describes the running binary
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information
func Get() Info {
	return Info{
		Version:   Platform,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}
