// Package version provides build and version information for docindex.
package version

import (
	"fmt"
	"runtime"
)

// ABIVersion is the revision of the exported C interface. It changes
// whenever an export's signature or the error struct layout changes.
const ABIVersion = 1

// Version is the current version of docindex.
// Set via ldflags at build time, or defaults to dev:
// -X github.com/Aman-CERP/docindex/pkg/version.Version=$(VERSION)
var Version = "dev"

// Build information set via ldflags at build time.
var (
	// Commit is the git commit hash.
	Commit = "unknown"

	// Date is the build date in RFC3339 format.
	Date = "unknown"

	// GoVersion is the Go version used to build the binary (set at runtime).
	GoVersion = runtime.Version()
)

// BuildInfo is structured version information for JSON output.
type BuildInfo struct {
	Version    string `json:"version"`
	ABIVersion int    `json:"abi_version"`
	Commit     string `json:"commit"`
	Date       string `json:"date"`
	GoVersion  string `json:"go_version"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
}

// String returns a formatted version string with all build info.
func String() string {
	return fmt.Sprintf("docindex %s (abi: %d, commit: %s, built: %s, go: %s)",
		Version, ABIVersion, Commit, Date, GoVersion)
}

// Short returns just the version string.
func Short() string {
	return Version
}

// GetInfo returns structured version information.
func GetInfo() BuildInfo {
	return BuildInfo{
		Version:    Version,
		ABIVersion: ABIVersion,
		Commit:     Commit,
		Date:       Date,
		GoVersion:  GoVersion,
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}
