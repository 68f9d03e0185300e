// Package logging configures the process-wide slog logger for docindex.
//
// docindex usually runs inside a host process, so it logs quietly: warnings
// and errors to stderr by default, and structured JSON to a size-rotated
// file when one is configured. The host's stdout is never written to.
package logging
