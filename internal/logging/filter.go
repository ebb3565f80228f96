// Package logging provides logging utilities including sensitive data filtering.
// This package contains hooks and utilities for zerolog that help ensure
// key material is never written to log files.
package logging

import (
	"io"
	"regexp"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

// sensitivePatterns contains compiled regular expressions for detecting key material.
// Order matters: whole PEM blocks are replaced before the bare header pattern runs.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Package-level patterns for reuse
	// Complete PEM private key blocks, including JSON-escaped newlines.
	regexp.MustCompile(`(?s)-----BEGIN [A-Z ]*PRIVATE KEY-----.*?-----END [A-Z ]*PRIVATE KEY-----`),

	// A PEM private key header on its own (truncated output).
	regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`),

	// Private members of a JSON key document.
	regexp.MustCompile(`"(d|p|q|dp|dq|qi)"\s*:\s*"[A-Za-z0-9_=-]{16,}"`),

	// Private members of a YAML key document.
	regexp.MustCompile(`(?m)^\s*(d|p|q|dp|dq|qi):\s*[A-Za-z0-9_=-]{16,}\s*$`),

	// Hex-encoded secrets and seeds.
	regexp.MustCompile(`(?i)(secret|seed|private[_-]?key)\s*[:=]\s*["']?[0-9a-f]{64,}["']?`),

	// Generic secret patterns.
	regexp.MustCompile(`(?i)(password|passphrase|passwd)\s*[:=]\s*["']?[^\s"']{8,}["']?`),
}

// SensitiveDataHook is a zerolog hook that flags log entries whose message
// looks like it carries key material.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a new SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements the zerolog.Hook interface.
// Zerolog does not let a hook rewrite the message, so the hook only marks the
// event; the FilteringWriter does the actual redaction.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData checks if a string contains any sensitive data patterns.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every match of a sensitive pattern with [REDACTED].
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// FilteringWriter wraps an io.Writer and filters sensitive data from output.
// This is used to wrap log file writers to ensure key material is never
// written to disk, even if it appears in log messages or field values.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a new FilteringWriter that wraps the given writer.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer, filtering sensitive data before writing.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	_, err = fw.w.Write([]byte(filtered))
	if err != nil {
		return 0, err
	}
	// Return original length so callers don't think there was a short write
	return len(p), nil
}
