// Package validation provides input validation and rate limiting for the
// telemetry subscription surface.
package validation

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"
)

// Limits for telemetry subscribers.
const (
	MaxClientNameLen     = 32
	MaxConnectionsPerMin = 30
	RateWindow           = time.Minute
)

// Client names are plain identifiers: alphanumerics, hyphen, underscore.
var validClientNameChars = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)

// ValidateClientName validates a telemetry subscriber name and returns it
// unchanged when acceptable.
func ValidateClientName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("client name cannot be empty")
	}
	if len(name) > MaxClientNameLen {
		return "", fmt.Errorf("client name too long: %d characters (max %d)", len(name), MaxClientNameLen)
	}
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("client name contains invalid UTF-8")
	}
	if !validClientNameChars.MatchString(name) {
		return "", fmt.Errorf("client name contains invalid characters")
	}
	return name, nil
}
