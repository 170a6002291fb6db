package validator

import (
	"math"
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string

	// Code optionally carries a machine-readable error code surfaced to
	// clients that need to distinguish failures beyond the field name.
	Code string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// FirstCode returns the first machine-readable code in the list, if any.
func (v ValidationErrors) FirstCode() string {
	for _, err := range v {
		if err.Code != "" {
			return err.Code
		}
	}
	return ""
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// UUIDv7 regex: version 7 (the 15th character must be '7'), all lowercase hex digits.
var uuidv7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UUIDv7 validation
func IsValidUUID(uuid string) bool {
	return uuidv7Regex.MatchString(strings.ToLower(uuid))
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsQuarterHours reports whether hours is an exact multiple of 0.25.
// Quarter-hour values are exactly representable in binary, so the
// comparison is safe without an epsilon.
func IsQuarterHours(hours float64) bool {
	scaled := hours * 4
	return scaled == math.Trunc(scaled)
}

// IsValidEntryHours reports whether hours is inside the (0, 24] range
// accepted for a single entry.
func IsValidEntryHours(hours float64) bool {
	return hours > 0 && hours <= 24
}

// IsFutureDate reports whether date falls after today (UTC calendar date).
func IsFutureDate(date time.Time) bool {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return date.UTC().Truncate(24 * time.Hour).After(today)
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
