package errors

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// MaxComponentName bounds component names accepted from config and requests.
const MaxComponentName = 64

// componentNameRegex matches the component identifiers the editor emits.
var componentNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]*$`)

// ValidateComponentName checks an anchor or breakout component name.
func ValidateComponentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidComponent, "component name cannot be empty")
	}
	if len(name) > MaxComponentName {
		return New(ErrCodeInvalidComponent, "component name too long (max %d characters)", MaxComponentName)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidComponent, "component name contains control characters")
		}
	}
	if !componentNameRegex.MatchString(name) {
		return New(ErrCodeInvalidComponent, "invalid component name: %q", name)
	}
	return nil
}

// ValidateComponentNames validates each name and rejects duplicates.
func ValidateComponentNames(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if err := ValidateComponentName(n); err != nil {
			return err
		}
		if _, dup := seen[n]; dup {
			return New(ErrCodeInvalidComponent, "duplicate component name: %q", n)
		}
		seen[n] = struct{}{}
	}
	return nil
}

// ValidateFormat checks that format is one of allowed (case-sensitive).
func ValidateFormat(format string, allowed ...string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// MaxColumns bounds the number of layout columns.
const MaxColumns = 12

// ValidateColumns checks layout weights: at least one, at most MaxColumns,
// each finite and positive.
func ValidateColumns(columns []float64) error {
	if len(columns) == 0 {
		return New(ErrCodeInvalidColumns, "at least one column weight is required")
	}
	if len(columns) > MaxColumns {
		return New(ErrCodeInvalidColumns, "too many columns (max %d)", MaxColumns)
	}
	for i, w := range columns {
		if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
			return New(ErrCodeInvalidColumns, "column %d: weight must be a positive number, got %v", i, w)
		}
	}
	return nil
}
