package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateSupport checks that a relative support lies in [0, 1].
func ValidateSupport(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidOption, "min_support must be in [0, 1], got %v", v)
	}
	return nil
}

// ValidateMaxItems checks an itemset length cap. -1 and 0 mean unbounded.
func ValidateMaxItems(n int) error {
	if n < -1 {
		return New(ErrCodeInvalidOption, "max_items must be -1 (unbounded) or non-negative, got %d", n)
	}
	return nil
}

// ValidateRetries checks the attempt budget of the adaptive loop.
func ValidateRetries(n int) error {
	if n < 2 {
		return New(ErrCodeInvalidOption, "max_number_of_retries must be at least 2, got %d", n)
	}
	return nil
}

// ValidatePattern compiles a must-contain pattern.
// An empty pattern returns nil without error.
func ValidatePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, Wrap(ErrCodeInvalidPattern, err, "invalid must_contain pattern %q", pattern)
	}
	return re, nil
}

// ValidatePath checks a file path given on the command line or in a config.
// It rejects empty paths and paths containing NUL bytes.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidPath, "path %q contains a NUL byte", path)
	}
	return nil
}

// ValidateColumnName checks a dataset column name.
//
// Validation rules:
//   - Name cannot be empty or only whitespace
//   - Maximum length of 256 characters
//   - No control characters
func ValidateColumnName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidDataset, "column name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidDataset, "column name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "column name %q contains control characters", name)
		}
	}
	return nil
}

// ValidateDelimiter parses a field delimiter. It must be a single character
// that is neither a quote nor a line break.
func ValidateDelimiter(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, New(ErrCodeInvalidOption, "delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, New(ErrCodeInvalidOption, "invalid delimiter %q", s)
	}
	return r, nil
}

// ValidateReportID checks that id is a UUID as issued for run reports.
// It prevents ids from being used for path traversal in file-backed stores.
func ValidateReportID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "report id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return New(ErrCodeInvalidInput, "invalid report id %q", id)
	}
	return nil
}
