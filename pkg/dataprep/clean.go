package dataprep

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidCell is returned when a raw cell cannot be read as the kind its
// column requires.
var ErrInvalidCell = errors.New("invalid cell")

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "NA" || v == "NaN" || v == "null"
}

// ParseBool reads the boolean spellings found in content exports:
// t/f, true/false, 1/0 and yes/no, case-insensitively.
func ParseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "t", "true", "1", "yes", "y":
		return true, nil
	case "f", "false", "0", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidCell, v)
}

// ParseFlag reads a moderation flag cell. Flags are ternary or counts;
// missing means "not flagged" and booleans map to 0/1.
func ParseFlag(v string) (float64, error) {
	if IsMissing(v) {
		return 0, nil
	}
	if b, err := ParseBool(v); err == nil {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	return ParseNumber(v)
}

// ParseNumber reads a float cell. Missing values are rejected rather than
// imputed.
func ParseNumber(v string) (float64, error) {
	if IsMissing(v) {
		return 0, fmt.Errorf("%w: missing number", ErrInvalidCell)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidCell, v)
	}
	return f, nil
}
