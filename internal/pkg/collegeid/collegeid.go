// Package collegeid implements the external-facing college identifier format.
// A college with database ID 1 is presented as "CIDA001".
package collegeid

import (
	"strconv"
	"strings"

	"github.com/edustack/portal/internal/pkg/apperrors"
)

const prefix = "CIDA"

// Format renders a college ID in its display form, e.g. 1 -> "CIDA001".
func Format(id int64) string {
	return prefix + padded(id)
}

func padded(id int64) string {
	s := strconv.FormatInt(id, 10)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

// Parse accepts either the prefixed form ("CIDA001") or a bare integer
// string ("1") and returns the numeric ID. Anything else is rejected with
// ErrInvalidCollegeIDFormat rather than silently defaulted.
func Parse(input string) (int64, error) {
	clean := strings.ToUpper(strings.TrimSpace(input))
	if clean == "" {
		return 0, apperrors.ErrInvalidCollegeIDFormat
	}

	clean = strings.TrimPrefix(clean, prefix)

	id, err := strconv.ParseInt(clean, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrInvalidCollegeIDFormat
	}
	return id, nil
}
