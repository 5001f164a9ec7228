package domain

import (
	"strings"

	"golang.org/x/text/width"
)

const PostalCodeLen = 7

var postalSeparators = strings.NewReplacer("〒", "", "-", "", "‐", "", "−", "", "ー", "", " ", "", "　", "", "\t", "")

// NormalizePostalCode folds full-width characters and strips the postal mark,
// hyphens and spaces. Empty input becomes nil. Input that still is not seven
// digits is returned as typed (trimmed) so validation can report it.
func NormalizePostalCode(v *string) *string {
	if v == nil {
		return nil
	}
	raw := strings.TrimSpace(*v)
	if raw == "" {
		return nil
	}
	s := postalSeparators.Replace(width.Fold.String(raw))
	if s == "" {
		return nil
	}
	if IsPostalCode(s) {
		return &s
	}
	return &raw
}

// IsPostalCode reports whether s is exactly seven ASCII digits.
func IsPostalCode(s string) bool {
	if len(s) != PostalCodeLen {
		return false
	}
	return isDigits(s)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
