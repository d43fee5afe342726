// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orcid validates ORCID iDs and lists the DOIs of a researcher's
// works through the ORCID public API.
package orcid

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidFormat reports an input that is not shaped like an ORCID iD.
var ErrInvalidFormat = errors.New("invalid ORCID iD format")

// ID is a validated ORCID iD such as "0000-0002-1825-0097".
type ID string

func (id ID) String() string { return string(id) }

// idPattern matches four hyphen-separated groups of four characters: digits,
// except that the final character may be the check letter X.
var idPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// Validate returns raw as an ID when it matches the ORCID iD shape.
// Surrounding whitespace is not trimmed; no network access is made.
func Validate(raw string) (ID, error) {
	if !idPattern.MatchString(raw) {
		return "", fmt.Errorf("%w: %q (expected NNNN-NNNN-NNNN-NNNX)", ErrInvalidFormat, raw)
	}
	return ID(raw), nil
}

// ValidChecksum reports whether the final character of id is the ISO 7064
// MOD 11-2 check character of the preceding fifteen digits.
func ValidChecksum(id ID) bool {
	s := string(id)
	if !idPattern.MatchString(s) {
		return false
	}
	total := 0
	for _, r := range s[:len(s)-1] {
		if r == '-' {
			continue
		}
		total = (total + int(r-'0')) * 2
	}
	check := (12 - total%11) % 11
	want := byte('0' + check)
	if check == 10 {
		want = 'X'
	}
	return s[len(s)-1] == want
}
