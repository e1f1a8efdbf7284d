// Package address implements address normalization, street-number extraction,
// and the quality signals the confidence classifier consumes.
package address

import (
	"regexp"
	"strings"
)

// Precompiled normalization patterns, applied in order.
var (
	// Apartment, floor, staircase and internal-unit qualifiers that the
	// postal service ignores and geocoders choke on.
	// A bare "p" needs its dot, or short street names ("Via Po 3") get eaten.
	unitFragmentRe = regexp.MustCompile(`(?i)\b(?:int(?:erno)?\.?|sc(?:ala)?\.?|piano|p\.)\s*[A-Za-z0-9]{1,4}\b`)

	// Punctuation that carries no comparison value once units are stripped.
	punctRe = regexp.MustCompile(`[;,]+`)

	whitespaceRe = regexp.MustCompile(`\s+`)

	// Trailing two-letter province code, e.g. "VIA ROMA 12 (MI)".
	provinceRe = regexp.MustCompile(`\(([A-Za-z]{2})\)\s*$`)

	// The reserved "small street, no civic number" marker.
	noNumberRe = regexp.MustCompile(`(?i)\bs\.?\s*n\.?\s*c\.?\b`)
)

// Normalize canonicalizes a raw declared address into a comparable form:
// unit qualifiers stripped, punctuation dropped, whitespace collapsed,
// upper-cased. The original string is preserved by the caller for display.
// An absent or empty input yields an empty string, which downstream
// components treat as "no usable address".
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = provinceRe.ReplaceAllString(s, " ")
	s = unitFragmentRe.ReplaceAllString(s, " ")
	s = punctRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")

	return strings.ToUpper(strings.TrimSpace(s))
}

// MarkedNoNumber reports whether the declared address carries the reserved
// SNC marker ("senza numero civico"). The marker short-circuits number
// extraction: the owner genuinely has no civic number.
func MarkedNoNumber(s string) bool {
	return noNumberRe.MatchString(s)
}

// DeclaredProvince extracts a trailing two-letter province code from the
// declared address, if one is present. Returns the empty string when the
// declared province is unavailable; the classifier must not penalize that.
func DeclaredProvince(raw string) string {
	m := provinceRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}
