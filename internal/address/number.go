package address

import (
	"regexp"
	"strconv"
	"strings"
)

// StreetNumber is a parsed civic number: a numeric base plus an optional
// letter suffix ("32/A" -> base 32, suffix "A").
type StreetNumber struct {
	Suffix string
	Base   int
	Found  bool
}

// Extraction patterns, in priority order. Both are anchored so that digits
// embedded in a street's proper name ("VIA 4 NOVEMBRE") are never mistaken
// for a civic number; a first-digit scan is deliberately not used here.
var (
	// Explicit civic marker: "N. 12", "N° 12/A", "NR 7", "NUMERO 3", "CIVICO 9".
	markerNumberRe = regexp.MustCompile(`(?i)\b(?:n|nr|num|numero|civico)[.°º]?\s*(\d{1,4})\s*(?:[/\-]\s*)?([A-Za-z])?\b`)

	// Number token at the very end of the string: "VIA ROMA 32", "VIA ROMA 32/A",
	// "VIA ROMA 32A". The leading \b keeps a longer digit run (a postal code)
	// from matching on its tail.
	trailingNumberRe = regexp.MustCompile(`\b(\d{1,4})\s*[/\-]?\s*([A-Za-z])?\s*$`)
)

// ExtractNumber parses the civic number out of a normalized address.
// A string carrying the reserved no-number marker deterministically yields
// Found=false, independent of pattern matching. No match is not an error.
func ExtractNumber(normalized string) StreetNumber {
	if normalized == "" || MarkedNoNumber(normalized) {
		return StreetNumber{}
	}

	if m := markerNumberRe.FindStringSubmatch(normalized); m != nil {
		return numberFromMatch(m[1], m[2])
	}

	if m := trailingNumberRe.FindStringSubmatch(normalized); m != nil {
		return numberFromMatch(m[1], m[2])
	}

	return StreetNumber{}
}

// ParseGeocoded builds a StreetNumber from the structured fields of a
// geocode result. The number field may itself carry a suffix ("12/A").
func ParseGeocoded(number, suffix string) StreetNumber {
	number = strings.TrimSpace(number)
	if number == "" {
		return StreetNumber{}
	}

	base := number
	if i := strings.IndexFunc(number, func(r rune) bool { return r < '0' || r > '9' }); i > 0 {
		if suffix == "" {
			suffix = number[i:]
		}
		base = number[:i]
	}

	n, err := strconv.Atoi(base)
	if err != nil {
		return StreetNumber{}
	}

	return StreetNumber{Base: n, Suffix: NormalizeSuffix(suffix), Found: true}
}

// NormalizeSuffix strips separator characters and case from a civic-number
// suffix so that "/A", "-a" and "A" compare equal.
func NormalizeSuffix(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "/-. ")
	return strings.ToUpper(s)
}

func numberFromMatch(base, suffix string) StreetNumber {
	n, err := strconv.Atoi(base)
	if err != nil {
		return StreetNumber{}
	}
	return StreetNumber{Base: n, Suffix: NormalizeSuffix(suffix), Found: true}
}
