// Package geo parses free-text locations like "Karachi, Pakistan" and does
// whole-word containment checks against job location strings.
package geo

import "strings"

// Place is a lowercased, comma-split location. City is the first segment and
// Country the last; they are equal when only one segment is present.
type Place struct {
	Parts   []string
	City    string
	Country string
}

// Parse splits s on commas and keeps trimmed, lowercased segments longer than
// one character. ok is false when nothing usable remains.
func Parse(s string) (p Place, ok bool) {
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if len(part) > 1 {
			p.Parts = append(p.Parts, part)
		}
	}
	if len(p.Parts) == 0 {
		return Place{}, false
	}
	p.City = p.Parts[0]
	p.Country = p.Parts[len(p.Parts)-1]
	return p, true
}

// delims are the bytes that may bound a location segment.
const delims = " \t\n\f\r,;/|()-"

// Contains reports whether needle appears in haystack as a whole segment,
// bounded by start/end or a location delimiter, ignoring case. Needles
// shorter than three bytes never match, which keeps "in" from hitting
// "engineering".
func Contains(haystack, needle string) bool {
	if len(needle) < 3 {
		return false
	}
	h, n := strings.ToLower(haystack), strings.ToLower(needle)
	for from := 0; from < len(h); {
		i := strings.Index(h[from:], n)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(n)
		if (start == 0 || isDelim(h[start-1])) && (end == len(h) || isDelim(h[end])) {
			return true
		}
		from = start + 1
	}
	return false
}

func isDelim(b byte) bool { return strings.IndexByte(delims, b) >= 0 }
