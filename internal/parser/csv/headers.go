package csv

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// headerNames names every column: blank cells become "Unnamed: <i>" and
// repeated names get ".1", ".2", ... suffixes (or "_1" when normalizing).
func headerNames(raw []string, normalize bool) []string {
	names := make([]string, len(raw))
	for i, h := range raw {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if normalize {
			h = NormalizeFieldName(h)
		}
		names[i] = h
	}
	sep := "."
	if normalize {
		sep = "_"
	}
	return dedupe(names, sep)
}

// dedupe renames later duplicates to name<sep>N, skipping N values that would
// collide with a name already present.
func dedupe(names []string, sep string) []string {
	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[n] = true
	}
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		c, dup := seen[n]
		if !dup {
			seen[n] = 0
			out[i] = n
			continue
		}
		var cand string
		for {
			c++
			cand = fmt.Sprintf("%s%s%d", n, sep, c)
			if !taken[cand] {
				break
			}
		}
		seen[n] = c
		taken[cand] = true
		out[i] = cand
	}
	return out
}

// NormalizeFieldName converts a header to lower-case ASCII snake_case,
// stripping accents. "Province/State" becomes "province_state" and
// "Last Update" becomes "last_update".
func NormalizeFieldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Decompose, remove nonspacing marks (accents), recompose.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.' || r == '/' || r == ':':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "col"
	}
	return name
}
