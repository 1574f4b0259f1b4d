package header

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// acronyms are tag segments always written in full caps, even though they
// contain vowels and so fail the consonant test below.
var acronyms = map[string]struct{}{
	"MIME": {},
	"SWE":  {},
	"SOAP": {},
	"LDAP": {},
	"ID":   {},
}

// CanonicalTag returns the canonical display casing of a field name. The
// name is split on hyphens and each segment is capitalized on its own:
// whole segments go to upper case when they are all consonants, the way
// the X of X-Mailer is, or when they appear in a short table of known
// acronyms; everything else gets a leading capital with the rest
// lowered. A trailing colon is dropped. The function is idempotent, so
// canonical input comes back unchanged.
func CanonicalTag(tag string) string {
	tag = strings.TrimSuffix(tag, ":")
	parts := strings.Split(tag, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		up := strings.ToUpper(part)
		if _, ok := acronyms[up]; ok || consonantRun(part) {
			parts[i] = up
			continue
		}
		low := strings.ToLower(part)
		r, n := utf8.DecodeRuneInString(low)
		parts[i] = string(unicode.ToUpper(r)) + low[n:]
	}
	return strings.Join(parts, "-")
}

// consonantRun reports whether the segment is entirely ASCII consonants.
// The letter y counts as a consonant here.
func consonantRun(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		if c < 'a' || c > 'z' {
			return false
		}
		switch c {
		case 'a', 'e', 'i', 'o', 'u':
			return false
		}
	}
	return true
}
