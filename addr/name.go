package addr

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	encodedWord     = regexp.MustCompile(`=\?.*?\?=`)
	numericName     = regexp.MustCompile(`^[\d ]+$`)
	embeddedComment = regexp.MustCompile(`\(.*?\)`)
	dottedLocal     = regexp.MustCompile(`([^%.@_]+(?:[._][^%.@_]+)+)[@%]`)
	x400Given       = regexp.MustCompile(`(?i)/g=([^/]+)`)
	x400Surname     = regexp.MustCompile(`(?i)/s=([^/]+)`)
	wordSep         = regexp.MustCompile(`[._]+`)
	scotsMc         = regexp.MustCompile(`\bMc(\w)`)
	irishO          = regexp.MustCompile(`(?i)\bo'(\w)`)
	romanNumeral    = regexp.MustCompile(`(?i)\b(x*(ix)?v*(iv)?i*)\b`)
)

// Name works out a display name for the address. The phrase is preferred,
// then the comment, and either is cleaned of quoting, comments, and
// escapes before light case normalization. When neither yields anything,
// the address specification itself is mined: a first.last style local part
// becomes "First Last", and X.400 addresses give up their /g= and /s=
// attributes. The result is empty when no name can be found.
func (a *Address) Name() string {
	src := a.phrase
	if src == "" {
		src = a.comment
	}
	name := extractName(src)

	if name == "" {
		if m := dottedLocal.FindStringSubmatch(a.address); m != nil {
			name = titleWords(wordSep.ReplaceAllString(m[1], " "))
		}
	}

	if name == "" {
		g := x400Given.FindStringSubmatch(a.address)
		s := x400Surname.FindStringSubmatch(a.address)
		if g != nil || s != nil {
			var parts []string
			if g != nil {
				parts = append(parts, g[1])
			}
			if s != nil {
				parts = append(parts, s[1])
			}
			name = extractName(strings.Join(parts, " "))
		}
	}

	return name
}

// extractName digs the human name out of a phrase or comment. It strips
// one layer of wrapping parentheses or quotes, drops embedded comments and
// backslash escapes, turns "Last, First" around, and normalizes casing
// when the input does not already mix upper and lower case.
func extractName(s string) string {
	// encoded words are out of scope here; let the address fallbacks
	// have a try instead
	if encodedWord.MatchString(s) {
		return ""
	}

	s = strings.Join(strings.Fields(s), " ")
	if s == "" || numericName.MatchString(s) {
		return ""
	}

	s = stripOuter(s, '(', ')')
	s = stripOuter(s, '"', '"')
	s = embeddedComment.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, `\`, "")
	s = stripOuter(s, '"', '"')

	// "Last, First" becomes "First Last"
	if ix := strings.IndexByte(s, ','); ix >= 0 {
		s = strings.TrimSpace(s[ix+1:]) + " " + strings.TrimSpace(s[:ix])
	}
	s = strings.TrimSpace(s)

	if !mixedCase(s) {
		s = titleWords(s)
	}
	return s
}

// stripOuter removes a matched pair of delimiters wrapping the whole
// string, one layer only.
func stripOuter(s string, left, right byte) string {
	if len(s) >= 2 && s[0] == left && s[len(s)-1] == right {
		return s[1 : len(s)-1]
	}
	return s
}

// mixedCase reports whether s already mixes upper and lower case letters.
// Such names are assumed intentional and left alone.
func mixedCase(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0 &&
		strings.IndexFunc(s, unicode.IsLower) >= 0
}

// titleWords applies name casing word by word, then fixes up the cases the
// simple rule gets wrong: Scots Mc prefixes, Irish O' prefixes, and roman
// numerals.
func titleWords(s string) string {
	s = cases.Title(language.English).String(strings.ToLower(s))
	s = scotsMc.ReplaceAllStringFunc(s, func(m string) string {
		return m[:2] + strings.ToUpper(m[2:])
	})
	s = irishO.ReplaceAllStringFunc(s, func(m string) string {
		return "O'" + strings.ToUpper(m[len(m)-1:])
	})
	s = romanNumeral.ReplaceAllStringFunc(s, strings.ToUpper)
	return s
}
