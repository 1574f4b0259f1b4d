package header

import (
	"regexp"
	"strings"
)

// DefaultFoldLength is the target line length used when folding a header
// line and nothing more specific has been configured.
const DefaultFoldLength = 79

// minFoldLength is the floor for fold lengths. Folding to anything
// shorter produces nonsense, so shorter requests are clamped up to this.
const minFoldLength = 20

// structuredTags names the fields whose bodies are lists or otherwise
// internally structured, where a fold looks best at a comma or semicolon.
// Everything else is folded at convenient whitespace instead.
var structuredTags = map[string]struct{}{
	"to":                  {},
	"cc":                  {},
	"bcc":                 {},
	"from":                {},
	"date":                {},
	"reply-to":            {},
	"sender":              {},
	"resent-date":         {},
	"resent-from":         {},
	"resent-sender":       {},
	"resent-to":           {},
	"return-path":         {},
	"list-help":           {},
	"list-post":           {},
	"list-unsubscribe":    {},
	"mailing-list":        {},
	"received":            {},
	"references":          {},
	"message-id":          {},
	"in-reply-to":         {},
	"content-length":      {},
	"content-type":        {},
	"content-disposition": {},
	"delivered-to":        {},
	"lines":               {},
	"mime-version":        {},
	"precedence":          {},
	"status":              {},
}

var (
	unfoldBreak  = regexp.MustCompile(`\r?\n\s+`)
	spaceNewline = regexp.MustCompile(`[ \t]+\n`)
)

// Unfold collapses a folded header line back into a single physical line.
// Each line break, together with the whitespace that follows it, becomes
// one space. The original run of continuation whitespace is not
// recoverable; software has disagreed for decades about whether it should
// be, and one space is the answer settled on here.
func Unfold(line string) string {
	return unfoldBreak.ReplaceAllString(line, " ")
}

// Fold wraps a single long header line across multiple physical lines,
// each continuation starting with one space. The line should be a
// complete "Tag: body" line; any folding already present is undone first.
//
// Structured fields, To and Received and their kin, are folded by peeling
// off the longest leading run that ends at a comma or semicolon near the
// target length, falling back to whitespace, and never breaking inside a
// quoted string. Other fields fold at whatever whitespace lands near the
// target length. Lines carrying the mbox "From " envelope marker are
// never folded. A line with no acceptable break point is left long; a
// fold must never split a word or a quoted string.
func Fold(line string, maxLen int) string {
	line = Unfold(line)

	if maxLen < minFoldLength {
		maxLen = minFoldLength
	}
	if len(line) <= maxLen {
		return line
	}
	if strings.HasPrefix(line, MailFromTag) {
		return line
	}

	// the folding window: prefer a break in (min, max], accept worse
	max := maxLen - 5
	min := maxLen*4/5 - 4

	var folded string
	if isStructured(lineTag(line)) {
		folded = foldStructured(line, min, max)
	} else {
		folded = foldPlain(line, min, max)
	}

	folded = spaceNewline.ReplaceAllString(folded, "\n")
	folded = strings.Trim(folded, " \t")
	return folded
}

// lineTag returns the field name portion of a physical line, or empty
// when there is no colon to mark one.
func lineTag(line string) string {
	if ix := strings.IndexByte(line, ':'); ix >= 0 {
		return strings.TrimRight(line[:ix], " \t")
	}
	return ""
}

func isStructured(tag string) bool {
	_, ok := structuredTags[strings.ToLower(tag)]
	return ok
}

func isFoldSpace(c byte) bool { return c == ' ' || c == '\t' }

// foldStructured peels chunks from the front of the line until what is
// left fits, joining the chunks with a newline and a single space of
// indent.
func foldStructured(line string, min, max int) string {
	var out []string
	rest := line
	for len(rest) > max {
		n := structuredChunk(rest, min, max)
		if n < 0 {
			break
		}
		out = append(out, strings.TrimRight(rest[:n], " \t"))
		rest = strings.TrimLeft(rest[n:], " \t")
	}
	out = append(out, rest)
	return strings.Join(out, "\n ")
}

// structuredChunk picks how much of the line the next chunk takes. The
// choices, in order of preference: the longest run of at most max
// unquoted characters ending at a comma or semicolon past the min mark;
// the longest such run ending at a comma, semicolon, or space anywhere;
// and a quote-respecting run out to the first whitespace, however long
// that is. A negative return means no acceptable break exists.
func structuredChunk(s string, min, max int) int {
	firstQuote := strings.IndexByte(s, '"')
	unquotedTo := func(n int) bool { return firstQuote < 0 || firstQuote >= n }

	hi := max
	if hi > len(s)-1 {
		hi = len(s) - 1
	}

	for k := hi; k >= min; k-- {
		if (s[k] == ',' || s[k] == ';') && unquotedTo(k) {
			return k + 1
		}
	}

	for k := hi; k >= 1; k-- {
		if (s[k] == ',' || s[k] == ';' || isFoldSpace(s[k])) && unquotedTo(k) {
			return k + 1
		}
	}

	i := 0
	for i < len(s) {
		switch {
		case s[i] == '"':
			j := strings.IndexByte(s[i+1:], '"')
			if j < 0 {
				return -1
			}
			i += j + 2
		case isFoldSpace(s[i]):
			return i
		default:
			i++
		}
	}
	return -1
}

// foldPlain breaks a free-text line at whitespace, preferring a break
// inside the window, then short of it, then past it. The whitespace at
// the break becomes the continuation indent.
func foldPlain(line string, min, max int) string {
	var out []string
	rest := line
	for len(rest) > max {
		k := plainBreak(rest, min, max)
		if k < 0 {
			break
		}
		out = append(out, strings.TrimRight(rest[:k], " \t"))
		rest = rest[k:]
	}
	out = append(out, rest)
	return strings.Join(out, "\n")
}

func plainBreak(s string, min, max int) int {
	hi := max
	if hi > len(s)-1 {
		hi = len(s) - 1
	}

	for k := min; k <= hi; k++ {
		if isFoldSpace(s[k]) {
			return k
		}
	}
	for k := min - 1; k > 0; k-- {
		if isFoldSpace(s[k]) {
			return k
		}
	}
	for k := hi + 1; k < len(s); k++ {
		if isFoldSpace(s[k]) {
			return k
		}
	}
	return -1
}
