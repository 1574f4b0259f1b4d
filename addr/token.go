package addr

import (
	"fmt"
	"strings"
)

// specials are the characters that cannot appear inside an atom. A special
// that is not consumed as part of a comment, quoted string, or domain
// literal stands as a token of its own.
const specials = "()<>@,;:\\\".[]"

// tokenKind classifies the lexical units cut from an address list.
type tokenKind int

const (
	atomToken tokenKind = iota
	quotedToken
	literalToken
	commentToken
	specialToken
)

// token is one lexical unit of an address list. Quoted strings and domain
// literals keep their delimiters in text. Comments do not; their outer
// parentheses are dropped when the token is cut.
type token struct {
	kind tokenKind
	text string
}

// ParseError is returned when an address list cannot be tokenized. The
// parse stops at the first such problem, so no partial results come back
// with it.
type ParseError struct {
	Text   string // the remaining input at the point of failure
	Offset int    // byte offset of the failure in the original input
	Reason string // a short phrase naming the problem
}

// Error returns a message locating the problem in the input.
func (err *ParseError) Error() string {
	return fmt.Sprintf("address parse error at offset %d: %s", err.Offset, err.Reason)
}

// isSpace reports whether c separates tokens. Line breaks count because
// callers sometimes hand us field bodies that are still folded.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isSpecial(c byte) bool { return strings.IndexByte(specials, c) >= 0 }

// tokenize cuts an address list into tokens. At each position, after
// discarding whitespace, the longest match wins among a parenthesized
// comment, a quoted string, a domain literal, and a run of atom
// characters. Any special matching none of those stands alone. A synthetic
// trailing comma is appended so the parser always sees a separator at the
// end of input.
func tokenize(s string) ([]token, error) {
	toks := make([]token, 0, 16)
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case isSpace(c):
			i++
		case c == '(':
			text, next, err := scanComment(s, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{commentToken, text})
			i = next
		case c == '"':
			if end, ok := scanDelimited(s, i+1, '"'); ok {
				toks = append(toks, token{quotedToken, s[i : end+1]})
				i = end + 1
			} else {
				// an unterminated quote is just a stray special
				toks = append(toks, token{specialToken, s[i : i+1]})
				i++
			}
		case c == '[':
			if end, ok := scanDelimited(s, i+1, ']'); ok {
				toks = append(toks, token{literalToken, s[i : end+1]})
				i = end + 1
			} else {
				toks = append(toks, token{specialToken, s[i : i+1]})
				i++
			}
		case isSpecial(c):
			toks = append(toks, token{specialToken, s[i : i+1]})
			i++
		default:
			j := i + 1
			for j < len(s) && !isSpace(s[j]) && !isSpecial(s[j]) {
				j++
			}
			toks = append(toks, token{atomToken, s[i:j]})
			i = j
		}
	}
	return append(toks, token{specialToken, ","}), nil
}

// scanComment consumes the parenthesized comment opening at s[start].
// Parentheses nest and a backslash escapes the character after it. The
// returned text has the outermost parentheses and surrounding whitespace
// removed. Running out of input before the parentheses balance is fatal.
func scanComment(s string, start int) (string, int, error) {
	var buf strings.Builder
	depth := 1
	i := start + 1
	for i < len(s) {
		switch s[i] {
		case '\\':
			buf.WriteByte(s[i])
			if i+1 < len(s) {
				buf.WriteByte(s[i+1])
				i += 2
			} else {
				i++
			}
		case '(':
			depth++
			buf.WriteByte('(')
			i++
		case ')':
			depth--
			if depth == 0 {
				return strings.TrimSpace(buf.String()), i + 1, nil
			}
			buf.WriteByte(')')
			i++
		default:
			buf.WriteByte(s[i])
			i++
		}
	}
	return "", start, &ParseError{
		Text:   s[start:],
		Offset: start,
		Reason: "unmatched parentheses",
	}
}

// scanDelimited finds the closing delimiter of a quoted string or domain
// literal whose opening delimiter sits just before s[i]. Backslash escapes
// are honored. The second return is false when the input ends first.
func scanDelimited(s string, i int, end byte) (int, bool) {
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
		case end:
			return i, true
		default:
			i++
		}
	}
	return 0, false
}
