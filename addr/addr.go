package addr

import (
	"strings"
)

// Address is a single mail address as it appears in a header field: a
// display phrase, an address specification, and a comment, any of which
// may be empty, though never all three at once for an address built by the
// parser.
type Address struct {
	phrase  string
	address string
	comment string
}

// New builds an Address from its three parts. The comment should be given
// without its parentheses; they are added back when the address is
// formatted.
func New(phrase, address, comment string) *Address {
	return &Address{phrase: phrase, address: address, comment: comment}
}

// Phrase returns the display phrase, which may be empty.
func (a *Address) Phrase() string { return a.phrase }

// SetPhrase replaces the display phrase.
func (a *Address) SetPhrase(phrase string) { a.phrase = phrase }

// Address returns the address specification, the user@host part.
func (a *Address) Address() string { return a.address }

// SetAddress replaces the address specification.
func (a *Address) SetAddress(address string) { a.address = address }

// Comment returns the comment without its parentheses, which may be empty.
func (a *Address) Comment() string { return a.comment }

// SetComment replaces the comment. Give it without parentheses.
func (a *Address) SetComment(comment string) { a.comment = comment }

// User returns the part of the address specification before the last at
// sign, or all of it when there is no at sign.
func (a *Address) User() string {
	if ix := strings.LastIndexByte(a.address, '@'); ix >= 0 {
		return a.address[:ix]
	}
	return a.address
}

// Host returns the part of the address specification after the last at
// sign, or the empty string when there is none.
func (a *Address) Host() string {
	if ix := strings.LastIndexByte(a.address, '@'); ix >= 0 {
		return a.address[ix+1:]
	}
	return ""
}

// String renders the address back into header field form. The phrase is
// quoted when it needs to be, the address specification is wrapped in
// angle brackets whenever a phrase or comment accompanies it, and the
// comment gets its parentheses back.
func (a *Address) String() string {
	parts := make([]string, 0, 3)
	comment := strings.TrimSpace(a.comment)

	if a.phrase != "" {
		parts = append(parts, quotePhrase(a.phrase))
	}
	if a.address != "" {
		if a.phrase != "" || comment != "" {
			parts = append(parts, "<"+a.address+">")
		} else {
			parts = append(parts, a.address)
		}
	}
	if comment != "" {
		parts = append(parts, "("+comment+")")
	}
	return strings.Join(parts, " ")
}

// phraseSafe lists the characters, besides letters and digits, that may
// appear in a phrase without forcing it into a quoted string.
const phraseSafe = " !#$%&'*+-/=?^_`{|}~"

// quotePhrase wraps a phrase in quotation marks when it holds characters
// an unquoted phrase cannot. A phrase that already contains an unescaped
// quote is passed through untouched on the assumption the caller quoted it
// themselves.
func quotePhrase(phrase string) string {
	plain := true
	for i := 0; i < len(phrase) && plain; i++ {
		c := phrase[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c >= 0x80:
			// leave non-ASCII text alone rather than guess
		case strings.IndexByte(phraseSafe, c) >= 0:
		default:
			plain = false
		}
	}
	if plain || hasUnescapedQuote(phrase) {
		return phrase
	}
	return `"` + phrase + `"`
}

func hasUnescapedQuote(phrase string) bool {
	for i := 0; i < len(phrase); i++ {
		switch phrase[i] {
		case '\\':
			i++
		case '"':
			return true
		}
	}
	return false
}

// List is an ordered list of addresses, as parsed from one field body.
type List []*Address

// String renders the list as a single field body with the addresses
// separated by commas.
func (l List) String() string {
	parts := make([]string, 0, len(l))
	for _, a := range l {
		if s := a.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Addresses returns just the address specifications of the list, dropping
// entries that have none.
func (l List) Addresses() []string {
	out := make([]string, 0, len(l))
	for _, a := range l {
		if a.address != "" {
			out = append(out, a.address)
		}
	}
	return out
}
