package addr

import (
	"errors"
	"strings"
)

var (
	// ErrNoAddress is returned by ParseAddress when the input contains no
	// address at all.
	ErrNoAddress = errors.New("no address found in input")

	// ErrManyAddresses is returned by ParseAddress when the input turns
	// out to hold more than one address.
	ErrManyAddresses = errors.New("more than one address found in input")
)

// UnmatchedBracketsError is reported when the angle brackets in an address
// list do not balance. It is recoverable: the parsed list is returned
// alongside it, with the parser having closed the brackets as best it
// could. Check for it with errors.As when lenient handling is wanted.
type UnmatchedBracketsError struct {
	Text string // the input that was being parsed
}

// Error returns the error message.
func (err *UnmatchedBracketsError) Error() string {
	return "unmatched '<>' in address list"
}

// ParseAddressList parses the body of an address field such as To or Cc
// into a List. The parser keeps three accumulators, for the phrase, the
// address, and the comment, and assigns each token to one of them based on
// the token itself, the bracket depth, and whether a '<' is still ahead
// before the next separator. A comma or semicolon finalizes the current
// triple and starts the next.
//
// A fatal problem, such as a comment whose parentheses never close,
// returns a *ParseError and no list. Unbalanced angle brackets return the
// full list along with an *UnmatchedBracketsError.
func ParseAddressList(text string) (List, error) {
	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	var (
		phrase  []string
		address []string
		comment []string
		depth   int
		list    List
		warned  bool
	)

	flush := func() {
		if len(phrase) == 0 && len(address) == 0 && len(comment) == 0 {
			return
		}
		list = append(list, &Address{
			phrase:  stripPhraseQuotes(strings.Join(phrase, " ")),
			address: strings.Join(address, ""),
			comment: strings.Join(comment, " "),
		})
		phrase = phrase[:0]
		address = address[:0]
		comment = comment[:0]
	}

	next := findNext(toks, 0)

	for i, tok := range toks {
		switch {
		case tok.kind == commentToken:
			if tok.text != "" {
				comment = append(comment, tok.text)
			}
		case tok.kind == specialToken && tok.text == "<":
			depth++
		case tok.kind == specialToken && tok.text == ">":
			if depth > 0 {
				depth--
			} else {
				warned = true
			}
		case tok.kind == specialToken && (tok.text == "," || tok.text == ";"):
			if depth > 0 {
				warned = true
			}
			flush()
			depth = 0
			next = findNext(toks, i+1)
		case depth > 0:
			address = append(address, tok.text)
		case next == "<":
			phrase = append(phrase, tok.text)
		case isAddressGlue(tok.text) || len(address) == 0 || isAddressGlue(address[len(address)-1]):
			address = append(address, tok.text)
		default:
			// a fresh word after a finished bare address starts the
			// next one
			flush()
			address = append(address, tok.text)
		}
	}

	if warned {
		return list, &UnmatchedBracketsError{Text: text}
	}
	return list, nil
}

// ParseAddress parses input expected to hold exactly one address. The
// bracket warning from ParseAddressList, if any, is passed through with
// the result.
func ParseAddress(text string) (*Address, error) {
	list, err := ParseAddressList(text)
	if err != nil {
		var warn *UnmatchedBracketsError
		if !errors.As(err, &warn) {
			return nil, err
		}
	}

	switch {
	case len(list) == 0:
		return nil, ErrNoAddress
	case len(list) > 1:
		return nil, ErrManyAddresses
	}
	return list[0], err
}

// isAddressGlue reports whether the token continues an address run rather
// than starting a phrase, as the dots and at signs of a spec do.
func isAddressGlue(text string) bool {
	if len(text) != 1 {
		return false
	}
	switch text[0] {
	case '.', '@', ':', ';':
		return true
	}
	return false
}

// findNext looks ahead from toks[i] for the first separator-grade special
// and returns its text: "<" means a route address is still coming, ","
// and ";" mean the current address ends first. Empty means none of the
// three remain.
func findNext(toks []token, i int) string {
	for ; i < len(toks); i++ {
		if toks[i].kind != specialToken {
			continue
		}
		switch toks[i].text {
		case ",", ";", "<":
			return toks[i].text
		}
	}
	return ""
}

// stripPhraseQuotes removes the outer quotation marks from a phrase that
// is a single quoted string. Escapes inside are kept as they are so the
// phrase can be requoted without loss.
func stripPhraseQuotes(phrase string) string {
	if len(phrase) < 2 || phrase[0] != '"' || phrase[len(phrase)-1] != '"' {
		return phrase
	}
	if end, ok := scanDelimited(phrase, 1, '"'); !ok || end != len(phrase)-1 {
		return phrase
	}
	return phrase[1 : len(phrase)-1]
}
