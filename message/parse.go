package message

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"math"

	"github.com/zostay/go-mailtools/header"
)

const (
	// DefaultChunkSize is the initial size of the line buffer used while
	// reading a message. The buffer grows as needed up to the line length
	// limit.
	DefaultChunkSize = 16_384

	// DefaultMaxHeaderLength is the default maximum byte length the
	// parser will accumulate while looking for the end of the header.
	DefaultMaxHeaderLength = bufio.MaxScanTokenSize

	// DefaultMaxLineLength is the default maximum byte length of any one
	// line of the message, header or body.
	DefaultMaxLineLength = bufio.MaxScanTokenSize
)

// Errors that stop a parse.
var (
	// ErrLargeHeader is returned by Parse when the header runs past the
	// configured WithMaxHeaderLength (or the default,
	// DefaultMaxHeaderLength).
	ErrLargeHeader = errors.New("the header exceeds the maximum parse length")

	// ErrLongLine is returned by Parse when a single line runs past the
	// configured WithMaxLineLength (or the default, DefaultMaxLineLength).
	ErrLongLine = errors.New("a message line exceeds the maximum parse length")
)

type parser struct {
	maxHeaderLen int
	maxLineLen   int
	headerOnly   bool
	headerOpts   []header.Option
}

func (pr *parser) clone() *parser {
	p := *pr
	return &p
}

var defaultParser = &parser{
	maxHeaderLen: DefaultMaxHeaderLength,
	maxLineLen:   DefaultMaxLineLength,
}

// ParseOption adjusts how Parse reads a message.
type ParseOption func(pr *parser)

// WithMaxHeaderLength sets the maximum number of bytes Parse will
// accumulate while searching for the blank line that ends the header.
// This keeps bad input from turning into an out of memory error. A value
// less than or equal to 0 removes the limit. The default is
// DefaultMaxHeaderLength.
func WithMaxHeaderLength(n int) ParseOption {
	return func(pr *parser) { pr.maxHeaderLen = n }
}

// WithMaxLineLength sets the maximum number of bytes one line of the
// message may hold, which keeps a message with no line breaks at all
// from being buffered whole. A value less than or equal to 0 removes the
// limit. The default is DefaultMaxLineLength.
func WithMaxLineLength(n int) ParseOption {
	return func(pr *parser) { pr.maxLineLen = n }
}

// WithHeaderOnly stops the parse at the end of the header. The body is
// left unread, which can save a great deal of memory when all you want
// is the headers of a large message. The returned message has an empty
// body.
func WithHeaderOnly() ParseOption {
	return func(pr *parser) { pr.headerOnly = true }
}

// WithHeaderOptions passes options through to the header parser, for
// fold lengths, the modify flag, the mail-from policy, and the rest.
func WithHeaderOptions(opts ...header.Option) ParseOption {
	return func(pr *parser) { pr.headerOpts = append(pr.headerOpts, opts...) }
}

// Parse reads a message, splitting the header from the body at the first
// blank line. Line breaks are normalized to "\n" on the way in.
//
// Problems in the header that do not stop the parse, junk before the
// first field or lines rejected by the mail-from policy, come back as a
// *header.ParseError next to the parsed message. Check with errors.As
// and decide whether to care; the message is complete either way.
func Parse(r io.Reader, opts ...ParseOption) (*Message, error) {
	pr := defaultParser.clone()
	for _, opt := range opts {
		opt(pr)
	}

	maxLine := pr.maxLineLen
	if maxLine <= 0 {
		maxLine = math.MaxInt
	}

	var head bytes.Buffer
	var body []string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, DefaultChunkSize), maxLine)
	inHead := true
	for sc.Scan() {
		line := sc.Text()
		if !inHead {
			body = append(body, line)
			continue
		}

		if line == "" {
			if pr.headerOnly {
				break
			}
			inHead = false
			continue
		}

		head.WriteString(line)
		head.WriteByte('\n')
		if pr.maxHeaderLen > 0 && head.Len() > pr.maxHeaderLen {
			return nil, ErrLargeHeader
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, ErrLongLine
		}
		return nil, err
	}

	h, err := header.Parse(head.Bytes(), pr.headerOpts...)
	if h == nil {
		return nil, err
	}
	return &Message{head: h, body: body}, err
}
