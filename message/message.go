package message

import (
	"io"
	"strings"

	"github.com/zostay/go-mailtools/header"
)

// Message is a complete mail message, a header plus a body held as lines
// without their terminators.
type Message struct {
	head *header.Header
	body []string
}

// New creates an empty message. The options configure its header.
func New(opts ...header.Option) (*Message, error) {
	h, err := header.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Message{head: h}, nil
}

// Header returns the message header. Changes made to it are changes to
// the message.
func (m *Message) Header() *header.Header { return m.head }

// Body returns the body lines. The slice is the message's own; copy it
// before changing it if the message should stay as it is.
func (m *Message) Body() []string { return m.body }

// SetBody replaces the body lines. Any line terminators on the given
// lines are stripped.
func (m *Message) SetBody(lines []string) {
	body := make([]string, len(lines))
	for i, line := range lines {
		body[i] = strings.TrimRight(line, "\r\n")
	}
	m.body = body
}

// SetBodyText replaces the body from a single string, splitting it into
// lines.
func (m *Message) SetBodyText(text string) {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		m.body = nil
		return
	}
	m.body = strings.Split(text, "\n")
}

// Clone returns an independent copy of the message.
func (m *Message) Clone() *Message {
	return &Message{
		head: m.head.Clone(),
		body: append([]string(nil), m.body...),
	}
}

// TidyBody removes blank lines from the top and bottom of the body.
func (m *Message) TidyBody() {
	body := m.body
	for len(body) > 0 && strings.TrimSpace(body[0]) == "" {
		body = body[1:]
	}
	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}
	m.body = body
}

// WriteTo writes the message: the header, a blank separator line, and
// the body with a newline after every line. A body that arrived without
// a final line break gains one here.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	total, err := m.head.WriteTo(w)
	if err != nil {
		return total, err
	}

	n, err := io.WriteString(w, "\n")
	total += int64(n)
	if err != nil {
		return total, err
	}

	for _, line := range m.body {
		n, err = io.WriteString(w, line)
		total += int64(n)
		if err != nil {
			return total, err
		}
		n, err = io.WriteString(w, "\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String renders the whole message.
func (m *Message) String() string {
	var buf strings.Builder
	_, _ = m.WriteTo(&buf)
	return buf.String()
}
