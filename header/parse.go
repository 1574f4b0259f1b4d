package header

import (
	"bytes"
	"fmt"
	"strings"
)

// BadStartError is returned when a header block opens with text that is
// not a header line. The bad text is skipped and parsing carries on with
// the first real field.
type BadStartError struct {
	BadStart []byte
}

// Error returns the error message.
func (err *BadStartError) Error() string {
	return "header starts with text that is not a header field"
}

// ParseError collects the recoverable problems met while parsing a
// header block. The header built from the remaining lines is returned
// alongside it, so a caller that can live with the problems may check for
// this type with errors.As and keep going.
type ParseError struct {
	Errs []error
}

// Error returns all the collected problems in one message.
func (err *ParseError) Error() string {
	msgs := make([]string, len(err.Errs))
	for i, e := range err.Errs {
		msgs[i] = e.Error()
	}
	return "parsing header: " + strings.Join(msgs, "; ")
}

// Unwrap returns the individual problems for errors.Is and errors.As.
func (err *ParseError) Unwrap() []error { return err.Errs }

// Parse reads a header block into a Header. The block is everything up to
// the body; finding that boundary is the caller's job. Physical lines
// that begin with whitespace, or that contain no colon, continue the line
// before them. Original casing, spacing, and folding are all preserved in
// the stored lines unless WithModify(true) asks for reformatting.
//
// Junk ahead of the first field and fields rejected by the mail-from
// policy do not stop the parse. They come back collected in a *ParseError
// next to the parsed header.
func Parse(m []byte, opts ...Option) (*Header, error) {
	h, err := New(opts...)
	if err != nil {
		return nil, err
	}

	lines, badStart := splitLines(m)
	var errs []error
	if badStart != nil {
		errs = append(errs, badStart)
	}

	for _, raw := range lines {
		text := strings.TrimRight(string(raw), "\r\n")
		if err := h.addPhysical(text); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return h, &ParseError{Errs: errs}
	}
	return h, nil
}

// splitLines cuts a header block into logical lines. A physical line
// starts a new field when it begins with something other than whitespace
// and either contains a colon or carries the mbox "From " marker; any
// other line continues the field before it. Lines before the first field
// have nothing to continue and are collected into a BadStartError. Blank
// lines are dropped.
func splitLines(m []byte) ([][]byte, *BadStartError) {
	var lines [][]byte
	var bad *BadStartError

	for len(m) > 0 {
		line := m
		if ix := bytes.IndexByte(m, '\n'); ix >= 0 {
			// the cap stops continuation appends from writing into m
			line = m[:ix+1 : ix+1]
			m = m[ix+1:]
		} else {
			m = nil
		}

		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		starts := line[0] != ' ' && line[0] != '\t' &&
			(bytes.IndexByte(line, ':') >= 0 || bytes.HasPrefix(line, []byte(MailFromTag)))
		switch {
		case starts:
			lines = append(lines, line)
		case len(lines) > 0:
			lines[len(lines)-1] = append(lines[len(lines)-1], line...)
		case bad == nil:
			bad = &BadStartError{BadStart: append([]byte{}, line...)}
		default:
			bad.BadStart = append(bad.BadStart, line...)
		}
	}
	return lines, bad
}

// addPhysical stores one logical line read from input, keeping its
// original spelling and folds unless this header reformats.
func (h *Header) addPhysical(text string) error {
	var ctag string
	switch {
	case strings.HasPrefix(text, MailFromTag):
		switch h.mailFrom {
		case MailFromIgnore:
			return nil
		case MailFromError:
			return fmt.Errorf("%w: %q", ErrMailFromLine, text)
		case MailFromCoerce:
			text = mailFromCoerced + ": " + text[len(MailFromTag):]
			ctag = mailFromCoerced
		default:
			h.push(MailFromTag, text)
			return nil
		}
	default:
		ix := strings.IndexByte(text, ':')
		if ix < 0 {
			return fmt.Errorf("%w: %q", ErrBadFieldName, text)
		}
		name := strings.TrimRight(text[:ix], " \t")
		ctag = CanonicalTag(name)
		if !fieldNameRE.MatchString(ctag) {
			return fmt.Errorf("%w: %q", ErrBadFieldName, name)
		}
	}

	if h.modify {
		text = Fold(text, h.FoldLength(ctag))
	}
	h.push(ctag, text)
	return nil
}
