package mailcap

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zostay/go-mailtools/internal/scanner"
)

// ErrBadEntry is returned, wrapped with the offending line, when a
// mailcap line does not have the minimum type and command fields.
var ErrBadEntry = errors.New("malformed mailcap entry")

// Parse reads mailcap entries from a single file. Malformed lines are
// reported but do not stop the parse, so the entries come back next to
// any error and both are meaningful.
func Parse(r io.Reader) ([]*Entry, error) {
	var (
		entries []*Entry
		errs    []error
	)

	sc := bufio.NewScanner(r)
	sc.Split(scanner.ExitByAdvance(splitEntries))
	for sc.Scan() {
		entry, err := parseEntry(sc.Text())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, err)
	}

	return entries, errors.Join(errs...)
}

// splitEntries is a bufio.SplitFunc producing one logical mailcap line
// per token. A physical line ending in a backslash is joined with the
// line after it, and comment and blank lines are consumed without
// producing a token, which is why the scanner.ExitByAdvance treatment
// is required to keep the scan alive.
func splitEntries(data []byte, atEOF bool) (int, []byte, error) {
	if len(data) == 0 {
		return 0, nil, nil
	}

	var (
		token   []byte
		advance int
	)
	rest := data
	for {
		var line []byte
		nl := bytes.IndexByte(rest, '\n')
		switch {
		case nl >= 0:
			line = rest[:nl]
			rest = rest[nl+1:]
			advance += nl + 1
		case atEOF:
			line = rest
			rest = nil
			advance += len(line)
		default:
			// the logical line is not completely buffered yet
			return 0, nil, nil
		}

		line = bytes.TrimSuffix(line, []byte("\r"))
		if bytes.HasSuffix(line, []byte(`\`)) {
			token = append(token, line[:len(line)-1]...)
			if len(rest) == 0 && atEOF {
				// dangling continuation at the end of input
				break
			}
			continue
		}

		token = append(token, line...)
		break
	}

	trimmed := bytes.TrimSpace(token)
	if len(trimmed) == 0 || trimmed[0] == '#' {
		return advance, nil, scanner.ErrContinue
	}
	return advance, token, nil
}

// parseEntry turns one logical mailcap line into an Entry.
func parseEntry(line string) (*Entry, error) {
	fields := splitFields(line)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrBadEntry, line)
	}

	typ := strings.ToLower(strings.TrimSpace(fields[0]))
	if typ == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadEntry, line)
	}
	if !strings.ContainsRune(typ, '/') {
		// a bare type matches every subtype
		typ += "/*"
	}

	e := &Entry{
		Type: typ,
		View: strings.TrimSpace(fields[1]),
	}

	for _, field := range fields[2:] {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		name, value, hasValue := strings.Cut(field, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)

		switch {
		case !hasValue:
			switch name {
			case "needsterminal":
				e.NeedsTerminal = true
			case "copiousoutput":
				e.CopiousOutput = true
			default:
				e.setField(name, "")
			}
		default:
			switch name {
			case "compose":
				e.Compose = value
			case "composetyped":
				e.ComposeTyped = value
			case "print":
				e.Print = value
			case "edit":
				e.Edit = value
			case "test":
				e.Test = value
			case "description":
				e.Description = value
			case "nametemplate":
				e.NameTemplate = value
			default:
				e.setField(name, value)
			}
		}
	}

	return e, nil
}

// splitFields breaks a logical line on semicolons, leaving quoted
// semicolons alone. The backslash quoting stays in the fields; Expand
// removes it when the command is put to use.
func splitFields(line string) []string {
	var (
		fields []string
		cur    strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line):
			cur.WriteByte(c)
			i++
			cur.WriteByte(line[i])
		case c == ';':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())
	return fields
}
