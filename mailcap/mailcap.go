package mailcap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Entry is one mailcap line: a content type, the command that views it,
// and whatever named fields and flags came along. The wildcard entry
// for "text/*" has Type "text/*", and a bare "text" in the file means
// the same thing.
//
// Command templates keep their % escapes and backslash quoting exactly
// as the file gave them. Run them through Expand first.
type Entry struct {
	Type string
	View string

	Compose       string
	ComposeTyped  string
	Print         string
	Edit          string
	Test          string
	Description   string
	NameTemplate  string
	NeedsTerminal bool
	CopiousOutput bool

	fields map[string]string
}

// Field returns a named field the struct does not cover, x11-bitmap or
// textualnewlines or whatever else the file carried. Bare flags are
// present with an empty value.
func (e *Entry) Field(name string) (string, bool) {
	v, ok := e.fields[strings.ToLower(name)]
	return v, ok
}

func (e *Entry) setField(name, value string) {
	if e.fields == nil {
		e.fields = map[string]string{}
	}
	e.fields[name] = value
}

// TestPasses runs the entry's test command through the shell and
// reports whether it exited zero. An entry without a test always
// passes. The content type and file name feed the %t and %s escapes.
func (e *Entry) TestPasses(ctx context.Context, contentType, file string) bool {
	if e.Test == "" {
		return true
	}
	cmd := Expand(e.Test, contentType, file, nil)
	return exec.CommandContext(ctx, "sh", "-c", cmd).Run() == nil
}

// Registry holds the entries of every mailcap file read, in the order
// read, which is what gives earlier files precedence.
type Registry struct {
	entries []*Entry
}

type settings struct {
	paths []string
}

// Option configures the loading of a Registry.
type Option func(*settings)

// WithPaths replaces the default search path with an explicit list of
// mailcap files.
func WithPaths(paths ...string) Option {
	return func(s *settings) { s.paths = paths }
}

// DefaultPaths returns the mailcap search path: the files named by
// $MAILCAPS when it is set, otherwise the conventional list starting
// with the user's own file.
func DefaultPaths() []string {
	if env := os.Getenv("MAILCAPS"); env != "" {
		return filepath.SplitList(env)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "/"
	}
	return []string{
		filepath.Join(home, ".mailcap"),
		"/etc/mailcap",
		"/usr/etc/mailcap",
		"/usr/local/etc/mailcap",
	}
}

// New loads a Registry from the search path. Files that cannot be
// opened are skipped quietly, since most of the conventional paths
// exist on nobody's machine. Parse problems inside a file that does
// open are reported, but the Registry still comes back holding every
// entry that parsed, so the error is advisory.
func New(opts ...Option) (*Registry, error) {
	s := settings{paths: DefaultPaths()}
	for _, opt := range opts {
		opt(&s)
	}

	r := &Registry{}
	var errs []error
	for _, path := range s.paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}

		entries, err := Parse(f)
		_ = f.Close()
		r.entries = append(r.entries, entries...)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}

	return r, errors.Join(errs...)
}

// Len returns the number of entries held.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Lookup returns the entries matching a content type, exact
// type/subtype matches ahead of wildcard ones, each group in file
// order. Parameters tacked onto the type are ignored, so a full
// Content-Type body works as the argument.
func (r *Registry) Lookup(contentType string) []*Entry {
	typ, wild := canonicalType(contentType)

	var exact, wildcard []*Entry
	for _, e := range r.entries {
		switch e.Type {
		case typ:
			exact = append(exact, e)
		case wild:
			wildcard = append(wildcard, e)
		}
	}
	return append(exact, wildcard...)
}

// Find returns the first Lookup candidate whose test command passes.
// The file name is what %s expands to when a test runs.
func (r *Registry) Find(ctx context.Context, contentType, file string) (*Entry, bool) {
	for _, e := range r.Lookup(contentType) {
		if e.TestPasses(ctx, contentType, file) {
			return e, true
		}
	}
	return nil, false
}

// canonicalType lowercases a content type, drops any parameters, and
// works out the wildcard spelling that would also match it. A bare type
// with no subtype is already a wildcard and gets no second spelling.
func canonicalType(contentType string) (typ, wild string) {
	typ = strings.ToLower(strings.TrimSpace(contentType))
	if ix := strings.IndexByte(typ, ';'); ix >= 0 {
		typ = strings.TrimSpace(typ[:ix])
	}

	if ix := strings.IndexByte(typ, '/'); ix >= 0 {
		wild = typ[:ix] + "/*"
	} else {
		typ += "/*"
	}
	if wild == typ {
		wild = ""
	}
	return typ, wild
}
