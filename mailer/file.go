package mailer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/emersion/go-mbox"

	"github.com/zostay/go-mailtools/message"
)

// File delivers by appending messages to an mbox file, with a proper
// "From " separator line carrying the envelope sender and the delivery
// time. Good for capturing mail in tests or dropping it in a local
// spool.
type File struct {
	path string
	now  func() time.Time
}

var _ Mailer = &File{}

// FileOption configures a File mailer.
type FileOption func(m *File)

// WithClock replaces the clock stamped onto the mbox separator lines.
func WithClock(now func() time.Time) FileOption {
	return func(m *File) { m.now = now }
}

// NewFile builds a File mailer appending to the given path. The file is
// created when it does not exist.
func NewFile(path string, opts ...FileOption) *File {
	m := &File{
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send appends the message to the mbox file.
func (m *File) Send(ctx context.Context, msg *message.Message, env Envelope) error {
	env, err := ResolveEnvelope(msg, env)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(m.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening mbox %s: %w", m.path, err)
	}
	defer f.Close()

	w := mbox.NewWriter(f)
	mw, err := w.CreateMessage(env.From, m.now())
	if err != nil {
		return fmt.Errorf("writing mbox separator: %w", err)
	}
	if _, err := mw.Write(wireFormat(msg)); err != nil {
		return fmt.Errorf("writing message to mbox: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finishing mbox message: %w", err)
	}
	return nil
}
