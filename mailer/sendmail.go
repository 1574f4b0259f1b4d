package mailer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/zostay/go-mailtools/message"
)

// Sendmail delivers by piping the message into a sendmail-compatible
// program. The envelope sender and recipients are passed as arguments
// after the configured ones, as "-f sender -- recipient...".
type Sendmail struct {
	path string
	args []string
}

var _ Mailer = &Sendmail{}

// SendmailOption configures a Sendmail mailer.
type SendmailOption func(m *Sendmail)

// WithSendmailPath names the program to run. The default is "sendmail",
// found on the PATH.
func WithSendmailPath(path string) SendmailOption {
	return func(m *Sendmail) { m.path = path }
}

// WithSendmailArgs replaces the arguments passed ahead of the envelope.
// The default is "-i", which keeps a lone dot on a line from ending the
// message early.
func WithSendmailArgs(args ...string) SendmailOption {
	return func(m *Sendmail) { m.args = args }
}

// NewSendmail builds a Sendmail mailer.
func NewSendmail(opts ...SendmailOption) *Sendmail {
	m := &Sendmail{
		path: "sendmail",
		args: []string{"-i"},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send runs the program and feeds it the message on stdin. The context
// stops the program early when it fires.
func (m *Sendmail) Send(ctx context.Context, msg *message.Message, env Envelope) error {
	env, err := ResolveEnvelope(msg, env)
	if err != nil {
		return err
	}

	args := make([]string, 0, len(m.args)+len(env.To)+3)
	args = append(args, m.args...)
	args = append(args, "-f", env.From, "--")
	args = append(args, env.To...)

	cmd := exec.CommandContext(ctx, m.path, args...)
	cmd.Stdin = bytes.NewReader(wireFormat(msg))

	out, err := cmd.CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			return fmt.Errorf("%s: %w: %s", m.path, err, bytes.TrimSpace(out))
		}
		return fmt.Errorf("%s: %w", m.path, err)
	}
	return nil
}
