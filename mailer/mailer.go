package mailer

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/zostay/go-mailtools/addr"
	"github.com/zostay/go-mailtools/field"
	"github.com/zostay/go-mailtools/header"
	"github.com/zostay/go-mailtools/message"
)

// ErrNoRecipients is returned when neither the envelope nor the message
// names anyone to deliver to.
var ErrNoRecipients = errors.New("no recipients")

// Envelope names the sender and recipients a message travels with,
// independently of what its header claims.
type Envelope struct {
	From string
	To   []string
}

// Mailer is a transport that can deliver a message.
type Mailer interface {
	// Send delivers the message using the given envelope. Zero fields
	// in the envelope are filled from the message first, as
	// ResolveEnvelope does.
	Send(ctx context.Context, msg *message.Message, env Envelope) error
}

// ResolveEnvelope fills in the blanks of an envelope from the message.
// An empty sender becomes the first mailbox of the From field, or the
// local user's address when there is no From. Empty recipients become
// every mailbox named by To, Cc, and Bcc. An envelope that still has no
// recipients is an ErrNoRecipients error.
func ResolveEnvelope(msg *message.Message, env Envelope) (Envelope, error) {
	if env.From == "" {
		if body, err := msg.Header().Get("From"); err == nil {
			env.From = firstAddress(body)
		}
	}
	if env.From == "" {
		env.From = LocalAddress()
	}

	if len(env.To) == 0 {
		list, err := msg.Recipients()
		if err != nil {
			return env, err
		}
		env.To = list.Addresses()
	}
	if len(env.To) == 0 {
		return env, ErrNoRecipients
	}
	return env, nil
}

// firstAddress pulls the first usable addr-spec out of a field body.
func firstAddress(body string) string {
	list, err := addr.ParseAddressList(body)
	if err != nil {
		var warn *addr.UnmatchedBracketsError
		if !errors.As(err, &warn) {
			return ""
		}
	}
	if len(list) == 0 {
		return ""
	}
	return list[0].Address()
}

// wireFormat renders a message for handoff to a transport. The Bcc
// field stays behind, and a Date field is supplied when the message has
// none.
func wireFormat(msg *message.Message) []byte {
	c := msg.Clone()
	c.Header().Delete("Bcc")
	if _, err := c.Header().Get("Date"); errors.Is(err, header.ErrNoSuchField) {
		_ = c.Header().Add("Date", field.NewDate("Date", time.Now()).Body())
	}

	var buf bytes.Buffer
	_, _ = c.WriteTo(&buf)
	return buf.Bytes()
}
