package mailer

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/zostay/go-mailtools/message"
)

type smtpSecurity int

const (
	smtpPlain smtpSecurity = iota
	smtpStartTLS
	smtpTLS
)

// SMTP delivers by speaking SMTP to a server.
type SMTP struct {
	host     string
	security smtpSecurity
	tlsCfg   *tls.Config
	username string
	password string
	hello    string
}

var _ Mailer = &SMTP{}

// SMTPOption configures an SMTP mailer.
type SMTPOption func(m *SMTP)

// WithStartTLS upgrades the connection with STARTTLS after connecting.
// A nil config uses the default TLS settings.
func WithStartTLS(cfg *tls.Config) SMTPOption {
	return func(m *SMTP) {
		m.security = smtpStartTLS
		m.tlsCfg = cfg
	}
}

// WithTLS connects over TLS from the start, as for SMTPS ports. A nil
// config uses the default TLS settings.
func WithTLS(cfg *tls.Config) SMTPOption {
	return func(m *SMTP) {
		m.security = smtpTLS
		m.tlsCfg = cfg
	}
}

// WithAuth authenticates with SASL PLAIN after the greeting.
func WithAuth(username, password string) SMTPOption {
	return func(m *SMTP) {
		m.username = username
		m.password = password
	}
}

// WithHello sets the name announced in the EHLO greeting. The default
// is the local mail domain.
func WithHello(name string) SMTPOption {
	return func(m *SMTP) { m.hello = name }
}

// NewSMTP builds an SMTP mailer for a host:port address. Without
// options the connection is plain text and unauthenticated, which suits
// a trusted local relay and nothing else.
func NewSMTP(host string, opts ...SMTPOption) *SMTP {
	m := &SMTP{host: host}
	for _, opt := range opts {
		opt(m)
	}
	if m.hello == "" {
		m.hello = LocalDomain()
	}
	return m
}

// Send performs the SMTP conversation: greet, authenticate if asked,
// MAIL, RCPT for each recipient, DATA, quit. The context is consulted
// between protocol steps; each network operation on its own is bounded
// by the client's timeouts.
func (m *SMTP) Send(ctx context.Context, msg *message.Message, env Envelope) error {
	env, err := ResolveEnvelope(msg, env)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	c, err := m.dial()
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", m.host, err)
	}
	defer c.Close()

	if err := c.Hello(m.hello); err != nil {
		return fmt.Errorf("greeting %s: %w", m.host, err)
	}

	if m.username != "" {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Auth(sasl.NewPlainClient("", m.username, m.password)); err != nil {
			return fmt.Errorf("authenticating to %s: %w", m.host, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.Mail(env.From, nil); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	for _, to := range env.To {
		if err := c.Rcpt(to, nil); err != nil {
			return fmt.Errorf("setting recipient %s: %w", to, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("starting data: %w", err)
	}
	if _, err := wc.Write(wireFormat(msg)); err != nil {
		_ = wc.Close()
		return fmt.Errorf("writing message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("finishing data: %w", err)
	}

	// the message is accepted by now, a failed QUIT does not undo it
	_ = c.Quit()
	return nil
}

// dial connects with whatever security the options chose.
func (m *SMTP) dial() (*smtp.Client, error) {
	switch m.security {
	case smtpTLS:
		return smtp.DialTLS(m.host, m.tlsCfg)
	case smtpStartTLS:
		return smtp.DialStartTLS(m.host, m.tlsCfg)
	default:
		return smtp.Dial(m.host)
	}
}
