// Package mailer delivers messages. A Mailer takes a message and an
// envelope and hands them to some transport: a local sendmail-compatible
// program, an SMTP server, or an mbox file for capture.
//
// The envelope names the sender and recipients the transport sees, which
// need not match the header. Blanks in the envelope are filled from the
// message itself, the sender from the From field or the local user, the
// recipients from To, Cc, and Bcc. Whatever the transport, the Bcc field
// never leaves with the message.
package mailer
