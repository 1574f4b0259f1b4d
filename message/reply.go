package message

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/zostay/go-mailtools/addr"
	"github.com/zostay/go-mailtools/field"
)

// reSubject matches the pile of reply markers already on the front of a
// subject, so a reply carries exactly one.
var reSubject = regexp.MustCompile(`^(?i)\s*(?:re(?:\[\d+\])?:\s*)+`)

type replySettings struct {
	all   bool
	quote bool
	from  string
}

// ReplyOption adjusts how Reply builds the new message.
type ReplyOption func(rs *replySettings)

// WithReplyAll carries the original To and Cc recipients onto the
// reply's Cc, leaving out the reply target and the sender given by
// WithReplyFrom.
func WithReplyAll() ReplyOption {
	return func(rs *replySettings) { rs.all = true }
}

// WithQuotedBody includes the original body in the reply, each line
// quoted with "> ".
func WithQuotedBody() ReplyOption {
	return func(rs *replySettings) { rs.quote = true }
}

// WithReplyFrom sets the From field of the reply and keeps that mailbox
// off the Cc list built by WithReplyAll.
func WithReplyFrom(address string) ReplyOption {
	return func(rs *replySettings) { rs.from = address }
}

// Reply builds a new message answering this one. The reply goes to the
// Reply-To mailboxes, or the From mailboxes when there is no Reply-To.
// The subject gains a single "Re: " marker, In-Reply-To and References
// are chained from the original's Message-ID, and the Date is set to
// now. The body starts empty unless WithQuotedBody asks for the
// original.
func (m *Message) Reply(opts ...ReplyOption) (*Message, error) {
	rs := &replySettings{}
	for _, opt := range opts {
		opt(rs)
	}

	reply, err := New()
	if err != nil {
		return nil, err
	}
	h := reply.Header()

	if rs.from != "" {
		if err := h.Add("From", rs.from); err != nil {
			return nil, err
		}
	}

	to := m.replyTarget()
	if to != "" {
		if err := h.Add("To", to); err != nil {
			return nil, err
		}
	}

	if rs.all {
		cc, err := m.replyAllList(to, rs.from)
		if err != nil {
			return nil, err
		}
		if len(cc) > 0 {
			if err := h.Add("Cc", cc.String()); err != nil {
				return nil, err
			}
		}
	}

	if subject, err := m.head.Get("Subject"); err == nil && strings.TrimSpace(subject) != "" {
		subject = "Re: " + reSubject.ReplaceAllString(subject, "")
		if err := h.Add("Subject", subject); err != nil {
			return nil, err
		}
	}

	if msgid, err := m.head.Get("Message-ID"); err == nil && msgid != "" {
		if err := h.Add("In-Reply-To", msgid); err != nil {
			return nil, err
		}
		refs := msgid
		if old, err := m.head.Get("References"); err == nil && old != "" {
			refs = old + " " + msgid
		}
		if err := h.Add("References", refs); err != nil {
			return nil, err
		}
	}

	if err := h.Add("Date", field.NewDate("Date", time.Now()).Body()); err != nil {
		return nil, err
	}

	if rs.quote {
		quoted := make([]string, len(m.body))
		for i, line := range m.body {
			quoted[i] = "> " + line
		}
		reply.SetBody(quoted)
	}

	return reply, nil
}

// replyTarget picks the field body a reply should go to.
func (m *Message) replyTarget() string {
	if to, err := m.head.Get("Reply-To"); err == nil && to != "" {
		return to
	}
	if to, err := m.head.Get("From"); err == nil {
		return to
	}
	return ""
}

// replyAllList gathers the original To and Cc mailboxes for a
// reply-all, leaving out the reply target and the replying sender.
func (m *Message) replyAllList(to, from string) (addr.List, error) {
	exclude := make(map[string]struct{})
	if from != "" {
		if a, err := addr.ParseAddress(from); err == nil {
			exclude[strings.ToLower(a.Address())] = struct{}{}
		}
	}
	if targets, err := addr.ParseAddressList(to); err == nil || isBracketWarning(err) {
		for _, a := range targets {
			exclude[strings.ToLower(a.Address())] = struct{}{}
		}
	}

	var cc addr.List
	for _, tag := range []string{"To", "Cc"} {
		for _, body := range m.head.GetAll(tag) {
			list, err := addr.ParseAddressList(body)
			if err != nil && !isBracketWarning(err) {
				return nil, err
			}
			for _, a := range list {
				key := strings.ToLower(a.Address())
				if key == "" {
					continue
				}
				if _, ok := exclude[key]; ok {
					continue
				}
				exclude[key] = struct{}{}
				cc = append(cc, a)
			}
		}
	}
	return cc, nil
}

// Recipients returns every distinct mailbox named by the To, Cc, and
// Bcc fields, in header order. Mailboxes are compared without regard to
// case, and the first spelling met is the one kept.
func (m *Message) Recipients() (addr.List, error) {
	var all addr.List
	seen := make(map[string]struct{})
	for _, tag := range []string{"To", "Cc", "Bcc"} {
		for _, body := range m.head.GetAll(tag) {
			list, err := addr.ParseAddressList(body)
			if err != nil && !isBracketWarning(err) {
				return nil, err
			}
			for _, a := range list {
				key := strings.ToLower(a.Address())
				if key == "" {
					continue
				}
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				all = append(all, a)
			}
		}
	}
	return all, nil
}

// isBracketWarning reports whether an address parse error is only the
// recoverable unmatched-brackets warning, which comes with usable
// results.
func isBracketWarning(err error) bool {
	var warn *addr.UnmatchedBracketsError
	return errors.As(err, &warn)
}
