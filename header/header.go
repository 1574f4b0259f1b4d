package header

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"regexp"
	"strings"
)

// MailFromTag is the pseudo-tag under which mbox envelope lines are
// indexed when the MailFromKeep policy is in effect. The trailing space
// stands in for the colon such lines never had.
const MailFromTag = "From "

// mailFromCoerced is the field name an envelope line is rewritten to
// under the MailFromCoerce policy.
const mailFromCoerced = "Mail-From"

// Errors reported while building or changing a header.
var (
	// ErrNoSuchField is returned when the named field is not present.
	ErrNoSuchField = errors.New("no such header field")

	// ErrIndexOutOfRange is returned when a field index does not refer
	// to a field that is present.
	ErrIndexOutOfRange = errors.New("header field index out of range")

	// ErrBadFieldName is returned when a field name holds characters a
	// field name cannot.
	ErrBadFieldName = errors.New("bad RFC822 field name")

	// ErrBadMailFrom is returned by New when the configured
	// MailFromPolicy is not one this package knows.
	ErrBadMailFrom = errors.New("unknown mail-from policy")

	// ErrMailFromLine reports an mbox "From " line met while the
	// MailFromError policy is in effect.
	ErrMailFromLine = errors.New("unadorned 'From ' line in header")
)

// fieldNameRE is the shape of a legal field name: printable ASCII with no
// space and no colon.
var fieldNameRE = regexp.MustCompile(`^[^\x00-\x1f\x7f-\xff :]+$`)

// MailFromPolicy says what to do with mbox-style "From " envelope lines
// met while parsing or added to a header.
type MailFromPolicy string

const (
	// MailFromKeep stores "From " lines under the MailFromTag
	// pseudo-tag. This is the default.
	MailFromKeep MailFromPolicy = "KEEP"

	// MailFromIgnore drops "From " lines without comment.
	MailFromIgnore MailFromPolicy = "IGNORE"

	// MailFromError reports each "From " line as an error.
	MailFromError MailFromPolicy = "ERROR"

	// MailFromCoerce rewrites "From " lines into Mail-From fields.
	MailFromCoerce MailFromPolicy = "COERCE"
)

// valid reports whether the policy is one of the four known values.
func (p MailFromPolicy) valid() bool {
	switch p {
	case MailFromKeep, MailFromIgnore, MailFromError, MailFromCoerce:
		return true
	}
	return false
}

// slot is one entry in the header arena. A deleted slot stays in place,
// keeping the positions recorded in the tag index stable, until a
// compaction sweeps it away.
type slot struct {
	tag     string // canonical tag
	text    string // complete physical line, without its final line break
	deleted bool
}

// Header is an ordered collection of header fields. The zero value is not
// usable; build one with New or Parse.
type Header struct {
	slots []*slot
	index map[string][]int
	dead  int

	foldLength int
	tagLengths map[string]int
	modify     bool
	mailFrom   MailFromPolicy
}

// Option configures a Header under construction.
type Option func(h *Header)

// WithFoldLength sets the target line length used when folding fields
// that have no per-tag length of their own.
func WithFoldLength(n int) Option {
	return func(h *Header) { h.foldLength = n }
}

// WithTagFoldLength sets a target line length used only when folding the
// named field.
func WithTagFoldLength(tag string, n int) Option {
	return func(h *Header) { h.tagLengths[CanonicalTag(tag)] = n }
}

// WithFoldTable installs a whole table of per-tag fold lengths at once.
// Handy when the table comes from configuration.
func WithFoldTable(table map[string]int) Option {
	return func(h *Header) {
		for tag, n := range table {
			h.tagLengths[CanonicalTag(tag)] = n
		}
	}
}

// WithModify turns reformatting on. A modifying header refolds every line
// as it is stored; a non-modifying one, the default, keeps the physical
// lines exactly as given so they write back out unchanged.
func WithModify(modify bool) Option {
	return func(h *Header) { h.modify = modify }
}

// WithMailFrom sets the policy for mbox "From " envelope lines.
func WithMailFrom(policy MailFromPolicy) Option {
	return func(h *Header) { h.mailFrom = policy }
}

// New creates an empty header. The options are checked here, so a bad
// mail-from policy fails now rather than on some later Add.
func New(opts ...Option) (*Header, error) {
	h := &Header{
		index:      make(map[string][]int),
		foldLength: DefaultFoldLength,
		tagLengths: make(map[string]int),
		mailFrom:   MailFromKeep,
	}
	for _, opt := range opts {
		opt(h)
	}
	if !h.mailFrom.valid() {
		return nil, fmt.Errorf("%w: %q", ErrBadMailFrom, string(h.mailFrom))
	}
	return h, nil
}

// FoldLength returns the fold length that applies to the given tag, which
// is the per-tag length when one is set and the header default otherwise.
func (h *Header) FoldLength(tag string) int {
	if n, ok := h.tagLengths[CanonicalTag(tag)]; ok {
		return n
	}
	return h.foldLength
}

// Modify reports whether this header refolds lines as they are stored.
func (h *Header) Modify() bool { return h.modify }

// MailFrom returns the envelope line policy this header was built with.
func (h *Header) MailFrom() MailFromPolicy { return h.mailFrom }

// Add appends a field to the end of the header. The body is given bare,
// without the tag or any folding; line breaks inside it are removed.
func (h *Header) Add(tag, body string) error {
	ctag, text, err := h.formatLine(tag, body)
	if err != nil || ctag == "" {
		return err
	}
	h.push(ctag, text)
	return nil
}

// Insert adds a field so that it becomes the nth field with its tag,
// counting from zero. The rest of the header keeps its order. An n equal
// to the current count appends after the last field with the tag.
func (h *Header) Insert(tag, body string, n int) error {
	ctag, text, err := h.formatLine(tag, body)
	if err != nil || ctag == "" {
		return err
	}

	ixs := h.index[ctag]
	if n < 0 || n > len(ixs) {
		return ErrIndexOutOfRange
	}

	var at int
	switch {
	case len(ixs) == 0:
		at = len(h.slots)
	case n == len(ixs):
		at = ixs[n-1] + 1
	default:
		at = ixs[n]
	}
	h.insertAt(at, ctag, text)
	return nil
}

// Get returns the unfolded body of the first field with the given tag.
func (h *Header) Get(tag string) (string, error) {
	return h.GetN(tag, 0)
}

// GetN returns the unfolded body of the nth field with the given tag,
// counting from zero.
func (h *Header) GetN(tag string, n int) (string, error) {
	ixs := h.index[CanonicalTag(tag)]
	switch {
	case len(ixs) == 0:
		return "", fmt.Errorf("%w: %q", ErrNoSuchField, CanonicalTag(tag))
	case n < 0 || n >= len(ixs):
		return "", ErrIndexOutOfRange
	}
	return Unfold(bodyOf(h.slots[ixs[n]])), nil
}

// GetAll returns the unfolded bodies of every field with the given tag,
// in header order. The slice is empty when the field is absent.
func (h *Header) GetAll(tag string) []string {
	ixs := h.index[CanonicalTag(tag)]
	out := make([]string, len(ixs))
	for i, ix := range ixs {
		out[i] = Unfold(bodyOf(h.slots[ix]))
	}
	return out
}

// Set replaces the body of the first field with the given tag, adding the
// field if it is absent. Other fields with the same tag are untouched.
func (h *Header) Set(tag, body string) error {
	ctag, text, err := h.formatLine(tag, body)
	if err != nil || ctag == "" {
		return err
	}
	ixs := h.index[ctag]
	if len(ixs) == 0 {
		h.push(ctag, text)
		return nil
	}
	h.slots[ixs[0]].text = text
	return nil
}

// SetN replaces the body of the nth field with the given tag, counting
// from zero.
func (h *Header) SetN(tag, body string, n int) error {
	ctag, text, err := h.formatLine(tag, body)
	if err != nil || ctag == "" {
		return err
	}
	ixs := h.index[ctag]
	if n < 0 || n >= len(ixs) {
		return ErrIndexOutOfRange
	}
	h.slots[ixs[n]].text = text
	return nil
}

// Delete removes every field with the given tag and returns how many were
// removed. The tag index is updated immediately; the arena slots are
// reclaimed lazily.
func (h *Header) Delete(tag string) int {
	ctag := CanonicalTag(tag)
	ixs := h.index[ctag]
	for _, ix := range ixs {
		h.slots[ix].deleted = true
	}
	h.dead += len(ixs)
	delete(h.index, ctag)
	return len(ixs)
}

// DeleteN removes the nth field with the given tag, counting from zero.
func (h *Header) DeleteN(tag string, n int) error {
	ctag := CanonicalTag(tag)
	ixs := h.index[ctag]
	if n < 0 || n >= len(ixs) {
		return ErrIndexOutOfRange
	}
	h.slots[ixs[n]].deleted = true
	h.dead++
	h.index[ctag] = append(ixs[:n], ixs[n+1:]...)
	if len(h.index[ctag]) == 0 {
		delete(h.index, ctag)
	}
	return nil
}

// Combine merges every field with the given tag into a single field
// sitting where the first one was, with the bodies joined by sep. Nothing
// happens unless the tag appears at least twice.
func (h *Header) Combine(tag, sep string) error {
	ctag := CanonicalTag(tag)
	ixs := h.index[ctag]
	if len(ixs) <= 1 {
		return nil
	}

	joined := strings.Join(h.GetAll(tag), stripBreaks(sep))

	first := ixs[0]
	for _, ix := range ixs[1:] {
		h.slots[ix].deleted = true
	}
	h.dead += len(ixs) - 1
	h.index[ctag] = []int{first}

	ctag2, text, err := h.formatLine(h.slots[first].tag, joined)
	if err != nil || ctag2 == "" {
		return err
	}
	h.slots[first].text = text
	return nil
}

// Extract removes the named fields from this header and returns them as a
// new header built with the same settings. Field order is preserved on
// both sides.
func (h *Header) Extract(tags ...string) *Header {
	want := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		want[CanonicalTag(tag)] = struct{}{}
	}

	sub := &Header{
		index:      make(map[string][]int),
		foldLength: h.foldLength,
		tagLengths: maps.Clone(h.tagLengths),
		modify:     h.modify,
		mailFrom:   h.mailFrom,
	}

	for _, s := range h.slots {
		if s.deleted {
			continue
		}
		if _, ok := want[s.tag]; !ok {
			continue
		}
		sub.push(s.tag, s.text)
		s.deleted = true
		h.dead++
	}
	for tag := range want {
		delete(h.index, tag)
	}
	return sub
}

// Clone returns an independent copy of the header, settings and all.
func (h *Header) Clone() *Header {
	c := &Header{
		slots:      make([]*slot, len(h.slots)),
		index:      make(map[string][]int, len(h.index)),
		dead:       h.dead,
		foldLength: h.foldLength,
		tagLengths: maps.Clone(h.tagLengths),
		modify:     h.modify,
		mailFrom:   h.mailFrom,
	}
	for i, s := range h.slots {
		cp := *s
		c.slots[i] = &cp
	}
	for tag, ixs := range h.index {
		c.index[tag] = append([]int(nil), ixs...)
	}
	return c
}

// Count returns the number of fields with the given tag.
func (h *Header) Count(tag string) int {
	return len(h.index[CanonicalTag(tag)])
}

// Len returns the number of fields in the header.
func (h *Header) Len() int { return len(h.slots) - h.dead }

// Tags lists the canonical tags present, in order of first appearance.
func (h *Header) Tags() []string {
	seen := make(map[string]struct{}, len(h.index))
	tags := make([]string, 0, len(h.index))
	for _, s := range h.slots {
		if s.deleted {
			continue
		}
		if _, ok := seen[s.tag]; ok {
			continue
		}
		seen[s.tag] = struct{}{}
		tags = append(tags, s.tag)
	}
	return tags
}

// Lines returns the physical lines of the header in order. Folded lines
// keep their folds; the line breaks that would terminate each line are
// not included.
func (h *Header) Lines() []string {
	out := make([]string, 0, h.Len())
	for _, s := range h.slots {
		if !s.deleted {
			out = append(out, s.text)
		}
	}
	return out
}

// Map returns a view of the header as a map from canonical tag to the
// unfolded bodies carried by that tag, the shape mail transports tend to
// want. Changing the map does not change the header.
func (h *Header) Map() map[string][]string {
	out := make(map[string][]string, len(h.index))
	for tag := range h.index {
		out[tag] = h.GetAll(tag)
	}
	return out
}

// Fold refolds every stored line. A zero maxLen folds each line to its
// configured length; anything else overrides the configuration for this
// pass only. Envelope lines are never folded.
func (h *Header) Fold(maxLen int) {
	for _, s := range h.slots {
		if s.deleted || s.tag == MailFromTag {
			continue
		}
		n := maxLen
		if n == 0 {
			n = h.FoldLength(s.tag)
		}
		s.text = Fold(s.text, n)
	}
}

// Unfold flattens stored lines back to single physical lines. With no
// arguments every line is unfolded; otherwise only the named tags are.
func (h *Header) Unfold(tags ...string) {
	if len(tags) == 0 {
		for _, s := range h.slots {
			if !s.deleted {
				s.text = Unfold(s.text)
			}
		}
		return
	}
	for _, tag := range tags {
		for _, ix := range h.index[CanonicalTag(tag)] {
			h.slots[ix].text = Unfold(h.slots[ix].text)
		}
	}
}

// WriteTo writes the header, one field per possibly folded line, each
// terminated with a newline. The blank line separating a header from a
// body is the caller's to write.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, s := range h.slots {
		if s.deleted {
			continue
		}
		n, err := io.WriteString(w, s.text)
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

// String renders the whole header, folds and all.
func (h *Header) String() string {
	var buf strings.Builder
	_, _ = h.WriteTo(&buf)
	return buf.String()
}

// formatLine canonicalizes the tag, applies the mail-from policy, and
// renders the physical line to store. An empty returned tag with a nil
// error means the policy dropped the line.
func (h *Header) formatLine(tag, body string) (string, string, error) {
	body = stripBreaks(body)

	if tag == MailFromTag {
		switch h.mailFrom {
		case MailFromIgnore:
			return "", "", nil
		case MailFromError:
			return "", "", fmt.Errorf("%w: %q", ErrMailFromLine, MailFromTag+body)
		case MailFromCoerce:
			tag = mailFromCoerced
		default:
			return MailFromTag, MailFromTag + body, nil
		}
	}

	ctag := CanonicalTag(tag)
	if !fieldNameRE.MatchString(ctag) {
		return "", "", fmt.Errorf("%w: %q", ErrBadFieldName, tag)
	}

	text := ctag + ": " + body
	if h.modify {
		text = Fold(text, h.FoldLength(ctag))
	}
	return ctag, text, nil
}

// push appends a formatted line to the arena and indexes it.
func (h *Header) push(ctag, text string) {
	h.maybeCompact()
	h.slots = append(h.slots, &slot{tag: ctag, text: text})
	h.index[ctag] = append(h.index[ctag], len(h.slots)-1)
}

// insertAt splices a new slot into the arena and shifts every recorded
// position at or past it.
func (h *Header) insertAt(at int, ctag, text string) {
	h.slots = append(h.slots, nil)
	copy(h.slots[at+1:], h.slots[at:])
	h.slots[at] = &slot{tag: ctag, text: text}

	for _, ixs := range h.index {
		for i, ix := range ixs {
			if ix >= at {
				ixs[i] = ix + 1
			}
		}
	}

	ixs := h.index[ctag]
	pos := len(ixs)
	for i, ix := range ixs {
		if ix > at {
			pos = i
			break
		}
	}
	ixs = append(ixs, 0)
	copy(ixs[pos+1:], ixs[pos:])
	ixs[pos] = at
	h.index[ctag] = ixs
}

// maybeCompact sweeps deleted slots out of the arena once they outnumber
// the live ones, rebuilding the tag index to match the new positions.
func (h *Header) maybeCompact() {
	if h.dead == 0 || h.dead*2 <= len(h.slots) {
		return
	}
	live := make([]*slot, 0, len(h.slots)-h.dead)
	for _, s := range h.slots {
		if !s.deleted {
			live = append(live, s)
		}
	}
	h.slots = live
	h.dead = 0

	h.index = make(map[string][]int, len(h.index))
	for i, s := range h.slots {
		h.index[s.tag] = append(h.index[s.tag], i)
	}
}

// bodyOf pulls the body text out of a stored physical line.
func bodyOf(s *slot) string {
	if s.tag == MailFromTag {
		return strings.TrimPrefix(s.text, MailFromTag)
	}
	if ix := strings.IndexByte(s.text, ':'); ix >= 0 {
		return strings.TrimLeft(s.text[ix+1:], " \t")
	}
	return s.text
}

// stripBreaks removes line break characters from a body. The whitespace
// around them stays, which is the same normalization a folded line gets
// when it is read back in.
func stripBreaks(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\r' && s[i] != '\n' {
			buf.WriteByte(s[i])
		}
	}
	return buf.String()
}
