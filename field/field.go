package field

import (
	"github.com/zostay/go-mailtools/header"
)

// Field is one header field held in a structured form. Every field type
// can be built two ways, from a raw body via Parse or from typed values
// via its own constructor, and renders back to text the same way either
// way.
type Field interface {
	// Tag returns the canonical tag this field renders under.
	Tag() string

	// Body returns the canonical single-line rendering of the field
	// body, without the tag.
	Body() string

	// Parse replaces the field's content with the result of parsing the
	// given raw body.
	Parse(body string) error

	// String returns the complete field, tag and folded body.
	String() string
}

// Constructor builds an empty field for a tag. One constructor may serve
// several tags, so the tag is passed in.
type Constructor func(tag string) Field

// registry maps canonical tags to the constructor that handles them.
// Built-in fields register themselves from init; everything else lands on
// Generic.
var registry = map[string]Constructor{}

// Register installs a constructor for a tag, replacing any earlier
// registration. The tag is canonicalized first.
func Register(tag string, ctor Constructor) {
	registry[header.CanonicalTag(tag)] = ctor
}

// New builds the field registered for the tag, or a Generic field when
// none is, and parses the body into it.
//
// The constructed field is returned even when parsing reports a problem.
// Address-list fields report recoverable bracket warnings this way, with
// the parsed addresses intact; check the error with errors.As before
// deciding to throw the field away.
func New(tag, body string) (Field, error) {
	ctag := header.CanonicalTag(tag)
	ctor, ok := registry[ctag]
	if !ok {
		ctor = func(tag string) Field { return &Generic{tag: tag} }
	}

	f := ctor(ctag)
	err := f.Parse(body)
	return f, err
}

// FromHeader builds a field from the first occurrence of the tag in a
// header. The header is only read, never changed.
func FromHeader(h *header.Header, tag string) (Field, error) {
	body, err := h.Get(tag)
	if err != nil {
		return nil, err
	}
	return New(tag, body)
}

// Generic is the fallback field. It keeps the body exactly as given and
// makes no attempt to understand it.
type Generic struct {
	tag  string
	body string
}

var _ Field = &Generic{}

// NewGeneric builds a Generic field from a tag and body.
func NewGeneric(tag, body string) *Generic {
	return &Generic{
		tag:  header.CanonicalTag(tag),
		body: body,
	}
}

// Tag returns the canonical tag.
func (f *Generic) Tag() string { return f.tag }

// Body returns the stored body, unfolded.
func (f *Generic) Body() string { return f.body }

// Parse stores the body as-is. It never fails.
func (f *Generic) Parse(body string) error {
	f.body = header.Unfold(body)
	return nil
}

// String returns the complete field, folded to the default length.
func (f *Generic) String() string {
	return header.Fold(f.tag+": "+f.body, header.DefaultFoldLength)
}
