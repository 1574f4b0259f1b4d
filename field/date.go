package field

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/araddon/dateparse"

	"github.com/zostay/go-mailtools/header"
)

// unixDateEarlyYear shows up in mail sent by very old tools, a ctime
// string with the year moved up before the zone.
const unixDateEarlyYear = "Mon Jan 02 15:04:05 2006 MST"

// ErrBadDate is returned when a date field body cannot be parsed as a
// date in any format this package knows.
var ErrBadDate = errors.New("unparseable date")

// ParseTime parses a date field body. It tries the RFC 5322 grammar
// first and then falls back to lenient parsing of the many other shapes
// dates take in the wild.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(unixDateEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, body)
}

// Date is a field holding a single date, such as Date or Resent-Date.
type Date struct {
	tag  string
	time time.Time
}

var _ Field = &Date{}

// NewDate builds a Date field from a tag and a time.
func NewDate(tag string, t time.Time) *Date {
	return &Date{
		tag:  header.CanonicalTag(tag),
		time: t,
	}
}

// Tag returns the canonical tag.
func (f *Date) Tag() string { return f.tag }

// Time returns the held time. It is the zero time until a successful
// Parse or SetTime.
func (f *Date) Time() time.Time { return f.time }

// SetTime replaces the held time.
func (f *Date) SetTime(t time.Time) { f.time = t }

// Parse reads the body as a date, accepting anything ParseTime accepts.
// On failure the held time is left as it was.
func (f *Date) Parse(body string) error {
	t, err := ParseTime(header.Unfold(body))
	if err != nil {
		return err
	}
	f.time = t
	return nil
}

// Body renders the held time in RFC 5322 form.
func (f *Date) Body() string {
	return f.time.Format(time.RFC1123Z)
}

// String returns the complete field.
func (f *Date) String() string {
	return header.Fold(f.tag+": "+f.Body(), header.DefaultFoldLength)
}

func init() {
	for _, tag := range []string{"Date", "Resent-Date"} {
		Register(tag, func(tag string) Field { return &Date{tag: tag} })
	}
}
