package field

import (
	"errors"

	"github.com/zostay/go-mailtools/addr"
	"github.com/zostay/go-mailtools/header"
)

// AddressList is a field holding parsed mailboxes, serving To, Cc, Bcc,
// and the other address-bearing tags.
type AddressList struct {
	tag   string
	addrs addr.List
}

var _ Field = &AddressList{}

// NewAddressList builds an AddressList field from a tag and a list of
// addresses.
func NewAddressList(tag string, addrs addr.List) *AddressList {
	return &AddressList{
		tag:   header.CanonicalTag(tag),
		addrs: addrs,
	}
}

// Tag returns the canonical tag.
func (f *AddressList) Tag() string { return f.tag }

// Addresses returns the held addresses.
func (f *AddressList) Addresses() addr.List { return f.addrs }

// SetAddresses replaces the held addresses.
func (f *AddressList) SetAddresses(addrs addr.List) { f.addrs = addrs }

// Parse reads the body as an address list. A recoverable bracket warning
// comes back as the error with the parsed addresses kept; a fatal parse
// error leaves the field unchanged.
func (f *AddressList) Parse(body string) error {
	addrs, err := addr.ParseAddressList(header.Unfold(body))
	if err != nil {
		var warn *addr.UnmatchedBracketsError
		if !errors.As(err, &warn) {
			return err
		}
	}
	f.addrs = addrs
	return err
}

// Body renders the addresses canonically, joined with commas.
func (f *AddressList) Body() string {
	return f.addrs.String()
}

// String returns the complete field, folded to the default length.
func (f *AddressList) String() string {
	return header.Fold(f.tag+": "+f.Body(), header.DefaultFoldLength)
}

func init() {
	addressTags := []string{
		"To", "Cc", "Bcc", "From", "Reply-To", "Sender",
		"Resent-To", "Resent-Cc", "Resent-From",
	}
	for _, tag := range addressTags {
		Register(tag, func(tag string) Field { return &AddressList{tag: tag} })
	}
}
