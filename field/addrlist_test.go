package field_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mailtools/addr"
	"github.com/zostay/go-mailtools/field"
)

func TestAddressListParsesRecipients(t *testing.T) {
	t.Parallel()

	f, err := field.New("to", `"Mr. Foo" <foo@bar.com>, Peter Orbaek <poe@daimi.aau.dk>`)
	require.NoError(t, err)

	al, ok := f.(*field.AddressList)
	require.True(t, ok)
	require.Len(t, al.Addresses(), 2)

	assert.Equal(t, "Mr. Foo", al.Addresses()[0].Phrase())
	assert.Equal(t, "foo@bar.com", al.Addresses()[0].Address())
	assert.Equal(t, "poe@daimi.aau.dk", al.Addresses()[1].Address())

	assert.Equal(t, "To", al.Tag())
	assert.Equal(t, `"Mr. Foo" <foo@bar.com>, Peter Orbaek <poe@daimi.aau.dk>`, al.Body())
}

func TestAddressListKeepsBracketWarning(t *testing.T) {
	t.Parallel()

	f, err := field.New("Cc", "foo <foo@bar.com")

	var warn *addr.UnmatchedBracketsError
	require.ErrorAs(t, err, &warn)

	// the parse still produced the address
	al, ok := f.(*field.AddressList)
	require.True(t, ok)
	require.Len(t, al.Addresses(), 1)
	assert.Equal(t, "foo@bar.com", al.Addresses()[0].Address())
}

func TestAddressListFromValues(t *testing.T) {
	t.Parallel()

	f := field.NewAddressList("bcc", addr.List{
		addr.New("", "secret@example.com", ""),
		addr.New("Eve", "eve@example.com", ""),
	})

	assert.Equal(t, "Bcc", f.Tag())
	assert.Equal(t, "secret@example.com, Eve <eve@example.com>", f.Body())
	assert.Equal(t, "Bcc: secret@example.com, Eve <eve@example.com>", f.String())
}

func TestAddressListFoldsLongLists(t *testing.T) {
	t.Parallel()

	list := make(addr.List, 0, 8)
	for _, user := range []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"} {
		list = append(list, addr.New("", user+"@really.long.example.com", ""))
	}

	f := field.NewAddressList("To", list)
	lines := strings.Split(f.String(), "\n")
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 79)
	}

	// every break lands after a comma
	for _, line := range lines[:len(lines)-1] {
		assert.True(t, strings.HasSuffix(line, ","))
	}
}
