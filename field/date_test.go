package field_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mailtools/field"
)

func TestDateParsesMailDates(t *testing.T) {
	t.Parallel()

	f, err := field.New("date", "Sat, 31 Jan 2015 03:23:09 +0000")
	require.NoError(t, err)

	d, ok := f.(*field.Date)
	require.True(t, ok)

	want := time.Date(2015, time.January, 31, 3, 23, 9, 0, time.UTC)
	assert.True(t, d.Time().Equal(want))
	assert.Equal(t, "Date", d.Tag())
	assert.Equal(t, "Sat, 31 Jan 2015 03:23:09 +0000", field.NewDate("Date", want).Body())
}

func TestDateParsesLenientDates(t *testing.T) {
	t.Parallel()

	// not an RFC 5322 date, still accepted
	want := time.Date(2015, time.January, 31, 3, 23, 9, 0, time.UTC)

	var d time.Time
	var err error

	d, err = field.ParseTime("2015-01-31T03:23:09Z")
	assert.NoError(t, err)
	assert.True(t, d.Equal(want))

	_, err = field.ParseTime("half past never")
	assert.ErrorIs(t, err, field.ErrBadDate)
}

func TestDateRegisteredForResent(t *testing.T) {
	t.Parallel()

	f, err := field.New("resent-date", "Sat, 31 Jan 2015 03:23:09 +0000")
	require.NoError(t, err)

	d, ok := f.(*field.Date)
	require.True(t, ok)
	assert.Equal(t, "Resent-Date", d.Tag())
}

func TestDateRejectsGarbage(t *testing.T) {
	t.Parallel()

	f := field.NewDate("Date", time.Time{})
	err := f.Parse("no date here")
	assert.ErrorIs(t, err, field.ErrBadDate)
	assert.True(t, f.Time().IsZero())
}

func TestDateRoundTrip(t *testing.T) {
	t.Parallel()

	f := field.NewDate("Date", time.Date(1996, time.January, 3, 1, 5, 34, 0, time.UTC))
	assert.Equal(t, "Date: Wed, 03 Jan 1996 01:05:34 +0000", f.String())

	again, err := field.ParseTime(f.Body())
	assert.NoError(t, err)
	assert.True(t, again.Equal(f.Time()))
}
