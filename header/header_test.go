package header_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mailtools/header"
)

const basicHeader = `Received: from relay.example.com by mx.example.com;
	Sat, 31 Jan 2015 03:23:09 +0000
From: "Mr. Foo" <foo@bar.com>
To: one@example.com, two@example.com
Subject: a test
	that folds
X-MAILER: archaic mailer 0.9
To: three@example.com
`

func TestParseBasics(t *testing.T) {
	t.Parallel()

	h, err := header.Parse([]byte(basicHeader))
	require.NoError(t, err)
	require.NotNil(t, h)

	assert.Equal(t, 6, h.Len())
	assert.Equal(t, 2, h.Count("to"))
	assert.Equal(t, []string{"Received", "From", "To", "Subject", "X-Mailer"}, h.Tags())

	// bodies come back unfolded
	subject, err := h.Get("subject")
	assert.NoError(t, err)
	assert.Equal(t, "a test that folds", subject)

	recv, err := h.Get("Received")
	assert.NoError(t, err)
	assert.Equal(t,
		"from relay.example.com by mx.example.com; Sat, 31 Jan 2015 03:23:09 +0000",
		recv)

	// lookups are by canonical tag, however the field was spelled
	mailer, err := h.Get("x-mailer")
	assert.NoError(t, err)
	assert.Equal(t, "archaic mailer 0.9", mailer)

	assert.Equal(t, []string{"one@example.com, two@example.com", "three@example.com"},
		h.GetAll("To"))

	_, err = h.Get("Date")
	assert.ErrorIs(t, err, header.ErrNoSuchField)
	_, err = h.GetN("To", 5)
	assert.ErrorIs(t, err, header.ErrIndexOutOfRange)
}

func TestParsePreservesBytes(t *testing.T) {
	t.Parallel()

	// without WithModify the physical lines survive exactly, original
	// casing, folding, and all
	h, err := header.Parse([]byte(basicHeader))
	require.NoError(t, err)

	var buf strings.Builder
	n, err := h.WriteTo(&buf)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(basicHeader)), n)
	assert.Equal(t, basicHeader, buf.String())
}

func TestParseDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	// a blank line between a field and its continuation is dropped from
	// the parse without disturbing the caller's bytes
	block := []byte("Subject: one\n\n two\nKeep: me\n")
	orig := string(block)

	h, err := header.Parse(block)
	require.NoError(t, err)

	subject, err := h.Get("Subject")
	assert.NoError(t, err)
	assert.Equal(t, "one two", subject)

	keep, err := h.Get("Keep")
	assert.NoError(t, err)
	assert.Equal(t, "me", keep)

	assert.Equal(t, orig, string(block))
}

func TestParseRefoldsWhenModifying(t *testing.T) {
	t.Parallel()

	h, err := header.Parse([]byte(basicHeader), header.WithModify(true), header.WithFoldLength(78))
	require.NoError(t, err)

	for _, line := range h.Lines() {
		for _, phys := range strings.Split(line, "\n") {
			assert.LessOrEqual(t, len(phys), 78)
		}
	}

	// the logical values are unchanged by refolding
	subject, err := h.Get("Subject")
	assert.NoError(t, err)
	assert.Equal(t, "a test that folds", subject)
}

func TestParseBadStart(t *testing.T) {
	t.Parallel()

	h, err := header.Parse([]byte("this is not a header line\nSubject: still parsed\n"))

	var bad *header.BadStartError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, "this is not a header line\n", string(bad.BadStart))

	require.NotNil(t, h)
	subject, err := h.Get("Subject")
	assert.NoError(t, err)
	assert.Equal(t, "still parsed", subject)
}

func TestAddAndSet(t *testing.T) {
	t.Parallel()

	h, err := header.New()
	require.NoError(t, err)

	require.NoError(t, h.Add("to", "one@example.com"))
	require.NoError(t, h.Add("Subject", "hello"))
	require.NoError(t, h.Add("To", "two@example.com"))

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []string{"To", "Subject"}, h.Tags())
	assert.Equal(t, []string{"To: one@example.com", "Subject: hello", "To: two@example.com"},
		h.Lines())

	// Set replaces the first and leaves the second alone
	require.NoError(t, h.Set("To", "replaced@example.com"))
	assert.Equal(t, []string{"replaced@example.com", "two@example.com"}, h.GetAll("To"))

	// Set on a missing field adds it
	require.NoError(t, h.Set("Date", "Sat, 31 Jan 2015 03:23:09 +0000"))
	assert.Equal(t, 4, h.Len())

	// SetN targets one occurrence
	require.NoError(t, h.SetN("To", "second@example.com", 1))
	assert.Equal(t, []string{"replaced@example.com", "second@example.com"}, h.GetAll("To"))
	assert.ErrorIs(t, h.SetN("To", "x", 2), header.ErrIndexOutOfRange)

	// bodies with line breaks are flattened on the way in
	require.NoError(t, h.Set("Subject", "broken\n in two"))
	subject, err := h.Get("Subject")
	assert.NoError(t, err)
	assert.Equal(t, "broken in two", subject)
}

func TestAddRejectsBadNames(t *testing.T) {
	t.Parallel()

	h, err := header.New()
	require.NoError(t, err)

	assert.ErrorIs(t, h.Add("bad name", "x"), header.ErrBadFieldName)
	assert.ErrorIs(t, h.Add("bad:name", "x"), header.ErrBadFieldName)
	assert.ErrorIs(t, h.Add("", "x"), header.ErrBadFieldName)

	// a failed add leaves the header as it was
	assert.Equal(t, 0, h.Len())
}

func TestInsert(t *testing.T) {
	t.Parallel()

	h, err := header.New()
	require.NoError(t, err)
	require.NoError(t, h.Add("Received", "from a"))
	require.NoError(t, h.Add("To", "x@example.com"))
	require.NoError(t, h.Add("Received", "from b"))

	// a new first Received goes ahead of the others, leaving the rest
	// of the header alone
	require.NoError(t, h.Insert("Received", "from c", 0))
	assert.Equal(t, []string{"from c", "from a", "from b"}, h.GetAll("Received"))
	assert.Equal(t, []string{
		"Received: from c",
		"Received: from a",
		"To: x@example.com",
		"Received: from b",
	}, h.Lines())

	// inserting at the count appends after the last occurrence
	require.NoError(t, h.Insert("Received", "from d", 3))
	assert.Equal(t, []string{"from c", "from a", "from b", "from d"}, h.GetAll("Received"))

	assert.ErrorIs(t, h.Insert("Received", "from e", 9), header.ErrIndexOutOfRange)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	h, err := header.Parse([]byte(basicHeader))
	require.NoError(t, err)

	assert.Equal(t, 2, h.Delete("To"))
	assert.Equal(t, 0, h.Count("To"))
	assert.Equal(t, 4, h.Len())
	_, err = h.Get("To")
	assert.ErrorIs(t, err, header.ErrNoSuchField)

	assert.Equal(t, 0, h.Delete("To"))

	require.NoError(t, h.DeleteN("Subject", 0))
	assert.Equal(t, 3, h.Len())
	assert.ErrorIs(t, h.DeleteN("Subject", 0), header.ErrIndexOutOfRange)

	// deleted fields no longer appear in output
	assert.NotContains(t, h.String(), "Subject")

	// pile up enough tombstones and the arena compacts on the next add,
	// without disturbing what is left
	assert.Equal(t, 1, h.Delete("X-Mailer"))
	require.NoError(t, h.Add("X-Filler", "x"))

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []string{"Received", "From", "X-Filler"}, h.Tags())
	from, err := h.Get("From")
	assert.NoError(t, err)
	assert.Equal(t, `"Mr. Foo" <foo@bar.com>`, from)
}

func TestCombine(t *testing.T) {
	t.Parallel()

	h, err := header.New()
	require.NoError(t, err)
	require.NoError(t, h.Add("To", "one@example.com"))
	require.NoError(t, h.Add("Subject", "keep me here"))
	require.NoError(t, h.Add("To", "two@example.com"))
	require.NoError(t, h.Add("To", "three@example.com"))

	require.NoError(t, h.Combine("To", ", "))

	assert.Equal(t, 1, h.Count("To"))
	to, err := h.Get("To")
	assert.NoError(t, err)
	assert.Equal(t, "one@example.com, two@example.com, three@example.com", to)

	// the combined field sits where the first occurrence was
	assert.Equal(t, []string{
		"To: one@example.com, two@example.com, three@example.com",
		"Subject: keep me here",
	}, h.Lines())

	// combining a lone or missing field changes nothing
	require.NoError(t, h.Combine("Subject", " "))
	require.NoError(t, h.Combine("Date", " "))
	assert.Equal(t, 2, h.Len())
}

func TestExtract(t *testing.T) {
	t.Parallel()

	h, err := header.Parse([]byte(basicHeader))
	require.NoError(t, err)

	sub := h.Extract("To", "Bcc")
	require.NotNil(t, sub)

	assert.Equal(t, 2, sub.Len())
	assert.Equal(t, []string{"one@example.com, two@example.com", "three@example.com"},
		sub.GetAll("To"))

	assert.Equal(t, 0, h.Count("To"))
	assert.Equal(t, 4, h.Len())
	assert.NotContains(t, h.String(), "To:")
}

func TestClone(t *testing.T) {
	t.Parallel()

	h, err := header.Parse([]byte(basicHeader))
	require.NoError(t, err)

	c := h.Clone()
	require.NoError(t, c.Set("Subject", "changed"))
	c.Delete("To")
	require.NoError(t, c.Add("X-New", "only here"))

	// the original does not feel any of it
	subject, err := h.Get("Subject")
	assert.NoError(t, err)
	assert.Equal(t, "a test that folds", subject)
	assert.Equal(t, 2, h.Count("To"))
	assert.Equal(t, 0, h.Count("X-New"))

	assert.Equal(t, basicHeader, h.String())
}

func TestMap(t *testing.T) {
	t.Parallel()

	h, err := header.Parse([]byte(basicHeader))
	require.NoError(t, err)

	m := h.Map()
	assert.Equal(t, []string{"one@example.com, two@example.com", "three@example.com"}, m["To"])
	assert.Equal(t, []string{"a test that folds"}, m["Subject"])
}

func TestMailFromPolicies(t *testing.T) {
	t.Parallel()

	const mboxTop = `From foo@bar.com Sat Jan  3 01:05:34 1996
Subject: hello
`

	// KEEP is the default: the line is stored under the pseudo-tag
	h, err := header.Parse([]byte(mboxTop))
	require.NoError(t, err)
	assert.Equal(t, 2, h.Len())
	env, err := h.Get(header.MailFromTag)
	assert.NoError(t, err)
	assert.Equal(t, "foo@bar.com Sat Jan  3 01:05:34 1996", env)
	assert.Equal(t, strings.Split(mboxTop, "\n")[0], h.Lines()[0])

	// IGNORE drops it silently
	h, err = header.Parse([]byte(mboxTop), header.WithMailFrom(header.MailFromIgnore))
	require.NoError(t, err)
	assert.Equal(t, 1, h.Len())

	// COERCE rewrites it into a Mail-From field
	h, err = header.Parse([]byte(mboxTop), header.WithMailFrom(header.MailFromCoerce))
	require.NoError(t, err)
	assert.Equal(t, 2, h.Len())
	mf, err := h.Get("Mail-From")
	assert.NoError(t, err)
	assert.Equal(t, "foo@bar.com Sat Jan  3 01:05:34 1996", mf)

	// ERROR reports it but the rest of the header still parses
	h, err = header.Parse([]byte(mboxTop), header.WithMailFrom(header.MailFromError))
	assert.ErrorIs(t, err, header.ErrMailFromLine)
	var perr *header.ParseError
	assert.ErrorAs(t, err, &perr)
	require.NotNil(t, h)
	assert.Equal(t, 1, h.Len())
	subject, err := h.Get("Subject")
	assert.NoError(t, err)
	assert.Equal(t, "hello", subject)
}

func TestBadMailFromPolicyFailsFast(t *testing.T) {
	t.Parallel()

	_, err := header.New(header.WithMailFrom("SHRUG"))
	assert.ErrorIs(t, err, header.ErrBadMailFrom)

	_, err = header.Parse([]byte("Subject: x\n"), header.WithMailFrom("SHRUG"))
	assert.ErrorIs(t, err, header.ErrBadMailFrom)
}

func TestPerTagFoldLengths(t *testing.T) {
	t.Parallel()

	h, err := header.New(
		header.WithModify(true),
		header.WithFoldLength(40),
		header.WithTagFoldLength("X-Wide", 200),
	)
	require.NoError(t, err)

	assert.Equal(t, 200, h.FoldLength("x-wide"))
	assert.Equal(t, 40, h.FoldLength("Subject"))

	long := strings.Repeat("word ", 20)
	require.NoError(t, h.Add("X-Wide", long))
	require.NoError(t, h.Add("X-Narrow", long))

	assert.NotContains(t, h.Lines()[0], "\n")
	assert.Contains(t, h.Lines()[1], "\n")
}

func TestHeaderFoldAndUnfold(t *testing.T) {
	t.Parallel()

	h, err := header.New()
	require.NoError(t, err)
	require.NoError(t, h.Add("To", "a@x.com, b@x.com, c@x.com, d@x.com, e@x.com"))

	// stored unfolded by default; folding is explicit
	assert.NotContains(t, h.Lines()[0], "\n")

	h.Fold(20)
	assert.Contains(t, h.Lines()[0], "\n")

	h.Unfold()
	assert.Equal(t, "To: a@x.com, b@x.com, c@x.com, d@x.com, e@x.com", h.Lines()[0])
}
