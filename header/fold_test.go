package header_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mailtools/header"
)

func TestFoldStructuredAtCommas(t *testing.T) {
	t.Parallel()

	folded := header.Fold("To: a@x.com, b@x.com, c@x.com, d@x.com, e@x.com", 20)
	lines := strings.Split(folded, "\n")
	require.Greater(t, len(lines), 1)

	for i, line := range lines {
		assert.LessOrEqual(t, len(line), 20, "line %d too long: %q", i, line)
		if i > 0 {
			assert.True(t, strings.HasPrefix(line, " "), "continuation %d has no indent: %q", i, line)
		}
	}
	for _, line := range lines[:len(lines)-1] {
		assert.True(t, strings.HasSuffix(line, ","), "structured fold should break at commas: %q", line)
	}

	// nothing was lost in the folding
	assert.Equal(t,
		"To: a@x.com, b@x.com, c@x.com, d@x.com, e@x.com",
		header.Unfold(folded))
}

func TestFoldShortLineUntouched(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "To: a@x.com", header.Fold("To: a@x.com", 79))
}

func TestFoldPlainAtWhitespace(t *testing.T) {
	t.Parallel()

	folded := header.Fold("Subject: The quick brown fox jumps over the lazy dog again and again", 40)
	lines := strings.Split(folded, "\n")
	require.Greater(t, len(lines), 1)

	for i, line := range lines {
		assert.LessOrEqual(t, len(line), 40, "line %d too long: %q", i, line)
		if i > 0 {
			assert.Regexp(t, `^\s`, line)
		}
	}
	assert.Equal(t,
		"Subject: The quick brown fox jumps over the lazy dog again and again",
		header.Unfold(folded))
}

func TestFoldNeverSplitsQuotedStrings(t *testing.T) {
	t.Parallel()

	folded := header.Fold(`To: "Smith, Jane Q." <js@example.com>, "Doe, John" <jd@example.com>`, 30)
	for _, line := range strings.Split(folded, "\n") {
		assert.Equal(t, strings.Count(line, `"`)%2, 0, "quoted string split across lines: %q", line)
	}
}

func TestFoldLeavesEnvelopeLinesAlone(t *testing.T) {
	t.Parallel()

	env := "From sender@example.com Sat Jan  3 01:05:34 1996"
	assert.Equal(t, env, header.Fold(env, 20))
}

func TestFoldUnbreakableToken(t *testing.T) {
	t.Parallel()

	long := "X-Token: " + strings.Repeat("a", 100)
	folded := header.Fold(long, 40)

	// the token cannot be split, so it rides an over-length line
	assert.Equal(t, header.Unfold(folded), long)
	for _, line := range strings.Split(folded, "\n") {
		assert.NotContains(t, strings.TrimSpace(line), " ",
			"a fold may not split inside a token: %q", line)
	}
}

func TestFoldClampsTinyLengths(t *testing.T) {
	t.Parallel()

	// lengths below 20 are clamped up to 20
	a := header.Fold("To: a@x.com, b@x.com, c@x.com", 1)
	b := header.Fold("To: a@x.com, b@x.com, c@x.com", 20)
	assert.Equal(t, b, a)
}

func TestFoldRefoldsFoldedInput(t *testing.T) {
	t.Parallel()

	once := header.Fold("To: a@x.com, b@x.com, c@x.com, d@x.com, e@x.com", 20)
	wide := header.Fold(once, 79)
	assert.Equal(t, "To: a@x.com, b@x.com, c@x.com, d@x.com, e@x.com", wide)
}

func TestFoldUnfoldAcrossLengths(t *testing.T) {
	t.Parallel()

	lines := []string{
		"To: a@x.com, b@x.com, c@x.com, d@x.com, e@x.com",
		"Cc: Mary Smith <mary@x.test>, jdoe@example.org, Who? <one@y.test>, last@example.net",
		"Subject: a perfectly ordinary sentence long enough to need wrapping at several widths",
		"Received: from relay.example.com by mx.example.com with ESMTP id ABC123; Sat, 31 Jan 2015 03:23:09 +0000",
	}

	for _, line := range lines {
		for _, n := range []int{20, 25, 40, 60, 79, 200} {
			folded := header.Fold(line, n)

			// folding then unfolding gives the line back
			assert.Equal(t, line, header.Unfold(folded), "fold %q at %d", line, n)

			// and no physical line runs long
			for _, phys := range strings.Split(folded, "\n") {
				assert.LessOrEqual(t, len(phys), n, "fold %q at %d made %q", line, n, phys)
			}
		}
	}
}

func TestUnfold(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"To: a@x.com, b@x.com",
		header.Unfold("To: a@x.com,\n b@x.com"))

	// all the continuation whitespace collapses to one space, even the
	// deep indents some mailers write
	assert.Equal(t,
		"Received: from a by b; Sat, 31 Jan 2015 03:23:09 +0000",
		header.Unfold("Received: from a by b;\r\n        Sat, 31 Jan 2015 03:23:09 +0000"))

	// a line with no folds passes through
	assert.Equal(t, "Subject: hi", header.Unfold("Subject: hi"))
}
