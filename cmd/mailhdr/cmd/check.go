package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zostay/go-mailtools/message"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Verify a message survives a parse and rewrite unchanged",
	Long: `Check parses a message, writes it back out, and compares the
result to the input. A clean round trip prints nothing and exits zero.
Anything else prints the changed lines and exits one. Line break
normalization and a missing final newline are the usual suspects.`,
	Args: cobra.MaximumNArgs(1),
	Run:  RunCheck,
}

func RunCheck(_ *cobra.Command, args []string) {
	in, err := inputOrStdin(args)
	if err != nil {
		fail("%v", err)
	}
	defer func() { _ = in.Close() }()

	data, err := io.ReadAll(in)
	if err != nil {
		fail("%v", err)
	}

	m, err := message.Parse(bytes.NewReader(data),
		message.WithHeaderOptions(headerOptions()...),
	)
	if m == nil {
		fail("%v", err)
	}
	if err != nil {
		warn("%v", err)
	}

	var out bytes.Buffer
	if _, err := m.WriteTo(&out); err != nil {
		fail("%v", err)
	}

	if bytes.Equal(data, out.Bytes()) {
		return
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(data), out.String())
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			fmt.Println(prefix + line)
		}
	}
	os.Exit(1)
}
