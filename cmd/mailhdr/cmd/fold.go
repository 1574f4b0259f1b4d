package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mailtools/header"
	"github.com/zostay/go-mailtools/message"
)

var foldCmd = &cobra.Command{
	Use:   "fold [file]",
	Short: "Refold a message's header to a line length",
	Long: `Fold reads a message from a file or stdin, refolds every header
field to the requested line length, and writes the message back out.
The body passes through untouched.`,
	Args: cobra.MaximumNArgs(1),
	Run:  RunFold,
}

var foldLength int

func init() {
	foldCmd.Flags().IntVarP(&foldLength, "length", "l", header.DefaultFoldLength, "maximum line length")
}

func RunFold(cmd *cobra.Command, args []string) {
	in, err := inputOrStdin(args)
	if err != nil {
		fail("%v", err)
	}
	defer func() { _ = in.Close() }()

	length := foldLength
	if !cmd.Flags().Changed("length") && config.FoldLength > 0 {
		length = config.FoldLength
	}

	opts := append(headerOptions(),
		header.WithModify(true),
		header.WithFoldLength(length),
	)

	m, err := message.Parse(in, message.WithHeaderOptions(opts...))
	if m == nil {
		fail("%v", err)
	}
	if err != nil {
		warn("%v", err)
	}

	if _, err := m.WriteTo(os.Stdout); err != nil {
		fail("%v", err)
	}
}
