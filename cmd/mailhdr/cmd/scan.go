package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/emersion/go-mbox"
	"github.com/spf13/cobra"

	"github.com/zostay/go-mailtools/message"
)

var scanCmd = &cobra.Command{
	Use:   "scan mbox...",
	Short: "Print one header field from every message in an mbox",
	Long: `Scan walks the messages of one or more mbox files and prints
the chosen field's value for each, one line per message, an empty line
when a message does not carry the field.`,
	Args: cobra.MinimumNArgs(1),
	Run:  RunScan,
}

var scanField string

func init() {
	scanCmd.Flags().StringVarP(&scanField, "field", "f", "Subject", "field to print")
}

func RunScan(_ *cobra.Command, args []string) {
	for _, path := range args {
		if err := scanMbox(path); err != nil {
			fail("%s: %v", path, err)
		}
	}
}

func scanMbox(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	mr := mbox.NewReader(f)
	for {
		one, err := mr.NextMessage()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		m, err := message.Parse(one,
			message.WithHeaderOnly(),
			message.WithHeaderOptions(headerOptions()...),
		)
		if m == nil {
			return err
		}
		if err != nil {
			warn("%s: %v", path, err)
		}

		body, err := m.Header().Get(scanField)
		if err != nil {
			body = ""
		}
		fmt.Println(body)

		// leave the reader at the next separator even though the header
		// was all we read
		_, _ = io.Copy(io.Discard, one)
	}
}
