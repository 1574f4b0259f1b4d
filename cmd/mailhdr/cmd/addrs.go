package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mailtools/field"
	"github.com/zostay/go-mailtools/message"
)

var addrsCmd = &cobra.Command{
	Use:   "addrs [file]",
	Short: "List the mailboxes named by a message's address fields",
	Long: `Addrs parses the address fields of a message and prints one
mailbox per line in canonical form. The fields to read come from the
--field flag, From, To, and Cc when the flag is not given.`,
	Args: cobra.MaximumNArgs(1),
	Run:  RunAddrs,
}

var addrFields []string

func init() {
	addrsCmd.Flags().StringSliceVarP(&addrFields, "field", "f", []string{"From", "To", "Cc"}, "fields to read addresses from")
}

func RunAddrs(_ *cobra.Command, args []string) {
	in, err := inputOrStdin(args)
	if err != nil {
		fail("%v", err)
	}
	defer func() { _ = in.Close() }()

	m, err := message.Parse(in,
		message.WithHeaderOnly(),
		message.WithHeaderOptions(headerOptions()...),
	)
	if m == nil {
		fail("%v", err)
	}
	if err != nil {
		warn("%v", err)
	}

	for _, tag := range addrFields {
		for _, body := range m.Header().GetAll(tag) {
			f, err := field.New(tag, body)
			if err != nil {
				warn("%s: %v", tag, err)
			}

			al, ok := f.(*field.AddressList)
			if !ok {
				warn("%s is not an address field", tag)
				break
			}
			for _, a := range al.Addresses() {
				fmt.Println(a.String())
			}
		}
	}
}
