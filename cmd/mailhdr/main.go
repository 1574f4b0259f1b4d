package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-mailtools/cmd/mailhdr/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
