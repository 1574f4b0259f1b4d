package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/zostay/go-mailtools/header"
)

var rootCmd = &cobra.Command{
	Use:   "mailhdr",
	Short: "Inspect and rewrite mail message headers",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
}

// Config is the optional TOML configuration shared by every subcommand.
type Config struct {
	// FoldLength is the default maximum line length when refolding.
	FoldLength int `toml:"fold_length"`

	// TagFoldLength overrides the fold length for particular tags.
	TagFoldLength map[string]int `toml:"tag_fold_length"`

	// MailFrom picks the policy for mbox "From " envelope lines:
	// keep, ignore, error, or coerce.
	MailFrom string `toml:"mail_from"`
}

var (
	configPath string
	config     Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")

	rootCmd.AddCommand(foldCmd)
	rootCmd.AddCommand(addrsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(scanCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() error {
	if configPath == "" {
		return nil
	}
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return fmt.Errorf("reading config %s: %w", configPath, err)
	}
	return nil
}

// headerOptions translates the configuration into options for the
// commands that parse headers. A bad policy name surfaces later, when
// header.New rejects it.
func headerOptions() []header.Option {
	var opts []header.Option
	if config.FoldLength > 0 {
		opts = append(opts, header.WithFoldLength(config.FoldLength))
	}
	if len(config.TagFoldLength) > 0 {
		opts = append(opts, header.WithFoldTable(config.TagFoldLength))
	}
	if config.MailFrom != "" {
		policy := header.MailFromPolicy(strings.ToUpper(config.MailFrom))
		opts = append(opts, header.WithMailFrom(policy))
	}
	return opts
}

// inputOrStdin opens the optional file argument, or hands back stdin.
func inputOrStdin(args []string) (io.ReadCloser, error) {
	if len(args) == 0 {
		return os.Stdin, nil
	}
	return os.Open(args[0])
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "mailhdr: "+format+"\n", args...)
	os.Exit(1)
}

func warn(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "mailhdr: "+format+"\n", args...)
}
