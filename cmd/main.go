package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luca-patrignani/hcoin/config"
	"github.com/luca-patrignani/hcoin/hashing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	def := config.Default()
	var cfgFile string

	root := &cobra.Command{
		Use:          "hcoin",
		Short:        "A minimal proof-of-work ledger",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgFile == "" {
				return nil
			}
			return config.ReadFile(v, cfgFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (yaml, json or toml)")
	flags.String(config.KeyAlgorithm, def.Algorithm, "Hash algorithm: "+strings.Join(hashing.Algorithms(), "|")+" or suite:<name>")
	flags.String(config.KeyLogLevel, def.Log.Level, "Log level: debug|info|warn|error")
	flags.String(config.KeyLogFormat, def.Log.Format, "Log format: pretty|json|text")
	mustBind(v, flags.Lookup(config.KeyAlgorithm), flags.Lookup(config.KeyLogLevel), flags.Lookup(config.KeyLogFormat))

	root.AddCommand(newMineCmd(v), newHashCmd(v), newAlgorithmsCmd())
	return root
}

func newHashCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "hash [text...]",
		Short: "Print the digest of the given text",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hashing.New(v.GetString(config.KeyAlgorithm))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), h.SumString(strings.Join(args, " ")))
			return err
		},
	}
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the built-in hash algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range hashing.Algorithms() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
