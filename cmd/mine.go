package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pterm/pterm"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/luca-patrignani/hcoin/config"
	"github.com/luca-patrignani/hcoin/hashing"
	"github.com/luca-patrignani/hcoin/ledger"
	"github.com/luca-patrignani/hcoin/logging"
)

func newMineCmd(v *viper.Viper) *cobra.Command {
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine a genesis block and chain the configured payloads onto it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			log := logging.NewWithWriter(logging.Config{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
			}, cmd.ErrOrStderr())

			out := cmd.OutOrStdout()
			l, reg, err := mineChain(cmd.Context(), cfg, log, out)
			if err != nil {
				return err
			}

			printBlocks(out, l.Blocks())
			if err := printMetrics(out, reg); err != nil {
				log.Warn("Failed to render metrics", "error", err)
			}

			if err := l.Verify(); err != nil {
				pterm.Error.WithWriter(out).Println(err.Error())
				return fmt.Errorf("chain is invalid: %w", err)
			}
			pterm.Success.WithWriter(out).Printfln("Chain of %d blocks is valid", l.Len())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int(config.KeyDifficulty, def.Difficulty, "Number of leading '0' hex characters a mined hash needs")
	flags.String(config.KeyGenesis, def.Genesis, "Payload of the genesis block")
	flags.StringSlice(config.KeyPayloads, def.Payloads, "Payloads chained after the genesis block")
	flags.Duration(config.KeyTimeout, def.Timeout, "Give up mining a block after this long (0 waits forever)")
	mustBind(v, flags.Lookup(config.KeyDifficulty), flags.Lookup(config.KeyGenesis), flags.Lookup(config.KeyPayloads), flags.Lookup(config.KeyTimeout))

	return cmd
}

// mineChain builds a ledger from cfg, mines the genesis block and chains every
// payload onto the hash returned for the previous one.
func mineChain(ctx context.Context, cfg config.Config, log *slog.Logger, out io.Writer) (*ledger.Ledger, *prometheus.Registry, error) {
	h, err := hashing.New(cfg.Algorithm)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	l, err := ledger.NewLedger(cfg.Difficulty,
		ledger.WithHasher(h),
		ledger.WithLogger(log),
		ledger.WithMetrics(ledger.NewMetrics(reg)),
	)
	if err != nil {
		return nil, nil, err
	}

	payloads := append([]string{cfg.Genesis}, cfg.Payloads...)
	log.Info("Mining chain", "blocks", len(payloads), "difficulty", cfg.Difficulty, "algorithm", h.Algorithm())

	bar := progressbar.NewOptions(len(payloads),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Mining blocks..."),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	previousHash := ledger.GenesisPreviousHash
	for i, payload := range payloads {
		b, err := addWithTimeout(ctx, l, cfg, l.NewBlock(previousHash, payload))
		if err != nil {
			return nil, nil, fmt.Errorf("block %d: %w", i, err)
		}
		previousHash = b.Hash

		if err := bar.Add(1); err != nil {
			log.Warn("Failed to update progress bar", "error", err)
		}
	}
	if err := bar.Finish(); err != nil {
		log.Warn("Failed to finish progress bar", "error", err)
	}

	return l, reg, nil
}

func addWithTimeout(ctx context.Context, l *ledger.Ledger, cfg config.Config, candidate ledger.Block) (ledger.Block, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	return l.AddContext(ctx, candidate)
}

func mustBind(v *viper.Viper, flags ...*pflag.Flag) {
	for _, f := range flags {
		if err := v.BindPFlag(f.Name, f); err != nil {
			panic(err)
		}
	}
}
