package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luca-patrignani/hcoin/config"
	"github.com/luca-patrignani/hcoin/hashing"
	"github.com/luca-patrignani/hcoin/ledger"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMineChain(t *testing.T) {
	cfg := config.Default()
	cfg.Difficulty = 2
	cfg.Genesis = "a"
	cfg.Payloads = []string{"b", "c"}

	l, reg, err := mineChain(context.Background(), cfg, quietLogger(), io.Discard)
	require.NoError(t, err)
	require.NotNil(t, reg)

	blocks := l.Blocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, ledger.GenesisPreviousHash, blocks[0].PreviousHash)
	for i, b := range blocks {
		assert.True(t, strings.HasPrefix(b.Hash, "00"))
		if i > 0 {
			assert.Equal(t, blocks[i-1].Hash, b.PreviousHash)
		}
	}
	assert.Equal(t, []string{"a", "b", "c"}, []string{blocks[0].Payload, blocks[1].Payload, blocks[2].Payload})
	assert.True(t, l.IsValid())
}

func TestMineChainTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Difficulty = 64
	cfg.Timeout = 10 * time.Millisecond

	_, _, err := mineChain(context.Background(), cfg, quietLogger(), io.Discard)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMineCommand(t *testing.T) {
	out, err := execute(t, "mine", "--difficulty", "2", "--genesis", "a", "--payloads", "b,c", "--log.format", "json")
	require.NoError(t, err)

	assert.Contains(t, out, "GENESIS")
	assert.Contains(t, out, "BLOCK 2")
	assert.Contains(t, out, "hcoin_blocks_mined_total")
	assert.Contains(t, out, "Chain of 3 blocks is valid")
}

func TestMineCommandWithAlgorithm(t *testing.T) {
	out, err := execute(t, "mine", "--difficulty", "1", "--payloads", "x", "--algorithm", "sha3-256", "--log.format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Chain of 2 blocks is valid")
}

func TestMineCommandRejectsUnknownAlgorithm(t *testing.T) {
	_, err := execute(t, "mine", "--algorithm", "md5")
	require.Error(t, err)
	assert.ErrorIs(t, err, hashing.ErrUnsupportedAlgorithm)
}

func TestMineCommandRejectsNegativeDifficulty(t *testing.T) {
	_, err := execute(t, "mine", "--difficulty=-1")
	assert.Error(t, err)
}

func TestHashCommand(t *testing.T) {
	out, err := execute(t, "hash", "abc")
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad\n", out)
}

func TestAlgorithmsCommand(t *testing.T) {
	out, err := execute(t, "algorithms")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(hashing.Algorithms(), "\n")+"\n", out)
}
