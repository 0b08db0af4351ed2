package ledger

import (
	"context"
	"errors"
	"strings"
	"time"
)

// cancelCheckInterval is how many nonces are tried between context checks.
const cancelCheckInterval = 1024

// ErrNonceSpaceExhausted is returned when every uint64 nonce has been tried
// without meeting the difficulty.
var ErrNonceSpaceExhausted = errors.New("nonce space exhausted")

// IsMined reports whether the block's stored hash meets the difficulty.
func (l *Ledger) IsMined(b Block) bool {
	return l.meetsDifficulty(b.Hash)
}

// meetsDifficulty is a textual prefix check on the hex digest, not a numeric
// comparison.
func (l *Ledger) meetsDifficulty(hash string) bool {
	return strings.HasPrefix(hash, l.prefix)
}

// Mine returns candidate unchanged if it is already mined. Otherwise it tries
// nonces in increasing order starting at candidate.Nonce and returns the first
// block that meets the difficulty. The search is unbounded; use MineContext
// to abandon it.
func (l *Ledger) Mine(candidate Block) Block {
	b, err := l.MineContext(context.Background(), candidate)
	if err != nil {
		panic(err)
	}
	return b
}

// MineContext is like Mine but returns ctx.Err() once ctx is done. A candidate
// that is already mined is returned without searching and is not counted in
// the mining metrics.
func (l *Ledger) MineContext(ctx context.Context, candidate Block) (Block, error) {
	if l.IsMined(candidate) {
		return candidate, nil
	}

	l.logger.Debug("Mining", "block", candidate.String(), "difficulty", l.difficulty)

	start := time.Now()
	nonce := candidate.Nonce
	var attempts uint64
	for {
		if attempts%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				l.metrics.observeSearch(attempts, time.Since(start), false)
				l.logger.Warn("Mining abandoned", "attempts", attempts, "error", err)
				return Block{}, err
			}
		}

		b := candidate.WithNonce(l.hasher, nonce)
		attempts++
		if l.IsMined(b) {
			elapsed := time.Since(start)
			l.metrics.observeSearch(attempts, elapsed, true)
			l.logger.Info("Mined", "nonce", b.Nonce, "hash", b.Hash, "attempts", attempts, "elapsed", elapsed)
			return b, nil
		}

		nonce++
		if nonce == candidate.Nonce {
			l.metrics.observeSearch(attempts, time.Since(start), false)
			return Block{}, ErrNonceSpaceExhausted
		}
	}
}
