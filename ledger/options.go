package ledger

import (
	"log/slog"
	"time"

	"github.com/luca-patrignani/hcoin/hashing"
)

type ledgerOption func(*Ledger)

// WithHasher sets the digest algorithm. The default is SHA-256.
func WithHasher(h hashing.Hasher) ledgerOption {
	return func(l *Ledger) {
		l.hasher = h
	}
}

// WithClock sets the time source used by NewBlock, AddPayload and Append.
func WithClock(clock func() time.Time) ledgerOption {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// WithLogger sets the logger that reports mining progress. The default is
// slog.Default().
func WithLogger(logger *slog.Logger) ledgerOption {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithMetrics enables prometheus instrumentation. Without it the ledger
// records nothing.
func WithMetrics(m *Metrics) ledgerOption {
	return func(l *Ledger) {
		l.metrics = m
	}
}
