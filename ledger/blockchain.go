package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/luca-patrignani/hcoin/hashing"
)

// Errors returned by NewLedger and the getters.
var (
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrEmptyLedger       = errors.New("ledger is empty")
	ErrIndexOutOfRange   = errors.New("index out of range")

	// Verify wraps one of these with the index of the offending block.
	ErrHashMismatch = errors.New("stored hash does not match block contents")
	ErrBrokenLink   = errors.New("previous hash does not match previous block")
	ErrNotMined     = errors.New("hash does not meet difficulty")
)

// Ledger is an in-memory, append-only chain of mined blocks. It is safe for
// concurrent use: writers are serialized for the whole mining search, while
// readers only wait for the append itself.
type Ledger struct {
	// writeMu serializes writers for the whole mine-then-append sequence.
	writeMu sync.Mutex

	mu     sync.RWMutex
	blocks []Block

	difficulty int
	prefix     string

	hasher  hashing.Hasher
	clock   func() time.Time
	logger  *slog.Logger
	metrics *Metrics
}

// NewLedger creates an empty ledger. A block is mined when the first
// difficulty characters of its hash are '0'. The difficulty must fit within
// the digest width of the configured hasher.
func NewLedger(difficulty int, opts ...ledgerOption) (*Ledger, error) {
	l := &Ledger{
		blocks:     make([]Block, 0),
		difficulty: difficulty,
		hasher:     hashing.Default(),
		clock:      time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.hasher == nil {
		return nil, errors.New("hasher must not be nil")
	}
	if difficulty < 0 || difficulty > l.hasher.HexLen() {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidDifficulty, difficulty, l.hasher.HexLen())
	}
	l.prefix = strings.Repeat("0", difficulty)
	l.metrics.setHeight(0)

	return l, nil
}

// Difficulty returns the number of leading '0' hex characters a mined hash
// must have.
func (l *Ledger) Difficulty() int { return l.difficulty }

// Hasher returns the digest algorithm used for every block in the ledger.
func (l *Ledger) Hasher() hashing.Hasher { return l.hasher }

// NewBlock builds an unmined candidate stamped with the ledger's clock.
func (l *Ledger) NewBlock(previousHash, payload string) Block {
	return NewBlock(l.hasher, previousHash, payload, NowMillis(l.clock()))
}

// Add mines candidate, appends the result and returns it.
// Add blocks until a nonce is found; use AddContext to bound the search.
func (l *Ledger) Add(candidate Block) Block {
	b, err := l.AddContext(context.Background(), candidate)
	if err != nil {
		panic(err)
	}
	return b
}

// AddContext is like Add but gives up when ctx is done. The ledger is left
// untouched if mining is abandoned.
func (l *Ledger) AddContext(ctx context.Context, candidate Block) (Block, error) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	return l.mineAndAppend(ctx, candidate)
}

// AddPayload builds a candidate referencing previousHash and adds it.
func (l *Ledger) AddPayload(previousHash, payload string) Block {
	return l.Add(l.NewBlock(previousHash, payload))
}

// Append chains payload onto the current tail, or onto GenesisPreviousHash
// when the ledger is empty. Reading the tail and appending the mined block
// happen under the same writer lock.
func (l *Ledger) Append(ctx context.Context, payload string) (Block, error) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	previousHash := GenesisPreviousHash
	if latest, err := l.GetLatest(); err == nil {
		previousHash = latest.Hash
	}
	return l.mineAndAppend(ctx, l.NewBlock(previousHash, payload))
}

func (l *Ledger) mineAndAppend(ctx context.Context, candidate Block) (Block, error) {
	mined, err := l.MineContext(ctx, candidate)
	if err != nil {
		return Block{}, fmt.Errorf("mining block: %w", err)
	}

	l.mu.Lock()
	l.blocks = append(l.blocks, mined)
	height := len(l.blocks)
	l.mu.Unlock()

	l.metrics.setHeight(height)
	return mined, nil
}

// Len returns the number of blocks.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.blocks)
}

// Blocks returns a copy of the chain in order.
func (l *Ledger) Blocks() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Block, len(l.blocks))
	copy(out, l.blocks)
	return out
}

// GetLatest returns the most recently added block.
func (l *Ledger) GetLatest() (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.blocks) == 0 {
		return Block{}, ErrEmptyLedger
	}
	return l.blocks[len(l.blocks)-1], nil
}

// GetByIndex retrieves a block by its position in the chain, genesis being 0.
// Returns ErrIndexOutOfRange if the index does not exist.
func (l *Ledger) GetByIndex(index int) (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index < 0 || index >= len(l.blocks) {
		return Block{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return l.blocks[index], nil
}

// IsValid reports whether the chain passes Verify.
func (l *Ledger) IsValid() bool {
	return l.Verify() == nil
}

// Verify checks the whole chain and returns the first violation found.
// An empty ledger is valid. A single block is only checked for integrity,
// while in longer chains every block must also be linked and mined.
func (l *Ledger) Verify() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	switch len(l.blocks) {
	case 0:
		return nil
	case 1:
		genesis := l.blocks[0]
		if genesis.Hash != genesis.CalculateHash(l.hasher) {
			return fmt.Errorf("block 0 invalid: %w", ErrHashMismatch)
		}
		return nil
	}

	for i := 1; i < len(l.blocks); i++ {
		if err := l.validateBlock(l.blocks[i], l.blocks[i-1]); err != nil {
			return fmt.Errorf("block %d invalid: %w", i, err)
		}
	}
	return nil
}

// validateBlock checks that current hashes to its stored value, links to the
// recomputed hash of previous, and that both stored hashes meet the
// difficulty. The genesis stored hash is only ever checked for mined-ness.
func (l *Ledger) validateBlock(current, previous Block) error {
	currentHash := current.CalculateHash(l.hasher)
	if current.Hash != currentHash {
		return fmt.Errorf("%w: stored %s, computed %s", ErrHashMismatch, current.Hash, currentHash)
	}

	previousHash := previous.CalculateHash(l.hasher)
	if current.PreviousHash != previousHash {
		return fmt.Errorf("%w: expected %s, got %s", ErrBrokenLink, previousHash, current.PreviousHash)
	}

	if !l.IsMined(previous) {
		return fmt.Errorf("previous block: %w", ErrNotMined)
	}
	if !l.IsMined(current) {
		return ErrNotMined
	}
	return nil
}
