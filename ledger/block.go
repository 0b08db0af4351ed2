package ledger

import (
	"fmt"
	"time"

	"github.com/luca-patrignani/hcoin/hashing"
)

// GenesisPreviousHash is the sentinel previous hash carried by the first block.
const GenesisPreviousHash = "0"

// Block is a single entry of the chain. Blocks are values: mining produces a
// new Block per attempt and a Block stored in a Ledger is never modified.
type Block struct {
	PreviousHash string `json:"previous_hash"`
	Payload      string `json:"payload"`
	Timestamp    int64  `json:"timestamp"` // milliseconds since epoch
	Nonce        uint64 `json:"nonce"`
	Hash         string `json:"hash"`
}

// NewBlock builds a block with nonce 0 and computes its hash with h.
// The returned block is consistent but not necessarily mined.
func NewBlock(h hashing.Hasher, previousHash, payload string, timestamp int64) Block {
	b := Block{
		PreviousHash: previousHash,
		Payload:      payload,
		Timestamp:    timestamp,
		Nonce:        0,
	}
	b.Hash = b.CalculateHash(h)
	return b
}

// CalculateHash digests previous hash, payload, timestamp and nonce, in that
// order, ignoring the stored Hash.
func (b Block) CalculateHash(h hashing.Hasher) string {
	data := fmt.Sprintf("%s%s%d%d",
		b.PreviousHash,
		b.Payload,
		b.Timestamp,
		b.Nonce,
	)
	return h.SumString(data)
}

// WithNonce returns a copy of b with the given nonce and a recomputed hash.
func (b Block) WithNonce(h hashing.Hasher, nonce uint64) Block {
	b.Nonce = nonce
	b.Hash = b.CalculateHash(h)
	return b
}

func (b Block) String() string {
	return fmt.Sprintf("Block(previousHash=%s, payload=%s, timestamp=%d, nonce=%d, hash=%s)",
		b.PreviousHash, b.Payload, b.Timestamp, b.Nonce, b.Hash)
}

// NowMillis converts a clock reading into a block timestamp.
func NowMillis(t time.Time) int64 {
	return t.UnixMilli()
}
