// Package ledger implements an in-memory proof-of-work blockchain.
//
// # Core Components
//
// Block: a record of the previous block's hash, an opaque payload, a
// millisecond timestamp, a nonce and the digest of those four fields.
//
// Ledger: an append-only sequence of blocks with a fixed difficulty. A block
// is mined when the first difficulty characters of its hex hash are all '0'.
// Add mines a candidate by trying successive nonces and appends the result.
//
// # Validation
//
// IsValid checks, for each adjacent pair, that the current block's stored
// hash matches its recomputed one, that it references the recomputed hash of
// its predecessor, and that both stored hashes are mined. A ledger holding a
// single block is only checked for integrity. In longer chains the genesis
// stored hash is only checked for mined-ness. Verify runs
// the same scan and reports which block failed and why.
//
// # Concurrency
//
// A Ledger is safe for concurrent use. Writers are serialized, mining
// included, so two writers never race on the same tail. Readers only wait
// for the append itself, never for a mining search.
package ledger
