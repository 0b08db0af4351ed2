// Package hashing provides the digest functions used to bind blocks together.
//
// Every algorithm produces a 256-bit digest rendered as lowercase,
// zero-padded hexadecimal, so a digest always has the same width regardless
// of its numeric value. Algorithms are selected by name at construction time;
// an unknown name is a configuration error and is never replaced by a
// default.
//
// # Algorithms
//
//   - SHA-256 (the default)
//   - SHA-512/256
//   - SHA3-256
//   - BLAKE2b-256
//   - BLAKE2s-256
//   - suite:<name>, the hash function of a registered kyber cipher suite,
//     for example suite:Ed25519
package hashing
