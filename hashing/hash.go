package hashing

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.dedis.ch/kyber/v4/suites"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

const (
	SHA256     = "SHA-256"
	SHA512_256 = "SHA-512/256"
	SHA3_256   = "SHA3-256"
	BLAKE2b256 = "BLAKE2b-256"
	BLAKE2s256 = "BLAKE2s-256"

	// SuitePrefix selects the hash function of a kyber cipher suite.
	SuitePrefix = "suite:"

	// DigestSize is the digest width in bytes shared by every algorithm.
	DigestSize = 32
)

var ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

// Hasher is a deterministic one-way digest over arbitrary bytes.
type Hasher interface {
	// Algorithm returns the canonical name the hasher was resolved from.
	Algorithm() string
	// Sum returns the lowercase hex digest of data.
	Sum(data []byte) string
	SumString(s string) string
	// HexLen is the number of hex characters in every digest.
	HexLen() int
}

type digest struct {
	name    string
	newHash func() hash.Hash
}

func (d *digest) Algorithm() string { return d.name }

func (d *digest) Sum(data []byte) string {
	h := d.newHash()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func (d *digest) SumString(s string) string {
	return d.Sum([]byte(s))
}

func (d *digest) HexLen() int { return DigestSize * 2 }

var builtin = map[string]func() hash.Hash{
	SHA256:     sha256.New,
	SHA512_256: sha512.New512_256,
	SHA3_256:   sha3.New256,
	BLAKE2b256: func() hash.Hash {
		h, _ := blake2b.New256(nil) // only fails for oversized keys
		return h
	},
	BLAKE2s256: func() hash.Hash {
		h, _ := blake2s.New256(nil)
		return h
	},
}

// New resolves a hasher by name. Names are matched case-insensitively.
func New(name string) (Hasher, error) {
	name = strings.TrimSpace(name)
	if len(name) > len(SuitePrefix) && strings.EqualFold(name[:len(SuitePrefix)], SuitePrefix) {
		return fromSuite(name[len(SuitePrefix):])
	}
	for canonical, newHash := range builtin {
		if strings.EqualFold(canonical, name) {
			return &digest{name: canonical, newHash: newHash}, nil
		}
	}
	return nil, errors.Wrapf(ErrUnsupportedAlgorithm, "%q", name)
}

// MustNew is like New but panics if the algorithm is not supported.
func MustNew(name string) Hasher {
	h, err := New(name)
	if err != nil {
		panic(err)
	}
	return h
}

// Default returns the SHA-256 hasher.
func Default() Hasher {
	return MustNew(SHA256)
}

// Algorithms lists the built-in algorithm names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func fromSuite(suiteName string) (Hasher, error) {
	suite, err := suites.Find(suiteName)
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedAlgorithm, "%s%s: %v", SuitePrefix, suiteName, err)
	}
	if size := suite.Hash().Size(); size != DigestSize {
		return nil, errors.Wrapf(ErrUnsupportedAlgorithm, "%s%s: digest is %d bytes, want %d", SuitePrefix, suiteName, size, DigestSize)
	}
	return &digest{name: SuitePrefix + suiteName, newHash: suite.Hash}, nil
}
