package core

import (
	"crypto/sha256"
	"fmt"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// HashSuite is the trusted-primitive boundary for hashing. The transcript
// engine, Merkle trees, and claim digests are all expressed against this
// interface so alternate implementations can be substituted without touching
// protocol logic.
type HashSuite interface {
	// Name identifies the suite; it participates in control IDs so proofs
	// are bound to the hash they were produced with.
	Name() string

	// Hash digests arbitrary bytes.
	Hash(data []byte) Digest

	// HashPair combines two digests into a parent node digest.
	HashPair(a, b Digest) Digest
}

// Sha256Suite is the default suite.
type Sha256Suite struct{}

// Name implements HashSuite.
func (Sha256Suite) Name() string { return "sha256" }

// Hash implements HashSuite.
func (Sha256Suite) Hash(data []byte) Digest {
	return Digest(sha256.Sum256(data))
}

// HashPair implements HashSuite.
func (s Sha256Suite) HashPair(a, b Digest) Digest {
	h := sha256.New()
	h.Write(a[:])
	h.Write(b[:])
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Sha3Suite hashes with SHA3-256.
type Sha3Suite struct{}

// Name implements HashSuite.
func (Sha3Suite) Name() string { return "sha3" }

// Hash implements HashSuite.
func (Sha3Suite) Hash(data []byte) Digest {
	return Digest(sha3.Sum256(data))
}

// HashPair implements HashSuite.
func (s Sha3Suite) HashPair(a, b Digest) Digest {
	combined := make([]byte, 0, 2*DigestBytes)
	combined = append(combined, a[:]...)
	combined = append(combined, b[:]...)
	return s.Hash(combined)
}

// Blake3Suite hashes with BLAKE3.
type Blake3Suite struct{}

// Name implements HashSuite.
func (Blake3Suite) Name() string { return "blake3" }

// Hash implements HashSuite.
func (Blake3Suite) Hash(data []byte) Digest {
	return Digest(blake3.Sum256(data))
}

// HashPair implements HashSuite.
func (s Blake3Suite) HashPair(a, b Digest) Digest {
	combined := make([]byte, 0, 2*DigestBytes)
	combined = append(combined, a[:]...)
	combined = append(combined, b[:]...)
	return s.Hash(combined)
}

// SuiteByName returns the hash suite registered under the given name.
func SuiteByName(name string) (HashSuite, error) {
	switch name {
	case "sha256":
		return Sha256Suite{}, nil
	case "sha3":
		return Sha3Suite{}, nil
	case "blake3":
		return Blake3Suite{}, nil
	case "tip5":
		return Tip5Suite{}, nil
	default:
		return nil, fmt.Errorf("hash suite must be 'sha256', 'sha3', 'blake3', or 'tip5', got '%s'", name)
	}
}
