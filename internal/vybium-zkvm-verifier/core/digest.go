package core

import (
	"encoding/hex"
	"fmt"
)

// DigestBytes is the size of every digest in the pipeline.
const DigestBytes = 32

// Digest is a fixed-size opaque hash value. Digests are equality-comparable
// and immutable once constructed; they carry no ordering semantics.
type Digest [DigestBytes]byte

// DigestFromBytes constructs a Digest from exactly DigestBytes bytes.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != DigestBytes {
		return d, fmt.Errorf("digest must be exactly %d bytes, got %d", DigestBytes, len(b))
	}
	copy(d[:], b)
	return d, nil
}

// DigestFromHex parses a hex-encoded digest.
func DigestFromHex(s string) (Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid digest hex: %w", err)
	}
	return DigestFromBytes(b)
}

// Equal reports whether two digests are identical.
func (d Digest) Equal(o Digest) bool {
	return d == o
}

// IsZero reports whether the digest is all zeroes.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// String returns the hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
