package core

import (
	"encoding/binary"

	vfield "github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	vhash "github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// Tip5Suite hashes with the field-friendly Tip5 permutation. Bytes are
// packed into field elements four at a time (little endian), with a length
// prefix so inputs of different sizes cannot collide by padding.
type Tip5Suite struct{}

// Name implements HashSuite.
func (Tip5Suite) Name() string { return "tip5" }

// Hash implements HashSuite.
func (Tip5Suite) Hash(data []byte) Digest {
	elems := make([]vfield.Element, 0, len(data)/4+2)
	elems = append(elems, vfield.New(uint64(len(data))))
	for i := 0; i < len(data); i += 4 {
		var chunk [4]byte
		copy(chunk[:], data[i:])
		elems = append(elems, vfield.New(uint64(binary.LittleEndian.Uint32(chunk[:]))))
	}
	// Tip5 absorbs in rate-10 chunks.
	for len(elems)%10 != 0 {
		elems = append(elems, vfield.New(0))
	}

	out := vhash.HashVarlen(elems)

	// Four 64-bit digest elements fill the 32-byte digest.
	var d Digest
	for i := 0; i < DigestBytes/8; i++ {
		binary.LittleEndian.PutUint64(d[i*8:], out[i].Value())
	}
	return d
}

// HashPair implements HashSuite.
func (s Tip5Suite) HashPair(a, b Digest) Digest {
	combined := make([]byte, 0, 2*DigestBytes)
	combined = append(combined, a[:]...)
	combined = append(combined, b[:]...)
	return s.Hash(combined)
}
