package protocols

import (
	"encoding/binary"
	"fmt"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

// Transcript is the Fiat-Shamir channel: a running digest state that both
// prover and verifier fold proof contents into, and from which verifier
// challenges are derived. For identical input bytes the challenge stream is
// bit-for-bit reproducible; any divergence between the two sides makes the
// proof unverifiable, which is the point.
type Transcript struct {
	suite core.HashSuite
	state core.Digest
}

// Domain separators for the two kinds of draws.
const (
	sepChallenge byte = 0x01
	sepIndex     byte = 0x02
)

// NewTranscript creates a transcript seeded with a protocol label.
func NewTranscript(suite core.HashSuite, label string) *Transcript {
	return &Transcript{
		suite: suite,
		state: suite.Hash([]byte(label)),
	}
}

// Mix folds data into the transcript state.
func (t *Transcript) Mix(data []byte) {
	buf := make([]byte, 0, core.DigestBytes+len(data))
	buf = append(buf, t.state[:]...)
	buf = append(buf, data...)
	t.state = t.suite.Hash(buf)
}

// MixDigest folds a digest into the transcript state.
func (t *Transcript) MixDigest(d core.Digest) {
	t.Mix(d[:])
}

// MixUint32 folds a little-endian word into the transcript state.
func (t *Transcript) MixUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	t.Mix(b[:])
}

// MixElem folds a field element into the transcript state.
func (t *Transcript) MixElem(e core.Elem) {
	t.Mix(e.Bytes())
}

// advance mutates the state with a domain separator and returns the new
// state bytes to draw from.
func (t *Transcript) advance(sep byte) core.Digest {
	buf := make([]byte, 0, core.DigestBytes+1)
	buf = append(buf, t.state[:]...)
	buf = append(buf, sep)
	t.state = t.suite.Hash(buf)
	return t.state
}

// Challenge derives one verifier challenge and advances the state. The low
// eight state bytes are reduced modulo the field prime; the bias is below
// 2^-33 and identical on both sides.
func (t *Transcript) Challenge() core.Elem {
	s := t.advance(sepChallenge)
	return core.NewElem(binary.LittleEndian.Uint64(s[0:8]))
}

// Challenges derives n challenges.
func (t *Transcript) Challenges(n int) []core.Elem {
	out := make([]core.Elem, n)
	for i := range out {
		out[i] = t.Challenge()
	}
	return out
}

// SampleIndex draws a query index uniformly from [0, bound) for a
// power-of-two bound, advancing the state.
func (t *Transcript) SampleIndex(bound int) (int, error) {
	if !core.IsPowerOfTwo(bound) {
		return 0, fmt.Errorf("index bound must be a power of 2, got %d", bound)
	}
	s := t.advance(sepIndex)
	return int(binary.LittleEndian.Uint64(s[8:16]) & uint64(bound-1)), nil
}
