package protocols

import (
	"encoding/binary"
	"fmt"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

// DefaultMaxPo2 is the largest segment size, as a power of two, that the
// default parameters accept.
const DefaultMaxPo2 = 21

// ProofParameters fixes the shape of every seal a verifier will accept.
// The parameters participate in control IDs, so a proof produced under
// different parameters is rejected as coming from an untrusted circuit
// version rather than misinterpreted.
type ProofParameters struct {
	// Blowup is the low-degree extension factor (inverse FRI rate).
	Blowup int

	// Queries is the number of FRI queries per seal.
	Queries int

	// MinPo2 and MaxPo2 bound the supported trace length, as powers of two.
	MinPo2 int
	MaxPo2 int
}

// DefaultProofParameters returns the standard parameter set.
func DefaultProofParameters() ProofParameters {
	return ProofParameters{
		Blowup:  4,
		Queries: 32,
		MinPo2:  1,
		MaxPo2:  DefaultMaxPo2,
	}
}

// Validate checks the parameter set is internally consistent.
func (p ProofParameters) Validate() error {
	if !core.IsPowerOfTwo(p.Blowup) || p.Blowup < 4 {
		return fmt.Errorf("blowup must be a power of 2 >= 4, got %d", p.Blowup)
	}
	if p.Queries <= 0 {
		return fmt.Errorf("query count must be positive, got %d", p.Queries)
	}
	if p.MinPo2 < 1 {
		return fmt.Errorf("minimum po2 must be at least 1, got %d", p.MinPo2)
	}
	if p.MaxPo2 < p.MinPo2 {
		return fmt.Errorf("maximum po2 (%d) below minimum po2 (%d)", p.MaxPo2, p.MinPo2)
	}
	// Blowup * 2^MaxPo2 must stay inside the field's two-adic subgroups.
	blowupPo2 := 0
	for 1<<blowupPo2 < p.Blowup {
		blowupPo2++
	}
	if p.MaxPo2+blowupPo2 > core.MaxRouPo2 {
		return fmt.Errorf("maximum po2 %d with blowup %d exceeds field two-adicity %d",
			p.MaxPo2, p.Blowup, core.MaxRouPo2)
	}
	return nil
}

// CheckPo2 rejects trace sizes outside the supported range. A seal declaring
// po2 = 0 would be a zero-length execution trace; one above MaxPo2 exceeds
// the maximum supported step count.
func (p ProofParameters) CheckPo2(po2 int) error {
	if po2 < p.MinPo2 {
		return fmt.Errorf("trace po2 %d below minimum %d", po2, p.MinPo2)
	}
	if po2 > p.MaxPo2 {
		return fmt.Errorf("trace po2 %d above maximum %d", po2, p.MaxPo2)
	}
	return nil
}

// FoldRounds returns the number of FRI folds for a trace of size 2^po2.
// The composition polynomial has degree below 2^(po2+1); each fold halves
// the bound until it reaches a constant.
func (p ProofParameters) FoldRounds(po2 int) int {
	return po2 + 1
}

// Digest commits to the parameter set under the given hash suite.
func (p ProofParameters) Digest(suite core.HashSuite) core.Digest {
	buf := make([]byte, 0, 64)
	buf = append(buf, []byte("vybium.zkvm.verifier.ProofParameters:")...)
	buf = append(buf, []byte(suite.Name())...)
	var tail [16]byte
	binary.LittleEndian.PutUint32(tail[0:], uint32(p.Blowup))
	binary.LittleEndian.PutUint32(tail[4:], uint32(p.Queries))
	binary.LittleEndian.PutUint32(tail[8:], uint32(p.MinPo2))
	binary.LittleEndian.PutUint32(tail[12:], uint32(p.MaxPo2))
	buf = append(buf, tail[:]...)
	return suite.Hash(buf)
}
