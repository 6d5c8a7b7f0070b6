package receipt

import (
	"fmt"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

// Root recomputes the Merkle root implied by the inclusion proof for the
// given leaf digest.
func (p InclusionProof) Root(suite core.HashSuite, leaf core.Digest) core.Digest {
	cur := leaf
	index := int(p.Index)
	for _, sibling := range p.Path {
		if index&1 == 1 {
			cur = suite.HashPair(sibling, cur)
		} else {
			cur = suite.HashPair(cur, sibling)
		}
		index >>= 1
	}
	return cur
}

// VerifyControlInclusion checks that the control ID is a member of the
// caller's allow list. Verification fails closed: a structurally valid path
// that reconstructs any root other than allowRoot is a rejection, so a
// perfect proof from an untrusted circuit version is still refused.
func VerifyControlInclusion(suite core.HashSuite, controlID core.Digest, proof InclusionProof, allowRoot core.Digest) error {
	if int(proof.Index) >= 1<<len(proof.Path) {
		return core.NewError(core.CodeUntrustedControlID, "control-root",
			"inclusion index %d out of range for path depth %d", proof.Index, len(proof.Path))
	}
	if proof.Root(suite, controlID) != allowRoot {
		return core.NewError(core.CodeUntrustedControlID, "control-root",
			"control ID %s is not included under the supplied allow root", controlID)
	}
	return nil
}

// AllowList is a caller-side helper that materializes a set of trusted
// control IDs as a Merkle root plus per-ID inclusion proofs. The verifier
// core only ever consumes the root and a proof; it neither stores nor
// updates the list.
type AllowList struct {
	suite  core.HashSuite
	ids    []core.Digest
	levels [][]core.Digest
}

// NewAllowList builds the Merkle tree over the given control IDs. The leaf
// layer is padded to a power of two with zero digests.
func NewAllowList(suite core.HashSuite, ids []core.Digest) (*AllowList, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("allow list cannot be empty")
	}

	width := 1
	for width < len(ids) {
		width <<= 1
	}
	level := make([]core.Digest, width)
	copy(level, ids)

	levels := [][]core.Digest{level}
	for len(level) > 1 {
		next := make([]core.Digest, len(level)/2)
		for i := range next {
			next[i] = suite.HashPair(level[2*i], level[2*i+1])
		}
		levels = append(levels, next)
		level = next
	}

	return &AllowList{suite: suite, ids: ids, levels: levels}, nil
}

// Root returns the allow-list root to hand to the verifier.
func (l *AllowList) Root() core.Digest {
	return l.levels[len(l.levels)-1][0]
}

// Proof returns the inclusion proof for a control ID in the list.
func (l *AllowList) Proof(controlID core.Digest) (InclusionProof, error) {
	index := -1
	for i, id := range l.ids {
		if id == controlID {
			index = i
			break
		}
	}
	if index < 0 {
		return InclusionProof{}, fmt.Errorf("control ID %s is not in the allow list", controlID)
	}

	path := make([]core.Digest, 0, len(l.levels)-1)
	cur := index
	for level := 0; level < len(l.levels)-1; level++ {
		path = append(path, l.levels[level][cur^1])
		cur >>= 1
	}
	return InclusionProof{Index: uint32(index), Path: path}, nil
}
