package protocols

import (
	"fmt"
	"math/bits"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

// SealVerifier replays the verifier side of the proof protocol:
//
//  1. Re-derive the transcript deterministically from the seal's public
//     commitments, obtaining the challenge stream the prover used.
//  2. Verify every Merkle-authenticated opening against the
//     transcript-derived query indices.
//  3. Evaluate the circuit constraints at the sampled points and compare
//     against the committed composition values; any nonzero residual is a
//     hard rejection.
//  4. Run the low-degree proximity check: the folded proof must reduce
//     round by round to the declared constant.
type SealVerifier struct {
	suite   core.HashSuite
	params  ProofParameters
	circuit Circuit
}

// NewSealVerifier creates a verifier for one circuit under one parameter set.
func NewSealVerifier(suite core.HashSuite, params ProofParameters, circuit Circuit) (*SealVerifier, error) {
	if suite == nil {
		return nil, fmt.Errorf("hash suite cannot be nil")
	}
	if circuit == nil {
		return nil, fmt.Errorf("circuit cannot be nil")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid proof parameters: %w", err)
	}
	return &SealVerifier{suite: suite, params: params, circuit: circuit}, nil
}

// ControlID returns the control ID this verifier accepts seals for.
func (v *SealVerifier) ControlID() core.Digest {
	return ControlIDFor(v.suite, v.circuit, v.params)
}

// Verify checks that the seal proves the given claim digest under the
// circuit's binding. The computation is deterministic and side-effect free;
// verifying the same seal twice yields the identical result, including the
// identical rejection.
func (v *SealVerifier) Verify(seal *Seal, claimDigest core.Digest, binding []core.Elem) error {
	if seal == nil {
		return core.NewError(core.CodeDecode, "seal", "seal is nil")
	}
	if err := seal.Validate(v.params, v.circuit); err != nil {
		return core.NewError(core.CodeDecode, "seal", "malformed seal").WithCause(err)
	}
	boundaries, err := v.circuit.Boundaries(binding)
	if err != nil {
		return core.NewError(core.CodeDecode, "seal", "invalid claim binding").WithCause(err)
	}

	po2 := int(seal.Po2)
	n := 1 << po2
	domainSize := n * v.params.Blowup
	basePo2 := bits.TrailingZeros(uint(domainSize))
	rounds := v.params.FoldRounds(po2)

	// Replay the transcript over the seal's commitments.
	t := NewTranscript(v.suite, transcriptLabel)
	t.MixDigest(claimDigest)
	t.MixUint32(seal.Po2)
	t.MixDigest(seal.TraceRoot)
	alphas := t.Challenges(v.circuit.NumTransitions() + len(boundaries))
	t.MixDigest(seal.CompRoot)

	betas := make([]core.Elem, rounds)
	for round := 1; round <= rounds; round++ {
		betas[round-1] = t.Challenge()
		if round < rounds {
			t.MixDigest(seal.FriRoots[round-1])
		} else {
			t.MixElem(seal.FinalValue)
		}
	}

	for qi := range seal.Queries {
		idx, err := t.SampleIndex(domainSize / 2)
		if err != nil {
			return core.NewError(core.CodeUnknown, "query-index", "%v", err)
		}
		if err := v.verifyQuery(seal, &seal.Queries[qi], idx, boundaries, alphas, betas, basePo2, po2); err != nil {
			if verr, ok := err.(*core.VerificationError); ok {
				return verr.WithIndex(qi)
			}
			return err
		}
	}
	return nil
}

// verifyQuery checks the openings, constraint residuals, and FRI folding
// for one query index.
func (v *SealVerifier) verifyQuery(seal *Seal, q *SealQuery, idx int, boundaries []Boundary, alphas, betas []core.Elem, basePo2, po2 int) error {
	n := 1 << po2
	domainSize := 1 << basePo2
	nextIdx := (idx + v.params.Blowup) % domainSize
	sibIdx := idx + domainSize/2

	// Commitment openings.
	if !core.VerifyPath(v.suite, seal.TraceRoot, idx, elemsLeaf(q.Row), q.RowPath) {
		return core.NewError(core.CodeCommitment, "trace-open", "trace row opening does not match commitment at index %d", idx)
	}
	if !core.VerifyPath(v.suite, seal.TraceRoot, nextIdx, elemsLeaf(q.NextRow), q.NextPath) {
		return core.NewError(core.CodeCommitment, "trace-open", "shifted trace row opening does not match commitment at index %d", nextIdx)
	}
	if !core.VerifyPath(v.suite, seal.CompRoot, idx, q.CompValue.Bytes(), q.CompPath) {
		return core.NewError(core.CodeCommitment, "composition-open", "composition opening does not match commitment at index %d", idx)
	}
	if !core.VerifyPath(v.suite, seal.CompRoot, sibIdx, q.CompSibling.Bytes(), q.CompSiblingPath) {
		return core.NewError(core.CodeCommitment, "composition-open", "composition sibling opening does not match commitment at index %d", sibIdx)
	}

	// Recompute the constraint composition at the query point.
	x, err := friLayerPoint(0, idx, basePo2)
	if err != nil {
		return core.NewError(core.CodeUnknown, "query-point", "%v", err)
	}
	wTrace, err := core.RootOfUnity(po2)
	if err != nil {
		return core.NewError(core.CodeUnknown, "query-point", "%v", err)
	}
	gLast := wTrace.Pow(uint64(n - 1))

	transitions := v.circuit.EvalTransitions(q.Row, q.NextRow)
	zInv := x.Pow(uint64(n)).Sub(1).Inv()
	exclLast := x.Sub(gLast)

	acc := core.Elem(0)
	a := 0
	for _, tv := range transitions {
		acc = acc.Add(alphas[a].Mul(tv).Mul(exclLast).Mul(zInv))
		a++
	}
	for _, b := range boundaries {
		point := core.Elem(1)
		if b.Row == LastRow {
			point = gLast
		}
		acc = acc.Add(alphas[a].Mul(q.Row[b.Column].Sub(b.Value)).Mul(x.Sub(point).Inv()))
		a++
	}
	if acc != q.CompValue {
		return core.NewError(core.CodeConstraint, "constraints", "constraint residual does not match committed composition value at index %d", idx)
	}

	// Low-degree proximity: fold down to the final constant.
	folded := friFold(q.CompValue, q.CompSibling, betas[0], x)
	pos := idx
	for ri := range q.Rounds {
		r := &q.Rounds[ri]
		layer := ri + 1
		layerSize := domainSize >> layer
		half := layerSize / 2
		posL := pos % half

		opened := r.Value
		if pos >= half {
			opened = r.Sibling
		}
		if opened != folded {
			return core.NewError(core.CodeLowDegree, "fri-fold", "fold of round %d does not match the next layer opening", ri)
		}

		if !core.VerifyPath(v.suite, seal.FriRoots[ri], posL, r.Value.Bytes(), r.ValuePath) {
			return core.NewError(core.CodeCommitment, "fri-open", "FRI layer %d opening does not match commitment at index %d", layer, posL)
		}
		if !core.VerifyPath(v.suite, seal.FriRoots[ri], posL+half, r.Sibling.Bytes(), r.SiblingPath) {
			return core.NewError(core.CodeCommitment, "fri-open", "FRI layer %d opening does not match commitment at index %d", layer, posL+half)
		}

		xl, err := friLayerPoint(layer, posL, basePo2)
		if err != nil {
			return core.NewError(core.CodeUnknown, "query-point", "%v", err)
		}
		folded = friFold(r.Value, r.Sibling, betas[layer], xl)
		pos = posL
	}
	if folded != seal.FinalValue {
		return core.NewError(core.CodeLowDegree, "fri-final", "folded proof does not reduce to the declared final value")
	}
	return nil
}

// elemsLeaf serializes a trace row the way the prover committed it.
func elemsLeaf(row []core.Elem) []byte {
	leaf := make([]byte, 0, 4*len(row))
	for _, e := range row {
		leaf = append(leaf, e.Bytes()...)
	}
	return leaf
}
