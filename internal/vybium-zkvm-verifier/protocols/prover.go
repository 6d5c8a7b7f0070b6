package protocols

import (
	"fmt"
	"math/bits"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

// transcriptLabel seeds every seal transcript.
const transcriptLabel = "vybium.zkvm.verifier.seal"

// Prover produces seals for a circuit. It exists so tests and fixture
// tooling can construct known-good receipts; the verification API never
// exposes it.
type Prover struct {
	suite   core.HashSuite
	params  ProofParameters
	circuit Circuit
}

// NewProver creates a prover with the given parameters.
func NewProver(suite core.HashSuite, params ProofParameters, circuit Circuit) (*Prover, error) {
	if suite == nil {
		return nil, fmt.Errorf("hash suite cannot be nil")
	}
	if circuit == nil {
		return nil, fmt.Errorf("circuit cannot be nil")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid proof parameters: %w", err)
	}
	return &Prover{suite: suite, params: params, circuit: circuit}, nil
}

// rowLeaf serializes one trace row across all columns.
func rowLeaf(cols [][]core.Elem, index int) []byte {
	leaf := make([]byte, 0, 4*len(cols))
	for _, col := range cols {
		leaf = append(leaf, col[index].Bytes()...)
	}
	return leaf
}

// Prove runs the prover side of the protocol for a claim digest and its
// circuit binding, over a trace of size 2^po2.
func (p *Prover) Prove(claimDigest core.Digest, binding []core.Elem, po2 int) (*Seal, error) {
	if err := p.params.CheckPo2(po2); err != nil {
		return nil, err
	}

	trace, err := p.circuit.Trace(binding, po2)
	if err != nil {
		return nil, fmt.Errorf("failed to build trace: %w", err)
	}
	boundaries, err := p.circuit.Boundaries(binding)
	if err != nil {
		return nil, fmt.Errorf("failed to derive boundaries: %w", err)
	}

	n := 1 << po2
	domainSize := n * p.params.Blowup
	basePo2 := bits.TrailingZeros(uint(domainSize))

	// Commit to the low-degree extension of the trace.
	lde := make([][]core.Elem, len(trace))
	for i, col := range trace {
		lde[i], err = core.ExtendCoset(col, core.Generator, p.params.Blowup)
		if err != nil {
			return nil, fmt.Errorf("failed to extend column %d: %w", i, err)
		}
	}
	leaves := make([][]byte, domainSize)
	for i := range leaves {
		leaves[i] = rowLeaf(lde, i)
	}
	traceTree, err := core.NewMerkleTree(p.suite, leaves)
	if err != nil {
		return nil, fmt.Errorf("failed to commit trace: %w", err)
	}

	t := NewTranscript(p.suite, transcriptLabel)
	t.MixDigest(claimDigest)
	t.MixUint32(uint32(po2))
	t.MixDigest(traceTree.Root())

	// Constraint mix challenges, then the composition codeword.
	alphas := t.Challenges(p.circuit.NumTransitions() + len(boundaries))
	comp, err := p.compositionCodeword(lde, boundaries, alphas, po2)
	if err != nil {
		return nil, fmt.Errorf("failed to build composition codeword: %w", err)
	}
	compLeaves := make([][]byte, domainSize)
	for i, e := range comp {
		compLeaves[i] = e.Bytes()
	}
	compTree, err := core.NewMerkleTree(p.suite, compLeaves)
	if err != nil {
		return nil, fmt.Errorf("failed to commit composition codeword: %w", err)
	}
	t.MixDigest(compTree.Root())

	// FRI folding rounds. Layer 0 is the composition codeword itself; each
	// committed layer is mixed before the next fold challenge is drawn.
	rounds := p.params.FoldRounds(po2)
	layers := [][]core.Elem{comp}
	trees := []*core.MerkleTree{compTree}
	friRoots := make([]core.Digest, 0, rounds-1)
	var finalValue core.Elem

	cur := comp
	for round := 1; round <= rounds; round++ {
		beta := t.Challenge()
		shift := core.Generator.Pow(uint64(1) << (round - 1))
		next, err := friFoldLayer(cur, beta, shift, basePo2-(round-1))
		if err != nil {
			return nil, fmt.Errorf("failed FRI fold %d: %w", round, err)
		}
		if round < rounds {
			layerLeaves := make([][]byte, len(next))
			for i, e := range next {
				layerLeaves[i] = e.Bytes()
			}
			tree, err := core.NewMerkleTree(p.suite, layerLeaves)
			if err != nil {
				return nil, fmt.Errorf("failed to commit FRI layer %d: %w", round, err)
			}
			layers = append(layers, next)
			trees = append(trees, tree)
			friRoots = append(friRoots, tree.Root())
			t.MixDigest(tree.Root())
			cur = next
		} else {
			// The last fold reduces to a constant codeword.
			finalValue = next[0]
			for _, v := range next {
				if v != finalValue {
					return nil, fmt.Errorf("final FRI layer is not constant; trace does not satisfy the circuit")
				}
			}
			t.MixElem(finalValue)
		}
	}

	// Query openings.
	queries := make([]SealQuery, p.params.Queries)
	for qi := range queries {
		idx, err := t.SampleIndex(domainSize / 2)
		if err != nil {
			return nil, err
		}
		q, err := p.openQuery(idx, lde, traceTree, layers, trees, domainSize)
		if err != nil {
			return nil, fmt.Errorf("failed to open query %d: %w", qi, err)
		}
		queries[qi] = q
	}

	return &Seal{
		Po2:        uint32(po2),
		TraceRoot:  traceTree.Root(),
		CompRoot:   compTree.Root(),
		FriRoots:   friRoots,
		FinalValue: finalValue,
		Queries:    queries,
	}, nil
}

// compositionCodeword evaluates every constraint quotient pointwise on the
// extension domain and combines them with the mix challenges. Division is
// exact because a valid trace makes every numerator vanish on the rows its
// zerofier covers; the coset never intersects the trace domain, so no
// denominator is zero.
func (p *Prover) compositionCodeword(lde [][]core.Elem, boundaries []Boundary, alphas []core.Elem, po2 int) ([]core.Elem, error) {
	n := 1 << po2
	domainSize := n * p.params.Blowup
	basePo2 := bits.TrailingZeros(uint(domainSize))

	wBase, err := core.RootOfUnity(basePo2)
	if err != nil {
		return nil, err
	}
	wTrace, err := core.RootOfUnity(po2)
	if err != nil {
		return nil, err
	}
	gLast := wTrace.Pow(uint64(n - 1))

	// x^n walks a short cycle: (G*w^i)^n = G^n * (w^n)^i.
	xPowN := core.Generator.Pow(uint64(n))
	wPowN := wBase.Pow(uint64(n))

	comp := make([]core.Elem, domainSize)
	x := core.Generator
	row := make([]core.Elem, len(lde))
	next := make([]core.Elem, len(lde))
	for i := 0; i < domainSize; i++ {
		for c := range lde {
			row[c] = lde[c][i]
			next[c] = lde[c][(i+p.params.Blowup)%domainSize]
		}

		transitions := p.circuit.EvalTransitions(row, next)
		zInv := xPowN.Sub(1).Inv()
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
			acc = acc.Add(alphas[a].Mul(row[b.Column].Sub(b.Value)).Mul(x.Sub(point).Inv()))
			a++
		}
		comp[i] = acc

		x = x.Mul(wBase)
		xPowN = xPowN.Mul(wPowN)
	}
	return comp, nil
}

// openQuery assembles the Merkle openings for one query index.
func (p *Prover) openQuery(idx int, lde [][]core.Elem, traceTree *core.MerkleTree, layers [][]core.Elem, trees []*core.MerkleTree, domainSize int) (SealQuery, error) {
	nextIdx := (idx + p.params.Blowup) % domainSize
	sibIdx := idx + domainSize/2

	rowPath, err := traceTree.Path(idx)
	if err != nil {
		return SealQuery{}, err
	}
	nextPath, err := traceTree.Path(nextIdx)
	if err != nil {
		return SealQuery{}, err
	}
	compPath, err := trees[0].Path(idx)
	if err != nil {
		return SealQuery{}, err
	}
	compSibPath, err := trees[0].Path(sibIdx)
	if err != nil {
		return SealQuery{}, err
	}

	row := make([]core.Elem, len(lde))
	nextRow := make([]core.Elem, len(lde))
	for c := range lde {
		row[c] = lde[c][idx]
		nextRow[c] = lde[c][nextIdx]
	}

	q := SealQuery{
		Row:             row,
		RowPath:         rowPath,
		NextRow:         nextRow,
		NextPath:        nextPath,
		CompValue:       layers[0][idx],
		CompPath:        compPath,
		CompSibling:     layers[0][sibIdx],
		CompSiblingPath: compSibPath,
		Rounds:          make([]FriRound, len(layers)-1),
	}

	pos := idx
	for layer := 1; layer < len(layers); layer++ {
		half := len(layers[layer]) / 2
		posL := pos % half
		valuePath, err := trees[layer].Path(posL)
		if err != nil {
			return SealQuery{}, err
		}
		siblingPath, err := trees[layer].Path(posL + half)
		if err != nil {
			return SealQuery{}, err
		}
		q.Rounds[layer-1] = FriRound{
			Value:       layers[layer][posL],
			ValuePath:   valuePath,
			Sibling:     layers[layer][posL+half],
			SiblingPath: siblingPath,
		}
		pos = posL
	}
	return q, nil
}
