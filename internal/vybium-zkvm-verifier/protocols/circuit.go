package protocols

import (
	"encoding/binary"
	"fmt"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

// BoundaryRow selects the trace row a boundary constraint applies to.
type BoundaryRow int

const (
	// FirstRow anchors a boundary constraint at trace row 0
	FirstRow BoundaryRow = iota

	// LastRow anchors a boundary constraint at the final trace row
	LastRow
)

// Boundary pins one trace column to a claim-derived value at a fixed row.
type Boundary struct {
	Column int
	Row    BoundaryRow
	Value  core.Elem
}

// Circuit describes one arithmetization of the execution model: the columns
// of its trace, the transition constraints that every adjacent row pair must
// satisfy, and the boundary values that tie the trace to the claim being
// proven. Adding a circuit is a closed, versioned change; its identity is
// committed in a control ID.
type Circuit interface {
	// Name identifies the circuit family.
	Name() string

	// Version identifies this revision of the constraint system.
	Version() uint32

	// Columns is the trace width.
	Columns() int

	// NumTransitions is the number of transition constraints.
	NumTransitions() int

	// EvalTransitions evaluates every transition constraint on a pair of
	// adjacent rows. A valid trace makes each result the zero element on
	// every row pair except the wrap-around.
	EvalTransitions(row, next []core.Elem) []core.Elem

	// BindingSize is the number of claim-derived binding elements the
	// circuit consumes.
	BindingSize() int

	// Boundaries maps claim binding values to boundary constraints.
	Boundaries(binding []core.Elem) ([]Boundary, error)

	// Trace produces an honest trace of size 2^po2 for the given binding.
	// Only the prover uses it; verification never executes the program.
	Trace(binding []core.Elem, po2 int) ([][]core.Elem, error)
}

// chainRoundConstant is the round constant of the cubing state chain shared
// by both circuits.
const chainRoundConstant core.Elem = 1540483477

// chainStep is the state transition s' = s^3 + rc.
func chainStep(s core.Elem) core.Elem {
	return s.Mul(s).Mul(s).Add(chainRoundConstant)
}

// SegmentCircuit is the execution-model circuit for one segment: a cubing
// state chain seeded from the pre-state binding, with the journal and
// post-state bindings carried in constant columns. The three boundary
// constraints tie the trace to the claim; the claim digest itself is mixed
// into the transcript before any commitment, binding the remaining fields.
type SegmentCircuit struct{}

const (
	segColState = iota
	segColJournal
	segColPost
	segColumns
)

// Name implements Circuit.
func (SegmentCircuit) Name() string { return "segment" }

// Version implements Circuit.
func (SegmentCircuit) Version() uint32 { return 1 }

// Columns implements Circuit.
func (SegmentCircuit) Columns() int { return segColumns }

// NumTransitions implements Circuit.
func (SegmentCircuit) NumTransitions() int { return 3 }

// EvalTransitions implements Circuit.
func (SegmentCircuit) EvalTransitions(row, next []core.Elem) []core.Elem {
	return []core.Elem{
		next[segColState].Sub(chainStep(row[segColState])),
		next[segColJournal].Sub(row[segColJournal]),
		next[segColPost].Sub(row[segColPost]),
	}
}

// BindingSize implements Circuit. The binding is the folded pre-state,
// journal, and post-state digests, in that order.
func (SegmentCircuit) BindingSize() int { return 3 }

// Boundaries implements Circuit.
func (c SegmentCircuit) Boundaries(binding []core.Elem) ([]Boundary, error) {
	if len(binding) != c.BindingSize() {
		return nil, fmt.Errorf("segment circuit needs %d binding elements, got %d", c.BindingSize(), len(binding))
	}
	return []Boundary{
		{Column: segColState, Row: FirstRow, Value: binding[0]},
		{Column: segColJournal, Row: FirstRow, Value: binding[1]},
		{Column: segColPost, Row: FirstRow, Value: binding[2]},
	}, nil
}

// Trace implements Circuit.
func (c SegmentCircuit) Trace(binding []core.Elem, po2 int) ([][]core.Elem, error) {
	if len(binding) != c.BindingSize() {
		return nil, fmt.Errorf("segment circuit needs %d binding elements, got %d", c.BindingSize(), len(binding))
	}
	n := 1 << po2
	state := make([]core.Elem, n)
	journal := make([]core.Elem, n)
	post := make([]core.Elem, n)
	s := binding[0]
	for i := 0; i < n; i++ {
		state[i] = s
		journal[i] = binding[1]
		post[i] = binding[2]
		s = chainStep(s)
	}
	return [][]core.Elem{state, journal, post}, nil
}

// RecursionCircuit is the compressed-receipt circuit: a single state chain
// seeded from the folded claim digest. Succinct receipts carry seals over
// this circuit.
type RecursionCircuit struct{}

// Name implements Circuit.
func (RecursionCircuit) Name() string { return "recursion" }

// Version implements Circuit.
func (RecursionCircuit) Version() uint32 { return 1 }

// Columns implements Circuit.
func (RecursionCircuit) Columns() int { return 1 }

// NumTransitions implements Circuit.
func (RecursionCircuit) NumTransitions() int { return 1 }

// EvalTransitions implements Circuit.
func (RecursionCircuit) EvalTransitions(row, next []core.Elem) []core.Elem {
	return []core.Elem{next[0].Sub(chainStep(row[0]))}
}

// BindingSize implements Circuit. The binding is the folded claim digest.
func (RecursionCircuit) BindingSize() int { return 1 }

// Boundaries implements Circuit.
func (c RecursionCircuit) Boundaries(binding []core.Elem) ([]Boundary, error) {
	if len(binding) != c.BindingSize() {
		return nil, fmt.Errorf("recursion circuit needs %d binding element, got %d", c.BindingSize(), len(binding))
	}
	return []Boundary{{Column: 0, Row: FirstRow, Value: binding[0]}}, nil
}

// Trace implements Circuit.
func (c RecursionCircuit) Trace(binding []core.Elem, po2 int) ([][]core.Elem, error) {
	if len(binding) != c.BindingSize() {
		return nil, fmt.Errorf("recursion circuit needs %d binding element, got %d", c.BindingSize(), len(binding))
	}
	n := 1 << po2
	state := make([]core.Elem, n)
	s := binding[0]
	for i := 0; i < n; i++ {
		state[i] = s
		s = chainStep(s)
	}
	return [][]core.Elem{state}, nil
}

// ControlIDFor derives the control ID identifying one circuit version under
// one parameter set and hash suite. Verification recomputes this and
// requires the receipt to both declare it and prove its inclusion under the
// caller's allow root.
func ControlIDFor(suite core.HashSuite, c Circuit, params ProofParameters) core.Digest {
	paramsDigest := params.Digest(suite)
	buf := make([]byte, 0, 64+core.DigestBytes)
	buf = append(buf, []byte("vybium.zkvm.verifier.ControlID:")...)
	buf = append(buf, []byte(c.Name())...)
	var ver [4]byte
	binary.LittleEndian.PutUint32(ver[:], c.Version())
	buf = append(buf, ver[:]...)
	buf = append(buf, paramsDigest[:]...)
	return suite.Hash(buf)
}
