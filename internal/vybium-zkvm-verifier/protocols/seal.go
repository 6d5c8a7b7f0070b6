package protocols

import (
	"fmt"
	"math/bits"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

// Seal is the opaque proof payload of one STARK receipt: commitments, query
// openings with Merkle authentication paths, and the folded low-degree
// proof. It is produced externally and consumed read-only.
type Seal struct {
	// Po2 declares the trace length as a power of two. Every loop bound in
	// verification derives from it, never from untrusted slice lengths.
	Po2 uint32 `cbor:"1,keyasint"`

	// TraceRoot commits to the low-degree extension of the trace columns.
	TraceRoot core.Digest `cbor:"2,keyasint"`

	// CompRoot commits to the constraint composition codeword, which is
	// also the first FRI layer.
	CompRoot core.Digest `cbor:"3,keyasint"`

	// FriRoots commits to the folded FRI layers, one per round after the
	// first.
	FriRoots []core.Digest `cbor:"4,keyasint"`

	// FinalValue is the constant the FRI folding reduces to.
	FinalValue core.Elem `cbor:"5,keyasint"`

	// Queries holds the openings for every transcript-derived query index.
	Queries []SealQuery `cbor:"6,keyasint"`
}

// SealQuery holds the openings for one query index.
type SealQuery struct {
	// Row and NextRow are the trace openings at the query index and at the
	// row-shift index (one trace step later).
	Row      []core.Elem   `cbor:"1,keyasint"`
	RowPath  []core.Digest `cbor:"2,keyasint"`
	NextRow  []core.Elem   `cbor:"3,keyasint"`
	NextPath []core.Digest `cbor:"4,keyasint"`

	// CompValue and CompSibling open the composition codeword at the query
	// index and its negated point.
	CompValue       core.Elem     `cbor:"5,keyasint"`
	CompPath        []core.Digest `cbor:"6,keyasint"`
	CompSibling     core.Elem     `cbor:"7,keyasint"`
	CompSiblingPath []core.Digest `cbor:"8,keyasint"`

	// Rounds opens each committed FRI layer along this query's fold path.
	Rounds []FriRound `cbor:"9,keyasint"`
}

// FriRound opens one committed FRI layer at a fold position and its
// negated point.
type FriRound struct {
	Value       core.Elem     `cbor:"1,keyasint"`
	ValuePath   []core.Digest `cbor:"2,keyasint"`
	Sibling     core.Elem     `cbor:"3,keyasint"`
	SiblingPath []core.Digest `cbor:"4,keyasint"`
}

func checkElem(e core.Elem) error {
	_, err := core.ElemFromUint32(uint32(e))
	return err
}

// Validate performs the structural checks that decoding relies on: the
// declared po2 is in range, every slice has exactly the length the declared
// shape implies, and every field element is in canonical range. It performs
// no cryptographic checks.
func (s *Seal) Validate(params ProofParameters, circuit Circuit) error {
	po2 := int(s.Po2)
	if err := params.CheckPo2(po2); err != nil {
		return err
	}

	n := 1 << po2
	domainSize := n * params.Blowup
	depth := bits.TrailingZeros(uint(domainSize))
	rounds := params.FoldRounds(po2)

	if len(s.FriRoots) != rounds-1 {
		return fmt.Errorf("expected %d FRI layer roots for po2 %d, got %d", rounds-1, po2, len(s.FriRoots))
	}
	if len(s.Queries) != params.Queries {
		return fmt.Errorf("expected %d queries, got %d", params.Queries, len(s.Queries))
	}
	if err := checkElem(s.FinalValue); err != nil {
		return err
	}

	for qi := range s.Queries {
		q := &s.Queries[qi]
		if len(q.Row) != circuit.Columns() || len(q.NextRow) != circuit.Columns() {
			return fmt.Errorf("query %d: trace row width must be %d", qi, circuit.Columns())
		}
		for _, e := range q.Row {
			if err := checkElem(e); err != nil {
				return fmt.Errorf("query %d: %w", qi, err)
			}
		}
		for _, e := range q.NextRow {
			if err := checkElem(e); err != nil {
				return fmt.Errorf("query %d: %w", qi, err)
			}
		}
		if err := checkElem(q.CompValue); err != nil {
			return fmt.Errorf("query %d: %w", qi, err)
		}
		if err := checkElem(q.CompSibling); err != nil {
			return fmt.Errorf("query %d: %w", qi, err)
		}
		if len(q.RowPath) != depth || len(q.NextPath) != depth ||
			len(q.CompPath) != depth || len(q.CompSiblingPath) != depth {
			return fmt.Errorf("query %d: authentication paths must have depth %d", qi, depth)
		}
		if len(q.Rounds) != rounds-1 {
			return fmt.Errorf("query %d: expected %d FRI round openings, got %d", qi, rounds-1, len(q.Rounds))
		}
		for ri := range q.Rounds {
			r := &q.Rounds[ri]
			if err := checkElem(r.Value); err != nil {
				return fmt.Errorf("query %d round %d: %w", qi, ri, err)
			}
			if err := checkElem(r.Sibling); err != nil {
				return fmt.Errorf("query %d round %d: %w", qi, ri, err)
			}
			layerDepth := depth - (ri + 1)
			if len(r.ValuePath) != layerDepth || len(r.SiblingPath) != layerDepth {
				return fmt.Errorf("query %d round %d: authentication paths must have depth %d", qi, ri, layerDepth)
			}
		}
	}
	return nil
}
