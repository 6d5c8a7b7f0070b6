package receipt

import (
	"fmt"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/protocols"
)

// Kind tags the closed set of receipt shapes on the wire.
type Kind uint32

const (
	// KindSegment is one execution chunk proven by an innermost STARK seal
	KindSegment Kind = 1

	// KindComposite is an ordered sequence of segment receipts plus
	// assumption resolutions
	KindComposite Kind = 2

	// KindSuccinct is a recursively compressed single proof
	KindSuccinct Kind = 3

	// KindWrapped is an externally verified pairing-based envelope around a
	// claim digest
	KindWrapped Kind = 4
)

// Receipt is the decoded form of one proof attestation. Inner is a tagged
// union over the closed set of shapes; composition between receipts is by
// value (claims and digests), never by shared reference.
type Receipt struct {
	Inner InnerReceipt
}

// Claim returns the claim the receipt asserts.
func (r *Receipt) Claim(suite core.HashSuite) (Claim, error) {
	return r.Inner.claim(suite)
}

// InnerReceipt is implemented by exactly the four receipt variants. The
// interface is sealed; verification dispatches by type switch so adding a
// variant is a compile-time-checked change.
type InnerReceipt interface {
	// Kind returns the wire tag of the variant.
	Kind() Kind

	claim(suite core.HashSuite) (Claim, error)
}

// InclusionProof authenticates one control ID under an allow-list root: the
// leaf position and the sibling digests bottom-up.
type InclusionProof struct {
	Index uint32        `cbor:"1,keyasint"`
	Path  []core.Digest `cbor:"2,keyasint"`
}

// SegmentReceipt proves one execution chunk with an innermost STARK seal.
type SegmentReceipt struct {
	Seal               *protocols.Seal `cbor:"1,keyasint"`
	Claim              Claim           `cbor:"2,keyasint"`
	ControlID          core.Digest     `cbor:"3,keyasint"`
	ControlInclusion   InclusionProof  `cbor:"4,keyasint"`
	VerifierParameters core.Digest     `cbor:"5,keyasint"`
}

// Kind implements InnerReceipt.
func (*SegmentReceipt) Kind() Kind { return KindSegment }

func (r *SegmentReceipt) claim(core.HashSuite) (Claim, error) {
	return r.Claim, nil
}

// Validate checks structural well-formedness; it does not touch
// cryptographic content.
func (r *SegmentReceipt) Validate() error {
	if r.Seal == nil {
		return fmt.Errorf("segment receipt is missing its seal")
	}
	return r.Claim.Validate()
}

// SuccinctReceipt proves a claim with a single recursively compressed seal
// over the recursion circuit.
type SuccinctReceipt struct {
	Seal               *protocols.Seal `cbor:"1,keyasint"`
	Claim              Claim           `cbor:"2,keyasint"`
	ControlID          core.Digest     `cbor:"3,keyasint"`
	ControlInclusion   InclusionProof  `cbor:"4,keyasint"`
	VerifierParameters core.Digest     `cbor:"5,keyasint"`
}

// Kind implements InnerReceipt.
func (*SuccinctReceipt) Kind() Kind { return KindSuccinct }

func (r *SuccinctReceipt) claim(core.HashSuite) (Claim, error) {
	return r.Claim, nil
}

// Validate checks structural well-formedness.
func (r *SuccinctReceipt) Validate() error {
	if r.Seal == nil {
		return fmt.Errorf("succinct receipt is missing its seal")
	}
	return r.Claim.Validate()
}

// AssumptionReceipt is the tagged union of shapes allowed to discharge an
// assumption: composite or succinct, mirroring the closed set the recursion
// layer accepts. Exactly one arm must be set.
type AssumptionReceipt struct {
	Composite *CompositeReceipt `cbor:"1,keyasint,omitempty"`
	Succinct  *SuccinctReceipt  `cbor:"2,keyasint,omitempty"`
}

// inner returns the populated arm.
func (a *AssumptionReceipt) inner() (InnerReceipt, error) {
	switch {
	case a.Composite != nil && a.Succinct == nil:
		return a.Composite, nil
	case a.Succinct != nil && a.Composite == nil:
		return a.Succinct, nil
	default:
		return nil, fmt.Errorf("assumption receipt must have exactly one variant set")
	}
}

// Validate checks structural well-formedness.
func (a *AssumptionReceipt) Validate() error {
	inner, err := a.inner()
	if err != nil {
		return err
	}
	switch r := inner.(type) {
	case *CompositeReceipt:
		return r.Validate()
	case *SuccinctReceipt:
		return r.Validate()
	}
	return nil
}

// CompositeReceipt chains segment receipts end to end and carries the
// receipts that discharge the final claim's assumptions, in order.
type CompositeReceipt struct {
	Segments           []SegmentReceipt    `cbor:"1,keyasint"`
	Assumptions        []AssumptionReceipt `cbor:"2,keyasint,omitempty"`
	VerifierParameters core.Digest         `cbor:"3,keyasint"`
}

// Kind implements InnerReceipt.
func (*CompositeReceipt) Kind() Kind { return KindComposite }

// claim derives the composite claim from the verified segment chain: the
// first segment's pre-state, the last segment's post-state, journal, and
// exit condition. Assumptions are collected from every segment's claim in
// segment order, so an assumption recorded by an intermediate segment
// keeps the composite conditional until it is discharged.
func (r *CompositeReceipt) claim(core.HashSuite) (Claim, error) {
	if len(r.Segments) == 0 {
		return Claim{}, fmt.Errorf("composite receipt has no segments")
	}
	first := r.Segments[0].Claim
	last := r.Segments[len(r.Segments)-1].Claim
	var assumptions []core.Digest
	for i := range r.Segments {
		assumptions = append(assumptions, r.Segments[i].Claim.Assumptions...)
	}
	return Claim{
		PreStateDigest:  first.PreStateDigest,
		PostStateDigest: last.PostStateDigest,
		ExitCode:        last.ExitCode,
		Journal:         last.Journal,
		Assumptions:     assumptions,
	}, nil
}

// Validate checks structural well-formedness of the whole tree.
func (r *CompositeReceipt) Validate() error {
	if len(r.Segments) == 0 {
		return fmt.Errorf("composite receipt has no segments")
	}
	for i := range r.Segments {
		if err := r.Segments[i].Validate(); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	for i := range r.Assumptions {
		if err := r.Assumptions[i].Validate(); err != nil {
			return fmt.Errorf("assumption %d: %w", i, err)
		}
	}
	return nil
}

// WrappedReceipt is an externally verified non-STARK envelope: a
// pairing-based proof over the claim digest, checked through the trusted
// primitive boundary rather than the STARK pipeline.
type WrappedReceipt struct {
	Seal               []byte      `cbor:"1,keyasint"`
	Claim              Claim       `cbor:"2,keyasint"`
	VerifierParameters core.Digest `cbor:"3,keyasint"`
}

// Kind implements InnerReceipt.
func (*WrappedReceipt) Kind() Kind { return KindWrapped }

func (r *WrappedReceipt) claim(core.HashSuite) (Claim, error) {
	return r.Claim, nil
}

// Validate checks structural well-formedness.
func (r *WrappedReceipt) Validate() error {
	if len(r.Seal) == 0 {
		return fmt.Errorf("wrapped receipt is missing its seal")
	}
	return r.Claim.Validate()
}
