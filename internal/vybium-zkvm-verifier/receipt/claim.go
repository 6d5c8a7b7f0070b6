package receipt

import (
	"encoding/binary"
	"fmt"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

// ExitKind classifies how an execution ended.
type ExitKind uint32

const (
	// ExitHalted is a normal termination with a user exit code
	ExitHalted ExitKind = iota

	// ExitPaused is a suspension that a later segment may resume
	ExitPaused

	// ExitSystemSplit ends a segment that continues in the next segment of
	// a composite receipt
	ExitSystemSplit
)

// ExitCode is the exit condition of a claim: the system-level kind plus the
// user-level code.
type ExitCode struct {
	Kind ExitKind `cbor:"1,keyasint"`
	User uint32   `cbor:"2,keyasint"`
}

// Validate checks the exit kind is a known value.
func (e ExitCode) Validate() error {
	if e.Kind > ExitSystemSplit {
		return fmt.Errorf("unknown exit kind %d", e.Kind)
	}
	return nil
}

// Claim is the statement a receipt proves: the machine state digests before
// and after execution, the exit condition, the digest of the public output,
// and the ordered claim digests of every assumption the execution relied
// on. A claim with a non-empty assumption list is conditional; it is not
// trustable until every assumption is independently verified and matched.
type Claim struct {
	PreStateDigest  core.Digest   `cbor:"1,keyasint"`
	PostStateDigest core.Digest   `cbor:"2,keyasint"`
	ExitCode        ExitCode      `cbor:"3,keyasint"`
	Journal         core.Digest   `cbor:"4,keyasint"`
	Assumptions     []core.Digest `cbor:"5,keyasint,omitempty"`
}

// Validate checks the claim is well-formed.
func (c *Claim) Validate() error {
	if err := c.ExitCode.Validate(); err != nil {
		return fmt.Errorf("invalid claim: %w", err)
	}
	return nil
}

// assumptionsDigest commits to the ordered assumption list.
func (c *Claim) assumptionsDigest(suite core.HashSuite) core.Digest {
	buf := make([]byte, 0, 64+len(c.Assumptions)*core.DigestBytes)
	buf = append(buf, []byte("vybium.zkvm.verifier.Assumptions:")...)
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(c.Assumptions)))
	buf = append(buf, count[:]...)
	for _, a := range c.Assumptions {
		buf = append(buf, a[:]...)
	}
	return suite.Hash(buf)
}

// Digest computes the claim's tagged digest. Every field participates, so
// two claims differing in any field, including assumption order, have
// different digests.
func (c *Claim) Digest(suite core.HashSuite) core.Digest {
	assumptions := c.assumptionsDigest(suite)
	buf := make([]byte, 0, 64+4*core.DigestBytes)
	buf = append(buf, []byte("vybium.zkvm.verifier.Claim:")...)
	buf = append(buf, c.PreStateDigest[:]...)
	buf = append(buf, c.PostStateDigest[:]...)
	buf = append(buf, c.Journal[:]...)
	buf = append(buf, assumptions[:]...)
	var exit [8]byte
	binary.LittleEndian.PutUint32(exit[0:], uint32(c.ExitCode.Kind))
	binary.LittleEndian.PutUint32(exit[4:], c.ExitCode.User)
	buf = append(buf, exit[:]...)
	return suite.Hash(buf)
}

// Binding folds the claim fields the segment circuit pins in boundary
// constraints: pre-state, journal, post-state, in circuit column order.
func (c *Claim) Binding() []core.Elem {
	return []core.Elem{
		core.FoldDigest(c.PreStateDigest),
		core.FoldDigest(c.Journal),
		core.FoldDigest(c.PostStateDigest),
	}
}

// Journal is a proven program's public output.
type Journal struct {
	Bytes []byte
}

// Digest hashes the raw journal bytes.
func (j Journal) Digest(suite core.HashSuite) core.Digest {
	return suite.Hash(j.Bytes)
}

// ClaimOK constructs the claim of a successful, assumption-free execution
// from a pre-state digest and a journal digest, the statement callers most
// commonly cross-check against.
func ClaimOK(preState, postState, journal core.Digest) Claim {
	return Claim{
		PreStateDigest:  preState,
		PostStateDigest: postState,
		ExitCode:        ExitCode{Kind: ExitHalted, User: 0},
		Journal:         journal,
	}
}

// VerifiedClaim is the output of successful verification: the resolved
// claim plus the control ID that was actually used, returned as evidence
// that the full pipeline, not just syntax, accepted the receipt.
type VerifiedClaim struct {
	Claim     Claim
	ControlID core.Digest
}
