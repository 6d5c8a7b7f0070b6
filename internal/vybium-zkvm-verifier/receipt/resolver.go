package receipt

import (
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

// ResolutionState tracks one assumption through resolution.
type ResolutionState int

const (
	// ResolutionUnresolved means no receipt has been examined yet
	ResolutionUnresolved ResolutionState = iota

	// ResolutionResolving means the paired receipt is being verified
	ResolutionResolving

	// ResolutionResolved means the paired receipt verified and its claim
	// digest matched the assumption
	ResolutionResolved

	// ResolutionRejected means the paired receipt failed verification or
	// proved a different claim
	ResolutionRejected
)

// String implements fmt.Stringer.
func (s ResolutionState) String() string {
	switch s {
	case ResolutionUnresolved:
		return "unresolved"
	case ResolutionResolving:
		return "resolving"
	case ResolutionResolved:
		return "resolved"
	case ResolutionRejected:
		return "rejected"
	default:
		return "invalid"
	}
}

// Resolution records the outcome for one assumption slot.
type Resolution struct {
	Assumption core.Digest
	Proven     core.Digest
	State      ResolutionState
}

// assumptionResolver pairs a claim's assumption list with discharge
// receipts. Matching is positional: the i-th receipt must prove exactly the
// i-th assumption digest, and the counts must agree. verify is the full
// receipt pipeline, so discharging an assumption costs the same scrutiny as
// verifying a top-level receipt.
type assumptionResolver struct {
	suite  core.HashSuite
	verify func(inner InnerReceipt) (*VerifiedClaim, error)
}

// resolve discharges every assumption of claim against receipts and returns
// the unconditional claim with the assumption list emptied. The per-slot
// outcomes are returned even on error so callers can log which slot failed.
func (r *assumptionResolver) resolve(claim Claim, receipts []AssumptionReceipt) (Claim, []Resolution, error) {
	outcomes := make([]Resolution, len(claim.Assumptions))
	for i, a := range claim.Assumptions {
		outcomes[i] = Resolution{Assumption: a, State: ResolutionUnresolved}
	}

	if len(receipts) != len(claim.Assumptions) {
		return Claim{}, outcomes, core.NewError(core.CodeAssumptionMismatch, "resolve",
			"claim carries %d assumptions but %d discharge receipts were supplied",
			len(claim.Assumptions), len(receipts))
	}

	for i := range receipts {
		outcomes[i].State = ResolutionResolving

		inner, err := receipts[i].inner()
		if err != nil {
			outcomes[i].State = ResolutionRejected
			return Claim{}, outcomes, core.NewError(core.CodeDecode, "resolve",
				"malformed assumption receipt").WithIndex(i).WithCause(err)
		}

		verified, err := r.verify(inner)
		if err != nil {
			outcomes[i].State = ResolutionRejected
			return Claim{}, outcomes, core.NewError(core.CodeAssumptionMismatch, "resolve",
				"assumption receipt failed verification").WithIndex(i).WithCause(err)
		}

		proven := verified.Claim.Digest(r.suite)
		outcomes[i].Proven = proven
		if !proven.Equal(claim.Assumptions[i]) {
			outcomes[i].State = ResolutionRejected
			return Claim{}, outcomes, core.NewError(core.CodeAssumptionMismatch, "resolve",
				"assumption receipt proves claim %s, expected %s",
				proven, claim.Assumptions[i]).WithIndex(i)
		}
		outcomes[i].State = ResolutionResolved
	}

	resolved := claim
	resolved.Assumptions = nil
	return resolved, outcomes, nil
}
