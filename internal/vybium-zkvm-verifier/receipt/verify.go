package receipt

import (
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/logger"
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/protocols"
)

// VerifierContext carries everything verification needs besides the receipt
// itself: the hash suite, the proof parameters, the per-circuit seal
// verifiers, and optionally a trusted verifier for wrapped envelopes. A
// context is immutable after construction and safe for concurrent use.
type VerifierContext struct {
	suite   core.HashSuite
	params  protocols.ProofParameters
	wrapped WrappedVerifier

	segment      *protocols.SealVerifier
	recursion    *protocols.SealVerifier
	paramsDigest core.Digest
}

// NewVerifierContext builds a context over the given suite and parameters.
func NewVerifierContext(suite core.HashSuite, params protocols.ProofParameters) (*VerifierContext, error) {
	if suite == nil {
		return nil, core.NewError(core.CodeDecode, "context", "hash suite is nil")
	}
	if err := params.Validate(); err != nil {
		return nil, core.NewError(core.CodeDecode, "context", "invalid proof parameters").WithCause(err)
	}
	segment, err := protocols.NewSealVerifier(suite, params, protocols.SegmentCircuit{})
	if err != nil {
		return nil, err
	}
	recursion, err := protocols.NewSealVerifier(suite, params, protocols.RecursionCircuit{})
	if err != nil {
		return nil, err
	}
	return &VerifierContext{
		suite:        suite,
		params:       params,
		segment:      segment,
		recursion:    recursion,
		paramsDigest: params.Digest(suite),
	}, nil
}

// DefaultVerifierContext builds a context with SHA-256 and the default
// proof parameters.
func DefaultVerifierContext() (*VerifierContext, error) {
	return NewVerifierContext(core.Sha256Suite{}, protocols.DefaultProofParameters())
}

// WithWrappedVerifier returns a copy of the context that accepts wrapped
// receipts through w. A context without one rejects every wrapped receipt.
func (v *VerifierContext) WithWrappedVerifier(w WrappedVerifier) *VerifierContext {
	ctx := *v
	ctx.wrapped = w
	return &ctx
}

// Suite returns the context's hash suite.
func (v *VerifierContext) Suite() core.HashSuite { return v.suite }

// Params returns the context's proof parameters.
func (v *VerifierContext) Params() protocols.ProofParameters { return v.params }

// ParametersDigest returns the digest a receipt's VerifierParameters field
// must carry to be accepted by this context.
func (v *VerifierContext) ParametersDigest() core.Digest { return v.paramsDigest }

// SegmentControlID returns the control ID of the segment circuit under this
// context, for allow-list construction.
func (v *VerifierContext) SegmentControlID() core.Digest { return v.segment.ControlID() }

// RecursionControlID returns the control ID of the recursion circuit under
// this context.
func (v *VerifierContext) RecursionControlID() core.Digest { return v.recursion.ControlID() }

// VerifyIntegrity runs the full pipeline on a decoded receipt against the
// caller's allow root and returns the unconditional verified claim. Every
// path through here either fully verifies, including discharging all
// assumptions, or returns a typed error; there is no partial success.
func (v *VerifierContext) VerifyIntegrity(r *Receipt, allowRoot core.Digest) (*VerifiedClaim, error) {
	if r == nil || r.Inner == nil {
		return nil, core.NewError(core.CodeDecode, "receipt", "receipt has no inner variant")
	}
	return v.verifyInner(r.Inner, allowRoot)
}

// verifyInner dispatches over the closed variant set. It is also the
// resolver's callback, so assumption receipts get exactly the scrutiny of a
// top-level receipt.
func (v *VerifierContext) verifyInner(inner InnerReceipt, allowRoot core.Digest) (*VerifiedClaim, error) {
	log := logger.Logger()
	switch r := inner.(type) {
	case *SegmentReceipt:
		log.Debug().Str("kind", "segment").Msg("verifying receipt")
		if err := v.verifySegment(r, allowRoot); err != nil {
			return nil, err
		}
		if len(r.Claim.Assumptions) != 0 {
			return nil, core.NewError(core.CodeAssumptionMismatch, "segment",
				"segment receipt carries %d undischarged assumptions", len(r.Claim.Assumptions))
		}
		return &VerifiedClaim{Claim: r.Claim, ControlID: r.ControlID}, nil

	case *CompositeReceipt:
		log.Debug().Str("kind", "composite").Int("segments", len(r.Segments)).Msg("verifying receipt")
		return v.verifyComposite(r, allowRoot)

	case *SuccinctReceipt:
		log.Debug().Str("kind", "succinct").Msg("verifying receipt")
		if err := v.verifySuccinct(r, allowRoot); err != nil {
			return nil, err
		}
		if len(r.Claim.Assumptions) != 0 {
			return nil, core.NewError(core.CodeAssumptionMismatch, "succinct",
				"succinct receipt carries %d undischarged assumptions", len(r.Claim.Assumptions))
		}
		return &VerifiedClaim{Claim: r.Claim, ControlID: r.ControlID}, nil

	case *WrappedReceipt:
		log.Debug().Str("kind", "wrapped").Msg("verifying receipt")
		return v.verifyWrapped(r)

	default:
		return nil, core.NewError(core.CodeUnsupportedVariant, "receipt",
			"unknown receipt variant %T", inner)
	}
}

// verifySegment checks one segment receipt cryptographically. Assumption
// handling is the caller's concern: a composite parent resolves them, a
// top-level caller rejects them.
func (v *VerifierContext) verifySegment(r *SegmentReceipt, allowRoot core.Digest) error {
	if err := r.Validate(); err != nil {
		return core.NewError(core.CodeDecode, "segment", "malformed segment receipt").WithCause(err)
	}

	// 1. The receipt must have been produced under this context's
	// parameters; a digest mismatch means a different security level.
	if !r.VerifierParameters.Equal(v.paramsDigest) {
		return core.NewError(core.CodeUntrustedControlID, "segment",
			"verifier parameters digest %s does not match context %s",
			r.VerifierParameters, v.paramsDigest)
	}

	// 2. The declared control ID must be the one this context derives for
	// the segment circuit, and it must sit under the caller's allow root.
	if !r.ControlID.Equal(v.segment.ControlID()) {
		return core.NewError(core.CodeUntrustedControlID, "segment",
			"control ID %s does not match segment circuit %s",
			r.ControlID, v.segment.ControlID())
	}
	if err := VerifyControlInclusion(v.suite, r.ControlID, r.ControlInclusion, allowRoot); err != nil {
		return err
	}

	// 3. The seal must prove exactly this claim.
	claimDigest := r.Claim.Digest(v.suite)
	return v.segment.Verify(r.Seal, claimDigest, r.Claim.Binding())
}

// verifyComposite verifies the segment chain, checks continuity, derives
// the composite claim, and discharges its assumptions.
func (v *VerifierContext) verifyComposite(r *CompositeReceipt, allowRoot core.Digest) (*VerifiedClaim, error) {
	if err := r.Validate(); err != nil {
		return nil, core.NewError(core.CodeDecode, "composite", "malformed composite receipt").WithCause(err)
	}
	if !r.VerifierParameters.Equal(v.paramsDigest) {
		return nil, core.NewError(core.CodeUntrustedControlID, "composite",
			"verifier parameters digest %s does not match context %s",
			r.VerifierParameters, v.paramsDigest)
	}

	// 1. Every segment verifies on its own.
	for i := range r.Segments {
		if err := v.verifySegment(&r.Segments[i], allowRoot); err != nil {
			if verr, ok := err.(*core.VerificationError); ok && verr.Index < 0 {
				return nil, verr.WithIndex(i)
			}
			return nil, err
		}
	}

	// 2. Segments chain: each post-state is the next pre-state, and only
	// the final segment may end in anything but a system split.
	for i := 0; i+1 < len(r.Segments); i++ {
		cur, next := &r.Segments[i].Claim, &r.Segments[i+1].Claim
		if !cur.PostStateDigest.Equal(next.PreStateDigest) {
			return nil, core.NewError(core.CodeConstraint, "continuity",
				"segment post-state %s does not match next pre-state %s",
				cur.PostStateDigest, next.PreStateDigest).WithIndex(i)
		}
		if cur.ExitCode.Kind != ExitSystemSplit {
			return nil, core.NewError(core.CodeConstraint, "continuity",
				"non-final segment exited with %d, expected system split",
				cur.ExitCode.Kind).WithIndex(i)
		}
	}

	// 3. Discharge the composite claim's assumptions positionally.
	claim, err := r.claim(v.suite)
	if err != nil {
		return nil, core.NewError(core.CodeDecode, "composite", "cannot derive composite claim").WithCause(err)
	}
	resolver := &assumptionResolver{
		suite: v.suite,
		verify: func(inner InnerReceipt) (*VerifiedClaim, error) {
			return v.verifyInner(inner, allowRoot)
		},
	}
	resolved, _, err := resolver.resolve(claim, r.Assumptions)
	if err != nil {
		return nil, err
	}
	return &VerifiedClaim{Claim: resolved, ControlID: v.segment.ControlID()}, nil
}

// verifySuccinct checks a recursively compressed receipt: same control
// discipline as a segment, but the seal is over the recursion circuit and
// binds only the claim digest.
func (v *VerifierContext) verifySuccinct(r *SuccinctReceipt, allowRoot core.Digest) error {
	if err := r.Validate(); err != nil {
		return core.NewError(core.CodeDecode, "succinct", "malformed succinct receipt").WithCause(err)
	}
	if !r.VerifierParameters.Equal(v.paramsDigest) {
		return core.NewError(core.CodeUntrustedControlID, "succinct",
			"verifier parameters digest %s does not match context %s",
			r.VerifierParameters, v.paramsDigest)
	}
	if !r.ControlID.Equal(v.recursion.ControlID()) {
		return core.NewError(core.CodeUntrustedControlID, "succinct",
			"control ID %s does not match recursion circuit %s",
			r.ControlID, v.recursion.ControlID())
	}
	if err := VerifyControlInclusion(v.suite, r.ControlID, r.ControlInclusion, allowRoot); err != nil {
		return err
	}

	claimDigest := r.Claim.Digest(v.suite)
	binding := []core.Elem{core.FoldDigest(claimDigest)}
	return v.recursion.Verify(r.Seal, claimDigest, binding)
}

// verifyWrapped hands the envelope to the trusted primitive boundary. The
// wrapped proof covers the claim digest only, so the claim must already be
// unconditional.
func (v *VerifierContext) verifyWrapped(r *WrappedReceipt) (*VerifiedClaim, error) {
	if v.wrapped == nil {
		return nil, core.NewError(core.CodeUnsupportedVariant, "wrapped",
			"context has no wrapped-proof verifier configured")
	}
	if err := r.Validate(); err != nil {
		return nil, core.NewError(core.CodeDecode, "wrapped", "malformed wrapped receipt").WithCause(err)
	}
	if !r.VerifierParameters.Equal(v.paramsDigest) {
		return nil, core.NewError(core.CodeUntrustedControlID, "wrapped",
			"verifier parameters digest %s does not match context %s",
			r.VerifierParameters, v.paramsDigest)
	}
	if len(r.Claim.Assumptions) != 0 {
		return nil, core.NewError(core.CodeAssumptionMismatch, "wrapped",
			"wrapped receipt carries %d undischarged assumptions", len(r.Claim.Assumptions))
	}

	claimDigest := r.Claim.Digest(v.suite)
	if err := v.wrapped.VerifyWrapped(r.Seal, claimDigest); err != nil {
		return nil, err
	}
	return &VerifiedClaim{Claim: r.Claim, ControlID: v.wrapped.ControlID(v.suite)}, nil
}
