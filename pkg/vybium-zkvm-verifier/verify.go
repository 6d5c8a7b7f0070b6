package vybiumzkvmverifier

import (
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/logger"
)

// Verify decodes and fully verifies a receipt with the default context:
// SHA-256 and the default proof parameters. allowRoot is the Merkle root of
// the caller's trusted control IDs. If expectedJournal is non-nil, the
// verified claim's journal digest must match it exactly.
func Verify(receiptBytes []byte, allowRoot Digest, expectedJournal *Digest) (*VerifiedClaim, error) {
	ctx, err := DefaultVerifierContext()
	if err != nil {
		return nil, err
	}
	return VerifyWithContext(ctx, receiptBytes, allowRoot, expectedJournal)
}

// VerifyWithContext is Verify under a caller-built context.
func VerifyWithContext(ctx *VerifierContext, receiptBytes []byte, allowRoot Digest, expectedJournal *Digest) (*VerifiedClaim, error) {
	r, err := DecodeReceipt(receiptBytes)
	if err != nil {
		return nil, err
	}

	verified, err := ctx.VerifyIntegrity(r, allowRoot)
	if err != nil {
		return nil, err
	}

	if expectedJournal != nil && !verified.Claim.Journal.Equal(*expectedJournal) {
		return nil, core.NewError(core.CodeJournalMismatch, "journal",
			"verified journal digest %s does not match expected %s",
			verified.Claim.Journal, *expectedJournal)
	}

	log := logger.Logger()
	log.Debug().
		Str("control_id", verified.ControlID.String()).
		Str("journal", verified.Claim.Journal.String()).
		Msg("receipt verified")
	return verified, nil
}

// VerifyClaim is VerifyWithContext with a caller-supplied expected claim
// instead of a journal digest: after the receipt fully verifies, the
// expected claim's digest must match the verified claim's digest exactly.
// Callers typically build the expectation with ClaimOK from the state and
// journal digests they already know.
func VerifyClaim(ctx *VerifierContext, receiptBytes []byte, allowRoot Digest, expected Claim) (*VerifiedClaim, error) {
	verified, err := VerifyWithContext(ctx, receiptBytes, allowRoot, nil)
	if err != nil {
		return nil, err
	}
	want := expected.Digest(ctx.Suite())
	got := verified.Claim.Digest(ctx.Suite())
	if !got.Equal(want) {
		return nil, core.NewError(core.CodeJournalMismatch, "claim",
			"verified claim digest %s does not match expected %s", got, want)
	}
	return verified, nil
}

// VerifyBatch verifies several encoded receipts under one context and allow
// root. It stops at the first failure and annotates the error with the
// position of the receipt that failed.
func VerifyBatch(ctx *VerifierContext, receipts [][]byte, allowRoot Digest) ([]*VerifiedClaim, error) {
	claims := make([]*VerifiedClaim, 0, len(receipts))
	for i, raw := range receipts {
		verified, err := VerifyWithContext(ctx, raw, allowRoot, nil)
		if err != nil {
			if verr, ok := err.(*VerificationError); ok && verr.Index < 0 {
				return nil, verr.WithIndex(i)
			}
			return nil, err
		}
		claims = append(claims, verified)
	}
	return claims, nil
}
