package vybiumzkvmverifier

import (
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

// Code classifies a verification failure.
type Code = core.Code

// Failure codes. Every rejection the verifier produces carries exactly one.
const (
	// CodeUnknown represents an unclassified error
	CodeUnknown = core.CodeUnknown

	// CodeDecode represents malformed bytes, a truncated buffer, or an
	// unknown wire version
	CodeDecode = core.CodeDecode

	// CodeUnsupportedVariant represents a structurally valid but
	// unrecognized receipt shape
	CodeUnsupportedVariant = core.CodeUnsupportedVariant

	// CodeConstraint represents a circuit constraint that evaluated to a
	// nonzero residual
	CodeConstraint = core.CodeConstraint

	// CodeCommitment represents a Merkle-authenticated opening that failed
	// to verify
	CodeCommitment = core.CodeCommitment

	// CodeLowDegree represents a folded proximity proof that did not reduce
	// to the expected bound
	CodeLowDegree = core.CodeLowDegree

	// CodeUntrustedControlID represents a control identifier not included
	// under the supplied allow root
	CodeUntrustedControlID = core.CodeUntrustedControlID

	// CodeAssumptionMismatch represents an assumption whose discharge
	// receipt is missing, misordered, or proves a different claim
	CodeAssumptionMismatch = core.CodeAssumptionMismatch

	// CodeJournalMismatch represents a caller-expected journal digest that
	// does not match the verified claim's
	CodeJournalMismatch = core.CodeJournalMismatch
)

// VerificationError is the typed rejection returned by every stage of the
// verifier.
type VerificationError = core.VerificationError

// ErrKind returns a sentinel that matches any VerificationError with the
// given code under errors.Is.
func ErrKind(code Code) *VerificationError {
	return core.ErrKind(code)
}
