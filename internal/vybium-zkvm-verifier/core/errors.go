package core

import "fmt"

// Code classifies a verification failure. Every rejection produced by the
// pipeline maps to exactly one code; no failure is ever downgraded to an
// accept.
type Code int

const (
	// CodeUnknown represents an unclassified error
	CodeUnknown Code = iota

	// CodeDecode represents malformed bytes, a truncated buffer, or an
	// unknown wire version
	CodeDecode

	// CodeUnsupportedVariant represents a structurally valid but
	// unrecognized receipt shape
	CodeUnsupportedVariant

	// CodeConstraint represents a circuit constraint that evaluated to a
	// nonzero residual
	CodeConstraint

	// CodeCommitment represents a Merkle-authenticated opening that failed
	// to verify
	CodeCommitment

	// CodeLowDegree represents a folded proximity proof that did not reduce
	// to the expected bound
	CodeLowDegree

	// CodeUntrustedControlID represents a control identifier not included
	// under the supplied allow root
	CodeUntrustedControlID

	// CodeAssumptionMismatch represents a resolved assumption whose claim
	// digest does not match the dependent claim, or an assumption list whose
	// count or order differs from expectation
	CodeAssumptionMismatch

	// CodeJournalMismatch represents a caller-expected journal digest that
	// does not match the verified claim's
	CodeJournalMismatch
)

// String returns a short name for the code.
func (c Code) String() string {
	switch c {
	case CodeDecode:
		return "decode error"
	case CodeUnsupportedVariant:
		return "unsupported variant"
	case CodeConstraint:
		return "constraint violation"
	case CodeCommitment:
		return "commitment mismatch"
	case CodeLowDegree:
		return "low-degree check failed"
	case CodeUntrustedControlID:
		return "untrusted control identifier"
	case CodeAssumptionMismatch:
		return "assumption mismatch"
	case CodeJournalMismatch:
		return "journal mismatch"
	default:
		return "unknown error"
	}
}

// VerificationError is the typed rejection returned by every stage of the
// pipeline. Step names the check that failed and Index, when non-negative,
// names the query, segment, or assumption position it failed at, so a
// rejection can be diagnosed without re-running verification.
type VerificationError struct {
	Code    Code
	Step    string
	Index   int
	Message string
	Cause   error
}

// Error returns the error message
func (e *VerificationError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Code, e.Step, e.Message)
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s: %s[%d]: %s", e.Code, e.Step, e.Index, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the cause of the error
func (e *VerificationError) Unwrap() error {
	return e.Cause
}

// Is matches against another VerificationError by code only, so callers can
// test the rejection kind with errors.Is.
func (e *VerificationError) Is(target error) bool {
	t, ok := target.(*VerificationError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a VerificationError for the given code and step.
func NewError(code Code, step, format string, args ...interface{}) *VerificationError {
	return &VerificationError{
		Code:    code,
		Step:    step,
		Index:   -1,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithIndex attaches a position (query, segment, assumption) to the error.
func (e *VerificationError) WithIndex(i int) *VerificationError {
	e.Index = i
	return e
}

// WithCause attaches an underlying error.
func (e *VerificationError) WithCause(err error) *VerificationError {
	e.Cause = err
	return e
}

// ErrKind is a sentinel for errors.Is matching on a code.
func ErrKind(code Code) *VerificationError {
	return &VerificationError{Code: code, Index: -1}
}
