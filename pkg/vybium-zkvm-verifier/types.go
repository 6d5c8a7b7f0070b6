package vybiumzkvmverifier

import (
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/protocols"
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/receipt"
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/wire"
)

// Digest is a 32-byte hash digest.
type Digest = core.Digest

// Elem is a Baby Bear field element.
type Elem = core.Elem

// HashSuite is a pluggable hash algorithm for transcripts and commitments.
type HashSuite = core.HashSuite

// Sha256Suite is the default SHA-256 hash suite.
type Sha256Suite = core.Sha256Suite

// ProofParameters fixes the security knobs of the proof system.
type ProofParameters = protocols.ProofParameters

// Seal is the decoded STARK argument inside a receipt.
type Seal = protocols.Seal

// Receipt is a decoded proof attestation.
type Receipt = receipt.Receipt

// InnerReceipt is the closed set of receipt variants.
type InnerReceipt = receipt.InnerReceipt

// SegmentReceipt proves one execution chunk.
type SegmentReceipt = receipt.SegmentReceipt

// CompositeReceipt chains segment receipts and assumption discharges.
type CompositeReceipt = receipt.CompositeReceipt

// SuccinctReceipt is a recursively compressed receipt.
type SuccinctReceipt = receipt.SuccinctReceipt

// WrappedReceipt is an externally verified pairing-based envelope.
type WrappedReceipt = receipt.WrappedReceipt

// AssumptionReceipt discharges one assumption of a conditional claim.
type AssumptionReceipt = receipt.AssumptionReceipt

// Claim is the statement a receipt proves.
type Claim = receipt.Claim

// ExitCode is a claim's exit condition.
type ExitCode = receipt.ExitCode

// ExitKind classifies how an execution ended.
type ExitKind = receipt.ExitKind

// Exit kinds.
const (
	ExitHalted      = receipt.ExitHalted
	ExitPaused      = receipt.ExitPaused
	ExitSystemSplit = receipt.ExitSystemSplit
)

// Journal is a proven program's public output.
type Journal = receipt.Journal

// VerifiedClaim is the output of successful verification.
type VerifiedClaim = receipt.VerifiedClaim

// VerifierContext carries the hash suite, proof parameters, and circuit
// verifiers that verification runs under.
type VerifierContext = receipt.VerifierContext

// InclusionProof authenticates a control ID under an allow root.
type InclusionProof = receipt.InclusionProof

// AllowList materializes trusted control IDs as a root plus proofs.
type AllowList = receipt.AllowList

// WrappedVerifier is the trusted primitive boundary for wrapped receipts.
type WrappedVerifier = receipt.WrappedVerifier

// Groth16Verifier checks wrapped seals with a bn254 pairing equation.
type Groth16Verifier = receipt.Groth16Verifier

// Groth16VerifyingKey is the verifying key for wrapped receipts.
type Groth16VerifyingKey = receipt.Groth16VerifyingKey

// ClaimOK builds the claim of a successful, assumption-free execution from
// the digests a caller typically knows ahead of time, for cross-checking
// with VerifyClaim.
func ClaimOK(preState, postState, journal Digest) Claim {
	return receipt.ClaimOK(preState, postState, journal)
}

// DigestFromHex parses a 64-character hex string into a Digest.
func DigestFromHex(s string) (Digest, error) {
	return core.DigestFromHex(s)
}

// SuiteByName returns a registered hash suite ("sha256", "sha3", "blake3",
// "tip5").
func SuiteByName(name string) (HashSuite, error) {
	return core.SuiteByName(name)
}

// DefaultProofParameters returns the parameter set receipts are produced
// under by default.
func DefaultProofParameters() ProofParameters {
	return protocols.DefaultProofParameters()
}

// NewVerifierContext builds a verification context.
func NewVerifierContext(suite HashSuite, params ProofParameters) (*VerifierContext, error) {
	return receipt.NewVerifierContext(suite, params)
}

// DefaultVerifierContext builds a context with SHA-256 and default
// parameters.
func DefaultVerifierContext() (*VerifierContext, error) {
	return receipt.DefaultVerifierContext()
}

// NewAllowList builds an allow list over trusted control IDs.
func NewAllowList(suite HashSuite, ids []Digest) (*AllowList, error) {
	return receipt.NewAllowList(suite, ids)
}

// NewGroth16Verifier builds a wrapped-proof verifier for one verifying key.
func NewGroth16Verifier(vk Groth16VerifyingKey) (*Groth16Verifier, error) {
	return receipt.NewGroth16Verifier(vk)
}

// EncodeReceipt serializes a receipt into the versioned wire envelope.
func EncodeReceipt(r *Receipt) ([]byte, error) {
	return wire.Encode(r)
}

// DecodeReceipt parses and structurally validates a receipt from envelope
// bytes without verifying it.
func DecodeReceipt(data []byte) (*Receipt, error) {
	return wire.Decode(data)
}
