// Package vybiumzkvmverifier provides a production-ready verifier for
// Vybium zkVM execution receipts.
//
// A receipt attests that a program executed on the zkVM with a given public
// output. Verification checks the cryptographic seal, confirms the proving
// circuit is on the caller's allow list, discharges every assumption the
// claim depends on, and returns the unconditional verified claim.
//
// # Quick Start
//
// Verifying a receipt against an allow root and an expected journal digest:
//
//	journal := vybiumzkvmverifier.Sha256Suite{}.Hash(journalBytes)
//	claim, err := vybiumzkvmverifier.Verify(receiptBytes, allowRoot, &journal)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println("verified claim:", claim.Claim.Journal)
//
// Building a custom context with a different hash suite:
//
//	suite, err := vybiumzkvmverifier.SuiteByName("blake3")
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx, err := vybiumzkvmverifier.NewVerifierContext(suite, vybiumzkvmverifier.DefaultProofParameters())
//	if err != nil {
//		log.Fatal(err)
//	}
//	claim, err := vybiumzkvmverifier.VerifyWithContext(ctx, receiptBytes, allowRoot, nil)
//
// Constructing an allow list from trusted control IDs:
//
//	list, err := vybiumzkvmverifier.NewAllowList(suite, []vybiumzkvmverifier.Digest{
//		ctx.SegmentControlID(),
//		ctx.RecursionControlID(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	allowRoot := list.Root()
//
// # Error Handling
//
// Every rejection is a *VerificationError with a Code from the closed
// failure taxonomy. Match the rejection kind with errors.Is:
//
//	if errors.Is(err, vybiumzkvmverifier.ErrKind(vybiumzkvmverifier.CodeUntrustedControlID)) {
//		// circuit version is not on the allow list
//	}
//
// # Architecture
//
// - pkg/vybium-zkvm-verifier/: Public API (this package)
// - internal/vybium-zkvm-verifier/: Private implementation (not importable)
package vybiumzkvmverifier
