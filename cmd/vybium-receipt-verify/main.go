package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	vybiumzkvmverifier "github.com/vybium/vybium-zkvm-verifier/pkg/vybium-zkvm-verifier"
)

// Result is the JSON document printed on successful verification.
type Result struct {
	Ok              bool   `json:"ok"`
	ControlID       string `json:"control_id"`
	PreStateDigest  string `json:"pre_state_digest"`
	PostStateDigest string `json:"post_state_digest"`
	JournalDigest   string `json:"journal_digest"`
	ExitKind        uint32 `json:"exit_kind"`
	ExitUser        uint32 `json:"exit_user"`
}

func main() {
	receiptPath := flag.String("receipt", "", "path to the encoded receipt file")
	allowRootHex := flag.String("allow-root", "", "allow-list root as 64 hex characters")
	journalHex := flag.String("journal", "", "expected journal digest as 64 hex characters (optional)")
	suiteName := flag.String("suite", "sha256", "hash suite: sha256, sha3, blake3, tip5")
	flag.Parse()

	if *receiptPath == "" || *allowRootHex == "" {
		fatal("both -receipt and -allow-root are required")
	}

	receiptBytes, err := os.ReadFile(*receiptPath)
	if err != nil {
		fatal(fmt.Sprintf("cannot read receipt: %v", err))
	}

	allowRoot, err := vybiumzkvmverifier.DigestFromHex(*allowRootHex)
	if err != nil {
		fatal(fmt.Sprintf("invalid allow root: %v", err))
	}

	var expectedJournal *vybiumzkvmverifier.Digest
	if *journalHex != "" {
		d, err := vybiumzkvmverifier.DigestFromHex(*journalHex)
		if err != nil {
			fatal(fmt.Sprintf("invalid journal digest: %v", err))
		}
		expectedJournal = &d
	}

	suite, err := vybiumzkvmverifier.SuiteByName(*suiteName)
	if err != nil {
		fatal(fmt.Sprintf("unknown hash suite: %v", err))
	}
	ctx, err := vybiumzkvmverifier.NewVerifierContext(suite, vybiumzkvmverifier.DefaultProofParameters())
	if err != nil {
		fatal(fmt.Sprintf("cannot build verifier context: %v", err))
	}

	verified, err := vybiumzkvmverifier.VerifyWithContext(ctx, receiptBytes, allowRoot, expectedJournal)
	if err != nil {
		fatal(fmt.Sprintf("verification failed: %v", err))
	}

	out := Result{
		Ok:              true,
		ControlID:       verified.ControlID.String(),
		PreStateDigest:  verified.Claim.PreStateDigest.String(),
		PostStateDigest: verified.Claim.PostStateDigest.String(),
		JournalDigest:   verified.Claim.Journal.String(),
		ExitKind:        uint32(verified.Claim.ExitCode.Kind),
		ExitUser:        verified.Claim.ExitCode.User,
	}
	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(out); err != nil {
		fatal(fmt.Sprintf("cannot write result: %v", err))
	}
}

func fatal(msg string) {
	fmt.Fprintf(os.Stderr, "vybium-receipt-verify: %s\n", msg)
	os.Exit(1)
}
