package protocols

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

func proveFixture(t *testing.T, suite core.HashSuite, circuit Circuit, po2 int) (*Seal, core.Digest, []core.Elem, *SealVerifier) {
	t.Helper()
	params := DefaultProofParameters()
	claimDigest := suite.Hash([]byte("test claim"))
	binding := testBinding(circuit)

	prover, err := NewProver(suite, params, circuit)
	if err != nil {
		t.Fatal(err)
	}
	seal, err := prover.Prove(claimDigest, binding, po2)
	if err != nil {
		t.Fatal(err)
	}
	verifier, err := NewSealVerifier(suite, params, circuit)
	if err != nil {
		t.Fatal(err)
	}
	return seal, claimDigest, binding, verifier
}

func TestProveVerifyRoundTrip(t *testing.T) {
	suite := core.Sha256Suite{}
	for _, circuit := range []Circuit{SegmentCircuit{}, RecursionCircuit{}} {
		for _, po2 := range []int{1, 3, 5} {
			t.Run(circuit.Name(), func(t *testing.T) {
				seal, claimDigest, binding, verifier := proveFixture(t, suite, circuit, po2)
				if err := verifier.Verify(seal, claimDigest, binding); err != nil {
					t.Fatalf("po2 %d: honest seal rejected: %v", po2, err)
				}
			})
		}
	}
}

func TestProveVerifyAcrossSuites(t *testing.T) {
	for _, name := range []string{"sha256", "sha3", "blake3", "tip5"} {
		t.Run(name, func(t *testing.T) {
			suite, err := core.SuiteByName(name)
			if err != nil {
				t.Fatal(err)
			}
			seal, claimDigest, binding, verifier := proveFixture(t, suite, SegmentCircuit{}, 3)
			if err := verifier.Verify(seal, claimDigest, binding); err != nil {
				t.Fatalf("honest seal rejected: %v", err)
			}
		})
	}
}

func TestProveIsDeterministic(t *testing.T) {
	suite := core.Sha256Suite{}
	a, _, _, _ := proveFixture(t, suite, SegmentCircuit{}, 4)
	b, _, _, _ := proveFixture(t, suite, SegmentCircuit{}, 4)
	if !reflect.DeepEqual(a, b) {
		t.Error("proving the same claim twice produced different seals")
	}
}

func TestVerifyRejectsWrongClaimDigest(t *testing.T) {
	suite := core.Sha256Suite{}
	seal, _, binding, verifier := proveFixture(t, suite, SegmentCircuit{}, 3)
	wrong := suite.Hash([]byte("a different claim"))
	if err := verifier.Verify(seal, wrong, binding); err == nil {
		t.Error("seal accepted for a different claim digest")
	}
}

func TestVerifyRejectsWrongBinding(t *testing.T) {
	suite := core.Sha256Suite{}
	seal, claimDigest, binding, verifier := proveFixture(t, suite, SegmentCircuit{}, 3)
	wrong := make([]core.Elem, len(binding))
	copy(wrong, binding)
	wrong[0] = wrong[0].Add(1)

	err := verifier.Verify(seal, claimDigest, wrong)
	if err == nil {
		t.Fatal("seal accepted for a different binding")
	}
	if !errors.Is(err, core.ErrKind(core.CodeConstraint)) {
		t.Errorf("want constraint violation, got: %v", err)
	}
}

func TestVerifyRejectsTamperedOpening(t *testing.T) {
	suite := core.Sha256Suite{}
	seal, claimDigest, binding, verifier := proveFixture(t, suite, SegmentCircuit{}, 3)
	seal.Queries[0].Row[0] = seal.Queries[0].Row[0].Add(1)

	err := verifier.Verify(seal, claimDigest, binding)
	if err == nil {
		t.Fatal("tampered trace opening accepted")
	}
	if !errors.Is(err, core.ErrKind(core.CodeCommitment)) {
		t.Errorf("want commitment mismatch, got: %v", err)
	}
}

func TestVerifyRejectsTamperedFriOpening(t *testing.T) {
	suite := core.Sha256Suite{}
	seal, claimDigest, binding, verifier := proveFixture(t, suite, SegmentCircuit{}, 3)
	r := &seal.Queries[0].Rounds[0]
	r.Value = r.Value.Add(1)
	r.Sibling = r.Sibling.Add(1)

	err := verifier.Verify(seal, claimDigest, binding)
	if err == nil {
		t.Fatal("tampered FRI opening accepted")
	}
	if !errors.Is(err, core.ErrKind(core.CodeLowDegree)) {
		t.Errorf("want low-degree failure, got: %v", err)
	}
}

func TestVerifyRejectsTamperedCommitments(t *testing.T) {
	suite := core.Sha256Suite{}
	tests := []struct {
		name   string
		mutate func(*Seal)
	}{
		{"trace root", func(s *Seal) { s.TraceRoot[0] ^= 1 }},
		{"composition root", func(s *Seal) { s.CompRoot[0] ^= 1 }},
		{"fri root", func(s *Seal) { s.FriRoots[0][0] ^= 1 }},
		{"final value", func(s *Seal) { s.FinalValue = s.FinalValue.Add(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seal, claimDigest, binding, verifier := proveFixture(t, suite, SegmentCircuit{}, 3)
			tt.mutate(seal)
			if err := verifier.Verify(seal, claimDigest, binding); err == nil {
				t.Error("tampered seal accepted")
			}
		})
	}
}

func TestVerifyRejectsNilSeal(t *testing.T) {
	suite := core.Sha256Suite{}
	verifier, err := NewSealVerifier(suite, DefaultProofParameters(), SegmentCircuit{})
	if err != nil {
		t.Fatal(err)
	}
	verr := verifier.Verify(nil, suite.Hash([]byte("claim")), testBinding(SegmentCircuit{}))
	if !errors.Is(verr, core.ErrKind(core.CodeDecode)) {
		t.Errorf("want decode error, got: %v", verr)
	}
}
