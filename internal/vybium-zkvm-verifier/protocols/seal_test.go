package protocols

import (
	"testing"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

func TestSealValidateAcceptsHonestSeal(t *testing.T) {
	seal, _, _, _ := proveFixture(t, core.Sha256Suite{}, SegmentCircuit{}, 3)
	if err := seal.Validate(DefaultProofParameters(), SegmentCircuit{}); err != nil {
		t.Errorf("honest seal rejected: %v", err)
	}
}

func TestSealValidateRejectsBadShapes(t *testing.T) {
	params := DefaultProofParameters()
	tests := []struct {
		name   string
		mutate func(*Seal)
	}{
		{"po2 above maximum", func(s *Seal) { s.Po2 = uint32(params.MaxPo2) + 1 }},
		{"po2 below minimum", func(s *Seal) { s.Po2 = 0 }},
		{"missing fri root", func(s *Seal) { s.FriRoots = s.FriRoots[:len(s.FriRoots)-1] }},
		{"missing query", func(s *Seal) { s.Queries = s.Queries[:len(s.Queries)-1] }},
		{"non-canonical final value", func(s *Seal) { s.FinalValue = core.Elem(core.Modulus) }},
		{"wrong row width", func(s *Seal) { s.Queries[0].Row = s.Queries[0].Row[:1] }},
		{"non-canonical row element", func(s *Seal) { s.Queries[0].Row[0] = core.Elem(core.Modulus) }},
		{"non-canonical composition value", func(s *Seal) { s.Queries[0].CompValue = core.Elem(core.Modulus) }},
		{"truncated row path", func(s *Seal) { s.Queries[0].RowPath = s.Queries[0].RowPath[:2] }},
		{"truncated composition path", func(s *Seal) { s.Queries[0].CompPath = nil }},
		{"missing fri round", func(s *Seal) { s.Queries[0].Rounds = s.Queries[0].Rounds[:1] }},
		{"truncated fri round path", func(s *Seal) { s.Queries[0].Rounds[0].ValuePath = nil }},
		{"non-canonical fri value", func(s *Seal) { s.Queries[0].Rounds[0].Value = core.Elem(^uint32(0)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seal, _, _, _ := proveFixture(t, core.Sha256Suite{}, SegmentCircuit{}, 3)
			tt.mutate(seal)
			if err := seal.Validate(params, SegmentCircuit{}); err == nil {
				t.Error("malformed seal accepted")
			}
		})
	}
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultProofParameters().Validate(); err != nil {
		t.Errorf("default parameters rejected: %v", err)
	}
	tests := []struct {
		name   string
		mutate func(*ProofParameters)
	}{
		{"zero queries", func(p *ProofParameters) { p.Queries = 0 }},
		{"non-power-of-two blowup", func(p *ProofParameters) { p.Blowup = 3 }},
		{"blowup of one", func(p *ProofParameters) { p.Blowup = 1 }},
		{"inverted po2 range", func(p *ProofParameters) { p.MinPo2 = p.MaxPo2 + 1 }},
		{"po2 beyond two-adicity", func(p *ProofParameters) { p.MaxPo2 = core.MaxRouPo2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultProofParameters()
			tt.mutate(&params)
			if err := params.Validate(); err == nil {
				t.Error("invalid parameters accepted")
			}
		})
	}
}

func TestParamsCheckPo2(t *testing.T) {
	params := DefaultProofParameters()
	if err := params.CheckPo2(params.MinPo2); err != nil {
		t.Errorf("minimum po2 rejected: %v", err)
	}
	if err := params.CheckPo2(params.MaxPo2); err != nil {
		t.Errorf("maximum po2 rejected: %v", err)
	}
	if err := params.CheckPo2(params.MaxPo2 + 1); err == nil {
		t.Error("po2 above maximum accepted")
	}
	if err := params.CheckPo2(params.MinPo2 - 1); err == nil {
		t.Error("po2 below minimum accepted")
	}
}

func TestParamsDigestSeparation(t *testing.T) {
	suite := core.Sha256Suite{}
	base := DefaultProofParameters()
	baseDigest := base.Digest(suite)

	other := base
	other.Queries++
	if other.Digest(suite).Equal(baseDigest) {
		t.Error("distinct parameters share a digest")
	}
	if !base.Digest(suite).Equal(baseDigest) {
		t.Error("parameters digest is not deterministic")
	}
}
