package receipt

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

// generatorVK builds a structurally valid verifying key out of curve
// generators. It cannot accept any proof; it exists to exercise parsing and
// the pairing rejection path.
func generatorVK() Groth16VerifyingKey {
	_, _, g1, g2 := bn254.Generators()
	return Groth16VerifyingKey{
		Alpha: g1,
		Beta:  g2,
		Gamma: g2,
		Delta: g2,
		IC:    []bn254.G1Affine{g1, g1, g1},
	}
}

func generatorSeal() []byte {
	_, _, g1, g2 := bn254.Generators()
	a := g1.Bytes()
	b := g2.Bytes()
	c := g1.Bytes()
	seal := make([]byte, 0, len(a)+len(b)+len(c))
	seal = append(seal, a[:]...)
	seal = append(seal, b[:]...)
	seal = append(seal, c[:]...)
	return seal
}

func TestNewGroth16VerifierRequiresThreeICPoints(t *testing.T) {
	vk := generatorVK()
	vk.IC = vk.IC[:2]
	_, err := NewGroth16Verifier(vk)
	require.ErrorIs(t, err, core.ErrKind(core.CodeDecode))

	_, err = NewGroth16Verifier(generatorVK())
	require.NoError(t, err)
}

func TestGroth16RejectsMalformedSeal(t *testing.T) {
	g, err := NewGroth16Verifier(generatorVK())
	require.NoError(t, err)

	var claimDigest core.Digest
	tests := []struct {
		name string
		seal []byte
	}{
		{"empty", nil},
		{"garbage", []byte{0xff, 0xff, 0xff}},
		{"truncated", generatorSeal()[:40]},
		{"trailing bytes", append(generatorSeal(), 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.VerifyWrapped(tt.seal, claimDigest)
			require.ErrorIs(t, err, core.ErrKind(core.CodeDecode))
		})
	}
}

func TestGroth16ControlID(t *testing.T) {
	g, err := NewGroth16Verifier(generatorVK())
	require.NoError(t, err)

	suite := core.Sha256Suite{}
	id := g.ControlID(suite)
	require.NotEqual(t, core.Digest{}, id)
	require.Equal(t, id, g.ControlID(suite))

	// A different key must carry a different identity.
	other := generatorVK()
	other.Delta.Neg(&other.Delta)
	g2, err := NewGroth16Verifier(other)
	require.NoError(t, err)
	require.NotEqual(t, id, g2.ControlID(suite))
}

func TestGroth16RejectsFailedPairing(t *testing.T) {
	g, err := NewGroth16Verifier(generatorVK())
	require.NoError(t, err)

	// Generator points parse fine but cannot satisfy the pairing equation
	// under this key.
	err = g.VerifyWrapped(generatorSeal(), core.Digest{})
	require.ErrorIs(t, err, core.ErrKind(core.CodeConstraint))
}
