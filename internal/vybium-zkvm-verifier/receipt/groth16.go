package receipt

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

// WrappedVerifier is the trusted-primitive boundary for non-STARK proof
// envelopes. An implementation decides whether the opaque seal attests the
// claim digest; the STARK pipeline never inspects the seal itself.
type WrappedVerifier interface {
	// ControlID identifies the wrapped circuit under the given suite. It
	// plays the role a circuit control ID plays for STARK receipts and is
	// recorded in the VerifiedClaim.
	ControlID(suite core.HashSuite) core.Digest

	VerifyWrapped(seal []byte, claimDigest core.Digest) error
}

// Groth16VerifyingKey is the pairing-side verifying key for wrapped
// receipts. IC must hold exactly three points: the constant term plus one
// per public input (the claim digest split into two scalars).
type Groth16VerifyingKey struct {
	Alpha bn254.G1Affine
	Beta  bn254.G2Affine
	Gamma bn254.G2Affine
	Delta bn254.G2Affine
	IC    []bn254.G1Affine
}

// Groth16Verifier checks wrapped seals with the pairing equation
//
//	e(A, B) * e(-alpha, beta) * e(-vkX, gamma) * e(-C, delta) == 1
//
// where vkX is the public-input linear combination over IC.
type Groth16Verifier struct {
	VK Groth16VerifyingKey
}

// NewGroth16Verifier creates a wrapped-proof verifier for one verifying key.
func NewGroth16Verifier(vk Groth16VerifyingKey) (*Groth16Verifier, error) {
	if len(vk.IC) != 3 {
		return nil, core.NewError(core.CodeDecode, "wrapped",
			"verifying key must carry 3 IC points, got %d", len(vk.IC))
	}
	return &Groth16Verifier{VK: vk}, nil
}

// ControlID implements WrappedVerifier: a tagged digest over the verifying
// key's compressed points, so claims proven under different keys carry
// distinguishable identities.
func (g *Groth16Verifier) ControlID(suite core.HashSuite) core.Digest {
	buf := make([]byte, 0, 32+4*64+len(g.VK.IC)*32)
	buf = append(buf, []byte("vybium.zkvm.verifier.Groth16:")...)
	alpha := g.VK.Alpha.Bytes()
	buf = append(buf, alpha[:]...)
	beta := g.VK.Beta.Bytes()
	buf = append(buf, beta[:]...)
	gamma := g.VK.Gamma.Bytes()
	buf = append(buf, gamma[:]...)
	delta := g.VK.Delta.Bytes()
	buf = append(buf, delta[:]...)
	for i := range g.VK.IC {
		p := g.VK.IC[i].Bytes()
		buf = append(buf, p[:]...)
	}
	return suite.Hash(buf)
}

// claimScalars splits a claim digest into the two field scalars the wrapping
// circuit exposes as public inputs: the high and low halves, big endian.
func claimScalars(claimDigest core.Digest) (fr.Element, fr.Element) {
	var hi, lo fr.Element
	hi.SetBytes(claimDigest[:16])
	lo.SetBytes(claimDigest[16:])
	return hi, lo
}

// VerifyWrapped implements WrappedVerifier. The seal is the gnark
// serialization of the proof points A (G1), B (G2), C (G1), in order.
func (g *Groth16Verifier) VerifyWrapped(seal []byte, claimDigest core.Digest) error {
	var a, c bn254.G1Affine
	var b bn254.G2Affine

	read, err := a.SetBytes(seal)
	if err != nil {
		return core.NewError(core.CodeDecode, "wrapped", "malformed proof point A").WithCause(err)
	}
	offset := read
	read, err = b.SetBytes(seal[offset:])
	if err != nil {
		return core.NewError(core.CodeDecode, "wrapped", "malformed proof point B").WithCause(err)
	}
	offset += read
	read, err = c.SetBytes(seal[offset:])
	if err != nil {
		return core.NewError(core.CodeDecode, "wrapped", "malformed proof point C").WithCause(err)
	}
	if offset+read != len(seal) {
		return core.NewError(core.CodeDecode, "wrapped", "%d trailing bytes after proof points", len(seal)-offset-read)
	}

	hi, lo := claimScalars(claimDigest)
	var hiBig, loBig big.Int
	hi.BigInt(&hiBig)
	lo.BigInt(&loBig)

	var vkX, term bn254.G1Affine
	vkX = g.VK.IC[0]
	term.ScalarMultiplication(&g.VK.IC[1], &hiBig)
	vkX.Add(&vkX, &term)
	term.ScalarMultiplication(&g.VK.IC[2], &loBig)
	vkX.Add(&vkX, &term)

	var negAlpha, negVkX, negC bn254.G1Affine
	negAlpha.Neg(&g.VK.Alpha)
	negVkX.Neg(&vkX)
	negC.Neg(&c)

	ok, err := bn254.PairingCheck(
		[]bn254.G1Affine{a, negAlpha, negVkX, negC},
		[]bn254.G2Affine{b, g.VK.Beta, g.VK.Gamma, g.VK.Delta},
	)
	if err != nil {
		return core.NewError(core.CodeDecode, "wrapped", "pairing computation failed").WithCause(err)
	}
	if !ok {
		return core.NewError(core.CodeConstraint, "wrapped", "pairing check failed for claim digest %s", claimDigest)
	}
	return nil
}
