package protocols

import (
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
)

// inv2 is the inverse of 2 in the field.
const inv2 core.Elem = 1006632961

// friFold computes one FRI folding step at the point x:
//
//	f'(x^2) = (f(x) + f(-x))/2 + beta * (f(x) - f(-x))/(2x)
//
// where fsib is the codeword value at -x.
func friFold(fi, fsib, beta, x core.Elem) core.Elem {
	even := fi.Add(fsib).Mul(inv2)
	odd := fi.Sub(fsib).Mul(inv2).Mul(x.Inv())
	return even.Add(odd.Mul(beta))
}

// friFoldLayer folds a whole codeword over the coset shift*H into the next
// layer's codeword over shift^2*H^2. Prover side only.
func friFoldLayer(layer []core.Elem, beta, shift core.Elem, po2 int) ([]core.Elem, error) {
	w, err := core.RootOfUnity(po2)
	if err != nil {
		return nil, err
	}
	half := len(layer) / 2
	next := make([]core.Elem, half)
	x := shift
	for i := 0; i < half; i++ {
		next[i] = friFold(layer[i], layer[i+half], beta, x)
		x = x.Mul(w)
	}
	return next, nil
}

// friLayerPoint returns the evaluation point at the given index of FRI
// layer number "layer" (0 is the composition codeword), for a base domain
// of size 2^basePo2 over the coset Generator*H.
func friLayerPoint(layer, index, basePo2 int) (core.Elem, error) {
	po2 := basePo2 - layer
	w, err := core.RootOfUnity(po2)
	if err != nil {
		return 0, err
	}
	shift := core.Generator.Pow(uint64(1) << layer)
	return shift.Mul(w.Pow(uint64(index))), nil
}
