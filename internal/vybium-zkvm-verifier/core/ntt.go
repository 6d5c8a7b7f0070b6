package core

import (
	"fmt"
	"math/bits"
)

// NTT evaluates the polynomial with the given coefficients over the subgroup
// of order len(values), in place. Input and output are in natural order.
func NTT(values []Elem) error {
	return ntt(values, false)
}

// INTT interpolates: it converts evaluations over the subgroup of order
// len(values) back into coefficients, in place.
func INTT(values []Elem) error {
	return ntt(values, true)
}

func ntt(a []Elem, invert bool) error {
	n := len(a)
	if !IsPowerOfTwo(n) {
		return fmt.Errorf("transform size must be a power of 2, got %d", n)
	}
	logN := bits.TrailingZeros(uint(n))
	if logN > MaxRouPo2 {
		return fmt.Errorf("transform size 2^%d exceeds field two-adicity %d", logN, MaxRouPo2)
	}

	// Bit-reversal permutation.
	for i := 1; i < n; i++ {
		j := int(bits.Reverse(uint(i)) >> (bits.UintSize - logN))
		if i < j {
			a[i], a[j] = a[j], a[i]
		}
	}

	for span := 2; span <= n; span <<= 1 {
		po2 := bits.TrailingZeros(uint(span))
		var w Elem
		var err error
		if invert {
			w, err = InvRootOfUnity(po2)
		} else {
			w, err = RootOfUnity(po2)
		}
		if err != nil {
			return err
		}
		half := span >> 1
		for i := 0; i < n; i += span {
			wcur := Elem(1)
			for j := 0; j < half; j++ {
				u := a[i+j]
				v := a[i+j+half].Mul(wcur)
				a[i+j] = u.Add(v)
				a[i+j+half] = u.Sub(v)
				wcur = wcur.Mul(w)
			}
		}
	}

	if invert {
		nInv := NewElem(uint64(n)).Inv()
		for i := range a {
			a[i] = a[i].Mul(nInv)
		}
	}
	return nil
}

// ExtendCoset takes evaluations of a polynomial over the subgroup of order
// len(values) and re-evaluates it over the coset shift*H of the larger
// subgroup H of order len(values)*blowup. This is the low-degree extension
// used for trace and composition commitments.
func ExtendCoset(values []Elem, shift Elem, blowup int) ([]Elem, error) {
	if !IsPowerOfTwo(blowup) || blowup < 2 {
		return nil, fmt.Errorf("blowup must be a power of 2 >= 2, got %d", blowup)
	}
	coeffs := make([]Elem, len(values))
	copy(coeffs, values)
	if err := INTT(coeffs); err != nil {
		return nil, err
	}

	// Evaluating at shift*x is evaluating the polynomial with coefficient k
	// scaled by shift^k.
	extended := make([]Elem, len(values)*blowup)
	scale := Elem(1)
	for i, c := range coeffs {
		extended[i] = c.Mul(scale)
		scale = scale.Mul(shift)
	}
	if err := NTT(extended); err != nil {
		return nil, err
	}
	return extended, nil
}
