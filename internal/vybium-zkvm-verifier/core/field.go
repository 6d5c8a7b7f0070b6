package core

import (
	"encoding/binary"
	"fmt"
)

// Modulus is the prime of the verification field, p = 15*2^27 + 1. All seal
// arithmetic is performed over this field; there is no floating point and no
// randomness anywhere in the pipeline.
const Modulus uint32 = 2013265921

// MaxRouPo2 is the two-adicity of the field: the largest k such that the
// multiplicative group contains a subgroup of order 2^k.
const MaxRouPo2 = 27

// Generator is the smallest multiplicative generator of the field. It also
// serves as the coset shift for low-degree extension domains: no power-of-two
// subgroup contains any of its coset points, so zerofier denominators never
// vanish at query points.
const Generator Elem = 31

// Elem is a field element in canonical range [0, Modulus).
type Elem uint32

// NewElem reduces an arbitrary value into the field.
func NewElem(v uint64) Elem {
	return Elem(v % uint64(Modulus))
}

// ElemFromUint32 admits only canonical encodings; values at or above the
// modulus are rejected rather than silently reduced, so a malformed wire
// value cannot alias a valid one.
func ElemFromUint32(v uint32) (Elem, error) {
	if v >= Modulus {
		return 0, fmt.Errorf("field element %d outside canonical range [0, %d)", v, Modulus)
	}
	return Elem(v), nil
}

// Uint32 returns the canonical representative.
func (e Elem) Uint32() uint32 {
	return uint32(e)
}

// Bytes returns the 4-byte little-endian encoding of the element.
func (e Elem) Bytes() []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(e))
	return b[:]
}

// Add returns e + o mod p.
func (e Elem) Add(o Elem) Elem {
	s := uint32(e) + uint32(o)
	if s >= Modulus {
		s -= Modulus
	}
	return Elem(s)
}

// Sub returns e - o mod p.
func (e Elem) Sub(o Elem) Elem {
	if e >= o {
		return Elem(uint32(e) - uint32(o))
	}
	return Elem(Modulus - uint32(o) + uint32(e))
}

// Mul returns e * o mod p.
func (e Elem) Mul(o Elem) Elem {
	return Elem(uint64(e) * uint64(o) % uint64(Modulus))
}

// Neg returns -e mod p.
func (e Elem) Neg() Elem {
	if e == 0 {
		return 0
	}
	return Elem(Modulus - uint32(e))
}

// Pow returns e^exp by square-and-multiply.
func (e Elem) Pow(exp uint64) Elem {
	result := Elem(1)
	base := e
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		exp >>= 1
	}
	return result
}

// Inv returns the multiplicative inverse via Fermat's little theorem.
// The inverse of zero is zero; callers must not divide by zero.
func (e Elem) Inv() Elem {
	return e.Pow(uint64(Modulus) - 2)
}

// IsZero reports whether the element is the additive identity.
func (e Elem) IsZero() bool {
	return e == 0
}

// rouFwd[k] is a 2^k-th root of unity; rouRev[k] is its inverse.
var rouFwd = [MaxRouPo2 + 1]Elem{
	1, 2013265920, 1728404513, 1592366214, 196396260, 760005850, 1721589904,
	397765732, 1732600167, 1753498361, 341742893, 1340477990, 1282623253,
	298008106, 1657000625, 2009781145, 1421947380, 1286330022, 1559589183,
	1049899240, 195061667, 414040701, 570250684, 1267047229, 1003846038,
	1149491290, 975630072, 440564289,
}

var rouRev = [MaxRouPo2 + 1]Elem{
	1, 2013265920, 284861408, 1801542727, 567209306, 1273220281, 662200255,
	1856545343, 1611842161, 1861675199, 774513262, 449056851, 1255670133,
	1976924129, 106301669, 1411306935, 1540942033, 1043440885, 173207512,
	463443832, 1021415956, 1574319791, 953617870, 987386499, 1469248932,
	165179394, 1498740239, 1713844692,
}

// RootOfUnity returns a generator of the order-2^po2 subgroup.
func RootOfUnity(po2 int) (Elem, error) {
	if po2 < 0 || po2 > MaxRouPo2 {
		return 0, fmt.Errorf("no root of unity of order 2^%d (two-adicity is %d)", po2, MaxRouPo2)
	}
	return rouFwd[po2], nil
}

// InvRootOfUnity returns the inverse of RootOfUnity(po2).
func InvRootOfUnity(po2 int) (Elem, error) {
	if po2 < 0 || po2 > MaxRouPo2 {
		return 0, fmt.Errorf("no root of unity of order 2^%d (two-adicity is %d)", po2, MaxRouPo2)
	}
	return rouRev[po2], nil
}

// foldBase is the accumulator multiplier for FoldDigest.
const foldBase = Generator

// FoldDigest compresses a digest into a single field element by folding its
// eight little-endian words through a fixed-base accumulator. Circuits use
// the fold to bind claim digests into boundary values; the full digest is
// separately mixed into the transcript, so the fold does not need to be
// collision resistant on its own.
func FoldDigest(d Digest) Elem {
	acc := Elem(0)
	for i := 0; i < DigestBytes; i += 4 {
		word := binary.LittleEndian.Uint32(d[i : i+4])
		acc = acc.Mul(foldBase).Add(NewElem(uint64(word)))
	}
	return acc
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
