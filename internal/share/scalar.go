// Package share implements the data model of §3: Scalar/Point wrappers over
// secp256k1, the MasterKeyClient/PrivateShare/ChildKey/AddressRecord
// entities, and the Paillier ciphertext alias used throughout the protocol
// packages.
package share

import (
	"crypto/rand"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Scalar is an element of Z/qZ, q the secp256k1 group order. Every Scalar
// used as a secret MUST be zeroed via Zero() once it is no longer needed.
type Scalar struct {
	n secp256k1.ModNScalar
}

// groupOrder returns the secp256k1 group order N as a *big.Int.
func groupOrder() *big.Int {
	return new(big.Int).Set(secp256k1.S256().N)
}

// GroupOrder returns the secp256k1 group order q as a *big.Int, for callers
// outside this package that need to reduce or compare raw integers against
// it (e.g. recoverable-signature recovery-id computation).
func GroupOrder() *big.Int {
	return groupOrder()
}

// NewScalarFromBigInt reduces v modulo the group order.
func NewScalarFromBigInt(v *big.Int) Scalar {
	var s Scalar
	vv := new(big.Int).Mod(v, groupOrder())
	b := make([]byte, 32)
	vv.FillBytes(b)
	s.n.SetByteSlice(b)
	return s
}

// RandomScalar samples a uniformly random non-zero scalar.
func RandomScalar() (Scalar, error) {
	for {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return Scalar{}, err
		}
		var n secp256k1.ModNScalar
		overflow := n.SetByteSlice(buf)
		if overflow || n.IsZero() {
			continue
		}
		return Scalar{n: n}, nil
	}
}

// BigInt returns the scalar as a *big.Int in [0, q).
func (s Scalar) BigInt() *big.Int {
	b := s.n.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// Bytes returns the scalar's big-endian 32-byte representation.
func (s Scalar) Bytes() []byte {
	b := s.n.Bytes()
	out := make([]byte, len(b))
	copy(out, b[:])
	return out
}

// IsZero reports whether the scalar is the additive identity.
func (s Scalar) IsZero() bool { return s.n.IsZero() }

// Add returns s + o mod q.
func (s Scalar) Add(o Scalar) Scalar {
	var r secp256k1.ModNScalar
	r.Set(&s.n)
	r.Add(&o.n)
	return Scalar{n: r}
}

// Mul returns s * o mod q.
func (s Scalar) Mul(o Scalar) Scalar {
	var r secp256k1.ModNScalar
	r.Set(&s.n)
	r.Mul(&o.n)
	return Scalar{n: r}
}

// Inverse returns s⁻¹ mod q. Panics if s is zero, which callers must never
// pass: a zero scalar is never a valid secret share or rotation factor.
func (s Scalar) Inverse() Scalar {
	if s.n.IsZero() {
		panic("share: inverse of zero scalar")
	}
	var r secp256k1.ModNScalar
	r.Set(&s.n)
	r.InverseValNonConst()
	return Scalar{n: r}
}

// Negate returns -s mod q.
func (s Scalar) Negate() Scalar {
	var r secp256k1.ModNScalar
	r.Set(&s.n)
	r.Negate()
	return Scalar{n: r}
}

// ScalarFromHash reduces a big-endian digest (as used for message hashes)
// modulo q into a Scalar.
func ScalarFromHash(digest []byte) Scalar {
	var n secp256k1.ModNScalar
	n.SetByteSlice(digest)
	return Scalar{n: n}
}

// Zero overwrites the scalar's internal state. Required secret hygiene per
// §5: callers must call this once a secret scalar is no longer needed.
func (s *Scalar) Zero() {
	s.n.Zero()
}
