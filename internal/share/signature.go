package share

import "math/big"

// Signature is a recoverable ECDSA signature: r and s in [1, q), plus a
// recovery id encoding R's y parity (bit 0) and whether R.X overflowed the
// group order (bit 1), as used by both BTC DER/witness signatures and
// Ethereum's v value.
type Signature struct {
	R     *big.Int
	S     *big.Int
	RecID byte
}

// Verify checks sig against the message digest m (already reduced to a
// scalar) and public key q, using the standard ECDSA verification equation.
func (sig Signature) Verify(m Scalar, q Point) bool {
	n := groupOrder()
	if sig.R.Sign() <= 0 || sig.R.Cmp(n) >= 0 || sig.S.Sign() <= 0 || sig.S.Cmp(n) >= 0 {
		return false
	}
	sInv := NewScalarFromBigInt(sig.S).Inverse()
	u1 := m.Mul(sInv)
	u2 := NewScalarFromBigInt(sig.R).Mul(sInv)
	rPoint := BasePointMul(u1).Add(q.Mul(u2))
	x := new(big.Int).Mod(rPoint.X().BigInt(), n)
	return x.Cmp(sig.R) == 0
}
