package zkp

import (
	"crypto/sha256"
	"math/big"

	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/share"
)

// DLogProof is a non-interactive Schnorr proof of knowledge of x such that
// P = x*G, Fiat-Shamir-transformed over SHA-256.
type DLogProof struct {
	A share.Point  // commitment k*G
	S share.Scalar // response k + e*x
}

// ProveDLog proves knowledge of x for P = x*G.
func ProveDLog(x share.Scalar, p share.Point) (DLogProof, error) {
	k, err := share.RandomScalar()
	if err != nil {
		return DLogProof{}, errs.Wrap(err, errs.KindInternal, "zkp.ProveDLog", "sample nonce")
	}
	a := share.BasePointMul(k)
	e := dlogChallenge(a, p)
	s := k.Add(e.Mul(x))
	return DLogProof{A: a, S: s}, nil
}

// VerifyDLog checks a DLogProof against the claimed public point p.
func VerifyDLog(proof DLogProof, p share.Point) error {
	e := dlogChallenge(proof.A, p)
	lhs := share.BasePointMul(proof.S)
	rhs := proof.A.Add(p.Mul(e))
	if !lhs.Equal(rhs) {
		return errs.CheatingPeer("zkp.VerifyDLog", "discrete log proof failed")
	}
	return nil
}

func dlogChallenge(a, p share.Point) share.Scalar {
	h := sha256.New()
	h.Write(share.GeneratorPoint().Compressed())
	h.Write(a.Compressed())
	h.Write(p.Compressed())
	return share.ScalarFromHash(h.Sum(nil))
}

// CompositeDLogProof is a Schnorr-style proof of knowledge of x for
// h2 = h1^x mod n, a cyclic group of unknown (composite, hidden) order.
// Because the order is unknown the response is computed over the integers
// rather than reduced modulo a known q, and the prover's nonce is sampled
// from a range wide enough that the response statistically hides x
// (the slack this proof is named for in the literature).
type CompositeDLogProof struct {
	A *big.Int
	S *big.Int
}

// compositeNonceBits is the bit length of the prover's random nonce k,
// chosen wide enough (modulus bit length plus a large statistical security
// margin) that k+e*x leaks no information about x over the integers.
const compositeNonceBits = paillierModulusBitLenPlaceholder + 256

// paillierModulusBitLenPlaceholder mirrors paillier.ModulusBitLen without
// importing that package here, avoiding a dependency cycle between zkp and
// paillier (paillier does not need zkp, but keeping the layering one-way
// avoids ever needing it to).
const paillierModulusBitLenPlaceholder = 2048

// ProveCompositeDLog proves knowledge of x such that h2 = h1^x mod n.
func ProveCompositeDLog(n, h1, h2, x *big.Int) (CompositeDLogProof, error) {
	k, err := cryptoRandBits(compositeNonceBits)
	if err != nil {
		return CompositeDLogProof{}, err
	}
	a := new(big.Int).Exp(h1, k, n)
	e := compositeDLogChallenge(n, h1, h2, a)
	s := new(big.Int).Add(k, new(big.Int).Mul(e, x))
	return CompositeDLogProof{A: a, S: s}, nil
}

// VerifyCompositeDLog checks a CompositeDLogProof.
func VerifyCompositeDLog(n, h1, h2 *big.Int, proof CompositeDLogProof) error {
	if proof.A == nil || proof.S == nil {
		return errs.CheatingPeer("zkp.VerifyCompositeDLog", "missing proof component")
	}
	e := compositeDLogChallenge(n, h1, h2, proof.A)
	lhs := new(big.Int).Exp(h1, proof.S, n)
	rhs := new(big.Int).Mod(new(big.Int).Mul(proof.A, new(big.Int).Exp(h2, e, n)), n)
	if lhs.Cmp(rhs) != 0 {
		return errs.CheatingPeer("zkp.VerifyCompositeDLog", "composite discrete log proof failed")
	}
	return nil
}

func compositeDLogChallenge(n, h1, h2, a *big.Int) *big.Int {
	h := sha256.New()
	h.Write(n.Bytes())
	h.Write(h1.Bytes())
	h.Write(h2.Bytes())
	h.Write(a.Bytes())
	// A 256-bit challenge is ample for a Fiat-Shamir-transformed Sigma
	// protocol at this security level.
	return new(big.Int).SetBytes(h.Sum(nil))
}
