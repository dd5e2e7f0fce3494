// Package escrow implements the Centipede-style verifiably-encrypted backup
// scheme (§4, C7): party two's secret share is split into small segments,
// each segment ElGamal-encrypted under a separate escrow agent's public
// key, and a single "juggling" Sigma-protocol proof binds the ciphertexts
// to the share's actual public point P2 without revealing the share.
// Segments are kept small (EscrowSegmentSize bits each, §"AMBIENT STACK")
// so the escrow agent can recover one by exhaustive search over its
// encrypted value during a recovery, rather than needing to solve a
// general discrete log.
package escrow

import (
	"crypto/sha256"
	"math/big"

	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/share"
)

// Segment is one ElGamal-encrypted piece of the secret share: R = k*G,
// C = v*G + k*EscrowPub, for segment value v and per-segment randomness k.
type Segment struct {
	R share.Point
	C share.Point
}

// Proof is the juggling proof binding a set of Segments to a share's public
// point without revealing any segment value.
type Proof struct {
	A  []share.Point
	A2 []share.Point
	D  share.Point
	Zk []share.Scalar
	Zv []share.Scalar
}

// Backup splits x2 into numSegments pieces of segBits bits each
// (little-endian: segment 0 is the least significant), ElGamal-encrypts
// each under escrowPub, and proves the encryption is consistent with p2 =
// x2*G.
func Backup(x2 share.Scalar, p2 share.Point, escrowPub share.Point, segBits, numSegments uint) ([]Segment, Proof, error) {
	value := x2.BigInt()
	mask := new(big.Int).Lsh(big.NewInt(1), segBits)

	segments := make([]Segment, numSegments)
	ks := make([]share.Scalar, numSegments)
	vs := make([]*big.Int, numSegments)

	remaining := new(big.Int).Set(value)
	for i := uint(0); i < numSegments; i++ {
		v := new(big.Int).Mod(remaining, mask)
		remaining.Rsh(remaining, segBits)
		vs[i] = v

		k, err := share.RandomScalar()
		if err != nil {
			return nil, Proof{}, err
		}
		ks[i] = k

		r := share.BasePointMul(k)
		c := share.BasePointMul(share.NewScalarFromBigInt(v)).Add(escrowPub.Mul(k))
		segments[i] = Segment{R: r, C: c}
	}

	as := make([]share.Scalar, numSegments)
	bs := make([]share.Scalar, numSegments)
	aPoints := make([]share.Point, numSegments)
	a2Points := make([]share.Point, numSegments)
	dAccum := share.Point{}
	dInitialized := false

	for i := uint(0); i < numSegments; i++ {
		a, err := share.RandomScalar()
		if err != nil {
			return nil, Proof{}, err
		}
		b, err := share.RandomScalar()
		if err != nil {
			return nil, Proof{}, err
		}
		as[i] = a
		bs[i] = b
		aPoints[i] = share.BasePointMul(a)
		a2Points[i] = escrowPub.Mul(a).Add(share.BasePointMul(b))

		weight := new(big.Int).Lsh(big.NewInt(1), i*segBits)
		term := share.BasePointMul(b).Mul(share.NewScalarFromBigInt(weight))
		if !dInitialized {
			dAccum = term
			dInitialized = true
		} else {
			dAccum = dAccum.Add(term)
		}
	}

	e := jugglingChallenge(segments, aPoints, a2Points, dAccum, p2)

	zk := make([]share.Scalar, numSegments)
	zv := make([]share.Scalar, numSegments)
	for i := uint(0); i < numSegments; i++ {
		zk[i] = as[i].Add(e.Mul(ks[i]))
		zv[i] = bs[i].Add(e.Mul(share.NewScalarFromBigInt(vs[i])))
	}

	return segments, Proof{A: aPoints, A2: a2Points, D: dAccum, Zk: zk, Zv: zv}, nil
}

// VerifyBackup checks proof against segments, escrowPub, and the share's
// public point p2.
func VerifyBackup(segments []Segment, proof Proof, p2, escrowPub share.Point, segBits uint) error {
	n := len(segments)
	if len(proof.A) != n || len(proof.A2) != n || len(proof.Zk) != n || len(proof.Zv) != n {
		return errs.CheatingPeer("escrow.VerifyBackup", "juggling proof has mismatched segment count")
	}

	e := jugglingChallenge(segments, proof.A, proof.A2, proof.D, p2)

	var weightedSum share.Point
	initialized := false
	for i := 0; i < n; i++ {
		lhs1 := share.BasePointMul(proof.Zk[i])
		rhs1 := proof.A[i].Add(segments[i].R.Mul(e))
		if !lhs1.Equal(rhs1) {
			return errs.CheatingPeer("escrow.VerifyBackup", "segment randomness proof failed")
		}

		lhs2 := escrowPub.Mul(proof.Zk[i]).Add(share.BasePointMul(proof.Zv[i]))
		rhs2 := proof.A2[i].Add(segments[i].C.Mul(e))
		if !lhs2.Equal(rhs2) {
			return errs.CheatingPeer("escrow.VerifyBackup", "segment ciphertext proof failed")
		}

		weight := new(big.Int).Lsh(big.NewInt(1), uint(i)*segBits)
		term := share.BasePointMul(proof.Zv[i]).Mul(share.NewScalarFromBigInt(weight))
		if !initialized {
			weightedSum = term
			initialized = true
		} else {
			weightedSum = weightedSum.Add(term)
		}
	}

	rhsSum := proof.D.Add(p2.Mul(e))
	if !weightedSum.Equal(rhsSum) {
		return errs.CheatingPeer("escrow.VerifyBackup", "segment weighted sum does not reconstruct the share's public point")
	}
	return nil
}

// Recover reconstructs x2 from already-decrypted segment values (obtained
// by the escrow service brute-forcing each small segment's discrete log),
// provided in the same little-endian order Backup produced them in.
func Recover(values []*big.Int, segBits uint) share.Scalar {
	total := new(big.Int)
	for i, v := range values {
		weight := new(big.Int).Lsh(big.NewInt(1), uint(i)*segBits)
		total.Add(total, new(big.Int).Mul(v, weight))
	}
	return share.NewScalarFromBigInt(total)
}

func jugglingChallenge(segments []Segment, a, a2 []share.Point, d, p2 share.Point) share.Scalar {
	h := sha256.New()
	for _, s := range segments {
		h.Write(s.R.Compressed())
		h.Write(s.C.Compressed())
	}
	for _, p := range a {
		h.Write(p.Compressed())
	}
	for _, p := range a2 {
		h.Write(p.Compressed())
	}
	h.Write(d.Compressed())
	h.Write(p2.Compressed())
	return share.ScalarFromHash(h.Sum(nil))
}
