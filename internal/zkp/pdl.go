package zkp

import (
	"crypto/sha256"
	"math/big"

	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/paillier"
	"github.com/okwallet/tss-client/internal/share"
)

// pdlSlackBits is how much wider than the Paillier modulus the prover's
// masking value is sampled: enough that e*x (x bounded by the curve order,
// e a 256-bit challenge) is statistically swamped by the mask, which is
// the "slack" in PDL-with-slack.
const pdlSlackBits = paillier.ModulusBitLen + 256

// PDLProof proves that a Paillier ciphertext c encrypts the same value x as
// the discrete log of a curve point Q = x*G, without revealing x. Party two
// demands this during key generation and rotation so that the ciphertext
// party one later uses to drive signing cannot secretly encrypt something
// other than its declared public share.
type PDLProof struct {
	AEnc   *big.Int    // Paillier encryption of the masking value a
	APoint share.Point // a*G, reduced mod the curve order
	Z      *big.Int    // a + e*x, unreduced
	ZR     *big.Int    // masking randomness combined with the challenge
}

// PDLStatement is the public data the proof is checked against.
type PDLStatement struct {
	Pub share.PaillierPublicKey
	C   share.Ciphertext
	Q   share.Point
}

// ProvePDL builds a PDLProof that statement.C encrypts x and statement.Q =
// x*G, given the randomness r used when statement.C was produced.
func ProvePDL(statement PDLStatement, x, r *big.Int) (PDLProof, error) {
	a, err := cryptoRandBits(pdlSlackBits)
	if err != nil {
		return PDLProof{}, err
	}
	b, err := cryptoRandBits(statement.Pub.N.BitLen())
	if err != nil {
		return PDLProof{}, err
	}
	if b.Sign() == 0 {
		b.SetInt64(1)
	}

	aEnc, err := paillier.EncryptWithRandomness(statement.Pub, a, b)
	if err != nil {
		return PDLProof{}, err
	}
	aPoint := share.BasePointMul(share.NewScalarFromBigInt(a))

	e := pdlChallenge(statement, aEnc.C, aPoint)

	z := new(big.Int).Add(a, new(big.Int).Mul(e, x))
	zr := new(big.Int).Mod(new(big.Int).Mul(b, new(big.Int).Exp(r, e, statement.Pub.N)), statement.Pub.N)

	return PDLProof{AEnc: aEnc.C, APoint: aPoint, Z: z, ZR: zr}, nil
}

// VerifyPDL checks a PDLProof against statement.
func VerifyPDL(statement PDLStatement, proof PDLProof) error {
	if proof.AEnc == nil || proof.Z == nil || proof.ZR == nil {
		return errs.CheatingPeer("zkp.VerifyPDL", "missing proof component")
	}

	e := pdlChallenge(statement, proof.AEnc, proof.APoint)

	lhsEnc, err := paillier.EncryptWithRandomness(statement.Pub, proof.Z, proof.ZR)
	if err != nil {
		return errs.Wrap(err, errs.KindInternal, "zkp.VerifyPDL", "recompute encryption side")
	}
	rhsEnc := paillier.HomoAdd(statement.Pub, share.Ciphertext{C: proof.AEnc}, paillier.HomoMultPlain(statement.Pub, statement.C, e))
	if lhsEnc.C.Cmp(rhsEnc.C) != 0 {
		return errs.CheatingPeer("zkp.VerifyPDL", "encryption-side equation failed")
	}

	eScalar := share.NewScalarFromBigInt(e)
	lhsPoint := share.BasePointMul(share.NewScalarFromBigInt(proof.Z))
	rhsPoint := proof.APoint.Add(statement.Q.Mul(eScalar))
	if !lhsPoint.Equal(rhsPoint) {
		return errs.CheatingPeer("zkp.VerifyPDL", "discrete-log-side equation failed")
	}

	return nil
}

func pdlChallenge(statement PDLStatement, aEnc *big.Int, aPoint share.Point) *big.Int {
	h := sha256.New()
	h.Write(statement.Pub.N.Bytes())
	h.Write(statement.C.C.Bytes())
	h.Write(statement.Q.Compressed())
	h.Write(aEnc.Bytes())
	h.Write(aPoint.Compressed())
	return new(big.Int).SetBytes(h.Sum(nil))
}
