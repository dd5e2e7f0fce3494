// Package paillier implements the additively homomorphic Paillier
// cryptosystem used to encrypt party one's secret share so party two can
// drive signing without ever seeing it in the clear (§3, §4). No library in
// the retrieved example pack exposes a Paillier implementation whose public
// API is stable enough to bind blind (bnb-chain/tss-lib/v2 ships one, but
// only as an internal detail of its own n-party round protocol, under an
// undocumented and actively-evolving surface — see DESIGN.md); this package
// is the textbook construction over math/big instead.
package paillier

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/share"
)

// ModulusBitLen is the bit length of the Paillier modulus N = p*q. 2048
// matches the key size used throughout the two-party ECDSA literature this
// protocol is drawn from.
const ModulusBitLen = 2048

// PrivateKey is a Paillier private key: the two primes and the values
// derived from them needed for decryption and for the correct-key proof.
type PrivateKey struct {
	P, Q   *big.Int
	Lambda *big.Int // lcm(p-1, q-1)
	Mu     *big.Int // lambda^-1 mod N
	Pub    share.PaillierPublicKey
}

// GenerateKeyPair samples two random primes of ModulusBitLen/2 bits each and
// builds the corresponding Paillier key pair, using the standard generator
// g = N+1 (valid whenever gcd(N, phi(N)) = 1, which holds with overwhelming
// probability for random primes and is what makes decryption exact).
func GenerateKeyPair() (*PrivateKey, error) {
	primeBits := ModulusBitLen / 2
	for {
		p, err := rand.Prime(rand.Reader, primeBits)
		if err != nil {
			return nil, errs.Wrap(err, errs.KindInternal, "paillier.GenerateKeyPair", "sample p")
		}
		q, err := rand.Prime(rand.Reader, primeBits)
		if err != nil {
			return nil, errs.Wrap(err, errs.KindInternal, "paillier.GenerateKeyPair", "sample q")
		}
		if p.Cmp(q) == 0 {
			continue
		}

		n := new(big.Int).Mul(p, q)
		if n.BitLen() != ModulusBitLen {
			continue
		}

		pMinus1 := new(big.Int).Sub(p, big.NewInt(1))
		qMinus1 := new(big.Int).Sub(q, big.NewInt(1))
		gcdPQ := new(big.Int).GCD(nil, nil, pMinus1, qMinus1)
		lambda := new(big.Int).Div(new(big.Int).Mul(pMinus1, qMinus1), gcdPQ)

		mu := new(big.Int).ModInverse(lambda, n)
		if mu == nil {
			continue
		}

		nSquare := new(big.Int).Mul(n, n)
		g := new(big.Int).Add(n, big.NewInt(1))

		return &PrivateKey{
			P: p, Q: q, Lambda: lambda, Mu: mu,
			Pub: share.PaillierPublicKey{N: n, NSquare: nSquare, G: g},
		}, nil
	}
}

// lFunc is the Paillier decryption helper L(x) = (x-1)/N.
func lFunc(x, n *big.Int) *big.Int {
	t := new(big.Int).Sub(x, big.NewInt(1))
	return new(big.Int).Div(t, n)
}

// Encrypt returns Enc(m) under pub using a fresh random blinding factor.
func Encrypt(pub share.PaillierPublicKey, m *big.Int) (share.Ciphertext, error) {
	r, err := rand.Int(rand.Reader, pub.N)
	if err != nil {
		return share.Ciphertext{}, errs.Wrap(err, errs.KindInternal, "paillier.Encrypt", "sample randomness")
	}
	if r.Sign() == 0 {
		r.SetInt64(1)
	}
	return EncryptWithRandomness(pub, m, r)
}

// EncryptWithRandomness returns Enc(m; r) under pub for caller-supplied
// randomness r, used by the ZK proofs that need to reveal r later.
func EncryptWithRandomness(pub share.PaillierPublicKey, m, r *big.Int) (share.Ciphertext, error) {
	mm := new(big.Int).Mod(m, pub.N)
	gm := new(big.Int).Exp(pub.G, mm, pub.NSquare)
	rn := new(big.Int).Exp(r, pub.N, pub.NSquare)
	c := new(big.Int).Mod(new(big.Int).Mul(gm, rn), pub.NSquare)
	return share.Ciphertext{C: c}, nil
}

// Decrypt recovers the plaintext underlying c.
func Decrypt(priv *PrivateKey, c share.Ciphertext) (*big.Int, error) {
	if c.C == nil {
		return nil, errs.New(errs.KindInputDecode, "paillier.Decrypt", "nil ciphertext")
	}
	cl := new(big.Int).Exp(c.C, priv.Lambda, priv.Pub.NSquare)
	l := lFunc(cl, priv.Pub.N)
	m := new(big.Int).Mod(new(big.Int).Mul(l, priv.Mu), priv.Pub.N)
	return m, nil
}

// HomoAdd returns Enc(m1+m2) given Enc(m1) and Enc(m2), using Paillier's
// additive homomorphism: multiplying ciphertexts adds plaintexts.
func HomoAdd(pub share.PaillierPublicKey, c1, c2 share.Ciphertext) share.Ciphertext {
	c := new(big.Int).Mod(new(big.Int).Mul(c1.C, c2.C), pub.NSquare)
	return share.Ciphertext{C: c}
}

// HomoMultPlain returns Enc(k*m) given Enc(m) and a plaintext scalar k,
// using Paillier's homomorphism: raising a ciphertext to a plaintext power
// multiplies the encrypted value by that power.
func HomoMultPlain(pub share.PaillierPublicKey, c share.Ciphertext, k *big.Int) share.Ciphertext {
	kk := new(big.Int).Mod(k, pub.N)
	r := new(big.Int).Exp(c.C, kk, pub.NSquare)
	return share.Ciphertext{C: r}
}

// HomoAddPlain returns Enc(m+k) given Enc(m) and a plaintext k, by
// multiplying in an encryption of k under fixed randomness 1.
func HomoAddPlain(pub share.PaillierPublicKey, c share.Ciphertext, k *big.Int) share.Ciphertext {
	kk := new(big.Int).Mod(k, pub.N)
	gk := new(big.Int).Exp(pub.G, kk, pub.NSquare)
	r := new(big.Int).Mod(new(big.Int).Mul(c.C, gk), pub.NSquare)
	return share.Ciphertext{C: r}
}

// String renders the public key modulus for logging.
func (pk *PrivateKey) String() string {
	return fmt.Sprintf("paillier.PrivateKey(N bits=%d)", pk.Pub.N.BitLen())
}
