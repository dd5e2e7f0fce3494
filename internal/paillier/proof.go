package paillier

import (
	"crypto/sha256"
	"math/big"

	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/share"
)

// correctKeyRounds is the number of Fiat-Shamir challenges in a
// CorrectKeyProof. Each round catches a cheating modulus with probability
// roughly 1/2; 11 rounds matches the soundness level used throughout the
// two-party ECDSA literature this protocol is drawn from.
const correctKeyRounds = 11

// CorrectKeyProof is a non-interactive proof that the prover knows
// phi(N) for the Paillier modulus N in a public key, without revealing its
// factorization. It is the only defense party two has against a party one
// that publishes a malformed Paillier key to bias or leak the secret share
// during signing.
type CorrectKeyProof struct {
	Sigma []*big.Int
}

// fiatShamirChallenges deterministically derives correctKeyRounds
// challenges in Z*_N from the modulus and an arbitrary session-binding
// context string, standing in for the verifier's random coins.
func fiatShamirChallenges(n *big.Int, context []byte) []*big.Int {
	challenges := make([]*big.Int, correctKeyRounds)
	seed := sha256.Sum256(append([]byte("correct-key-proof"), context...))
	counter := uint32(0)
	for i := range challenges {
		for {
			h := sha256.New()
			h.Write(seed[:])
			h.Write([]byte{byte(counter), byte(counter >> 8), byte(counter >> 16), byte(counter >> 24)})
			counter++
			digest := h.Sum(nil)
			e := new(big.Int).SetBytes(digest)
			e.Mod(e, n)
			if e.Sign() != 0 && new(big.Int).GCD(nil, nil, e, n).Cmp(big.NewInt(1)) == 0 {
				challenges[i] = e
				break
			}
		}
	}
	return challenges
}

// Prove builds a CorrectKeyProof for priv, binding the proof to context
// (typically the session id and the parties' public key shares) so a proof
// cannot be replayed across sessions.
func (priv *PrivateKey) Prove(context []byte) CorrectKeyProof {
	n := priv.Pub.N
	d := new(big.Int).ModInverse(n, priv.Lambda)
	challenges := fiatShamirChallenges(n, context)
	sigma := make([]*big.Int, len(challenges))
	for i, e := range challenges {
		sigma[i] = new(big.Int).Exp(e, d, n)
	}
	return CorrectKeyProof{Sigma: sigma}
}

// Verify checks a CorrectKeyProof against a public key and the same context
// used to produce it.
func Verify(pub share.PaillierPublicKey, proof CorrectKeyProof, context []byte) error {
	n := pub.N
	if len(proof.Sigma) != correctKeyRounds {
		return errs.CheatingPeer("paillier.Verify", "correct-key proof has wrong number of rounds")
	}
	challenges := fiatShamirChallenges(n, context)
	for i, e := range challenges {
		sigma := proof.Sigma[i]
		if sigma == nil || sigma.Sign() <= 0 || sigma.Cmp(n) >= 0 {
			return errs.CheatingPeer("paillier.Verify", "correct-key proof response out of range")
		}
		check := new(big.Int).Exp(sigma, n, n)
		if check.Cmp(e) != 0 {
			return errs.CheatingPeer("paillier.Verify", "correct-key proof failed verification")
		}
	}
	return nil
}
