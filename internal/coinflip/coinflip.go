// Package coinflip implements the two-round "optimal rounds" coin-flipping
// protocol used to derive joint randomness neither party controls: each
// side commits to a random 32-byte contribution, then both reveal, and the
// combined value is SHA-256 of the two contributions in a fixed order. It
// is used for the chain code during key generation and for the blinding
// factor during key rotation.
package coinflip

import (
	"crypto/rand"
	"crypto/sha256"

	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/zkp"
)

// Contribution is one party's random input to the coin flip.
type Contribution [32]byte

// NewContribution samples a fresh random contribution.
func NewContribution() (Contribution, error) {
	var c Contribution
	if _, err := rand.Read(c[:]); err != nil {
		return Contribution{}, errs.Wrap(err, errs.KindInternal, "coinflip.NewContribution", "sample contribution")
	}
	return c, nil
}

// Commit returns a hiding commitment to c and the blinding factor needed to
// open it later.
func (c Contribution) Commit() (zkp.HashCommitment, []byte, error) {
	return zkp.Commit(c[:])
}

// Open verifies that value/blinding open commitment.
func Open(commitment zkp.HashCommitment, value Contribution, blinding []byte) error {
	return zkp.Open(commitment, value[:], blinding)
}

// Combine deterministically folds the client's and server's contributions
// into the joint random value. Both sides must pass the client's
// contribution first and the server's second, in that fixed order, so
// both compute the same result.
func Combine(clientContribution, serverContribution Contribution) [32]byte {
	h := sha256.New()
	h.Write(clientContribution[:])
	h.Write(serverContribution[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
