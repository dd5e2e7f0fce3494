package zkp

import (
	"crypto/rand"
	"math/big"

	"github.com/okwallet/tss-client/internal/errs"
)

// cryptoRandBits samples a uniformly random non-negative integer with up to
// bits bits of entropy.
func cryptoRandBits(bits int) (*big.Int, error) {
	buf := make([]byte, (bits+7)/8)
	if _, err := rand.Read(buf); err != nil {
		return nil, errs.Wrap(err, errs.KindInternal, "zkp.cryptoRandBits", "sample randomness")
	}
	return new(big.Int).SetBytes(buf), nil
}
