// Package derive implements the deterministic, network-free hierarchical
// child-key derivation used for address issuance and for re-deriving a
// previously issued address's signing key (§4, C4).
//
// The combined public key relates to party two's share multiplicatively
// through party one's public point: Q = x2*P1. Ordinary BIP-32 additive
// tweaking (x' = x+t, Q' = Q+t*G) does not compose with that relation
// without party one also adjusting its share, which would require a
// network round trip. Instead the tweak is applied through P1 itself:
//
//	x2' = x2 + t         (mod q)
//	Q'  = Q + t*P1        =  x2'*P1, since Q = x2*P1
//	P2' = P2 + t*G         =  x2'*G
//	P1' = P1               (party one needs no update)
//
// t and the child chain code are derived from the parent chain code, the
// parent combined public key, and the path index exactly as in BIP-32's
// non-hardened public derivation (HMAC-SHA512 keyed by the chain code over
// the compressed parent point and a 4-byte big-endian index).
package derive

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"math/big"

	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/share"
)

// Child derives the child MasterKeyClient at path from parent. Only
// non-hardened indices are supported, matching the protocol's own
// derivation paths ([0, pos] for signing, [0, pos+1] for address
// issuance): index must be less than 2^31.
func Child(parent share.MasterKeyClient, path []uint32) (share.MasterKeyClient, error) {
	current := parent
	for _, index := range path {
		next, err := childStep(current, index)
		if err != nil {
			return share.MasterKeyClient{}, err
		}
		current = next
	}
	return current, nil
}

func childStep(parent share.MasterKeyClient, index uint32) (share.MasterKeyClient, error) {
	if index>>31 != 0 {
		return share.MasterKeyClient{}, errs.New(errs.KindInvalidParameter, "derive.childStep", "hardened derivation is not supported")
	}

	mac := hmac.New(sha512.New, parent.ChainCode[:])
	mac.Write(parent.Public.Q.Compressed())
	var indexBytes [4]byte
	binary.BigEndian.PutUint32(indexBytes[:], index)
	mac.Write(indexBytes[:])
	sum := mac.Sum(nil)

	tweak := share.NewScalarFromBigInt(new(big.Int).SetBytes(sum[:32]))
	if tweak.IsZero() {
		return share.MasterKeyClient{}, errs.New(errs.KindInternal, "derive.childStep", "derived a zero tweak, index must change")
	}

	x2Child := parent.Private.Add(tweak)
	qChild := parent.Public.Q.Add(parent.Public.P1.Mul(tweak))
	p2Child := parent.Public.P2.Add(share.BasePointMul(tweak))

	var chainCodeChild [32]byte
	copy(chainCodeChild[:], sum[32:64])

	return share.MasterKeyClient{
		Public: share.MasterKeyPublic{
			Q:           qChild,
			P1:          parent.Public.P1,
			P2:          p2Child,
			PaillierPub: parent.Public.PaillierPub,
			CKey:        parent.Public.CKey,
		},
		Private:   x2Child,
		ChainCode: chainCodeChild,
	}, nil
}
