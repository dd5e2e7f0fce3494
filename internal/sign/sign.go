// Package sign implements the two-message signing dialog (§4, C5): party
// two samples an ephemeral nonce, combines it with party one's revealed
// nonce point under a ZK proof, and drives party one's Paillier-encrypted
// share through the homomorphic computation that yields a standard
// ECDSA signature neither party could produce alone.
//
// Run is the blocking entry point. FirstStep/SecondStep are exported
// separately so a caller that wants cooperative-async control (suspend
// between the two network round trips rather than block a goroutine on
// them) can drive the dialog itself; Run is exactly FirstStep followed by
// SecondStep.
package sign

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/okwallet/tss-client/internal/codec"
	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/paillier"
	"github.com/okwallet/tss-client/internal/share"
	"github.com/okwallet/tss-client/internal/transport"
	"github.com/okwallet/tss-client/internal/zkp"
)

// Run drives a complete signing dialog for messageDigest (a 32-byte hash,
// already computed by the caller per the chain's sighash rules) and returns
// a recoverable, low-S-normalized signature under mk.
func Run(ctx context.Context, client *transport.Client, mk share.MasterKeyClient, messageDigest [32]byte) (share.Signature, error) {
	sessionID, err := newSessionID()
	if err != nil {
		return share.Signature{}, err
	}
	r1, err := FirstStep(ctx, client, sessionID)
	if err != nil {
		return share.Signature{}, err
	}
	return SecondStep(ctx, client, sessionID, mk, messageDigest, r1)
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", errs.Wrap(err, errs.KindInternal, "sign.newSessionID", "sample session id")
	}
	return hex.EncodeToString(b), nil
}

// FirstStep fetches party one's ephemeral nonce point R1 and verifies its
// DLog proof.
func FirstStep(ctx context.Context, client *transport.Client, sessionID string) (share.Point, error) {
	var resp firstResponse
	path := fmt.Sprintf("ecdsa/sign/%s/first", sessionID)
	if err := client.Post(ctx, path, struct{}{}, &resp); err != nil {
		return share.Point{}, err
	}

	r1, err := codec.DecodePoint(resp.R1)
	if err != nil {
		return share.Point{}, err
	}
	a, err := codec.DecodePoint(resp.DLogProofA)
	if err != nil {
		return share.Point{}, err
	}
	s, err := codec.DecodeScalar(resp.DLogProofS)
	if err != nil {
		return share.Point{}, err
	}
	if err := zkp.VerifyDLog(zkp.DLogProof{A: a, S: s}, r1); err != nil {
		return share.Point{}, errs.CheatingPeer("sign.FirstStep", "party one's ephemeral nonce proof failed")
	}
	return r1, nil
}

// SecondStep samples party two's ephemeral nonce, computes the combined
// nonce point and the Paillier ciphertext c3 that lets party one finish the
// signature, and verifies the result against mk.Public.Q before returning.
func SecondStep(ctx context.Context, client *transport.Client, sessionID string, mk share.MasterKeyClient, messageDigest [32]byte, r1 share.Point) (share.Signature, error) {
	k2, err := share.RandomScalar()
	if err != nil {
		return share.Signature{}, errs.Wrap(err, errs.KindInternal, "sign.SecondStep", "sample ephemeral nonce")
	}
	r2 := share.BasePointMul(k2)
	nonceR := r1.Mul(k2)

	rScalar := share.NewScalarFromBigInt(rawX(nonceR))
	m := share.ScalarFromHash(messageDigest[:])

	k2Inv := k2.Inverse()
	rho1 := k2Inv.Mul(m)
	rho2 := k2Inv.Mul(rScalar).Mul(mk.Private)

	encRho1, err := paillier.Encrypt(mk.Public.PaillierPub, rho1.BigInt())
	if err != nil {
		return share.Signature{}, err
	}
	c3 := paillier.HomoAdd(mk.Public.PaillierPub, encRho1, paillier.HomoMultPlain(mk.Public.PaillierPub, mk.Public.CKey, rho2.BigInt()))

	var resp secondResponse
	path := fmt.Sprintf("ecdsa/sign/%s/second", sessionID)
	req := secondRequest{R2: codec.EncodePoint(r2), C3: codec.EncodeCiphertext(c3)}
	if err := client.Post(ctx, path, req, &resp); err != nil {
		return share.Signature{}, err
	}

	sBytes, err := hex.DecodeString(resp.S)
	if err != nil {
		return share.Signature{}, errs.Wrap(err, errs.KindInputDecode, "sign.SecondStep", "malformed signature scalar hex")
	}
	sValue := new(big.Int).SetBytes(sBytes)

	sig := normalize(rScalar.BigInt(), sValue, nonceR)
	if !sig.Verify(m, mk.Public.Q) {
		return share.Signature{}, errs.CheatingPeer("sign.SecondStep", "party one returned an invalid signature")
	}
	return sig, nil
}

// rawX returns the unreduced affine X coordinate of p as a big.Int, for
// both the r value (reduced mod q by the caller) and the recovery-id
// overflow bit (which compares the raw field element against q).
func rawX(p share.Point) *big.Int {
	b := p.Compressed()
	return new(big.Int).SetBytes(b[1:])
}

func yIsOdd(p share.Point) bool {
	return p.Compressed()[0] == 0x03
}

// normalize builds the final low-S recoverable signature: if s is in the
// upper half of the group order it is replaced by q-s (the canonical form
// most chains require), which corresponds to negating the nonce point, so
// the recovery id's parity bit is flipped to match.
func normalize(r, s *big.Int, nonceR share.Point) share.Signature {
	q := groupOrder()
	half := new(big.Int).Rsh(q, 1)

	recID := byte(0)
	if yIsOdd(nonceR) {
		recID |= 1
	}
	if rawX(nonceR).Cmp(q) >= 0 {
		recID |= 2
	}

	if s.Cmp(half) > 0 {
		s = new(big.Int).Sub(q, s)
		recID ^= 1
	}

	return share.Signature{R: new(big.Int).Mod(r, q), S: s, RecID: recID}
}

func groupOrder() *big.Int {
	return share.GroupOrder()
}
