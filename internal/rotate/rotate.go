// Package rotate implements key rotation (§4, C6): both parties jointly
// pick a random blinding scalar alpha via the coin-flip protocol, party one
// rescales its share to x1*alpha and re-encrypts it under a fresh Paillier
// key, and party two rescales its own share to x2*alpha^-1. The combined
// key Q = (x1*alpha)*(x2*alpha^-1)*G is unchanged, but every value either
// party previously held is now statistically independent of it: a share
// that leaked before rotation is worthless afterward.
package rotate

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/okwallet/tss-client/internal/codec"
	"github.com/okwallet/tss-client/internal/coinflip"
	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/paillier"
	"github.com/okwallet/tss-client/internal/share"
	"github.com/okwallet/tss-client/internal/transport"
	"github.com/okwallet/tss-client/internal/zkp"
)

// Run drives the rotation dialog and returns the new MasterKeyClient. The
// caller is responsible for atomically swapping it into place only after
// Run returns successfully, and for re-deriving every issued address's
// child key from the new master key afterward (P1 changes, so any child
// key tweaked against the old P1 no longer matches).
func Run(ctx context.Context, client *transport.Client, mk share.MasterKeyClient) (share.MasterKeyClient, error) {
	sessionID, err := newSessionID()
	if err != nil {
		return share.MasterKeyClient{}, err
	}

	clientContribution, err := coinflip.NewContribution()
	if err != nil {
		return share.MasterKeyClient{}, err
	}
	commitment, blinding, err := clientContribution.Commit()
	if err != nil {
		return share.MasterKeyClient{}, err
	}

	var firstResp firstResponse
	firstPath := fmt.Sprintf("ecdsa/rotate/%s/first", sessionID)
	if err := client.Post(ctx, firstPath, firstRequest{Commitment: hex.EncodeToString(commitment)}, &firstResp); err != nil {
		return share.MasterKeyClient{}, err
	}
	serverCommitment, err := hex.DecodeString(firstResp.Commitment)
	if err != nil {
		return share.MasterKeyClient{}, errs.Wrap(err, errs.KindInputDecode, "rotate.Run", "malformed server commitment hex")
	}

	var secondResp secondResponse
	secondPath := fmt.Sprintf("ecdsa/rotate/%s/second", sessionID)
	req := secondRequest{
		Value:    hex.EncodeToString(clientContribution[:]),
		Blinding: hex.EncodeToString(blinding),
	}
	if err := client.Post(ctx, secondPath, req, &secondResp); err != nil {
		return share.MasterKeyClient{}, err
	}

	serverContribution, err := decodeContribution(secondResp.Value)
	if err != nil {
		return share.MasterKeyClient{}, err
	}
	serverBlinding, err := hex.DecodeString(secondResp.Blinding)
	if err != nil {
		return share.MasterKeyClient{}, errs.Wrap(err, errs.KindInputDecode, "rotate.Run", "malformed server blinding hex")
	}
	if err := coinflip.Open(serverCommitment, serverContribution, serverBlinding); err != nil {
		return share.MasterKeyClient{}, errs.CheatingPeer("rotate.Run", "party one's rotation commitment did not open")
	}

	combined := coinflip.Combine(clientContribution, serverContribution)
	alpha := share.NewScalarFromBigInt(new(big.Int).SetBytes(combined[:]))
	if alpha.IsZero() {
		return share.MasterKeyClient{}, errs.New(errs.KindInternal, "rotate.Run", "derived a zero rotation factor")
	}

	p1New, err := codec.DecodePoint(secondResp.P1New)
	if err != nil {
		return share.MasterKeyClient{}, err
	}
	expectedP1New := mk.Public.P1.Mul(alpha)
	if !p1New.Equal(expectedP1New) {
		return share.MasterKeyClient{}, errs.CheatingPeer("rotate.Run", "party one's new public point does not match the agreed rotation factor")
	}

	pub, err := codec.DecodePaillierPublicKey(secondResp.Paillier)
	if err != nil {
		return share.MasterKeyClient{}, err
	}
	cKeyNew, err := codec.DecodeCiphertext(secondResp.CKeyNew)
	if err != nil {
		return share.MasterKeyClient{}, err
	}
	correctKeyProof, err := decodeCorrectKeyProof(secondResp.CorrectKeyProof)
	if err != nil {
		return share.MasterKeyClient{}, err
	}
	pdlProof, err := decodePDLProof(secondResp.PDLProof)
	if err != nil {
		return share.MasterKeyClient{}, err
	}

	if err := paillier.Verify(pub, correctKeyProof, []byte(sessionID)); err != nil {
		return share.MasterKeyClient{}, errs.CheatingPeer("rotate.Run", "party one's rotated Paillier key is malformed")
	}
	pdlStatement := zkp.PDLStatement{Pub: pub, C: cKeyNew, Q: p1New}
	if err := zkp.VerifyPDL(pdlStatement, pdlProof); err != nil {
		return share.MasterKeyClient{}, errs.CheatingPeer("rotate.Run", "party one's rotated c_key does not encrypt the discrete log of its new public point")
	}

	alphaInv := alpha.Inverse()
	x2New := mk.Private.Mul(alphaInv)
	p2New := share.BasePointMul(x2New)

	qNew := p1New.Mul(x2New)
	if !qNew.Equal(mk.Public.Q) {
		return share.MasterKeyClient{}, errs.CheatingPeer("rotate.Run", "rotated shares no longer reconstruct the original public key")
	}

	newMK := share.MasterKeyClient{
		Public: share.MasterKeyPublic{
			Q:           mk.Public.Q,
			P1:          p1New,
			P2:          p2New,
			PaillierPub: pub,
			CKey:        cKeyNew,
		},
		Private:   x2New,
		ChainCode: mk.ChainCode,
	}
	return newMK, nil
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", errs.Wrap(err, errs.KindInternal, "rotate.newSessionID", "sample session id")
	}
	return hex.EncodeToString(b), nil
}

func decodeContribution(hexValue string) (coinflip.Contribution, error) {
	b, err := hex.DecodeString(hexValue)
	if err != nil {
		return coinflip.Contribution{}, errs.Wrap(err, errs.KindInputDecode, "rotate.decodeContribution", "malformed contribution hex")
	}
	var c coinflip.Contribution
	if len(b) != len(c) {
		return coinflip.Contribution{}, errs.New(errs.KindProtocol, "rotate.decodeContribution", "contribution has wrong length")
	}
	copy(c[:], b)
	return c, nil
}

func decodeCorrectKeyProof(w correctKeyProofWire) (paillier.CorrectKeyProof, error) {
	sigma := make([]*big.Int, len(w.Sigma))
	for i, h := range w.Sigma {
		b, err := hex.DecodeString(h)
		if err != nil {
			return paillier.CorrectKeyProof{}, errs.Wrap(err, errs.KindInputDecode, "rotate.decodeCorrectKeyProof", "malformed sigma hex")
		}
		sigma[i] = new(big.Int).SetBytes(b)
	}
	return paillier.CorrectKeyProof{Sigma: sigma}, nil
}

func decodePDLProof(w pdlProofWire) (zkp.PDLProof, error) {
	aPoint, err := codec.DecodePoint(w.APoint)
	if err != nil {
		return zkp.PDLProof{}, err
	}
	aEnc, err := hexBigInt(w.AEnc)
	if err != nil {
		return zkp.PDLProof{}, err
	}
	z, err := hexBigInt(w.Z)
	if err != nil {
		return zkp.PDLProof{}, err
	}
	zr, err := hexBigInt(w.ZR)
	if err != nil {
		return zkp.PDLProof{}, err
	}
	return zkp.PDLProof{AEnc: aEnc, APoint: aPoint, Z: z, ZR: zr}, nil
}

func hexBigInt(s string) (*big.Int, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInputDecode, "rotate.hexBigInt", "malformed hex big int")
	}
	return new(big.Int).SetBytes(b), nil
}
