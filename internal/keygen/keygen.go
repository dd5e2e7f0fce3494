// Package keygen implements the four-message key generation dialog (§4,
// C3): a commit-reveal exchange that establishes party one's public share
// point Q1 together with proofs that its Paillier key and the ciphertext
// c_key encrypting its secret share are both honestly formed, followed by a
// coin-flip exchange that derives the wallet's chain code.
package keygen

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/okwallet/tss-client/internal/coinflip"
	"github.com/okwallet/tss-client/internal/codec"
	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/paillier"
	"github.com/okwallet/tss-client/internal/share"
	"github.com/okwallet/tss-client/internal/transport"
	"github.com/okwallet/tss-client/internal/zkp"
)

var log = slog.Default().With("component", "keygen")

// Run drives the full key generation dialog against the cosigner and
// returns the resulting PrivateShare. Any ZK proof or commitment failure
// aborts with a CheatingPeer error; the caller must never retry the same
// session id after such a failure (§7).
func Run(ctx context.Context, client *transport.Client) (share.PrivateShare, error) {
	var first firstResponse
	if err := client.Post(ctx, "ecdsa/keygen/first", struct{}{}, &first); err != nil {
		return share.PrivateShare{}, err
	}

	var second secondResponse
	secondPath := fmt.Sprintf("ecdsa/keygen/%s/second", first.SessionID)
	if err := client.Post(ctx, secondPath, struct{}{}, &second); err != nil {
		return share.PrivateShare{}, err
	}

	q1, blinding, pub, cKey, dlogProof, correctKeyProof, pdlProof, err := decodeSecond(second)
	if err != nil {
		return share.PrivateShare{}, err
	}

	commitmentBytes, err := hex.DecodeString(first.Commitment)
	if err != nil {
		return share.PrivateShare{}, errs.Wrap(err, errs.KindInputDecode, "keygen.Run", "malformed commitment hex")
	}
	if err := zkp.Open(commitmentBytes, q1.Compressed(), blinding); err != nil {
		return share.PrivateShare{}, errs.CheatingPeer("keygen.Run", "party one's Q1 commitment did not open")
	}
	if err := zkp.VerifyDLog(dlogProof, q1); err != nil {
		return share.PrivateShare{}, errs.CheatingPeer("keygen.Run", "party one's DLog proof on Q1 failed")
	}
	if err := paillier.Verify(pub, correctKeyProof, []byte(first.SessionID)); err != nil {
		return share.PrivateShare{}, errs.CheatingPeer("keygen.Run", "party one's Paillier key is malformed")
	}
	pdlStatement := zkp.PDLStatement{Pub: pub, C: cKey, Q: q1}
	if err := zkp.VerifyPDL(pdlStatement, pdlProof); err != nil {
		return share.PrivateShare{}, errs.CheatingPeer("keygen.Run", "party one's c_key does not encrypt the discrete log of Q1")
	}

	x2, err := share.RandomScalar()
	if err != nil {
		return share.PrivateShare{}, errs.Wrap(err, errs.KindInternal, "keygen.Run", "sample client secret share")
	}
	p2 := share.BasePointMul(x2)
	q := q1.Mul(x2)

	chainCode, err := runChaincodeExchange(ctx, client, first.SessionID)
	if err != nil {
		return share.PrivateShare{}, err
	}

	mk := share.MasterKeyClient{
		Public: share.MasterKeyPublic{
			Q:           q,
			P1:          q1,
			P2:          p2,
			PaillierPub: pub,
			CKey:        cKey,
		},
		Private:   x2,
		ChainCode: chainCode,
	}

	log.Info("key generation complete", "session_id", first.SessionID)

	return share.PrivateShare{ID: first.SessionID, MasterKey: mk, LastDerivedPos: 0}, nil
}

func decodeSecond(r secondResponse) (q1 share.Point, blinding []byte, pub share.PaillierPublicKey, cKey share.Ciphertext, dlogProof zkp.DLogProof, correctKeyProof paillier.CorrectKeyProof, pdlProof zkp.PDLProof, err error) {
	q1, err = codec.DecodePoint(r.Q1)
	if err != nil {
		return
	}
	blinding, err = hex.DecodeString(r.Blinding)
	if err != nil {
		err = errs.Wrap(err, errs.KindInputDecode, "keygen.decodeSecond", "malformed blinding hex")
		return
	}
	pub, err = codec.DecodePaillierPublicKey(r.Paillier)
	if err != nil {
		return
	}
	cKey, err = codec.DecodeCiphertext(r.CKey)
	if err != nil {
		return
	}

	var a share.Point
	a, err = codec.DecodePoint(r.DLogProof.A)
	if err != nil {
		return
	}
	var s share.Scalar
	s, err = codec.DecodeScalar(r.DLogProof.S)
	if err != nil {
		return
	}
	dlogProof = zkp.DLogProof{A: a, S: s}

	sigma := make([]*big.Int, len(r.CorrectKeyProof.Sigma))
	for i, h := range r.CorrectKeyProof.Sigma {
		b, decErr := hex.DecodeString(h)
		if decErr != nil {
			err = errs.Wrap(decErr, errs.KindInputDecode, "keygen.decodeSecond", "malformed correct-key proof sigma hex")
			return
		}
		sigma[i] = new(big.Int).SetBytes(b)
	}
	correctKeyProof = paillier.CorrectKeyProof{Sigma: sigma}

	var aPoint share.Point
	aPoint, err = codec.DecodePoint(r.PDLProof.APoint)
	if err != nil {
		return
	}
	aEnc, aEncErr := hexBigInt(r.PDLProof.AEnc)
	if aEncErr != nil {
		err = aEncErr
		return
	}
	z, zErr := hexBigInt(r.PDLProof.Z)
	if zErr != nil {
		err = zErr
		return
	}
	zr, zrErr := hexBigInt(r.PDLProof.ZR)
	if zrErr != nil {
		err = zrErr
		return
	}
	pdlProof = zkp.PDLProof{AEnc: aEnc, APoint: aPoint, Z: z, ZR: zr}
	return
}

func hexBigInt(s string) (*big.Int, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInputDecode, "keygen.hexBigInt", "malformed hex big int")
	}
	return new(big.Int).SetBytes(b), nil
}

func runChaincodeExchange(ctx context.Context, client *transport.Client, sessionID string) ([32]byte, error) {
	clientContribution, err := coinflip.NewContribution()
	if err != nil {
		return [32]byte{}, err
	}
	commitment, blinding, err := clientContribution.Commit()
	if err != nil {
		return [32]byte{}, err
	}

	var firstResp chaincodeFirstResponse
	firstPath := fmt.Sprintf("ecdsa/keygen/%s/chaincode/first", sessionID)
	if err := client.Post(ctx, firstPath, chaincodeFirstRequest{Commitment: hex.EncodeToString(commitment)}, &firstResp); err != nil {
		return [32]byte{}, err
	}
	serverCommitment, err := hex.DecodeString(firstResp.Commitment)
	if err != nil {
		return [32]byte{}, errs.Wrap(err, errs.KindInputDecode, "keygen.runChaincodeExchange", "malformed server commitment hex")
	}

	var secondResp chaincodeSecondResponse
	secondPath := fmt.Sprintf("ecdsa/keygen/%s/chaincode/second", sessionID)
	req := chaincodeSecondRequest{
		Value:    hex.EncodeToString(clientContribution[:]),
		Blinding: hex.EncodeToString(blinding),
	}
	if err := client.Post(ctx, secondPath, req, &secondResp); err != nil {
		return [32]byte{}, err
	}

	serverValueBytes, err := hex.DecodeString(secondResp.Value)
	if err != nil {
		return [32]byte{}, errs.Wrap(err, errs.KindInputDecode, "keygen.runChaincodeExchange", "malformed server contribution hex")
	}
	serverBlinding, err := hex.DecodeString(secondResp.Blinding)
	if err != nil {
		return [32]byte{}, errs.Wrap(err, errs.KindInputDecode, "keygen.runChaincodeExchange", "malformed server blinding hex")
	}
	var serverContribution coinflip.Contribution
	if len(serverValueBytes) != len(serverContribution) {
		return [32]byte{}, errs.New(errs.KindProtocol, "keygen.runChaincodeExchange", "server contribution has wrong length")
	}
	copy(serverContribution[:], serverValueBytes)

	if err := coinflip.Open(serverCommitment, serverContribution, serverBlinding); err != nil {
		return [32]byte{}, errs.CheatingPeer("keygen.runChaincodeExchange", "party one's chain code commitment did not open")
	}

	return coinflip.Combine(clientContribution, serverContribution), nil
}
