package keygen

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okwallet/tss-client/internal/coinflip"
	"github.com/okwallet/tss-client/internal/codec"
	"github.com/okwallet/tss-client/internal/config"
	"github.com/okwallet/tss-client/internal/paillier"
	"github.com/okwallet/tss-client/internal/share"
	"github.com/okwallet/tss-client/internal/transport"
	"github.com/okwallet/tss-client/internal/zkp"
)

const testSessionID = "kg1"

// fakePartyOne implements party one's half of the keygen dialog against the
// real client-side keygen package, exercising every proof the client
// verifies.
type fakePartyOne struct {
	x1         share.Scalar
	q1         share.Point
	commitment zkp.HashCommitment
	blinding   []byte
	priv       *paillier.PrivateKey
	cKey       share.Ciphertext
	r          *big.Int

	serverContribution coinflip.Contribution
	serverCommitment   zkp.HashCommitment
	serverBlinding     []byte

	clientContribution coinflip.Contribution // captured from the client's chaincode/second request
}

func newFakePartyOne(t *testing.T) *fakePartyOne {
	t.Helper()
	x1, err := share.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	q1 := share.BasePointMul(x1)
	commitment, blinding, err := zkp.Commit(q1.Compressed())
	if err != nil {
		t.Fatalf("zkp.Commit: %v", err)
	}
	priv, err := paillier.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	r, err := rand.Int(rand.Reader, priv.Pub.N)
	if err != nil {
		t.Fatalf("rand.Int: %v", err)
	}
	if r.Sign() == 0 {
		r.SetInt64(1)
	}
	cKey, err := paillier.EncryptWithRandomness(priv.Pub, x1.BigInt(), r)
	if err != nil {
		t.Fatalf("EncryptWithRandomness: %v", err)
	}

	serverContribution, err := coinflip.NewContribution()
	if err != nil {
		t.Fatalf("NewContribution: %v", err)
	}
	serverCommitment, serverBlinding, err := serverContribution.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	return &fakePartyOne{
		x1: x1, q1: q1, commitment: commitment, blinding: blinding,
		priv: priv, cKey: cKey, r: r,
		serverContribution: serverContribution,
		serverCommitment:   serverCommitment,
		serverBlinding:     serverBlinding,
	}
}

func (f *fakePartyOne) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ecdsa/keygen/first":
			json.NewEncoder(w).Encode(firstResponse{
				SessionID:  testSessionID,
				Commitment: hex.EncodeToString(f.commitment),
			})

		case "/ecdsa/keygen/" + testSessionID + "/second":
			dlogProof, err := zkp.ProveDLog(f.x1, f.q1)
			if err != nil {
				t.Fatalf("ProveDLog: %v", err)
			}
			correctKeyProof := f.priv.Prove([]byte(testSessionID))
			pdlProof, err := zkp.ProvePDL(zkp.PDLStatement{Pub: f.priv.Pub, C: f.cKey, Q: f.q1}, f.x1.BigInt(), f.r)
			if err != nil {
				t.Fatalf("ProvePDL: %v", err)
			}

			sigma := make([]string, len(correctKeyProof.Sigma))
			for i, s := range correctKeyProof.Sigma {
				sigma[i] = hex.EncodeToString(s.Bytes())
			}

			json.NewEncoder(w).Encode(secondResponse{
				Q1:        codec.EncodePoint(f.q1),
				Blinding:  hex.EncodeToString(f.blinding),
				DLogProof: dlogProofWire{A: codec.EncodePoint(dlogProof.A), S: codec.EncodeScalar(dlogProof.S)},
				Paillier:  codec.EncodePaillierPublicKey(f.priv.Pub),
				CKey:      codec.EncodeCiphertext(f.cKey),
				CorrectKeyProof: correctKeyProofWire{
					Sigma: sigma,
				},
				PDLProof: pdlProofWire{
					AEnc:   hex.EncodeToString(pdlProof.AEnc.Bytes()),
					APoint: codec.EncodePoint(pdlProof.APoint),
					Z:      hex.EncodeToString(pdlProof.Z.Bytes()),
					ZR:     hex.EncodeToString(pdlProof.ZR.Bytes()),
				},
			})

		case "/ecdsa/keygen/" + testSessionID + "/chaincode/first":
			json.NewEncoder(w).Encode(chaincodeFirstResponse{Commitment: hex.EncodeToString(f.serverCommitment)})

		case "/ecdsa/keygen/" + testSessionID + "/chaincode/second":
			body, err := io.ReadAll(r.Body)
			if err != nil {
				t.Fatalf("read request body: %v", err)
			}
			var req chaincodeSecondRequest
			if err := json.Unmarshal(body, &req); err != nil {
				t.Fatalf("unmarshal request body: %v", err)
			}
			clientValueBytes, err := hex.DecodeString(req.Value)
			if err != nil {
				t.Fatalf("decode client contribution: %v", err)
			}
			copy(f.clientContribution[:], clientValueBytes)

			json.NewEncoder(w).Encode(chaincodeSecondResponse{
				Value:    hex.EncodeToString(f.serverContribution[:]),
				Blinding: hex.EncodeToString(f.serverBlinding),
			})

		default:
			http.NotFound(w, r)
		}
	}
}

func TestKeygenRunProducesValidShare(t *testing.T) {
	fake := newFakePartyOne(t)
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	cfg := config.Default()
	cfg.CosignerEndpoint = srv.URL
	client := transport.New(cfg)

	ps, err := Run(context.Background(), client)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if ps.ID != testSessionID {
		t.Fatalf("got session id %q want %q", ps.ID, testSessionID)
	}
	if ps.LastDerivedPos != 0 {
		t.Fatalf("expected a fresh wallet's cursor to start at 0, got %d", ps.LastDerivedPos)
	}

	want := fake.q1.Mul(ps.MasterKey.Private)
	if !ps.MasterKey.Public.Q.Equal(want) {
		t.Fatal("Q does not equal P1 * x2")
	}
	if !ps.MasterKey.Public.P1.Equal(fake.q1) {
		t.Fatal("P1 should be party one's revealed Q1")
	}

	wantChainCode := coinflip.Combine(fake.clientContribution, fake.serverContribution)
	if ps.MasterKey.ChainCode != wantChainCode {
		t.Fatal("chain code does not match the combined coin-flip contributions")
	}
}

func TestKeygenRunChainCodeIsSet(t *testing.T) {
	fake := newFakePartyOne(t)
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	cfg := config.Default()
	cfg.CosignerEndpoint = srv.URL
	client := transport.New(cfg)

	ps, err := Run(context.Background(), client)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var zero [32]byte
	if ps.MasterKey.ChainCode == zero {
		t.Fatal("chain code should not be all zero")
	}
}
