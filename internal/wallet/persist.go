package wallet

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"os"

	"github.com/okwallet/tss-client/internal/codec"
	"github.com/okwallet/tss-client/internal/config"
	"github.com/okwallet/tss-client/internal/derive"
	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/share"
	"github.com/okwallet/tss-client/internal/transport"
)

func scalarFromBytes(b []byte) share.Scalar {
	return share.NewScalarFromBigInt(new(big.Int).SetBytes(b))
}

func deriveChildFor(mk share.MasterKeyClient, pos uint32) (share.MasterKeyClient, error) {
	return derive.Child(mk, []uint32{0, pos})
}

type walletFile struct {
	ID             string                      `json:"id"`
	LastDerivedPos uint32                      `json:"last_derived_pos"`
	Private        string                      `json:"private"` // hex scalar
	ChainCode      string                      `json:"chain_code"`
	Q              codec.PointWire             `json:"q"`
	P1             codec.PointWire             `json:"p1"`
	P2             codec.PointWire             `json:"p2"`
	Paillier       codec.PaillierPublicKeyWire `json:"paillier_pub"`
	CKey           codec.CiphertextWire        `json:"c_key"`
	Addresses      []addressFileEntry          `json:"addresses"`
}

type addressFileEntry struct {
	Pos     uint32 `json:"pos"`
	Address string `json:"address"`
}

// Save persists the wallet's private share and address map to path as
// JSON. The file contains the secret share in the clear: callers are
// responsible for storing it somewhere access-controlled (this mirrors the
// teacher repo's own plain-file persistence; encrypting the file at rest is
// a deployment concern, not this library's).
func (w *Wallet) Save(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	wf := walletFile{
		ID:             w.share.ID,
		LastDerivedPos: w.share.LastDerivedPos,
		Private:        hex.EncodeToString(w.share.MasterKey.Private.Bytes()),
		ChainCode:      hex.EncodeToString(w.share.MasterKey.ChainCode[:]),
		Q:              codec.EncodePoint(w.share.MasterKey.Public.Q),
		P1:             codec.EncodePoint(w.share.MasterKey.Public.P1),
		P2:             codec.EncodePoint(w.share.MasterKey.Public.P2),
		Paillier:       codec.EncodePaillierPublicKey(w.share.MasterKey.Public.PaillierPub),
		CKey:           codec.EncodeCiphertext(w.share.MasterKey.Public.CKey),
	}
	for pos, rec := range w.addresses {
		wf.Addresses = append(wf.Addresses, addressFileEntry{Pos: pos, Address: rec.Address})
	}

	data, err := json.MarshalIndent(wf, "", "  ")
	if err != nil {
		return errs.Wrap(err, errs.KindInternal, "wallet.Save", "marshal wallet file")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errs.Wrap(err, errs.KindInternal, "wallet.Save", "write wallet file")
	}
	return nil
}

// Load reads a wallet file previously written by Save and re-derives each
// recorded address's child key against the loaded master key.
func Load(path string, client *transport.Client, cfg config.Config) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInternal, "wallet.Load", "read wallet file")
	}

	var wf walletFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, errs.Wrap(err, errs.KindInputDecode, "wallet.Load", "decode wallet file")
	}

	privateBytes, err := hex.DecodeString(wf.Private)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInputDecode, "wallet.Load", "malformed private share hex")
	}
	chainCodeBytes, err := hex.DecodeString(wf.ChainCode)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInputDecode, "wallet.Load", "malformed chain code hex")
	}
	if len(chainCodeBytes) != 32 {
		return nil, errs.New(errs.KindInputDecode, "wallet.Load", "chain code has wrong length")
	}

	q, err := codec.DecodePoint(wf.Q)
	if err != nil {
		return nil, err
	}
	p1, err := codec.DecodePoint(wf.P1)
	if err != nil {
		return nil, err
	}
	p2, err := codec.DecodePoint(wf.P2)
	if err != nil {
		return nil, err
	}
	paillierPub, err := codec.DecodePaillierPublicKey(wf.Paillier)
	if err != nil {
		return nil, err
	}
	cKey, err := codec.DecodeCiphertext(wf.CKey)
	if err != nil {
		return nil, err
	}

	var chainCode [32]byte
	copy(chainCode[:], chainCodeBytes)

	mk := share.MasterKeyClient{
		Public: share.MasterKeyPublic{
			Q: q, P1: p1, P2: p2, PaillierPub: paillierPub, CKey: cKey,
		},
		Private:   scalarFromBytes(privateBytes),
		ChainCode: chainCode,
	}

	ps := share.PrivateShare{ID: wf.ID, MasterKey: mk, LastDerivedPos: wf.LastDerivedPos}

	addresses := make(map[uint32]share.AddressRecord, len(wf.Addresses))
	for _, entry := range wf.Addresses {
		child, err := deriveChildFor(mk, entry.Pos)
		if err != nil {
			return nil, err
		}
		addresses[entry.Pos] = share.AddressRecord{Address: entry.Address, Pos: entry.Pos, MK: child}
	}

	return Open(client, cfg, ps, addresses), nil
}
