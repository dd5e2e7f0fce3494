// Package wallet implements the client-facing facade (§4, C10): it owns a
// PrivateShare, the address-issuance cursor, and the map of previously
// issued addresses, and serializes every protocol run (keygen excepted,
// which produces the PrivateShare in the first place) through a per-wallet
// lock so two goroutines can never interleave two signing dialogs against
// the same cosigner session.
package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/okwallet/tss-client/internal/chain/btc"
	"github.com/okwallet/tss-client/internal/chain/eth"
	"github.com/okwallet/tss-client/internal/config"
	"github.com/okwallet/tss-client/internal/derive"
	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/escrow"
	"github.com/okwallet/tss-client/internal/keygen"
	"github.com/okwallet/tss-client/internal/rotate"
	"github.com/okwallet/tss-client/internal/share"
	"github.com/okwallet/tss-client/internal/transport"
	"github.com/okwallet/tss-client/pkg/models"
)

var log = slog.Default().With("component", "wallet")

// Wallet is the client's handle on a single two-party wallet. All
// exported methods are safe for concurrent use; each serializes on the
// wallet's lock, since only one protocol run against a given wallet's
// cosigner session may be in flight at a time.
type Wallet struct {
	mu        sync.Mutex
	client    *transport.Client
	cfg       config.Config
	share     share.PrivateShare
	addresses map[uint32]share.AddressRecord
}

// Create runs key generation against the cosigner and returns a new
// Wallet.
func Create(ctx context.Context, client *transport.Client, cfg config.Config) (*Wallet, error) {
	ps, err := keygen.Run(ctx, client)
	if err != nil {
		return nil, err
	}
	return &Wallet{
		client:    client,
		cfg:       cfg,
		share:     ps,
		addresses: make(map[uint32]share.AddressRecord),
	}, nil
}

// Open wraps an already-generated PrivateShare (e.g. loaded from disk) in a
// Wallet.
func Open(client *transport.Client, cfg config.Config, ps share.PrivateShare, addresses map[uint32]share.AddressRecord) *Wallet {
	if addresses == nil {
		addresses = make(map[uint32]share.AddressRecord)
	}
	return &Wallet{client: client, cfg: cfg, share: ps, addresses: addresses}
}

// ID returns the wallet's session identifier.
func (w *Wallet) ID() string {
	return w.share.ID
}

// NewAddress derives and records the next address for coin, advancing the
// issuance cursor. The derivation path for a freshly issued address is
// [0, pos+1], matching the convention the signing path must reproduce
// exactly when later asked to sign for that same address.
func (w *Wallet) NewAddress(coin models.CoinType) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	pos := w.share.LastDerivedPos + 1
	child, err := derive.Child(w.share.MasterKey, []uint32{0, pos})
	if err != nil {
		return "", err
	}

	address, err := formatAddress(coin, child, w.cfg.BTCMainnet)
	if err != nil {
		return "", err
	}

	w.addresses[pos] = share.AddressRecord{Address: address, Pos: pos, MK: child}
	w.share.LastDerivedPos = pos

	log.Info("issued address", "wallet_id", w.share.ID, "coin", coin, "pos", pos)
	return address, nil
}

func formatAddress(coin models.CoinType, mk share.MasterKeyClient, mainnet bool) (string, error) {
	switch coin {
	case models.CoinBTC:
		return btc.Address(mk, mainnet)
	case models.CoinETH:
		return eth.AddressHex(mk), nil
	default:
		return "", errs.New(errs.KindInvalidParameter, "wallet.formatAddress", fmt.Sprintf("unsupported coin type %q", coin))
	}
}

// AddressRecord looks up a previously issued address by its derivation
// position and returns the recorded child key, which was derived along the
// [0, pos] path for the exact pos that address was issued at (not
// [0, pos+1]).
func (w *Wallet) AddressRecord(pos uint32) (share.AddressRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec, ok := w.addresses[pos]
	if !ok {
		return share.AddressRecord{}, errs.New(errs.KindInvalidParameter, "wallet.AddressRecord", fmt.Sprintf("no address issued at position %d", pos))
	}
	return rec, nil
}

// Rotate runs the key-rotation dialog and atomically swaps in the new
// master key, then re-derives every previously issued address's child key
// against it (rotation changes P1, so every address's cached child key
// must be rebuilt; the addresses themselves do not change, since Q is
// invariant under rotation).
func (w *Wallet) Rotate(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	newMK, err := rotate.Run(ctx, w.client, w.share.MasterKey)
	if err != nil {
		return err
	}

	newAddresses := make(map[uint32]share.AddressRecord, len(w.addresses))
	for pos, rec := range w.addresses {
		child, err := derive.Child(newMK, []uint32{0, pos})
		if err != nil {
			return err
		}
		newAddresses[pos] = share.AddressRecord{Address: rec.Address, Pos: pos, MK: child}
	}

	w.share.MasterKey.Zero()
	w.share.MasterKey = newMK
	w.addresses = newAddresses

	log.Info("rotation complete", "wallet_id", w.share.ID)
	return nil
}

// Backup produces a verifiably-encrypted escrow backup of the wallet's
// current secret share under escrowPub, verifying its own proof before
// returning so a malformed backup is never handed to the caller.
func (w *Wallet) Backup(escrowPub share.Point) ([]escrow.Segment, escrow.Proof, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	segments, proof, err := escrow.Backup(w.share.MasterKey.Private, w.share.MasterKey.Public.P2, escrowPub, w.cfg.EscrowSegmentSize, w.cfg.EscrowNumSegments)
	if err != nil {
		return nil, escrow.Proof{}, err
	}
	if err := escrow.VerifyBackup(segments, proof, w.share.MasterKey.Public.P2, escrowPub, w.cfg.EscrowSegmentSize); err != nil {
		return nil, escrow.Proof{}, err
	}
	return segments, proof, nil
}

// VerifyBackup checks a previously produced backup against this wallet's
// current public share, for a caller that persisted the backup and wants to
// confirm it before relying on it.
func (w *Wallet) VerifyBackup(segments []escrow.Segment, proof escrow.Proof, escrowPub share.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return escrow.VerifyBackup(segments, proof, w.share.MasterKey.Public.P2, escrowPub, w.cfg.EscrowSegmentSize)
}

// Recover rebuilds a wallet from an escrow-recovered secret share. pos is
// the last derivation position the caller's own records show; since those
// records may be stale, the returned wallet's issuance cursor is set to
// max(reportedPos, cfg.RecoveryPosFloor) (a conservative default, not a
// protocol requirement). The returned wallet's address map is empty: no
// previously issued addresses are re-derived or scanned for.
func Recover(client *transport.Client, cfg config.Config, walletID string, recoveredValues []*big.Int, publicHalf share.MasterKeyPublic, chainCode [32]byte, reportedPos uint32) *Wallet {
	x2 := escrow.Recover(recoveredValues, cfg.EscrowSegmentSize)

	pos := reportedPos
	if pos < cfg.RecoveryPosFloor {
		pos = cfg.RecoveryPosFloor
	}

	ps := share.PrivateShare{
		ID: walletID,
		MasterKey: share.MasterKeyClient{
			Public:    publicHalf,
			Private:   x2,
			ChainCode: chainCode,
		},
		LastDerivedPos: pos,
	}

	log.Info("recovered wallet", "wallet_id", walletID, "rescan_floor", pos)
	return Open(client, cfg, ps, nil)
}
