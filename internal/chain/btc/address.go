// Package btc implements the Bitcoin chain adapter (§4, C8): P2WPKH
// (native SegWit) addressing, BIP-143 sighash computation per input, greedy
// UTXO selection, and a flat per-transaction fee.
package btc

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD-160 is required by the Bitcoin protocol (Hash160)

	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/share"
)

// DustThresholdSat is the dust limit for change: a change amount at or below
// it is folded into the transaction fee instead of created as an output.
const DustThresholdSat = 546

// paramsFor returns the chaincfg.Params matching mainnet selects between
// mainnet and the standard public testnet.
func paramsFor(mainnet bool) *chaincfg.Params {
	if mainnet {
		return &chaincfg.MainNetParams
	}
	return &chaincfg.TestNet3Params
}

// hash160 computes RIPEMD160(SHA256(data)), the digest Bitcoin addresses are
// built from.
func hash160(data []byte) []byte {
	sha := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(sha[:])
	return r.Sum(nil)
}

// Address derives the bech32 P2WPKH address for mk's combined public key.
func Address(mk share.MasterKeyClient, mainnet bool) (string, error) {
	pubKeyHash := hash160(mk.Public.Q.Compressed())
	addr, err := btcutil.NewAddressWitnessPubKeyHash(pubKeyHash, paramsFor(mainnet))
	if err != nil {
		return "", errs.Wrap(err, errs.KindInternal, "btc.Address", "build witness address")
	}
	return addr.EncodeAddress(), nil
}

// ScriptPubKey returns the witness program scriptPubKey (OP_0 <hash160>)
// for mk's combined public key, used as the previous output's script when
// computing a BIP-143 sighash and when building a plain P2WPKH output.
func ScriptPubKey(mk share.MasterKeyClient) []byte {
	h := hash160(mk.Public.Q.Compressed())
	script := make([]byte, 0, 2+len(h))
	script = append(script, 0x00, byte(len(h)))
	script = append(script, h...)
	return script
}
