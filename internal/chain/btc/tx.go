package btc

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/okwallet/tss-client/internal/config"
	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/sign"
	"github.com/okwallet/tss-client/internal/share"
	"github.com/okwallet/tss-client/internal/transport"
)

// UTXO is a spendable prior output, tagged with the child key that controls
// it so a transaction spending UTXOs from more than one issued address can
// sign each input with the right key.
type UTXO struct {
	TxID     chainhash.Hash
	Vout     uint32
	ValueSat int64
	MK       share.MasterKeyClient
}

// SelectUTXOs greedily selects UTXOs in ascending value order until their
// sum covers amount+fee. Smallest outputs are spent first, so this does not
// minimize the number of inputs; it returns the selection and the change
// (total minus amount+fee).
func SelectUTXOs(utxos []UTXO, amountSat, feeSat int64) ([]UTXO, int64, error) {
	sorted := make([]UTXO, len(utxos))
	copy(sorted, utxos)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ValueSat < sorted[j].ValueSat })

	need := amountSat + feeSat
	var selected []UTXO
	var total int64
	for _, u := range sorted {
		selected = append(selected, u)
		total += u.ValueSat
		if total >= need {
			return selected, total - need, nil
		}
	}
	return nil, 0, errs.New(errs.KindInsufficientFunds, "btc.SelectUTXOs", fmt.Sprintf("have %d sat, need %d sat", total, need))
}

// BuildAndSign selects UTXOs (which may come from more than one issued
// address), builds a P2WPKH transaction paying amountSat to toAddress with
// change (if above the dust threshold) returned to changeMK's address, and
// signs every input via the two-party signing dialog using the key that
// actually controls it.
func BuildAndSign(ctx context.Context, client *transport.Client, cfg config.Config, utxos []UTXO, changeMK share.MasterKeyClient, toAddress string, amountSat int64) (*wire.MsgTx, error) {
	if amountSat <= 0 {
		return nil, errs.New(errs.KindInvalidParameter, "btc.BuildAndSign", "amount must be positive")
	}

	selected, change, err := SelectUTXOs(utxos, amountSat, cfg.BTCFlatFeeSat)
	if err != nil {
		return nil, err
	}

	destAddr, err := btcutil.DecodeAddress(toAddress, paramsFor(cfg.BTCMainnet))
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInvalidParameter, "btc.BuildAndSign", "decode destination address")
	}
	destScript, err := txscript.PayToAddrScript(destAddr)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInvalidParameter, "btc.BuildAndSign", "build destination script")
	}

	tx := wire.NewMsgTx(2)
	prevOutFetcher := txscript.NewMultiPrevOutFetcher(nil)

	for _, u := range selected {
		outPoint := wire.NewOutPoint(&u.TxID, u.Vout)
		tx.AddTxIn(wire.NewTxIn(outPoint, nil, nil))
		prevOutFetcher.AddPrevOut(*outPoint, wire.NewTxOut(u.ValueSat, ScriptPubKey(u.MK)))
	}

	tx.AddTxOut(wire.NewTxOut(amountSat, destScript))
	if change > DustThresholdSat {
		tx.AddTxOut(wire.NewTxOut(change, ScriptPubKey(changeMK)))
	}

	sigHashes := txscript.NewTxSigHashes(tx, prevOutFetcher)

	for i, u := range selected {
		inputScript := ScriptPubKey(u.MK)
		digest, err := txscript.CalcWitnessSigHash(inputScript, sigHashes, txscript.SigHashAll, tx, i, u.ValueSat)
		if err != nil {
			return nil, errs.Wrap(err, errs.KindInternal, "btc.BuildAndSign", "compute witness sighash")
		}
		var digestArr [32]byte
		copy(digestArr[:], digest)

		sig, err := sign.Run(ctx, client, u.MK, digestArr)
		if err != nil {
			return nil, err
		}

		der := derEncode(sig)
		der = append(der, byte(txscript.SigHashAll))
		tx.TxIn[i].Witness = wire.TxWitness{der, u.MK.Public.Q.Compressed()}
	}

	return tx, nil
}

// derEncode builds the strict DER encoding of a signature's (r, s) pair.
func derEncode(sig share.Signature) []byte {
	var r, s secp256k1.ModNScalar
	rBytes := padTo32(sig.R.Bytes())
	sBytes := padTo32(sig.S.Bytes())
	r.SetByteSlice(rBytes)
	s.SetByteSlice(sBytes)
	return dcrecdsa.NewSignature(&r, &s).Serialize()
}

func padTo32(b []byte) []byte {
	if len(b) >= 32 {
		return b
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

// Serialize returns the raw wire encoding of tx, including witness data.
func Serialize(tx *wire.MsgTx) ([]byte, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return nil, errs.Wrap(err, errs.KindInternal, "btc.Serialize", "serialize transaction")
	}
	return buf.Bytes(), nil
}

// TxID returns the little-endian-displayed transaction id (the hash over
// the non-witness serialization, as Bitcoin defines it).
func TxID(tx *wire.MsgTx) string {
	return tx.TxHash().String()
}
