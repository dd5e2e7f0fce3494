package eth

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/share"
	"github.com/okwallet/tss-client/internal/sign"
	"github.com/okwallet/tss-client/internal/transport"
)

// erc20TransferFromSelector is the 4-byte function selector for
// transferFrom(address,address,uint256), computed rather than hardcoded so
// it is self-evidently correct from the signature string.
func erc20TransferFromSelector() []byte {
	return crypto.Keccak256([]byte("transferFrom(address,address,uint256)"))[:4]
}

// EncodeTransferFrom ABI-encodes a call to transferFrom(from, to, amount).
func EncodeTransferFrom(from, to common.Address, amount *big.Int) []byte {
	data := make([]byte, 0, 4+32*3)
	data = append(data, erc20TransferFromSelector()...)
	data = append(data, leftPad32(from.Bytes())...)
	data = append(data, leftPad32(to.Bytes())...)
	data = append(data, leftPad32(amount.Bytes())...)
	return data
}

func leftPad32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

// LegacyTxParams are the fields of a pre-EIP-1559 transaction.
type LegacyTxParams struct {
	ChainID  int64
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	To       common.Address
	Value    *big.Int
	Data     []byte
}

// DynamicFeeTxParams are the fields of an EIP-1559 (type 2) transaction.
type DynamicFeeTxParams struct {
	ChainID   int64
	Nonce     uint64
	GasTipCap *big.Int
	GasFeeCap *big.Int
	GasLimit  uint64
	To        common.Address
	Value     *big.Int
	Data      []byte
}

// SignLegacy builds and signs a legacy-format transaction, returning its
// raw RLP encoding ready to broadcast.
func SignLegacy(ctx context.Context, client *transport.Client, mk share.MasterKeyClient, p LegacyTxParams) ([]byte, error) {
	signingPayload := []interface{}{
		p.Nonce, p.GasPrice, p.GasLimit, p.To, p.Value, p.Data,
		big.NewInt(p.ChainID), uint(0), uint(0),
	}
	digest, err := keccakRLP(signingPayload)
	if err != nil {
		return nil, err
	}

	sig, err := sign.Run(ctx, client, mk, digest)
	if err != nil {
		return nil, err
	}

	v := new(big.Int).Add(
		big.NewInt(int64(sig.RecID)),
		new(big.Int).Add(big.NewInt(35), new(big.Int).Mul(big.NewInt(2), big.NewInt(p.ChainID))),
	)

	signedPayload := []interface{}{
		p.Nonce, p.GasPrice, p.GasLimit, p.To, p.Value, p.Data, v, sig.R, sig.S,
	}
	raw, err := rlp.EncodeToBytes(signedPayload)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInternal, "eth.SignLegacy", "encode signed transaction")
	}
	return raw, nil
}

// SignDynamicFee builds and signs an EIP-1559 (type 2) transaction,
// returning its raw typed-transaction encoding (0x02 prefix + RLP) ready to
// broadcast.
func SignDynamicFee(ctx context.Context, client *transport.Client, mk share.MasterKeyClient, p DynamicFeeTxParams) ([]byte, error) {
	accessList := []interface{}{}
	signingPayload := []interface{}{
		big.NewInt(p.ChainID), p.Nonce, p.GasTipCap, p.GasFeeCap, p.GasLimit, p.To, p.Value, p.Data, accessList,
	}
	unsigned, err := rlp.EncodeToBytes(signingPayload)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInternal, "eth.SignDynamicFee", "encode signing payload")
	}
	digest := keccak256Array(append([]byte{0x02}, unsigned...))

	sig, err := sign.Run(ctx, client, mk, digest)
	if err != nil {
		return nil, err
	}

	signedPayload := []interface{}{
		big.NewInt(p.ChainID), p.Nonce, p.GasTipCap, p.GasFeeCap, p.GasLimit, p.To, p.Value, p.Data, accessList,
		uint(sig.RecID), sig.R, sig.S,
	}
	signed, err := rlp.EncodeToBytes(signedPayload)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInternal, "eth.SignDynamicFee", "encode signed transaction")
	}
	return append([]byte{0x02}, signed...), nil
}

func keccakRLP(payload []interface{}) ([32]byte, error) {
	encoded, err := rlp.EncodeToBytes(payload)
	if err != nil {
		return [32]byte{}, errs.Wrap(err, errs.KindInternal, "eth.keccakRLP", "encode signing payload")
	}
	return keccak256Array(encoded), nil
}

func keccak256Array(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], crypto.Keccak256(b))
	return out
}
