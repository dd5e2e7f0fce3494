package wallet

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/okwallet/tss-client/internal/chain/btc"
	"github.com/okwallet/tss-client/internal/chain/eth"
	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/share"
	"github.com/okwallet/tss-client/pkg/models"
)

// BalanceBTC returns the confirmed/unconfirmed satoshi balance of the
// address issued at pos.
func (w *Wallet) BalanceBTC(ctx context.Context, pos uint32) (models.Balance, error) {
	rec, err := w.AddressRecord(pos)
	if err != nil {
		return models.Balance{}, err
	}
	return btc.NewExplorer(w.cfg.BTCExplorerURL).Balance(ctx, rec.Address)
}

// SendBTC sends amountSat to toAddress, with change returned to the address
// issued at pos. UTXOs are selected across every BTC address this wallet has
// issued so far (not just pos), and each selected input is signed with the
// key that actually controls it, since a greedy selection across addresses
// can and will pull inputs from more than one.
func (w *Wallet) SendBTC(ctx context.Context, pos uint32, toAddress string, amountSat int64) (string, error) {
	changeRec, err := w.AddressRecord(pos)
	if err != nil {
		return "", err
	}

	explorer := btc.NewExplorer(w.cfg.BTCExplorerURL)
	utxos, err := w.listAllBTCUnspent(ctx, explorer)
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	tx, err := btc.BuildAndSign(ctx, w.client, w.cfg, utxos, changeRec.MK, toAddress, amountSat)
	w.mu.Unlock()
	if err != nil {
		return "", err
	}

	raw, err := btc.Serialize(tx)
	if err != nil {
		return "", err
	}
	if _, err := explorer.Broadcast(ctx, raw); err != nil {
		return "", err
	}
	return btc.TxID(tx), nil
}

// listAllBTCUnspent aggregates UTXOs across every issued BTC address
// [0..last_pos], tagging each one with the child key that controls it.
func (w *Wallet) listAllBTCUnspent(ctx context.Context, explorer *btc.Explorer) ([]btc.UTXO, error) {
	w.mu.Lock()
	records := make([]share.AddressRecord, 0, len(w.addresses))
	for _, rec := range w.addresses {
		if isBTCAddress(rec.Address) {
			records = append(records, rec)
		}
	}
	w.mu.Unlock()

	var utxos []btc.UTXO
	for _, rec := range records {
		found, err := explorer.ListUnspent(ctx, rec.Address)
		if err != nil {
			return nil, err
		}
		for i := range found {
			found[i].MK = rec.MK
		}
		utxos = append(utxos, found...)
	}
	return utxos, nil
}

// isBTCAddress distinguishes a previously issued BTC address from an ETH
// one in the shared address map, which records no coin type of its own
// (AddressRecord's schema is fixed by the wallet-file format). ETH
// addresses are always "0x"-prefixed hex; nothing else issued by this
// wallet is.
func isBTCAddress(address string) bool {
	return !strings.HasPrefix(address, "0x")
}

// BalanceETH returns the wei balance of the address issued at pos.
func (w *Wallet) BalanceETH(ctx context.Context, pos uint32) (*big.Int, error) {
	rec, err := w.AddressRecord(pos)
	if err != nil {
		return nil, err
	}
	return eth.NewRPCClient(w.cfg.ETHRPCURL).Balance(ctx, eth.Address(rec.MK))
}

// SendETH sends amountWei from the address issued at pos to toAddress
// using an EIP-1559 transaction, and broadcasts the result.
func (w *Wallet) SendETH(ctx context.Context, pos uint32, toAddress string, amountWei *big.Int, gasTipCap, gasFeeCap *big.Int, gasLimit uint64) (string, error) {
	rec, err := w.AddressRecord(pos)
	if err != nil {
		return "", err
	}

	rpc := eth.NewRPCClient(w.cfg.ETHRPCURL)
	fromAddr := eth.Address(rec.MK)
	nonce, err := rpc.NonceAt(ctx, fromAddr)
	if err != nil {
		return "", err
	}

	if !common.IsHexAddress(toAddress) {
		return "", errs.New(errs.KindInvalidParameter, "wallet.SendETH", "malformed destination address")
	}
	to := common.HexToAddress(toAddress)

	params := eth.DynamicFeeTxParams{
		ChainID:   w.cfg.ETHChainID,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
		GasLimit:  gasLimit,
		To:        to,
		Value:     amountWei,
	}

	w.mu.Lock()
	raw, err := eth.SignDynamicFee(ctx, w.client, rec.MK, params)
	w.mu.Unlock()
	if err != nil {
		return "", err
	}

	return rpc.SendRawTransaction(ctx, raw)
}

// SendERC20 sends amount of an ERC-20 token at tokenContract from the
// address issued at pos to toAddress via transferFrom, treating the wallet
// itself as the token owner (the common pattern for a smart-contract-less
// custodial transfer where the wallet address has approved itself, kept
// for parity with deployments that route all transfers through a single
// token contract call shape).
func (w *Wallet) SendERC20(ctx context.Context, pos uint32, tokenContract, toAddress string, amount *big.Int, gasTipCap, gasFeeCap *big.Int, gasLimit uint64) (string, error) {
	rec, err := w.AddressRecord(pos)
	if err != nil {
		return "", err
	}
	if !common.IsHexAddress(tokenContract) || !common.IsHexAddress(toAddress) {
		return "", errs.New(errs.KindInvalidParameter, "wallet.SendERC20", "malformed contract or destination address")
	}

	rpc := eth.NewRPCClient(w.cfg.ETHRPCURL)
	fromAddr := eth.Address(rec.MK)
	nonce, err := rpc.NonceAt(ctx, fromAddr)
	if err != nil {
		return "", err
	}

	data := eth.EncodeTransferFrom(fromAddr, common.HexToAddress(toAddress), amount)
	params := eth.DynamicFeeTxParams{
		ChainID:   w.cfg.ETHChainID,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
		GasLimit:  gasLimit,
		To:        common.HexToAddress(tokenContract),
		Value:     big.NewInt(0),
		Data:      data,
	}

	w.mu.Lock()
	raw, err := eth.SignDynamicFee(ctx, w.client, rec.MK, params)
	w.mu.Unlock()
	if err != nil {
		return "", err
	}

	return rpc.SendRawTransaction(ctx, raw)
}
