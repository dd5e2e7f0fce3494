package btc

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/pkg/models"
)

func httpBody(raw []byte) io.Reader {
	return bytes.NewReader([]byte(hex.EncodeToString(raw)))
}

// Explorer is a minimal client for a block-explorer-style REST API
// (Blockstream Esplora path layout), used for balance/UTXO lookups and
// broadcast. It is deliberately separate from internal/transport.Client:
// that package talks to the cosigner, this one talks to a public chain
// indexer, and the two must never share a base URL or auth token.
type Explorer struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewExplorer builds an Explorer against baseURL (e.g.
// "https://blockstream.info/testnet/api").
func NewExplorer(baseURL string) *Explorer {
	return &Explorer{BaseURL: baseURL, HTTPClient: http.DefaultClient}
}

type utxoResponse struct {
	TxID   string `json:"txid"`
	Vout   uint32 `json:"vout"`
	Value  int64  `json:"value"`
	Status struct {
		Confirmed bool `json:"confirmed"`
	} `json:"status"`
}

// ListUnspent returns the UTXO set for address.
func (e *Explorer) ListUnspent(ctx context.Context, address string) ([]UTXO, error) {
	var raw []utxoResponse
	if err := e.get(ctx, fmt.Sprintf("/address/%s/utxo", address), &raw); err != nil {
		return nil, err
	}
	utxos := make([]UTXO, 0, len(raw))
	for _, r := range raw {
		h, err := chainhash.NewHashFromStr(r.TxID)
		if err != nil {
			return nil, errs.Wrap(err, errs.KindProtocol, "btc.Explorer.ListUnspent", "malformed txid from explorer")
		}
		utxos = append(utxos, UTXO{TxID: *h, Vout: r.Vout, ValueSat: r.Value})
	}
	return utxos, nil
}

// Balance returns the confirmed/unconfirmed satoshi balances for address.
func (e *Explorer) Balance(ctx context.Context, address string) (models.Balance, error) {
	var raw []utxoResponse
	if err := e.get(ctx, fmt.Sprintf("/address/%s/utxo", address), &raw); err != nil {
		return models.Balance{}, err
	}
	var bal models.Balance
	for _, r := range raw {
		if r.Status.Confirmed {
			bal.Confirmed += r.Value
		} else {
			bal.Unconfirmed += r.Value
		}
	}
	return bal, nil
}

// Broadcast submits raw, the serialized transaction bytes, to the network.
func (e *Explorer) Broadcast(ctx context.Context, raw []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/tx", httpBody(raw))
	if err != nil {
		return "", errs.Wrap(err, errs.KindTransport, "btc.Explorer.Broadcast", "build request")
	}
	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return "", errs.Wrap(err, errs.KindTransport, "btc.Explorer.Broadcast", "round trip")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errs.New(errs.KindTransport, "btc.Explorer.Broadcast", fmt.Sprintf("broadcast rejected, status %d", resp.StatusCode))
	}
	var txid string
	if err := json.NewDecoder(resp.Body).Decode(&txid); err != nil {
		return "", nil // some explorers return plain-text txid, not JSON; broadcast still succeeded
	}
	return txid, nil
}

func (e *Explorer) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.BaseURL+path, nil)
	if err != nil {
		return errs.Wrap(err, errs.KindTransport, "btc.Explorer.get", "build request")
	}
	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return errs.Wrap(err, errs.KindTransport, "btc.Explorer.get", "round trip")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errs.New(errs.KindTransport, "btc.Explorer.get", fmt.Sprintf("non-2xx status %d", resp.StatusCode))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
