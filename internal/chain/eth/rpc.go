package eth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/okwallet/tss-client/internal/errs"
)

func newJSONReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

// RPCClient is a minimal JSON-RPC client for an Ethereum node endpoint,
// used for balance, nonce, and broadcast. It is separate from
// internal/transport.Client for the same reason btc.Explorer is: it talks
// to a public chain node, not the cosigner.
type RPCClient struct {
	Endpoint   string
	HTTPClient *http.Client
}

// NewRPCClient builds an RPCClient against endpoint.
func NewRPCClient(endpoint string) *RPCClient {
	return &RPCClient{Endpoint: endpoint, HTTPClient: http.DefaultClient}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *RPCClient) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInputDecode, "eth.RPCClient.call", "marshal request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, newJSONReader(body))
	if err != nil {
		return nil, errs.Wrap(err, errs.KindTransport, "eth.RPCClient.call", "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindTransport, "eth.RPCClient.call", "round trip")
	}
	defer resp.Body.Close()

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, errs.Wrap(err, errs.KindTransport, "eth.RPCClient.call", "decode response")
	}
	if rpcResp.Error != nil {
		return nil, errs.New(errs.KindTransport, "eth.RPCClient.call", fmt.Sprintf("rpc error: %s", rpcResp.Error.Message))
	}
	return rpcResp.Result, nil
}

// Balance returns the wei balance of address at the latest block.
func (c *RPCClient) Balance(ctx context.Context, address common.Address) (*big.Int, error) {
	result, err := c.call(ctx, "eth_getBalance", []any{address.Hex(), "latest"})
	if err != nil {
		return nil, err
	}
	return parseHexQuantity(result)
}

// NonceAt returns the next transaction nonce for address.
func (c *RPCClient) NonceAt(ctx context.Context, address common.Address) (uint64, error) {
	result, err := c.call(ctx, "eth_getTransactionCount", []any{address.Hex(), "pending"})
	if err != nil {
		return 0, err
	}
	n, err := parseHexQuantity(result)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// SendRawTransaction broadcasts raw (already RLP-encoded and signed) and
// returns the transaction hash.
func (c *RPCClient) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	result, err := c.call(ctx, "eth_sendRawTransaction", []any{"0x" + fmt.Sprintf("%x", raw)})
	if err != nil {
		return "", err
	}
	var txHash string
	if err := json.Unmarshal(result, &txHash); err != nil {
		return "", errs.Wrap(err, errs.KindProtocol, "eth.RPCClient.SendRawTransaction", "decode tx hash")
	}
	return txHash, nil
}

func parseHexQuantity(raw json.RawMessage) (*big.Int, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errs.Wrap(err, errs.KindProtocol, "eth.parseHexQuantity", "decode quantity")
	}
	s = strings.TrimPrefix(s, "0x")
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, errs.New(errs.KindProtocol, "eth.parseHexQuantity", "malformed hex quantity")
	}
	return n, nil
}
