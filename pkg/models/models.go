// Package models holds the coin/network identifiers shared across chain
// adapters and the wallet facade.
package models

import "math/big"

// CoinType identifies which blockchain a wallet, address, or transaction
// belongs to.
type CoinType string

// Supported coin types.
const (
	CoinBTC CoinType = "BTC"
	CoinETH CoinType = "ETH"
)

// Network selects a chain-specific network variant (mainnet/testnet).
type Network string

// Supported networks.
const (
	NetworkBTCMainnet Network = "mainnet"
	NetworkBTCTestnet Network = "testnet"
	NetworkETHMainnet Network = "mainnet"
	NetworkETHSepolia Network = "sepolia"
)

// Balance is the confirmed/unconfirmed pair returned for BTC-style wallets.
type Balance struct {
	Confirmed   int64 `json:"confirmed"`
	Unconfirmed int64 `json:"unconfirmed"`
}

// WeiToEth converts a wei amount to whole-ether float64 units.
func WeiToEth(wei *big.Int) float64 {
	f := new(big.Float).SetInt(wei)
	f.Quo(f, big.NewFloat(1e18))
	v, _ := f.Float64()
	return v
}
