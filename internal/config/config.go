// Package config holds client-wide configuration, following the teacher
// repo's Default()/FromEnv() pattern.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configurable parameters for the wallet client.
type Config struct {
	// Cosigner REST endpoint (server / "party 1").
	CosignerEndpoint string
	AuthToken        string
	UserID           string

	// TransportAdapter behavior.
	RequestTimeout      time.Duration
	BroadcastMaxRetries int

	// BTC chain adapter.
	BTCMainnet     bool
	BTCFlatFeeSat  int64
	BTCExplorerURL string

	// ETH chain adapter.
	ETHChainID int64
	ETHRPCURL  string

	// Escrow backup.
	EscrowSegmentSize uint
	EscrowNumSegments uint

	// Recovery rescan floor (spec.md §9: conservative, not a protocol requirement).
	RecoveryPosFloor uint32
}

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		CosignerEndpoint:    "https://cosigner.example.com",
		RequestTimeout:      15 * time.Second,
		BroadcastMaxRetries: 3,

		BTCMainnet:     false,
		BTCFlatFeeSat:  10_000,
		BTCExplorerURL: "https://blockstream.info/testnet/api",

		ETHChainID: 1,
		ETHRPCURL:  "https://cloudflare-eth.com",

		EscrowSegmentSize: 8,
		EscrowNumSegments: 32,

		RecoveryPosFloor: 10,
	}
}

// FromEnv returns a Config populated from environment variables, falling
// back to defaults for unset values.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("COSIGNER_ENDPOINT"); v != "" {
		cfg.CosignerEndpoint = v
	}
	if v := os.Getenv("COSIGNER_AUTH_TOKEN"); v != "" {
		cfg.AuthToken = v
	}
	if v := os.Getenv("COSIGNER_USER_ID"); v != "" {
		cfg.UserID = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("BROADCAST_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BroadcastMaxRetries = n
		}
	}
	if v := os.Getenv("BTC_MAINNET"); v == "true" {
		cfg.BTCMainnet = true
	}
	if v := os.Getenv("ETH_CHAIN_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.ETHChainID = n
		}
	}
	if v := os.Getenv("BTC_EXPLORER_URL"); v != "" {
		cfg.BTCExplorerURL = v
	}
	if v := os.Getenv("ETH_RPC_URL"); v != "" {
		cfg.ETHRPCURL = v
	}

	return cfg
}
