// Package eth implements the Ethereum chain adapter (§4, C9): Keccak256
// addressing, legacy and EIP-1559 transaction signing-hash assembly, and
// ERC-20 transferFrom call encoding.
package eth

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/okwallet/tss-client/internal/share"
)

// Address derives the 20-byte Ethereum address from mk's combined public
// key: the low 20 bytes of Keccak256 of the uncompressed point, minus the
// 0x04 prefix byte.
func Address(mk share.MasterKeyClient) common.Address {
	uncompressed := mk.Public.Q.Uncompressed()
	digest := crypto.Keccak256(uncompressed[1:])
	var addr common.Address
	copy(addr[:], digest[12:])
	return addr
}

// AddressHex returns Address as lowercase 0x-prefixed hex, not go-ethereum's
// default EIP-55 mixed-case checksum form.
func AddressHex(mk share.MasterKeyClient) string {
	return strings.ToLower(Address(mk).Hex())
}
