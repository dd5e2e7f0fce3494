package eth

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/okwallet/tss-client/internal/share"
)

func testMasterKey(t *testing.T) share.MasterKeyClient {
	t.Helper()
	x1, err := share.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	x2, err := share.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	p1 := share.BasePointMul(x1)
	q := p1.Mul(x2)
	return share.MasterKeyClient{Public: share.MasterKeyPublic{Q: q, P1: p1, P2: share.BasePointMul(x2)}, Private: x2}
}

func TestAddressIsValidChecksummed(t *testing.T) {
	mk := testMasterKey(t)
	addr := Address(mk)
	if !common.IsHexAddress(addr.Hex()) {
		t.Fatalf("derived address is not a valid hex address: %s", addr.Hex())
	}
}

func TestAddressHexIsLowercase(t *testing.T) {
	mk := testMasterKey(t)
	hex := AddressHex(mk)
	if hex != strings.ToLower(hex) {
		t.Fatalf("AddressHex should be all lowercase, got %s", hex)
	}
	if !strings.EqualFold(hex, Address(mk).Hex()) {
		t.Fatal("AddressHex should match Address(mk).Hex() up to case")
	}
}

func TestAddressIsDeterministic(t *testing.T) {
	mk := testMasterKey(t)
	if Address(mk) != Address(mk) {
		t.Fatal("Address should be deterministic for the same key")
	}
}
