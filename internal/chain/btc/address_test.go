package btc

import (
	"strings"
	"testing"

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

func TestAddressTestnetHasExpectedPrefix(t *testing.T) {
	mk := testMasterKey(t)
	addr, err := Address(mk, false)
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	if !strings.HasPrefix(addr, "tb1q") {
		t.Fatalf("testnet P2WPKH address should start with tb1q, got %q", addr)
	}
}

func TestAddressMainnetHasExpectedPrefix(t *testing.T) {
	mk := testMasterKey(t)
	addr, err := Address(mk, true)
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	if !strings.HasPrefix(addr, "bc1q") {
		t.Fatalf("mainnet P2WPKH address should start with bc1q, got %q", addr)
	}
}

func TestScriptPubKeyMatchesWitnessProgramShape(t *testing.T) {
	mk := testMasterKey(t)
	script := ScriptPubKey(mk)
	if len(script) != 22 {
		t.Fatalf("expected a 22-byte witness program, got %d bytes", len(script))
	}
	if script[0] != 0x00 || script[1] != 0x14 {
		t.Fatalf("expected OP_0 0x14 prefix, got %#x %#x", script[0], script[1])
	}
}

func TestAddressIsDeterministic(t *testing.T) {
	mk := testMasterKey(t)
	a, err := Address(mk, false)
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	b, err := Address(mk, false)
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	if a != b {
		t.Fatal("Address should be deterministic for the same key")
	}
}
