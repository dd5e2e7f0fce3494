package derive

import (
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
	p2 := share.BasePointMul(x2)
	q := p1.Mul(x2)

	var chainCode [32]byte
	for i := range chainCode {
		chainCode[i] = byte(i + 1)
	}

	return share.MasterKeyClient{
		Public:    share.MasterKeyPublic{Q: q, P1: p1, P2: p2},
		Private:   x2,
		ChainCode: chainCode,
	}
}

func TestChildPreservesMultiplicativeInvariant(t *testing.T) {
	parent := testMasterKey(t)
	child, err := Child(parent, []uint32{0, 1})
	if err != nil {
		t.Fatalf("Child: %v", err)
	}

	// Q' must equal P1 * x2' (party one's share, which did not change).
	want := child.Public.P1.Mul(child.Private)
	if !child.Public.Q.Equal(want) {
		t.Fatal("derived child does not satisfy Q = P1 * x2")
	}
	// P2' must equal x2' * G.
	if !child.Public.P2.Equal(share.BasePointMul(child.Private)) {
		t.Fatal("derived child's P2 does not match x2' * G")
	}
	// P1 is unchanged; party one needs no update.
	if !child.Public.P1.Equal(parent.Public.P1) {
		t.Fatal("P1 should be unchanged across derivation")
	}
}

func TestChildIsDeterministic(t *testing.T) {
	parent := testMasterKey(t)
	a, err := Child(parent, []uint32{0, 5})
	if err != nil {
		t.Fatalf("Child: %v", err)
	}
	b, err := Child(parent, []uint32{0, 5})
	if err != nil {
		t.Fatalf("Child: %v", err)
	}
	if !a.Public.Q.Equal(b.Public.Q) || a.Private.BigInt().Cmp(b.Private.BigInt()) != 0 {
		t.Fatal("deriving the same path twice should give the same child")
	}
}

func TestChildDifferentPositionsDiffer(t *testing.T) {
	parent := testMasterKey(t)
	a, err := Child(parent, []uint32{0, 1})
	if err != nil {
		t.Fatalf("Child: %v", err)
	}
	b, err := Child(parent, []uint32{0, 2})
	if err != nil {
		t.Fatalf("Child: %v", err)
	}
	if a.Public.Q.Equal(b.Public.Q) {
		t.Fatal("different positions should derive different addresses")
	}
}

func TestChildRejectsHardenedIndex(t *testing.T) {
	parent := testMasterKey(t)
	_, err := Child(parent, []uint32{0, 1 << 31})
	if err == nil {
		t.Fatal("hardened index should be rejected")
	}
}
