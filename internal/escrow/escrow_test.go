package escrow

import (
	"math/big"
	"testing"

	"github.com/okwallet/tss-client/internal/share"
)

const (
	testSegBits     = 8
	testNumSegments = 32 // 256 bits, enough to cover the full scalar range
)

func TestBackupVerifyRoundTrip(t *testing.T) {
	x2, err := share.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	p2 := share.BasePointMul(x2)

	escrowPriv, err := share.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	escrowPub := share.BasePointMul(escrowPriv)

	segments, proof, err := Backup(x2, p2, escrowPub, testSegBits, testNumSegments)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if err := VerifyBackup(segments, proof, p2, escrowPub, testSegBits); err != nil {
		t.Fatalf("honest backup proof rejected: %v", err)
	}
}

func TestVerifyBackupRejectsTamperedSegment(t *testing.T) {
	x2, err := share.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	p2 := share.BasePointMul(x2)
	escrowPriv, err := share.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	escrowPub := share.BasePointMul(escrowPriv)

	segments, proof, err := Backup(x2, p2, escrowPub, testSegBits, testNumSegments)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}

	other, err := share.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	segments[0].C = share.BasePointMul(other)

	if err := VerifyBackup(segments, proof, p2, escrowPub, testSegBits); err == nil {
		t.Fatal("tampered segment should not verify")
	}
}

func TestVerifyBackupRejectsWrongPublicPoint(t *testing.T) {
	x2, err := share.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	p2 := share.BasePointMul(x2)
	escrowPriv, err := share.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	escrowPub := share.BasePointMul(escrowPriv)

	segments, proof, err := Backup(x2, p2, escrowPub, testSegBits, testNumSegments)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}

	other, err := share.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	wrongP2 := share.BasePointMul(other)
	if err := VerifyBackup(segments, proof, wrongP2, escrowPub, testSegBits); err == nil {
		t.Fatal("proof should not verify against an unrelated public point")
	}
}

func TestRecoverReconstructsSecret(t *testing.T) {
	x2, err := share.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}

	mask := new(big.Int).Lsh(big.NewInt(1), testSegBits)
	remaining := new(big.Int).Set(x2.BigInt())
	values := make([]*big.Int, testNumSegments)
	for i := 0; i < testNumSegments; i++ {
		values[i] = new(big.Int).Mod(remaining, mask)
		remaining.Rsh(remaining, testSegBits)
	}

	got := Recover(values, testSegBits)
	if got.BigInt().Cmp(x2.BigInt()) != 0 {
		t.Fatalf("got %s want %s", got.BigInt(), x2.BigInt())
	}
}
