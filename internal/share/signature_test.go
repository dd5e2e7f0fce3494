package share

import (
	"math/big"
	"testing"
)

func TestSignatureVerifyAcceptsHonestSignature(t *testing.T) {
	x, err := RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	q := BasePointMul(x)

	k, err := RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	r := BasePointMul(k).X()

	m := ScalarFromHash([]byte("test message digest padded to 32 bytes!!"))
	s := k.Inverse().Mul(m.Add(r.Mul(x)))

	sig := Signature{R: r.BigInt(), S: s.BigInt(), RecID: 0}
	if !sig.Verify(m, q) {
		t.Fatal("honest signature failed to verify")
	}
}

func TestSignatureVerifyRejectsTamperedS(t *testing.T) {
	x, err := RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	q := BasePointMul(x)
	k, err := RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	r := BasePointMul(k).X()
	m := ScalarFromHash([]byte("another message digest, 32+ bytes long"))
	s := k.Inverse().Mul(m.Add(r.Mul(x)))

	tampered := new(big.Int).Add(s.BigInt(), big.NewInt(1))
	sig := Signature{R: r.BigInt(), S: tampered, RecID: 0}
	if sig.Verify(m, q) {
		t.Fatal("tampered signature should not verify")
	}
}
