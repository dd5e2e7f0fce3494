package share

import (
	"math/big"
	"testing"
)

func TestBasePointMulMatchesRepeatedAdd(t *testing.T) {
	three := NewScalarFromBigInt(big.NewInt(3))
	g := GeneratorPoint()
	want := g.Add(g).Add(g)
	got := BasePointMul(three)
	if !got.Equal(want) {
		t.Fatal("3*G via BasePointMul does not match G+G+G")
	}
}

func TestPointRoundTripCompressed(t *testing.T) {
	s, err := RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	p := BasePointMul(s)
	decoded, err := ParsePoint(p.Compressed())
	if err != nil {
		t.Fatalf("ParsePoint: %v", err)
	}
	if !p.Equal(decoded) {
		t.Fatal("round-tripped point does not match original")
	}
}

func TestPointRoundTripUncompressed(t *testing.T) {
	s, err := RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	p := BasePointMul(s)
	decoded, err := ParsePoint(p.Uncompressed())
	if err != nil {
		t.Fatalf("ParsePoint: %v", err)
	}
	if !p.Equal(decoded) {
		t.Fatal("round-tripped point does not match original")
	}
}

func TestMultiplicativeSharingReconstructsCombinedKey(t *testing.T) {
	x1, err := RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	x2, err := RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	p1 := BasePointMul(x1)
	q := p1.Mul(x2)
	want := BasePointMul(x1.Mul(x2))
	if !q.Equal(want) {
		t.Fatal("P1*x2 should equal (x1*x2)*G")
	}
}
