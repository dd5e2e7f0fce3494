package share

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Point is an element of the secp256k1 group, stored in affine form.
type Point struct {
	x, y secp256k1.FieldVal
}

// GeneratorPoint returns the secp256k1 base point G.
func GeneratorPoint() Point {
	var g secp256k1.JacobianPoint
	one := new(secp256k1.ModNScalar).SetInt(1)
	secp256k1.ScalarBaseMultNonConst(one, &g)
	g.ToAffine()
	return Point{x: g.X, y: g.Y}
}

// ParsePoint decodes a SEC1 compressed or uncompressed point, rejecting the
// point at infinity and any encoding not on the curve.
func ParsePoint(b []byte) (Point, error) {
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return Point{}, fmt.Errorf("share: parse point: %w", err)
	}
	var jp secp256k1.JacobianPoint
	pub.AsJacobian(&jp)
	return Point{x: jp.X, y: jp.Y}, nil
}

// Mul returns s*P.
func (p Point) Mul(s Scalar) Point {
	var jp, result secp256k1.JacobianPoint
	jp.X.Set(&p.x)
	jp.Y.Set(&p.y)
	jp.Z.SetInt(1)
	sc := s.n
	secp256k1.ScalarMultNonConst(&sc, &jp, &result)
	result.ToAffine()
	return Point{x: result.X, y: result.Y}
}

// Add returns p+o.
func (p Point) Add(o Point) Point {
	var jp1, jp2, result secp256k1.JacobianPoint
	jp1.X.Set(&p.x)
	jp1.Y.Set(&p.y)
	jp1.Z.SetInt(1)
	jp2.X.Set(&o.x)
	jp2.Y.Set(&o.y)
	jp2.Z.SetInt(1)
	secp256k1.AddNonConst(&jp1, &jp2, &result)
	result.ToAffine()
	return Point{x: result.X, y: result.Y}
}

// BasePointMul returns s*G, the standard way to derive a public key from a
// secret scalar.
func BasePointMul(s Scalar) Point {
	var jp secp256k1.JacobianPoint
	sc := s.n
	secp256k1.ScalarBaseMultNonConst(&sc, &jp)
	jp.ToAffine()
	return Point{x: jp.X, y: jp.Y}
}

// Compressed returns the 33-byte SEC1 compressed encoding.
func (p Point) Compressed() []byte {
	pub := secp256k1.NewPublicKey(&p.x, &p.y)
	return pub.SerializeCompressed()
}

// Uncompressed returns the 65-byte SEC1 uncompressed encoding.
func (p Point) Uncompressed() []byte {
	pub := secp256k1.NewPublicKey(&p.x, &p.y)
	return pub.SerializeUncompressed()
}

// Equal reports whether p and o encode the same curve point.
func (p Point) Equal(o Point) bool {
	return p.x.Equals(&o.x) && p.y.Equals(&o.y)
}

// X returns the affine X coordinate reduced into the scalar field. It is
// used where a coordinate is needed as a scalar (the r value in ECDSA
// signature verification), never for point equality.
func (p Point) X() Scalar {
	b := p.x.Bytes()
	return ScalarFromHash(b[:])
}
