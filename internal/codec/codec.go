// Package codec implements the primitive wire encoding used on every
// cosigner request/response: big integers and curve points as hex strings
// inside ordinary JSON envelopes, matching the teacher repo's plain
// encoding/json use (no protobuf/msgpack dependency appears anywhere in the
// retrieved example pack for this kind of client/server JSON API).
package codec

import (
	"encoding/hex"
	"encoding/json"
	"math/big"

	"github.com/okwallet/tss-client/internal/errs"
	"github.com/okwallet/tss-client/internal/share"
)

// HexBigInt encodes a *big.Int as a lowercase hex string with no 0x prefix,
// the empty string for nil.
type HexBigInt struct{ *big.Int }

func (h HexBigInt) MarshalJSON() ([]byte, error) {
	if h.Int == nil {
		return json.Marshal("")
	}
	return json.Marshal(hex.EncodeToString(h.Int.Bytes()))
}

func (h *HexBigInt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errs.Wrap(err, errs.KindInputDecode, "codec.HexBigInt.UnmarshalJSON", "big int is not a JSON string")
	}
	if s == "" {
		h.Int = nil
		return nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return errs.Wrap(err, errs.KindInputDecode, "codec.HexBigInt.UnmarshalJSON", "malformed hex big int")
	}
	h.Int = new(big.Int).SetBytes(b)
	return nil
}

// PointWire is the over-the-wire form of a share.Point: its SEC1 compressed
// encoding as hex.
type PointWire string

// EncodePoint converts a share.Point to its wire form.
func EncodePoint(p share.Point) PointWire {
	return PointWire(hex.EncodeToString(p.Compressed()))
}

// DecodePoint parses a wire-form point, rejecting malformed hex and points
// not on the curve.
func DecodePoint(w PointWire) (share.Point, error) {
	b, err := hex.DecodeString(string(w))
	if err != nil {
		return share.Point{}, errs.Wrap(err, errs.KindInputDecode, "codec.DecodePoint", "malformed point hex")
	}
	p, err := share.ParsePoint(b)
	if err != nil {
		return share.Point{}, errs.Wrap(err, errs.KindInputDecode, "codec.DecodePoint", "point not on curve")
	}
	return p, nil
}

// PaillierPublicKeyWire is the wire form of a share.PaillierPublicKey.
type PaillierPublicKeyWire struct {
	N string `json:"n"`
}

// EncodePaillierPublicKey converts a share.PaillierPublicKey to its wire
// form. Only N travels the wire; NSquare and G are both derived
// deterministically from N by internal/paillier on decode.
func EncodePaillierPublicKey(pk share.PaillierPublicKey) PaillierPublicKeyWire {
	return PaillierPublicKeyWire{N: hex.EncodeToString(pk.N.Bytes())}
}

// DecodePaillierPublicKey reconstructs a share.PaillierPublicKey from its
// wire form, deriving NSquare = N² and G = N+1 per the standard
// construction.
func DecodePaillierPublicKey(w PaillierPublicKeyWire) (share.PaillierPublicKey, error) {
	b, err := hex.DecodeString(w.N)
	if err != nil {
		return share.PaillierPublicKey{}, errs.Wrap(err, errs.KindInputDecode, "codec.DecodePaillierPublicKey", "malformed modulus hex")
	}
	n := new(big.Int).SetBytes(b)
	if n.Sign() <= 0 {
		return share.PaillierPublicKey{}, errs.New(errs.KindInputDecode, "codec.DecodePaillierPublicKey", "non-positive modulus")
	}
	nSquare := new(big.Int).Mul(n, n)
	g := new(big.Int).Add(n, big.NewInt(1))
	return share.PaillierPublicKey{N: n, NSquare: nSquare, G: g}, nil
}

// CiphertextWire is the wire form of a Paillier ciphertext.
type CiphertextWire string

// EncodeCiphertext converts a share.Ciphertext to its wire form.
func EncodeCiphertext(c share.Ciphertext) CiphertextWire {
	return CiphertextWire(hex.EncodeToString(c.C.Bytes()))
}

// DecodeCiphertext parses a wire-form ciphertext.
func DecodeCiphertext(w CiphertextWire) (share.Ciphertext, error) {
	b, err := hex.DecodeString(string(w))
	if err != nil {
		return share.Ciphertext{}, errs.Wrap(err, errs.KindInputDecode, "codec.DecodeCiphertext", "malformed ciphertext hex")
	}
	return share.Ciphertext{C: new(big.Int).SetBytes(b)}, nil
}

// ScalarWire is the wire form of a share.Scalar.
type ScalarWire string

// EncodeScalar converts a share.Scalar to its wire form.
func EncodeScalar(s share.Scalar) ScalarWire {
	return ScalarWire(hex.EncodeToString(s.Bytes()))
}

// DecodeScalar parses a wire-form scalar.
func DecodeScalar(w ScalarWire) (share.Scalar, error) {
	b, err := hex.DecodeString(string(w))
	if err != nil {
		return share.Scalar{}, errs.Wrap(err, errs.KindInputDecode, "codec.DecodeScalar", "malformed scalar hex")
	}
	return share.NewScalarFromBigInt(new(big.Int).SetBytes(b)), nil
}
