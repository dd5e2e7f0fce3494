package sign

import "github.com/okwallet/tss-client/internal/codec"

type firstResponse struct {
	R1        codec.PointWire `json:"r1"`
	DLogProofA codec.PointWire  `json:"dlog_proof_a"`
	DLogProofS codec.ScalarWire `json:"dlog_proof_s"`
}

type secondRequest struct {
	R2 codec.PointWire      `json:"r2"`
	C3 codec.CiphertextWire `json:"c3"`
}

type secondResponse struct {
	S string `json:"s"` // hex big int, the raw (pre-normalization) signature scalar
}
