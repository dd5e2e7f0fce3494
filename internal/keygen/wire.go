package keygen

import "github.com/okwallet/tss-client/internal/codec"

type firstResponse struct {
	SessionID  string `json:"session_id"`
	Commitment string `json:"commitment"` // hex HashCommitment over Q1's compressed encoding
}

type dlogProofWire struct {
	A codec.PointWire  `json:"a"`
	S codec.ScalarWire `json:"s"`
}

type correctKeyProofWire struct {
	Sigma []string `json:"sigma"` // hex big ints
}

type pdlProofWire struct {
	AEnc   string          `json:"a_enc"`
	APoint codec.PointWire `json:"a_point"`
	Z      string          `json:"z"`
	ZR     string          `json:"z_r"`
}

type secondResponse struct {
	Q1              codec.PointWire             `json:"q1"`
	Blinding        string                      `json:"blinding"` // hex
	DLogProof       dlogProofWire               `json:"dlog_proof"`
	Paillier        codec.PaillierPublicKeyWire `json:"paillier_pub"`
	CKey            codec.CiphertextWire        `json:"c_key"`
	CorrectKeyProof correctKeyProofWire         `json:"correct_key_proof"`
	PDLProof        pdlProofWire                `json:"pdl_proof"`
}

type chaincodeFirstRequest struct {
	Commitment string `json:"commitment"` // hex, client's commitment to its contribution
}

type chaincodeFirstResponse struct {
	Commitment string `json:"commitment"` // hex, server's commitment to its contribution
}

type chaincodeSecondRequest struct {
	Value    string `json:"value"`    // hex, client's contribution
	Blinding string `json:"blinding"` // hex, client's blinding factor
}

type chaincodeSecondResponse struct {
	Value    string `json:"value"`
	Blinding string `json:"blinding"`
}
