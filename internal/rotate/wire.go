package rotate

import "github.com/okwallet/tss-client/internal/codec"

type firstRequest struct {
	Commitment string `json:"commitment"`
}

type firstResponse struct {
	Commitment string `json:"commitment"`
}

type secondRequest struct {
	Value    string `json:"value"`
	Blinding string `json:"blinding"`
}

type secondResponse struct {
	Value           string                      `json:"value"`
	Blinding        string                      `json:"blinding"`
	P1New           codec.PointWire             `json:"p1_new"`
	Paillier        codec.PaillierPublicKeyWire `json:"paillier_pub"`
	CKeyNew         codec.CiphertextWire        `json:"c_key_new"`
	CorrectKeyProof correctKeyProofWire         `json:"correct_key_proof"`
	PDLProof        pdlProofWire                `json:"pdl_proof"`
}

type correctKeyProofWire struct {
	Sigma []string `json:"sigma"`
}

type pdlProofWire struct {
	AEnc   string          `json:"a_enc"`
	APoint codec.PointWire `json:"a_point"`
	Z      string          `json:"z"`
	ZR     string          `json:"z_r"`
}
