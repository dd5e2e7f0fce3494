package paillier

import (
	"math/big"
	"testing"
)

func TestCorrectKeyProofAcceptsHonestKey(t *testing.T) {
	priv := testKeyPair(t)
	context := []byte("session-1")

	proof := priv.Prove(context)
	if err := Verify(priv.Pub, proof, context); err != nil {
		t.Fatalf("honest correct-key proof rejected: %v", err)
	}
}

func TestCorrectKeyProofRejectsWrongContext(t *testing.T) {
	priv := testKeyPair(t)
	proof := priv.Prove([]byte("session-1"))

	if err := Verify(priv.Pub, proof, []byte("session-2")); err == nil {
		t.Fatal("proof bound to a different context should not verify")
	}
}

func TestCorrectKeyProofRejectsTamperedResponse(t *testing.T) {
	priv := testKeyPair(t)
	context := []byte("session-1")
	proof := priv.Prove(context)

	proof.Sigma[0] = new(big.Int).Add(proof.Sigma[0], big.NewInt(1))
	if err := Verify(priv.Pub, proof, context); err == nil {
		t.Fatal("tampered proof should not verify")
	}
}

func TestCorrectKeyProofRejectsWrongRoundCount(t *testing.T) {
	priv := testKeyPair(t)
	context := []byte("session-1")
	proof := priv.Prove(context)
	proof.Sigma = proof.Sigma[:len(proof.Sigma)-1]

	if err := Verify(priv.Pub, proof, context); err == nil {
		t.Fatal("proof with wrong round count should not verify")
	}
}
