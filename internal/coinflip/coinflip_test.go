package coinflip

import "testing"

func TestCommitOpenRoundTrip(t *testing.T) {
	c, err := NewContribution()
	if err != nil {
		t.Fatalf("NewContribution: %v", err)
	}
	commitment, blinding, err := c.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := Open(commitment, c, blinding); err != nil {
		t.Fatalf("honest opening rejected: %v", err)
	}
}

func TestOpenRejectsSwappedContribution(t *testing.T) {
	c1, err := NewContribution()
	if err != nil {
		t.Fatalf("NewContribution: %v", err)
	}
	c2, err := NewContribution()
	if err != nil {
		t.Fatalf("NewContribution: %v", err)
	}
	commitment, blinding, err := c1.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := Open(commitment, c2, blinding); err == nil {
		t.Fatal("opening with a different contribution should fail")
	}
}

func TestCombineIsOrderSensitiveAndDeterministic(t *testing.T) {
	client, err := NewContribution()
	if err != nil {
		t.Fatalf("NewContribution: %v", err)
	}
	server, err := NewContribution()
	if err != nil {
		t.Fatalf("NewContribution: %v", err)
	}

	a := Combine(client, server)
	b := Combine(client, server)
	if a != b {
		t.Fatal("Combine should be deterministic for the same inputs")
	}

	swapped := Combine(server, client)
	if a == swapped {
		t.Fatal("Combine should be sensitive to argument order")
	}
}
