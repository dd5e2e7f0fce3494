package btc

import (
	"testing"

	"github.com/okwallet/tss-client/internal/errs"
)

func TestSelectUTXOsGreedyAscending(t *testing.T) {
	utxos := []UTXO{
		{Vout: 0, ValueSat: 5000},
		{Vout: 1, ValueSat: 1000},
		{Vout: 2, ValueSat: 20000},
	}

	selected, change, err := SelectUTXOs(utxos, 3000, 500)
	if err != nil {
		t.Fatalf("SelectUTXOs: %v", err)
	}
	// Ascending order: 1000 first (insufficient alone), then 5000 covers
	// 1000+5000=6000 >= 3500 needed.
	if len(selected) != 2 {
		t.Fatalf("expected 2 inputs selected, got %d", len(selected))
	}
	if selected[0].ValueSat != 1000 || selected[1].ValueSat != 5000 {
		t.Fatalf("unexpected selection order: %+v", selected)
	}
	wantChange := int64(1000+5000) - (3000 + 500)
	if change != wantChange {
		t.Fatalf("got change %d want %d", change, wantChange)
	}
}

func TestSelectUTXOsInsufficientFunds(t *testing.T) {
	utxos := []UTXO{{Vout: 0, ValueSat: 100}}
	_, _, err := SelectUTXOs(utxos, 1000, 500)
	if !errs.Is(err, errs.KindInsufficientFunds) {
		t.Fatalf("expected KindInsufficientFunds, got %v", err)
	}
}
