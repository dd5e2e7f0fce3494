package wallet

import (
	"path/filepath"
	"testing"

	"github.com/okwallet/tss-client/internal/config"
	"github.com/okwallet/tss-client/internal/transport"
	"github.com/okwallet/tss-client/pkg/models"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	w := testWallet(t)
	if _, err := w.NewAddress(models.CoinBTC); err != nil {
		t.Fatalf("NewAddress: %v", err)
	}
	if _, err := w.NewAddress(models.CoinETH); err != nil {
		t.Fatalf("NewAddress: %v", err)
	}

	path := filepath.Join(t.TempDir(), "wallet.json")
	if err := w.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	client := transport.New(config.Default())
	loaded, err := Load(path, client, config.Default())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.ID() != w.ID() {
		t.Fatalf("got id %q want %q", loaded.ID(), w.ID())
	}
	if loaded.share.LastDerivedPos != w.share.LastDerivedPos {
		t.Fatalf("got cursor %d want %d", loaded.share.LastDerivedPos, w.share.LastDerivedPos)
	}
	if !loaded.share.MasterKey.Public.Q.Equal(w.share.MasterKey.Public.Q) {
		t.Fatal("loaded wallet's Q does not match saved wallet's")
	}
	for pos, rec := range w.addresses {
		loadedRec, ok := loaded.addresses[pos]
		if !ok {
			t.Fatalf("loaded wallet missing address at position %d", pos)
		}
		if loadedRec.Address != rec.Address {
			t.Fatalf("position %d: got %q want %q", pos, loadedRec.Address, rec.Address)
		}
		if !loadedRec.MK.Public.Q.Equal(rec.MK.Public.Q) {
			t.Fatalf("position %d: re-derived child key does not match", pos)
		}
	}
}
