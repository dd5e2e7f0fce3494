package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okwallet/tss-client/internal/config"
	"github.com/okwallet/tss-client/internal/errs"
)

type echoRequest struct {
	Value string `json:"value"`
}

func testConfig(endpoint string) config.Config {
	cfg := config.Default()
	cfg.CosignerEndpoint = endpoint
	cfg.RequestTimeout = 2 * time.Second
	cfg.BroadcastMaxRetries = 2
	return cfg
}

func TestPostRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		if got := r.Header.Get("user_id"); got != "user-1" {
			t.Errorf("unexpected user_id header: %q", got)
		}
		var req echoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(echoRequest{Value: req.Value + "-echoed"})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.AuthToken = "test-token"
	cfg.UserID = "user-1"
	client := New(cfg)

	var resp echoRequest
	if err := client.Post(context.Background(), "echo", echoRequest{Value: "hi"}, &resp); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.Value != "hi-echoed" {
		t.Fatalf("got %q want %q", resp.Value, "hi-echoed")
	}
}

func TestPostRetriesTransportFailures(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(echoRequest{Value: "ok"})
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL))
	var resp echoRequest
	if err := client.Post(context.Background(), "echo", echoRequest{Value: "hi"}, &resp); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.Value != "ok" {
		t.Fatalf("got %q want %q", resp.Value, "ok")
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestPostExhaustsRetriesAsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL))
	err := client.Post(context.Background(), "echo", echoRequest{Value: "hi"}, nil)
	if !errs.Is(err, errs.KindTransport) {
		t.Fatalf("expected KindTransport, got %v", err)
	}
}
