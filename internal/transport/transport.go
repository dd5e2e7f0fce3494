// Package transport implements the HTTP TransportAdapter (§5, C2): the sole
// suspension point of any protocol run. It posts a JSON request body to a
// cosigner endpoint and decodes a JSON response, carrying Bearer auth and a
// user-id header exactly as original_source's ClientShim does, retrying
// transient failures with the teacher repo's backoff idiom.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/okwallet/tss-client/internal/config"
	"github.com/okwallet/tss-client/internal/errs"
)

// Client is the two-party-protocol-facing HTTP adapter to the cosigner.
// One Client is shared by every protocol run against a given wallet.
type Client struct {
	httpClient *http.Client
	endpoint   string
	authToken  string
	userID     string
	maxRetries int
	log        *slog.Logger
}

// New builds a Client from Config.
func New(cfg config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		endpoint:   cfg.CosignerEndpoint,
		authToken:  cfg.AuthToken,
		userID:     cfg.UserID,
		maxRetries: cfg.BroadcastMaxRetries,
		log:        slog.Default().With("component", "transport"),
	}
}

// Post sends body as JSON to path and decodes the JSON response into out.
// path is relative to the configured cosigner endpoint, e.g.
// "ecdsa/keygen/first". A nil out skips response-body decoding.
//
// Post is the only point in the client where a protocol run can suspend
// waiting on the network; callers (the protocol packages) must pass a
// context that bounds that wait.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errs.Wrap(err, errs.KindInputDecode, "transport.Post", "marshal request body")
	}

	var lastErr error
	backoff := 200 * time.Millisecond
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn("retrying cosigner request", "path", path, "attempt", attempt, "err", lastErr)
			select {
			case <-ctx.Done():
				return errs.Wrap(ctx.Err(), errs.KindTransport, "transport.Post", "context cancelled during backoff")
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		err := c.do(ctx, path, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) {
			return err
		}
	}
	return errs.Wrap(lastErr, errs.KindTransport, "transport.Post", fmt.Sprintf("exhausted %d retries", c.maxRetries))
}

func (c *Client) do(ctx context.Context, path string, payload []byte, out any) error {
	url := c.endpoint + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errs.Wrap(err, errs.KindTransport, "transport.do", "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	if c.userID != "" {
		req.Header.Set("user_id", c.userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Wrap(err, errs.KindTransport, "transport.do", "round trip")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Wrap(err, errs.KindTransport, "transport.do", "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errs.New(errs.KindTransport, "transport.do", fmt.Sprintf("non-2xx status %d: %s", resp.StatusCode, string(respBody)))
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errs.Wrap(err, errs.KindProtocol, "transport.do", "decode response body")
	}
	return nil
}

// isRetryable reports whether err is worth another attempt: transport-kind
// errors are (network blips, non-2xx, timeouts); protocol/input-decode
// errors are not, since a retry would resend the same malformed request.
func isRetryable(err error) bool {
	return errs.Is(err, errs.KindTransport)
}
