// Package client is a thin convenience wrapper for CLI tools to call
// the resolvq daemon's JSON API over a Unix-domain socket. It re-exports
// the DTOs from pkg/api so callers get strongly-typed results instead
// of generic maps.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/lc/resolvq/pkg/api"
)

// Client holds an http.Client wired to a Unix socket.
type Client struct {
	hc   *http.Client
	base string // dummy scheme+host for Request.URL (http://unix)
}

// New returns a Client that dials the given Unix-domain socket path.
func New(socketPath string) *Client {
	dial := func(ctx context.Context, _, _ string) (net.Conn, error) {
		return (&net.Dialer{}).DialContext(ctx, "unix", socketPath)
	}
	tr := &http.Transport{DialContext: dial}
	return &Client{hc: &http.Client{Transport: tr}, base: "http://unix"}
}

// --------------------------- commands ------------------------------

// Submit offers an address for background reverse resolution. The
// returned flag reports whether the daemon admitted it to the queue.
func (c *Client) Submit(ctx context.Context, address string) (bool, error) {
	var out api.SubmitResponse
	err := c.post(ctx, "/v1/submit", api.SubmitRequest{Address: address}, &out)
	return out.Accepted, err
}

// Host retrieves the stored hostname for one address.
func (c *Client) Host(ctx context.Context, address string) (api.HostResponse, error) {
	var out api.HostResponse
	err := c.get(ctx, "/v1/host?address="+url.QueryEscape(address), &out)
	return out, err
}

// Hosts retrieves all resolved address→hostname pairs.
func (c *Client) Hosts(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	err := c.get(ctx, "/v1/hosts", &out)
	return out, err
}

// Status retrieves the daemon status: queue occupancy, counters,
// uptime, and build identity.
func (c *Client) Status(ctx context.Context) (api.StatusResponse, error) {
	var out api.StatusResponse
	err := c.get(ctx, "/v1/status", &out)
	return out, err
}

// --------------------------- HTTP helpers --------------------------

func (c *Client) post(ctx context.Context, path string, payload, v any) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.base+path, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("daemon returned %s", resp.Status)
	}
	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.base+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("daemon returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
