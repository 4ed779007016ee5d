// Package mcsrv fetches live server status and player rosters from the
// mcsrvstat.us HTTP API.
package mcsrv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// DefaultBaseURL is the mcsrvstat.us v2 status endpoint.
const DefaultBaseURL = "https://api.mcsrvstat.us/2/"

// Status is the parsed roster payload for one server probe.
type Status struct {
	// Online reports whether the server answered the status ping at all.
	// An offline server never hosts anyone, whatever its roster says.
	Online bool

	// Names are the display names currently listed on the server.
	Names []string

	// UUIDs are the raw player identifiers currently listed on the server.
	UUIDs []string
}

// Client queries the server status API.
type Client struct {
	// BaseURL can be overridden before the first request, mainly for tests.
	BaseURL string

	http *http.Client
}

// NewClient creates a status client on top of the shared HTTP client.
func NewClient(httpClient *http.Client) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		http:    httpClient,
	}
}

// Probe fetches the status payload for one server address.
// Transport failures, timeouts, and non-2xx answers are returned as plain
// errors; the caller treats them as "no match" without retrying.
func (c *Client) Probe(ctx context.Context, address string) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+url.PathEscape(address), nil)
	if err != nil {
		return Status{}, fmt.Errorf("build status request for %s: %w", address, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Status{}, fmt.Errorf("fetch status for %s: %w", address, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Status{}, fmt.Errorf("fetch status for %s: unexpected status %d", address, resp.StatusCode)
	}

	var payload statusPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Status{}, fmt.Errorf("decode status for %s: %w", address, err)
	}

	return Status{
		Online: payload.Online,
		Names:  extractEntries(payload.Players.List, "name"),
		UUIDs:  extractEntries(payload.Players.UUID, "uuid"),
	}, nil
}

// statusPayload mirrors the wire shape of the status API. The roster arrays
// are kept raw because each entry may be a bare string or an object.
type statusPayload struct {
	Online  bool `json:"online"`
	Players struct {
		List []json.RawMessage `json:"list"`
		UUID []json.RawMessage `json:"uuid"`
	} `json:"players"`
}

// extractEntries flattens a roster array whose entries are either bare
// strings or objects holding the value under key. Entries of any other
// shape, and empty values, are skipped.
func extractEntries(entries []json.RawMessage, key string) []string {
	values := make([]string, 0, len(entries))
	for _, entry := range entries {
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			if s != "" {
				values = append(values, s)
			}
			continue
		}

		var obj map[string]json.RawMessage
		if err := json.Unmarshal(entry, &obj); err != nil {
			continue
		}
		if raw, ok := obj[key]; ok {
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				values = append(values, s)
			}
		}
	}

	return values
}
