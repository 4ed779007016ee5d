// Package mojang resolves player names to canonical UUIDs using the Mojang
// profile directory API.
package mojang

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// DefaultBaseURL is the Mojang name to UUID profile endpoint.
const DefaultBaseURL = "https://api.mojang.com/users/profiles/minecraft/"

// uuidPattern matches a 32 hex character UUID, bare or hyphenated 8-4-4-4-12.
var uuidPattern = regexp.MustCompile(
	`^[0-9a-fA-F]{32}$|^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

var (
	// ErrPlayerNotFound means the directory explicitly knows no such name.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrDirectoryUnavailable means the directory could not be queried at all.
	ErrDirectoryUnavailable = errors.New("profile directory unavailable")
)

// PlayerIdentity is the resolved target of one lookup.
// UUID is always in normalized form (lowercase, hyphens stripped).
type PlayerIdentity struct {
	Name string
	UUID string
}

// Client queries the Mojang profile directory.
type Client struct {
	// BaseURL can be overridden before the first request, mainly for tests.
	BaseURL string

	http *http.Client
}

// NewClient creates a directory client on top of the shared HTTP client.
func NewClient(httpClient *http.Client) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		http:    httpClient,
	}
}

// IsUUID reports whether the input already has the canonical identifier shape.
func IsUUID(input string) bool {
	return uuidPattern.MatchString(input)
}

// NormalizeUUID lowercases an identifier and strips hyphens.
// The operation is idempotent.
func NormalizeUUID(value string) string {
	return strings.ToLower(strings.ReplaceAll(value, "-", ""))
}

// Resolve turns a raw user-supplied string into a PlayerIdentity.
// UUID-shaped input is accepted directly without any network call, anything
// else goes through the directory. A directory answer of "no such name"
// yields ErrPlayerNotFound, transport or HTTP failures yield
// ErrDirectoryUnavailable.
func (c *Client) Resolve(ctx context.Context, input string) (PlayerIdentity, error) {
	if IsUUID(input) {
		return PlayerIdentity{Name: input, UUID: NormalizeUUID(input)}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+url.PathEscape(input), nil)
	if err != nil {
		return PlayerIdentity{}, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return PlayerIdentity{}, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return PlayerIdentity{}, ErrPlayerNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PlayerIdentity{}, fmt.Errorf("%w: unexpected status %d", ErrDirectoryUnavailable, resp.StatusCode)
	}

	var profile struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return PlayerIdentity{}, fmt.Errorf("%w: decode response: %v", ErrDirectoryUnavailable, err)
	}

	if profile.ID == "" {
		return PlayerIdentity{}, ErrPlayerNotFound
	}

	return PlayerIdentity{Name: input, UUID: NormalizeUUID(profile.ID)}, nil
}
