// Package geo resolves source IPs to coarse location and proxy flags.
// Lookups are best-effort: a failed or missing provider yields the
// unknown location and never an error, so adjudication always proceeds.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

type Location struct {
	Country string `json:"country"`
	Region  string `json:"region"`
	Proxy   bool   `json:"proxy"`
	Hosting bool   `json:"hosting"`
	Known   bool   `json:"known"`
}

// Unknown is the safe default returned when the provider is absent or
// unreachable. Known=false suppresses every geo signal downstream.
var Unknown = Location{}

type Resolver interface {
	Resolve(ctx context.Context, ip string) Location
}

type noopResolver struct{}

func (noopResolver) Resolve(ctx context.Context, ip string) Location {
	return Unknown
}

type httpResolver struct {
	baseURL string
	client  *http.Client
}

func New(providerURL string, timeout time.Duration) Resolver {
	if providerURL == "" {
		return noopResolver{}
	}
	return &httpResolver{
		baseURL: providerURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (r *httpResolver) Resolve(ctx context.Context, ip string) Location {
	endpoint := fmt.Sprintf("%s?ip=%s", r.baseURL, url.QueryEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		slog.Warn("geo lookup request build failed", "err", err)
		return Unknown
	}

	resp, err := r.client.Do(req)
	if err != nil {
		slog.Warn("geo lookup failed", "ip", ip, "err", err)
		return Unknown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("geo lookup rejected", "ip", ip, "status", resp.StatusCode)
		return Unknown
	}

	var loc Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		slog.Warn("geo lookup decode failed", "ip", ip, "err", err)
		return Unknown
	}
	loc.Known = loc.Country != ""
	return loc
}

// Static returns a resolver backed by a fixed table, keyed by IP.
// Used in tests and local development.
func Static(table map[string]Location) Resolver {
	return staticResolver(table)
}

type staticResolver map[string]Location

func (s staticResolver) Resolve(ctx context.Context, ip string) Location {
	if loc, ok := s[ip]; ok {
		loc.Known = loc.Country != ""
		return loc
	}
	return Unknown
}
