// Package verdict asks an external classification service for a second
// opinion on a scored attempt. Failure degrades to VerdictNone so the
// router falls back to score-only thresholds.
package verdict

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	VerdictBlock         = "block"
	VerdictLikelyGenuine = "likely-genuine"
	VerdictUncertain     = "uncertain"
	VerdictNone          = "none"
)

type Client interface {
	Classify(ctx context.Context, score int, codes []string) string
}

type noopClient struct{}

func (noopClient) Classify(ctx context.Context, score int, codes []string) string {
	return VerdictNone
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func New(providerURL string, timeout time.Duration) Client {
	if providerURL == "" {
		return noopClient{}
	}
	return &httpClient{
		baseURL: providerURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) Classify(ctx context.Context, score int, codes []string) string {
	payload, err := json.Marshal(map[string]any{"score": score, "codes": codes})
	if err != nil {
		return VerdictNone
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return VerdictNone
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Warn("verdict lookup failed, falling back to score-only routing", "err", err)
		return VerdictNone
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("verdict lookup rejected", "status", resp.StatusCode)
		return VerdictNone
	}

	var out struct {
		Verdict string `json:"verdict"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		slog.Warn("verdict decode failed", "err", err)
		return VerdictNone
	}
	if out.Verdict == "" {
		return VerdictNone
	}
	return out.Verdict
}
