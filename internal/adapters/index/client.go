// Package index implements the DistributionIndex port against a remote JSON
// package index.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pakt-dev/pakt/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// DefaultBaseURL is the public pakt distribution index.
	DefaultBaseURL = "https://index.pakt.dev"

	httpClientTimeout = 30 * time.Second

	// maxAttempts bounds retries of transient index failures.
	maxAttempts = 3
	// initialBackoff is doubled after every failed attempt.
	initialBackoff = 250 * time.Millisecond
)

// Client queries a remote distribution index over HTTP. Transient failures
// (network errors, 5xx responses) are retried with exponential backoff; a
// persistent failure surfaces as domain.ErrIndexRequestFailed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates an index client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: httpClientTimeout},
		backoff:    initialBackoff,
	}
}

// newClientWith creates a Client with a custom http client and backoff
// (used for testing).
func newClientWith(baseURL string, httpClient *http.Client, backoff time.Duration) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient, backoff: backoff}
}

// versionsResponse is the index document for one package.
type versionsResponse struct {
	Name     string       `json:"name"`
	Versions []versionDTO `json:"versions"`
}

type versionDTO struct {
	Version      string          `json:"version"`
	Python       string          `json:"python,omitempty"`
	Platform     string          `json:"platform,omitempty"`
	Dependencies []dependencyDTO `json:"dependencies,omitempty"`
	Source       string          `json:"source"`
	Hash         string          `json:"hash"`
}

type dependencyDTO struct {
	Name       string `json:"name"`
	Constraint string `json:"constraint,omitempty"`
	Python     string `json:"python,omitempty"`
	Platform   string `json:"platform,omitempty"`
}

// GetVersions returns all known versions of the package.
func (c *Client) GetVersions(ctx context.Context, name string) ([]domain.Candidate, error) {
	url := fmt.Sprintf("%s/packages/%s.json", c.baseURL, name)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp versionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, zerr.Wrap(err, domain.ErrIndexParseFailed.Error())
	}

	cands := make([]domain.Candidate, 0, len(resp.Versions))
	for _, v := range resp.Versions {
		parsed, err := domain.ParseVersion(v.Version)
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrIndexParseFailed.Error())
		}
		deps := make([]domain.Dependency, 0, len(v.Dependencies))
		for _, d := range v.Dependencies {
			deps = append(deps, domain.Dependency{
				Name:       d.Name,
				Constraint: d.Constraint,
				Markers: domain.Markers{
					PythonVersion: d.Python,
					Platform:      d.Platform,
				},
			})
		}
		cands = append(cands, domain.Candidate{
			Name:    name,
			Version: parsed,
			Markers: domain.Markers{
				PythonVersion: v.Python,
				Platform:      v.Platform,
			},
			Dependencies: deps,
			SourceURL:    v.Source,
			Hash:         v.Hash,
		})
	}
	if len(cands) == 0 {
		return nil, zerr.With(domain.ErrDistributionNotFound, "package", name)
	}
	return cands, nil
}

// FetchArtifact downloads the distribution artifact for a lock entry.
func (c *Client) FetchArtifact(ctx context.Context, entry domain.LockEntry) ([]byte, error) {
	body, err := c.get(ctx, entry.Source)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrArtifactFetchFailed.Error())
	}
	return body, nil
}

// get performs a GET with bounded retry. A 404 maps to
// domain.ErrDistributionNotFound and is not retried.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		body, retryable, err := c.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, zerr.With(zerr.Wrap(lastErr, domain.ErrIndexRequestFailed.Error()), "url", url)
}

func (c *Client) getOnce(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, zerr.With(domain.ErrDistributionNotFound, "url", url)
	case resp.StatusCode >= 500:
		return nil, true, zerr.With(domain.ErrIndexRequestFailed, "status", resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, false, zerr.With(domain.ErrIndexRequestFailed, "status", resp.Status)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}
