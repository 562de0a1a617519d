package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/maulas/quiniela/pkg/logger"
)

// newHTTPClient creates an HTTP client with the configured timeout.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// verifyService asks a running service to reload the freshly seeded
// store and checks the standings come back with every member.
func verifyService(ctx context.Context, config *Config, stats *Stats) error {
	logger.Get().Info(ctx, "verifying against running service", logger.String("baseURL", config.BaseURL))

	client := newHTTPClient(config.Timeout)

	if err := postJSON(ctx, client, config.BaseURL+"/api/v1/reload"); err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.BaseURL+"/api/v1/standings", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(ctx, "failed to close response body", logger.Error(err))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("standings returned status %d", resp.StatusCode)
	}

	var standings []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&standings); err != nil {
		return fmt.Errorf("failed to decode standings: %w", err)
	}
	if len(standings) != stats.MembersCreated {
		return fmt.Errorf("standings returned %d members, want %d", len(standings), stats.MembersCreated)
	}

	logger.Get().Info(ctx, "service verified", logger.Int("standings", len(standings)))
	return nil
}

// postJSON issues an empty POST and expects a 2xx answer.
func postJSON(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(ctx, "failed to close response body", logger.Error(err))
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	return nil
}
