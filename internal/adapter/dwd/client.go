// Package dwd talks to the DWD open-data server: it resolves a station to
// its historical archive from the directory listing and downloads and
// decodes the archive's measurement entry.
package dwd

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/wichmann/retrowetter/internal/domain"
	"github.com/wichmann/retrowetter/internal/observability"
)

// archivePrefix is the filename token used in the directory listing.
func archivePrefix(g domain.Granularity) (string, error) {
	switch g {
	case domain.GranularityDaily:
		return "tageswerte", nil
	case domain.GranularityMonthly:
		return "monatswerte", nil
	}
	return "", fmt.Errorf("unknown granularity %q", g)
}

// productToken is the token used in the measurement entry name inside the zip.
func productToken(g domain.Granularity) string {
	if g == domain.GranularityMonthly {
		return "monat"
	}
	return "tag"
}

// Client fetches directory listings and archives from the DWD server.
// Base URLs must end with a trailing slash; listing hrefs are appended
// directly, mirroring how the server publishes them.
type Client struct {
	httpClient     *http.Client
	dailyBaseURL   string
	monthlyBaseURL string
	metrics        *observability.Metrics
	logger         *slog.Logger
}

// NewClient creates a DWD client with the given base URLs and per-request
// timeout.
func NewClient(dailyBaseURL, monthlyBaseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: timeout},
		dailyBaseURL:   dailyBaseURL,
		monthlyBaseURL: monthlyBaseURL,
		metrics:        metrics,
		logger:         logger,
	}
}

func (c *Client) baseURL(g domain.Granularity) string {
	if g == domain.GranularityMonthly {
		return c.monthlyBaseURL
	}
	return c.dailyBaseURL
}
