package dwd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"golang.org/x/net/html"

	"github.com/wichmann/retrowetter/internal/domain"
)

// archiveNameRe matches historical KL archive filenames in the directory
// listing, e.g. tageswerte_KL_00078_19190101_20241231_hist.zip.
var archiveNameRe = regexp.MustCompile(`^(tageswerte|monatswerte)_KL_(\d{5})_(\d{8})_(\d{8})_hist\.zip$`)

// ResolveArchive fetches the directory listing for the given granularity and
// returns the archive descriptor for the station. The listing is an HTML
// page; every anchor href is checked against the archive filename pattern.
// Stations with several published editions resolve to the first match in
// listing order. The boolean is false when the listing has no archive for
// the station, which is a normal "no data" outcome, not an error.
func (c *Client) ResolveArchive(ctx context.Context, stationID string, g domain.Granularity) (domain.ArchiveDescriptor, bool, error) {
	prefix, err := archivePrefix(g)
	if err != nil {
		return domain.ArchiveDescriptor{}, false, err
	}

	base := c.baseURL(g)
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		return domain.ArchiveDescriptor{}, false, fmt.Errorf("create listing request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.IndexFetches.WithLabelValues(string(g), "error").Inc()
		return domain.ArchiveDescriptor{}, false, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()
	c.metrics.FetchDuration.WithLabelValues("index").Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		c.metrics.IndexFetches.WithLabelValues(string(g), "error").Inc()
		return domain.ArchiveDescriptor{}, false, fmt.Errorf("%w: status %d from %s", domain.ErrRemoteUnavailable, resp.StatusCode, base)
	}

	href, ok := firstMatchingHref(resp.Body, prefix, stationID)
	if !ok {
		c.metrics.IndexFetches.WithLabelValues(string(g), "not_found").Inc()
		c.logger.Info("no archive listed for station", "station", stationID, "granularity", g)
		return domain.ArchiveDescriptor{}, false, nil
	}

	groups := archiveNameRe.FindStringSubmatch(href)
	startDate, endDate := groups[3], groups[4]
	periodStart, err := domain.ParseMeasurementDate(startDate)
	if err != nil {
		return domain.ArchiveDescriptor{}, false, fmt.Errorf("listing entry %s: %w", href, err)
	}
	periodEnd, err := domain.ParseMeasurementDate(endDate)
	if err != nil {
		return domain.ArchiveDescriptor{}, false, fmt.Errorf("listing entry %s: %w", href, err)
	}

	c.metrics.IndexFetches.WithLabelValues(string(g), "resolved").Inc()
	return domain.ArchiveDescriptor{
		StationID:   stationID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		URL:         base + href,
		EntryName:   fmt.Sprintf("produkt_klima_%s_%s_%s_%s.txt", productToken(g), startDate, endDate, stationID),
	}, true, nil
}

// firstMatchingHref tokenizes the listing HTML and returns the first anchor
// href naming an archive for the station. The page is treated as a flat
// index: surrounding markup is ignored, only <a href> values matter.
func firstMatchingHref(body io.Reader, prefix, stationID string) (string, bool) {
	z := html.NewTokenizer(body)
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed markup past the links we care about.
			return "", false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if len(name) != 1 || name[0] != 'a' || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" {
					href := string(val)
					if m := archiveNameRe.FindStringSubmatch(href); m != nil && m[1] == prefix && m[2] == stationID {
						return href, true
					}
				}
				if !more {
					break
				}
			}
		}
	}
}
