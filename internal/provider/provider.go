// Package provider is the orchestration layer and caller-facing surface of
// the ingestion core. It owns the process-wide memoized results, the station
// catalog and each station's normalized series, with single-flight semantics
// so concurrent callers never trigger duplicate network fetches.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/wichmann/retrowetter/internal/domain"
	"github.com/wichmann/retrowetter/internal/observability"
)

// StationLister loads the full station reference table.
type StationLister interface {
	ListStations() ([]domain.StationRecord, error)
}

// ArchiveResolver maps a station to its published archive.
type ArchiveResolver interface {
	ResolveArchive(ctx context.Context, stationID string, g domain.Granularity) (domain.ArchiveDescriptor, bool, error)
}

// RowLoader downloads and tokenizes an archive into raw rows.
type RowLoader interface {
	LoadRawRows(ctx context.Context, desc domain.ArchiveDescriptor) ([]domain.RawRow, error)
}

// Options tune caching and the optional monthly fetch.
type Options struct {
	// CacheTTL is how long memoized results stay fresh. Zero caches for the
	// process lifetime.
	CacheTTL time.Duration

	// FetchMonthly warms the monthly raw rows alongside each daily load.
	FetchMonthly bool

	// Clock defaults to the real clock; tests inject a fake to exercise
	// expiry.
	Clock clockwork.Clock
}

// Provider wires catalog, resolver, and loader into the caller-facing API.
type Provider struct {
	catalog  StationLister
	resolver ArchiveResolver
	loader   RowLoader
	logger   *slog.Logger
	metrics  *observability.Metrics

	clock        clockwork.Clock
	ttl          time.Duration
	fetchMonthly bool

	group    singleflight.Group
	mu       sync.Mutex
	stations *stationsEntry
	series   map[string]*seriesEntry
	monthly  map[string]*monthlyEntry
}

type stationsEntry struct {
	records []domain.StationRecord
	at      time.Time
}

type seriesEntry struct {
	series domain.NormalizedSeries
	found  bool
	at     time.Time
}

type monthlyEntry struct {
	rows  []domain.RawRow
	found bool
	at    time.Time
}

// New creates a Provider.
func New(catalog StationLister, resolver ArchiveResolver, loader RowLoader, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Provider {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Provider{
		catalog:      catalog,
		resolver:     resolver,
		loader:       loader,
		logger:       logger,
		metrics:      metrics,
		clock:        clock,
		ttl:          opts.CacheTTL,
		fetchMonthly: opts.FetchMonthly,
		series:       make(map[string]*seriesEntry),
		monthly:      make(map[string]*monthlyEntry),
	}
}

// CheckReadiness reports nil once the station catalog has been loaded.
func (p *Provider) CheckReadiness(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stations == nil {
		return errors.New("station catalog not loaded yet")
	}
	return nil
}

// ListStations returns the memoized station catalog, loading it on first use.
// The catalog is a local read, so the context is accepted only for interface
// symmetry with the network-backed calls.
func (p *Provider) ListStations(_ context.Context) ([]domain.StationRecord, error) {
	p.mu.Lock()
	if p.stations != nil && p.fresh(p.stations.at) {
		records := p.stations.records
		p.mu.Unlock()
		p.metrics.CacheLookups.WithLabelValues("stations", "hit").Inc()
		return records, nil
	}
	p.mu.Unlock()
	p.metrics.CacheLookups.WithLabelValues("stations", "miss").Inc()

	v, err, _ := p.group.Do("stations", func() (any, error) {
		p.mu.Lock()
		if p.stations != nil && p.fresh(p.stations.at) {
			records := p.stations.records
			p.mu.Unlock()
			return records, nil
		}
		p.mu.Unlock()

		records, err := p.catalog.ListStations()
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.stations = &stationsEntry{records: records, at: p.clock.Now()}
		p.mu.Unlock()
		p.metrics.CatalogLoaded.Set(1)
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.StationRecord), nil
}

// ResolveAndLoad resolves the station's daily archive, loads it, and returns
// the normalized series. The identifier may be any form accepted by
// domain.CanonicalStationID; invalid identifiers are rejected before any
// network call. The boolean is false when the remote index lists no archive
// for the station. Results, including "no archive", are memoized per station.
func (p *Provider) ResolveAndLoad(ctx context.Context, stationIdentifier any) (domain.NormalizedSeries, bool, error) {
	id, err := domain.CanonicalStationID(stationIdentifier)
	if err != nil {
		return domain.NormalizedSeries{}, false, err
	}

	p.mu.Lock()
	if e, ok := p.series[id]; ok && p.fresh(e.at) {
		p.mu.Unlock()
		p.metrics.CacheLookups.WithLabelValues("series", "hit").Inc()
		return e.series, e.found, nil
	}
	p.mu.Unlock()
	p.metrics.CacheLookups.WithLabelValues("series", "miss").Inc()

	v, err, _ := p.group.Do("series:"+id, func() (any, error) {
		p.mu.Lock()
		if e, ok := p.series[id]; ok && p.fresh(e.at) {
			p.mu.Unlock()
			return *e, nil
		}
		p.mu.Unlock()

		entry, err := p.loadSeries(ctx, id)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.series[id] = &entry
		p.mu.Unlock()

		if p.fetchMonthly {
			p.warmMonthly(ctx, id)
		}
		return entry, nil
	})
	if err != nil {
		return domain.NormalizedSeries{}, false, err
	}
	e := v.(seriesEntry)
	return e.series, e.found, nil
}

// MonthlyRawRows resolves and loads the station's monthly archive, returning
// its raw rows. Monthly data is exposed untyped: the monthly product has a
// different column set and no consumer normalizes it yet.
func (p *Provider) MonthlyRawRows(ctx context.Context, stationIdentifier any) ([]domain.RawRow, bool, error) {
	id, err := domain.CanonicalStationID(stationIdentifier)
	if err != nil {
		return nil, false, err
	}

	p.mu.Lock()
	if e, ok := p.monthly[id]; ok && p.fresh(e.at) {
		p.mu.Unlock()
		p.metrics.CacheLookups.WithLabelValues("monthly", "hit").Inc()
		return e.rows, e.found, nil
	}
	p.mu.Unlock()
	p.metrics.CacheLookups.WithLabelValues("monthly", "miss").Inc()

	v, err, _ := p.group.Do("monthly:"+id, func() (any, error) {
		p.mu.Lock()
		if e, ok := p.monthly[id]; ok && p.fresh(e.at) {
			p.mu.Unlock()
			return *e, nil
		}
		p.mu.Unlock()

		entry, err := p.loadMonthly(ctx, id)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.monthly[id] = &entry
		p.mu.Unlock()
		return entry, nil
	})
	if err != nil {
		return nil, false, err
	}
	e := v.(monthlyEntry)
	return e.rows, e.found, nil
}

// Invalidate drops the memoized series for one station so the next call
// refetches. The catalog entry is left alone.
func (p *Provider) Invalidate(stationIdentifier any) error {
	id, err := domain.CanonicalStationID(stationIdentifier)
	if err != nil {
		return err
	}
	p.mu.Lock()
	delete(p.series, id)
	delete(p.monthly, id)
	p.mu.Unlock()
	return nil
}

func (p *Provider) loadSeries(ctx context.Context, id string) (seriesEntry, error) {
	desc, found, err := p.resolver.ResolveArchive(ctx, id, domain.GranularityDaily)
	if err != nil {
		return seriesEntry{}, err
	}
	if !found {
		return seriesEntry{found: false, at: p.clock.Now()}, nil
	}

	raw, err := p.loader.LoadRawRows(ctx, desc)
	if err != nil {
		return seriesEntry{}, err
	}

	series, err := domain.Normalize(id, raw)
	if err != nil {
		return seriesEntry{}, err
	}

	if dropped := len(raw) - len(series.Rows); dropped > 0 {
		p.metrics.RowsDropped.Add(float64(dropped))
		p.logger.Warn("rows dropped during normalization", "station", id, "dropped", dropped)
	}

	p.logger.Info("series loaded", "station", id, "rows", len(series.Rows),
		"from", desc.PeriodStart.Format(time.DateOnly), "to", desc.PeriodEnd.Format(time.DateOnly))
	return seriesEntry{series: series, found: true, at: p.clock.Now()}, nil
}

func (p *Provider) loadMonthly(ctx context.Context, id string) (monthlyEntry, error) {
	desc, found, err := p.resolver.ResolveArchive(ctx, id, domain.GranularityMonthly)
	if err != nil {
		return monthlyEntry{}, err
	}
	if !found {
		return monthlyEntry{found: false, at: p.clock.Now()}, nil
	}

	rows, err := p.loader.LoadRawRows(ctx, desc)
	if err != nil {
		return monthlyEntry{}, fmt.Errorf("monthly archive: %w", err)
	}
	return monthlyEntry{rows: rows, found: true, at: p.clock.Now()}, nil
}

// warmMonthly pre-fetches monthly rows alongside a daily load. Failures are
// logged, not surfaced: monthly data is supplemental to the daily series.
func (p *Provider) warmMonthly(ctx context.Context, id string) {
	if _, _, err := p.MonthlyRawRows(ctx, id); err != nil {
		p.logger.Warn("monthly warm-up failed", "station", id, "error", err)
	}
}

func (p *Provider) fresh(at time.Time) bool {
	return p.ttl == 0 || p.clock.Since(at) < p.ttl
}
