package blocklist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoSources is returned when no enabled source is configured.
var ErrNoSources = errors.New("no enabled sources")

// Aggregator merges the hosts of several sources into one deduplicated,
// sorted list.
type Aggregator struct {
	sources  []Source
	fetcher  Fetcher
	excluded *HostSet
	failFast bool
	log      *slog.Logger
}

// Options configures an Aggregator.
type Options struct {
	Sources []Source
	Fetcher Fetcher
	// Excluded defaults to the sentinel hosts.
	Excluded *HostSet
	// FailFast aborts the run on the first source that cannot be fetched.
	// Otherwise failing sources are skipped with a warning.
	FailFast bool
	Log      *slog.Logger
}

// NewAggregator constructs an Aggregator.
func NewAggregator(opts Options) *Aggregator {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	excluded := opts.Excluded
	if excluded == nil {
		excluded = NewExcludedSet()
	}
	return &Aggregator{
		sources:  opts.Sources,
		fetcher:  opts.Fetcher,
		excluded: excluded,
		failFast: opts.FailFast,
		log:      log,
	}
}

// Collect fetches every enabled source in order, unions their hosts and
// removes the excluded ones.
func (a *Aggregator) Collect(ctx context.Context) (*HostSet, Report, error) {
	hosts := NewHostSet()
	report := Report{}
	attempted := 0

	for _, source := range a.sources {
		if !source.Enabled {
			a.log.Debug("source disabled", "source", source.ID)
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		attempted++

		set, stats, err := a.loadSource(ctx, source)
		report.Sources = append(report.Sources, SourceReport{ID: source.ID, Stats: stats, Err: err})
		if err != nil {
			if a.failFast || ctx.Err() != nil {
				return nil, report, err
			}
			a.log.Warn("skipping source", "source", source.ID, "error", err)
			continue
		}

		hosts.Merge(set)
		a.log.Info("merged hosts list", "source", source.ID, "lines", stats.TotalLines, "hosts", stats.Hosts)
	}

	if attempted == 0 {
		return nil, report, ErrNoSources
	}
	if failed := report.Failed(); failed == attempted {
		return nil, report, fmt.Errorf("all %d sources failed", failed)
	}

	report.Excluded = hosts.Subtract(a.excluded)
	report.Unique = hosts.Len()
	return hosts, report, nil
}

// Build runs Collect and returns the resulting hosts in ascending order.
func (a *Aggregator) Build(ctx context.Context) ([]string, Report, error) {
	hosts, report, err := a.Collect(ctx)
	if err != nil {
		return nil, report, err
	}
	return hosts.Sorted(), report, nil
}

func (a *Aggregator) loadSource(ctx context.Context, source Source) (*HostSet, ParseStats, error) {
	data, err := a.fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, ParseStats{}, err
	}

	set := NewHostSet()
	stats, err := parseList(bytes.NewReader(data), set, parseOptions{
		ListID: source.ID,
		Logger: a.log,
	})
	if err != nil {
		return nil, stats, fmt.Errorf("parse %s: %w", source.ID, err)
	}
	return set, stats, nil
}
