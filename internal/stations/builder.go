package stations

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/amedas-etl/internal/adapter/jma"
	"github.com/couchcryptid/amedas-etl/internal/domain"
)

// PageFetcher returns the body of one upstream page or a *domain.FetchError.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Builder assembles the station registry from the two-level selector pages
// and the AMeDAS station feed.
type Builder struct {
	fetcher  PageFetcher
	baseURL  string
	feedURL  string
	throttle time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithThrottle pauses between prefecture page fetches.
func WithThrottle(d time.Duration) Option {
	return func(b *Builder) { b.throttle = d }
}

// WithClock replaces the clock used for throttling.
func WithClock(c clockwork.Clock) Option {
	return func(b *Builder) { b.clock = c }
}

// NewBuilder creates a Builder reading selector pages under baseURL and the
// station feed at feedURL.
func NewBuilder(f PageFetcher, baseURL, feedURL string, logger *slog.Logger, opts ...Option) *Builder {
	b := &Builder{
		fetcher: f,
		baseURL: baseURL,
		feedURL: feedURL,
		clock:   clockwork.NewRealClock(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns every station that appears both on a prefecture selector
// page and in the station feed. Records are unique by block_no: a repeated
// anchor keeps the first record in selector order, and a repeat whose fields
// differ from the kept one is logged. Any fetch or parse failure aborts the
// build.
func (b *Builder) Build(ctx context.Context) ([]domain.StationRecord, error) {
	body, err := b.fetcher.Fetch(ctx, domain.SelectorURL(b.baseURL))
	if err != nil {
		return nil, err
	}
	areas, err := jma.ParseAreas(body)
	if err != nil {
		return nil, fmt.Errorf("selector page: %w", err)
	}

	feed, err := b.fetchFeed(ctx)
	if err != nil {
		return nil, err
	}

	var (
		out     []domain.StationRecord
		seen    = make(map[string]domain.StationRecord)
		dropped int
	)
	for i, area := range areas {
		if i > 0 {
			if err := domain.Pause(ctx, b.clock, b.throttle); err != nil {
				return nil, err
			}
		}
		body, err := b.fetcher.Fetch(ctx, domain.PrefectureURL(b.baseURL, area.PrecNo))
		if err != nil {
			return nil, err
		}
		anchors, skipped, err := jma.ParseStationAnchors(body)
		if err != nil {
			return nil, fmt.Errorf("prefecture %s: %w", area.PrecNo, err)
		}
		if skipped > 0 {
			b.logger.Debug("skipped anchors without block_no", "prec_no", area.PrecNo, "count", skipped)
		}

		for _, a := range anchors {
			if _, err := domain.ClassOf(a.BlockNo); err != nil {
				b.logger.Warn("skipping station with invalid block_no", "prec_no", area.PrecNo, "station", a.Name, "error", err)
				continue
			}
			match, ok := pickFeedStation(feed[a.Name], a)
			if !ok {
				dropped++
				b.logger.Debug("station absent from feed", "prec_no", area.PrecNo, "block_no", a.BlockNo, "station", a.Name)
				continue
			}
			rec := domain.StationRecord{
				Name:     a.Name,
				EnName:   match.EnName,
				Area:     area.Name,
				PrecNo:   area.PrecNo,
				BlockNo:  a.BlockNo,
				Lon:      match.Lon,
				Lat:      match.Lat,
				Observed: match.Observed,
			}
			if prev, ok := seen[rec.BlockNo]; ok {
				if prev != rec {
					b.logger.Warn("conflicting duplicate block_no, keeping first",
						"block_no", rec.BlockNo, "kept_prec_no", prev.PrecNo, "dropped_prec_no", rec.PrecNo)
				}
				continue
			}
			seen[rec.BlockNo] = rec
			out = append(out, rec)
		}
	}

	b.logger.Info("station registry built", "areas", len(areas), "stations", len(out), "unmatched", dropped)
	return out, nil
}

func (b *Builder) fetchFeed(ctx context.Context) (map[string][]jma.FeedStation, error) {
	body, err := b.fetcher.Fetch(ctx, b.feedURL)
	if err != nil {
		return nil, err
	}
	entries, err := jma.DecodeStationFeed(body)
	if err != nil {
		return nil, err
	}
	byName := make(map[string][]jma.FeedStation, len(entries))
	for _, e := range entries {
		byName[e.KjName] = append(byName[e.KjName], e)
	}
	return byName, nil
}

// pickFeedStation joins an anchor to the feed by name. Several feed entries
// can share a name; the one closest to the anchor's own coordinates wins.
func pickFeedStation(candidates []jma.FeedStation, a jma.StationAnchor) (jma.FeedStation, bool) {
	switch {
	case len(candidates) == 0:
		return jma.FeedStation{}, false
	case len(candidates) == 1 || !a.HasCoords:
		return candidates[0], true
	}
	best, bestDist := 0, math.Inf(1)
	for i, c := range candidates {
		d := math.Abs(c.Lat-a.Lat) + math.Abs(c.Lon-a.Lon)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return candidates[best], true
}
