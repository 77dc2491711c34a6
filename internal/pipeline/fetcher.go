package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/amedas-etl/internal/adapter/jma"
	"github.com/couchcryptid/amedas-etl/internal/domain"
	"github.com/couchcryptid/amedas-etl/internal/observability"
)

// PageFetcher returns the body of one upstream page or a *domain.FetchError.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// TableParser extracts the raw cell text of an observation page.
type TableParser func(body []byte) (domain.Frame, error)

// Fetcher assembles canonical observation tables one station page at a time.
// Stations and units are processed strictly in the order given.
type Fetcher struct {
	pages    PageFetcher
	parse    TableParser
	baseURL  string
	throttle time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithThrottle sets the pause between consecutive station fetches.
func WithThrottle(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.throttle = d }
}

// WithClock replaces the clock used for throttling.
func WithClock(c clockwork.Clock) FetcherOption {
	return func(f *Fetcher) { f.clock = c }
}

// WithParser replaces the observation page parser.
func WithParser(p TableParser) FetcherOption {
	return func(f *Fetcher) { f.parse = p }
}

// NewFetcher creates a Fetcher reading observation pages under baseURL.
func NewFetcher(pages PageFetcher, baseURL string, logger *slog.Logger, metrics *observability.Metrics, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		pages:   pages,
		parse:   jma.ParseObservationTable,
		baseURL: baseURL,
		clock:   clockwork.NewRealClock(),
		logger:  logger,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch builds one table covering every unit for every station. Units are
// dates for sub-daily cadences and months for daily; each is normalized to
// its fetch unit and must be strictly increasing, so a repeated or
// out-of-order unit fails with ErrInvalidInput before any page is fetched,
// as does a station listed twice. Stations and units are processed in the
// order given. The first failure aborts the whole call and no partial table
// is returned.
func (f *Fetcher) Fetch(ctx context.Context, stations []domain.StationRecord, c domain.Cadence, units []time.Time) (*domain.Table, error) {
	normalized, err := validateRequest(stations, c, units)
	if err != nil {
		return nil, err
	}

	out := &domain.Table{Cadence: c}
	expectedRows := 0
	fetched := 0
	for _, unit := range normalized {
		f.logger.Info("fetching unit", "cadence", c.String(), "unit", unit.Format("2006-01-02"), "stations", len(stations))

		spine := c.Spine(unit)
		expectedRows += len(spine)
		tbl := domain.NewTable(c, spine)
		for _, st := range stations {
			if fetched > 0 {
				if err := domain.Pause(ctx, f.clock, f.throttle); err != nil {
					return nil, err
				}
			}
			fetched++

			block, err := f.fetchStation(ctx, st, c, unit, len(spine))
			if err != nil {
				return nil, fmt.Errorf("%s unit %s block_no %s: %w", c, unit.Format("2006-01-02"), st.BlockNo, err)
			}
			if err := tbl.Attach(block); err != nil {
				return nil, fmt.Errorf("%s unit %s block_no %s: %w", c, unit.Format("2006-01-02"), st.BlockNo, err)
			}
		}
		if err := out.Append(tbl); err != nil {
			return nil, fmt.Errorf("%s unit %s: %w", c, unit.Format("2006-01-02"), err)
		}
		f.metrics.UnitsFetched.Inc()
		f.logger.Info("unit fetched", "cadence", c.String(), "unit", unit.Format("2006-01-02"), "rows", tbl.NumRows())
	}

	if out.NumRows() != expectedRows {
		return nil, fmt.Errorf("%w: table has %d rows, want %d", domain.ErrSchema, out.NumRows(), expectedRows)
	}
	if want := len(stations) * len(c.Elements()); out.NumCols() != want {
		return nil, fmt.Errorf("%w: table has %d columns, want %d", domain.ErrSchema, out.NumCols(), want)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *Fetcher) fetchStation(ctx context.Context, st domain.StationRecord, c domain.Cadence, unit time.Time, rows int) (domain.Block, error) {
	url, err := domain.ObservationURL(f.baseURL, st, c, unit)
	if err != nil {
		return domain.Block{}, err
	}
	f.logger.Debug("fetching station", "block_no", st.BlockNo, "url", url)

	body, err := f.pages.Fetch(ctx, url)
	if err != nil {
		return domain.Block{}, err
	}
	raw, err := f.parse(body)
	if err != nil {
		return domain.Block{}, err
	}
	if len(raw.Cells) != rows {
		return domain.Block{}, fmt.Errorf("%w: page has %d rows, want %d", domain.ErrSchema, len(raw.Cells), rows)
	}
	resolved, err := domain.Resolve(raw, c, st)
	if err != nil {
		return domain.Block{}, err
	}
	return domain.Normalize(resolved)
}

func validateRequest(stations []domain.StationRecord, c domain.Cadence, units []time.Time) ([]time.Time, error) {
	if len(stations) == 0 {
		return nil, fmt.Errorf("%w: at least one station is required", domain.ErrInvalidInput)
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: at least one date or month is required", domain.ErrInvalidInput)
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: unknown cadence %d", domain.ErrInvalidInput, int(c))
	}

	seen := make(map[string]bool, len(stations))
	for _, st := range stations {
		if _, err := st.Class(); err != nil {
			return nil, err
		}
		if seen[st.BlockNo] {
			return nil, fmt.Errorf("%w: station %s listed twice", domain.ErrInvalidInput, st.BlockNo)
		}
		seen[st.BlockNo] = true
	}

	normalized := make([]time.Time, len(units))
	for i, u := range units {
		normalized[i] = c.Unit(u)
		if i > 0 && !normalized[i].After(normalized[i-1]) {
			return nil, fmt.Errorf("%w: unit %s does not follow %s", domain.ErrInvalidInput,
				normalized[i].Format("2006-01-02"), normalized[i-1].Format("2006-01-02"))
		}
	}
	return normalized, nil
}
